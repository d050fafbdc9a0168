package logger

import (
	"strings"
	"testing"

	logclient "serialcmd/sparkos/client/logger"
	"serialcmd/sparkos/kernel"
	"serialcmd/sparkos/proto"
)

type lines []string

func (l *lines) WriteLineString(s string) { *l = append(*l, s) }
func (l *lines) WriteLineBytes(b []byte)  { *l = append(*l, string(b)) }

type emitter struct {
	cap  kernel.Capability
	send func(*kernel.Context, kernel.Capability)
}

func (e *emitter) Step(ctx *kernel.Context) {
	if e.send != nil {
		e.send(ctx, e.cap)
		e.send = nil
	}
	ctx.BlockOnTick()
}

func TestServiceForwardsLogLines(t *testing.T) {
	k := kernel.New()
	ep := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)

	var out lines
	k.AddTask(New(&out, ep.Restrict(kernel.RightRecv)))

	long := strings.Repeat("x", kernel.MaxMessageBytes+10)
	var results []kernel.SendResult
	k.AddTask(&emitter{cap: ep.Restrict(kernel.RightSend), send: func(ctx *kernel.Context, c kernel.Capability) {
		results = append(results,
			logclient.Log(ctx, c, "boot"),
			logclient.Logf(ctx, c, "dispatch %q -> %s", "led on", "matched"),
			logclient.Log(ctx, c, long),
		)
		// Other kinds are ignored.
		ctx.SendTo(c, uint16(proto.MsgTermWrite), []byte("skip"))
	}})
	k.RunUntilIdle(16)

	for i, r := range results {
		if r != kernel.SendOK {
			t.Fatalf("send %d: %v", i, r)
		}
	}
	want := []string{"boot", `dispatch "led on" -> matched`, long[:kernel.MaxMessageBytes]}
	if len(out) != len(want) {
		t.Fatalf("got %d lines %q, want %d", len(out), out, len(want))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, out[i], want[i])
		}
	}
}

func TestLogWithoutContext(t *testing.T) {
	if got := logclient.Log(nil, kernel.Capability{}, "x"); got != kernel.SendErrInvalidToCap {
		t.Fatalf("Log(nil) = %v", got)
	}
}

func TestLogWithoutSendRight(t *testing.T) {
	k := kernel.New()
	ep := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)

	var got kernel.SendResult
	k.AddTask(&emitter{cap: ep.Restrict(kernel.RightRecv), send: func(ctx *kernel.Context, c kernel.Capability) {
		got = logclient.Log(ctx, c, "nope")
	}})
	k.RunUntilIdle(4)

	if got != kernel.SendErrToNoSendRight {
		t.Fatalf("Log = %v, want %v", got, kernel.SendErrToNoSendRight)
	}
}
