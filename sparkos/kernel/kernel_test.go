package kernel

import (
	"sync"
	"testing"
)

type stepFunc func(*Context)

func (f stepFunc) Step(ctx *Context) { f(ctx) }

func TestMailboxFull(t *testing.T) {
	var mb mailbox
	var msg Message

	for i := 0; i < mailboxSlots; i++ {
		if ok := mb.push(msg); !ok {
			t.Fatalf("push() ok = false at slot %d, want true", i)
		}
	}
	if ok := mb.push(msg); ok {
		t.Fatalf("push() ok = true when full, want false")
	}
	if got := mb.len(); got != mailboxSlots {
		t.Fatalf("len() = %d, want %d", got, mailboxSlots)
	}

	for i := 0; i < mailboxSlots; i++ {
		if _, ok := mb.pop(); !ok {
			t.Fatalf("pop() ok = false at slot %d, want true", i)
		}
	}
	if _, ok := mb.pop(); ok {
		t.Fatalf("pop() ok = true when empty, want false")
	}
}

func TestMessagePayloadClampsLen(t *testing.T) {
	var msg Message
	msg.Len = MaxMessageBytes + 10
	if got := len(msg.Payload()); got != MaxMessageBytes {
		t.Fatalf("expected payload length %d, got %d", MaxMessageBytes, got)
	}
}

func TestSendRights(t *testing.T) {
	k := New()
	ep := k.NewEndpoint(RightSend | RightRecv)
	ctx := &Context{k: k}

	if res := ctx.SendToCapResult(Capability{}, 1, nil, Capability{}); res != SendErrInvalidToCap {
		t.Fatalf("expected SendErrInvalidToCap, got %s", res)
	}
	if res := ctx.SendToCapResult(ep.Restrict(RightRecv), 1, nil, Capability{}); res != SendErrToNoSendRight {
		t.Fatalf("expected SendErrToNoSendRight, got %s", res)
	}
	big := make([]byte, MaxMessageBytes+1)
	if res := ctx.SendToCapResult(ep, 1, big, Capability{}); res != SendErrPayloadTooLarge {
		t.Fatalf("expected SendErrPayloadTooLarge, got %s", res)
	}

	if !ctx.SendTo(ep.Restrict(RightSend), 7, []byte("hi")) {
		t.Fatal("expected send to succeed")
	}
	if _, ok := ctx.Recv(ep.Restrict(RightSend)); ok {
		t.Fatal("expected Recv without recv right to fail")
	}
	msg, ok := ctx.Recv(ep.Restrict(RightRecv))
	if !ok {
		t.Fatal("expected message")
	}
	if msg.Kind != 7 || string(msg.Payload()) != "hi" {
		t.Fatalf("unexpected message kind=%d payload=%q", msg.Kind, msg.Payload())
	}
}

func TestSendQueueFull(t *testing.T) {
	k := New()
	ep := k.NewEndpoint(RightSend | RightRecv)
	ctx := &Context{k: k}

	for i := 0; i < mailboxSlots; i++ {
		if res := ctx.SendToCapResult(ep, 1, []byte("x"), Capability{}); res != SendOK {
			t.Fatalf("expected SendOK filling queue, got %s", res)
		}
	}
	if res := ctx.SendToCapResult(ep, 1, []byte("y"), Capability{}); res != SendErrQueueFull {
		t.Fatalf("expected SendErrQueueFull, got %s", res)
	}
}

func TestEndpointLimit(t *testing.T) {
	k := New()
	for i := 0; i < maxEndpoints; i++ {
		if !k.NewEndpoint(RightSend).Valid() {
			t.Fatalf("endpoint %d invalid", i)
		}
	}
	if k.NewEndpoint(RightSend).Valid() {
		t.Fatal("expected invalid capability past the endpoint limit")
	}
}

func TestStepRoundRobin(t *testing.T) {
	k := New()
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		if _, ok := k.AddTask(stepFunc(func(*Context) { order = append(order, i) })); !ok {
			t.Fatalf("AddTask(%d) failed", i)
		}
	}

	for i := 0; i < 6; i++ {
		if !k.Step() {
			t.Fatalf("Step() = false at %d", i)
		}
	}
	want := []int{0, 1, 2, 0, 1, 2}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order=%v; want %v", order, want)
		}
	}
}

func TestBlockOnRecvWakesOnSend(t *testing.T) {
	k := New()
	ep := k.NewEndpoint(RightSend | RightRecv)

	var got []string
	k.AddTask(stepFunc(func(ctx *Context) {
		for {
			msg, ok := ctx.Recv(ep)
			if !ok {
				break
			}
			got = append(got, string(msg.Payload()))
		}
		ctx.BlockOnRecv(ep)
	}))

	if n := k.RunUntilIdle(10); n != 1 {
		t.Fatalf("RunUntilIdle() = %d; want 1", n)
	}
	if k.Step() {
		t.Fatal("blocked task must not run")
	}

	ctx := &Context{k: k}
	ctx.SendTo(ep, 1, []byte("a"))
	ctx.SendTo(ep, 1, []byte("b"))

	if n := k.RunUntilIdle(10); n != 1 {
		t.Fatalf("RunUntilIdle() = %d; want 1", n)
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("got=%v; want [a b]", got)
	}
}

func TestBlockOnRecvWithPendingMessage(t *testing.T) {
	k := New()
	ep := k.NewEndpoint(RightSend | RightRecv)
	ctx := &Context{k: k}
	ctx.SendTo(ep, 1, nil)

	ctx.BlockOnRecv(ep)
	if ctx.blocked {
		t.Fatal("expected BlockOnRecv to be a no-op with a queued message")
	}
}

func TestBlockOnTick(t *testing.T) {
	k := New()
	runs := 0
	k.AddTask(stepFunc(func(ctx *Context) {
		runs++
		ctx.BlockOnTick()
	}))

	k.RunUntilIdle(10)
	if runs != 1 {
		t.Fatalf("runs=%d; want 1", runs)
	}

	k.Tick()
	k.RunUntilIdle(10)
	if runs != 2 {
		t.Fatalf("runs=%d; want 2", runs)
	}
	if got := k.NowTick(); got != 1 {
		t.Fatalf("NowTick()=%d; want 1", got)
	}

	k.TickTo(1)
	if k.Step() {
		t.Fatal("stale TickTo must not wake tasks")
	}
	k.TickTo(5)
	k.RunUntilIdle(10)
	if runs != 3 {
		t.Fatalf("runs=%d; want 3", runs)
	}
}

func TestTaskPanicIsCaptured(t *testing.T) {
	k := New()
	var info PanicInfo
	calls := 0
	SetPanicHandler(func(pi PanicInfo) {
		calls++
		info = pi
	})
	defer func() {
		SetPanicHandler(nil)
		panicActive.Store(false)
		panicOnce = sync.Once{}
	}()

	k.AddTask(stepFunc(func(*Context) {}))
	id, _ := k.AddTask(stepFunc(func(*Context) { panic("boom") }))

	k.Step()
	if !k.Step() {
		t.Fatal("expected panicking task to count as a step")
	}
	if calls != 1 {
		t.Fatalf("panic handler calls=%d; want 1", calls)
	}
	if info.TaskID != id || info.Value != "boom" {
		t.Fatalf("info=%+v; want task %d value boom", info, id)
	}
	if !InPanicMode() {
		t.Fatal("expected panic mode")
	}
	if k.Step() {
		t.Fatal("kernel must not schedule in panic mode")
	}
}

func TestSendResultString(t *testing.T) {
	tcs := map[SendResult]string{
		SendOK:                 "ok",
		SendErrInvalidToCap:    "invalid to capability",
		SendErrToNoSendRight:   "to capability has no send right",
		SendErrNoEndpoint:      "no such endpoint",
		SendErrPayloadTooLarge: "payload too large",
		SendErrQueueFull:       "queue full",
		SendResult(99):         "unknown",
	}
	for r, want := range tcs {
		if got := r.String(); got != want {
			t.Fatalf("SendResult(%d).String()=%q; want %q", r, got, want)
		}
	}
}
