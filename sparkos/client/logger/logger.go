package logger

import (
	"fmt"

	"serialcmd/sparkos/kernel"
	"serialcmd/sparkos/proto"
)

// Log sends a log line to the logger service.
//
// The call is best-effort: lines longer than one message are cut and the line
// is dropped when the logger queue is full.
func Log(ctx *kernel.Context, logCap kernel.Capability, line string) kernel.SendResult {
	if ctx == nil {
		return kernel.SendErrInvalidToCap
	}
	if len(line) > kernel.MaxMessageBytes {
		line = line[:kernel.MaxMessageBytes]
	}
	return ctx.SendToCapResult(logCap, uint16(proto.MsgLogLine), []byte(line), kernel.Capability{})
}

// Logf formats and sends a log line.
func Logf(ctx *kernel.Context, logCap kernel.Capability, format string, args ...any) kernel.SendResult {
	return Log(ctx, logCap, fmt.Sprintf(format, args...))
}
