package term

import (
	"serialcmd/sparkos/kernel"
	"serialcmd/sparkos/proto"
)

// Write sends payload to the terminal service, split into as many messages as
// needed. It stops at the first failed send and returns its result.
func Write(ctx *kernel.Context, termCap kernel.Capability, payload []byte) kernel.SendResult {
	if ctx == nil {
		return kernel.SendErrInvalidToCap
	}
	for len(payload) > 0 {
		chunk := payload
		if len(chunk) > kernel.MaxMessageBytes {
			chunk = chunk[:kernel.MaxMessageBytes]
		}
		if res := ctx.SendToCapResult(termCap, uint16(proto.MsgTermWrite), chunk, kernel.Capability{}); res != kernel.SendOK {
			return res
		}
		payload = payload[len(chunk):]
	}
	return kernel.SendOK
}

// WriteString sends a best-effort string to the terminal service.
func WriteString(ctx *kernel.Context, termCap kernel.Capability, s string) kernel.SendResult {
	return Write(ctx, termCap, []byte(s))
}

// Clear requests a terminal reset/clear.
func Clear(ctx *kernel.Context, termCap kernel.Capability) kernel.SendResult {
	if ctx == nil {
		return kernel.SendErrInvalidToCap
	}
	return ctx.SendToCapResult(termCap, uint16(proto.MsgTermClear), nil, kernel.Capability{})
}
