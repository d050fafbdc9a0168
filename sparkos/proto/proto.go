package proto

// Kind identifies the message type carried in kernel.Message.Kind.
type Kind uint16

const (
	// MsgLogLine carries one log line: UTF-8 bytes without a trailing newline.
	MsgLogLine Kind = iota + 1
	// MsgTermWrite carries raw bytes (text plus VT100 sequences) for the terminal.
	MsgTermWrite
	// MsgTermClear resets the terminal. No payload.
	MsgTermClear
)

func (k Kind) String() string {
	switch k {
	case MsgLogLine:
		return "log_line"
	case MsgTermWrite:
		return "term_write"
	case MsgTermClear:
		return "term_clear"
	default:
		return "unknown"
	}
}
