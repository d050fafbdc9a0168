package console

import (
	"bytes"
	"io"

	termclient "serialcmd/sparkos/client/term"
)

// output fans console text out to the serial port and, during a Step, to the
// terminal service. Delivery to either side is best-effort.
type output struct {
	s *Service
}

var _ io.Writer = output{}

func (o output) Write(p []byte) (int, error) {
	s := o.s
	if s.serial != nil {
		b := p
		if s.cfg.CRLF {
			b = bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))
		}
		_, _ = s.serial.Write(b)
	}
	if s.ctx != nil && s.termCap.Valid() {
		_ = termclient.Write(s.ctx, s.termCap, p)
	}
	return len(p), nil
}

func (s *Service) print(str string) {
	_, _ = io.WriteString(s.Output(), str)
}

// Clear wipes the terminal display and sends the VT100 clear sequence on the
// serial port.
func (s *Service) Clear() {
	if s.serial != nil {
		_, _ = s.serial.Write([]byte("\x1b[2J\x1b[H"))
	}
	if s.ctx != nil && s.termCap.Valid() {
		_ = termclient.Clear(s.ctx, s.termCap)
	}
}
