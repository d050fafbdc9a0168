package cmdline

// ByteSource is a polled serial input. machine.UART satisfies it on TinyGo.
type ByteSource interface {
	// Buffered returns the number of bytes that can be read without blocking.
	Buffered() int
	ReadByte() (byte, error)
}

// Poll drains the bytes currently available from src into a. Each completed
// line is dispatched through r and the Assembler is reset before the next byte
// is fed. It returns the number of lines dispatched.
//
// Poll never waits: when src has nothing buffered it returns immediately.
func Poll(src ByteSource, a *Assembler, r *Router) int {
	lines := 0
	for src.Buffered() > 0 {
		b, err := src.ReadByte()
		if err != nil {
			return lines
		}
		if a.Feed(b) != EventComplete {
			continue
		}
		r.Dispatch()
		a.Reset()
		lines++
	}
	return lines
}
