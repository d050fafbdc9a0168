package console

type escState uint8

const (
	escIdle escState = iota
	escStart
	escCSI
	escSS3
)

// escFilter swallows VT100 escape sequences (arrow keys, function keys) one
// byte at a time so they never reach the line buffer as printable garbage.
//
// The line terminator and C0 control bytes always abort a pending sequence
// and pass through, so a stray ESC cannot eat the end of a line.
type escFilter struct {
	st escState
}

// consume reports whether b belongs to an escape sequence. term is the line
// terminator.
func (f *escFilter) consume(b, term byte) bool {
	if b == term {
		f.st = escIdle
		return false
	}
	if b == 0x1b {
		f.st = escStart
		return true
	}
	if b < 0x20 || b == 0x7f {
		// CAN, SUB and every other control byte cancel the sequence.
		f.st = escIdle
		return false
	}

	switch f.st {
	case escStart:
		switch b {
		case '[':
			f.st = escCSI
		case 'O':
			f.st = escSS3
		default:
			f.st = escIdle
		}
		return true
	case escSS3:
		f.st = escIdle
		return true
	case escCSI:
		// Parameters and intermediates run until a final byte in 0x40..0x7e.
		if b >= 0x40 && b <= 0x7e {
			f.st = escIdle
		}
		return true
	}
	return false
}
