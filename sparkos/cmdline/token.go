package cmdline

// Token is a view (offset and length) into an Assembler's line buffer.
//
// A Token stays valid until the next Reset of the Assembler it came from. A
// stale Token reports Valid() == false and renders as the empty string, so
// holding one across a line boundary can never yield bytes of a newer line.
type Token struct {
	a   *Assembler
	gen uint32
	off uint16
	n   uint16
}

// Valid reports whether the token still refers to the current line.
func (t Token) Valid() bool {
	return t.a != nil && t.gen == t.a.gen && int(t.off)+int(t.n) <= t.a.pos
}

// Len returns the token length in bytes, or 0 when stale.
func (t Token) Len() int {
	if !t.Valid() {
		return 0
	}
	return int(t.n)
}

// String returns the token text, or "" when stale.
func (t Token) String() string {
	if !t.Valid() {
		return ""
	}
	return string(t.view())
}

// Bytes returns a copy of the token text, or nil when stale.
func (t Token) Bytes() []byte {
	if !t.Valid() {
		return nil
	}
	out := make([]byte, t.n)
	copy(out, t.view())
	return out
}

// Equal reports whether the token text equals s.
func (t Token) Equal(s string) bool {
	if !t.Valid() {
		return false
	}
	return string(t.view()) == s
}

func (t Token) view() []byte {
	return t.a.buf[t.off : t.off+t.n]
}
