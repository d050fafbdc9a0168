package cmdline

// Event is the result of feeding one byte to an Assembler.
type Event uint8

const (
	// EventNone means the byte was consumed (or ignored) and the line is not complete.
	EventNone Event = iota
	// EventComplete means the terminator arrived; the line is ready for dispatch.
	EventComplete
	// EventDropped means a printable byte arrived with the buffer full and was discarded.
	EventDropped
)

func (e Event) String() string {
	switch e {
	case EventNone:
		return "none"
	case EventComplete:
		return "complete"
	case EventDropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// Assembler accumulates bytes into a fixed-capacity line buffer and splits the
// completed line into tokens.
//
// The buffer is allocated once and overwritten in place. After EventComplete
// the caller dispatches and then must call Reset before feeding more bytes;
// bytes fed in between are appended to the pending line.
type Assembler struct {
	cfg   Config
	delim [256]bool

	buf []byte
	pos int

	cursor  int
	started bool
	last    Token
	hasLast bool

	gen     uint32
	dropped int
}

// NewAssembler returns an Assembler with an empty buffer.
func NewAssembler(cfg Config) *Assembler {
	cfg = cfg.withDefaults()
	a := &Assembler{
		cfg: cfg,
		buf: make([]byte, cfg.BufferSize),
	}
	for i := 0; i < len(cfg.Delimiters); i++ {
		a.delim[cfg.Delimiters[i]] = true
	}
	return a
}

// Config returns the effective configuration.
func (a *Assembler) Config() Config { return a.cfg }

// Len returns the number of buffered bytes.
func (a *Assembler) Len() int { return a.pos }

// Cap returns the buffer capacity.
func (a *Assembler) Cap() int { return len(a.buf) }

// Dropped returns the number of bytes discarded for overflow since the last Reset.
func (a *Assembler) Dropped() int { return a.dropped }

// Feed consumes one byte.
func (a *Assembler) Feed(b byte) Event {
	if b == a.cfg.Terminator {
		return EventComplete
	}
	if !isPrint(b) {
		return EventNone
	}
	if a.pos >= len(a.buf) {
		a.dropped++
		return EventDropped
	}
	a.buf[a.pos] = b
	a.pos++
	return EventNone
}

// Reset empties the buffer and invalidates every token cut from it.
func (a *Assembler) Reset() {
	a.pos = 0
	a.cursor = 0
	a.started = false
	a.last = Token{}
	a.hasLast = false
	a.dropped = 0
	a.gen++
}

// NextToken returns the next token of the current line. The first call after
// Reset starts at the beginning of the buffer; later calls resume after the
// previous token. Once the line is exhausted it keeps returning false until Reset.
func (a *Assembler) NextToken() (Token, bool) {
	a.started = true

	i := a.skipDelims(a.cursor)
	if i >= a.pos {
		a.cursor = a.pos
		a.last = Token{}
		a.hasLast = false
		return Token{}, false
	}

	j := i
	for j < a.pos && !a.delim[a.buf[j]] {
		j++
	}
	a.cursor = j
	a.last = Token{a: a, gen: a.gen, off: uint16(i), n: uint16(j - i)}
	a.hasLast = true
	return a.last, true
}

// CurrentToken returns the value last produced by NextToken without advancing.
func (a *Assembler) CurrentToken() (Token, bool) {
	if !a.hasLast || !a.last.Valid() {
		return Token{}, false
	}
	return a.last, true
}

// Rest returns the unconsumed remainder of the line, without leading delimiters.
func (a *Assembler) Rest() string {
	i := a.skipDelims(a.cursor)
	if i >= a.pos {
		return ""
	}
	return string(a.buf[i:a.pos])
}

func (a *Assembler) skipDelims(i int) int {
	for i < a.pos && a.delim[a.buf[i]] {
		i++
	}
	return i
}

func isPrint(b byte) bool {
	return b >= 0x20 && b < 0x7f
}
