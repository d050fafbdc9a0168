package cmdline

const (
	// DefaultTerminator ends a command line.
	DefaultTerminator byte = '\n'
	// DefaultDelimiters separates tokens.
	DefaultDelimiters = " "
	// DefaultBufferSize is the maximum length of one line (command plus arguments).
	DefaultBufferSize = 48
	// DefaultNameLength is the width used when comparing command names.
	DefaultNameLength = 12

	// MaxBufferSize bounds BufferSize so token offsets fit in 16 bits.
	MaxBufferSize = 1<<16 - 1
)

// Config fixes the wire format of an Assembler and the name width of the
// routers reading from it. Zero fields take the defaults.
type Config struct {
	Terminator byte
	Delimiters string
	BufferSize int
	NameLength int
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{}.withDefaults()
}

func (c Config) withDefaults() Config {
	if c.Terminator == 0 {
		c.Terminator = DefaultTerminator
	}
	if c.Delimiters == "" {
		c.Delimiters = DefaultDelimiters
	}
	if c.BufferSize <= 0 {
		c.BufferSize = DefaultBufferSize
	}
	if c.BufferSize > MaxBufferSize {
		c.BufferSize = MaxBufferSize
	}
	if c.NameLength <= 0 {
		c.NameLength = DefaultNameLength
	}
	return c
}
