// Package config loads the host configuration file.
//
// Files are TOML unless the extension is .yaml or .yml. Every key is
// optional; absent keys keep the built-in defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"serialcmd/app"
	"serialcmd/sparkos/cmdline"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Format is a configuration file syntax.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// File mirrors the on-disk layout.
type File struct {
	Line    LineSection    `toml:"line" yaml:"line"`
	Console ConsoleSection `toml:"console" yaml:"console"`
	Host    HostSection    `toml:"host" yaml:"host"`
}

// LineSection configures the line assembler.
type LineSection struct {
	// Terminator is one character; escapes such as \r or \x3b are accepted.
	// NUL is rejected.
	Terminator string `toml:"terminator" yaml:"terminator"`
	Delimiters string `toml:"delimiters" yaml:"delimiters"`
	Buffer     int    `toml:"buffer" yaml:"buffer"`
	NameLength int    `toml:"name_length" yaml:"name_length"`
}

type ConsoleSection struct {
	Echo   *bool   `toml:"echo" yaml:"echo"`
	CRLF   *bool   `toml:"crlf" yaml:"crlf"`
	Banner *string `toml:"banner" yaml:"banner"`
	Prompt *string `toml:"prompt" yaml:"prompt"`
}

// HostSection holds settings only the desktop runner reads.
type HostSection struct {
	Headless bool   `toml:"headless" yaml:"headless"`
	Hz       int    `toml:"hz" yaml:"hz"`
	Ticks    uint64 `toml:"ticks" yaml:"ticks"`
}

// DetectFormat picks the syntax from the file extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Load reads and validates path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	f, err := Parse(data, DetectFormat(path))
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes data in the given format and validates it.
func Parse(data []byte, format Format) (*File, error) {
	var f File
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &f)
		if err != nil {
			return nil, fmt.Errorf("toml: %w", err)
		}
		if keys := md.Undecoded(); len(keys) > 0 {
			return nil, fmt.Errorf("%w: unknown key %q", ErrInvalid, keys[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported format %s", ErrInvalid, format)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks ranges and cross-field constraints.
func (f *File) Validate() error {
	l := f.Line
	line := cmdline.Config{Delimiters: l.Delimiters, BufferSize: l.Buffer, NameLength: l.NameLength}
	if l.Terminator != "" {
		b, err := ParseTerminator(l.Terminator)
		if err != nil {
			return fmt.Errorf("%w: line.terminator: %v", ErrInvalid, err)
		}
		line.Terminator = b
	}
	if err := CheckLine(line); err != nil {
		return err
	}
	if f.Host.Hz < 0 {
		return fmt.Errorf("%w: host.hz %d is negative", ErrInvalid, f.Host.Hz)
	}
	return nil
}

// CheckLine validates a line configuration as the assembler will see it, with
// zero fields standing for their defaults. Callers that merge several sources
// run it on the merged result.
func CheckLine(c cmdline.Config) error {
	def := cmdline.DefaultConfig()
	term, delims := c.Terminator, c.Delimiters
	if term == 0 {
		term = def.Terminator
	}
	if delims == "" {
		delims = def.Delimiters
	}
	if strings.IndexByte(delims, term) >= 0 {
		return fmt.Errorf("%w: delimiters %q contain the terminator %q", ErrInvalid, delims, term)
	}
	if c.BufferSize < 0 || c.BufferSize > cmdline.MaxBufferSize {
		return fmt.Errorf("%w: line.buffer %d out of range (max %d)", ErrInvalid, c.BufferSize, cmdline.MaxBufferSize)
	}
	if c.NameLength < 0 {
		return fmt.Errorf("%w: line.name_length %d is negative", ErrInvalid, c.NameLength)
	}
	return nil
}

// Apply overlays the file onto cfg. Zero values leave cfg untouched.
func (f *File) Apply(cfg *app.Config) {
	line := &cfg.Console.Line
	if f.Line.Terminator != "" {
		line.Terminator, _ = ParseTerminator(f.Line.Terminator)
	}
	if f.Line.Delimiters != "" {
		line.Delimiters = f.Line.Delimiters
	}
	if f.Line.Buffer != 0 {
		line.BufferSize = f.Line.Buffer
	}
	if f.Line.NameLength != 0 {
		line.NameLength = f.Line.NameLength
	}

	c := &cfg.Console
	if f.Console.Echo != nil {
		c.Echo = *f.Console.Echo
	}
	if f.Console.CRLF != nil {
		c.CRLF = *f.Console.CRLF
	}
	if f.Console.Banner != nil {
		c.Banner = *f.Console.Banner
	}
	if f.Console.Prompt != nil {
		c.Prompt = *f.Console.Prompt
	}
}

// ParseByte parses a single character, accepting Go escapes such as \n, \r,
// \t or \x3b. The result must be ASCII.
func ParseByte(s string) (byte, error) {
	if s == "" {
		return 0, errors.New("empty")
	}
	r, _, tail, err := strconv.UnquoteChar(s, 0)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", s, err)
	}
	if tail != "" {
		return 0, fmt.Errorf("%q: want a single character", s)
	}
	if r >= 0x80 {
		return 0, fmt.Errorf("%q: not ASCII", s)
	}
	return byte(r), nil
}

// ParseTerminator is ParseByte for a line terminator. NUL is rejected because
// a zero terminator selects the default.
func ParseTerminator(s string) (byte, error) {
	b, err := ParseByte(s)
	if err != nil {
		return 0, err
	}
	if b == 0 {
		return 0, fmt.Errorf("%q: NUL cannot be a terminator", s)
	}
	return b, nil
}
