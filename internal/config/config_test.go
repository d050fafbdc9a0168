package config

import (
	"os"
	"path/filepath"
	"testing"

	"serialcmd/app"
	"serialcmd/sparkos/cmdline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTOML = `
[line]
terminator = "\r"
delimiters = " ,"
buffer = 64
name_length = 8

[console]
echo = false
prompt = "$ "

[host]
headless = true
hz = 50
`

const sampleYAML = `
line:
  terminator: ";"
  delimiters: " "
console:
  crlf: true
  banner: ""
host:
  ticks: 10
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatTOML, DetectFormat("serialcmd.toml"))
	assert.Equal(t, FormatYAML, DetectFormat("serialcmd.yaml"))
	assert.Equal(t, FormatYAML, DetectFormat("SERIALCMD.YML"))
	assert.Equal(t, FormatTOML, DetectFormat("serialcmd.conf"))
}

func TestLoadTOML(t *testing.T) {
	f, err := Load(writeFile(t, "serialcmd.toml", sampleTOML))
	require.NoError(t, err)

	assert.True(t, f.Host.Headless)
	assert.Equal(t, 50, f.Host.Hz)

	cfg := app.DefaultConfig()
	banner := cfg.Console.Banner
	f.Apply(&cfg)

	line := cfg.Console.Line
	assert.Equal(t, byte('\r'), line.Terminator)
	assert.Equal(t, " ,", line.Delimiters)
	assert.Equal(t, 64, line.BufferSize)
	assert.Equal(t, 8, line.NameLength)
	assert.False(t, cfg.Console.Echo)
	assert.Equal(t, "$ ", cfg.Console.Prompt)
	assert.Equal(t, banner, cfg.Console.Banner, "absent keys keep defaults")
}

func TestLoadYAML(t *testing.T) {
	f, err := Load(writeFile(t, "serialcmd.yml", sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, uint64(10), f.Host.Ticks)

	cfg := app.DefaultConfig()
	f.Apply(&cfg)
	assert.Equal(t, byte(';'), cfg.Console.Line.Terminator)
	assert.True(t, cfg.Console.CRLF)
	assert.True(t, cfg.Console.Echo)
	assert.Equal(t, "", cfg.Console.Banner, "explicit empty string is applied")
}

func TestLoadEmpty(t *testing.T) {
	for _, name := range []string{"empty.toml", "empty.yaml"} {
		f, err := Load(writeFile(t, name, ""))
		require.NoError(t, err, name)

		cfg := app.DefaultConfig()
		f.Apply(&cfg)
		assert.Equal(t, app.DefaultConfig(), cfg, name)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		body   string
	}{
		{"two-char terminator", FormatTOML, "[line]\nterminator = \"ab\""},
		{"non-ascii terminator", FormatTOML, "[line]\nterminator = \"é\""},
		{"terminator in delimiters", FormatTOML, "[line]\nterminator = \";\"\ndelimiters = \" ;\""},
		{"buffer too large", FormatTOML, "[line]\nbuffer = 70000"},
		{"negative buffer", FormatYAML, "line:\n  buffer: -1"},
		{"negative name length", FormatYAML, "line:\n  name_length: -2"},
		{"negative hz", FormatTOML, "[host]\nhz = -5"},
		{"nul terminator", FormatTOML, "[line]\nterminator = \"\\u0000\""},
		{"nul terminator escape", FormatYAML, "line:\n  terminator: '\\x00'"},
		{"terminator is default delimiter", FormatTOML, "[line]\nterminator = \" \""},
		{"unknown toml key", FormatTOML, "[line]\nbaud = 9600"},
		{"unsupported format", Format(9), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.body), tt.format)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	_, err := Parse([]byte("[line"), FormatTOML)
	assert.Error(t, err)

	_, err = Parse([]byte("line:\n  baud: 9600"), FormatYAML)
	assert.Error(t, err, "unknown yaml fields are rejected")
}

func TestParseByte(t *testing.T) {
	tests := []struct {
		in      string
		want    byte
		wantErr bool
	}{
		{in: ";", want: ';'},
		{in: `\n`, want: '\n'},
		{in: `\r`, want: '\r'},
		{in: `\x3b`, want: ';'},
		{in: "\n", want: '\n'},
		{in: "", wantErr: true},
		{in: "ab", wantErr: true},
		{in: "é", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseByte(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "%q", tt.in)
			continue
		}
		require.NoError(t, err, "%q", tt.in)
		assert.Equal(t, tt.want, got, "%q", tt.in)
	}
}

func TestCheckLine(t *testing.T) {
	tests := []struct {
		name string
		line cmdline.Config
		ok   bool
	}{
		{"defaults", cmdline.Config{}, true},
		{"cr terminator", cmdline.Config{Terminator: '\r', Delimiters: " ,"}, true},
		{"lf in delimiters", cmdline.Config{Delimiters: " \n"}, false},
		{"space terminator", cmdline.Config{Terminator: ' '}, false},
		{"semicolon in both", cmdline.Config{Terminator: ';', Delimiters: " ;"}, false},
		{"buffer too large", cmdline.Config{BufferSize: cmdline.MaxBufferSize + 1}, false},
		{"negative name length", cmdline.Config{NameLength: -1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckLine(tt.line)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalid)
			}
		})
	}
}

func TestParseTerminator(t *testing.T) {
	b, err := ParseTerminator(`\r`)
	require.NoError(t, err)
	assert.Equal(t, byte('\r'), b)

	_, err = ParseTerminator(`\x00`)
	assert.Error(t, err)
	_, err = ParseTerminator("ab")
	assert.Error(t, err)
}
