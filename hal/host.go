//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
)

type hostHAL struct {
	logger *hostLogger
	led    *hostLED
	fb     *hostFramebuffer
	kbd    *hostKeyboard
	t      *hostTime
	serial *hostSerial
}

// New returns a host HAL implementation. The serial port is stdin/stdout and
// log lines go to stderr.
func New() HAL {
	return newHostHAL(os.Stdin, os.Stdout, os.Stderr)
}

func newHostHAL(in io.Reader, out, logOut io.Writer) *hostHAL {
	serial := newHostSerial(out)
	logger := &hostLogger{w: logOut, crlf: serial.isRaw}
	if in != nil {
		serial.start(in)
	}
	return &hostHAL{
		logger: logger,
		led:    &hostLED{logger: logger},
		fb:     newHostFramebuffer(320, 240),
		kbd:    newHostKeyboard(),
		t:      newHostTime(),
		serial: serial,
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) LED() LED         { return h.led }
func (h *hostHAL) Serial() Serial   { return h.serial }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Input() Input     { return hostInput{kbd: h.kbd} }
func (h *hostHAL) Time() Time       { return h.t }

// rawStdin switches stdin to raw mode and returns the function restoring it.
func (h *hostHAL) rawStdin() (func(), error) {
	if err := h.serial.makeRaw(os.Stdin); err != nil {
		return func() {}, err
	}
	return func() {
		if err := h.serial.restore(); err != nil {
			h.logger.WriteLineString(err.Error())
		}
	}, nil
}

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostInput struct {
	kbd *hostKeyboard
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }

type hostLogger struct {
	mu   sync.Mutex
	w    io.Writer
	crlf func() bool
}

func (l *hostLogger) WriteLineString(s string) {
	l.WriteLineBytes([]byte(s))
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	eol := "\n"
	if l.crlf != nil && l.crlf() {
		eol = "\r\n"
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, "%s%s", b, eol)
}

type hostLED struct {
	mu     sync.Mutex
	on     bool
	logger *hostLogger
}

func (l *hostLED) High() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.on = true
	l.logger.WriteLineString("led: HIGH")
}

func (l *hostLED) Low() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.on = false
	l.logger.WriteLineString("led: LOW")
}
