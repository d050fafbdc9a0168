//go:build !tinygo

package hal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

const hostSerialRxBytes = 1024

var errNoData = errors.New("serial: no data")

// hostSerial emulates a UART over stdio. A reader goroutine fills a bounded
// receive ring (single producer, single consumer); Buffered/ReadByte drain it
// without blocking. Bytes arriving with the ring full are dropped, like a UART
// overrun.
type hostSerial struct {
	mu      sync.Mutex
	rx      [hostSerialRxBytes]byte
	head    int
	n       int
	overrun int

	w   io.Writer
	raw bool
	// keepCR disables the raw-mode CR to LF mapping, for consoles whose
	// terminator is not LF.
	keepCR bool

	fd       int
	oldState *term.State
}

func newHostSerial(w io.Writer) *hostSerial {
	return &hostSerial{w: w, fd: -1}
}

// start copies r into the receive ring until r fails.
func (s *hostSerial) start(r io.Reader) {
	go func() {
		buf := make([]byte, 64)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				s.push(buf[:n])
			}
			if err != nil {
				return
			}
		}
	}()
}

func (s *hostSerial) push(p []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range p {
		if s.raw && !s.keepCR && b == '\r' {
			// Terminals send CR for Enter once ICRNL is off.
			b = '\n'
		}
		if s.n == len(s.rx) {
			s.overrun++
			continue
		}
		s.rx[(s.head+s.n)%len(s.rx)] = b
		s.n++
	}
}

func (s *hostSerial) Buffered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}

func (s *hostSerial) ReadByte() (byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.n == 0 {
		return 0, errNoData
	}
	b := s.rx[s.head]
	s.head = (s.head + 1) % len(s.rx)
	s.n--
	return b, nil
}

func (s *hostSerial) Write(p []byte) (int, error) {
	if s.w == nil {
		return 0, ErrNotImplemented
	}
	s.mu.Lock()
	raw := s.raw
	s.mu.Unlock()
	if !raw {
		return s.w.Write(p)
	}
	// Output post-processing is off in raw mode.
	if _, err := s.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}

// setTerminator keeps CR intact unless the console terminator is LF (or the
// default, 0).
func (s *hostSerial) setTerminator(term byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keepCR = term != 0 && term != '\n'
}

// Overruns returns the number of received bytes dropped for a full ring.
func (s *hostSerial) Overruns() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overrun
}

// makeRaw puts f into raw mode when it is a terminal so keystrokes arrive one
// byte at a time without local echo or line editing.
func (s *hostSerial) makeRaw(f *os.File) error {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil
	}
	old, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("serial raw mode: %w", err)
	}
	s.mu.Lock()
	s.fd = fd
	s.oldState = old
	s.raw = true
	s.mu.Unlock()
	return nil
}

// restore undoes makeRaw.
func (s *hostSerial) restore() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.oldState == nil {
		return nil
	}
	err := term.Restore(s.fd, s.oldState)
	s.oldState = nil
	s.raw = false
	if err != nil {
		return fmt.Errorf("serial restore: %w", err)
	}
	return nil
}

func (s *hostSerial) isRaw() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.raw
}
