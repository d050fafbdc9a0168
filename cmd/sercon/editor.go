//go:build !tinygo

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"golang.org/x/term"
)

const historyLimit = 500

// lineEditor reads lines with editing and history on a terminal and falls back
// to a plain scanner for pipes.
type lineEditor struct {
	rl      *readline.Instance
	scanner *bufio.Scanner
}

func defaultHistory() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".sercon_history")
}

func newLineEditor(history string) (*lineEditor, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return &lineEditor{scanner: bufio.NewScanner(os.Stdin)}, nil
	}
	rl, err := readline.NewFromConfig(&readline.Config{
		Prompt:                 "sercon> ",
		HistoryFile:            history,
		HistoryLimit:           historyLimit,
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		return nil, fmt.Errorf("readline: %w", err)
	}
	return &lineEditor{rl: rl}, nil
}

// ReadLine returns the next line without its newline. Ctrl-C ends input.
func (e *lineEditor) ReadLine() (string, error) {
	if e.rl == nil {
		if !e.scanner.Scan() {
			if err := e.scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		return e.scanner.Text(), nil
	}

	line, err := e.rl.Readline()
	if err == readline.ErrInterrupt {
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(line) != "" {
		e.rl.SaveToHistory(line)
	}
	return line, nil
}

func (e *lineEditor) Close() {
	if e.rl != nil {
		e.rl.Close()
		e.rl = nil
	}
}

// sender frames lines for the device.
type sender struct {
	w          io.Writer
	terminator byte
}

// send writes line followed by the terminator. Bytes the device would ignore
// are kept; the device filters them.
func (s sender) send(line string) error {
	buf := make([]byte, 0, len(line)+1)
	buf = append(buf, line...)
	buf = append(buf, s.terminator)
	_, err := s.w.Write(buf)
	return err
}
