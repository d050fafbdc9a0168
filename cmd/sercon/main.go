//go:build !tinygo

// Command sercon sends typed lines to a serial device running serialcmd and
// prints whatever the device answers.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"serialcmd/internal/config"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	var (
		terminator string
		history    string
	)
	cmd := &cobra.Command{
		Use:           "sercon <device>",
		Short:         "Interactive line sender for a serialcmd device",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			tb, err := config.ParseByte(terminator)
			if err != nil {
				return fmt.Errorf("--terminator: %w", err)
			}
			return run(cmd.Context(), args[0], tb, history)
		},
	}
	cmd.Flags().StringVarP(&terminator, "terminator", "t", `\n`, "byte appended to every line")
	cmd.Flags().StringVar(&history, "history", defaultHistory(), "history file (empty disables it)")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "sercon:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, path string, terminator byte, history string) error {
	dev, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	defer dev.Close()

	// A tty device would otherwise echo and translate our bytes.
	if fd := int(dev.Fd()); term.IsTerminal(fd) {
		old, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("%s: raw mode: %w", path, err)
		}
		defer term.Restore(fd, old)
	}

	ed, err := newLineEditor(history)
	if err != nil {
		return err
	}
	defer ed.Close()

	go func() { _, _ = io.Copy(os.Stdout, dev) }()

	s := sender{w: dev, terminator: terminator}
	for ctx.Err() == nil {
		line, err := ed.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := s.send(line); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}
