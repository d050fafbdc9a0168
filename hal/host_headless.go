//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	// Hz is the step rate; each step polls the serial port once.
	Hz int
	// Ticks stops the runner after N steps (0 = run until ctx is done).
	Ticks uint64
	// Raw puts stdin into raw mode when it is a terminal.
	Raw bool
	// Terminator is the console line terminator (0 = '\n'). Raw mode maps
	// the CR sent by Enter to LF only when it is '\n'.
	Terminator byte
}

// RunHeadless runs the system without opening a window, stepping it cfg.Hz
// times per second until ctx is done, cfg.Ticks steps have run, or step fails.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 100
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	h := New().(*hostHAL)
	h.serial.setTerminator(cfg.Terminator)
	if cfg.Raw {
		restore, err := h.rawStdin()
		if err != nil {
			return err
		}
		defer restore()
	}

	step := newApp(h)
	t := time.NewTicker(d)
	defer t.Stop()

	var n uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			h.t.step()
			if step != nil {
				if err := step(); err != nil {
					return err
				}
			}
			n++
			if cfg.Ticks > 0 && n >= cfg.Ticks {
				return nil
			}
		}
	}
}
