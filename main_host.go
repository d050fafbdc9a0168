//go:build !tinygo

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"serialcmd/app"
	"serialcmd/hal"
	"serialcmd/internal/buildinfo"
	"serialcmd/internal/config"

	"github.com/spf13/cobra"
)

type options struct {
	configFile string
	headless   bool
	raw        bool
	hz         int
	ticks      uint64
	terminator string
	delimiters string
	buffer     int
	nameLength int
	echo       bool
	crlf       bool
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "serialcmd",
		Short: "Line-oriented command console over a serial port",
		Long: `serialcmd reads bytes from stdin as if from a UART, assembles them
into lines and dispatches each line to a command.

Type "help" at the prompt for the command list. Without --headless the
console transcript is also rendered in a window.`,
		Version:       buildinfo.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}

	bindFlags(cmd, &opts)
	return cmd
}

func bindFlags(cmd *cobra.Command, opts *options) {
	f := cmd.Flags()
	f.StringVar(&opts.configFile, "config", "", "config file (TOML, or YAML for .yaml/.yml)")
	f.BoolVar(&opts.headless, "headless", false, "run without a window")
	f.BoolVar(&opts.raw, "raw", true, "put a terminal stdin into raw mode (headless only)")
	f.IntVar(&opts.hz, "hz", 100, "poll rate in headless mode")
	f.Uint64Var(&opts.ticks, "ticks", 0, "stop after N polls in headless mode (0 = run forever)")
	f.StringVar(&opts.terminator, "terminator", `\n`, "line terminator, one character or escape")
	f.StringVar(&opts.delimiters, "delimiters", " ", "token delimiter characters")
	f.IntVar(&opts.buffer, "buffer", 48, "line buffer capacity in bytes")
	f.IntVar(&opts.nameLength, "name-length", 12, "significant characters of a command name")
	f.BoolVar(&opts.echo, "echo", true, "echo accepted bytes back")
	f.BoolVar(&opts.crlf, "crlf", false, "send CRLF line endings")
}

func run(cmd *cobra.Command, opts options) error {
	cfg := app.DefaultConfig()
	hcfg := hal.HeadlessConfig{Hz: opts.hz, Ticks: opts.ticks, Raw: opts.raw}
	headless := opts.headless

	if opts.configFile != "" {
		file, err := config.Load(opts.configFile)
		if err != nil {
			return err
		}
		file.Apply(&cfg)
		if file.Host.Headless {
			headless = true
		}
		if file.Host.Hz != 0 && !cmd.Flags().Changed("hz") {
			hcfg.Hz = file.Host.Hz
		}
		if file.Host.Ticks != 0 && !cmd.Flags().Changed("ticks") {
			hcfg.Ticks = file.Host.Ticks
		}
	}
	if err := applyFlags(cmd, opts, &cfg); err != nil {
		return err
	}
	hcfg.Terminator = cfg.Console.Line.Terminator

	newApp := func(h hal.HAL) func() error { return app.NewWithConfig(h, cfg) }
	if !headless {
		return hal.RunWindow(newApp)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	if err := hal.RunHeadless(ctx, newApp, hcfg); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// applyFlags overlays explicitly set flags; they win over the config file.
// The merged line settings are validated again.
func applyFlags(cmd *cobra.Command, opts options, cfg *app.Config) error {
	changed := cmd.Flags().Changed
	line := &cfg.Console.Line
	if changed("terminator") {
		b, err := config.ParseTerminator(opts.terminator)
		if err != nil {
			return fmt.Errorf("--terminator: %w", err)
		}
		line.Terminator = b
	}
	if changed("delimiters") {
		line.Delimiters = opts.delimiters
	}
	if changed("buffer") {
		line.BufferSize = opts.buffer
	}
	if changed("name-length") {
		line.NameLength = opts.nameLength
	}
	if changed("echo") {
		cfg.Console.Echo = opts.echo
	}
	if changed("crlf") {
		cfg.Console.CRLF = opts.crlf
	}
	return config.CheckLine(*line)
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
