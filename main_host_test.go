//go:build !tinygo

package main

import (
	"testing"

	"serialcmd/app"
	"serialcmd/internal/config"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (*cobra.Command, options) {
	t.Helper()
	var opts options
	cmd := &cobra.Command{Use: "serialcmd"}
	bindFlags(cmd, &opts)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd, opts
}

func TestApplyFlagsOverridesOnlyChanged(t *testing.T) {
	cmd, opts := parse(t, "--terminator", `\r`, "--buffer", "96", "--echo=false")

	cfg := app.DefaultConfig()
	cfg.Console.Line.Delimiters = " ,"
	require.NoError(t, applyFlags(cmd, opts, &cfg))

	assert.Equal(t, byte('\r'), cfg.Console.Line.Terminator)
	assert.Equal(t, 96, cfg.Console.Line.BufferSize)
	assert.False(t, cfg.Console.Echo)
	assert.Equal(t, " ,", cfg.Console.Line.Delimiters, "unset flags keep file values")
}

func TestApplyFlagsBadTerminator(t *testing.T) {
	cmd, opts := parse(t, "--terminator", "ab")
	cfg := app.DefaultConfig()
	assert.Error(t, applyFlags(cmd, opts, &cfg))
}

func TestApplyFlagsRejectsNULTerminator(t *testing.T) {
	cmd, opts := parse(t, "--terminator", `\x00`)
	cfg := app.DefaultConfig()
	assert.Error(t, applyFlags(cmd, opts, &cfg))
}

func TestApplyFlagsChecksMergedLine(t *testing.T) {
	cmd, opts := parse(t, "--terminator", ";", "--delimiters", " ;")
	cfg := app.DefaultConfig()
	assert.ErrorIs(t, applyFlags(cmd, opts, &cfg), config.ErrInvalid)

	// A file delimiter set clashing with a flag terminator is caught too.
	cmd, opts = parse(t, "--terminator", ",")
	cfg = app.DefaultConfig()
	cfg.Console.Line.Delimiters = " ,"
	assert.ErrorIs(t, applyFlags(cmd, opts, &cfg), config.ErrInvalid)
}

func TestRootCmdFlags(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"config", "headless", "hz", "ticks", "terminator", "delimiters", "buffer", "name-length", "echo"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}
