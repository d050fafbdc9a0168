//go:build tinygo

package main

import (
	"serialcmd/app"
	"serialcmd/hal"
)

func main() {
	cfg := app.DefaultConfig()
	// Serial terminals expect CR LF and send CR for Enter.
	cfg.Console.CRLF = true
	cfg.Console.Line.Terminator = '\r'
	app.RunWithConfig(hal.New(), cfg)
}
