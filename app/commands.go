package app

import (
	"fmt"
	"io"
	"strings"

	"serialcmd/internal/buildinfo"
	"serialcmd/sparkos/cmdline"
)

// settings is a small ordered key/value store behind the config command.
type settings struct {
	keys []string
	vals map[string]string
}

func (s *settings) get(key string) (string, bool) {
	v, ok := s.vals[key]
	return v, ok
}

func (s *settings) set(key, val string) {
	if s.vals == nil {
		s.vals = make(map[string]string)
	}
	if _, ok := s.vals[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.vals[key] = val
}

func (s *system) registerCommands() {
	a := s.console.Assembler()
	root := s.console.Router()
	out := s.console.Output()

	root.AddFunc("help", func() {
		fmt.Fprintf(out, "commands: %s\n", strings.Join(root.Names(), " "))
	})
	root.AddFunc("version", func() {
		fmt.Fprintf(out, "serialcmd %s (commit %s, built %s)\n",
			buildinfo.Short(), buildinfo.Commit, buildinfo.Date)
	})
	root.AddSourceFunc("echo", func(a *cmdline.Assembler) {
		fmt.Fprintln(out, a.Rest())
	})
	root.AddSourceFunc("move", func(a *cmdline.Assembler) {
		x, okX := a.NextToken()
		y, okY := a.NextToken()
		if !okX || !okY {
			fmt.Fprintln(out, "usage: move <x> <y>")
			return
		}
		fmt.Fprintf(out, "move x=%s y=%s\n", x, y)
	})
	root.AddHandler("led", s.ledRouter(a, out))
	root.AddHandler("config", s.configRouter(a, out))
	root.AddFunc("ticks", func() {
		fmt.Fprintf(out, "%d\n", s.k.NowTick())
	})
	root.AddFunc("clear", s.console.Clear)

	root.SetDefault(func(a *cmdline.Assembler) {
		tok, _ := a.CurrentToken()
		fmt.Fprintf(out, "unknown command: %s\n", tok)
	})
}

func (s *system) ledRouter(a *cmdline.Assembler, out io.Writer) *cmdline.Router {
	r := cmdline.NewRouter(a)
	set := func(on bool) {
		s.ledOn = on
		if led := s.h.LED(); led != nil {
			if on {
				led.High()
			} else {
				led.Low()
			}
		}
		state := "off"
		if on {
			state = "on"
		}
		fmt.Fprintf(out, "led %s\n", state)
	}
	r.AddFunc("on", func() { set(true) })
	r.AddFunc("off", func() { set(false) })
	r.AddFunc("toggle", func() { set(!s.ledOn) })
	withUsage(out, "led", r)
	return r
}

func (s *system) configRouter(a *cmdline.Assembler, out io.Writer) *cmdline.Router {
	r := cmdline.NewRouter(a)
	r.AddSourceFunc("get", func(a *cmdline.Assembler) {
		key, ok := a.NextToken()
		if !ok {
			fmt.Fprintln(out, "usage: config get <key>")
			return
		}
		v, ok := s.settings.get(key.String())
		if !ok {
			fmt.Fprintf(out, "%s: not set\n", key)
			return
		}
		fmt.Fprintf(out, "%s=%s\n", key, v)
	})
	r.AddSourceFunc("set", func(a *cmdline.Assembler) {
		key, ok := a.NextToken()
		val := a.Rest()
		if !ok || val == "" {
			fmt.Fprintln(out, "usage: config set <key> <value>")
			return
		}
		s.settings.set(key.String(), val)
		fmt.Fprintf(out, "%s=%s\n", key, val)
	})
	r.AddFunc("list", func() {
		for _, k := range s.settings.keys {
			fmt.Fprintf(out, "%s=%s\n", k, s.settings.vals[k])
		}
	})
	withUsage(out, "config", r)
	return r
}

// withUsage makes r print its usage when the sub-command is unknown or
// missing.
func withUsage(out io.Writer, name string, r *cmdline.Router) {
	usage := func() {
		fmt.Fprintf(out, "usage: %s %s\n", name, strings.Join(r.Names(), "|"))
	}
	r.SetDefault(func(a *cmdline.Assembler) {
		tok, _ := a.CurrentToken()
		fmt.Fprintf(out, "%s: unknown sub-command %q\n", name, tok)
		usage()
	})
	r.SetEmpty(usage)
}
