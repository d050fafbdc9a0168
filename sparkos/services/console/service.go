package console

import (
	"io"

	"serialcmd/hal"
	"serialcmd/sparkos/client/logger"
	"serialcmd/sparkos/cmdline"
	"serialcmd/sparkos/kernel"
)

// Config controls the console task.
type Config struct {
	Line cmdline.Config

	// Echo writes accepted bytes back, for terminals without local echo.
	Echo bool
	// CRLF expands "\n" to "\r\n" on the serial port.
	CRLF bool

	Banner string
	Prompt string
}

// Service is the console task: it polls the serial port (and the keyboard,
// if any) once per tick, feeds bytes to the line assembler, dispatches every
// completed line through the root router and resets the assembler.
type Service struct {
	serial  hal.Serial
	kbd     hal.Keyboard
	logCap  kernel.Capability
	termCap kernel.Capability
	cfg     Config

	asm  *cmdline.Assembler
	root *cmdline.Router
	esc  escFilter

	ctx     *kernel.Context
	started bool
	lines   int
}

// New creates a console. logCap and termCap may be zero capabilities.
func New(serial hal.Serial, kbd hal.Keyboard, logCap, termCap kernel.Capability, cfg Config) *Service {
	if cfg.Prompt == "" {
		cfg.Prompt = "> "
	}
	asm := cmdline.NewAssembler(cfg.Line)
	cfg.Line = asm.Config()
	return &Service{
		serial:  serial,
		kbd:     kbd,
		logCap:  logCap,
		termCap: termCap,
		cfg:     cfg,
		asm:     asm,
		root:    cmdline.NewRouter(asm),
	}
}

// Assembler returns the shared line assembler, for building nested routers.
func (s *Service) Assembler() *cmdline.Assembler { return s.asm }

// Router returns the root router.
func (s *Service) Router() *cmdline.Router { return s.root }

// Output returns the writer commands print to.
func (s *Service) Output() io.Writer { return output{s: s} }

// Lines returns the number of lines dispatched so far.
func (s *Service) Lines() int { return s.lines }

func (s *Service) Step(ctx *kernel.Context) {
	s.ctx = ctx
	defer func() { s.ctx = nil }()

	if !s.started {
		s.started = true
		if s.cfg.Banner != "" {
			s.print(s.cfg.Banner + "\n")
		}
		s.print(s.cfg.Prompt)
	}

	if s.serial != nil {
		for s.serial.Buffered() > 0 {
			b, err := s.serial.ReadByte()
			if err != nil {
				break
			}
			s.handleByte(b)
		}
	}
	s.pollKeyboard()

	ctx.BlockOnTick()
}

func (s *Service) pollKeyboard() {
	if s.kbd == nil {
		return
	}
	ch := s.kbd.Events()
	if ch == nil {
		return
	}
	for {
		select {
		case ev := <-ch:
			if !ev.Press {
				continue
			}
			switch {
			case ev.Code == hal.KeyEnter:
				s.handleByte(s.cfg.Line.Terminator)
			case ev.Code == hal.KeyUnknown && ev.Rune > 0 && ev.Rune < 0x80:
				s.handleByte(byte(ev.Rune))
			}
		default:
			return
		}
	}
}

func (s *Service) handleByte(b byte) {
	if s.esc.consume(b, s.cfg.Line.Terminator) {
		return
	}

	before := s.asm.Len()
	switch s.asm.Feed(b) {
	case cmdline.EventComplete:
		if s.cfg.Echo {
			s.print("\n")
		}
		s.dispatch()
	case cmdline.EventNone:
		if s.cfg.Echo && s.asm.Len() > before {
			_, _ = s.Output().Write([]byte{b})
		}
	}
}

func (s *Service) dispatch() {
	line := s.asm.Rest()
	outcome := s.root.Dispatch()
	if dropped := s.asm.Dropped(); dropped > 0 {
		s.logf("console: %q -> %s (%d bytes dropped)", line, outcome, dropped)
	} else if outcome != cmdline.OutcomeNoToken {
		s.logf("console: %q -> %s", line, outcome)
	}
	s.asm.Reset()
	s.lines++
	s.print(s.cfg.Prompt)
}

func (s *Service) logf(format string, args ...any) {
	if s.ctx == nil || !s.logCap.Valid() {
		return
	}
	_ = logger.Logf(s.ctx, s.logCap, format, args...)
}
