package app

import (
	"serialcmd/hal"
	"serialcmd/internal/buildinfo"
	"serialcmd/sparkos/kernel"
	"serialcmd/sparkos/services/console"
	"serialcmd/sparkos/services/logger"
	"serialcmd/sparkos/services/term"
)

// stepBudget bounds the task steps run per host step.
const stepBudget = 64

type system struct {
	h       hal.HAL
	k       *kernel.Kernel
	console *console.Service
	ticks   <-chan uint64

	ledOn    bool
	settings settings
}

type Config struct {
	Console console.Config
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Console: console.Config{
			Echo:   true,
			Banner: "serialcmd " + buildinfo.Short() + ". Type `help`.",
			Prompt: "> ",
		},
	}
}

// New initializes the system with default config and returns its step function.
func New(h hal.HAL) func() error {
	return NewWithConfig(h, DefaultConfig())
}

// NewWithConfig initializes the system and returns its step function. Each
// call advances the kernel to the latest HAL tick and runs tasks until idle.
func NewWithConfig(h hal.HAL, cfg Config) func() error {
	return newSystem(h, cfg).step
}

// Run starts the system and blocks forever (TinyGo/native entrypoint).
func Run(h hal.HAL) {
	RunWithConfig(h, DefaultConfig())
}

func RunWithConfig(h hal.HAL, cfg Config) {
	s := newSystem(h, cfg)
	for {
		_ = s.step()
		if s.ticks != nil {
			s.k.TickTo(<-s.ticks)
		}
	}
}

func newSystem(h hal.HAL, cfg Config) *system {
	installPanicHandler(h)

	k := kernel.New()
	logEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	termEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)

	var kbd hal.Keyboard
	if in := h.Input(); in != nil {
		kbd = in.Keyboard()
	}

	con := console.New(h.Serial(), kbd,
		logEP.Restrict(kernel.RightSend), termEP.Restrict(kernel.RightSend), cfg.Console)

	s := &system{h: h, k: k, console: con}
	if ht := h.Time(); ht != nil {
		s.ticks = ht.Ticks()
	}
	s.registerCommands()

	k.AddTask(logger.New(h.Logger(), logEP.Restrict(kernel.RightRecv)))
	k.AddTask(term.New(h.Display(), termEP.Restrict(kernel.RightRecv)))
	k.AddTask(con)
	return s
}

// step advances the kernel clock and runs tasks until idle. Without a time
// source each step counts as one tick.
func (s *system) step() error {
	if s.ticks == nil {
		s.k.Tick()
	}
	for s.ticks != nil {
		select {
		case seq := <-s.ticks:
			s.k.TickTo(seq)
			continue
		default:
		}
		break
	}
	s.k.RunUntilIdle(stepBudget)
	return nil
}
