package term

import (
	"serialcmd/hal"
	"serialcmd/sparkos/kernel"
	"serialcmd/sparkos/proto"

	"tinygo.org/x/tinyfont/proggy"
	"tinygo.org/x/tinyterm"
)

const (
	fontHeight = 10
	fontOffset = 6
)

// Service renders MsgTermWrite bytes on the framebuffer through tinyterm.
//
// Without a display the service still drains its endpoint so senders never
// see a full queue.
type Service struct {
	disp hal.Display
	ep   kernel.Capability

	fb hal.Framebuffer
	d  *fbDisplay
	t  *tinyterm.Terminal
}

func New(disp hal.Display, ep kernel.Capability) *Service {
	return &Service{disp: disp, ep: ep}
}

func (s *Service) Step(ctx *kernel.Context) {
	if s.t == nil && s.disp != nil {
		if fb := s.disp.Framebuffer(); fb != nil {
			s.fb = fb
			s.d = newFBDisplay(fb)
			s.reset()
		}
	}

	dirty := false
	for {
		msg, ok := ctx.Recv(s.ep)
		if !ok {
			break
		}
		if s.t == nil {
			continue
		}
		switch proto.Kind(msg.Kind) {
		case proto.MsgTermWrite:
			_, _ = s.t.Write(msg.Payload())
			dirty = true
		case proto.MsgTermClear:
			s.reset()
			dirty = true
		}
	}
	if dirty {
		s.t.Display()
	}
	ctx.BlockOnRecv(s.ep)
}

func (s *Service) reset() {
	s.fb.ClearRGB(0, 0, 0)
	s.t = tinyterm.NewTerminal(s.d)
	s.t.Configure(&tinyterm.Config{
		Font:       &proggy.TinySZ8pt7b,
		FontHeight: fontHeight,
		FontOffset: fontOffset,
	})
	_ = s.fb.Present()
}
