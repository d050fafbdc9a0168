package app

import (
	"fmt"
	"image/color"
	"strings"

	"serialcmd/hal"
	"serialcmd/sparkos/kernel"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

const (
	panicFontHeight = 10
	panicFontOffset = 6
)

// installPanicHandler reports the first task panic on the log and paints it on
// the framebuffer. The kernel stops scheduling afterwards; the handler itself
// returns so host loops stay responsive to signals.
func installPanicHandler(h hal.HAL) {
	kernel.SetPanicHandler(func(info kernel.PanicInfo) {
		lines := panicLines(info)
		if l := h.Logger(); l != nil {
			for _, line := range lines {
				l.WriteLineString(line)
			}
		}

		disp := h.Display()
		if disp == nil {
			return
		}
		fb := disp.Framebuffer()
		if fb == nil || fb.Format() != hal.PixelFormatRGB565 {
			return
		}
		drawPanic(fb, lines)
		_ = fb.Present()
	})
}

func panicLines(info kernel.PanicInfo) []string {
	lines := []string{
		fmt.Sprintf("panic: task=%d value=%v", info.TaskID, info.Value),
	}
	if len(info.Stack) == 0 {
		return append(lines, "stack: unavailable")
	}
	for _, line := range strings.Split(string(info.Stack), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func drawPanic(fb hal.Framebuffer, lines []string) {
	font := &proggy.TinySZ8pt7b
	_, w := tinyfont.LineWidth(font, "0")
	if w == 0 {
		return
	}
	cols := max(fb.Width()/int(w), 1)

	fb.ClearRGB(255, 255, 255)
	d := panicDisplay{fb: fb}
	fg := color.RGBA{A: 255}

	y := 0
	for _, line := range lines {
		for len(line) > 0 {
			if y+panicFontHeight > fb.Height() {
				return
			}
			n := min(len(line), cols)
			tinyfont.WriteLine(d, font, 0, int16(y+panicFontOffset), line[:n], fg)
			y += panicFontHeight
			line = strings.TrimLeft(line[n:], " ")
		}
	}
}

type panicDisplay struct {
	fb hal.Framebuffer
}

func (d panicDisplay) Size() (x, y int16) {
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d panicDisplay) SetPixel(x, y int16, c color.RGBA) {
	ix, iy := int(x), int(y)
	if ix < 0 || ix >= d.fb.Width() || iy < 0 || iy >= d.fb.Height() {
		return
	}
	buf := d.fb.Buffer()
	off := iy*d.fb.StrideBytes() + ix*2
	if off+1 >= len(buf) {
		return
	}
	p := hal.RGB565(c.R, c.G, c.B)
	buf[off] = byte(p)
	buf[off+1] = byte(p >> 8)
}

func (d panicDisplay) Display() error { return nil }
