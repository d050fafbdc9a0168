package term

import (
	"image/color"

	"serialcmd/hal"

	"tinygo.org/x/drivers"
)

// fbDisplay adapts an RGB565 hal.Framebuffer to the tinyterm Displayer.
type fbDisplay struct {
	fb hal.Framebuffer
}

func newFBDisplay(fb hal.Framebuffer) *fbDisplay {
	return &fbDisplay{fb: fb}
}

func (d *fbDisplay) usable() bool {
	return d.fb != nil && d.fb.Format() == hal.PixelFormatRGB565 && d.fb.Buffer() != nil
}

func (d *fbDisplay) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d *fbDisplay) SetPixel(x, y int16, c color.RGBA) {
	d.fill(int(x), int(y), int(x)+1, int(y)+1, c)
}

func (d *fbDisplay) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	d.fill(int(x), int(y), int(x)+int(width), int(y)+int(height), c)
	return nil
}

// fill paints the half-open rectangle [x0,x1)x[y0,y1), clipped to the framebuffer.
func (d *fbDisplay) fill(x0, y0, x1, y1 int, c color.RGBA) {
	if !d.usable() {
		return
	}
	w, h := d.fb.Width(), d.fb.Height()
	x0, x1 = max(x0, 0), min(x1, w)
	y0, y1 = max(y0, 0), min(y1, h)
	if x0 >= x1 || y0 >= y1 {
		return
	}

	px := hal.RGB565(c.R, c.G, c.B)
	lo, hi := byte(px), byte(px>>8)
	buf := d.fb.Buffer()
	stride := d.fb.StrideBytes()
	for y := y0; y < y1; y++ {
		row := y * stride
		for x := x0; x < x1; x++ {
			off := row + x*2
			if off+1 >= len(buf) {
				break
			}
			buf[off] = lo
			buf[off+1] = hi
		}
	}
}

func (d *fbDisplay) Display() error {
	if d.fb == nil {
		return nil
	}
	return d.fb.Present()
}

// ScrollUp moves the framebuffer content up by lines pixel rows and clears
// the exposed rows with bg.
func (d *fbDisplay) ScrollUp(lines int16, bg color.RGBA) error {
	if !d.usable() || lines <= 0 {
		return nil
	}
	w, h := d.fb.Width(), d.fb.Height()
	n := int(lines)
	if n >= h {
		d.fill(0, 0, w, h, bg)
		return nil
	}

	buf := d.fb.Buffer()
	stride := d.fb.StrideBytes()
	src := min(n*stride, len(buf))
	copy(buf, buf[src:])
	d.fill(0, h-n, w, h, bg)
	return nil
}

// Scrolling is done in software via ScrollUp.
func (d *fbDisplay) SetScroll(line int16) {}

func (d *fbDisplay) SetRotation(rotation drivers.Rotation) error {
	if rotation != drivers.Rotation0 {
		return hal.ErrNotImplemented
	}
	return nil
}
