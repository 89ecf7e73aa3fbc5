package sdlio

import (
	"avframe/pkg/decode"
)

// Display implements player.Display: it owns one persistent Overlay
// texture, reallocated on the main thread whenever a frame's dimensions
// change (a source switch, typically). Because pkg/decode hands back whole
// raw frames rather than pre-allocated textures, this is the only place
// overlay allocation ever happens — on the main thread, without needing a
// separate cross-goroutine handshake.
type Display struct {
	win     *Window
	overlay *Overlay
}

// NewDisplay creates a Display that draws into win.
func NewDisplay(win *Window) *Display {
	return &Display{win: win}
}

// Show uploads frame into the current overlay (reallocating first if the
// dimensions changed) and blits it, letterboxed, to the window.
func (d *Display) Show(frame *decode.VideoFrame) error {
	if d.overlay == nil || d.overlay.Width() != frame.Width || d.overlay.Height() != frame.Height {
		if d.overlay != nil {
			d.overlay.Close()
		}
		overlay, err := NewOverlay(d.win.Renderer, frame.Width, frame.Height)
		if err != nil {
			return err
		}
		d.overlay = overlay
	}

	if err := d.overlay.Upload(frame); err != nil {
		return err
	}

	d.win.Renderer.Clear()
	if err := d.overlay.Blit(d.win.Renderer, d.win.Width, d.win.Height, frame.SARNum, frame.SARDen); err != nil {
		return err
	}
	d.win.Renderer.Present()
	return nil
}

// Close releases the overlay texture.
func (d *Display) Close() {
	if d.overlay != nil {
		d.overlay.Close()
	}
}
