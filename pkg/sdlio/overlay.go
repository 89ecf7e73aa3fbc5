package sdlio

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"avframe/pkg/decode"
)

// Overlay is the concrete display-ready picture: an SDL streaming texture in
// planar YUV 4:2:0 (IYUV — Y, U, V planes, the same plane order pkg/decode
// already scales to, so no shuffling is needed between the two).
type Overlay struct {
	texture       *sdl.Texture
	width, height int
}

// NewOverlay allocates a streaming YUV texture sized to one video frame.
func NewOverlay(renderer *sdl.Renderer, width, height int) (*Overlay, error) {
	tex, err := renderer.CreateTexture(uint32(sdl.PIXELFORMAT_IYUV), sdl.TEXTUREACCESS_STREAMING, int32(width), int32(height))
	if err != nil {
		return nil, fmt.Errorf("sdlio: create overlay texture: %w", err)
	}
	return &Overlay{texture: tex, width: width, height: height}, nil
}

// Width and Height satisfy picture.Overlay.
func (o *Overlay) Width() int  { return o.width }
func (o *Overlay) Height() int { return o.height }

// Upload copies a decoded video frame's planes into the texture.
func (o *Overlay) Upload(frame *decode.VideoFrame) error {
	return o.texture.UpdateYUV(nil,
		frame.Y, int32(frame.LinesizeY),
		frame.U, int32(frame.LinesizeU),
		frame.V, int32(frame.LinesizeV),
	)
}

// Blit draws the overlay into dst (letterboxed to preserve aspect ratio) via
// the renderer it was created against. sarNum/sarDen is the stream's sample
// aspect ratio (sarDen == 0 means square pixels, i.e. use the raw pixel
// dimensions); anamorphic content needs this to display at its true shape
// rather than its storage shape.
func (o *Overlay) Blit(renderer *sdl.Renderer, screenW, screenH int32, sarNum, sarDen int) error {
	picAspect := float64(o.width) / float64(o.height)
	if sarNum > 0 && sarDen > 0 {
		picAspect *= float64(sarNum) / float64(sarDen)
	}

	renderH := screenH
	renderW := int32(float64(renderH) * picAspect)
	if renderW > screenW {
		renderW = screenW
		renderH = int32(float64(renderW) / picAspect)
	}
	renderW &^= 3 // round down to a multiple of 4, matching the legacy display's scaling step

	dst := sdl.Rect{
		X: (screenW - renderW) / 2,
		Y: (screenH - renderH) / 2,
		W: renderW,
		H: renderH,
	}
	return renderer.Copy(o.texture, nil, &dst)
}

// Close destroys the underlying texture.
func (o *Overlay) Close() {
	if o.texture != nil {
		o.texture.Destroy()
	}
}
