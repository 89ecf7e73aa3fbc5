// Package sdlio is the only package that talks to SDL2 directly: window and
// renderer setup, the YUV overlay texture, the push-queued audio device, and
// the main-thread event loop. Everything else in the player is decoupled
// from SDL through plain interfaces (picture.Overlay) so it stays testable.
package sdlio

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/veandco/go-sdl2/sdl"
)

// InitVideoAndAudio brings up SDL2's video and audio subsystems, trying a
// sequence of video drivers until one works. Headless CI, a missing
// compositor, and Pi firmware quirks all show up as the first driver in the
// list silently failing to produce a usable window, so the fallback keeps
// trying rather than giving up after one attempt.
func InitVideoAndAudio() error {
	runtime.GC()
	time.Sleep(50 * time.Millisecond)

	var drivers []string
	if env := os.Getenv("SDL_VIDEODRIVER"); env != "" {
		drivers = []string{env, "fbcon", "software", "dummy"}
	} else if runtime.GOOS == "darwin" {
		drivers = []string{"cocoa", "software", "dummy"}
	} else {
		drivers = []string{"kmsdrm", "drm", "fbcon", "wayland", "x11", "software", "dummy"}
	}

	var lastErr error
	for _, driver := range drivers {
		sdl.Quit()
		os.Setenv("SDL_VIDEODRIVER", driver)
		applyDriverHints(driver)

		if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
			lastErr = err
			log.Printf("sdlio: video init failed with driver %q: %v", driver, err)
			continue
		}
		if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
			log.Printf("sdlio: audio subsystem unavailable: %v (continuing without sound)", err)
		}
		log.Printf("sdlio: initialized with driver %q", driver)
		return nil
	}
	return fmt.Errorf("sdlio: all video drivers failed, last error: %v", lastErr)
}

func applyDriverHints(driver string) {
	switch driver {
	case "kmsdrm":
		sdl.SetHint("SDL_KMSDRM_REQUIRE_DRM_MASTER", "1")
		sdl.SetHint("SDL_RENDER_VSYNC", "1")
		sdl.SetHint(sdl.HINT_RENDER_DRIVER, "opengles2")
	case "cocoa":
		sdl.SetHint("SDL_VIDEO_COCOA_ALLOW_SCREENSAVER", "1")
		sdl.SetHint(sdl.HINT_RENDER_DRIVER, "opengl")
	case "fbcon":
		sdl.SetHint("SDL_FBDEV", "/dev/fb0")
		sdl.SetHint(sdl.HINT_RENDER_DRIVER, "software")
	case "software", "dummy":
		sdl.SetHint(sdl.HINT_RENDER_DRIVER, "software")
	}
	sdl.SetHint(sdl.HINT_VIDEO_MINIMIZE_ON_FOCUS_LOSS, "0")
}

// Window wraps a created window+renderer pair along with their dimensions.
type Window struct {
	SDL      *sdl.Window
	Renderer *sdl.Renderer
	Width    int32
	Height   int32
}

// OpenWindow creates a fullscreen window sized to the current display mode
// (falling back to 1280x720 when the display mode can't be queried) and its
// renderer, preferring hardware acceleration.
func OpenWindow(title string) (*Window, error) {
	w, h := displayDimensions()

	window, err := sdl.CreateWindow(title, 0, 0, w, h, sdl.WINDOW_SHOWN|sdl.WINDOW_FULLSCREEN_DESKTOP)
	if err != nil {
		return nil, fmt.Errorf("sdlio: create window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		log.Printf("sdlio: hardware renderer unavailable (%v), falling back to software", err)
		renderer, err = sdl.CreateRenderer(window, -1, sdl.RENDERER_SOFTWARE)
		if err != nil {
			window.Destroy()
			return nil, fmt.Errorf("sdlio: create renderer: %w", err)
		}
	}

	return &Window{SDL: window, Renderer: renderer, Width: w, Height: h}, nil
}

func displayDimensions() (int32, int32) {
	mode, err := sdl.GetCurrentDisplayMode(0)
	if err != nil {
		log.Printf("sdlio: could not query display mode (%v), using 1280x720", err)
		return 1280, 720
	}
	return mode.W, mode.H
}

// Close tears down the window, renderer, and SDL2 itself.
func (w *Window) Close() {
	if w.Renderer != nil {
		w.Renderer.Destroy()
	}
	if w.SDL != nil {
		w.SDL.Destroy()
	}
	sdl.Quit()
}
