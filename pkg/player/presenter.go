package player

import (
	"log"
	"time"

	"avframe/pkg/clock"
	"avframe/pkg/decode"
)

// Display is whatever can put a decoded frame on screen; pkg/sdlio's
// Overlay-backed renderer is the concrete implementation, kept behind an
// interface so the presenter's scheduling logic can be driven by a fake in
// tests without SDL.
type Display interface {
	// Show uploads and blits frame, (re)allocating backing storage first if
	// its dimensions differ from what's currently allocated.
	Show(frame *decode.VideoFrame) error
}

// Presenter drives the display-refresh loop: pop the head picture, compute
// how long until it should appear, show it, then schedule the next tick. It
// runs on the thread pkg/sdlio's event loop calls it from — the platform's
// main thread.
type Presenter struct {
	state   *State
	display Display

	frameTimer float64
	lastPTS    float64
	lastDelay  float64
}

// NewPresenter creates a presenter for state, drawing through display.
func NewPresenter(state *State, display Display) *Presenter {
	return &Presenter{state: state, display: display, frameTimer: clock.External()}
}

// Tick shows the next due picture (if any) and returns the number of
// milliseconds until the following tick should fire. Call this once per
// refresh event; the caller is responsible for arming that timer.
func (p *Presenter) Tick() uint32 {
	s := p.state
	if !s.Pictures.WaitForPictureTimeout(time.Millisecond) {
		return 1
	}
	pic := s.Pictures.Peek()

	frame, ok := pic.Overlay.(frameOverlay)
	if !ok {
		s.Pictures.Pop()
		return 10
	}

	delay := FrameDelay(pic.PTS, p.lastPTS, p.lastDelay)
	p.lastPTS = pic.PTS
	p.lastDelay = delay

	videoIsMaster := s.Selector.Mode == clock.ModeVideo
	delay = ApplyVideoSyncCorrection(delay, pic.PTS, s.Selector.Master()(), videoIsMaster)

	ms, nextFrameTimer := ScheduleDelay(p.frameTimer, delay, clock.External())
	p.frameTimer = nextFrameTimer

	s.VideoClock.Set(pic.PTS)
	if err := p.display.Show(frame.VideoFrame); err != nil {
		log.Printf("player: display error: %v", err)
	}
	s.Pictures.Pop()

	return ms
}

// Sleep is a small convenience the main loop can use instead of an SDL
// timer when driving the presenter outside of pkg/sdlio (e.g. a test
// harness).
func (p *Presenter) Sleep(ms uint32) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}
