package sdlio

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventTypes are the two custom SDL user events the presenter uses: a timer
// fires RefreshEvent once per scheduled tick, with the next wake-up always a
// one-shot timer armed for exactly that moment, and anything that wants the
// event loop to stop pushes QuitEvent.
type EventTypes struct {
	Refresh uint32
	Quit    uint32
}

// RegisterEventTypes reserves two SDL user event codes.
func RegisterEventTypes() EventTypes {
	base := sdl.RegisterEvents(2)
	return EventTypes{Refresh: base, Quit: base + 1}
}

// ScheduleRefresh arms a one-shot timer that pushes a Refresh user event
// after delayMs milliseconds. Returns the timer ID (unused beyond creation;
// pending timers are never cancelled, relying on each tick scheduling
// exactly the next one).
func ScheduleRefresh(types EventTypes, delayMs uint32) sdl.TimerID {
	return sdl.AddTimer(delayMs, func(uint32, interface{}) uint32 {
		sdl.PushEvent(&sdl.UserEvent{Type: types.Refresh})
		return 0
	}, nil)
}

// PushQuit asks the event loop to stop on its next iteration.
func PushQuit(types EventTypes) {
	sdl.PushEvent(&sdl.UserEvent{Type: types.Quit})
}

// Run pumps the SDL event queue on the calling goroutine (which must be the
// thread SDL2 was initialized on) until a Quit event, an sdl.QuitEvent
// (window close / Cmd-Q), or shouldStop reports true. onRefresh is invoked
// for every Refresh event; it's responsible for presenting the next frame
// and arming the following ScheduleRefresh call.
func Run(types EventTypes, onRefresh func(), shouldStop func() bool) {
	for {
		if shouldStop != nil && shouldStop() {
			return
		}
		event := sdl.WaitEventTimeout(100)
		if event == nil {
			continue
		}
		switch e := event.(type) {
		case *sdl.QuitEvent:
			return
		case *sdl.UserEvent:
			switch e.Type {
			case types.Quit:
				return
			case types.Refresh:
				onRefresh()
			}
		}
	}
}
