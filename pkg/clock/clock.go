// Package clock implements the three playback clocks (audio, video,
// external) and master-clock selection described by the player's timing
// model. Each clock is a function returning a wall-relative time in
// seconds; nothing here blocks or allocates, so the presenter and audio
// path can sample any of them from any goroutine without synchronization
// beyond what the caller already holds for the fields it reads.
package clock

import "time"

// Source reads the current value of one clock, in seconds.
type Source func() float64

// Mode selects which clock is authoritative for scheduling.
type Mode int

const (
	// ModeVideo is the default master clock.
	ModeVideo Mode = iota
	ModeAudio
	ModeExternal
)

func (m Mode) String() string {
	switch m {
	case ModeAudio:
		return "audio"
	case ModeExternal:
		return "external"
	default:
		return "video"
	}
}

// processStart anchors nowSeconds; time.Since reads its monotonic component.
var processStart = time.Now()

// nowSeconds is the monotonic wall-clock reference (seconds since the
// process started); it is a var so tests can substitute a deterministic
// clock without touching production callers.
var nowSeconds = func() float64 {
	return time.Since(processStart).Seconds()
}

// External returns the monotonic wall time in seconds. It never needs state.
func External() float64 {
	return nowSeconds()
}

// Video models the presenter-owned video clock: it extrapolates forward
// from the last displayed picture's pts using elapsed wall time, so reads
// remain correct between presenter ticks.
type Video struct {
	// CurrentPTS is the pts of the last picture handed to the display.
	CurrentPTS float64
	// CurrentPTSTime is the wall time (seconds, same epoch as External)
	// at which CurrentPTS was recorded.
	CurrentPTSTime float64
}

// Now returns CurrentPTS plus elapsed wall time since it was recorded.
func (v *Video) Now() float64 {
	return v.CurrentPTS + (nowSeconds() - v.CurrentPTSTime)
}

// Set records a newly displayed picture's pts at the current wall time.
func (v *Video) Set(pts float64) {
	v.CurrentPTS = pts
	v.CurrentPTSTime = nowSeconds()
}

// Audio models the audio-device-driven audio clock: the seconds of audio
// already handed to the decode/resample pipeline, adjusted for samples
// still sitting in the device's hardware buffer and not yet played.
type Audio struct {
	// ClockSeconds is the cumulative seconds of audio produced so far.
	ClockSeconds float64
}

// Now returns ClockSeconds minus pendingBytes worth of playback time at the
// given bytes-per-second rate (channels * bytesPerSample * sampleRate).
func (a *Audio) Now(pendingBytes int, bytesPerSecond float64) float64 {
	if bytesPerSecond <= 0 {
		return a.ClockSeconds
	}
	return a.ClockSeconds - float64(pendingBytes)/bytesPerSecond
}

// Set records the audio clock directly (used when a packet with a known pts
// resets accumulated drift).
func (a *Audio) Set(seconds float64) {
	a.ClockSeconds = seconds
}

// Advance adds incrementally decoded seconds to the running audio clock.
func (a *Audio) Advance(seconds float64) {
	a.ClockSeconds += seconds
}

// Selector resolves the Mode to a live Source, so callers treat "the master
// clock" as a single polymorphic capability instead of branching on Mode at
// every call site.
type Selector struct {
	Mode  Mode
	Video func() float64
	Audio func() float64
}

// Master returns the Source for the currently selected mode.
func (s *Selector) Master() Source {
	switch s.Mode {
	case ModeAudio:
		return s.Audio
	case ModeExternal:
		return External
	default:
		return s.Video
	}
}
