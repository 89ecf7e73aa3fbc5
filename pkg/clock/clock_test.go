package clock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func withFakeClock(t *testing.T, seconds float64) func(delta float64) {
	t.Helper()
	orig := nowSeconds
	nowSeconds = func() float64 { return seconds }
	t.Cleanup(func() { nowSeconds = orig })
	return func(delta float64) { seconds += delta }
}

func TestExternalReadsFakeClock(t *testing.T) {
	withFakeClock(t, 42.5)
	assert.Equal(t, 42.5, External())
}

func TestVideoNowExtrapolatesElapsedTime(t *testing.T) {
	advance := withFakeClock(t, 10.0)
	var v Video
	v.Set(1.0)

	advance(0.5)
	assert.InDelta(t, 1.5, v.Now(), 1e-9)
}

func TestVideoSetResetsBothFields(t *testing.T) {
	advance := withFakeClock(t, 10.0)
	var v Video
	v.Set(1.0)
	advance(2.0)
	v.Set(5.0)

	assert.Equal(t, 5.0, v.Now())
}

func TestAudioNowSubtractsPendingBuffer(t *testing.T) {
	var a Audio
	a.Set(3.0)
	// 4410 pending bytes at 44100*2*2 bytes/sec = 0.025s of unplayed audio.
	got := a.Now(4410, 44100*2*2)
	assert.InDelta(t, 2.975, got, 1e-9)
}

func TestAudioNowIgnoresZeroRate(t *testing.T) {
	var a Audio
	a.Set(3.0)
	assert.Equal(t, 3.0, a.Now(100, 0))
}

func TestAudioAdvanceAccumulates(t *testing.T) {
	var a Audio
	a.Set(1.0)
	a.Advance(0.5)
	a.Advance(0.25)
	assert.InDelta(t, 1.75, a.ClockSeconds, 1e-9)
}

func TestSelectorMasterDispatchesByMode(t *testing.T) {
	videoSource := func() float64 { return 1.0 }
	audioSource := func() float64 { return 2.0 }

	s := Selector{Mode: ModeVideo, Video: videoSource, Audio: audioSource}
	assert.Equal(t, 1.0, s.Master()())

	s.Mode = ModeAudio
	assert.Equal(t, 2.0, s.Master()())

	s.Mode = ModeExternal
	withFakeClock(t, 99.0)
	assert.Equal(t, 99.0, s.Master()())
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "video", ModeVideo.String())
	assert.Equal(t, "audio", ModeAudio.String())
	assert.Equal(t, "external", ModeExternal.String())
}
