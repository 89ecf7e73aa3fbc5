// Package player wires the queue, picture, clock, video, and decode
// packages into the running pipeline: the demultiplexer, the video decoder,
// the audio path, and the presenter. This file holds the pure,
// side-effect-free arithmetic behind the presenter's A/V sync policy —
// the classic ffplay video_refresh_timer / synchronize_audio algorithms —
// so it can be unit tested without driving SDL or FFmpeg (the package still
// links FFmpeg through pkg/decode, so its tests need the cgo build).
package player

import "math"

// Constants matching the classic ffplay A/V sync algorithm.
const (
	AVSyncThreshold         = 0.01 // seconds; minimum meaningful pts/clock diff
	AVNoSyncThreshold       = 10.0 // seconds; beyond this, clocks are treated as unrelated (e.g. a seek)
	AudioDiffAvgNB          = 20   // samples of diff history before correcting
	SampleCorrectionPercent = 10   // max +/-% the audio buffer is stretched per correction
)

// FrameDelay computes a video frame's display delay from the gap between
// its pts and the previous frame's pts, falling back to the previous delay
// when the gap is non-positive or absurdly large (a discontinuity, e.g. a
// seek or the very first frame).
func FrameDelay(framePTS, lastPTS, lastDelay float64) float64 {
	delay := framePTS - lastPTS
	if delay <= 0 || delay >= 1.0 {
		return lastDelay
	}
	return delay
}

// ApplyVideoSyncCorrection adjusts delay to pull the video stream toward the
// master clock when the video isn't itself the master: clamp to zero when
// video is behind by more than a threshold (show the frame now), double the
// delay when video is ahead (let the master catch up), and leave delay
// alone when the clocks have diverged too far to mean anything (diff beyond
// AVNoSyncThreshold — a seek or clock reset, not a sync drift to chase).
func ApplyVideoSyncCorrection(delay, framePTS, masterClock float64, videoIsMaster bool) float64 {
	if videoIsMaster {
		return delay
	}
	diff := framePTS - masterClock
	syncThreshold := delay
	if AVSyncThreshold > syncThreshold {
		syncThreshold = AVSyncThreshold
	}
	if math.Abs(diff) >= AVNoSyncThreshold {
		return delay
	}
	switch {
	case diff <= -syncThreshold:
		return 0
	case diff >= syncThreshold:
		return 2 * delay
	default:
		return delay
	}
}

// ScheduleDelay folds a computed delay into the running frame timer and
// returns how many milliseconds to arm the next refresh timer for, clamped
// to a 10ms floor so a burst of late frames can't busy-loop the presenter.
func ScheduleDelay(frameTimer, delay, nowSeconds float64) (delayMillis uint32, nextFrameTimer float64) {
	nextFrameTimer = frameTimer + delay
	actual := nextFrameTimer - nowSeconds
	if actual < 0.010 {
		actual = 0.010
	}
	return uint32(actual*1000 + 0.5), nextFrameTimer
}

// AudioSyncState tracks the rolling average audio/master clock drift used
// to decide whether (and how much) to stretch or truncate the next audio
// buffer.
type AudioSyncState struct {
	diffCum      float64
	diffAvgCount int
	avgCoef      float64
	threshold    float64
}

// NewAudioSyncState creates a tracker. threshold is the minimum average
// drift (seconds) worth correcting for; callers derive it from the
// device's buffer size, roughly 2*bufferSamples/sampleRate.
func NewAudioSyncState(threshold float64) *AudioSyncState {
	return &AudioSyncState{
		avgCoef:   math.Exp(math.Log(0.01) / AudioDiffAvgNB),
		threshold: threshold,
	}
}

// Reset clears the rolling average, used when the clocks diverge beyond
// AVNoSyncThreshold (a seek) so stale history doesn't mis-correct.
func (s *AudioSyncState) Reset() {
	s.diffCum = 0
	s.diffAvgCount = 0
}

// WantedSize returns how many bytes the next audio buffer of sampleSize
// bytes should be stretched or truncated to, given diff = audio_clock -
// master_clock in seconds. bytesPerFrame is the interleaved frame size
// (channels * bytes-per-sample); sampleRate is the device's output rate.
// Returns sampleSize unchanged until AudioDiffAvgNB samples of history have
// accumulated, or once the rolling average drift is below threshold.
func (s *AudioSyncState) WantedSize(sampleSize int, diff float64, sampleRate, bytesPerFrame int) int {
	if math.Abs(diff) >= AVNoSyncThreshold {
		s.Reset()
		return sampleSize
	}

	s.diffCum = diff + s.avgCoef*s.diffCum
	if s.diffAvgCount < AudioDiffAvgNB {
		s.diffAvgCount++
		return sampleSize
	}

	avgDiff := s.diffCum * (1.0 - s.avgCoef)
	if math.Abs(avgDiff) < s.threshold {
		return sampleSize
	}

	wanted := sampleSize + int(diff*float64(sampleRate))*bytesPerFrame
	minSize := sampleSize * (100 - SampleCorrectionPercent) / 100
	maxSize := sampleSize * (100 + SampleCorrectionPercent) / 100
	minSize -= minSize % bytesPerFrame
	maxSize -= maxSize % bytesPerFrame
	switch {
	case wanted < minSize:
		wanted = minSize
	case wanted > maxSize:
		wanted = maxSize
	}
	return wanted
}

// StretchPCM resizes pcm to exactly wantedSize bytes: truncating drops
// trailing frames, growing repeats the final frame to pad — cheap,
// inaudible at the correction sizes this ever produces.
// pcm must already be a whole number of bytesPerFrame-sized frames.
func StretchPCM(pcm []byte, bytesPerFrame, wantedSize int) []byte {
	if wantedSize <= 0 || wantedSize == len(pcm) || len(pcm) < bytesPerFrame {
		return pcm
	}
	if wantedSize < len(pcm) {
		return pcm[:wantedSize]
	}

	out := make([]byte, wantedSize)
	copy(out, pcm)
	lastFrame := pcm[len(pcm)-bytesPerFrame:]
	for i := len(pcm); i+bytesPerFrame <= wantedSize; i += bytesPerFrame {
		copy(out[i:i+bytesPerFrame], lastFrame)
	}
	return out
}
