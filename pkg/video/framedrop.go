package video

import (
	"log"
	"sync"
	"time"

	"avframe/pkg/performance"
)

// decodeTimeWindow sizes the rolling average of decode durations used to
// judge degradation; 120 samples is ~2s of history at 60fps.
const decodeTimeWindow = 120

// FrameDropPolicy decides, per decoded video frame, whether the video
// decoder should skip enqueueing it (the frame has already been decoded and
// colour-converted by then) rather than publish a picture the presenter will
// just have to display late or not at all, using a slow/good hysteresis
// state machine. It also keeps the rolling
// decode-time average and drop counters that judge whether the pipeline is
// degrading, since that judgment and the drop decision are the same
// symptom observed at the same call site rather than two independent
// subsystems.
type FrameDropPolicy struct {
	mu sync.Mutex

	dropping        bool
	consecutiveLate int
	consecutiveGood int

	enterDropAfter int     // consecutive late frames before dropping starts
	exitDropAfter  int     // consecutive on-time frames before dropping stops
	lateThreshold  float64 // seconds behind master clock considered "late"

	decodeTimes  [decodeTimeWindow]time.Duration
	decodeIndex  int
	decodeFilled bool
	decodeSum    time.Duration

	droppedFrames int
	totalFrames   int

	memThresholds performance.PressureThresholds
}

// NewFrameDropPolicy returns a policy with the classic ffplay sync
// thresholds: a frame is "late" once it trails the master clock by more
// than 100ms, and dropping only kicks in after a run of consecutively late
// frames so a single glitch doesn't start discarding frames. memThresholds
// scales the memory-pressure diagnostic logged when decode health degrades
// to the caller's own resource budget (see pkg/performance.PressureThresholds).
func NewFrameDropPolicy(memThresholds performance.PressureThresholds) *FrameDropPolicy {
	return &FrameDropPolicy{
		enterDropAfter: 3,
		exitDropAfter:  10,
		lateThreshold:  0.100,
		memThresholds:  memThresholds,
	}
}

// RecordDecode folds a frame's decode duration into the rolling average
// degradingLocked checks.
func (f *FrameDropPolicy) RecordDecode(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.decodeFilled {
		f.decodeSum -= f.decodeTimes[f.decodeIndex]
	}
	f.decodeTimes[f.decodeIndex] = d
	f.decodeSum += d
	f.decodeIndex++
	if f.decodeIndex >= len(f.decodeTimes) {
		f.decodeIndex = 0
		f.decodeFilled = true
	}
}

func (f *FrameDropPolicy) avgDecodeLocked() time.Duration {
	count := f.decodeIndex
	if f.decodeFilled {
		count = len(f.decodeTimes)
	}
	if count == 0 {
		return 0
	}
	return f.decodeSum / time.Duration(count)
}

// degradingLocked reports whether the drop rate or decode time indicate the
// pipeline is falling behind, beyond what the hysteresis on Observe alone
// would show: more than 5% of frames dropped, or average decode time past
// 30ms (too slow to sustain 30fps).
func (f *FrameDropPolicy) degradingLocked() bool {
	if f.totalFrames == 0 {
		return false
	}
	dropRate := float64(f.droppedFrames) / float64(f.totalFrames)
	return dropRate > 0.05 || f.avgDecodeLocked() > 30*time.Millisecond
}

// Observe records how far behind the master clock a just-decoded frame's
// pts is (positive = late) and reports whether the video decoder should
// drop this frame instead of enqueueing it. It also logs a memory
// diagnostic on every call made while the bookkeeping shows the pipeline
// degrading, since a starved allocator is a common cause; the log is not
// limited to the first such call.
func (f *FrameDropPolicy) Observe(behindSeconds float64) (shouldDrop bool) {
	f.mu.Lock()

	if behindSeconds > f.lateThreshold {
		f.consecutiveLate++
		f.consecutiveGood = 0
	} else {
		f.consecutiveGood++
		f.consecutiveLate = 0
	}

	if !f.dropping && f.consecutiveLate >= f.enterDropAfter {
		f.dropping = true
		log.Printf("video: decode falling behind master clock, dropping frames")
	} else if f.dropping && f.consecutiveGood >= f.exitDropAfter {
		f.dropping = false
		log.Printf("video: decode caught up, resuming normal display")
	}

	f.totalFrames++
	if f.dropping {
		f.droppedFrames++
	}
	degrading := f.degradingLocked()
	shouldDrop = f.dropping
	thresholds := f.memThresholds
	f.mu.Unlock()

	if degrading {
		performance.LogMemorySnapshot(thresholds)
	}
	return shouldDrop
}

// Reset returns the policy to its initial, non-dropping state (call when
// switching sources).
func (f *FrameDropPolicy) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dropping = false
	f.consecutiveLate = 0
	f.consecutiveGood = 0
	f.decodeTimes = [decodeTimeWindow]time.Duration{}
	f.decodeIndex = 0
	f.decodeFilled = false
	f.decodeSum = 0
	f.droppedFrames = 0
	f.totalFrames = 0
}

// IsDropping reports the current decision without recording a new sample.
func (f *FrameDropPolicy) IsDropping() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dropping
}
