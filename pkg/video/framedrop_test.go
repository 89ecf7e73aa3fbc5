package video

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"avframe/pkg/performance"
)

func newTestFrameDropPolicy() *FrameDropPolicy {
	return NewFrameDropPolicy(performance.PressureThresholds{Low: 400, Medium: 200, High: 100, Critical: 50})
}

func TestFrameDropPolicyStaysOffForOccasionalLateFrame(t *testing.T) {
	p := newTestFrameDropPolicy()
	assert.False(t, p.Observe(0.2))
	assert.False(t, p.Observe(0.0))
	assert.False(t, p.IsDropping())
}

func TestFrameDropPolicyEntersDropAfterConsecutiveLateFrames(t *testing.T) {
	p := newTestFrameDropPolicy()
	assert.False(t, p.Observe(0.2))
	assert.False(t, p.Observe(0.2))
	assert.True(t, p.Observe(0.2))
	assert.True(t, p.IsDropping())
}

func TestFrameDropPolicyExitsAfterConsecutiveOnTimeFrames(t *testing.T) {
	p := newTestFrameDropPolicy()
	for i := 0; i < 3; i++ {
		p.Observe(0.2)
	}
	assert.True(t, p.IsDropping())

	for i := 0; i < 9; i++ {
		assert.True(t, p.Observe(0.0))
	}
	assert.False(t, p.Observe(0.0))
	assert.False(t, p.IsDropping())
}

func TestFrameDropPolicyResetClearsState(t *testing.T) {
	p := newTestFrameDropPolicy()
	for i := 0; i < 3; i++ {
		p.Observe(0.2)
	}
	assert.True(t, p.IsDropping())

	p.Reset()
	assert.False(t, p.IsDropping())
	assert.False(t, p.Observe(0.2))
}

func TestFrameDropPolicyRecordDecodeDoesNotAffectDropDecision(t *testing.T) {
	p := newTestFrameDropPolicy()
	p.RecordDecode(5 * time.Millisecond)
	p.RecordDecode(6 * time.Millisecond)
	assert.False(t, p.Observe(0.0))
	assert.False(t, p.IsDropping())
}
