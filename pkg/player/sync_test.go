package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrameDelayFallsBackOnNonPositiveGap(t *testing.T) {
	assert.Equal(t, 0.2, FrameDelay(1.0, 1.0, 0.2))
	assert.Equal(t, 0.2, FrameDelay(0.9, 1.0, 0.2))
}

func TestFrameDelayFallsBackOnHugeGap(t *testing.T) {
	assert.Equal(t, 0.2, FrameDelay(5.0, 1.0, 0.2))
}

func TestFrameDelayUsesGapWhenReasonable(t *testing.T) {
	assert.InDelta(t, 0.04, FrameDelay(1.04, 1.0, 0.2), 1e-9)
}

func TestApplyVideoSyncCorrectionNoopWhenVideoIsMaster(t *testing.T) {
	assert.Equal(t, 0.04, ApplyVideoSyncCorrection(0.04, 10, 5, true))
}

func TestApplyVideoSyncCorrectionClampsWhenBehind(t *testing.T) {
	got := ApplyVideoSyncCorrection(0.04, 1.0, 2.0, false) // video pts behind master by 1s
	assert.Equal(t, 0.0, got)
}

func TestApplyVideoSyncCorrectionDoublesWhenAhead(t *testing.T) {
	got := ApplyVideoSyncCorrection(0.04, 3.0, 2.0, false) // video pts ahead of master by 1s
	assert.Equal(t, 0.08, got)
}

func TestApplyVideoSyncCorrectionIgnoresHugeDivergence(t *testing.T) {
	got := ApplyVideoSyncCorrection(0.04, 20.0, 2.0, false)
	assert.Equal(t, 0.04, got)
}

func TestScheduleDelayClampsToTenMillisecondFloor(t *testing.T) {
	ms, frameTimer := ScheduleDelay(100.0, 0.0, 100.5) // already behind wall clock
	assert.Equal(t, uint32(10), ms)
	assert.Equal(t, 100.0, frameTimer)
}

func TestScheduleDelayAdvancesFrameTimer(t *testing.T) {
	ms, frameTimer := ScheduleDelay(100.0, 0.04, 100.0)
	assert.Equal(t, uint32(40), ms)
	assert.InDelta(t, 100.04, frameTimer, 1e-9)
}

func TestAudioSyncStateIgnoresUntilHistoryFills(t *testing.T) {
	s := NewAudioSyncState(0.01)
	for i := 0; i < AudioDiffAvgNB-1; i++ {
		got := s.WantedSize(4096, 0.5, 44100, 4)
		assert.Equal(t, 4096, got, "should not correct before history fills")
	}
}

func TestAudioSyncStateResetsOnHugeDivergence(t *testing.T) {
	s := NewAudioSyncState(0.01)
	got := s.WantedSize(4096, 50.0, 44100, 4)
	assert.Equal(t, 4096, got)
	assert.Equal(t, 0, s.diffAvgCount)
}

func TestAudioSyncStateClampsWithinTenPercent(t *testing.T) {
	s := NewAudioSyncState(0.0001)
	var got int
	for i := 0; i < AudioDiffAvgNB+5; i++ {
		got = s.WantedSize(4096, 1.0, 44100, 4) // sustained 1s drift
	}
	assert.LessOrEqual(t, got, 4096*110/100)
	assert.GreaterOrEqual(t, got, 4096*90/100)
}

func TestStretchPCMTruncates(t *testing.T) {
	pcm := make([]byte, 16)
	for i := range pcm {
		pcm[i] = byte(i)
	}
	out := StretchPCM(pcm, 4, 12)
	assert.Equal(t, pcm[:12], out)
}

func TestStretchPCMPadsByRepeatingLastFrame(t *testing.T) {
	pcm := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	out := StretchPCM(pcm, 4, 16)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8, 5, 6, 7, 8, 5, 6, 7, 8}, out)
}
