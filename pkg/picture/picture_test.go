package picture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOverlay struct{ w, h int }

func (f fakeOverlay) Width() int  { return f.w }
func (f fakeOverlay) Height() int { return f.h }

func TestCapacityBoundsOccupancy(t *testing.T) {
	q := New(1)
	assert.Equal(t, 0, q.Size())

	require.True(t, q.WaitForSpace())
	slot := q.WriteSlot()
	slot.PTS = 1.0
	slot.Overlay = fakeOverlay{16, 16}
	q.Push()
	assert.Equal(t, 1, q.Size())
	assert.Equal(t, 1, q.Capacity())
}

func TestProducerBlocksWhenFull(t *testing.T) {
	q := New(1)
	require.True(t, q.WaitForSpace())
	q.WriteSlot().PTS = 1
	q.Push()

	blocked := make(chan struct{})
	go func() {
		q.WaitForSpace() // should block: size == capacity
		close(blocked)
	}()

	select {
	case <-blocked:
		t.Fatal("producer did not block while queue was full")
	case <-time.After(50 * time.Millisecond):
	}

	q.Pop() // consumer frees a slot
	select {
	case <-blocked:
	case <-time.After(time.Second):
		t.Fatal("producer never unblocked after consumer Pop")
	}
}

func TestConsumerBlocksWhenEmpty(t *testing.T) {
	q := New(1)
	gotPicture := make(chan struct{})
	go func() {
		q.WaitForPicture()
		close(gotPicture)
	}()

	select {
	case <-gotPicture:
		t.Fatal("consumer did not block on an empty queue")
	case <-time.After(50 * time.Millisecond):
	}

	require.True(t, q.WaitForSpace())
	q.WriteSlot().PTS = 5
	q.Push()

	select {
	case <-gotPicture:
	case <-time.After(time.Second):
		t.Fatal("consumer never unblocked after Push")
	}
}

func TestAbortUnblocksProducerAndConsumer(t *testing.T) {
	q := New(1)
	q.WriteSlot().PTS = 1
	q.Push() // fill the only slot

	producerDone := make(chan bool)
	consumerDone := make(chan bool)
	q2 := New(1) // separate empty queue for the consumer side
	go func() { producerDone <- q.WaitForSpace() }()
	go func() { consumerDone <- q2.WaitForPicture() }()

	time.Sleep(20 * time.Millisecond)
	q.Abort()
	q2.Abort()

	assert.False(t, <-producerDone)
	assert.False(t, <-consumerDone)
}

func TestWaitForPictureTimeoutReturnsFalseWhenEmpty(t *testing.T) {
	q := New(1)
	start := time.Now()
	assert.False(t, q.WaitForPictureTimeout(20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestWaitForPictureTimeoutReturnsTrueWhenPushedBeforeDeadline(t *testing.T) {
	q := New(1)
	go func() {
		time.Sleep(5 * time.Millisecond)
		require.True(t, q.WaitForSpace())
		q.WriteSlot().PTS = 1
		q.Push()
	}()
	assert.True(t, q.WaitForPictureTimeout(time.Second))
}

func TestWaitForPictureTimeoutReturnsFalseOnAbort(t *testing.T) {
	q := New(1)
	go func() {
		time.Sleep(5 * time.Millisecond)
		q.Abort()
	}()
	assert.False(t, q.WaitForPictureTimeout(time.Second))
}

func TestRingWrapsAcrossMultipleSlots(t *testing.T) {
	q := New(2)
	for i := 0; i < 4; i++ {
		require.True(t, q.WaitForSpace())
		q.WriteSlot().PTS = float64(i)
		q.Push()
		if q.Size() == q.Capacity() {
			p := q.Peek()
			assert.Equal(t, float64(i-1), p.PTS)
			q.Pop()
		}
	}
}
