package queue

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGetFIFOOrder(t *testing.T) {
	q := New()
	for i := 0; i < 5; i++ {
		q.Put(&Packet{StreamIndex: 0, Size: 10, PTS: int64(i)})
	}
	require.Equal(t, 50, q.Size())
	require.Equal(t, 5, q.NPackets())

	for i := 0; i < 5; i++ {
		pkt, ok := q.Get(false)
		require.True(t, ok)
		assert.Equal(t, int64(i), pkt.PTS)
	}
	assert.Equal(t, 0, q.Size())
	assert.Equal(t, 0, q.NPackets())
}

func TestGetNonBlockingEmpty(t *testing.T) {
	q := New()
	pkt, ok := q.Get(false)
	assert.False(t, ok)
	assert.Nil(t, pkt)
}

func TestSizeTracksPayloadBytes(t *testing.T) {
	q := New()
	q.Put(&Packet{Size: 7})
	q.Put(&Packet{Size: 3})
	assert.Equal(t, 10, q.Size())
	_, _ = q.Get(false)
	assert.Equal(t, 3, q.Size())
}

func TestBlockingGetWakesOnPut(t *testing.T) {
	q := New()
	done := make(chan *Packet, 1)

	go func() {
		pkt, ok := q.Get(true)
		if !ok {
			done <- nil
			return
		}
		done <- pkt
	}()

	time.Sleep(20 * time.Millisecond) // let the getter block
	q.Put(&Packet{PTS: 42, Size: 1})

	select {
	case pkt := <-done:
		require.NotNil(t, pkt)
		assert.Equal(t, int64(42), pkt.PTS)
	case <-time.After(time.Second):
		t.Fatal("blocking Get never woke up after Put")
	}
}

func TestAbortUnblocksAllWaiters(t *testing.T) {
	q := New()
	const n = 8
	var wg sync.WaitGroup
	results := make([]bool, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, ok := q.Get(true)
			results[i] = ok
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	q.Abort()

	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()

	select {
	case <-waitDone:
	case <-time.After(time.Second):
		t.Fatal("not all waiters returned within one signal cycle of Abort")
	}
	for i, ok := range results {
		assert.Falsef(t, ok, "waiter %d should have observed abort", i)
	}
}

func TestAbortThenGetReturnsImmediately(t *testing.T) {
	q := New()
	q.Abort()
	pkt, ok := q.Get(true)
	assert.False(t, ok)
	assert.Nil(t, pkt)
}
