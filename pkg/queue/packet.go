// Package queue implements the bounded FIFO of compressed packets that sits
// between the demultiplexer and each stream's decoder.
package queue

import (
	"container/list"
	"sync"
)

// Packet is an opaque compressed unit read from the container. Ownership of
// Data transfers into the queue on Put and out again on Get; the receiver
// is expected to release Data after decode.
type Packet struct {
	StreamIndex int
	Data        []byte
	DTS         int64 // decode timestamp in stream time_base units; UnknownTimestamp if unknown
	PTS         int64 // presentation timestamp in stream time_base units; UnknownTimestamp if unknown
	Size        int   // byte size charged against the queue's backpressure budget
}

// UnknownTimestamp marks a Packet.DTS/PTS that the container did not supply.
const UnknownTimestamp = int64(-1) << 62

// Queue is a linked-list FIFO of Packets, protected by a mutex and
// condition variable, with a running byte-size counter used by the
// demultiplexer to apply backpressure. The zero value is not usable; call
// New.
type Queue struct {
	mu   sync.Mutex
	cond *sync.Cond
	list *list.List // of *Packet, head = next to dequeue

	size      int // accumulated Packet.Size of all enqueued packets
	nPackets  int
	abort     bool
}

// New creates an empty packet queue.
func New() *Queue {
	q := &Queue{list: list.New()}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Put appends pkt to the tail, taking ownership of it. Put never blocks on
// fullness — backpressure is the demultiplexer's responsibility, applied by
// reading Size against a cap before calling Put.
func (q *Queue) Put(pkt *Packet) {
	q.mu.Lock()
	q.list.PushBack(pkt)
	q.size += pkt.Size
	q.nPackets++
	q.mu.Unlock()
	q.cond.Signal()
}

// Abort sets the shutdown flag and wakes every blocked Get so it can return
// the terminal signal.
func (q *Queue) Abort() {
	q.mu.Lock()
	q.abort = true
	q.mu.Unlock()
	q.cond.Broadcast()
}

// Get dequeues the head packet. When blocking is true and the queue is
// empty, Get waits on the condition until a packet arrives or Abort is
// called. It returns (pkt, true) on success, (nil, false) if aborted or, in
// non-blocking mode, if nothing is available right now.
func (q *Queue) Get(blocking bool) (*Packet, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for {
		if q.abort {
			return nil, false
		}
		if e := q.list.Front(); e != nil {
			q.list.Remove(e)
			pkt := e.Value.(*Packet)
			q.size -= pkt.Size
			q.nPackets--
			return pkt, true
		}
		if !blocking {
			return nil, false
		}
		q.cond.Wait()
	}
}

// Size returns the accumulated byte size of all currently enqueued packets.
// Used by the demultiplexer to decide whether to apply backpressure.
func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// NPackets returns the number of packets currently enqueued.
func (q *Queue) NPackets() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.nPackets
}
