package player

import (
	"io"
	"log"
	"time"

	"avframe/pkg/decode"
	"avframe/pkg/queue"
)

// runDemultiplexer reads packets from the container and routes them to the
// matching queue, applying backpressure by sleeping rather than blocking
// indefinitely so a shutdown request is noticed promptly. Reaching the end
// of the container pushes one empty (flush) packet to each decoder's queue
// so the decode loops can drain their buffered frames and exit cleanly,
// then this goroutine returns — there is nothing left to read. A read
// failure that leaves the I/O layer in a clean state is treated as
// transient and retried after a short sleep; anything else is a hard
// error and triggers shutdown.
func (s *State) runDemultiplexer() {
	defer log.Println("player: demultiplexer stopped")

	for !s.ShuttingDown() {
		if s.overQueueBudget() {
			time.Sleep(10 * time.Millisecond)
			continue
		}

		pkt, err := s.Demuxer.ReadPacket()
		if err == io.EOF {
			log.Println("player: demultiplexer reached end of stream")
			if s.VideoDecoder != nil {
				s.VideoPackets.Put(&queue.Packet{
					StreamIndex: s.Demuxer.VideoStreamIndex(),
					PTS:         queue.UnknownTimestamp,
					DTS:         queue.UnknownTimestamp,
				})
			}
			if s.AudioDecoder != nil {
				s.AudioPackets.Put(&queue.Packet{
					StreamIndex: s.Demuxer.AudioStreamIndex(),
					PTS:         queue.UnknownTimestamp,
					DTS:         queue.UnknownTimestamp,
				})
			}
			return
		}
		if err == decode.ErrTransientRead() {
			log.Println("player: demultiplexer hit a transient read error, retrying")
			time.Sleep(100 * time.Millisecond)
			continue
		}
		if err != nil {
			log.Printf("player: demultiplexer read error: %v", err)
			s.RequestShutdown()
			return
		}

		switch pkt.StreamIndex {
		case s.Demuxer.VideoStreamIndex():
			s.VideoPackets.Put(pkt)
		case s.Demuxer.AudioStreamIndex():
			s.AudioPackets.Put(pkt)
		default:
			// packet belongs to a stream we don't decode (subtitles, data, a
			// second audio/video track); drop it.
		}
	}
}

func (s *State) overQueueBudget() bool {
	if s.VideoPackets.Size() >= MaxVideoQueueBytes {
		return true
	}
	if s.AudioDecoder != nil && s.AudioPackets.Size() >= MaxAudioQueueBytes {
		return true
	}
	return false
}
