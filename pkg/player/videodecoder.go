package player

import (
	"io"
	"log"
	"time"

	"avframe/pkg/decode"
)

// frameOverlay adapts a decoded *decode.VideoFrame to picture.Overlay so it
// can sit in the picture queue before pkg/sdlio ever sees it; the presenter
// type-asserts it back out to upload into the real texture.
type frameOverlay struct{ *decode.VideoFrame }

func (f frameOverlay) Width() int  { return f.VideoFrame.Width }
func (f frameOverlay) Height() int { return f.VideoFrame.Height }

// runVideoDecoder pulls packets from the video packet queue, decodes and
// scales each frame, recovers its pts, advances the video clock, and (unless
// the frame-drop policy says to skip it) publishes a Picture.
func (s *State) runVideoDecoder() {
	defer log.Println("player: video decoder stopped")
	if s.VideoDecoder == nil {
		return
	}

	timeBase := s.Demuxer.VideoTimeBase()
	streamSeconds := timeBase.Seconds(1)
	if guess := s.Demuxer.GuessFrameRate(); guess > 0 {
		streamSeconds = 1.0 / guess
	}

	// videoClock is the decoder-side running clock that a frame with an
	// unknown pts inherits.
	var videoClock float64

	for !s.ShuttingDown() {
		frame, err := s.nextVideoFrame(timeBase)
		if err == io.EOF {
			return
		}
		if err != nil {
			log.Printf("player: video decode error: %v", err)
			continue
		}

		// best_effort_timestamp already folds pts/dts reordering, so there's
		// no separate dts to recover from at this layer.
		inputPTS := decode.RecoverFramePTS(frame.PacketPTS, decode.UnknownTS, timeBase)
		framePTS, nextClock := decode.AdvanceVideoClock(videoClock, inputPTS, streamSeconds, frame.RepeatPict)
		videoClock = nextClock
		s.VideoClock.Set(framePTS)

		behind := s.Selector.Master()() - framePTS
		if s.FrameDrop.Observe(behind) {
			continue
		}

		if !s.Pictures.WaitForSpace() {
			return
		}
		slot := s.Pictures.WriteSlot()
		slot.Overlay = frameOverlay{frame}
		slot.PTS = framePTS
		slot.Width = frame.Width
		slot.Height = frame.Height
		slot.Allocated = true
		s.Pictures.Push()
	}
}

func (s *State) nextVideoFrame(timeBase decode.Rational) (*decode.VideoFrame, error) {
	for {
		start := time.Now()
		frame, err := s.VideoDecoder.Receive()
		switch err {
		case nil:
			s.FrameDrop.RecordDecode(time.Since(start))
			return frame, nil
		case io.EOF:
			return nil, io.EOF
		case decode.ErrNeedMorePackets():
			// fall through to feed another packet
		default:
			return nil, err
		}

		pkt, ok := s.VideoPackets.Get(true)
		if !ok {
			return nil, io.EOF
		}
		if sendErr := s.VideoDecoder.Send(pkt.Data, pkt.PTS, pkt.DTS); sendErr != nil {
			return nil, sendErr
		}
	}
}
