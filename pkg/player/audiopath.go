package player

import (
	"io"
	"log"
	"time"

	"avframe/pkg/clock"
	"avframe/pkg/decode"
)

// audioBytesPerFrame is fixed by the decoder's resample target: stereo,
// 16-bit samples.
const audioBytesPerFrame = 2 * 2

// runAudioPath pulls decoded, resampled PCM and queues it to the sink,
// stretching or truncating each buffer to chase the master clock when audio
// isn't itself the master. It paces itself off the sink's
// backlog rather than a timer, since the sink (a real audio device) drains
// at its own fixed rate.
func (s *State) runAudioPath() {
	defer log.Println("player: audio path stopped")

	sampleRate := s.AudioDecoder.SampleRate()
	timeBase := s.Demuxer.AudioTimeBase()
	lowWatermarkBytes := sampleRate * audioBytesPerFrame / 5 // ~200ms buffered ahead

	diffThreshold := 2.0 * float64(s.Config.AudioBufferSamples) / float64(sampleRate)
	sync := NewAudioSyncState(diffThreshold)

	for !s.ShuttingDown() {
		if s.AudioSink.QueuedBytes() > lowWatermarkBytes {
			time.Sleep(10 * time.Millisecond)
			continue
		}

		frame, err := s.nextAudioFrame()
		if err == io.EOF {
			return
		}
		if err != nil {
			log.Printf("player: audio decode error: %v", err)
			continue
		}

		if frame.PacketPTS != decode.UnknownTS {
			s.AudioClock.Set(timeBase.Seconds(frame.PacketPTS))
		}
		samples := frame.PCM
		elapsed := float64(len(samples)) / float64(sampleRate*audioBytesPerFrame)
		s.AudioClock.Advance(elapsed)

		if s.Selector.Mode != clock.ModeAudio {
			diff := s.AudioClock.Now(s.AudioSink.QueuedBytes(), float64(sampleRate*audioBytesPerFrame)) - s.Selector.Master()()
			wanted := sync.WantedSize(len(samples), diff, sampleRate, audioBytesPerFrame)
			samples = StretchPCM(samples, audioBytesPerFrame, wanted)
		}

		if err := s.AudioSink.Queue(samples); err != nil {
			log.Printf("player: audio sink error: %v", err)
		}
	}
}

func (s *State) nextAudioFrame() (*decode.AudioFrame, error) {
	for {
		frame, err := s.AudioDecoder.Receive()
		switch err {
		case nil:
			return frame, nil
		case io.EOF:
			return nil, io.EOF
		case decode.ErrNeedMorePackets():
			// fall through to feed another packet
		default:
			return nil, err
		}

		pkt, ok := s.AudioPackets.Get(true)
		if !ok {
			return nil, io.EOF
		}
		if sendErr := s.AudioDecoder.Send(pkt.Data, pkt.PTS, pkt.DTS); sendErr != nil {
			return nil, sendErr
		}
	}
}
