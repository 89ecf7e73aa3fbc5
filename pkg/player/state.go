package player

import (
	"log"
	"sync"
	"sync/atomic"

	"avframe/pkg/clock"
	"avframe/pkg/config"
	"avframe/pkg/decode"
	"avframe/pkg/performance"
	"avframe/pkg/picture"
	"avframe/pkg/queue"
	"avframe/pkg/video"
)

// Queue byte caps: roughly five seconds' worth of a typical compressed
// stream, measured in compressed bytes rather than samples/frames, so a
// slow consumer can't let either queue grow unbounded.
const (
	MaxAudioQueueBytes = 5 * 16 * 1024
	MaxVideoQueueBytes = 5 * 256 * 1024

	// PictureQueueCapacity is deliberately tiny: one frame decoding while
	// one displays is enough pipelining for a single-stream player.
	PictureQueueCapacity = 1
)

// queueMemoryThresholds scales the generic memory-pressure bands to this
// player's own packet-queue budget: a box that can't spare a handful of
// multiples of the configured queue size has no headroom for the pipeline
// at all, regardless of what a fixed desktop-class number would say.
func queueMemoryThresholds() performance.PressureThresholds {
	budgetMB := float64(MaxVideoQueueBytes+MaxAudioQueueBytes) / (1024 * 1024)
	return performance.PressureThresholds{
		Low:      uint64(budgetMB * 400),
		Medium:   uint64(budgetMB * 200),
		High:     uint64(budgetMB * 100),
		Critical: uint64(budgetMB * 50),
	}
}

// AudioSink is the output side of the audio path: something that accepts
// interleaved PCM and reports how much of what it's been given hasn't
// played yet. pkg/sdlio.AudioDevice is the concrete implementation.
type AudioSink interface {
	Queue(pcm []byte) error
	QueuedBytes() int
}

// State is one playback session's full mutable state: the queues, clocks,
// decoders, and sink everything else operates on.
type State struct {
	Config config.Config

	Demuxer      *decode.Demuxer
	VideoPackets *queue.Queue
	AudioPackets *queue.Queue
	Pictures     *picture.Queue

	VideoClock clock.Video
	AudioClock clock.Audio
	Selector   clock.Selector

	VideoDecoder *decode.VideoDecoder
	AudioDecoder *decode.AudioDecoder
	AudioSink    AudioSink

	FrameDrop *video.FrameDropPolicy

	shuttingDown atomic.Bool
	wg           sync.WaitGroup
}

// New assembles a State around an already-opened demuxer and its stream
// decoders (main.go constructs these after resolving and opening the
// source). The audio sink may be nil for a source with no audio stream or
// when audio output failed to open; the audio path then simply doesn't run.
func New(cfg config.Config, demuxer *decode.Demuxer, videoDec *decode.VideoDecoder, audioDec *decode.AudioDecoder, audioSink AudioSink) *State {
	s := &State{
		Config:       cfg,
		Demuxer:      demuxer,
		VideoPackets: queue.New(),
		AudioPackets: queue.New(),
		Pictures:     picture.New(PictureQueueCapacity),
		VideoDecoder: videoDec,
		AudioDecoder: audioDec,
		AudioSink:    audioSink,
		FrameDrop:    video.NewFrameDropPolicy(queueMemoryThresholds()),
	}

	s.Selector = clock.Selector{
		Mode:  cfg.SyncMode.ClockMode(),
		Video: s.VideoClock.Now,
		Audio: func() float64 {
			pending := 0
			bytesPerSecond := 0.0
			if audioSink != nil && audioDec != nil {
				pending = audioSink.QueuedBytes()
				bytesPerSecond = float64(audioDec.SampleRate() * audioDec.Channels() * 2)
			}
			return s.AudioClock.Now(pending, bytesPerSecond)
		},
	}
	return s
}

// RequestShutdown sets the shutdown flag every goroutine polls: the same
// effect as a quit event or SIGINT.
func (s *State) RequestShutdown() {
	if s.shuttingDown.CompareAndSwap(false, true) {
		s.VideoPackets.Abort()
		s.AudioPackets.Abort()
		s.Pictures.Abort()
		s.Demuxer.Interrupt()
		log.Println("player: shutdown requested")
	}
}

// ShuttingDown reports whether RequestShutdown has been called.
func (s *State) ShuttingDown() bool {
	return s.shuttingDown.Load()
}

// Wait blocks until every goroutine started by Start has returned.
func (s *State) Wait() {
	s.wg.Wait()
}

// Start launches the demultiplexer, video decoder, and (if present) audio
// path goroutines. The presenter runs on the caller's goroutine (main
// thread, via pkg/sdlio) and is not started here.
func (s *State) Start() {
	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		s.runDemultiplexer()
	}()
	go func() {
		defer s.wg.Done()
		s.runVideoDecoder()
	}()

	if s.AudioDecoder != nil && s.AudioSink != nil {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runAudioPath()
		}()
	}
}
