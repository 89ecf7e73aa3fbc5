package sdlio

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
)

// AudioDevice is a push-queued SDL audio output: the player feeds it
// resampled PCM and SDL drains it on its own device thread. The amount
// still queued (QueuedBytes) is what pkg/clock.Audio needs to back out the
// audio clock from "bytes handed to SDL" to "bytes actually sounding now".
type AudioDevice struct {
	id         sdl.AudioDeviceID
	sampleRate int
	channels   int
}

// OpenAudioDevice opens the default output device for 16-bit signed stereo
// PCM at sampleRate, with a device buffer of bufferSamples frames
// (SDL_AUDIO_BUFFER_SIZE, 1024 by default — pkg/config).
func OpenAudioDevice(sampleRate, channels, bufferSamples int) (*AudioDevice, error) {
	want := sdl.AudioSpec{
		Freq:     int32(sampleRate),
		Format:   sdl.AUDIO_S16SYS,
		Channels: uint8(channels),
		Samples:  uint16(bufferSamples),
	}
	var have sdl.AudioSpec
	id, err := sdl.OpenAudioDevice("", false, &want, &have, 0)
	if err != nil {
		return nil, fmt.Errorf("sdlio: open audio device: %w", err)
	}
	sdl.PauseAudioDevice(id, false)
	return &AudioDevice{id: id, sampleRate: int(have.Freq), channels: int(have.Channels)}, nil
}

// Queue appends PCM bytes to the device's internal buffer.
func (a *AudioDevice) Queue(pcm []byte) error {
	return sdl.QueueAudio(a.id, pcm)
}

// QueuedBytes reports how many bytes of previously queued audio have not
// yet played, for the audio clock's pending-bytes term.
func (a *AudioDevice) QueuedBytes() int {
	return int(sdl.GetQueuedAudioSize(a.id))
}

// SampleRate and Channels report the device's actual (obtained) format.
func (a *AudioDevice) SampleRate() int { return a.sampleRate }
func (a *AudioDevice) Channels() int   { return a.channels }

// Close stops and releases the device.
func (a *AudioDevice) Close() {
	sdl.CloseAudioDevice(a.id)
}
