package decode

/*
#include <stdlib.h>
*/
import "C"

import (
	"fmt"
	"io"
	"unsafe"
)

// AudioFrame is a chunk of resampled, interleaved signed-16 stereo PCM.
type AudioFrame struct {
	PCM       []byte
	PacketPTS int64 // queue.UnknownTimestamp if the source frame had none
}

// AudioDecoder decodes one audio stream and resamples every frame to
// interleaved s16 stereo at the configured output rate.
type AudioDecoder struct {
	c             C.AudioDecoder
	outSampleRate int
}

// OpenAudioDecoder opens the demuxer's audio stream, resampling to stereo
// s16 at outSampleRate (44100 in the normal case).
func (d *Demuxer) OpenAudioDecoder(outSampleRate int) (*AudioDecoder, error) {
	if !d.HasAudio() {
		return nil, ErrNoAudioStream
	}
	a := &AudioDecoder{outSampleRate: outSampleRate}
	if ret := C.audio_decoder_open(&d.c, C.int(outSampleRate), &a.c); ret != 0 {
		return nil, fmt.Errorf("audio: open failed (code=%d)", int(ret))
	}
	return a, nil
}

// SampleRate returns the decoder's configured output sample rate.
func (a *AudioDecoder) SampleRate() int { return a.outSampleRate }

// Channels is always 2 (stereo); every source is normalized to stereo
// before it reaches the audio device.
func (a *AudioDecoder) Channels() int { return 2 }

// Send hands a packet's payload to the decoder.
func (a *AudioDecoder) Send(data []byte, pts, dts int64) error {
	var ptr *C.uint8_t
	if len(data) > 0 {
		ptr = (*C.uint8_t)(unsafe.Pointer(&data[0]))
	}
	ret := C.audio_decoder_send_packet(&a.c, ptr, C.int(len(data)), C.int64_t(pts), C.int64_t(dts))
	if ret < 0 {
		return fmt.Errorf("audio: send_packet failed (code=%d)", int(ret))
	}
	return nil
}

// Receive returns the next resampled frame, io.EOF once flushed, or
// ErrNeedMorePackets() if nothing is buffered yet.
func (a *AudioDecoder) Receive() (*AudioFrame, error) {
	var buf *C.uint8_t
	var nbytes C.int
	var pts C.int64_t

	ret := C.audio_decoder_receive_frame(&a.c, &buf, &nbytes, &pts)
	switch {
	case ret == 0:
		return nil, errNeedMorePackets
	case ret == -1:
		return nil, io.EOF
	case ret < 0:
		return nil, fmt.Errorf("audio: receive_frame failed (code=%d)", int(ret))
	}

	pcm := C.GoBytes(unsafe.Pointer(buf), nbytes)
	return &AudioFrame{PCM: pcm, PacketPTS: ptsOrUnknown(int64(pts))}, nil
}

// Close releases the decoder.
func (a *AudioDecoder) Close() {
	C.audio_decoder_close(&a.c)
}
