package decode

/*
#include <libavutil/avutil.h>
#include <stdlib.h>
*/
import "C"

import (
	"errors"
	"fmt"
	"io"
	"unsafe"

	"avframe/pkg/queue"
)

// ErrNoVideoStream and ErrNoAudioStream are returned by the Open*Decoder
// calls when the container has no stream of that type.
var (
	ErrNoVideoStream = errors.New("decode: container has no video stream")
	ErrNoAudioStream = errors.New("decode: container has no audio stream")
)

// errTransientRead is returned by ReadPacket when av_read_frame failed but
// the underlying AVIOContext is still in a clean state (pb->error == 0) —
// a retriable hiccup (a stalled network read, a short read racing a writer
// on a growing file) rather than a hard I/O failure.
var errTransientRead = errors.New("demux: transient read error")

// ErrTransientRead reports that ReadPacket's last failure was transient;
// the caller should pause briefly and read again rather than give up.
func ErrTransientRead() error { return errTransientRead }

// Demuxer owns an open container and hands out raw packets for each stream
// it contains, tagged with the stream index the rest of the pipeline routes
// on.
type Demuxer struct {
	c C.Demuxer
}

// Open opens path (a local, seekable file — any s3:// source must already
// be resolved to one) and locates its first video and first audio stream.
func Open(path string) (*Demuxer, error) {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	d := &Demuxer{}
	if ret := C.demux_open(cPath, &d.c); ret != 0 {
		return nil, fmt.Errorf("demux: open failed (code=%d)", int(ret))
	}
	return d, nil
}

// HasVideo reports whether a video stream was found.
func (d *Demuxer) HasVideo() bool { return int(d.c.videoStream) >= 0 }

// HasAudio reports whether an audio stream was found.
func (d *Demuxer) HasAudio() bool { return int(d.c.audioStream) >= 0 }

// VideoStreamIndex returns the container stream index decoded packets with
// that index belong to, or -1 if HasVideo is false.
func (d *Demuxer) VideoStreamIndex() int { return int(d.c.videoStream) }

// AudioStreamIndex returns the container stream index decoded packets with
// that index belong to, or -1 if HasAudio is false.
func (d *Demuxer) AudioStreamIndex() int { return int(d.c.audioStream) }

// VideoTimeBase returns the video stream's time_base.
func (d *Demuxer) VideoTimeBase() Rational {
	return d.streamTimeBase(d.VideoStreamIndex())
}

// AudioTimeBase returns the audio stream's time_base.
func (d *Demuxer) AudioTimeBase() Rational {
	return d.streamTimeBase(d.AudioStreamIndex())
}

func (d *Demuxer) streamTimeBase(streamIndex int) Rational {
	num := C.demux_stream_time_base_num(&d.c, C.int(streamIndex))
	den := C.demux_stream_time_base_den(&d.c, C.int(streamIndex))
	return Rational{Num: int(num), Den: int(den)}
}

// GuessFrameRate returns the container's best guess at the video stream's
// frame rate, or 0 if it can't be determined.
func (d *Demuxer) GuessFrameRate() float64 {
	if !d.HasVideo() {
		return 0
	}
	return float64(C.demux_guess_frame_rate(&d.c, C.int(d.VideoStreamIndex())))
}

// ReadPacket reads the next packet from the container and returns it ready
// for a PacketQueue. Returns io.EOF once the container is exhausted, or
// ErrTransientRead() if the read failed but the container's I/O layer is
// still in a clean state (worth retrying rather than giving up).
func (d *Demuxer) ReadPacket() (*queue.Packet, error) {
	var streamIndex C.int
	var data *C.uint8_t
	var size C.int
	var pts, dts C.int64_t

	ret := C.demux_read_packet(&d.c, &streamIndex, &data, &size, &pts, &dts)
	switch {
	case ret == 0:
		return nil, io.EOF
	case ret < 0:
		if C.demux_io_error(&d.c) == 0 {
			return nil, errTransientRead
		}
		return nil, fmt.Errorf("demux: read failed (code=%d)", int(ret))
	}
	defer C.av_free(unsafe.Pointer(data))

	payload := C.GoBytes(unsafe.Pointer(data), size)
	return &queue.Packet{
		StreamIndex: int(streamIndex),
		Data:        payload,
		PTS:         ptsOrUnknown(int64(pts)),
		DTS:         ptsOrUnknown(int64(dts)),
		Size:        int(size),
	}, nil
}

// Interrupt aborts any blocking read currently in progress (or about to
// start), used to unstick a demultiplexer thread that's shutting down while
// waiting on a slow network source.
func (d *Demuxer) Interrupt() {
	C.demux_interrupt(&d.c)
}

// Close releases the container.
func (d *Demuxer) Close() {
	C.demux_close(&d.c)
}

func ptsOrUnknown(v int64) int64 {
	// AV_NOPTS_VALUE is INT64_MIN; queue.UnknownTimestamp uses a distinct
	// sentinel further from the numeric edge, so translate here once.
	const avNoPTSValue = int64(-1) << 63
	if v == avNoPTSValue {
		return queue.UnknownTimestamp
	}
	return v
}
