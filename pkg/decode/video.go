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

// VideoFrame is one scaled, planar YUV 4:2:0 frame ready for upload to a
// display overlay. Plane byte slices are owned by the caller (copied out of
// the decoder's scratch buffers already).
type VideoFrame struct {
	Y, U, V                         []byte
	LinesizeY, LinesizeU, LinesizeV int
	Width, Height                   int
	PacketPTS                       int64 // decoder's best-effort pts, queue.UnknownTimestamp if none
	RepeatPict                      int
	SARNum, SARDen                  int // sample aspect ratio; SARDen == 0 means unknown/square
}

// VideoDecoder decodes one video stream and scales every frame to planar
// YUV 4:2:0, the overlay format pkg/sdlio expects.
type VideoDecoder struct {
	c             C.VideoDecoder
	width, height int
	isHardware    bool
}

// OpenVideoDecoder opens the demuxer's video stream. preferredName and
// forceSoftware mirror the VIDEO_DECODER / FORCE_SOFTWARE_DECODER knobs
// (pkg/config).
func (d *Demuxer) OpenVideoDecoder(preferredName string, forceSoftware bool) (*VideoDecoder, error) {
	if !d.HasVideo() {
		return nil, ErrNoVideoStream
	}

	cName := C.CString(preferredName)
	defer C.free(unsafe.Pointer(cName))

	force := C.int(0)
	if forceSoftware {
		force = 1
	}

	v := &VideoDecoder{}
	if ret := C.video_decoder_open(&d.c, cName, force, &v.c); ret != 0 {
		return nil, fmt.Errorf("video: open failed (code=%d)", int(ret))
	}
	v.width = int(v.c.width)
	v.height = int(v.c.height)
	v.isHardware = v.c.isHardware != 0
	return v, nil
}

// Width and Height report the decoded frame dimensions.
func (v *VideoDecoder) Width() int  { return v.width }
func (v *VideoDecoder) Height() int { return v.height }

// IsHardwareAccelerated reports whether the chosen decoder is a platform
// hardware decoder (for diagnostic logging, the LOG_DECODER_SELECTION
// knob).
func (v *VideoDecoder) IsHardwareAccelerated() bool { return v.isHardware }

// CodecName returns the name of the opened decoder (e.g. "h264" or
// "h264_vaapi"), for codec diagnostics and recommendations.
func (v *VideoDecoder) CodecName() string {
	return C.GoString(C.video_decoder_codec_name(&v.c))
}

// Send hands a packet's payload to the decoder.
func (v *VideoDecoder) Send(data []byte, pts, dts int64) error {
	var ptr *C.uint8_t
	if len(data) > 0 {
		ptr = (*C.uint8_t)(unsafe.Pointer(&data[0]))
	}
	ret := C.video_decoder_send_packet(&v.c, ptr, C.int(len(data)), C.int64_t(pts), C.int64_t(dts))
	if ret < 0 {
		return fmt.Errorf("video: send_packet failed (code=%d)", int(ret))
	}
	return nil
}

// errNeedMorePackets is returned by Receive when the decoder has buffered
// no complete frame yet and the caller should Send another packet.
var errNeedMorePackets = fmt.Errorf("video: decoder needs more packets")

// ErrNeedMorePackets reports that Receive found nothing ready; the caller
// should Send the next packet and try again.
func ErrNeedMorePackets() error { return errNeedMorePackets }

// Receive returns the next scaled frame, io.EOF once the decoder has fully
// flushed, or errNeedMorePackets if no frame is buffered yet.
func (v *VideoDecoder) Receive() (*VideoFrame, error) {
	var ySize, uSize, vSize C.int
	C.video_decoder_plane_sizes(&v.c, &ySize, &uSize, &vSize)

	y := make([]byte, int(ySize))
	u := make([]byte, int(uSize))
	vPlane := make([]byte, int(vSize))

	var lsY, lsU, lsV C.int
	var pts C.int64_t
	var repeat C.int
	var sarNum, sarDen C.int

	ret := C.video_decoder_receive_frame(&v.c,
		(*C.uint8_t)(unsafe.Pointer(&y[0])),
		(*C.uint8_t)(unsafe.Pointer(&u[0])),
		(*C.uint8_t)(unsafe.Pointer(&vPlane[0])),
		&lsY, &lsU, &lsV, &pts, &repeat, &sarNum, &sarDen)

	switch {
	case ret == 0:
		return nil, errNeedMorePackets
	case ret == -1:
		return nil, io.EOF
	case ret < 0:
		return nil, fmt.Errorf("video: receive_frame failed (code=%d)", int(ret))
	}

	return &VideoFrame{
		Y: y, U: u, V: vPlane,
		LinesizeY: int(lsY), LinesizeU: int(lsU), LinesizeV: int(lsV),
		Width: v.width, Height: v.height,
		PacketPTS:  ptsOrUnknown(int64(pts)),
		RepeatPict: int(repeat),
		SARNum:     int(sarNum),
		SARDen:     int(sarDen),
	}, nil
}

// Close releases the decoder.
func (v *VideoDecoder) Close() {
	C.video_decoder_close(&v.c)
}
