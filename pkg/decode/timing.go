// Package decode wraps the container/codec library (FFmpeg via cgo, using
// hand-rolled C bindings inline) and exposes the demultiplexer, video/audio
// decode, resample and scale operations the player pipeline needs.
// Timestamp arithmetic is kept in plain Go (this file) so it can be unit
// tested without calling into FFmpeg; the tests still compile with the rest
// of the package, so they need the cgo build.
package decode

// Rational is a time_base: seconds-per-timestamp-unit expressed as a
// fraction, exactly as the container library reports it.
type Rational struct {
	Num, Den int
}

// Seconds converts a timestamp in this time base's units to seconds.
func (r Rational) Seconds(ts int64) float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(ts) * float64(r.Num) / float64(r.Den)
}

// UnknownTS mirrors queue.UnknownTimestamp for packages that don't want to
// import queue just for the sentinel.
const UnknownTS = int64(-1) << 62

// RecoverFramePTS implements the video decoder's pts-recovery precedence:
// prefer the decoder's own best-effort frame pts; fall back to the packet
// dts; fall back to 0. Some ffplay-lineage players stamp a process-global
// side channel from a get_buffer2 hook to recover this; trusting the
// decoder's best-effort timestamp directly avoids any global mutable state,
// since modern libavcodec already reorders it for B-frames.
func RecoverFramePTS(framePTS, packetDTS int64, timeBase Rational) (seconds float64) {
	switch {
	case framePTS != UnknownTS:
		return timeBase.Seconds(framePTS)
	case packetDTS != UnknownTS:
		return timeBase.Seconds(packetDTS)
	default:
		return 0
	}
}

// AdvanceVideoClock implements the video synchronizer: if the recovered
// input pts is nonzero, the running video_clock resets to it;
// otherwise the frame inherits the current video_clock. Either way, the
// clock then advances by one frame's duration, accounting for repeated
// fields (repeatPict), and that post-advance clock is what the next frame
// with an unknown pts will inherit.
func AdvanceVideoClock(prevClock float64, inputPTS float64, streamTimeBase float64, repeatPict int) (framePTS, nextClock float64) {
	pts := inputPTS
	if pts == 0 {
		pts = prevClock
	}
	frameDelay := streamTimeBase + 0.5*streamTimeBase*float64(repeatPict)
	nextClock = pts + frameDelay
	return pts, nextClock
}
