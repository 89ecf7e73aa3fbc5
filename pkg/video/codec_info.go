// Package video carries small, decoder-agnostic value types shared between
// the decode layer and the rest of the player: codec identification for log
// lines, and the frame-drop policy used when decode falls behind.
package video

import "strings"

// CodecType classifies a decoder by family, for log lines and the codec
// advisory (AnalyzeCodec). The frame-drop policy does not use it.
type CodecType int

const (
	CodecTypeMPEG1 CodecType = iota
	CodecTypeMPEG2
	CodecTypeMPEG4
	CodecTypeH264
	CodecTypeHEVC
	CodecTypeVP8
	CodecTypeVP9
	CodecTypeAV1
	CodecTypeUnknown
)

// String returns a human-readable codec family name.
func (c CodecType) String() string {
	switch c {
	case CodecTypeMPEG1:
		return "MPEG-1"
	case CodecTypeMPEG2:
		return "MPEG-2"
	case CodecTypeMPEG4:
		return "MPEG-4"
	case CodecTypeH264:
		return "H.264/AVC"
	case CodecTypeHEVC:
		return "H.265/HEVC"
	case CodecTypeVP8:
		return "VP8"
	case CodecTypeVP9:
		return "VP9"
	case CodecTypeAV1:
		return "AV1"
	default:
		return "Unknown"
	}
}

// DetectCodecType classifies a decoder/codec name as reported by the
// container/codec library.
func DetectCodecType(codecName string) CodecType {
	lower := strings.ToLower(codecName)
	switch {
	case strings.Contains(lower, "h264"), strings.Contains(lower, "avc"):
		return CodecTypeH264
	case strings.Contains(lower, "h265"), strings.Contains(lower, "hevc"):
		return CodecTypeHEVC
	case strings.Contains(lower, "mpeg1"):
		return CodecTypeMPEG1
	case strings.Contains(lower, "mpeg2"):
		return CodecTypeMPEG2
	case strings.Contains(lower, "mpeg4"):
		return CodecTypeMPEG4
	case strings.Contains(lower, "vp8"):
		return CodecTypeVP8
	case strings.Contains(lower, "vp9"):
		return CodecTypeVP9
	case strings.Contains(lower, "av1"):
		return CodecTypeAV1
	default:
		return CodecTypeUnknown
	}
}

// CodecInfo describes the decoder chosen for a stream, for diagnostic
// logging at stream-open time.
type CodecInfo struct {
	Name            string
	LongName        string
	Type            CodecType
	IsHardwareAccel bool
	Width           int
	Height          int
	FPS             float64
}
