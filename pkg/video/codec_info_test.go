package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectCodecType(t *testing.T) {
	cases := map[string]CodecType{
		"h264":           CodecTypeH264,
		"h264_vaapi":     CodecTypeH264,
		"hevc":           CodecTypeHEVC,
		"h265_videotoolbox": CodecTypeHEVC,
		"mpeg1video":     CodecTypeMPEG1,
		"mpeg2video":     CodecTypeMPEG2,
		"mpeg4":          CodecTypeMPEG4,
		"vp8":            CodecTypeVP8,
		"vp9":            CodecTypeVP9,
		"av1":            CodecTypeAV1,
		"something else": CodecTypeUnknown,
	}
	for name, want := range cases {
		assert.Equal(t, want, DetectCodecType(name), name)
	}
}

func TestCodecTypeString(t *testing.T) {
	assert.Equal(t, "H.264/AVC", CodecTypeH264.String())
	assert.Equal(t, "Unknown", CodecTypeUnknown.String())
}

func TestAnalyzeCodecRecommendsHardwareH264WhenOptimal(t *testing.T) {
	rec := AnalyzeCodec(CodecInfo{Name: "h264_vaapi", Type: CodecTypeH264, IsHardwareAccel: true})
	assert.True(t, rec.IsOptimal)
}

func TestAnalyzeCodecFlagsSoftwareMPEG2(t *testing.T) {
	rec := AnalyzeCodec(CodecInfo{Name: "mpeg2video", Type: CodecTypeMPEG2, IsHardwareAccel: false})
	assert.False(t, rec.IsOptimal)
	assert.Equal(t, "h264", rec.RecommendedCodec)
	assert.NotEmpty(t, rec.ReencodingCommand)
}

func TestAnalyzeCodecFlagsSoftwareAV1(t *testing.T) {
	rec := AnalyzeCodec(CodecInfo{Name: "av1", Type: CodecTypeAV1, IsHardwareAccel: false})
	assert.False(t, rec.IsOptimal)
	assert.Contains(t, rec.Reason, "AV1")
}
