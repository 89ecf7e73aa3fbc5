package video

import "fmt"

// CodecRecommendation summarizes whether a stream's current codec/decoder
// pairing is a good fit for this platform and, if not, what to switch to.
type CodecRecommendation struct {
	CurrentCodec        string
	CurrentType         CodecType
	IsHardwareAccel     bool
	IsOptimal           bool
	RecommendedCodec    string
	RecommendedType     CodecType
	Reason              string
	ExpectedImprovement string
	ReencodingCommand   string
}

// AnalyzeCodec recommends whether info's codec should be re-encoded for
// better playback. Hardware acceleration in pkg/decode is detected by
// decoder name (videotoolbox, vaapi, rkmpp, nvdec, v4l2m2m); codecs outside
// that set fall back to software decode, which this favors H.264 over on
// CPU-constrained playback targets.
func AnalyzeCodec(info CodecInfo) CodecRecommendation {
	rec := CodecRecommendation{
		CurrentCodec:    info.Name,
		CurrentType:     info.Type,
		IsHardwareAccel: info.IsHardwareAccel,
	}

	switch info.Type {
	case CodecTypeH264:
		if info.IsHardwareAccel {
			rec.IsOptimal = true
			rec.Reason = "H.264 with hardware acceleration is the best-supported path on this platform"
			rec.RecommendedCodec = info.Name
			rec.RecommendedType = CodecTypeH264
		} else {
			rec.IsOptimal = false
			rec.Reason = "H.264 is decoding in software; a hardware decoder may be available for this codec"
			rec.RecommendedCodec = "h264"
			rec.RecommendedType = CodecTypeH264
			rec.ExpectedImprovement = "hardware decode is typically 60-80% faster than software for H.264"
		}

	case CodecTypeMPEG1, CodecTypeMPEG2:
		rec.IsOptimal = false
		rec.Reason = "MPEG-1/2 rarely has hardware decode support; re-encoding to H.264 usually pays off"
		rec.RecommendedCodec = "h264"
		rec.RecommendedType = CodecTypeH264
		rec.ExpectedImprovement = "50-70% faster decode (H.264 hardware vs MPEG software)"
		rec.ReencodingCommand = generateReencodingCommand(info, "h264", "baseline")

	case CodecTypeHEVC:
		if info.IsHardwareAccel {
			rec.IsOptimal = true
			rec.Reason = "HEVC with hardware acceleration gives good quality per bit"
			rec.RecommendedCodec = info.Name
			rec.RecommendedType = CodecTypeHEVC
		} else {
			rec.IsOptimal = false
			rec.Reason = "HEVC software decode is CPU-intensive, especially on ARM"
			rec.RecommendedCodec = "h264"
			rec.RecommendedType = CodecTypeH264
			rec.ExpectedImprovement = "H.264 has broader hardware decoder support"
			rec.ReencodingCommand = generateReencodingCommand(info, "h264", "baseline")
		}

	case CodecTypeAV1:
		rec.IsOptimal = false
		rec.Reason = "AV1 hardware decoders are still rare; software decode is extremely CPU-intensive"
		rec.RecommendedCodec = "h264"
		rec.RecommendedType = CodecTypeH264
		rec.ExpectedImprovement = "90%+ faster decode (H.264 hardware vs AV1 software)"
		rec.ReencodingCommand = generateReencodingCommand(info, "h264", "baseline")

	default:
		rec.IsOptimal = false
		rec.Reason = "unrecognized codec; H.264 has the widest hardware decoder support"
		rec.RecommendedCodec = "h264"
		rec.RecommendedType = CodecTypeH264
		rec.ReencodingCommand = generateReencodingCommand(info, "h264", "baseline")
	}

	return rec
}

func generateReencodingCommand(info CodecInfo, targetCodec, profile string) string {
	var scaleFilter string
	if info.Height > 1080 {
		scaleFilter = "-vf scale=1920:1080 "
	}

	switch targetCodec {
	case "h264":
		return fmt.Sprintf(
			"ffmpeg -i input -c:v libx264 -profile:v %s -preset slow -crf 23 %s-c:a copy output.mp4",
			profile, scaleFilter)
	case "hevc":
		return fmt.Sprintf(
			"ffmpeg -i input -c:v libx265 -preset slow -crf 28 %s-c:a copy output.mp4",
			scaleFilter)
	default:
		return ""
	}
}
