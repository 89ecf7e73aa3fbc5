// Package config loads process configuration from environment variables
// (optionally via a .env file) into a read-only Config value consumed by
// the rest of the player. There is no persisted state: every field here is
// process input, never written back.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"avframe/pkg/clock"
)

// SyncMode selects which clock the presenter and audio path treat as master.
type SyncMode int

const (
	// SyncVideoMaster is the default: the presenter never adjusts its own
	// delay for drift, audio stretches/truncates to chase the video clock.
	SyncVideoMaster SyncMode = iota
	SyncAudioMaster
	SyncExternalMaster
)

func (m SyncMode) String() string {
	switch m {
	case SyncAudioMaster:
		return "audio"
	case SyncExternalMaster:
		return "external"
	default:
		return "video"
	}
}

// ClockMode converts to pkg/clock's Mode, the form the player's clock
// selector actually consumes.
func (m SyncMode) ClockMode() clock.Mode {
	switch m {
	case SyncAudioMaster:
		return clock.ModeAudio
	case SyncExternalMaster:
		return clock.ModeExternal
	default:
		return clock.ModeVideo
	}
}

// Config holds user-tunable, process-lifetime settings.
type Config struct {
	// SyncMode selects the master clock (default: video).
	SyncMode SyncMode

	// VideoDecoder, when non-empty, names a preferred decoder to try first
	// (the VIDEO_DECODER hardware-decoder hint).
	VideoDecoder string

	// ForceSoftwareDecoder disables hardware decoder probing entirely.
	ForceSoftwareDecoder bool

	// LogDecoderSelection logs the chosen video decoder (dimensions,
	// hardware acceleration) and its codec recommendation at startup.
	LogDecoderSelection bool

	// AudioBufferSamples is the requested device buffer size in samples
	// (default: 1024, matching SDL_AUDIO_BUFFER_SIZE).
	AudioBufferSamples int
}

var defaultConfig = Config{
	SyncMode:             SyncVideoMaster,
	AudioBufferSamples:   1024,
	LogDecoderSelection:  false,
	ForceSoftwareDecoder: false,
}

// Load reads a .env file if present (missing file is not an error) and
// builds a Config from the environment, falling back to defaults for any
// unset or malformed value.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("config: no .env file loaded: %v", err)
	}

	cfg := defaultConfig

	if v := os.Getenv("SYNC_MODE"); v != "" {
		cfg.SyncMode = parseSyncMode(v)
	}
	cfg.VideoDecoder = os.Getenv("VIDEO_DECODER")
	cfg.ForceSoftwareDecoder = envBool("FORCE_SOFTWARE_DECODER", cfg.ForceSoftwareDecoder)
	cfg.LogDecoderSelection = envBool("LOG_DECODER_SELECTION", cfg.LogDecoderSelection)

	if v := os.Getenv("AUDIO_BUFFER_SAMPLES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.AudioBufferSamples = n
		} else {
			log.Printf("config: ignoring invalid AUDIO_BUFFER_SAMPLES=%q", v)
		}
	}

	return cfg
}

func parseSyncMode(v string) SyncMode {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "audio":
		return SyncAudioMaster
	case "external":
		return SyncExternalMaster
	case "video":
		return SyncVideoMaster
	default:
		log.Printf("config: unrecognized SYNC_MODE=%q, defaulting to video", v)
		return SyncVideoMaster
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("config: ignoring invalid %s=%q", key, v)
		return fallback
	}
	return b
}
