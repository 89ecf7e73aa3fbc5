package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"avframe/pkg/config"
	"avframe/pkg/decode"
	"avframe/pkg/fetch"
	"avframe/pkg/player"
	"avframe/pkg/sdlio"
	"avframe/pkg/video"
)

const windowTitle = "avframe"

func main() {
	runtime.LockOSThread()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <path-or-s3-url>\n", os.Args[0])
		os.Exit(1)
	}
	source := os.Args[1]

	cfg := config.Load()
	log.Printf("config: sync_mode=%s video_decoder=%q force_software=%v", cfg.SyncMode, cfg.VideoDecoder, cfg.ForceSoftwareDecoder)

	path, cleanup, err := fetch.Resolve(source)
	if err != nil {
		log.Printf("startup: could not resolve source %q: %v", source, err)
		os.Exit(1)
	}
	defer cleanup()

	if err := sdlio.InitVideoAndAudio(); err != nil {
		log.Printf("startup: SDL init failed: %v", err)
		os.Exit(1)
	}

	win, err := sdlio.OpenWindow(windowTitle)
	if err != nil {
		log.Printf("startup: could not open window: %v", err)
		os.Exit(1)
	}
	defer win.Close()

	demuxer, err := decode.Open(path)
	if err != nil {
		log.Printf("startup: could not open %q: %v", path, err)
		os.Exit(1)
	}
	defer demuxer.Close()

	if !demuxer.HasVideo() && !demuxer.HasAudio() {
		log.Printf("startup: %q has no decodable audio or video streams", path)
		os.Exit(1)
	}

	var videoDec *decode.VideoDecoder
	if demuxer.HasVideo() {
		videoDec, err = demuxer.OpenVideoDecoder(cfg.VideoDecoder, cfg.ForceSoftwareDecoder)
		if err != nil {
			log.Printf("startup: could not open video decoder: %v", err)
			os.Exit(1)
		}
		defer videoDec.Close()
		if cfg.LogDecoderSelection {
			log.Printf("video: decoding %dx%d, hardware=%v", videoDec.Width(), videoDec.Height(), videoDec.IsHardwareAccelerated())
			logCodecRecommendation(videoDec, demuxer.GuessFrameRate())
		}
	}

	var audioDec *decode.AudioDecoder
	var audioDevice *sdlio.AudioDevice
	if demuxer.HasAudio() {
		audioDec, err = demuxer.OpenAudioDecoder(44100)
		if err != nil {
			log.Printf("audio: could not open decoder, continuing without sound: %v", err)
		} else {
			audioDevice, err = sdlio.OpenAudioDevice(audioDec.SampleRate(), audioDec.Channels(), cfg.AudioBufferSamples)
			if err != nil {
				log.Printf("audio: could not open output device, continuing without sound: %v", err)
				audioDec.Close()
				audioDec = nil
			} else {
				defer audioDevice.Close()
			}
		}
		if audioDec != nil {
			defer audioDec.Close()
		}
	}

	var sink player.AudioSink
	if audioDevice != nil {
		sink = audioDevice
	}
	state := player.New(cfg, demuxer, videoDec, audioDec, sink)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Println("main: signal received, shutting down")
		state.RequestShutdown()
	}()

	state.Start()

	if videoDec != nil {
		runPresentLoop(state, win)
	} else {
		// audio-only source: nothing to present, just wait for the
		// pipeline to drain or a shutdown signal.
		state.Wait()
	}

	state.RequestShutdown()
	state.Wait()
	log.Println("main: shutdown complete")
}

// logCodecRecommendation logs whether the chosen decoder is a good fit and,
// if not, what to switch to (pkg/video's codec advisory, normally only
// useful for diagnosing a slow-playback report).
func logCodecRecommendation(videoDec *decode.VideoDecoder, fps float64) {
	name := videoDec.CodecName()
	info := video.CodecInfo{
		Name:            name,
		Type:            video.DetectCodecType(name),
		IsHardwareAccel: videoDec.IsHardwareAccelerated(),
		Width:           videoDec.Width(),
		Height:          videoDec.Height(),
		FPS:             fps,
	}
	rec := video.AnalyzeCodec(info)
	if rec.IsOptimal {
		log.Printf("video: codec %s (%s) is optimal for this platform", info.Name, info.Type)
		return
	}
	log.Printf("video: codec %s (%s) is not optimal: %s", info.Name, info.Type, rec.Reason)
	if rec.ReencodingCommand != "" {
		log.Printf("video: suggested re-encode: %s", rec.ReencodingCommand)
	}
}

func runPresentLoop(state *player.State, win *sdlio.Window) {
	display := sdlio.NewDisplay(win)
	defer display.Close()
	presenter := player.NewPresenter(state, display)

	types := sdlio.RegisterEventTypes()
	sdlio.ScheduleRefresh(types, 1)

	sdlio.Run(types, func() {
		ms := presenter.Tick()
		sdlio.ScheduleRefresh(types, ms)
	}, state.ShuttingDown)
}
