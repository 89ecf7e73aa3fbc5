package decode

/*
#cgo pkg-config: libavformat libavcodec libavutil libswscale libswresample

#include <stdlib.h>
#include <stdio.h>
#include <string.h>
#include <libavformat/avformat.h>
#include <libavcodec/avcodec.h>
#include <libavutil/imgutils.h>
#include <libavutil/opt.h>
#include <libavutil/channel_layout.h>
#include <libswscale/swscale.h>
#include <libswresample/swresample.h>
#include <libavutil/log.h>

// ---------------------------------------------------------------
// Demuxer: open container, find the first audio and video stream.
// ---------------------------------------------------------------

typedef struct {
    AVFormatContext *fmtCtx;
    int             videoStream;
    int             audioStream;
    volatile int    interrupted;
} Demuxer;

static int demux_interrupt_cb(void *opaque) {
    Demuxer *d = (Demuxer *)opaque;
    return d->interrupted;
}

int demux_open(const char *path, Demuxer *d) {
    av_log_set_level(AV_LOG_ERROR);
    d->videoStream = -1;
    d->audioStream = -1;
    d->interrupted = 0;

    d->fmtCtx = avformat_alloc_context();
    if (!d->fmtCtx) {
        return -1;
    }
    d->fmtCtx->interrupt_callback.callback = demux_interrupt_cb;
    d->fmtCtx->interrupt_callback.opaque = d;

    if (avformat_open_input(&d->fmtCtx, path, NULL, NULL) != 0) {
        fprintf(stderr, "demux: could not open input '%s'\n", path);
        return -2;
    }
    if (avformat_find_stream_info(d->fmtCtx, NULL) < 0) {
        fprintf(stderr, "demux: could not find stream information\n");
        return -3;
    }

    for (unsigned int i = 0; i < d->fmtCtx->nb_streams; i++) {
        enum AVMediaType t = d->fmtCtx->streams[i]->codecpar->codec_type;
        if (t == AVMEDIA_TYPE_VIDEO && d->videoStream < 0) {
            d->videoStream = (int)i;
        } else if (t == AVMEDIA_TYPE_AUDIO && d->audioStream < 0) {
            d->audioStream = (int)i;
        }
    }
    return 0;
}

void demux_interrupt(Demuxer *d) {
    d->interrupted = 1;
}

void demux_close(Demuxer *d) {
    if (d->fmtCtx) {
        avformat_close_input(&d->fmtCtx);
    }
}

// demux_read_packet reads the next packet into caller-owned out fields.
// Returns 1 on success, 0 on EOF, <0 on error. The caller must free
// *outData with av_freep when done (it is a fresh av_malloc'd copy, not a
// pointer into FFmpeg-owned buffers, so it stays valid after this call
// returns and after the next read).
int demux_read_packet(Demuxer *d, int *outStreamIndex, uint8_t **outData, int *outSize, int64_t *outPTS, int64_t *outDTS) {
    AVPacket pkt;
    av_init_packet(&pkt);
    pkt.data = NULL;
    pkt.size = 0;

    int ret = av_read_frame(d->fmtCtx, &pkt);
    if (ret == AVERROR_EOF) {
        return 0;
    }
    if (ret < 0) {
        return -1;
    }

    *outData = (uint8_t *)av_malloc(pkt.size);
    if (!*outData) {
        av_packet_unref(&pkt);
        return -2;
    }
    memcpy(*outData, pkt.data, pkt.size);
    *outSize = pkt.size;
    *outStreamIndex = pkt.stream_index;
    *outPTS = pkt.pts;
    *outDTS = pkt.dts;
    av_packet_unref(&pkt);
    return 1;
}

// demux_io_error reports the underlying AVIOContext's sticky error code, 0
// meaning the stream is still in a clean state (so a read failure is
// transient and worth retrying) and nonzero meaning the I/O layer itself
// has given up (a hard error).
int demux_io_error(Demuxer *d) {
    if (!d->fmtCtx || !d->fmtCtx->pb) {
        return 0;
    }
    return d->fmtCtx->pb->error;
}

double demux_stream_time_base_num(Demuxer *d, int streamIndex) {
    return (double)d->fmtCtx->streams[streamIndex]->time_base.num;
}
double demux_stream_time_base_den(Demuxer *d, int streamIndex) {
    return (double)d->fmtCtx->streams[streamIndex]->time_base.den;
}
double demux_guess_frame_rate(Demuxer *d, int streamIndex) {
    AVRational r = av_guess_frame_rate(d->fmtCtx, d->fmtCtx->streams[streamIndex], NULL);
    if (r.den == 0) {
        return 0;
    }
    return av_q2d(r);
}

// ---------------------------------------------------------------
// Video decode + scale to planar YUV 4:2:0.
// ---------------------------------------------------------------

typedef struct {
    AVCodecContext    *codecCtx;
    AVFrame           *frame;
    AVFrame           *frameYUV;
    struct SwsContext *swsCtx;
    uint8_t           *buf;
    int               width;
    int               height;
    int               isHardware;
    char              codecName[64];
    int               sarNum;
    int               sarDen;
} VideoDecoder;

// video_decoder_open honours VIDEO_DECODER / FORCE_SOFTWARE_DECODER the same
// way the legacy single-purpose decoder did: a named preference is tried
// first, software is used when forced or when the preference doesn't match
// this stream's codec. If the chosen decoder fails to open, the call returns
// an error; it does not retry with the software decoder.
int video_decoder_open(Demuxer *d, const char *preferredName, int forceSoftware, VideoDecoder *v) {
    if (d->videoStream < 0) {
        return -1;
    }
    AVCodecParameters *params = d->fmtCtx->streams[d->videoStream]->codecpar;
    const AVCodec *codec = NULL;

    if (!forceSoftware && preferredName && preferredName[0] != '\0') {
        const AVCodec *c = avcodec_find_decoder_by_name(preferredName);
        if (c && c->id == params->codec_id) {
            codec = c;
        }
    }
    if (!codec) {
        codec = avcodec_find_decoder(params->codec_id);
    }
    if (!codec) {
        fprintf(stderr, "video: no decoder available for codec id %d\n", params->codec_id);
        return -2;
    }

    v->codecCtx = avcodec_alloc_context3(codec);
    if (!v->codecCtx) {
        return -3;
    }
    avcodec_parameters_to_context(v->codecCtx, params);
    v->codecCtx->thread_type = FF_THREAD_FRAME;
    v->codecCtx->thread_count = 0;
    v->codecCtx->pkt_timebase = d->fmtCtx->streams[d->videoStream]->time_base;

    if (avcodec_open2(v->codecCtx, codec, NULL) < 0) {
        avcodec_free_context(&v->codecCtx);
        fprintf(stderr, "video: failed to open decoder %s\n", codec->name);
        return -4;
    }

    v->isHardware = strstr(codec->name, "videotoolbox") != NULL ||
                     strstr(codec->name, "vaapi") != NULL ||
                     strstr(codec->name, "rkmpp") != NULL ||
                     strstr(codec->name, "nvdec") != NULL ||
                     strstr(codec->name, "v4l2") != NULL;
    strncpy(v->codecName, codec->name, sizeof(v->codecName) - 1);
    v->codecName[sizeof(v->codecName) - 1] = 0;

    v->sarNum = v->codecCtx->sample_aspect_ratio.num;
    v->sarDen = v->codecCtx->sample_aspect_ratio.den;

    v->width = v->codecCtx->width;
    v->height = v->codecCtx->height;
    v->frame = av_frame_alloc();
    v->frameYUV = av_frame_alloc();

    int numBytes = av_image_get_buffer_size(AV_PIX_FMT_YUV420P, v->width, v->height, 1);
    v->buf = (uint8_t *)av_malloc((size_t)numBytes);
    av_image_fill_arrays(v->frameYUV->data, v->frameYUV->linesize, v->buf, AV_PIX_FMT_YUV420P, v->width, v->height, 1);

    v->swsCtx = sws_getContext(v->width, v->height, v->codecCtx->pix_fmt,
                                v->width, v->height, AV_PIX_FMT_YUV420P,
                                SWS_BILINEAR, NULL, NULL, NULL);
    return 0;
}

int video_decoder_send_packet(VideoDecoder *v, const uint8_t *data, int size, int64_t pts, int64_t dts) {
    AVPacket *pkt = av_packet_alloc();
    pkt->data = (uint8_t *)data;
    pkt->size = size;
    pkt->pts = pts;
    pkt->dts = dts;
    int ret = avcodec_send_packet(v->codecCtx, pkt);
    av_packet_free(&pkt);
    return ret;
}

// video_decoder_receive_frame returns 1 on a decoded+scaled frame (planes
// copied into outY/outU/outV, caller-owned Go byte slices), 0 on EAGAIN
// (decoder wants more packets), -1 on EOF, <-1 on error.
int video_decoder_receive_frame(VideoDecoder *v, uint8_t *outY, uint8_t *outU, uint8_t *outV,
                                 int *outLinesizeY, int *outLinesizeU, int *outLinesizeV,
                                 int64_t *outPTS, int *outRepeatPict, int *outSARNum, int *outSARDen) {
    int ret = avcodec_receive_frame(v->codecCtx, v->frame);
    if (ret == AVERROR(EAGAIN)) {
        return 0;
    }
    if (ret == AVERROR_EOF) {
        return -1;
    }
    if (ret < 0) {
        return -2;
    }

    sws_scale(v->swsCtx, (const uint8_t *const *)v->frame->data, v->frame->linesize, 0, v->height,
              v->frameYUV->data, v->frameYUV->linesize);

    int ySize = v->frameYUV->linesize[0] * v->height;
    int uSize = v->frameYUV->linesize[1] * ((v->height + 1) / 2);
    int vSize = v->frameYUV->linesize[2] * ((v->height + 1) / 2);
    memcpy(outY, v->frameYUV->data[0], (size_t)ySize);
    memcpy(outU, v->frameYUV->data[1], (size_t)uSize);
    memcpy(outV, v->frameYUV->data[2], (size_t)vSize);

    *outLinesizeY = v->frameYUV->linesize[0];
    *outLinesizeU = v->frameYUV->linesize[1];
    *outLinesizeV = v->frameYUV->linesize[2];
    *outPTS = v->frame->best_effort_timestamp;
    *outRepeatPict = v->frame->repeat_pict;

    // a frame's own sample_aspect_ratio, when the container/codec sets one,
    // takes precedence over the stream-level value read at open time.
    if (v->frame->sample_aspect_ratio.num != 0) {
        v->sarNum = v->frame->sample_aspect_ratio.num;
        v->sarDen = v->frame->sample_aspect_ratio.den;
    }
    *outSARNum = v->sarNum;
    *outSARDen = v->sarDen;
    return 1;
}

const char *video_decoder_codec_name(VideoDecoder *v) {
    return v->codecName;
}

int video_decoder_plane_sizes(VideoDecoder *v, int *ySize, int *uSize, int *vSize) {
    *ySize = v->frameYUV->linesize[0] * v->height;
    *uSize = v->frameYUV->linesize[1] * ((v->height + 1) / 2);
    *vSize = v->frameYUV->linesize[2] * ((v->height + 1) / 2);
    return 0;
}

void video_decoder_close(VideoDecoder *v) {
    if (v->swsCtx) sws_freeContext(v->swsCtx);
    av_free(v->buf);
    av_frame_free(&v->frameYUV);
    av_frame_free(&v->frame);
    avcodec_free_context(&v->codecCtx);
}

// ---------------------------------------------------------------
// Audio decode + resample to interleaved signed-16 stereo 44100Hz.
// ---------------------------------------------------------------

typedef struct {
    AVCodecContext  *codecCtx;
    AVFrame         *frame;
    struct SwrContext *swrCtx;
    int             outSampleRate;
    int             outChannels;
    uint8_t         *outBuf;
    int             outBufCap;
} AudioDecoder;

int audio_decoder_open(Demuxer *d, int outSampleRate, AudioDecoder *a) {
    if (d->audioStream < 0) {
        return -1;
    }
    AVCodecParameters *params = d->fmtCtx->streams[d->audioStream]->codecpar;
    const AVCodec *codec = avcodec_find_decoder(params->codec_id);
    if (!codec) {
        fprintf(stderr, "audio: no decoder available for codec id %d\n", params->codec_id);
        return -2;
    }

    a->codecCtx = avcodec_alloc_context3(codec);
    avcodec_parameters_to_context(a->codecCtx, params);
    a->codecCtx->pkt_timebase = d->fmtCtx->streams[d->audioStream]->time_base;
    if (avcodec_open2(a->codecCtx, codec, NULL) < 0) {
        avcodec_free_context(&a->codecCtx);
        return -3;
    }

    a->outSampleRate = outSampleRate;
    a->outChannels = 2;
    a->frame = av_frame_alloc();

    AVChannelLayout outLayout;
    av_channel_layout_default(&outLayout, 2);

    AVChannelLayout inLayout = a->codecCtx->ch_layout;
    if (inLayout.nb_channels == 0) {
        av_channel_layout_default(&inLayout, 2);
    }

    int ret = swr_alloc_set_opts2(&a->swrCtx,
        &outLayout, AV_SAMPLE_FMT_S16, outSampleRate,
        &inLayout, a->codecCtx->sample_fmt, a->codecCtx->sample_rate,
        0, NULL);
    if (ret < 0 || !a->swrCtx) {
        return -4;
    }
    if (swr_init(a->swrCtx) < 0) {
        return -5;
    }

    a->outBufCap = outSampleRate * 2 * 2; // ~1s headroom, grown on demand
    a->outBuf = (uint8_t *)av_malloc((size_t)a->outBufCap);
    return 0;
}

int audio_decoder_send_packet(AudioDecoder *a, const uint8_t *data, int size, int64_t pts, int64_t dts) {
    AVPacket *pkt = av_packet_alloc();
    pkt->data = (uint8_t *)data;
    pkt->size = size;
    pkt->pts = pts;
    pkt->dts = dts;
    int ret = avcodec_send_packet(a->codecCtx, pkt);
    av_packet_free(&pkt);
    return ret;
}

// audio_decoder_receive_frame resamples the next decoded frame to the
// configured output format and returns the interleaved byte count via
// outBytes, with *outBuf aliasing the decoder's scratch buffer (copy out
// before the next call). Returns 1 on success, 0 on EAGAIN, -1 on EOF, <-1
// on error.
int audio_decoder_receive_frame(AudioDecoder *a, uint8_t **outBuf, int *outBytes, int64_t *outPTS) {
    int ret = avcodec_receive_frame(a->codecCtx, a->frame);
    if (ret == AVERROR(EAGAIN)) {
        return 0;
    }
    if (ret == AVERROR_EOF) {
        return -1;
    }
    if (ret < 0) {
        return -2;
    }

    int maxOutSamples = (int)av_rescale_rnd(swr_get_delay(a->swrCtx, a->codecCtx->sample_rate) + a->frame->nb_samples,
                                             a->outSampleRate, a->codecCtx->sample_rate, AV_ROUND_UP);
    int needed = maxOutSamples * a->outChannels * 2;
    if (needed > a->outBufCap) {
        av_free(a->outBuf);
        a->outBufCap = needed;
        a->outBuf = (uint8_t *)av_malloc((size_t)a->outBufCap);
    }

    int converted = swr_convert(a->swrCtx, &a->outBuf, maxOutSamples,
                                 (const uint8_t **)a->frame->data, a->frame->nb_samples);
    if (converted < 0) {
        return -3;
    }

    *outBuf = a->outBuf;
    *outBytes = converted * a->outChannels * 2;
    *outPTS = a->frame->best_effort_timestamp;
    return 1;
}

void audio_decoder_close(AudioDecoder *a) {
    if (a->swrCtx) swr_free(&a->swrCtx);
    av_free(a->outBuf);
    av_frame_free(&a->frame);
    avcodec_free_context(&a->codecCtx);
}
*/
import "C"
