/*
DESCRIPTION
  Ansi-encode reads raw RGB24 video (and, optionally, a .srt subtitle
  file) and writes an ansi-three container: one pre-rendered ANSI frame
  per video packet, compressed per --compression-mode.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main implements the ansi-three encoder binary.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/kore-signet/ansi-three/container"
	"github.com/kore-signet/ansi-three/internal/codecproc"
	"github.com/kore-signet/ansi-three/internal/encconfig"
	"github.com/kore-signet/ansi-three/internal/logging"
	"github.com/kore-signet/ansi-three/internal/palette"
	"github.com/kore-signet/ansi-three/internal/pipeline"
	"github.com/kore-signet/ansi-three/internal/source"
)

const (
	defaultFrameRate = 30
	videoStreamIndex = 0
	subsStreamIndex  = 1
)

// Logging related constants, mirroring the teacher's looper binary.
const (
	logPath      = "ansi-encode.log"
	logMaxSize   = 10 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
)

func main() {
	if err := run(os.Args[0], os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(name string, args []string) error {
	cfg, err := encconfig.ParseFlags(name, args)
	if err != nil {
		return err
	}

	// Lumberjack rotates the on-disk log by size/age/backup count; stderr
	// still gets the same events so a foreground run shows them live.
	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	defer fileLog.Close()
	log := logging.New(logging.Info, io.MultiWriter(fileLog, os.Stderr), true)
	palette.Init()

	video, err := openVideoSource(cfg)
	if err != nil {
		return err
	}
	defer video.Close()

	var subs source.SubtitleSource
	if cfg.Subtitles != "" {
		srt, err := source.NewSRTFile(cfg.Subtitles)
		if err != nil {
			return err
		}
		defer srt.Close()
		subs = srt
	}

	videoPipeline, videoTrack, err := buildVideoPipeline(cfg)
	if err != nil {
		return err
	}

	tracks := []container.Stream{videoTrack}
	if subs != nil {
		tracks = append(tracks, container.Stream{
			Name:            "subtitles",
			Index:           subsStreamIndex,
			CompressionMode: container.CompressionNone,
			Parameters: container.CodecParameters{
				Subtitle: &container.SubtitleParameters{
					Lang:       "und",
					PlayWidth:  uint16(cfg.Width),
					PlayHeight: uint16(cfg.Height),
				},
			},
		})
	}

	out, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("ansi-encode: could not create output: %w", err)
	}
	defer out.Close()

	header := container.FormatData{
		FormatName: "ansi-three",
		Encoder:    "ansi-encode",
		Tracks:     tracks,
	}

	w, err := container.NewWriter(header, int64(time.Second/time.Microsecond))
	if err != nil {
		return fmt.Errorf("ansi-encode: building writer: %w", err)
	}
	defer w.Close()

	subtitleEncoder := pipeline.SubtitleEncoder{PlayWidth: cfg.Width, PlayHeight: cfg.Height}

	var lastTS uint64
	frameCount := 0
	for {
		_, ts, dur, payload, err := video.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("ansi-encode: reading frame %d: %w", frameCount, err)
		}

		px := decodeRGB24(payload, cfg.Width, cfg.Height)
		pkt, err := videoPipeline.Run(pipeline.Frame{
			Kind:           container.DataVideo,
			TimestampMicro: uint64(ts.Microseconds()),
			DurationMicro:  uint64(dur.Microseconds()),
			Video:          pipeline.VideoFrame{Width: cfg.Width, Height: cfg.Height, Pixels: px},
		})
		if err != nil {
			return fmt.Errorf("ansi-encode: encoding frame %d: %w", frameCount, err)
		}
		if err := w.WritePacket(pkt); err != nil {
			return fmt.Errorf("ansi-encode: writing frame %d: %w", frameCount, err)
		}

		lastTS = uint64(ts.Microseconds())
		frameCount++
		if frameCount%defaultFrameRate == 0 {
			fmt.Fprintf(os.Stderr, "\rencoded %s", formatProgress(ts))
		}
	}

	if subs != nil {
		if err := encodeSubtitles(w, subs, subtitleEncoder); err != nil {
			return err
		}
	}

	w.SetTrackDuration(videoStreamIndex, lastTS)
	if err := w.Finalize(out); err != nil {
		return fmt.Errorf("ansi-encode: finalizing container: %w", err)
	}
	log.Info("encode complete", "frames", frameCount, "output", cfg.Output)
	fmt.Fprintln(os.Stderr)
	return nil
}

// openVideoSource opens cfg.Input as the FrameSource selected by
// cfg.InputFormat: a headerless raw RGB24 raster, or a glob of numbered
// image frames.
func openVideoSource(cfg *encconfig.Config) (source.FrameSource, error) {
	switch cfg.InputFormat {
	case "images":
		return source.NewImageSequence(cfg.Input, cfg.Width, cfg.Height, time.Second/defaultFrameRate, false)
	default:
		return source.NewRawVideoFile(cfg.Input, cfg.Width, cfg.Height, time.Second/defaultFrameRate, false)
	}
}

func buildVideoPipeline(cfg *encconfig.Config) (*pipeline.Pipeline, container.Stream, error) {
	enc := pipeline.NewVideoEncoder(pipeline.VideoEncoderConfig{
		ColorMode:  cfg.ColorMode,
		Dither:     cfg.DitherMethod,
		MatrixSize: cfg.MatrixSize,
		Multiplier: cfg.Multiplier,
		Metric:     palette.CIE76,
		Width:      cfg.Width,
		Height:     cfg.Height,
	})

	var processors []codecproc.PostProcessor
	switch cfg.CompressionMode {
	case container.CompressionZstd:
		p, err := codecproc.NewZstdProcessor(zstd.SpeedDefault, nil)
		if err != nil {
			return nil, container.Stream{}, err
		}
		processors = append(processors, p)
	case container.CompressionLZ4:
		processors = append(processors, codecproc.NewLZ4Processor(nil))
	}

	pl, err := pipeline.NewPipeline(videoStreamIndex, enc, processors...)
	if err != nil {
		return nil, container.Stream{}, err
	}

	track := container.Stream{
		Name:            "video",
		Index:           videoStreamIndex,
		CompressionMode: cfg.CompressionMode,
		Parameters: container.CodecParameters{
			Video: &container.VideoParameters{
				Width:  uint16(cfg.Width),
				Height: uint16(cfg.Height),
				Color:  cfg.ColorMode,
			},
		},
	}
	return pl, track, nil
}

func encodeSubtitles(w *container.Writer, subs source.SubtitleSource, enc pipeline.SubtitleEncoder) error {
	for {
		ev, err := subs.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("ansi-encode: reading subtitle cue: %w", err)
		}

		pkt, err := enc.Encode(pipeline.Frame{
			Kind:           container.DataSubtitle,
			TimestampMicro: uint64(ev.Start.Microseconds()),
			DurationMicro:  uint64((ev.End - ev.Start).Microseconds()),
			Subtitles:      []pipeline.SubtitleEvent{{Text: ev.Text}},
		})
		if err != nil {
			return fmt.Errorf("ansi-encode: encoding subtitle cue: %w", err)
		}
		pkt.Stream = subsStreamIndex
		if err := w.WritePacket(pkt); err != nil {
			return fmt.Errorf("ansi-encode: writing subtitle packet: %w", err)
		}
	}
}

func decodeRGB24(payload []byte, width, height int) []pipeline.Pixel {
	px := make([]pipeline.Pixel, width*height)
	for i := range px {
		o := i * 3
		if o+2 >= len(payload) {
			break
		}
		px[i] = pipeline.Pixel{payload[o], payload[o+1], payload[o+2]}
	}
	return px
}

func formatProgress(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
