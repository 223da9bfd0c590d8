/*
DESCRIPTION
  video.go implements the video FrameToPacket stage: it selects one of the
  three encode strategies from the component design's table by
  (color_mode, dither_method), runs the chosen quantization path if any,
  and renders the result through the half-block emitter into the packet's
  payload bytes.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pipeline

import (
	"bufio"
	"bytes"

	"github.com/kore-signet/ansi-three/container"
	"github.com/kore-signet/ansi-three/internal/ansiframe"
	"github.com/kore-signet/ansi-three/internal/dither"
	"github.com/kore-signet/ansi-three/internal/palette"
)

// DitherMethod selects the EightBit color-mode quantization strategy.
// Meaningless (and ignored) for Full24bit mode.
type DitherMethod int

const (
	DitherFloydSteinberg DitherMethod = iota
	DitherPattern
)

// VideoEncoderConfig parameterizes the video strategy table.
type VideoEncoderConfig struct {
	ColorMode  container.ColorMode
	Dither     DitherMethod
	MatrixSize dither.MatrixSize
	// Multiplier scales pattern dithering's running error accumulator
	// between candidates; meaningless for Floyd-Steinberg and Full24bit.
	Multiplier    float32
	Metric        palette.Metric
	Width, Height int
}

// VideoEncoder is the stateful FrameToPacket stage for a video stream. It
// reuses its index, working-RGB and output buffers across Encode calls;
// each call still allocates the converted pixel slice, a bufio.Writer and
// the returned payload copy.
type VideoEncoder struct {
	cfg       VideoEncoderConfig
	quantizer *palette.Quantizer
	idxBuf    []uint8
	rgbBuf    []palette.RGB
	out       bytes.Buffer
}

// NewVideoEncoder builds a VideoEncoder for the given strategy.
// cfg.ColorMode == EightBit requires a non-nil quantizer (built from
// cfg.Metric); Full24bit never quantizes and ignores Dither/MatrixSize.
func NewVideoEncoder(cfg VideoEncoderConfig) *VideoEncoder {
	e := &VideoEncoder{cfg: cfg}
	if cfg.ColorMode == container.ColorEightBit {
		e.quantizer = palette.NewQuantizer(cfg.Metric)
	}
	return e
}

// Encode implements FrameToPacket for video frames, dispatching to the
// (color_mode, dither_method) strategy table.
func (e *VideoEncoder) Encode(frame Frame) (container.Packet, error) {
	px := make([]palette.RGB, len(frame.Video.Pixels))
	for i, p := range frame.Video.Pixels {
		px[i] = palette.RGB(p)
	}
	width, height := frame.Video.Width, frame.Video.Height

	e.out.Reset()
	bw := bufio.NewWriter(&e.out)

	switch e.cfg.ColorMode {
	case container.ColorFull:
		src := ansiframe.RGB24Source{Pixels: px, Width: width, Height: height}
		if err := ansiframe.EmitFrame(bw, src, width, height); err != nil {
			return container.Packet{}, err
		}
	default:
		if cap(e.idxBuf) < len(px) {
			e.idxBuf = make([]uint8, len(px))
		}
		e.idxBuf = e.idxBuf[:len(px)]

		switch e.cfg.Dither {
		case DitherPattern:
			if err := dither.Pattern(e.quantizer, px, width, height, e.cfg.MatrixSize, e.cfg.Multiplier, e.idxBuf); err != nil {
				return container.Packet{}, err
			}
		default:
			if cap(e.rgbBuf) < len(px) {
				e.rgbBuf = make([]palette.RGB, len(px))
			}
			e.rgbBuf = e.rgbBuf[:len(px)]
			copy(e.rgbBuf, px)
			dither.FloydSteinberg(e.quantizer, e.rgbBuf, width, height, e.idxBuf)
		}

		src := ansiframe.IndexedSource{Indices: e.idxBuf, Width: width, Height: height}
		if err := ansiframe.EmitFrame(bw, src, width, height); err != nil {
			return container.Packet{}, err
		}
	}

	if err := bw.Flush(); err != nil {
		return container.Packet{}, err
	}

	return container.Packet{
		TimestampMicro: frame.TimestampMicro,
		DurationMicro:  frame.DurationMicro,
		DataType:       container.DataVideo,
		Data:           append([]byte(nil), e.out.Bytes()...),
	}, nil
}
