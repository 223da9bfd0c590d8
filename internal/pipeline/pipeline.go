/*
DESCRIPTION
  pipeline.go implements the per-stream encoder pipeline: a FrameToPacket
  stage that converts an external frame into a (header, payload) pair,
  followed by 0..8 PostProcessor stages that mutate the packet in place
  (typically compression). Ports the pipeline composition from
  encoder/src/encoders/mod.rs, generalized from revid's own config-driven
  pipeline-building switchboard (revid/pipeline.go in the teacher), which
  this module's pipeline keeps the shape of: build once from config, run
  per frame.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package pipeline wires a stream's frame-to-packet conversion and
// compression post-processors into the single per-frame call the encoder
// loop drives.
package pipeline

import (
	"github.com/kore-signet/ansi-three/container"
	"github.com/kore-signet/ansi-three/internal/codecproc"
)

// MaxPostProcessors bounds how many post-processor stages a single
// pipeline may chain, matching the "0..8" ceiling in the component design.
const MaxPostProcessors = 8

// FrameToPacket converts one external frame into a packet carrying its
// encoded payload. Implementations are stateful (e.g. the video encoder
// reuses scratch buffers across frames) and are not
// safe for concurrent use by more than one caller.
type FrameToPacket interface {
	Encode(frame Frame) (container.Packet, error)
}

// Frame is the external input handed to a stream's FrameToPacket stage.
// Exactly one of the typed payloads is set, selected by Kind.
type Frame struct {
	Kind           container.DataType
	TimestampMicro uint64
	DurationMicro  uint64
	Video          VideoFrame
	Subtitles      []SubtitleEvent
}

// VideoFrame is a raw RGB raster, row-major, top-to-bottom.
type VideoFrame struct {
	Width, Height int
	Pixels        []Pixel
}

// Pixel is a packed 8-bit-per-channel RGB triple; defined locally to keep
// this package's public surface independent of the palette package's
// internal layout (ansiframe/palette types convert to/from it at the
// pipeline's edges).
type Pixel [3]uint8

// Pipeline is a built stream pipeline: one FrameToPacket stage plus an
// ordered chain of PostProcessor stages.
type Pipeline struct {
	StreamIndex uint8
	Encoder     FrameToPacket
	Processors  []codecproc.PostProcessor
}

// NewPipeline builds a Pipeline, rejecting more than MaxPostProcessors
// processors since the wire format's side-data and header schema assume a
// small, fixed-depth chain.
func NewPipeline(streamIndex uint8, encoder FrameToPacket, processors ...codecproc.PostProcessor) (*Pipeline, error) {
	if len(processors) > MaxPostProcessors {
		return nil, container.ErrParameterOutOfRange
	}
	return &Pipeline{StreamIndex: streamIndex, Encoder: encoder, Processors: processors}, nil
}

// Run encodes frame and applies every post-processor stage in order. The
// caller is responsible for assigning PacketIdx (the container Writer does
// this as packets are appended).
func (p *Pipeline) Run(frame Frame) (container.Packet, error) {
	pkt, err := p.Encoder.Encode(frame)
	if err != nil {
		return container.Packet{}, err
	}
	pkt.Stream = p.StreamIndex

	for _, stage := range p.Processors {
		if err := stage.Process(&pkt); err != nil {
			return container.Packet{}, err
		}
	}
	return pkt, nil
}
