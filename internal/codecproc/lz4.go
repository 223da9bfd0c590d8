/*
DESCRIPTION
  lz4.go implements the LZ4 packet PostProcessor/DecoderProcessor pair:
  compress a packet's payload into a reused scratch buffer, tag it with
  DCLE (decompressed length) and CMPM (method byte) side-data, and the
  inverse on decode. Ports encoder/src/encoders/lz4.rs and the LZ4 half of
  player/src/processors.rs, swapping lz4_flex's block API (which supports
  an explicit dictionary) for pierrec/lz4/v4's CompressBlock/
  UncompressBlock, whose block-level API has no dictionary parameter; a
  stream's compression-dict is accepted here for symmetry with the header
  schema but only takes effect for Zstd (see zstd.go and DESIGN.md).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package codecproc implements the per-packet compression post-processors
// (encoder side) and decoder processors (player side) that the pipeline
// installs per stream.
package codecproc

import (
	"encoding/binary"

	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"

	"github.com/kore-signet/ansi-three/container"
)

// LZ4Processor compresses packet payloads with an LZ4 block codec. A
// single instance is not safe for concurrent use (its scratch buffer and
// compressor state are reused across calls), matching one instance per
// pipeline stream.
type LZ4Processor struct {
	dict       []byte
	scratch    []byte
	compressor lz4.Compressor
}

// NewLZ4Processor builds a post-processor. dict (nil for none) is stored
// but not used by the block codec.
func NewLZ4Processor(dict []byte) *LZ4Processor {
	return &LZ4Processor{dict: dict}
}

// Process compresses pkt.Data in place and records DCLE/CMPM side-data.
func (p *LZ4Processor) Process(pkt *container.Packet) error {
	uncompressedLen := len(pkt.Data)
	bound := lz4.CompressBlockBound(uncompressedLen)
	if cap(p.scratch) < bound {
		p.scratch = make([]byte, bound)
	}
	p.scratch = p.scratch[:bound]

	n, err := p.compressor.CompressBlock(pkt.Data, p.scratch)
	if err != nil {
		return errors.Wrap(err, "codecproc: lz4 compress")
	}
	if n == 0 {
		// pierrec returns n==0 when it does not emit a block. scratch is
		// sized to CompressBlockBound, so in practice this only happens for
		// empty input, where the raw copy below is also empty. For any
		// other input the raw copy is stored untagged, and LZ4Decoder
		// (which always calls UncompressBlock) does not accept it.
		n = copy(p.scratch, pkt.Data)
	}

	compressed := append([]byte(nil), p.scratch[:n]...)

	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(uncompressedLen))
	if err := pkt.SideData.Set(container.TagDecompressedLen, lenBuf[:]); err != nil {
		return err
	}
	if err := pkt.SideData.Set(container.TagCompressionMethod, []byte{byte(container.CompressionLZ4)}); err != nil {
		return err
	}

	pkt.Data = compressed
	return nil
}

// LZ4Decoder reverses LZ4Processor.
type LZ4Decoder struct {
	dict    []byte
	scratch []byte
}

// NewLZ4Decoder builds a decoder processor. dict (nil for none) is stored
// but not used by the block codec.
func NewLZ4Decoder(dict []byte) *LZ4Decoder {
	return &LZ4Decoder{dict: dict}
}

// Process decompresses pkt.Data in place using the DCLE side-data tag.
func (d *LZ4Decoder) Process(pkt *container.Packet) error {
	lenBytes, ok := pkt.SideData.Get(container.TagDecompressedLen)
	if !ok || len(lenBytes) != 8 {
		return container.ErrMissingSideData
	}
	decompressedLen := binary.LittleEndian.Uint64(lenBytes)

	if cap(d.scratch) < int(decompressedLen) {
		d.scratch = make([]byte, decompressedLen)
	}
	d.scratch = d.scratch[:decompressedLen]

	n, err := lz4.UncompressBlock(pkt.Data, d.scratch)
	if err != nil {
		return errors.Wrap(err, "codecproc: lz4 decompress")
	}

	pkt.Data = append([]byte(nil), d.scratch[:n]...)
	return nil
}
