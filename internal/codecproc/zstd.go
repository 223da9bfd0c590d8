/*
DESCRIPTION
  zstd.go implements the Zstd packet PostProcessor/DecoderProcessor pair,
  with real dictionary support (unlike lz4.go's block codec). Ports the
  Zstd half of encoder/src/encoders/zstd.rs and player/src/processors.rs,
  swapping the `zstd` crate's bulk Compressor/Decompressor for
  klauspost/compress/zstd's Encoder/Decoder, used in single-shot
  EncodeAll/DecodeAll mode to match the original's one-call-per-packet
  bulk API rather than its streaming API.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package codecproc

import (
	"encoding/binary"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"github.com/kore-signet/ansi-three/container"
)

// ZstdProcessor compresses packet payloads with Zstd, optionally seeded
// with a shared dictionary (such as the sampled payload file that
// cmd/ansi-dictgen writes).
type ZstdProcessor struct {
	enc *zstd.Encoder
}

// NewZstdProcessor builds a post-processor at the given compression level
// (zstd.SpeedDefault if level is the zero value), optionally with a
// dictionary.
func NewZstdProcessor(level zstd.EncoderLevel, dict []byte) (*ZstdProcessor, error) {
	if level == 0 {
		level = zstd.SpeedDefault
	}
	opts := []zstd.EOption{zstd.WithEncoderLevel(level)}
	if dict != nil {
		opts = append(opts, zstd.WithEncoderDict(dict))
	}
	enc, err := zstd.NewWriter(nil, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "codecproc: build zstd encoder")
	}
	return &ZstdProcessor{enc: enc}, nil
}

// Process compresses pkt.Data in place and records DCLE/CMPM side-data.
func (p *ZstdProcessor) Process(pkt *container.Packet) error {
	uncompressedLen := len(pkt.Data)
	compressed := p.enc.EncodeAll(pkt.Data, nil)

	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(uncompressedLen))
	if err := pkt.SideData.Set(container.TagDecompressedLen, lenBuf[:]); err != nil {
		return err
	}
	if err := pkt.SideData.Set(container.TagCompressionMethod, []byte{byte(container.CompressionZstd)}); err != nil {
		return err
	}

	pkt.Data = compressed
	return nil
}

// Close releases the encoder's background resources.
func (p *ZstdProcessor) Close() error { return p.enc.Close() }

// ZstdDecoder reverses ZstdProcessor.
type ZstdDecoder struct {
	dec *zstd.Decoder
}

// NewZstdDecoder builds a decoder processor, optionally with the same
// dictionary the encoder used.
func NewZstdDecoder(dict []byte) (*ZstdDecoder, error) {
	opts := []zstd.DOption{}
	if dict != nil {
		opts = append(opts, zstd.WithDecoderDicts(dict))
	}
	dec, err := zstd.NewReader(nil, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "codecproc: build zstd decoder")
	}
	return &ZstdDecoder{dec: dec}, nil
}

// Process decompresses pkt.Data in place using the DCLE side-data tag as
// the destination-buffer size hint.
func (d *ZstdDecoder) Process(pkt *container.Packet) error {
	lenBytes, ok := pkt.SideData.Get(container.TagDecompressedLen)
	if !ok || len(lenBytes) != 8 {
		return container.ErrMissingSideData
	}
	decompressedLen := binary.LittleEndian.Uint64(lenBytes)

	dst := make([]byte, 0, decompressedLen)
	out, err := d.dec.DecodeAll(pkt.Data, dst)
	if err != nil {
		return errors.Wrap(err, "codecproc: zstd decompress")
	}

	pkt.Data = out
	return nil
}

// Close releases the decoder's background resources.
func (d *ZstdDecoder) Close() { d.dec.Close() }
