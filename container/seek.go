/*
DESCRIPTION
  seek.go implements the per-stream seek index: two parallel timestamp/
  byte-location i64 streams, each delta-of-delta encoded with zig-zag
  varints then LZ4-compressed, plus the binary-search lookup used by the
  player to resolve a seek target to a byte offset. Ports
  container/src/seek.rs.

  The original's `integer-encoding` crate varint is a standard zig-zag
  LEB128 variant; Go's encoding/binary.PutVarint/Varint implement the
  identical wire format for signed integers, so no third-party varint
  library is needed here (see DESIGN.md).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package container

import (
	"bytes"
	"encoding/binary"
	"io"
	"sort"

	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"
)

// SeekEntry is one sample in a stream's seek index: a presentation
// timestamp and the byte offset (from the start of the packet region) of
// the packet at or before that timestamp.
type SeekEntry struct {
	TS       int64
	Location int64
}

// deltaEncode writes xs as a varint stream of the first value followed by
// delta-of-delta varints for the rest, per container/src/seek.rs.
func deltaEncode(xs []int64) []byte {
	if len(xs) == 0 {
		return nil
	}
	var buf [binary.MaxVarintLen64]byte
	out := make([]byte, 0, len(xs)*2)

	n := binary.PutVarint(buf[:], xs[0])
	out = append(out, buf[:n]...)

	prevVal := xs[0]
	var prevDelta int64
	for _, v := range xs[1:] {
		delta := v - prevVal
		dd := delta - prevDelta
		n := binary.PutVarint(buf[:], dd)
		out = append(out, buf[:n]...)
		prevDelta = delta
		prevVal = v
	}
	return out
}

// deltaDecode reads count values encoded by deltaEncode.
func deltaDecode(r *bytes.Reader, count int) ([]int64, error) {
	if count == 0 {
		return nil, nil
	}

	first, err := binary.ReadVarint(r)
	if err != nil {
		return nil, unexpectedEOF(err)
	}

	out := make([]int64, 0, count)
	out = append(out, first)

	prevVal := first
	var prevDelta int64
	for i := 1; i < count; i++ {
		dd, err := binary.ReadVarint(r)
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		prevDelta += dd
		prevVal += prevDelta
		out = append(out, prevVal)
	}
	return out, nil
}

// lz4Frame wraps data in a minimal length-prepended LZ4 block frame: a
// one-byte flag (0 = stored, 1 = lz4-compressed), the uncompressed length
// (u64 LE), and the payload. Incompressible input (pierrec's CompressBlock
// returns 0 when it can't beat storing raw) falls back to stored form.
func lz4Frame(data []byte) []byte {
	out := make([]byte, 0, len(data)+9)
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(data)))

	if len(data) == 0 {
		return append([]byte{0}, lenBuf[:]...)
	}

	bound := lz4.CompressBlockBound(len(data))
	compressed := make([]byte, bound)
	var c lz4.Compressor
	n, err := c.CompressBlock(data, compressed)
	if err != nil || n == 0 || n >= len(data) {
		out = append(out, 0)
		out = append(out, lenBuf[:]...)
		out = append(out, data...)
		return out
	}

	out = append(out, 1)
	out = append(out, lenBuf[:]...)
	out = append(out, compressed[:n]...)
	return out
}

func lz4Unframe(r *bytes.Reader) ([]byte, error) {
	var flag [1]byte
	if _, err := io.ReadFull(r, flag[:]); err != nil {
		return nil, unexpectedEOF(err)
	}
	var lenBuf [8]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, unexpectedEOF(err)
	}
	uncompressedLen := binary.LittleEndian.Uint64(lenBuf[:])

	rest := make([]byte, r.Len())
	if _, err := io.ReadFull(r, rest); err != nil {
		return nil, unexpectedEOF(err)
	}

	if flag[0] == 0 {
		if uint64(len(rest)) < uncompressedLen {
			return nil, ErrUnexpectedEOF
		}
		return rest[:uncompressedLen], nil
	}

	out := make([]byte, uncompressedLen)
	n, err := lz4.UncompressBlock(rest, out)
	if err != nil {
		return nil, errors.Wrap(err, "container: lz4 decompress seek table")
	}
	return out[:n], nil
}

// EncodeSeekTable concatenates the delta-of-delta encoded timestamp and
// location streams and LZ4-frames the result, returning the payload ready
// to be written after the table's stream_index/len_bytes/len_elements
// header.
func EncodeSeekTable(entries []SeekEntry) []byte {
	ts := make([]int64, len(entries))
	loc := make([]int64, len(entries))
	for i, e := range entries {
		ts[i] = e.TS
		loc[i] = e.Location
	}
	concat := append(deltaEncode(ts), deltaEncode(loc)...)
	return lz4Frame(concat)
}

// DecodeSeekTable reverses EncodeSeekTable given the element count that
// was recorded alongside it in the table header.
func DecodeSeekTable(payload []byte, count int) ([]SeekEntry, error) {
	concat, err := lz4Unframe(bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	r := bytes.NewReader(concat)
	ts, err := deltaDecode(r, count)
	if err != nil {
		return nil, err
	}
	loc, err := deltaDecode(r, count)
	if err != nil {
		return nil, err
	}

	entries := make([]SeekEntry, count)
	for i := range entries {
		entries[i] = SeekEntry{TS: ts[i], Location: loc[i]}
	}
	return entries, nil
}

// Lookup returns the entry with the greatest TS <= target, or ok=false if
// target is before the first entry. entries must be sorted ascending by
// TS, as the encoder always produces them.
func Lookup(entries []SeekEntry, target int64) (SeekEntry, bool) {
	i := sort.Search(len(entries), func(i int) bool { return entries[i].TS > target })
	if i == 0 {
		return SeekEntry{}, false
	}
	return entries[i-1], true
}
