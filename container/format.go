/*
DESCRIPTION
  format.go ties the header, seek tables, and packet stream together into
  the full container file layout described in the file-format comment at
  the top of container/src/lib.rs: header_len/header_bytes, n_seek_tables
  tables, then the interleaved packet region. Writer buffers packets to a
  scratch tempfile so the seek index (built incrementally as packets are
  written) can be finalized and written ahead of the packet region it
  describes, without holding the whole stream in memory.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package container

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/pkg/errors"
)

// DefaultSeekResolutionMicros is the default presentation-time spacing
// between recorded seek samples (100ms, per spec).
const DefaultSeekResolutionMicros = 100_000

type seekTableBuilder struct {
	resolutionMicros int64
	haveFirst        bool
	lastSampled      int64
	entries          []SeekEntry
}

func newSeekTableBuilder(resolutionMicros int64) *seekTableBuilder {
	if resolutionMicros <= 0 {
		resolutionMicros = DefaultSeekResolutionMicros
	}
	return &seekTableBuilder{resolutionMicros: resolutionMicros}
}

func (b *seekTableBuilder) observe(ts, offset int64) {
	if !b.haveFirst {
		b.entries = append(b.entries, SeekEntry{TS: ts, Location: offset})
		b.haveFirst = true
		b.lastSampled = ts
		return
	}
	if ts-b.lastSampled >= b.resolutionMicros {
		b.entries = append(b.entries, SeekEntry{TS: ts, Location: offset})
		b.lastSampled = ts
	}
}

// Writer incrementally builds a container file: packets are appended to a
// scratch tempfile while a per-stream seek index is sampled inline, then
// Finalize writes the header, seek tables, and scratch contents (in that
// order) to the destination writer.
type Writer struct {
	header       FormatData
	resolution   int64
	scratch      *os.File
	scratchBuf   *bufio.Writer
	scratchBytes int64
	packetIdx    map[uint8]uint64
	seekTables   map[uint8]*seekTableBuilder
	streamOrder  []uint8
}

// NewWriter opens a scratch tempfile and prepares a Writer for header.
// resolutionMicros selects the seek-sampling interval; 0 uses the default.
func NewWriter(header FormatData, resolutionMicros int64) (*Writer, error) {
	f, err := os.CreateTemp("", "ansi-container-scratch-*")
	if err != nil {
		return nil, errors.Wrap(err, "container: create scratch file")
	}
	return &Writer{
		header:     header,
		resolution: resolutionMicros,
		scratch:    f,
		scratchBuf: bufio.NewWriter(f),
		packetIdx:  make(map[uint8]uint64),
		seekTables: make(map[uint8]*seekTableBuilder),
	}, nil
}

// SetTrackDuration updates the DurationMicros recorded in the header for
// the track at index, which a caller typically only knows once it has
// finished writing that stream's packets. Finalize uses the header as it
// stands at the time it's called, so this must run before Finalize.
func (w *Writer) SetTrackDuration(index uint8, micros uint64) {
	for i := range w.header.Tracks {
		if w.header.Tracks[i].Index == index {
			w.header.Tracks[i].DurationMicros = micros
			return
		}
	}
}

// WritePacket assigns the next packet_idx for p.Stream (starting at 1),
// samples the seek index for that stream, and appends the encoded packet
// to scratch.
func (w *Writer) WritePacket(p Packet) error {
	w.packetIdx[p.Stream]++
	p.PacketIdx = w.packetIdx[p.Stream]

	builder, ok := w.seekTables[p.Stream]
	if !ok {
		builder = newSeekTableBuilder(w.resolution)
		w.seekTables[p.Stream] = builder
		w.streamOrder = append(w.streamOrder, p.Stream)
	}
	builder.observe(int64(p.TimestampMicro), w.scratchBytes)

	if err := EncodePacket(countingWriter{w.scratchBuf, &w.scratchBytes}, p); err != nil {
		return errors.Wrap(err, "container: write packet to scratch")
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n *int64
}

func (c countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	*c.n += int64(n)
	return n, err
}

// Finalize writes header_len/header_bytes, then the seek tables (sorted
// by stream index for determinism), then the scratch packet region, to
// out. It does not close or remove the scratch file; call Close after.
func (w *Writer) Finalize(out io.Writer) error {
	if err := w.scratchBuf.Flush(); err != nil {
		return errors.Wrap(err, "container: flush scratch")
	}

	headerBytes, err := EncodeFormatData(w.header)
	if err != nil {
		return errors.Wrap(err, "container: encode header")
	}
	if err := putUint64LE(out, uint64(len(headerBytes))); err != nil {
		return err
	}
	if _, err := out.Write(headerBytes); err != nil {
		return err
	}

	streams := append([]uint8(nil), w.streamOrder...)
	sort.Slice(streams, func(i, j int) bool { return streams[i] < streams[j] })

	if len(streams) > 255 {
		return errors.New("container: more than 255 streams")
	}
	if _, err := out.Write([]byte{byte(len(streams))}); err != nil {
		return err
	}
	for _, idx := range streams {
		builder := w.seekTables[idx]
		payload := EncodeSeekTable(builder.entries)

		if _, err := out.Write([]byte{idx}); err != nil {
			return err
		}
		if err := putUint64LE(out, uint64(len(payload))); err != nil {
			return err
		}
		if err := putUint64LE(out, uint64(len(builder.entries))); err != nil {
			return err
		}
		if _, err := out.Write(payload); err != nil {
			return err
		}
	}

	if _, err := w.scratch.Seek(0, io.SeekStart); err != nil {
		return errors.Wrap(err, "container: rewind scratch")
	}
	_, err = io.Copy(out, w.scratch)
	return err
}

// Close removes the scratch tempfile.
func (w *Writer) Close() error {
	name := w.scratch.Name()
	closeErr := w.scratch.Close()
	removeErr := os.Remove(name)
	if closeErr != nil {
		return closeErr
	}
	return removeErr
}

// Reader parses a container file's header and seek tables, and yields
// packets from the packet region in wire order. r must support Seek for
// Seek() to be usable; sequential playback only needs Read.
type Reader struct {
	r                 io.ReadSeeker
	Header            FormatData
	SeekTables        map[uint8][]SeekEntry
	packetRegionStart int64
}

// NewReader parses the header and seek tables at the current position of
// r (normally the start of the file) and leaves r positioned at the start
// of the packet region.
func NewReader(r io.ReadSeeker) (*Reader, error) {
	headerLen, err := readUint64LE(r)
	if err != nil {
		return nil, err
	}
	headerBytes := make([]byte, headerLen)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return nil, unexpectedEOF(err)
	}
	header, err := DecodeFormatData(headerBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHeaderDecode, err)
	}

	var nTables [1]byte
	if _, err := io.ReadFull(r, nTables[:]); err != nil {
		return nil, unexpectedEOF(err)
	}

	tables := make(map[uint8][]SeekEntry, nTables[0])
	for i := 0; i < int(nTables[0]); i++ {
		var idxBuf [1]byte
		if _, err := io.ReadFull(r, idxBuf[:]); err != nil {
			return nil, unexpectedEOF(err)
		}
		lenBytes, err := readUint64LE(r)
		if err != nil {
			return nil, err
		}
		lenElements, err := readUint64LE(r)
		if err != nil {
			return nil, err
		}
		payload := make([]byte, lenBytes)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, unexpectedEOF(err)
		}
		entries, err := DecodeSeekTable(payload, int(lenElements))
		if err != nil {
			return nil, err
		}
		tables[idxBuf[0]] = entries
	}

	pos, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}

	return &Reader{r: r, Header: header, SeekTables: tables, packetRegionStart: pos}, nil
}

// NextPacket reads the next packet from the current position.
func (rd *Reader) NextPacket() (Packet, error) {
	return DecodePacket(rd.r)
}

// NextPacketInto reads the next packet like NextPacket, reusing *dataBuf as
// the payload's backing storage across calls.
func (rd *Reader) NextPacketInto(dataBuf *[]byte) (Packet, error) {
	return DecodePacketInto(rd.r, dataBuf)
}

// PacketRegionStart returns the byte offset, relative to the start of the
// underlying stream, at which the packet region begins. Seek locations in
// SeekTables are relative to this offset.
func (rd *Reader) PacketRegionStart() int64 {
	return rd.packetRegionStart
}

// Seek positions the reader at the packet whose byte offset is recorded
// for the greatest seek-table entry with TS <= targetMicros on the given
// stream, and returns that entry's TS. A target before the stream's first
// sample positions at the first entry. ErrParameterOutOfRange if the
// stream has no seek table.
func (rd *Reader) Seek(stream uint8, targetMicros int64) (int64, error) {
	entries, ok := rd.SeekTables[stream]
	if !ok || len(entries) == 0 {
		return 0, ErrParameterOutOfRange
	}
	entry, ok := Lookup(entries, targetMicros)
	if !ok {
		entry = entries[0]
	}
	if _, err := rd.r.Seek(rd.packetRegionStart+entry.Location, io.SeekStart); err != nil {
		return 0, err
	}
	return entry.TS, nil
}
