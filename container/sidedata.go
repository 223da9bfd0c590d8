/*
DESCRIPTION
  sidedata.go implements the packet side-data block: a small map from a
  4-byte ASCII tag to a byte value (at most 255 bytes), kept sorted by tag
  so iteration order is deterministic and round-trips through encode and
  decode unchanged. Ports container/src/side_data.rs's `LiteMap`-backed
  SideData (a sorted small-map, not an insertion-order map).

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

	"github.com/pkg/errors"
)

// Tag identifies a side-data entry's meaning. Printable ASCII by
// convention, mirroring FourCC-style codec tags.
type Tag [4]byte

func (t Tag) String() string { return string(t[:]) }

// Reserved side-data tags used by the compression post-processor.
var (
	TagCompressionMethod = Tag{'C', 'M', 'P', 'M'}
	TagDecompressedLen   = Tag{'D', 'C', 'L', 'E'}
)

type sideDataEntry struct {
	tag   Tag
	value []byte
}

// SideData is a small sorted map from Tag to value bytes, each value at
// most 255 bytes. The zero value is an empty map ready to use.
type SideData struct {
	entries []sideDataEntry
}

// Set inserts or overwrites the value for tag, keeping entries sorted by
// tag. value must be at most 255 bytes.
func (s *SideData) Set(tag Tag, value []byte) error {
	if len(value) > 255 {
		return errors.Errorf("container: side-data value for %s exceeds 255 bytes (%d)", tag, len(value))
	}
	cp := append([]byte(nil), value...)
	i := sort.Search(len(s.entries), func(i int) bool { return bytes.Compare(s.entries[i].tag[:], tag[:]) >= 0 })
	if i < len(s.entries) && s.entries[i].tag == tag {
		s.entries[i].value = cp
		return nil
	}
	s.entries = append(s.entries, sideDataEntry{})
	copy(s.entries[i+1:], s.entries[i:])
	s.entries[i] = sideDataEntry{tag: tag, value: cp}
	return nil
}

// Get returns the value for tag and whether it was present.
func (s *SideData) Get(tag Tag) ([]byte, bool) {
	i := sort.Search(len(s.entries), func(i int) bool { return bytes.Compare(s.entries[i].tag[:], tag[:]) >= 0 })
	if i < len(s.entries) && s.entries[i].tag == tag {
		return s.entries[i].value, true
	}
	return nil, false
}

// Delete removes tag's entry, if present.
func (s *SideData) Delete(tag Tag) {
	i := sort.Search(len(s.entries), func(i int) bool { return bytes.Compare(s.entries[i].tag[:], tag[:]) >= 0 })
	if i < len(s.entries) && s.entries[i].tag == tag {
		s.entries = append(s.entries[:i], s.entries[i+1:]...)
	}
}

// Len reports the number of entries.
func (s *SideData) Len() int { return len(s.entries) }

func (s SideData) equal(o SideData) bool {
	if len(s.entries) != len(o.entries) {
		return false
	}
	for i := range s.entries {
		if s.entries[i].tag != o.entries[i].tag || !bytes.Equal(s.entries[i].value, o.entries[i].value) {
			return false
		}
	}
	return true
}

func encodeSideData(w io.Writer, s SideData) error {
	if len(s.entries) > 255 {
		return errors.New("container: too many side-data entries (max 255)")
	}
	if _, err := w.Write([]byte{byte(len(s.entries))}); err != nil {
		return err
	}
	for _, e := range s.entries {
		if _, err := w.Write(e.tag[:]); err != nil {
			return err
		}
		if _, err := w.Write([]byte{byte(len(e.value))}); err != nil {
			return err
		}
		if _, err := w.Write(e.value); err != nil {
			return err
		}
	}
	return nil
}

func decodeSideData(r io.Reader) (SideData, error) {
	var n [1]byte
	if _, err := io.ReadFull(r, n[:]); err != nil {
		return SideData{}, unexpectedEOF(err)
	}

	var s SideData
	s.entries = make([]sideDataEntry, 0, n[0])
	for i := 0; i < int(n[0]); i++ {
		var tag Tag
		if _, err := io.ReadFull(r, tag[:]); err != nil {
			return SideData{}, unexpectedEOF(err)
		}
		var vlen [1]byte
		if _, err := io.ReadFull(r, vlen[:]); err != nil {
			return SideData{}, unexpectedEOF(err)
		}
		value := make([]byte, vlen[0])
		if _, err := io.ReadFull(r, value); err != nil {
			return SideData{}, unexpectedEOF(err)
		}
		s.entries = append(s.entries, sideDataEntry{tag: tag, value: value})
	}
	return s, nil
}

func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrUnexpectedEOF
	}
	return errors.Wrap(err, "container: read side-data")
}

func putUint64LE(w io.Writer, v uint64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func readUint64LE(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, unexpectedEOF(err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}
