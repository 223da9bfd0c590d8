/*
DESCRIPTION
  subrect.go implements SubRect/SubRectVec, the subtitle payload encoding:
  a positioned, colored, word-wrapped text rectangle. Ports the
  EncodableData impls for SubRect/SubRectVec in container/src/lib.rs.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package container

import (
	"encoding/binary"
	"fmt"
	"io"
	"unicode/utf8"
)

// SubRect is one positioned, colored line of subtitle text, ready to
// overlay onto a rendered frame at terminal cell (X, Y).
type SubRect struct {
	X, Y   int16
	FG, BG uint8 // ANSI 256-color palette indices
	Text   string
}

// String renders the SubRect as the exact escape sequence the player
// writes to overlay it: cursor-position, fg, bg, then the text.
func (s SubRect) String() string {
	return fmt.Sprintf("\x1b[%d;%dH\x1b[38;5;%dm\x1b[48;5;%dm%s", s.Y, s.X, s.FG, s.BG, s.Text)
}

func encodeSubRect(w io.Writer, s SubRect) error {
	var hdr [2 + 2 + 1 + 1 + 4]byte
	binary.LittleEndian.PutUint16(hdr[0:2], uint16(s.X))
	binary.LittleEndian.PutUint16(hdr[2:4], uint16(s.Y))
	hdr[4] = s.FG
	hdr[5] = s.BG
	binary.LittleEndian.PutUint32(hdr[6:10], uint32(len(s.Text)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	_, err := io.WriteString(w, s.Text)
	return err
}

func decodeSubRect(r io.Reader) (SubRect, error) {
	var hdr [2 + 2 + 1 + 1 + 4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return SubRect{}, unexpectedEOF(err)
	}
	s := SubRect{
		X:  int16(binary.LittleEndian.Uint16(hdr[0:2])),
		Y:  int16(binary.LittleEndian.Uint16(hdr[2:4])),
		FG: hdr[4],
		BG: hdr[5],
	}
	textLen := binary.LittleEndian.Uint32(hdr[6:10])

	buf := make([]byte, textLen)
	if _, err := io.ReadFull(r, buf); err != nil {
		return SubRect{}, unexpectedEOF(err)
	}
	if !utf8.Valid(buf) {
		return SubRect{}, ErrInvalidData
	}
	s.Text = string(buf)
	return s, nil
}

// SubRectVec is the full subtitle-packet payload: the set of rectangles
// composing one subtitle event (e.g. one line per SubRect for a
// multi-line caption).
type SubRectVec struct {
	Rects []SubRect
}

// EncodeSubRectVec writes the length-prefixed rectangle list.
func EncodeSubRectVec(w io.Writer, v SubRectVec) error {
	var lenBuf [2]byte
	binary.LittleEndian.PutUint16(lenBuf[:], uint16(len(v.Rects)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	for _, r := range v.Rects {
		if err := encodeSubRect(w, r); err != nil {
			return err
		}
	}
	return nil
}

// DecodeSubRectVec reads a length-prefixed rectangle list.
func DecodeSubRectVec(r io.Reader) (SubRectVec, error) {
	var lenBuf [2]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return SubRectVec{}, unexpectedEOF(err)
	}
	n := binary.LittleEndian.Uint16(lenBuf[:])

	v := SubRectVec{Rects: make([]SubRect, 0, n)}
	for i := 0; i < int(n); i++ {
		rect, err := decodeSubRect(r)
		if err != nil {
			return SubRectVec{}, err
		}
		v.Rects = append(v.Rects, rect)
	}
	return v, nil
}
