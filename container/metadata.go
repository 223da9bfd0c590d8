/*
DESCRIPTION
  metadata.go implements the container header: FormatData, its Stream
  entries, and the per-stream CodecParameters CHOICE between video and
  subtitle parameter sets. The wire encoding is ASN.1 DER with explicit
  context tags, matching container/src/metadata.rs's `rasn`-derived
  schema. Go's stdlib encoding/asn1 supports explicit context tags
  declaratively for plain fields; the CHOICE type (no native ASN.1 CHOICE
  support in encoding/asn1) is hand-wrapped the same way crypto/x509 wraps
  GeneralName alternatives: marshal the chosen variant, then wrap it in an
  explicit context-tagged raw value.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package container implements the ANSI video container's binary file
// format: the DER-encoded header, the per-stream compressed seek index,
// and the interleaved packet stream.
package container

import (
	"encoding/asn1"
	"fmt"

	"github.com/pkg/errors"
)

// ColorMode selects how a video stream's pixels are represented.
type ColorMode int

const (
	ColorFull     ColorMode = 0
	ColorEightBit ColorMode = 1
)

func (c ColorMode) String() string {
	if c == ColorEightBit {
		return "8bit"
	}
	return "full"
}

// CompressionMode names the per-stream packet payload compressor.
type CompressionMode int

const (
	CompressionNone CompressionMode = 0
	CompressionZstd CompressionMode = 1
	CompressionLZ4  CompressionMode = 2
)

func (c CompressionMode) String() string {
	switch c {
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return "none"
	}
}

// VideoParameters describes a video stream's raster geometry and color
// representation.
type VideoParameters struct {
	Width, Height uint16
	Color         ColorMode
}

// SubtitleParameters describes a subtitle stream's language and the
// playback surface its overlay positions were laid out against. The
// player draws those positions as recorded; it does not rescale them
// for a terminal of a different size.
type SubtitleParameters struct {
	Lang                 string
	PlayWidth, PlayHeight uint16
}

// CodecParameters is the CHOICE between a video and a subtitle stream's
// parameters. Exactly one of Video or Subtitle is non-nil.
type CodecParameters struct {
	Video    *VideoParameters
	Subtitle *SubtitleParameters
}

// Stream describes one stream's static metadata, as carried in the file
// header (as opposed to per-packet data).
type Stream struct {
	Name            string
	Index           uint8
	DurationMicros  uint64
	Extradata       []byte
	CompressionMode CompressionMode
	CompressionDict []byte // nil if absent
	Parameters      CodecParameters
}

// FormatData is the fully decoded container header.
type FormatData struct {
	FormatName string
	Encoder    string
	Tracks     []Stream
}

// --- DER wire shapes -------------------------------------------------

type derVideoParameters struct {
	Width  int             `asn1:"explicit,tag:0"`
	Height int             `asn1:"explicit,tag:1"`
	Color  asn1.Enumerated `asn1:"explicit,tag:2"`
}

type derSubtitleParameters struct {
	Lang       string `asn1:"utf8,explicit,tag:0"`
	PlayWidth  int    `asn1:"explicit,tag:1"`
	PlayHeight int    `asn1:"explicit,tag:2"`
}

type derStream struct {
	Name            string          `asn1:"utf8,explicit,tag:0"`
	Index           int             `asn1:"explicit,tag:1"`
	Duration        int64           `asn1:"explicit,tag:2"`
	Extradata       []byte          `asn1:"explicit,tag:3"`
	CompressionMode asn1.Enumerated `asn1:"explicit,tag:4"`
	CompressionDict []byte          `asn1:"explicit,tag:5,optional"`
	Parameters      asn1.RawValue
}

type derFormatData struct {
	FormatName string      `asn1:"utf8,explicit,tag:0"`
	Encoder    string      `asn1:"utf8,explicit,tag:1"`
	Tracks     []derStream `asn1:"explicit,tag:2"`
}

func wrapExplicit(tag int, content []byte) ([]byte, error) {
	return asn1.Marshal(asn1.RawValue{Class: asn1.ClassContextSpecific, Tag: tag, IsCompound: true, Bytes: content})
}

func unwrapExplicit(data []byte, wantTag int) ([]byte, error) {
	var raw asn1.RawValue
	if _, err := asn1.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "container: unwrap explicit tag")
	}
	if raw.Class != asn1.ClassContextSpecific || raw.Tag != wantTag {
		return nil, fmt.Errorf("container: expected context tag [%d], got class=%d tag=%d", wantTag, raw.Class, raw.Tag)
	}
	return raw.Bytes, nil
}

func marshalCodecParameters(p CodecParameters) ([]byte, error) {
	switch {
	case p.Video != nil:
		inner, err := asn1.Marshal(derVideoParameters{
			Width:  int(p.Video.Width),
			Height: int(p.Video.Height),
			Color:  asn1.Enumerated(p.Video.Color),
		})
		if err != nil {
			return nil, err
		}
		return wrapExplicit(1, inner)
	case p.Subtitle != nil:
		inner, err := asn1.Marshal(derSubtitleParameters{
			Lang:       p.Subtitle.Lang,
			PlayWidth:  int(p.Subtitle.PlayWidth),
			PlayHeight: int(p.Subtitle.PlayHeight),
		})
		if err != nil {
			return nil, err
		}
		return wrapExplicit(0, inner)
	default:
		return nil, errors.New("container: CodecParameters has neither Video nor Subtitle set")
	}
}

func unmarshalCodecParameters(data []byte) (CodecParameters, error) {
	var raw asn1.RawValue
	if _, err := asn1.Unmarshal(data, &raw); err != nil {
		return CodecParameters{}, errors.Wrap(err, "container: decode CodecParameters")
	}
	if raw.Class != asn1.ClassContextSpecific {
		return CodecParameters{}, fmt.Errorf("container: CodecParameters choice has non-context class %d", raw.Class)
	}
	switch raw.Tag {
	case 0:
		var sp derSubtitleParameters
		if _, err := asn1.Unmarshal(raw.Bytes, &sp); err != nil {
			return CodecParameters{}, errors.Wrap(err, "container: decode SubtitleParameters")
		}
		return CodecParameters{Subtitle: &SubtitleParameters{
			Lang:       sp.Lang,
			PlayWidth:  uint16(sp.PlayWidth),
			PlayHeight: uint16(sp.PlayHeight),
		}}, nil
	case 1:
		var vp derVideoParameters
		if _, err := asn1.Unmarshal(raw.Bytes, &vp); err != nil {
			return CodecParameters{}, errors.Wrap(err, "container: decode VideoParameters")
		}
		return CodecParameters{Video: &VideoParameters{
			Width:  uint16(vp.Width),
			Height: uint16(vp.Height),
			Color:  ColorMode(vp.Color),
		}}, nil
	default:
		return CodecParameters{}, fmt.Errorf("container: unknown CodecParameters choice tag %d", raw.Tag)
	}
}

// EncodeFormatData marshals f to ASN.1 DER per the schema above.
func EncodeFormatData(f FormatData) ([]byte, error) {
	der := derFormatData{FormatName: f.FormatName, Encoder: f.Encoder}
	for _, s := range f.Tracks {
		paramBytes, err := marshalCodecParameters(s.Parameters)
		if err != nil {
			return nil, errors.Wrapf(err, "container: stream %d parameters", s.Index)
		}
		der.Tracks = append(der.Tracks, derStream{
			Name:            s.Name,
			Index:           int(s.Index),
			Duration:        int64(s.DurationMicros),
			Extradata:       s.Extradata,
			CompressionMode: asn1.Enumerated(s.CompressionMode),
			CompressionDict: s.CompressionDict,
			Parameters:      asn1.RawValue{FullBytes: paramBytes},
		})
	}
	return asn1.Marshal(der)
}

// DecodeFormatData unmarshals a DER-encoded header. HeaderDecode failures
// (malformed ASN.1, unknown CHOICE tag) are returned as plain errors; the
// caller surfaces them per the container's HeaderDecode error kind.
func DecodeFormatData(data []byte) (FormatData, error) {
	var der derFormatData
	rest, err := asn1.Unmarshal(data, &der)
	if err != nil {
		return FormatData{}, errors.Wrap(err, "container: decode FormatData")
	}
	if len(rest) != 0 {
		return FormatData{}, errors.New("container: trailing bytes after FormatData")
	}

	f := FormatData{FormatName: der.FormatName, Encoder: der.Encoder}
	for _, s := range der.Tracks {
		params, err := unmarshalCodecParameters(s.Parameters.FullBytes)
		if err != nil {
			return FormatData{}, errors.Wrapf(err, "container: stream %d", s.Index)
		}
		// encoding/asn1 decodes an empty OCTET STRING as a non-nil empty
		// slice; map it back to nil so a header with no extradata
		// round-trips unchanged.
		extradata := s.Extradata
		if len(extradata) == 0 {
			extradata = nil
		}
		f.Tracks = append(f.Tracks, Stream{
			Name:            s.Name,
			Index:           uint8(s.Index),
			DurationMicros:  uint64(s.Duration),
			Extradata:       extradata,
			CompressionMode: CompressionMode(s.CompressionMode),
			CompressionDict: s.CompressionDict,
			Parameters:      params,
		})
	}
	return f, nil
}
