/*
DESCRIPTION
  subtitle.go implements the subtitle FrameToPacket stage. Unlike the video
  stage, this one does real layout work: it takes a raw styled event
  (unwrapped text plus fg/bg/margins/alignment) and produces the positioned,
  pre-rendered SubRects the container wire format carries, per the subtitle
  overlay layout described in the component design (greedy word wrap to
  play_width minus margins, then horizontal/vertical alignment within the
  remaining box). The player does no further layout at render time: it only
  writes SubRect.String() bytes already carried in the packet.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pipeline

import (
	"bytes"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/kore-signet/ansi-three/container"
)

// HAlign selects a subtitle line's horizontal placement within its margin
// box.
type HAlign int

const (
	AlignLeft HAlign = iota
	AlignCenter
	AlignRight
)

// VAlign selects a subtitle block's vertical placement within its margin
// box.
type VAlign int

const (
	AlignTop VAlign = iota
	AlignMiddle
	AlignBottom
)

// SubtitleStyle carries everything about a subtitle event not covered by
// its text: color, margins (in cells), and alignment. Styling beyond this
// (fonts, outlines, karaoke timing, etc.) is out of scope.
type SubtitleStyle struct {
	FG, BG                                           uint8
	MarginLeft, MarginRight, MarginTop, MarginBottom int
	Horizontal                                       HAlign
	Vertical                                         VAlign
}

// SubtitleEvent is one caption: raw text plus the style to lay it out
// with. Events with identical starts_at/ends_at across multiple streams are
// not coalesced; each is its own Frame.
type SubtitleEvent struct {
	Text  string
	Style SubtitleStyle
}

// SubtitleEncoder is the FrameToPacket stage for a subtitle stream. It owns
// the play surface dimensions the layout is computed against; they are
// recorded in the stream header (SubtitleParameters.PlayWidth /
// PlayHeight), and the player draws the laid-out positions as they are,
// without rescaling.
type SubtitleEncoder struct {
	PlayWidth, PlayHeight int
}

// Encode wraps and positions frame's subtitle events into a SubRectVec
// packet.
func (e SubtitleEncoder) Encode(frame Frame) (container.Packet, error) {
	var rects []container.SubRect
	for _, ev := range frame.Subtitles {
		rects = append(rects, e.layout(ev)...)
	}

	var buf bytes.Buffer
	if err := container.EncodeSubRectVec(&buf, container.SubRectVec{Rects: rects}); err != nil {
		return container.Packet{}, err
	}

	return container.Packet{
		TimestampMicro: frame.TimestampMicro,
		DurationMicro:  frame.DurationMicro,
		DataType:       container.DataSubtitle,
		Data:           buf.Bytes(),
	}, nil
}

// layout greedily word-wraps ev.Text to the style's margin box and places
// each resulting line per the style's horizontal/vertical alignment,
// returning one SubRect per line.
func (e SubtitleEncoder) layout(ev SubtitleEvent) []container.SubRect {
	s := ev.Style
	availWidth := e.PlayWidth - s.MarginLeft - s.MarginRight
	if availWidth < 1 {
		availWidth = 1
	}
	availHeight := e.PlayHeight - s.MarginTop - s.MarginBottom
	if availHeight < 1 {
		availHeight = 1
	}

	lines := wordWrap(ev.Text, availWidth)
	if len(lines) > availHeight {
		lines = lines[:availHeight]
	}

	startY := s.MarginTop
	switch s.Vertical {
	case AlignMiddle:
		startY += (availHeight - len(lines)) / 2
	case AlignBottom:
		startY += availHeight - len(lines)
	}

	rects := make([]container.SubRect, 0, len(lines))
	for i, line := range lines {
		w := runewidth.StringWidth(line)
		x := s.MarginLeft
		switch s.Horizontal {
		case AlignCenter:
			x += (availWidth - w) / 2
		case AlignRight:
			x += availWidth - w
		}

		rects = append(rects, container.SubRect{
			X:    int16(x + 1), // SubRect coordinates are 1-based terminal cells
			Y:    int16(startY + i + 1),
			FG:   s.FG,
			BG:   s.BG,
			Text: line,
		})
	}
	return rects
}

// wordWrap greedily packs whitespace-separated words into lines no wider
// (in terminal cells, via runewidth) than width. A single word wider than
// width occupies its own line unbroken.
func wordWrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	var cur strings.Builder
	curWidth := 0

	flush := func() {
		if cur.Len() > 0 {
			lines = append(lines, cur.String())
			cur.Reset()
			curWidth = 0
		}
	}

	for _, word := range words {
		ww := runewidth.StringWidth(word)
		if curWidth == 0 {
			cur.WriteString(word)
			curWidth = ww
			continue
		}
		if curWidth+1+ww > width {
			flush()
			cur.WriteString(word)
			curWidth = ww
			continue
		}
		cur.WriteByte(' ')
		cur.WriteString(word)
		curWidth += 1 + ww
	}
	flush()

	return lines
}
