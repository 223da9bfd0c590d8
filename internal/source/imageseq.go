/*
DESCRIPTION
  imageseq.go implements FrameSource over a numbered sequence of ordinary
  image files (PNG/JPEG/GIF), for feeding the encoder from frame dumps
  produced by tools that write one file per frame rather than a single
  headerless raw stream. Each frame is decoded with the standard image
  package and resized to the configured width/height with
  golang.org/x/image/draw, matching AVFile/RawVideoFile's fixed-size,
  loop-on-EOF behavior.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package source

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/draw"
)

// ImageSequence reads frames from an ordered list of image file paths,
// decoding and resizing each to a fixed width/height.
type ImageSequence struct {
	paths         []string
	width, height int
	frameDuration time.Duration
	loop          bool

	frameIdx int
	scratch  *image.RGBA
}

// NewImageSequence globs pattern (e.g. "frames/*.png") for frame files,
// sorted lexically, and prepares to decode and resize each to width x
// height RGB24 at frameDuration apart.
func NewImageSequence(pattern string, width, height int, frameDuration time.Duration, loop bool) (*ImageSequence, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("source: globbing %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("source: no frames matched %q", pattern)
	}
	return &ImageSequence{
		paths:         paths,
		width:         width,
		height:        height,
		frameDuration: frameDuration,
		loop:          loop,
		scratch:       image.NewRGBA(image.Rect(0, 0, width, height)),
	}, nil
}

// Next decodes and resizes the next frame in sequence, always on stream
// 0, returning its pixels as packed RGB24 (no alpha byte).
func (s *ImageSequence) Next() (uint8, time.Duration, time.Duration, []byte, error) {
	if s.frameIdx >= len(s.paths) {
		if !s.loop {
			return 0, 0, 0, nil, io.EOF
		}
		s.frameIdx = 0
	}

	path := s.paths[s.frameIdx]
	img, err := decodeImageFile(path)
	if err != nil {
		return 0, 0, 0, nil, fmt.Errorf("source: decoding %q: %w", path, err)
	}

	draw.CatmullRom.Scale(s.scratch, s.scratch.Bounds(), img, img.Bounds(), draw.Over, nil)

	out := make([]byte, s.width*s.height*3)
	for y := 0; y < s.height; y++ {
		rowOff := s.scratch.PixOffset(0, y)
		row := s.scratch.Pix[rowOff : rowOff+s.width*4]
		for x := 0; x < s.width; x++ {
			o := x * 3
			out[y*s.width*3+o] = row[x*4]
			out[y*s.width*3+o+1] = row[x*4+1]
			out[y*s.width*3+o+2] = row[x*4+2]
		}
	}

	ts := time.Duration(s.frameIdx) * s.frameDuration
	s.frameIdx++
	return 0, ts, s.frameDuration, out, nil
}

// Close is a no-op: ImageSequence opens and closes each frame file
// individually in Next rather than holding one open across the session.
func (s *ImageSequence) Close() error { return nil }

func decodeImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}
