/*
DESCRIPTION
  rawvideo.go implements FrameSource over a headerless interleaved RGB24
  raster file (the format `ffmpeg -f rawvideo -pix_fmt rgb24` emits):
  fixed-size frames back to back, read and looped exactly like
  device/file.AVFile.Read loops its underlying file.

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
	"io"
	"os"
	"time"
)

// RawVideoFile reads fixed-size RGB24 frames from a headerless raster
// file, one stream index (always 0), at a fixed frame duration.
type RawVideoFile struct {
	f             *os.File
	frameBytes    int
	frameDuration time.Duration
	loop          bool

	frameIdx int
	buf      []byte
}

// NewRawVideoFile opens path and prepares to read width*height*3-byte
// RGB24 frames from it, each frameDuration apart. If loop is true, Next
// seeks back to the start of the file on EOF instead of returning it.
func NewRawVideoFile(path string, width, height int, frameDuration time.Duration, loop bool) (*RawVideoFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("source: could not open raw video file: %w", err)
	}
	frameBytes := width * height * 3
	return &RawVideoFile{
		f:             f,
		frameBytes:    frameBytes,
		frameDuration: frameDuration,
		loop:          loop,
		buf:           make([]byte, frameBytes),
	}, nil
}

// Next reads one frame, always on stream 0. A partial final frame is
// treated as EOF, matching AVFile's "short read at end of file" handling.
func (r *RawVideoFile) Next() (uint8, time.Duration, time.Duration, []byte, error) {
	n, err := io.ReadFull(r.f, r.buf)
	if err != nil {
		if (err == io.EOF || err == io.ErrUnexpectedEOF) && r.loop {
			if _, serr := r.f.Seek(0, io.SeekStart); serr != nil {
				return 0, 0, 0, nil, fmt.Errorf("source: could not seek to start for loop: %w", serr)
			}
			n, err = io.ReadFull(r.f, r.buf)
			if err != nil {
				return 0, 0, 0, nil, fmt.Errorf("source: read after loop seek failed: %w", err)
			}
		} else if err == io.EOF || err == io.ErrUnexpectedEOF {
			return 0, 0, 0, nil, io.EOF
		} else {
			return 0, 0, 0, nil, err
		}
	}

	ts := time.Duration(r.frameIdx) * r.frameDuration
	r.frameIdx++

	out := make([]byte, n)
	copy(out, r.buf[:n])
	return 0, ts, r.frameDuration, out, nil
}

// Close closes the underlying file.
func (r *RawVideoFile) Close() error {
	return r.f.Close()
}
