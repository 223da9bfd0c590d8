/*
DESCRIPTION
  source.go defines the two seam interfaces the encoder pulls frames and
  subtitle events through. The actual demuxer/decoder and subtitle-script
  parser are external collaborators; this package only defines the shapes
  they must satisfy and ships minimal file-based reference
  implementations so the CLI binaries are runnable end to end.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package source provides the encoder's frame/subtitle input seams plus
// minimal file-based reference implementations of each.
package source

import "time"

// FrameSource produces successive timed payloads for one stream. Next
// returns io.EOF (wrapped or bare) once the source is exhausted.
type FrameSource interface {
	Next() (streamIdx uint8, ts, dur time.Duration, payload []byte, err error)
	Close() error
}

// SubEvent is one parsed subtitle cue: a span of time over which text
// should be shown.
type SubEvent struct {
	Start, End time.Duration
	Text       string
}

// SubtitleSource produces a stream's subtitle cues, already parsed from
// whatever script format the caller's subtitle parser understands.
type SubtitleSource interface {
	Next() (SubEvent, error)
	Close() error
}
