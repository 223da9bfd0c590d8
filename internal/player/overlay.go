/*
DESCRIPTION
  overlay.go maintains the render thread's subtitle overlay window: a small
  stable list of (stream, starts_at, ends_at, rendered_text) entries, ported
  from the `subs: StableVec<Subtitle>` retain/push logic in
  player/src/renderer.rs's render_loop. Only the render goroutine touches
  this; it needs no lock of its own.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package player

import (
	"bytes"
	"time"

	"github.com/kore-signet/ansi-three/container"
)

// subtitleEntry is one overlay-window entry: a subtitle event with its
// packet's start and end times; retain adds them to the wallclock origin
// to compare them against the pacing line.
type subtitleEntry struct {
	stream   uint8
	startsAt time.Duration
	endsAt   time.Duration
	text     string
}

// overlayWindow is the render thread's private accumulator of subtitle
// entries currently in flight.
type overlayWindow struct {
	entries []subtitleEntry
}

// ingest decodes a subtitle packet's SubRects and appends one overlay
// entry per rect, carrying the packet's timestamp/duration as the entry's
// active interval.
func (w *overlayWindow) ingest(pkt container.Packet) error {
	vec, err := container.DecodeSubRectVec(bytes.NewReader(pkt.Data))
	if err != nil {
		return err
	}

	startsAt := time.Duration(pkt.TimestampMicro) * time.Microsecond
	endsAt := startsAt + time.Duration(pkt.DurationMicro)*time.Microsecond

	for _, rect := range vec.Rects {
		w.entries = append(w.entries, subtitleEntry{
			stream:   pkt.Stream,
			startsAt: startsAt,
			endsAt:   endsAt,
			text:     rect.String(),
		})
	}
	return nil
}

// retain drops entries whose origin-relative end time has already fallen
// behind the pacing line, matching
// `subs.retain(|&Subtitle { ends_at, .. }| (start + ends_at) >= line)`.
func (w *overlayWindow) retain(origin, line time.Time) {
	kept := w.entries[:0]
	for _, e := range w.entries {
		if origin.Add(e.endsAt).Before(line) {
			continue
		}
		kept = append(kept, e)
	}
	w.entries = kept
}

// active returns the rendered text of every entry that should be visible
// for the packet currently being emitted: still within its own
// starts_at..=pkt.ts+pkt.dur window and on the active subtitle stream.
func (w *overlayWindow) active(pktEnd time.Duration, activeStream uint8) []string {
	var out []string
	for _, e := range w.entries {
		if e.startsAt > pktEnd || e.stream != activeStream {
			continue
		}
		out = append(out, e.text)
	}
	return out
}
