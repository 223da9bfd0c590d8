package player

import (
	"bytes"
	"testing"
	"time"

	"github.com/kore-signet/ansi-three/container"
)

func subtitlePacket(t *testing.T, stream uint8, startsAt, duration time.Duration, text string) container.Packet {
	t.Helper()
	var buf bytes.Buffer
	vec := container.SubRectVec{Rects: []container.SubRect{{X: 1, Y: 1, FG: 1, BG: 0, Text: text}}}
	if err := container.EncodeSubRectVec(&buf, vec); err != nil {
		t.Fatalf("EncodeSubRectVec: %v", err)
	}
	return container.Packet{
		Stream:         stream,
		TimestampMicro: uint64(startsAt.Microseconds()),
		DurationMicro:  uint64(duration.Microseconds()),
		DataType:       container.DataSubtitle,
		Data:           buf.Bytes(),
	}
}

// TestSubtitleOverlayWindowScenario pins spec scenario #5: a subtitle
// starting at 10s and ending at 12s on stream 3 is active for every packet
// timestamp in [10s, 12s] on that stream, and on no others.
func TestSubtitleOverlayWindowScenario(t *testing.T) {
	var overlay overlayWindow
	pkt := subtitlePacket(t, 3, 10*time.Second, 2*time.Second, "hello")
	if err := overlay.ingest(pkt); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	origin := time.Now()

	cases := []struct {
		pktTS  time.Duration
		active bool
	}{
		{9 * time.Second, false},
		{10 * time.Second, true},
		{11 * time.Second, true},
		{12 * time.Second, true},
		{13 * time.Second, false},
	}

	for _, c := range cases {
		w := overlayWindow{entries: append([]subtitleEntry(nil), overlay.entries...)}
		line := origin.Add(c.pktTS)
		w.retain(origin, line)
		got := len(w.active(c.pktTS, 3)) > 0
		if got != c.active {
			t.Errorf("pktTS=%v: active=%v, want %v", c.pktTS, got, c.active)
		}
	}
}

func TestSubtitleOverlayIgnoresInactiveStream(t *testing.T) {
	var overlay overlayWindow
	pkt := subtitlePacket(t, 3, 10*time.Second, 2*time.Second, "hello")
	if err := overlay.ingest(pkt); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	if got := overlay.active(11*time.Second, 7); len(got) != 0 {
		t.Errorf("expected no active entries for an unselected stream, got %v", got)
	}
}

func TestSubtitleOverlayRetainDropsExpiredEntries(t *testing.T) {
	var overlay overlayWindow
	pkt := subtitlePacket(t, 3, 1*time.Second, 1*time.Second, "bye")
	if err := overlay.ingest(pkt); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	origin := time.Now()
	overlay.retain(origin, origin.Add(5*time.Second))

	if len(overlay.entries) != 0 {
		t.Errorf("expected expired entry to be dropped, got %d entries", len(overlay.entries))
	}
}
