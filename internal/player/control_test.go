package player

import (
	"bytes"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/kore-signet/ansi-three/container"
	"github.com/kore-signet/ansi-three/internal/logging"
)

func TestPauseRecordsPauseTimeAndState(t *testing.T) {
	c := &Control{status: newPlayStatus(StatePlaying)}
	before := time.Now()

	c.Pause()

	if !c.pauseTimeSet {
		t.Fatal("expected pauseTimeSet after Pause")
	}
	if c.pauseTime.Before(before) {
		t.Errorf("pauseTime = %v, want >= %v", c.pauseTime, before)
	}
	if got := c.status.get(); got != StatePaused {
		t.Errorf("state = %v, want Paused", got)
	}
}

func TestPauseWhenAlreadyPausedIsNoop(t *testing.T) {
	c := &Control{status: newPlayStatus(StatePaused)}

	c.Pause()

	if c.pauseTimeSet {
		t.Error("Pause on an already-Paused control should not touch pauseTime")
	}
}

// TestResumeCreditsElapsedPauseTime pins spec scenario #6: resuming after a
// pause of duration d advances wallclockOrigin by d, so the next frame's
// pacing line is computed against the same elapsed video time as before the
// pause (no burst emit of "overdue" packets).
func TestResumeCreditsElapsedPauseTime(t *testing.T) {
	c := &Control{status: newPlayStatus(StatePaused)}
	origin := time.Now()
	c.wallclockOrigin = origin
	c.pauseTime = time.Now().Add(-50 * time.Millisecond)
	c.pauseTimeSet = true

	c.Resume()

	got := c.wallclock()
	if !got.After(origin) {
		t.Fatalf("wallclockOrigin did not advance: got %v, started at %v", got, origin)
	}
	if d := got.Sub(origin); d < 40*time.Millisecond {
		t.Errorf("wallclockOrigin advanced by %v, want >= ~50ms", d)
	}
	if c.pauseTimeSet {
		t.Error("pauseTimeSet should be cleared after Resume")
	}
	if got := c.status.get(); got != StatePlaying {
		t.Errorf("state = %v, want Playing", got)
	}
}

func buildTestContainer(t *testing.T, timestamps []uint64) []byte {
	t.Helper()

	header := container.FormatData{
		FormatName: "ansi-three",
		Encoder:    "test",
		Tracks: []container.Stream{{
			Name:            "video",
			Index:           0,
			DurationMicros:  timestamps[len(timestamps)-1],
			CompressionMode: container.CompressionNone,
			Parameters: container.CodecParameters{
				Video: &container.VideoParameters{Width: 4, Height: 2, Color: container.ColorFull},
			},
		}},
	}

	w, err := container.NewWriter(header, 100_000)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	defer w.Close()

	for i, ts := range timestamps {
		pkt := container.Packet{
			Stream:         0,
			TimestampMicro: ts,
			DurationMicro:  33_333,
			DataType:       container.DataVideo,
			Data:           []byte(fmt.Sprintf("frame-%d", i)),
		}
		if err := w.WritePacket(pkt); err != nil {
			t.Fatalf("WritePacket: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := w.Finalize(&buf); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return buf.Bytes()
}

func TestControlPlaysThroughToEOF(t *testing.T) {
	data := buildTestContainer(t, []uint64{0, 30_000, 60_000})
	var out bytes.Buffer
	log := logging.New(logging.Debug, io.Discard, true)

	c, err := New(bytes.NewReader(data), &out, log)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	c.Resume()

	done := make(chan error, 1)
	go func() { done <- c.Join() }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Join: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for playback to finish")
	}

	if got := c.VideoTime(); got != 60*time.Millisecond {
		t.Errorf("VideoTime = %v, want 60ms", got)
	}
	if out.Len() == 0 {
		t.Error("expected rendered output to have been written")
	}
}

func TestControlSeekTransitionsThroughDiscardAndRestoresState(t *testing.T) {
	data := buildTestContainer(t, []uint64{0, 100_000, 200_000})
	var out bytes.Buffer
	log := logging.New(logging.Debug, io.Discard, true)

	c, err := New(bytes.NewReader(data), &out, log)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- c.Seek(150 * time.Millisecond) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Seek: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for seek to complete")
	}

	if got := c.status.get(); got != StatePaused {
		t.Errorf("state after seek = %v, want Paused (the pre-seek state)", got)
	}
}

func TestAutoSelectSubtitlesPicksFirstSubtitleTrack(t *testing.T) {
	c := &Control{
		Header: container.FormatData{Tracks: []container.Stream{
			{Index: 0, Parameters: container.CodecParameters{Video: &container.VideoParameters{}}},
			{Index: 5, Parameters: container.CodecParameters{Subtitle: &container.SubtitleParameters{}}},
		}},
	}
	c.subtitleStream.Store(noSubtitleStream)

	c.AutoSelectSubtitles()

	if got := c.subtitleStream.Load(); got != 5 {
		t.Errorf("subtitleStream = %d, want 5", got)
	}
}
