package source

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTempFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestRawVideoFileReadsSequentialFrames(t *testing.T) {
	const w, h = 2, 2
	frameBytes := w * h * 3
	frame1 := make([]byte, frameBytes)
	frame2 := make([]byte, frameBytes)
	for i := range frame1 {
		frame1[i] = 1
		frame2[i] = 2
	}
	path := writeTempFile(t, "raw.rgb", append(append([]byte{}, frame1...), frame2...))

	src, err := NewRawVideoFile(path, w, h, 33*time.Millisecond, false)
	if err != nil {
		t.Fatalf("NewRawVideoFile: %v", err)
	}
	defer src.Close()

	stream, ts, dur, payload, err := src.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if stream != 0 || ts != 0 || dur != 33*time.Millisecond || len(payload) != frameBytes || payload[0] != 1 {
		t.Fatalf("unexpected first frame: stream=%d ts=%v dur=%v len=%d b0=%d", stream, ts, dur, len(payload), payload[0])
	}

	_, ts2, _, payload2, err := src.Next()
	if err != nil {
		t.Fatalf("Next (2nd): %v", err)
	}
	if ts2 != 33*time.Millisecond || payload2[0] != 2 {
		t.Fatalf("unexpected second frame: ts=%v b0=%d", ts2, payload2[0])
	}

	if _, _, _, _, err := src.Next(); err != io.EOF {
		t.Fatalf("Next (3rd): err = %v, want io.EOF", err)
	}
}

func TestRawVideoFileLoopsOnEOF(t *testing.T) {
	const w, h = 1, 1
	frame := []byte{9, 9, 9}
	path := writeTempFile(t, "raw.rgb", frame)

	src, err := NewRawVideoFile(path, w, h, 10*time.Millisecond, true)
	if err != nil {
		t.Fatalf("NewRawVideoFile: %v", err)
	}
	defer src.Close()

	for i := 0; i < 3; i++ {
		_, _, _, payload, err := src.Next()
		if err != nil {
			t.Fatalf("Next iteration %d: %v", i, err)
		}
		if payload[0] != 9 {
			t.Fatalf("iteration %d: payload[0] = %d, want 9", i, payload[0])
		}
	}
}

func TestSRTFileParsesCuesInOrder(t *testing.T) {
	content := strings.Join([]string{
		"1",
		"00:00:01,000 --> 00:00:04,000",
		"Hello world",
		"",
		"2",
		"00:00:05,500 --> 00:00:07,250",
		"Second line",
		"continued here",
		"",
	}, "\n")
	path := writeTempFile(t, "subs.srt", []byte(content))

	src, err := NewSRTFile(path)
	if err != nil {
		t.Fatalf("NewSRTFile: %v", err)
	}
	defer src.Close()

	ev1, err := src.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if ev1.Start != time.Second || ev1.End != 4*time.Second || ev1.Text != "Hello world" {
		t.Errorf("ev1 = %+v", ev1)
	}

	ev2, err := src.Next()
	if err != nil {
		t.Fatalf("Next (2nd): %v", err)
	}
	wantStart := 5*time.Second + 500*time.Millisecond
	wantEnd := 7*time.Second + 250*time.Millisecond
	if ev2.Start != wantStart || ev2.End != wantEnd || ev2.Text != "Second line\ncontinued here" {
		t.Errorf("ev2 = %+v", ev2)
	}

	if _, err := src.Next(); err != io.EOF {
		t.Fatalf("Next (3rd): err = %v, want io.EOF", err)
	}
}

func TestSRTFileRejectsMalformedTiming(t *testing.T) {
	path := writeTempFile(t, "bad.srt", []byte("1\nnot a timing line\ntext\n"))
	if _, err := NewSRTFile(path); err == nil {
		t.Fatal("expected an error for a malformed timing line")
	}
}
