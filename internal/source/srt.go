/*
DESCRIPTION
  srt.go implements SubtitleSource over a minimal SubRip (.srt) file: a
  greedy, line-based parse of index/timing/text blocks. This is
  deliberately not a general subtitle-script parser -- spec.md excludes
  that as an external collaborator -- it exists only so the reference
  CLIs have real subtitle cues to feed the pipeline. Many .srt files in
  the wild predate UTF-8 becoming the default export encoding, so a file
  that isn't valid UTF-8 is retried as Windows-1252 (the common case for
  subtitles authored on Windows) before giving up.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package source

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// SRTFile serves SubEvents parsed from a .srt file, one per call to Next,
// in file order.
type SRTFile struct {
	f       *os.File
	events  []SubEvent
	nextIdx int
}

// NewSRTFile opens and fully parses path.
func NewSRTFile(path string) (*SRTFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("source: could not open subtitle file: %w", err)
	}
	raw, err := io.ReadAll(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("source: reading subtitle file: %w", err)
	}
	events, err := parseSRT(bytes.NewReader(decodeSRTBytes(raw)))
	if err != nil {
		f.Close()
		return nil, err
	}
	return &SRTFile{f: f, events: events}, nil
}

// decodeSRTBytes returns raw unchanged if it's already valid UTF-8;
// otherwise it's retried as Windows-1252, the most common legacy encoding
// for subtitle files exported on Windows. A transform failure falls back
// to the original bytes so callers still see the real parse error instead
// of a decoding one.
func decodeSRTBytes(raw []byte) []byte {
	if utf8.Valid(raw) {
		return raw
	}
	decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), raw)
	if err != nil {
		return raw
	}
	return decoded
}

// Next returns the next cue in file order, or io.EOF once exhausted.
func (s *SRTFile) Next() (SubEvent, error) {
	if s.nextIdx >= len(s.events) {
		return SubEvent{}, io.EOF
	}
	ev := s.events[s.nextIdx]
	s.nextIdx++
	return ev, nil
}

// Close closes the underlying file.
func (s *SRTFile) Close() error {
	return s.f.Close()
}

// parseSRT reads r as a sequence of blank-line-separated blocks: an index
// line (ignored beyond validation), a timing line, and one or more text
// lines.
func parseSRT(r io.Reader) ([]SubEvent, error) {
	sc := bufio.NewScanner(r)
	var events []SubEvent

	for {
		block, more, err := nextSRTBlock(sc)
		if err != nil {
			return nil, err
		}
		if len(block) == 0 {
			if !more {
				break
			}
			continue
		}
		if len(block) < 2 {
			return nil, fmt.Errorf("source: malformed subtitle block: %v", block)
		}

		start, end, err := parseSRTTiming(block[1])
		if err != nil {
			return nil, err
		}
		events = append(events, SubEvent{
			Start: start,
			End:   end,
			Text:  strings.Join(block[2:], "\n"),
		})

		if !more {
			break
		}
	}
	return events, nil
}

// nextSRTBlock reads non-blank lines until a blank line or EOF, returning
// more=false once the scanner is exhausted.
func nextSRTBlock(sc *bufio.Scanner) ([]string, bool, error) {
	var lines []string
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			if len(lines) == 0 {
				continue
			}
			return lines, true, nil
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, false, fmt.Errorf("source: scanning subtitle file: %w", err)
	}
	return lines, false, nil
}

// parseSRTTiming parses "HH:MM:SS,mmm --> HH:MM:SS,mmm".
func parseSRTTiming(line string) (start, end time.Duration, err error) {
	parts := strings.SplitN(line, "-->", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("source: malformed timing line: %q", line)
	}
	start, err = parseSRTTimestamp(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}
	end, err = parseSRTTimestamp(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// parseSRTTimestamp parses "HH:MM:SS,mmm".
func parseSRTTimestamp(s string) (time.Duration, error) {
	s = strings.Replace(s, ".", ",", 1)
	hms, msPart, ok := strings.Cut(s, ",")
	if !ok {
		return 0, fmt.Errorf("source: malformed timestamp: %q", s)
	}
	fields := strings.Split(hms, ":")
	if len(fields) != 3 {
		return 0, fmt.Errorf("source: malformed timestamp: %q", s)
	}
	h, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, fmt.Errorf("source: malformed hours in %q: %w", s, err)
	}
	m, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, fmt.Errorf("source: malformed minutes in %q: %w", s, err)
	}
	sec, err := strconv.Atoi(fields[2])
	if err != nil {
		return 0, fmt.Errorf("source: malformed seconds in %q: %w", s, err)
	}
	ms, err := strconv.Atoi(msPart)
	if err != nil {
		return 0, fmt.Errorf("source: malformed milliseconds in %q: %w", s, err)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
		time.Duration(sec)*time.Second + time.Duration(ms)*time.Millisecond, nil
}
