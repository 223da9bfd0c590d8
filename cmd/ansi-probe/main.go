/*
DESCRIPTION
  Ansi-probe inspects an ansi-three container, porting
  player/src/bin/probe.rs: print the decoded header, optionally dump the
  seek tables to a text file, and optionally walk the packet stream
  printing packet headers and decoded subtitle rects. --histogram adds a
  tool the original didn't have: for an 8-bit-palette stream it tallies
  how often each of the 256 palette indices is emitted (read back out of
  the packet's own SGR 256-color escapes, since the container stores
  pre-rendered ANSI text rather than raw indices) and renders a bar chart.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main implements the ansi-three container inspection binary.
package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/kore-signet/ansi-three/container"
	"github.com/kore-signet/ansi-three/internal/codecproc"
)

func main() {
	if err := run(os.Args[0], os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type probeArgs struct {
	seekTables     string
	inspectPackets bool
	debugSubtitles bool
	histogram      string
	input          string
}

func parseProbeArgs(name string, args []string) (*probeArgs, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	a := &probeArgs{}
	fs.StringVar(&a.seekTables, "seektables", "", "dump the decoded seek tables to this path")
	fs.BoolVar(&a.inspectPackets, "inspect-packets", false, "print every packet header while walking the stream")
	fs.BoolVar(&a.debugSubtitles, "debug-subtitles", false, "decode and print subtitle rects while walking the stream")
	fs.StringVar(&a.histogram, "histogram", "", "render a palette-index usage histogram PNG to this path (8-bit streams only)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, fmt.Errorf("ansi-probe: expected exactly one FILE argument, got %d", fs.NArg())
	}
	a.input = fs.Arg(0)
	return a, nil
}

func run(name string, args []string) error {
	a, err := parseProbeArgs(name, args)
	if err != nil {
		return err
	}

	f, err := os.Open(a.input)
	if err != nil {
		return fmt.Errorf("ansi-probe: %w", err)
	}
	defer f.Close()

	rd, err := container.NewReader(f)
	if err != nil {
		return fmt.Errorf("ansi-probe: %w", err)
	}

	decoders, err := buildDecoders(rd.Header)
	if err != nil {
		return fmt.Errorf("ansi-probe: %w", err)
	}

	fmt.Printf("Header:\n%+v\n", rd.Header)

	if a.seekTables != "" {
		if err := dumpSeekTables(a.seekTables, rd); err != nil {
			return fmt.Errorf("ansi-probe: %w", err)
		}
	}

	if !a.inspectPackets && !a.debugSubtitles && a.histogram == "" {
		return nil
	}

	var hist *paletteHistogram
	if a.histogram != "" {
		hist = newPaletteHistogram()
	}

	for {
		pkt, err := rd.NextPacket()
		if err != nil {
			break
		}
		if dec, ok := decoders[pkt.Stream]; ok {
			if err := dec.Process(&pkt); err != nil {
				fmt.Fprintf(os.Stderr, "ansi-probe: decompressing stream %d packet %d: %v\n", pkt.Stream, pkt.PacketIdx, err)
				continue
			}
		}

		if a.inspectPackets {
			fmt.Printf("stream=%d idx=%d ts=%s dur=%s type=%v bytes=%d\n",
				pkt.Stream, pkt.PacketIdx, formatDuration(time.Duration(pkt.TimestampMicro)*time.Microsecond),
				formatDuration(time.Duration(pkt.DurationMicro)*time.Microsecond), pkt.DataType, len(pkt.Data))
		}

		if a.debugSubtitles && pkt.DataType == container.DataSubtitle {
			rects, err := container.DecodeSubRectVec(bytes.NewReader(pkt.Data))
			if err != nil {
				fmt.Fprintf(os.Stderr, "ansi-probe: decoding subtitle rects for stream %d: %v\n", pkt.Stream, err)
				continue
			}
			fmt.Printf("subtitles for stream %d ->\n", pkt.Stream)
			for _, r := range rects.Rects {
				fmt.Printf("  %+v\n", r)
			}
		}

		if hist != nil && pkt.DataType == container.DataVideo {
			hist.observe(pkt.Data)
		}
	}

	if hist != nil {
		if err := hist.render(a.histogram); err != nil {
			return fmt.Errorf("ansi-probe: %w", err)
		}
	}

	return nil
}

// buildDecoders mirrors internal/player/reader.go's per-stream decompressor
// table construction; ansi-probe and ansi-dictgen need the same decoding
// but neither drives a player.Control, so it's duplicated here rather than
// exported from a package whose only other consumer is the player.
func buildDecoders(header container.FormatData) (map[uint8]codecproc.DecoderProcessor, error) {
	decoders := make(map[uint8]codecproc.DecoderProcessor)
	for _, s := range header.Tracks {
		switch s.CompressionMode {
		case container.CompressionNone:
			continue
		case container.CompressionZstd:
			dec, err := codecproc.NewZstdDecoder(s.CompressionDict)
			if err != nil {
				return nil, err
			}
			decoders[s.Index] = dec
		case container.CompressionLZ4:
			decoders[s.Index] = codecproc.NewLZ4Decoder(s.CompressionDict)
		default:
			return nil, container.ErrUnsupportedCompression
		}
	}
	return decoders, nil
}

func dumpSeekTables(path string, rd *container.Reader) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	bw := bufio.NewWriter(out)
	defer bw.Flush()

	for stream, entries := range rd.SeekTables {
		fmt.Fprintf(bw, "Seek Table <-> Stream %d\n", stream)
		for _, e := range entries {
			fmt.Fprintf(bw, "%s -> byte %d\n", formatDuration(time.Duration(e.TS)*time.Microsecond), e.Location)
		}
	}
	return nil
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Millisecond)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	ms := d / time.Millisecond
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}
