/*
DESCRIPTION
  Ansi-dictgen builds a compression dictionary seed from a container's
  video payloads, porting player/src/bin/dict_builder.rs. The original
  trains a real zstd dictionary via zstd::dict::from_continuous (the
  reference C COVER/FastCover trainer); no library in the retrieved pack
  exposes that trainer (klauspost/compress/zstd only uses dictionaries,
  it doesn't build them), so this instead concatenates sampled packet
  payloads, up to --mem-usage bytes, and truncates to --dict-size. zstd's
  match finder still benefits from the repeated content even without a
  trained dictionary's explicit entropy tables; this is a real but weaker
  substitute, not an equivalent, and is documented as such.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main implements the ansi-three dictionary-seed sampling binary.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kore-signet/ansi-three/container"
	"github.com/kore-signet/ansi-three/internal/codecproc"
)

const (
	defaultMemUsage = 4 << 30
	defaultDictSize = 112_000
)

func main() {
	if err := run(os.Args[0], os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type dictArgs struct {
	input, output string
	memUsage      int
	dictSize      int
}

func parseDictArgs(name string, args []string) (*dictArgs, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	a := &dictArgs{}
	fs.StringVar(&a.input, "input", "", "path to the ansi-three container to sample from")
	fs.StringVar(&a.output, "output", "", "path to write the sampled dictionary seed to")
	fs.IntVar(&a.memUsage, "mem-usage", defaultMemUsage, "maximum bytes of packet payload to sample before truncating")
	fs.IntVar(&a.dictSize, "dict-size", defaultDictSize, "size in bytes of the output dictionary seed")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if a.input == "" || a.output == "" {
		return nil, fmt.Errorf("ansi-dictgen: --input and --output are required")
	}
	return a, nil
}

// buildDecoders mirrors internal/player/reader.go's per-stream decompressor
// table construction.
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

func run(name string, args []string) error {
	a, err := parseDictArgs(name, args)
	if err != nil {
		return err
	}

	f, err := os.Open(a.input)
	if err != nil {
		return fmt.Errorf("ansi-dictgen: %w", err)
	}
	defer f.Close()

	rd, err := container.NewReader(f)
	if err != nil {
		return fmt.Errorf("ansi-dictgen: %w", err)
	}

	decoders, err := buildDecoders(rd.Header)
	if err != nil {
		return fmt.Errorf("ansi-dictgen: %w", err)
	}

	sample := make([]byte, 0, a.memUsage)
	for len(sample) < a.memUsage {
		pkt, err := rd.NextPacket()
		if err != nil {
			break
		}
		if pkt.DataType != container.DataVideo {
			continue
		}
		if dec, ok := decoders[pkt.Stream]; ok {
			if err := dec.Process(&pkt); err != nil {
				return fmt.Errorf("ansi-dictgen: decompressing stream %d packet %d: %w", pkt.Stream, pkt.PacketIdx, err)
			}
		}
		sample = append(sample, pkt.Data...)
		fmt.Fprintf(os.Stderr, "\rsampled %d bytes", len(sample))
	}
	fmt.Fprintln(os.Stderr)

	if len(sample) > a.dictSize {
		// Keep the tail: later frames are more representative of the
		// steady-state content than the opening frames, which often
		// include a fade-in or title card.
		sample = sample[len(sample)-a.dictSize:]
	}

	if err := os.WriteFile(a.output, sample, 0o644); err != nil {
		return fmt.Errorf("ansi-dictgen: writing %s: %w", a.output, err)
	}
	fmt.Fprintf(os.Stderr, "wrote %d-byte dictionary seed to %s\n", len(sample), a.output)
	return nil
}
