package codecproc

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/kore-signet/ansi-three/container"
)

func samplePacket() container.Packet {
	data := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog "), 50)
	return container.Packet{Stream: 0, DataType: container.DataVideo, Data: data}
}

func TestLZ4ProcessorRoundTrip(t *testing.T) {
	orig := samplePacket()
	pkt := orig
	pkt.Data = append([]byte(nil), orig.Data...)

	enc := NewLZ4Processor(nil)
	if err := enc.Process(&pkt); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if bytes.Equal(pkt.Data, orig.Data) {
		t.Error("expected compressed data to differ from input")
	}

	method, ok := pkt.SideData.Get(container.TagCompressionMethod)
	if !ok || method[0] != byte(container.CompressionLZ4) {
		t.Errorf("CMPM = %v, ok=%v, want [%d]", method, ok, container.CompressionLZ4)
	}

	dec := NewLZ4Decoder(nil)
	if err := dec.Process(&pkt); err != nil {
		t.Fatalf("decode Process: %v", err)
	}
	if !bytes.Equal(pkt.Data, orig.Data) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d", len(pkt.Data), len(orig.Data))
	}
}

func TestLZ4DecoderMissingSideDataFails(t *testing.T) {
	pkt := samplePacket()
	dec := NewLZ4Decoder(nil)
	if err := dec.Process(&pkt); err != container.ErrMissingSideData {
		t.Fatalf("Process error = %v, want ErrMissingSideData", err)
	}
}

func TestZstdProcessorRoundTrip(t *testing.T) {
	orig := samplePacket()
	pkt := orig
	pkt.Data = append([]byte(nil), orig.Data...)

	enc, err := NewZstdProcessor(zstd.SpeedDefault, nil)
	if err != nil {
		t.Fatalf("NewZstdProcessor: %v", err)
	}
	defer enc.Close()

	if err := enc.Process(&pkt); err != nil {
		t.Fatalf("Process: %v", err)
	}

	dec, err := NewZstdDecoder(nil)
	if err != nil {
		t.Fatalf("NewZstdDecoder: %v", err)
	}
	defer dec.Close()

	if err := dec.Process(&pkt); err != nil {
		t.Fatalf("decode Process: %v", err)
	}
	if !bytes.Equal(pkt.Data, orig.Data) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d", len(pkt.Data), len(orig.Data))
	}
}
