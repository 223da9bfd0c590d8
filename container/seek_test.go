package container

import (
	"bytes"
	"encoding/binary"
	"math/rand"
	"testing"
)

func TestDeltaRoundTrip(t *testing.T) {
	cases := [][]int64{
		{0},
		{0, 1312, 2624, 3936},
		{5, 5, 5, 5, 5},
		{-100, -50, 0, 50, 100},
	}
	for _, xs := range cases {
		encoded := deltaEncode(xs)
		decoded, err := deltaDecode(bytes.NewReader(encoded), len(xs))
		if err != nil {
			t.Fatalf("deltaDecode(%v): %v", xs, err)
		}
		if len(decoded) != len(xs) {
			t.Fatalf("deltaDecode(%v) = %v, length mismatch", xs, decoded)
		}
		for i := range xs {
			if decoded[i] != xs[i] {
				t.Fatalf("deltaDecode(%v) = %v, want %v", xs, decoded, xs)
			}
		}
	}
}

func TestDeltaRoundTripRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	n := 2000 + rng.Intn(3000)
	xs := make([]int64, n)
	var val int64
	for i := range xs {
		val += int64(5000 + rng.Intn(15000))
		xs[i] = val
	}

	encoded := deltaEncode(xs)
	decoded, err := deltaDecode(bytes.NewReader(encoded), n)
	if err != nil {
		t.Fatalf("deltaDecode: %v", err)
	}
	for i := range xs {
		if decoded[i] != xs[i] {
			t.Fatalf("index %d: got %d, want %d", i, decoded[i], xs[i])
		}
	}
}

// TestDeltaEncodeScenario pins spec scenario #2: xs=[0,1312,2624,3936]
// encodes to delta-of-deltas [0,1312,0,0], and the LZ4-framed seek table
// payload is shorter than 4x the raw i64 byte length.
func TestDeltaEncodeScenario(t *testing.T) {
	xs := []int64{0, 1312, 2624, 3936}

	var want bytes.Buffer
	var buf [binary.MaxVarintLen64]byte
	for _, dd := range []int64{0, 1312, 0, 0} {
		n := binary.PutVarint(buf[:], dd)
		want.Write(buf[:n])
	}

	got := deltaEncode(xs)
	if !bytes.Equal(got, want.Bytes()) {
		t.Fatalf("deltaEncode(%v) = %x, want %x", xs, got, want.Bytes())
	}

	entries := make([]SeekEntry, len(xs))
	for i, ts := range xs {
		entries[i] = SeekEntry{TS: ts, Location: ts}
	}
	payload := EncodeSeekTable(entries)
	rawLen := len(xs) * 8 * 2
	if len(payload) >= rawLen*4 {
		t.Errorf("LZ4-framed payload length %d not < raw*4 (%d)", len(payload), rawLen*4)
	}
}

func TestSeekTableRoundTrip(t *testing.T) {
	entries := []SeekEntry{
		{TS: 0, Location: 0},
		{TS: 100_000, Location: 2048},
		{TS: 200_000, Location: 4096},
	}
	payload := EncodeSeekTable(entries)
	decoded, err := DecodeSeekTable(payload, len(entries))
	if err != nil {
		t.Fatalf("DecodeSeekTable: %v", err)
	}
	for i := range entries {
		if decoded[i] != entries[i] {
			t.Errorf("entry %d = %+v, want %+v", i, decoded[i], entries[i])
		}
	}
}

// TestSeekLookupScenario pins spec scenario #4.
func TestSeekLookupScenario(t *testing.T) {
	entries := []SeekEntry{
		{TS: 0, Location: 0},
		{TS: 100_000, Location: 2048},
		{TS: 200_000, Location: 4096},
	}

	entry, ok := Lookup(entries, 150_000)
	if !ok {
		t.Fatal("Lookup(150000) = not found, want a hit")
	}
	if entry.TS != 100_000 || entry.Location != 2048 {
		t.Errorf("Lookup(150000) = %+v, want {TS:100000 Location:2048}", entry)
	}
}

func TestSeekLookupExactHit(t *testing.T) {
	entries := []SeekEntry{
		{TS: 0, Location: 0},
		{TS: 100_000, Location: 2048},
	}
	entry, ok := Lookup(entries, 100_000)
	if !ok || entry.TS != 100_000 {
		t.Fatalf("Lookup(100000) = %+v, %v, want exact hit at 100000", entry, ok)
	}
}

func TestSeekLookupBeforeFirst(t *testing.T) {
	entries := []SeekEntry{{TS: 100_000, Location: 0}}
	if _, ok := Lookup(entries, 50_000); ok {
		t.Fatal("Lookup before first entry should miss")
	}
}
