package palette

import "testing"

// TestNearestIsSelfConsistent checks that every palette entry, quantized
// against its own palette, maps back to itself under every metric. This is
// the only property spec.md requires of CAM02-UCS: internal consistency,
// not bit-exact agreement with any particular reference implementation.
func TestNearestIsSelfConsistent(t *testing.T) {
	Init()

	for _, metric := range []Metric{CIE76, CIE94, CAM02UCS} {
		q := NewQuantizer(metric)
		for i := 0; i < Size; i++ {
			c := PALETTE[i]
			if got := q.Nearest(c); got != uint8(i) {
				t.Errorf("metric %v: Nearest(%v) = %d, want %d (self)", metric, c, got, i)
			}
		}
	}
}

func TestNearestExactMatchFastPath(t *testing.T) {
	Init()
	q := NewQuantizer(CIE76)

	for _, i := range []int{0, 15, 16, 100, 231, 255} {
		c := PALETTE[i]
		if got := q.Nearest(c); got != uint8(i) {
			t.Errorf("Nearest(%v) = %d, want %d", c, got, i)
		}
	}
}

func TestNearestPicksCloserNeighbor(t *testing.T) {
	Init()
	q := NewQuantizer(CIE76)

	// A pixel one LSB off pure white should still land on white (255,255,255)
	// rather than some unrelated palette entry, since white is always an
	// exact palette member (cube index 231).
	near := RGB{254, 254, 254}
	got := q.Nearest(near)
	want := PALETTE[got]
	if want[0] < 200 || want[1] < 200 || want[2] < 200 {
		t.Errorf("Nearest(%v) picked %v, expected a near-white palette entry", near, want)
	}
}

func TestBatchNearestMatchesScalar(t *testing.T) {
	Init()

	px := []RGB{
		{10, 20, 30}, {200, 150, 90}, {1, 1, 1}, {254, 0, 128},
		PALETTE[5], PALETTE[222],
	}

	for _, metric := range []Metric{CIE76, CIE94, CAM02UCS} {
		q := NewQuantizer(metric)

		want := make([]uint8, len(px))
		for i, c := range px {
			want[i] = q.Nearest(c)
		}

		got := make([]uint8, len(px))
		q.BatchNearest(px, got)

		for i := range px {
			if got[i] != want[i] {
				t.Errorf("metric %v: BatchNearest[%d] = %d, want %d (scalar)", metric, i, got[i], want[i])
			}
		}
	}
}
