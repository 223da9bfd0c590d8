/*
DESCRIPTION
  histogram.go tallies 256-color palette index usage across a stream's
  packets by scanning each packet's own SGR escapes (38;5;N / 48;5;N) --
  the container has no separate raw-index side channel, so this is the
  only place the index is still legible after ansiframe has rendered it
  to text -- and renders the tally as a bar chart with gonum.org/v1/plot,
  giving the domain stack a second exerciser for that library alongside
  internal/palette's gonum/mat use.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// paletteHistogram tallies how many times each of the 256 palette indices
// appears as a foreground or background color across the packets fed to
// observe.
type paletteHistogram struct {
	counts [256]uint64
}

func newPaletteHistogram() *paletteHistogram {
	return &paletteHistogram{}
}

// observe scans data for SGR 256-color escapes (`\x1b[38;5;N m` or
// `\x1b[48;5;N m`) and increments counts[N] for each one found.
func (h *paletteHistogram) observe(data []byte) {
	const prefix38 = "\x1b[38;5;"
	const prefix48 = "\x1b[48;5;"

	for i := 0; i < len(data); i++ {
		if data[i] != 0x1b {
			continue
		}
		var rest []byte
		switch {
		case hasPrefixAt(data, i, prefix38):
			rest = data[i+len(prefix38):]
		case hasPrefixAt(data, i, prefix48):
			rest = data[i+len(prefix48):]
		default:
			continue
		}
		idx, n, ok := parseSGRIndex(rest)
		if !ok {
			continue
		}
		h.counts[idx]++
		i += len(prefix38) + n - 1
	}
}

func hasPrefixAt(data []byte, i int, prefix string) bool {
	if i+len(prefix) > len(data) {
		return false
	}
	return string(data[i:i+len(prefix)]) == prefix
}

// parseSGRIndex reads the decimal index and terminating 'm' from the
// start of rest, returning the index, the number of bytes consumed up to
// and including 'm', and whether the parse succeeded.
func parseSGRIndex(rest []byte) (idx uint8, consumed int, ok bool) {
	var v int
	i := 0
	for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
		v = v*10 + int(rest[i]-'0')
		i++
	}
	if i == 0 || i >= len(rest) || rest[i] != 'm' || v > 255 {
		return 0, 0, false
	}
	return uint8(v), i + 1, true
}

// render writes a bar chart of the 256 palette-index counts to path.
func (h *paletteHistogram) render(path string) error {
	values := make(plotter.Values, len(h.counts))
	for i, c := range h.counts {
		values[i] = float64(c)
	}

	p := plot.New()
	p.Title.Text = "palette index usage"
	p.X.Label.Text = "palette index"
	p.Y.Label.Text = "occurrences"

	bars, err := plotter.NewBarChart(values, vg.Points(2))
	if err != nil {
		return fmt.Errorf("histogram: build bar chart: %w", err)
	}
	bars.LineStyle.Width = 0
	p.Add(bars)

	if err := p.Save(12*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("histogram: save %s: %w", path, err)
	}
	return nil
}
