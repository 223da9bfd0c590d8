/*
DESCRIPTION
  config.go defines the player binary's Config: a positional container
  file path plus the optional subtitle stream override documented by the
  player's CLI surface.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package playconfig holds the ansi-play command's configuration and its
// command-line flag parsing.
package playconfig

import (
	"flag"
	"fmt"
)

// noSubtitleIndex is the flag's sentinel for "no override given"; the
// player falls back to auto-selecting the first subtitle track.
const noSubtitleIndex = 255

// Config holds one playback run's parameters.
type Config struct {
	File string

	// HasSubtitleIndex reports whether SubtitleIndex was explicitly set
	// via --subtitle-index; if false, the player auto-selects.
	HasSubtitleIndex bool
	SubtitleIndex    uint8
}

// ParseFlags parses args (typically os.Args[1:]) into a validated Config.
// The container file path is the sole positional argument.
func ParseFlags(name string, args []string) (*Config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	subtitleIndex := fs.Uint("subtitle-index", noSubtitleIndex, "subtitle stream index to display (default: auto-select)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, fmt.Errorf("playconfig: expected exactly one FILE argument, got %d", fs.NArg())
	}

	cfg := &Config{File: fs.Arg(0)}
	if *subtitleIndex != noSubtitleIndex {
		if *subtitleIndex > 254 {
			return nil, fmt.Errorf("playconfig: --subtitle-index %d out of range (0-254)", *subtitleIndex)
		}
		cfg.HasSubtitleIndex = true
		cfg.SubtitleIndex = uint8(*subtitleIndex)
	}
	return cfg, nil
}
