/*
DESCRIPTION
  Ansi-play opens an ansi-three container and plays it to the terminal,
  porting player/src/main.rs's key-driven control loop: 'a'/'d' seek
  backward/forward 5s, 'p'/'r' pause/resume, 'q' quits. The original reads
  crossterm key events off a raw terminal; this reads single bytes off a
  raw-mode stdin instead; golang.org/x/term supplies the raw-mode setup
  that's otherwise outside this module's scope.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main implements the ansi-three player binary.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/kore-signet/ansi-three/internal/logging"
	"github.com/kore-signet/ansi-three/internal/player"
	"github.com/kore-signet/ansi-three/internal/playconfig"
)

const seekStep = 5 * time.Second

// Logging related constants, mirroring the teacher's looper binary.
const (
	logPath      = "ansi-play.log"
	logMaxSize   = 10 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
)

func main() {
	if err := run(os.Args[0], os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(name string, args []string) error {
	cfg, err := playconfig.ParseFlags(name, args)
	if err != nil {
		return err
	}

	f, err := os.Open(cfg.File)
	if err != nil {
		return fmt.Errorf("ansi-play: %w", err)
	}
	defer f.Close()

	// Lumberjack rotates the on-disk log by size/age/backup count; stderr
	// still gets the same events, separate from the video frames written
	// to stdout.
	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	defer fileLog.Close()
	log := logging.New(logging.Warning, io.MultiWriter(fileLog, os.Stderr), true)
	out := bufio.NewWriterSize(os.Stdout, 192*108*20)

	ctrl, err := player.New(f, out, log)
	if err != nil {
		return fmt.Errorf("ansi-play: %w", err)
	}

	if cfg.HasSubtitleIndex {
		ctrl.SelectSubtitles(cfg.SubtitleIndex)
	} else {
		ctrl.AutoSelectSubtitles()
	}

	restore, err := enableRawMode(os.Stdin)
	if err != nil {
		return fmt.Errorf("ansi-play: %w", err)
	}
	defer restore()

	ctrl.Resume()

	done := make(chan error, 1)
	go func() { done <- ctrl.Join() }()

	quit := make(chan struct{})
	go readKeys(os.Stdin, ctrl, log, quit)

	select {
	case err := <-done:
		out.Flush()
		return err
	case <-quit:
		out.Flush()
		return nil
	}
}

// enableRawMode puts fd into raw mode so key presses arrive unbuffered and
// unechoed, returning a func that restores the previous terminal state.
// If fd isn't a terminal (piped input, a test harness), it's a no-op.
func enableRawMode(f *os.File) (func(), error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return func() {}, nil
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return func() { term.Restore(fd, state) }, nil
}

// readKeys reads single bytes from in and dispatches the player's key
// bindings, closing quit on 'q' or a read error (most commonly EOF, which
// happens immediately when in isn't a terminal). A failed seek is logged
// and otherwise ignored rather than ending the session.
func readKeys(in *os.File, ctrl *player.Control, log logging.Logger, quit chan<- struct{}) {
	buf := make([]byte, 1)
	for {
		n, err := in.Read(buf)
		if err != nil || n == 0 {
			close(quit)
			return
		}
		switch buf[0] {
		case 'a':
			if err := ctrl.SeekBackward(seekStep); err != nil {
				log.Warn("seek backward failed", "error", err)
			}
		case 'd':
			if err := ctrl.SeekForward(seekStep); err != nil {
				log.Warn("seek forward failed", "error", err)
			}
		case 'p':
			ctrl.Pause()
		case 'r':
			ctrl.Resume()
		case 'q':
			close(quit)
			return
		}
	}
}
