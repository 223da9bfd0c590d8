/*
DESCRIPTION
  control.go implements the player's state machine and its two background
  goroutines, porting player/src/renderer.rs's PlayerControl/render_loop.
  Per the concurrency model, each logically independent piece of shared
  state gets its own lock: status (play_status + condvar), wallclockOrigin,
  videoTime, and an atomic for the active subtitle stream -- never one lock
  guarding all of them, since a seek's drain-wait would then stall every
  other field's readers too.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package player drives container playback: a decoder goroutine pulling
// packets through a Reader, a render goroutine pacing and emitting them to
// a terminal writer, and a Control type the caller drives with
// pause/resume/seek.
package player

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"

	"github.com/kore-signet/ansi-three/container"
	"github.com/kore-signet/ansi-three/internal/logging"
)

// PlayThreadState is the render thread's state, shared with the control
// thread via Control's condition variable.
type PlayThreadState int

const (
	StatePaused PlayThreadState = iota
	StatePlaying
	StateDiscardRequest
	StateDiscardDone
)

func (s PlayThreadState) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateDiscardRequest:
		return "discard-request"
	case StateDiscardDone:
		return "discard-done"
	default:
		return "paused"
	}
}

// noSubtitleStream is the sentinel stored in Control.subtitleStream when no
// subtitle track is selected.
const noSubtitleStream = 255

// playStatus guards PlayThreadState with a condition variable, the one
// mutex+condvar pair the concurrency model calls out for play-status.
type playStatus struct {
	mu    sync.Mutex
	cond  *sync.Cond
	state PlayThreadState
}

func newPlayStatus(initial PlayThreadState) *playStatus {
	s := &playStatus{state: initial}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// waitWhile blocks while pred(currentState) is true, evaluated under the
// status lock, mirroring parking_lot's Condvar::wait_while.
func (s *playStatus) waitWhile(pred func(PlayThreadState) bool) {
	s.mu.Lock()
	for pred(s.state) {
		s.cond.Wait()
	}
	s.mu.Unlock()
}

func (s *playStatus) get() PlayThreadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *playStatus) set(v PlayThreadState) {
	s.mu.Lock()
	s.state = v
	s.mu.Unlock()
	s.cond.Broadcast()
}

// Control drives one playback session: a decoder goroutine feeding a
// render goroutine through a Queue, plus the pause/resume/seek API the
// caller (control thread) uses to steer it.
type Control struct {
	reader *Reader
	queue  *Queue
	log    logging.Logger

	Header      container.FormatData
	VideoStream container.Stream

	status *playStatus

	wallclockMu     sync.Mutex
	wallclockOrigin time.Time

	videoTimeMu sync.Mutex
	videoTime   time.Duration

	subtitleStream atomic.Uint32

	pauseTime    time.Time
	pauseTimeSet bool

	decoderErr chan error
	renderErr  chan error
}

// New builds a Control over r, locates the container's video stream, and
// starts the decoder and render goroutines. Playback begins Paused; call
// Resume to start it.
func New(r io.ReadSeeker, out io.Writer, log logging.Logger) (*Control, error) {
	reader, err := NewReader(r)
	if err != nil {
		return nil, err
	}

	var videoStream container.Stream
	found := false
	for _, s := range reader.Header().Tracks {
		if s.Parameters.Video != nil {
			videoStream = s
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("player: container has no video stream")
	}

	c := &Control{
		reader:      reader,
		queue:       NewQueue(QueueCapacity, MinSlotCapacity, MaxSlotCapacity),
		log:         log,
		Header:      reader.Header(),
		VideoStream: videoStream,
		status:      newPlayStatus(StatePaused),
		decoderErr:  make(chan error, 1),
		renderErr:   make(chan error, 1),
	}
	c.wallclockOrigin = time.Now()
	c.pauseTime = time.Now()
	c.pauseTimeSet = true
	c.subtitleStream.Store(noSubtitleStream)

	go c.decodeLoop()
	go c.renderLoop(out)

	return c, nil
}

// decodeLoop pulls slots from the queue's free pool, fills them from the
// reader, and republishes them, until EOF or a fatal read error.
func (c *Control) decodeLoop() {
	for {
		slot := c.queue.Acquire()
		if err := c.reader.ReadInto(slot); err != nil {
			c.queue.Release(slot)
			if err != io.EOF {
				c.decoderErr <- err
			} else {
				c.decoderErr <- nil
			}
			c.queue.Close()
			return
		}
		c.queue.Send(slot)
	}
}

// AutoSelectSubtitles activates the first subtitle stream found in the
// header, if any.
func (c *Control) AutoSelectSubtitles() {
	for _, s := range c.Header.Tracks {
		if s.Parameters.Subtitle != nil {
			c.subtitleStream.Store(uint32(s.Index))
			return
		}
	}
}

// SelectSubtitles sets the active subtitle stream index; noSubtitleStream
// (255) disables overlay.
func (c *Control) SelectSubtitles(index uint8) {
	c.subtitleStream.Store(uint32(index))
}

// VideoTime returns the timestamp of the most recently emitted frame.
func (c *Control) VideoTime() time.Duration {
	c.videoTimeMu.Lock()
	defer c.videoTimeMu.Unlock()
	return c.videoTime
}

func (c *Control) setVideoTime(d time.Duration) {
	c.videoTimeMu.Lock()
	c.videoTime = d
	c.videoTimeMu.Unlock()
}

func (c *Control) wallclock() time.Time {
	c.wallclockMu.Lock()
	defer c.wallclockMu.Unlock()
	return c.wallclockOrigin
}

func (c *Control) addWallclock(d time.Duration) {
	c.wallclockMu.Lock()
	c.wallclockOrigin = c.wallclockOrigin.Add(d)
	c.wallclockMu.Unlock()
}

// Pause stops playback, recording the pause instant so Resume can credit
// the elapsed wait back to wallclockOrigin.
func (c *Control) Pause() {
	// Defer actually marking Paused until any in-flight discard settles,
	// so a pause racing a seek can't leave the render loop mid-drain.
	c.status.waitWhile(func(s PlayThreadState) bool {
		return s == StateDiscardRequest || s == StateDiscardDone
	})
	if c.status.get() == StatePaused {
		return
	}
	c.pauseTime = time.Now()
	c.pauseTimeSet = true
	c.status.set(StatePaused)
}

// Resume starts (or restarts) playback. Elapsed pause time is added to
// wallclockOrigin so the next frame's pacing line doesn't see a burst of
// "overdue" packets.
func (c *Control) Resume() {
	c.status.waitWhile(func(s PlayThreadState) bool {
		return s == StateDiscardRequest || s == StateDiscardDone
	})
	if c.pauseTimeSet {
		c.addWallclock(time.Since(c.pauseTime))
		c.pauseTimeSet = false
	}
	c.status.set(StatePlaying)
}

// Seek moves playback to target, draining any already-decoded-but-stale
// packets without rendering them, then adjusts wallclockOrigin so that
// wallclock-minus-video-time is preserved across the jump. Per the
// component design's scheduling note, the adjustment uses plain signed
// Duration arithmetic rather than the abs()-plus-branch the original
// source used.
func (c *Control) Seek(target time.Duration) error {
	waitStart := time.Now()

	// Hold the reader lock across both the underlying seek and the
	// discard-drain wait below: the decoder must not fill the queue with
	// any post-seek packet until the render goroutine's drain has emptied
	// it and settled into DiscardDone (see Reader.Lock).
	c.reader.Lock()

	oldState := c.status.get()
	c.status.set(StateDiscardRequest)

	actualMicros, err := c.reader.SeekLocked(c.VideoStream.Index, target.Microseconds())
	if err != nil {
		c.reader.Unlock()
		c.status.set(oldState)
		return err
	}
	actual := time.Duration(actualMicros) * time.Microsecond

	videoTime := c.VideoTime()
	c.addWallclock(videoTime - actual)

	c.status.waitWhile(func(s PlayThreadState) bool { return s != StateDiscardDone })

	c.reader.Unlock()

	c.addWallclock(time.Since(waitStart))

	c.status.set(oldState)
	return nil
}

// SeekForward seeks delta forward of the current video time.
func (c *Control) SeekForward(delta time.Duration) error {
	return c.Seek(c.VideoTime() + delta)
}

// SeekBackward seeks delta behind the current video time, clamping at 0.
func (c *Control) SeekBackward(delta time.Duration) error {
	target := c.VideoTime() - delta
	if target < 0 {
		target = 0
	}
	return c.Seek(target)
}

// Join blocks until both goroutines have exited, combining whatever
// terminal errors either reported (nil on clean EOF / quit for both).
func (c *Control) Join() error {
	decErr := <-c.decoderErr
	rendErr := <-c.renderErr
	return multierr.Append(decErr, rendErr)
}

// renderLoop dequeues slots, paces emission against wallclockOrigin, and
// writes frames (plus progress bar and active subtitles) to out.
func (c *Control) renderLoop(out io.Writer) {
	if _, err := out.Write([]byte("\x1b[1;1H\x1b[?25l")); err != nil {
		c.renderErr <- err
		return
	}

	videoParams := c.VideoStream.Parameters.Video
	totalDuration := time.Duration(c.VideoStream.DurationMicros) * time.Microsecond

	var overlay overlayWindow

	for {
		c.status.waitWhile(func(s PlayThreadState) bool {
			return s == StatePaused || s == StateDiscardDone
		})
		curState := c.status.get()

		if curState == StateDiscardRequest {
			c.drain(&overlay)
			c.status.set(StateDiscardDone)
			continue
		}

		slot, ok := c.queue.Recv()
		if !ok {
			c.renderErr <- nil
			return
		}

		if slot.Header.DataType == container.DataSubtitle {
			if err := overlay.ingest(slot.Header); err != nil {
				c.log.Warn("dropping malformed subtitle packet", "err", err)
			}
			c.queue.Release(slot)
			continue
		}

		if err := c.emitFrame(out, slot, videoParams, totalDuration, &overlay); err != nil {
			c.queue.Release(slot)
			c.renderErr <- err
			return
		}
		c.queue.Release(slot)
	}
}

// drain consumes whatever is already buffered in the queue without
// rendering, still ingesting any subtitle packets encountered so events
// landing in the seek-destination interval remain visible.
func (c *Control) drain(overlay *overlayWindow) {
	for {
		slot, ok := c.queue.TryRecv()
		if !ok {
			return
		}
		if slot.Header.DataType == container.DataSubtitle {
			if err := overlay.ingest(slot.Header); err != nil {
				c.log.Warn("dropping malformed subtitle packet during seek", "err", err)
			}
		}
		c.queue.Release(slot)
	}
}

// emitFrame paces and writes one video frame, its progress bar, and any
// active subtitle overlay text.
func (c *Control) emitFrame(out io.Writer, slot *Slot, videoParams *container.VideoParameters, totalDuration time.Duration, overlay *overlayWindow) error {
	ts := time.Duration(slot.Header.TimestampMicro) * time.Microsecond
	dur := time.Duration(slot.Header.DurationMicro) * time.Microsecond

	c.setVideoTime(ts)
	origin := c.wallclock()
	line := origin.Add(ts).Add(-3 * time.Millisecond)

	var buf bytes.Buffer
	buf.WriteString("\x1b[0m\x1b[1;1H")
	buf.Write(slot.Header.Data)

	if videoParams != nil && totalDuration > 0 {
		width := int(videoParams.Width)
		filled := int((ts.Seconds() / totalDuration.Seconds()) * float64(width))
		if filled < 0 {
			filled = 0
		}
		if filled > width {
			filled = width
		}
		fmt.Fprintf(&buf, "\x1b[0m\x1b[0;32m%s\x1b[0m%s",
			strings.Repeat("■", filled), strings.Repeat("■", width-filled))
		fmt.Fprintf(&buf, "\x1b[0m\n\r%s | %s", formatClock(ts), formatClock(totalDuration))
	}

	overlay.retain(origin, line)
	activeStream := uint8(c.subtitleStream.Load())
	for _, text := range overlay.active(ts+dur, activeStream) {
		buf.WriteString(text)
	}
	buf.WriteString("\x1b[0m\n")

	sleepUntil(line)

	_, err := out.Write(buf.Bytes())
	return err
}
