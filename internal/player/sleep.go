/*
DESCRIPTION
  sleep.go implements the render thread's wall-clock pacing primitive: sleep
  until a target Instant with sub-millisecond precision. Ports spin_sleep's
  hybrid strategy (coarse OS sleep for the bulk of the wait, then a tight
  spin for the last sliver, since time.Sleep's scheduler-driven wakeup can
  overshoot by a millisecond or more) rather than a plain time.Sleep, and
  is shaped like the delay/adjust pacing in codecutil/lex.go's lexing loop:
  compute remaining time, wait, re-check.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package player

import "time"

// spinSleepSlop is how far ahead of the target instant plain time.Sleep is
// trusted to land; the remainder is spun.
const spinSleepSlop = 2 * time.Millisecond

// sleepUntil blocks until now() >= line. A late line (already in the past)
// returns immediately with no catch-up sleep, per the "late packet" failure
// semantics: no frames are dropped, and playback never bursts to catch up.
func sleepUntil(line time.Time) {
	for {
		remaining := time.Until(line)
		if remaining <= 0 {
			return
		}
		if remaining > spinSleepSlop {
			time.Sleep(remaining - spinSleepSlop)
			continue
		}
		break
	}
	for time.Now().Before(line) {
		// tight spin for the final sliver; intentionally no Gosched/Sleep,
		// trading a spinning CPU for precise frame pacing.
	}
}
