package game

// Timer counts seconds up to Duration.
//
// A one-shot timer stays finished once it reaches Duration. A repeating timer
// wraps around and reports Finished only for the tick in which it wrapped.
type Timer struct {
	Duration  float64
	Elapsed   float64
	Repeating bool

	finished     bool
	justFinished bool
}

func NewTimer(seconds float64, repeating bool) Timer {
	return Timer{Duration: seconds, Repeating: repeating}
}

// Tick advances the timer by dt seconds.
func (t *Timer) Tick(dt float64) {
	t.justFinished = false

	if t.finished && !t.Repeating {
		return
	}
	if t.Repeating {
		t.finished = false
	}

	t.Elapsed += dt
	if t.Elapsed < t.Duration {
		return
	}

	t.finished = true
	t.justFinished = true
	if t.Repeating && t.Duration > 0 {
		for t.Elapsed >= t.Duration {
			t.Elapsed -= t.Duration
		}
	} else {
		t.Elapsed = t.Duration
	}
}

// Finished reports whether the timer has reached Duration.
func (t *Timer) Finished() bool {
	return t.finished
}

// JustFinished reports whether the last Tick reached Duration.
func (t *Timer) JustFinished() bool {
	return t.justFinished
}

// Reset rewinds the timer to zero.
func (t *Timer) Reset() {
	t.Elapsed = 0
	t.finished = false
	t.justFinished = false
}

// Fraction returns progress in [0, 1].
func (t *Timer) Fraction() float64 {
	if t.Duration <= 0 {
		return 1
	}
	return min(t.Elapsed/t.Duration, 1)
}

// Remaining returns the seconds left until the timer finishes.
func (t *Timer) Remaining() float64 {
	return max(t.Duration-t.Elapsed, 0)
}
