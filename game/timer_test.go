package game_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plus3/tanks/game"
)

func TestOneShotTimer(t *testing.T) {
	timer := game.NewTimer(1, false)

	timer.Tick(0.6)
	assert.False(t, timer.Finished())
	assert.InDelta(t, 0.6, timer.Fraction(), 1e-9)

	timer.Tick(0.6)
	assert.True(t, timer.Finished())
	assert.True(t, timer.JustFinished())
	assert.Equal(t, 1.0, timer.Elapsed)

	timer.Tick(0.6)
	assert.True(t, timer.Finished(), "one-shot stays finished")
	assert.False(t, timer.JustFinished())

	timer.Reset()
	assert.False(t, timer.Finished())
	assert.Equal(t, 1.0, timer.Remaining())
}

func TestRepeatingTimer(t *testing.T) {
	timer := game.NewTimer(2, true)

	timer.Tick(1.5)
	assert.False(t, timer.Finished())

	timer.Tick(1)
	assert.True(t, timer.Finished(), "finished on the wrapping tick")
	assert.InDelta(t, 0.5, timer.Elapsed, 1e-9)

	timer.Tick(0.5)
	assert.False(t, timer.Finished(), "cleared on the next tick")

	timer.Tick(4.5)
	assert.True(t, timer.Finished())
	assert.InDelta(t, 1.5, timer.Elapsed, 1e-9, "several periods wrap at once")
}
