package main

import (
	"bytes"
	"flag"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/tanks/config"
	"github.com/plus3/tanks/ecs"
	"github.com/plus3/tanks/game"
)

func TestRun(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"-duration", "3s", "-seed", "7", "-log-level", "info"}, &stdout, &stderr)
	require.NoError(t, err)

	report := stdout.String()
	assert.Contains(t, report, "# Tanks Simulation Report")
	assert.Contains(t, report, "**Total Updates:** 180")
	assert.Contains(t, report, "**Seed:** 7")
	assert.Contains(t, report, "| CollisionDamageSystem |")
	assert.NotContains(t, report, "GC Pause")

	assert.Contains(t, stderr.String(), "Spawned player")
	assert.NotContains(t, stderr.String(), "Fired projectile", "debug lines are filtered")
}

func TestRunRejectsBadFlags(t *testing.T) {
	var stdout, stderr bytes.Buffer

	err := run([]string{"-h"}, &stdout, &stderr)
	assert.ErrorIs(t, err, flag.ErrHelp)

	err = run([]string{"-log-level", "loud"}, &stdout, &stderr)
	assert.ErrorIs(t, err, config.ErrInvalid)

	err = run([]string{"-config", "does-not-exist.yaml"}, &stdout, &stderr)
	assert.Error(t, err)

	for _, args := range [][]string{
		{"-duration=-1s"},
		{"-duration=0s"},
		{"-fire-every=-1s"},
	} {
		assert.NotPanics(t, func() {
			err = run(args, &stdout, &stderr)
		})
		assert.ErrorContains(t, err, "must", args[0])
	}
	assert.Empty(t, stdout.String())
}

func TestPilotFiresOnEdges(t *testing.T) {
	input := game.NewScriptedInput()
	world := game.NewWorld(game.Options{Config: config.Default(), Input: input})
	pilot := NewPilot(input, 0.22)

	for range 60 {
		pilot.Update(world, 0.05)
		world.Step(0.05)
	}

	// Every fifth step over 60 steps, starting with the first.
	assert.Equal(t, 12, world.Stats().ShotsFired)
}

func TestPilotAimsAtNearestEnemy(t *testing.T) {
	input := game.NewScriptedInput()
	world := game.NewWorld(game.Options{Config: config.Default(), Input: input})
	world.Step(0.05)

	pilot := NewPilot(input, 0)
	pilot.DriveFor, pilot.TurnFor = 0, 0

	target, ok := pilot.nearestEnemy(world)
	require.True(t, ok)
	pilot.Update(world, 0.05)

	expected, ok := world.ScreenPoint(target)
	require.True(t, ok)
	x, y := input.CursorPosition()
	assert.Equal(t, int(expected.X), x)
	assert.Equal(t, int(expected.Y), y)
	assert.False(t, input.IsMouseButtonPressed(ebiten.MouseButtonLeft), "fire-every 0 never fires")
}

func TestStatsFinalize(t *testing.T) {
	stats := Stats{Samples: []time.Duration{3 * time.Millisecond, time.Millisecond, 2 * time.Millisecond}}
	stats.Finalize()
	assert.Equal(t, time.Millisecond, stats.Min)
	assert.Equal(t, 3*time.Millisecond, stats.Max)
	assert.Equal(t, 2*time.Millisecond, stats.Avg)

	empty := Stats{}
	empty.Finalize()
	assert.Zero(t, empty.Avg)
}

func TestReportWithoutSchedulerStats(t *testing.T) {
	var out bytes.Buffer
	report := &Report{Game: game.GameStats{ShotsFired: 4, Hits: 1}, Storage: &ecs.StorageStats{TotalEntityCount: 9, ArchetypeCount: 2}}
	require.NoError(t, report.Generate(&out))
	assert.Contains(t, out.String(), "(25.0% accuracy)")
	assert.Contains(t, out.String(), "**Entities:** 9 in 2 archetypes")
	assert.NotContains(t, out.String(), "## Systems")
}
