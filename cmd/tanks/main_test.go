package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/tanks/config"
	"github.com/plus3/tanks/ecs"
	"github.com/plus3/tanks/ecs/debugui"
	"github.com/plus3/tanks/game"
	"github.com/plus3/tanks/logging"
)

func TestNewDebugWorld(t *testing.T) {
	for _, ui := range []bool{false, true} {
		cfg := config.Default()
		cfg.Debug.UI = ui

		world, visibility := newDebugWorld(cfg, logging.Discard(), game.NewScriptedInput())
		require.NotNil(t, visibility.Get())
		assert.Equal(t, ui, visibility.Get().Visible, "debug.ui=%v", ui)

		items := ecs.NewQuery[struct{ Value *debugui.ImguiItem }](world.Storage)
		items.Execute()
		assert.Equal(t, 5, items.Count(), "browser, inspector, performance and two watches")

		var input *game.Input
		require.True(t, world.Storage.ReadSingleton(&input))
		guarded, ok := input.Source.(*guardedInput)
		require.True(t, ok)
		assert.NotNil(t, guarded.capture)
	}

	t.Run("hidden windows leave the game running", func(t *testing.T) {
		world, visibility := newDebugWorld(config.Default(), logging.Discard(), game.NewScriptedInput())
		require.False(t, visibility.Get().Visible)

		world.Step(0.1)
		world.Step(0.1)
		assert.Equal(t, uint64(2), world.Update.Tick())
		assert.Positive(t, world.Stats().Enemies)
	})
}
