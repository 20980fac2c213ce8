package game_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/tanks/config"
	"github.com/plus3/tanks/ecs"
	"github.com/plus3/tanks/game"
)

func TestWorldTransform(t *testing.T) {
	storage := newTestStorage(config.Default())
	parent := storage.Spawn(
		game.Transform{Translation: game.Vec2{X: 10}, Rotation: math.Pi / 2},
		game.GlobalTransform{},
	)
	child := storage.Spawn(
		game.Transform{Translation: game.Vec2{X: 5}, Rotation: 0.25},
		game.GlobalTransform{},
		game.Parent{Ref: storage.CreateEntityRef(parent)},
	)

	world, ok := game.WorldTransform(storage, child)
	require.True(t, ok)
	assert.InDelta(t, 10, world.Translation.X, 1e-4)
	assert.InDelta(t, 5, world.Translation.Y, 1e-4)
	assert.InDelta(t, math.Pi/2+0.25, world.Rotation, 1e-5)

	root, ok := game.WorldTransform(storage, parent)
	require.True(t, ok)
	assert.Equal(t, game.Vec2{X: 10}, root.Translation)
}

func TestTransformPropagate(t *testing.T) {
	storage := newTestStorage(config.Default())
	parent := storage.Spawn(
		game.Transform{Translation: game.Vec2{X: 10}, Rotation: math.Pi / 2},
		game.GlobalTransform{},
	)
	child := storage.Spawn(
		game.Transform{Translation: game.Vec2{X: 5}},
		game.GlobalTransform{},
		game.Parent{Ref: storage.CreateEntityRef(parent)},
	)

	scheduler := newScheduler(storage, &game.TransformPropagateSystem{})
	scheduler.Once(0.016)

	assert.Equal(t, game.Vec2{X: 10}, ecs.ReadComponent[game.GlobalTransform](storage, parent).Translation)
	global := ecs.ReadComponent[game.GlobalTransform](storage, child)
	assert.InDelta(t, 10, global.Translation.X, 1e-4)
	assert.InDelta(t, 5, global.Translation.Y, 1e-4)

	t.Run("orphans are despawned", func(t *testing.T) {
		storage.Delete(parent)
		scheduler.Once(0.016)
		assert.False(t, storage.Alive(child))
	})
}
