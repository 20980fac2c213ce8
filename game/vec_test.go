package game_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plus3/tanks/game"
)

func TestNormalizeAngle(t *testing.T) {
	assert.InDelta(t, 0, game.NormalizeAngle(2*math.Pi), 1e-5)
	assert.InDelta(t, -math.Pi/2, game.NormalizeAngle(3*math.Pi/2), 1e-5)
	assert.InDelta(t, math.Pi/2, game.NormalizeAngle(-3*math.Pi/2), 1e-5)
}

func TestRotateTowards(t *testing.T) {
	t.Run("within reach snaps", func(t *testing.T) {
		assert.InDelta(t, 0.5, game.RotateTowards(0, 0.5, 1), 1e-6)
	})

	t.Run("limited step", func(t *testing.T) {
		assert.InDelta(t, 0.25, game.RotateTowards(0, 1, 0.25), 1e-6)
		assert.InDelta(t, -0.25, game.RotateTowards(0, -1, 0.25), 1e-6)
	})

	t.Run("shortest arc across pi", func(t *testing.T) {
		got := game.RotateTowards(3, -3, 0.1)
		assert.InDelta(t, 3.1, got, 1e-5)
	})

	t.Run("zero step keeps heading", func(t *testing.T) {
		assert.InDelta(t, 0.3, game.RotateTowards(0.3, 2, 0), 1e-6)
	})
}

func TestMoveTowards(t *testing.T) {
	target := game.Vec2{X: 100}

	pos, moving := game.MoveTowards(game.Vec2{}, target, 10, 40)
	assert.True(t, moving)
	assert.InDelta(t, 10, pos.X, 1e-5)

	pos, moving = game.MoveTowards(game.Vec2{X: 55}, target, 10, 40)
	assert.True(t, moving)
	assert.InDelta(t, 60, pos.X, 1e-5, "never steps inside the stop radius")

	pos, moving = game.MoveTowards(game.Vec2{X: 60}, target, 10, 40)
	assert.False(t, moving)
	assert.Equal(t, game.Vec2{X: 60}, pos)
}

func TestRectOverlaps(t *testing.T) {
	a := game.Rect{Center: game.Vec2{}, Size: game.Vec2{X: 20, Y: 20}}

	assert.True(t, a.Overlaps(game.Rect{Center: game.Vec2{X: 15}, Size: game.Vec2{X: 20, Y: 20}}))
	assert.False(t, a.Overlaps(game.Rect{Center: game.Vec2{X: 20}, Size: game.Vec2{X: 20, Y: 20}}), "touching edges")
	assert.False(t, a.Overlaps(game.Rect{Center: game.Vec2{X: 5, Y: 50}, Size: game.Vec2{X: 20, Y: 20}}))
}

func TestCameraProjection(t *testing.T) {
	camera := game.Camera{Zoom: 2}
	center := game.Vec2{X: 100, Y: 100}
	screen := game.Vec2{X: 200, Y: 100}

	world := camera.ScreenToWorld(game.Vec2{X: 150, Y: 50}, center, screen)
	assert.Equal(t, game.Vec2{X: 125, Y: 100}, world)
	assert.Equal(t, game.Vec2{X: 150, Y: 50}, camera.WorldToScreen(world, center, screen))
}

func TestCollisionMask(t *testing.T) {
	assert.True(t, game.MaskEnemy.Intersects(game.MaskEnemy|game.MaskPlayer))
	assert.False(t, game.MaskEnemy.Intersects(game.MaskPlayer))
	assert.False(t, game.CollisionMask(0).Intersects(game.MaskEnemy))
	assert.Equal(t, "player|enemy", (game.MaskPlayer | game.MaskEnemy).String())
}
