package game_test

import (
	"math"
	"strings"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/tanks/config"
	"github.com/plus3/tanks/ecs"
	"github.com/plus3/tanks/game"
	"github.com/plus3/tanks/logging"
)

func TestWorldStartup(t *testing.T) {
	w := newTestWorld(t, nil)
	cfg := w.Tuning()
	w.Step(0.1)

	tankId, tank := findPlayer(t, w.Storage)
	assert.Equal(t, game.Vec2{X: cfg.Arena.Width / 2, Y: cfg.Arena.Height / 2}, tank.Transform.Translation)

	turret := findTurret(t, w.Storage)
	parentId, ok := w.Storage.ResolveEntityRef(turret.Parent.Ref)
	require.True(t, ok)
	assert.Equal(t, tankId, parentId)
	assert.Equal(t, tank.Transform.Translation, turret.GlobalTransform.Translation)

	assert.Equal(t, 1, count[game.Camera](w.Storage))
	assert.Equal(t, cfg.Spawner.MinEnemies, count[game.Enemy](w.Storage))
	assert.Equal(t, cfg.Spawner.MinEnemies, w.Stats().EnemiesSpawned)

	logs := w.logs.String()
	assert.Contains(t, logs, "Spawned player")
	assert.Contains(t, logs, "name=Enemy1")
	assert.Contains(t, logs, "name=Enemy2")

	w.Step(0.1)
	assert.Contains(t, w.logs.String(), "name=Enemy3")
	assert.Equal(t, 1, strings.Count(w.logs.String(), "name=Enemy1"), "each enemy is logged once")
}

func TestWorldPlayerMovement(t *testing.T) {
	w := newTestWorld(t, nil)
	w.Step(0.1)
	_, player := findPlayer(t, w.Storage)
	start := player.Transform.Translation

	w.input.SetKey(ebiten.KeyW, true)
	for range 10 {
		w.Step(0.1)
	}
	w.input.ReleaseAll()

	assert.InDelta(t, start.X+100, player.Transform.Translation.X, 1e-3)
	assert.InDelta(t, start.Y, player.Transform.Translation.Y, 1e-3)

	w.input.SetKey(ebiten.KeyD, true)
	for range 5 {
		w.Step(0.1)
	}
	w.input.ReleaseAll()
	assert.InDelta(t, 40*math.Pi/180, player.Transform.Rotation, 1e-4)

	w.input.SetKey(ebiten.KeyA, true)
	w.Step(0.1)
	assert.InDelta(t, 32*math.Pi/180, player.Transform.Rotation, 1e-4, "A turns the other way")
}

func TestWorldStepClampsDelta(t *testing.T) {
	w := newTestWorld(t, nil)
	w.Step(0.1)
	_, player := findPlayer(t, w.Storage)
	start := player.Transform.Translation

	w.input.SetKey(ebiten.KeyW, true)
	w.Step(5)

	assert.InDelta(t, start.X+10, player.Transform.Translation.X, 1e-3)
}

func TestWorldTurretAim(t *testing.T) {
	w := newTestWorld(t, nil)
	w.Step(0.1)

	// 100 pixels below the middle of a 1280x720 screen.
	w.input.SetCursor(640, 460)
	w.Step(0.1)

	turret := findTurret(t, w.Storage)
	assert.InDelta(t, math.Pi/2, turret.GlobalTransform.Rotation, 1e-4)

	w.input.SetKey(ebiten.KeyD, true)
	for range 3 {
		w.Step(0.1)
	}

	_, player := findPlayer(t, w.Storage)
	assert.NotZero(t, player.Transform.Rotation)
	assert.InDelta(t, math.Pi/2, turret.GlobalTransform.Rotation, 1e-4, "turret keeps aiming while the hull turns")
}

func TestWorldFiring(t *testing.T) {
	w := newTestWorld(t, nil)
	w.Step(0.1)
	muzzleCount := w.Tuning().Particle.MuzzleCount

	w.input.SetMouseButton(ebiten.MouseButtonLeft, true)
	w.Step(0.1)
	assert.Equal(t, 1, w.Stats().ShotsFired)
	assert.Equal(t, 1, count[game.Projectile](w.Storage))
	assert.Equal(t, muzzleCount, count[game.Particle](w.Storage))

	w.Step(0.1)
	w.Step(0.1)
	assert.Equal(t, 1, w.Stats().ShotsFired, "holding the button fires once")

	w.input.SetMouseButton(ebiten.MouseButtonLeft, false)
	w.Step(0.1)
	w.input.SetKey(ebiten.KeySpace, true)
	w.Step(0.1)
	assert.Equal(t, 2, w.Stats().ShotsFired)
	assert.Equal(t, 2, count[game.Projectile](w.Storage))
	assert.Contains(t, w.logs.String(), "Fired projectile")
}

func TestWorldFiringStopsWhenInputDetached(t *testing.T) {
	w := newTestWorld(t, nil)
	w.Step(0.1)

	w.input.SetMouseButton(ebiten.MouseButtonLeft, true)
	w.Step(0.1)
	require.Equal(t, 1, w.Stats().ShotsFired)

	var input *game.Input
	require.True(t, w.Storage.ReadSingleton(&input))
	input.Source = nil
	for range 10 {
		w.Step(0.1)
	}
	assert.Equal(t, 1, w.Stats().ShotsFired)
}

func TestWorldProjectileKillsEnemy(t *testing.T) {
	w := newTestWorld(t, func(cfg *config.Config) {
		cfg.Spawner.StartupEnemies = 1
		cfg.Spawner.MinEnemies = 1
		cfg.Enemy.Health = 25
		cfg.Enemy.IdleDelay = 1000
		cfg.Projectile.Speed = 400
	})
	w.Step(0.1)

	w.input.SetKey(ebiten.KeySpace, true)
	w.Step(0.1)
	w.input.ReleaseAll()

	for range 200 {
		if w.Stats().Kills > 0 {
			break
		}
		w.Step(0.05)
	}

	stats := w.Stats()
	assert.Equal(t, 1, stats.Hits)
	assert.Equal(t, 1, stats.Kills)
	assert.Contains(t, w.logs.String(), "Destroyed")
	assert.Contains(t, w.logs.String(), "name=Enemy1")
}

func TestWorldStats(t *testing.T) {
	w := newTestWorld(t, nil)
	w.Step(0.1)
	w.Step(0.1)

	stats := w.Stats()
	assert.InDelta(t, 0.2, stats.Elapsed, 1e-9)
	assert.Equal(t, stats.Enemies, count[game.Enemy](w.Storage))
	assert.Equal(t, uint64(2), w.Update.Tick())

	hud := game.HUDText(stats, &game.Health{Current: 80, Max: 100})
	assert.Contains(t, hud, "health 80/100")
	assert.Contains(t, hud, "enemies 3")
	assert.Contains(t, game.HUDText(stats, nil), "health -")
}

func TestWorldExtraSystems(t *testing.T) {
	calls := 0
	extra := ecs.SystemFunc(func(frame *ecs.UpdateFrame) { calls++ })

	cfg := config.Default()
	w := game.NewWorld(game.Options{Config: cfg, Logger: logging.Discard(), Input: game.NewScriptedInput(), Extra: []ecs.System{extra}})
	w.Step(0.1)
	w.Step(0.1)

	assert.Equal(t, 2, calls)
}

func TestWorldScreenPoint(t *testing.T) {
	w := newTestWorld(t, nil)
	_, ok := w.ScreenPoint(game.Vec2{})
	assert.False(t, ok, "no camera before the first step")

	w.Step(0.1)
	cfg := w.Tuning()
	center := game.Vec2{X: cfg.Arena.Width / 2, Y: cfg.Arena.Height / 2}

	point, ok := w.ScreenPoint(center.Add(game.Vec2{Y: 100}))
	require.True(t, ok)
	assert.Equal(t, game.Vec2{X: 640, Y: 460}, point)
}

func TestWorldSeed(t *testing.T) {
	w := newTestWorld(t, nil)
	assert.Equal(t, uint64(42), w.Seed)

	override := game.NewWorld(game.Options{Config: w.Tuning().Config, Seed: 9, Logger: logging.Discard()})
	assert.Equal(t, uint64(9), override.Seed)

	random := game.NewWorld(game.Options{Config: config.Default(), Logger: logging.Discard()})
	assert.NotZero(t, random.Seed)
}
