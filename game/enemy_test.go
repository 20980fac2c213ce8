package game_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/tanks/config"
	"github.com/plus3/tanks/ecs"
	"github.com/plus3/tanks/game"
)

func TestEnemyName(t *testing.T) {
	assert.Equal(t, "Enemy1", game.EnemyName(1))
	assert.Equal(t, "Enemy12", game.EnemyName(12))
}

func TestSpawnEnemy(t *testing.T) {
	cfg := config.Default()
	storage := newTestStorage(cfg)

	scheduler := newScheduler(storage, ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
		if frame.Tick == 1 {
			game.SpawnEnemy(frame.Commands, &game.Tuning{Config: cfg}, "Enemy1", game.Vec2{X: 300, Y: 400})
		}
	}))
	scheduler.Once(0.016)

	query := ecs.NewQuery[struct {
		*game.Transform
		*game.Idle
		*game.Health
		*game.Collider
		*game.DisplayName
		*game.JustSpawned
	}](storage)
	query.Execute()
	_, enemy, ok := query.Single()
	require.True(t, ok)

	assert.Equal(t, game.DisplayName("Enemy1"), *enemy.DisplayName)
	assert.Equal(t, game.Vec2{X: 300, Y: 400}, enemy.Idle.Home)
	assert.Equal(t, game.Vec2{X: 400, Y: 500}, enemy.Idle.Target, "first target is offset from the spawn point")
	assert.Equal(t, cfg.Enemy.Health, enemy.Health.Current)
	assert.Equal(t, game.MaskEnemy, enemy.Collider.Mask)
}

func TestEnemySpawner(t *testing.T) {
	cfg := config.Default()
	storage := newTestStorage(cfg)
	center := game.Vec2{X: cfg.Arena.Width / 2, Y: cfg.Arena.Height / 2}
	storage.Spawn(game.Transform{Translation: center}, game.PlayerControlled{})

	scheduler := ecs.NewScheduler(storage)
	scheduler.RegisterStartup(&game.SpawnInitialEnemiesSystem{})
	scheduler.Register(&game.EnemySpawnerSystem{})

	scheduler.Once(0.016)
	assert.Equal(t, cfg.Spawner.MinEnemies, count[game.Enemy](storage))

	scheduler.Once(0.016)
	assert.Equal(t, cfg.Spawner.MinEnemies, count[game.Enemy](storage), "no spawns once the minimum is reached")

	query := ecs.NewQuery[struct {
		*game.Transform
		*game.Enemy
		*game.DisplayName
	}](storage)
	query.Execute()

	var names []string
	for enemy := range query.Values() {
		names = append(names, string(*enemy.DisplayName))
		assert.GreaterOrEqual(t, enemy.Transform.Translation.Dist(center), cfg.Spawner.SpawnClearance)
		assert.GreaterOrEqual(t, enemy.Transform.Translation.X, float32(0))
		assert.LessOrEqual(t, enemy.Transform.Translation.X, cfg.Arena.Width)
		assert.GreaterOrEqual(t, enemy.Transform.Translation.Y, float32(0))
		assert.LessOrEqual(t, enemy.Transform.Translation.Y, cfg.Arena.Height)
	}
	assert.ElementsMatch(t, []string{"Enemy1", "Enemy2", "Enemy3"}, names)

	var stats *game.GameStats
	storage.ReadSingleton(&stats)
	assert.Equal(t, 3, stats.EnemiesSpawned)

	t.Run("replaces destroyed enemies", func(t *testing.T) {
		for id := range query.Iter() {
			storage.Delete(id)
			break
		}
		scheduler.Once(0.016)

		assert.Equal(t, cfg.Spawner.MinEnemies, count[game.Enemy](storage))
		assert.Equal(t, 4, stats.EnemiesSpawned)
	})
}

func TestEnemySpawnLog(t *testing.T) {
	storage := newTestStorage(config.Default())
	logs := &bytes.Buffer{}
	storage.AddSingleton(game.Logger{Logger: log.New(logs)})

	storage.Spawn(game.Enemy{}, game.JustSpawned{}, game.DisplayName("Enemy7"))

	scheduler := newScheduler(storage, &game.EnemySpawnLogSystem{})
	scheduler.Once(0.016)
	scheduler.Once(0.016)

	assert.Equal(t, 1, strings.Count(logs.String(), "Spawned enemy"))
	assert.Contains(t, logs.String(), "name=Enemy7")
	assert.Equal(t, 0, count[game.JustSpawned](storage))
	assert.Equal(t, 1, count[game.Enemy](storage))
}

func TestIdleWander(t *testing.T) {
	cfg := config.Default()
	storage := newTestStorage(cfg)
	id := storage.Spawn(
		game.Transform{},
		game.Enemy{},
		game.Movable{Speed: 100},
		game.Idle{
			Delay:        game.NewTimer(1, true),
			Target:       game.Vec2{X: 100},
			WalkDistance: 200,
			StopRadius:   40,
		},
	)

	scheduler := newScheduler(storage, &game.IdleWanderSystem{})
	position := func() game.Vec2 {
		return ecs.ReadComponent[game.Transform](storage, id).Translation
	}
	idle := func() *game.Idle {
		return ecs.ReadComponent[game.Idle](storage, id)
	}

	scheduler.Once(0.5)
	assert.Equal(t, game.Vec2{}, position(), "waiting")
	scheduler.Once(0.5)
	assert.Equal(t, game.Vec2{}, position(), "delay just elapsed")

	scheduler.Once(0.5)
	assert.InDelta(t, 50, position().X, 1e-4)
	scheduler.Once(0.5)
	assert.InDelta(t, 60, position().X, 1e-4, "stops at the edge of the stop radius")
	assert.Equal(t, game.Vec2{X: 100}, idle().Target)

	scheduler.Once(0.5)
	assert.InDelta(t, 60, position().X, 1e-4)
	assert.NotEqual(t, game.Vec2{X: 100}, idle().Target, "arrival picks a new target")
	assert.False(t, idle().Delay.Finished(), "and waits again")

	offset := idle().Target.Sub(game.Vec2{X: 100})
	for _, axis := range []float32{offset.X, offset.Y} {
		magnitude := max(axis, -axis)
		assert.GreaterOrEqual(t, magnitude, cfg.Enemy.WanderMin)
		assert.Less(t, magnitude, cfg.Enemy.WanderMax)
	}
}
