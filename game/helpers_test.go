package game_test

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/plus3/tanks/config"
	"github.com/plus3/tanks/ecs"
	"github.com/plus3/tanks/game"
	"github.com/plus3/tanks/logging"
)

// newTestStorage returns a storage with the singletons the gameplay systems
// read, minus input.
func newTestStorage(cfg config.Config) *ecs.Storage {
	storage := ecs.NewStorage(game.NewRegistry())
	ecs.NewSingleton(storage, game.Tuning{Config: cfg})
	ecs.NewSingleton(storage, game.Logger{Logger: logging.Discard()})
	ecs.NewSingleton(storage, game.NewRand(1))
	ecs.NewSingleton(storage, game.GameStats{})
	return storage
}

func newScheduler(storage *ecs.Storage, systems ...ecs.System) *ecs.Scheduler {
	scheduler := ecs.NewScheduler(storage)
	for _, system := range systems {
		scheduler.Register(system)
	}
	return scheduler
}

type testWorld struct {
	*game.World
	input *game.ScriptedInput
	logs  *bytes.Buffer
}

func newTestWorld(t *testing.T, mutate func(cfg *config.Config)) *testWorld {
	t.Helper()

	cfg := config.Default()
	cfg.Sim.Seed = 42
	if mutate != nil {
		mutate(&cfg)
	}
	require.NoError(t, cfg.Validate())

	logs := &bytes.Buffer{}
	input := game.NewScriptedInput()
	world := game.NewWorld(game.Options{
		Config: cfg,
		Logger: log.NewWithOptions(logs, log.Options{Level: log.DebugLevel}),
		Input:  input,
	})
	return &testWorld{World: world, input: input, logs: logs}
}

func count[T any](storage *ecs.Storage) int {
	query := ecs.NewQuery[struct{ Value *T }](storage)
	query.Execute()
	return query.Count()
}

type playerView struct {
	ecs.EntityId
	*game.Transform
	*game.PlayerControlled
}

func findPlayer(t *testing.T, storage *ecs.Storage) (ecs.EntityId, playerView) {
	t.Helper()
	query := ecs.NewQuery[playerView](storage)
	query.Execute()
	id, player, ok := query.Single()
	require.True(t, ok, "exactly one player")
	return id, player
}

type turretView struct {
	ecs.EntityId
	*game.Transform
	*game.GlobalTransform
	*game.Parent
	*game.MouseControlled
}

func findTurret(t *testing.T, storage *ecs.Storage) turretView {
	t.Helper()
	query := ecs.NewQuery[turretView](storage)
	query.Execute()
	_, turret, ok := query.Single()
	require.True(t, ok, "exactly one turret")
	return turret
}
