package game_test

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/tanks/config"
	"github.com/plus3/tanks/game"
	"github.com/plus3/tanks/logging"
)

func newBenchWorld(b *testing.B, enemies int) (*game.World, *game.ScriptedInput) {
	b.Helper()

	cfg := config.Default()
	cfg.Spawner.MinEnemies = enemies
	cfg.Spawner.StartupEnemies = enemies
	input := game.NewScriptedInput()
	w := game.NewWorld(game.Options{
		Config: cfg,
		Logger: logging.Discard(),
		Input:  input,
		Seed:   1,
	})
	w.Step(1.0 / 60)
	return w, input
}

func BenchmarkStep(b *testing.B) {
	w, _ := newBenchWorld(b, 3)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Step(1.0 / 60)
	}
}

func BenchmarkStepManyEnemies(b *testing.B) {
	w, _ := newBenchWorld(b, 500)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Step(1.0 / 60)
	}
}

func BenchmarkStepFiring(b *testing.B) {
	w, input := newBenchWorld(b, 100)
	input.SetCursor(100, 100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		input.SetMouseButton(ebiten.MouseButtonLeft, i%2 == 0)
		w.Step(1.0 / 60)
	}
}
