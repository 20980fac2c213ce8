// Package game is the tank shooter: components, systems and the World that
// wires them to an ECS storage.
package game

import (
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/tanks/config"
	"github.com/plus3/tanks/ecs"
)

// World owns the storage and the two schedulers. Update advances the
// simulation, Render draws it.
type World struct {
	Storage *ecs.Storage
	Update  *ecs.Scheduler
	Render  *ecs.Scheduler
	// Seed is the gameplay RNG seed actually used.
	Seed uint64

	maxDelta float64
}

// Options configures NewWorld.
type Options struct {
	Config config.Config
	Logger *log.Logger
	Input  InputSource
	// Seed overrides Config.Sim.Seed when non-zero. When both are zero a
	// random seed is picked.
	Seed uint64
	// Extra systems run after the gameplay systems, e.g. debug tooling.
	Extra []ecs.System
}

// NewRegistry returns a registry with every game component registered.
func NewRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	registerComponents(registry)
	return registry
}

func NewWorld(opts Options) *World {
	storage := ecs.NewStorage(NewRegistry())

	seed := opts.Seed
	if seed == 0 {
		seed = opts.Config.Sim.Seed
	}
	if seed == 0 {
		seed = rand.Uint64()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	ecs.NewSingleton(storage, Tuning{Config: opts.Config})
	ecs.NewSingleton(storage, Logger{Logger: logger})
	ecs.NewSingleton(storage, NewRand(seed))
	ecs.NewSingleton(storage, Input{Source: opts.Input})
	ecs.NewSingleton(storage, DefaultInputMap())
	ecs.NewSingleton(storage, ActionState{})
	ecs.NewSingleton(storage, MousePosition{})
	ecs.NewSingleton(storage, GameStats{})
	ecs.NewSingleton(storage, Screen{Width: opts.Config.Window.Width, Height: opts.Config.Window.Height})

	update := ecs.NewScheduler(storage)
	update.RegisterStartup(&SpawnCameraSystem{})
	update.RegisterStartup(&SpawnPlayerSystem{})
	update.RegisterStartup(&SpawnInitialEnemiesSystem{})

	update.Register(&InputSystem{})
	update.Register(&MouseTrackingSystem{})
	update.Register(&PlayerMovementSystem{})
	update.Register(&TurretAimSystem{})
	update.Register(&HomingSystem{})
	update.Register(&LinearMoveSystem{})
	update.Register(&IdleWanderSystem{})
	update.Register(&CameraFollowSystem{})
	update.Register(&TransformPropagateSystem{})
	update.Register(&PlayerFiringSystem{})
	update.Register(&CollisionDamageSystem{})
	update.Register(&LifetimeSystem{})
	update.Register(&EnemySpawnLogSystem{})
	update.Register(&EnemySpawnerSystem{})
	update.Register(&StatsSystem{})
	for _, system := range opts.Extra {
		update.Register(system)
	}

	render := ecs.NewScheduler(storage)
	render.Register(&RenderSystem{})
	render.Register(&HUDSystem{})

	logger.Debug("World created", "seed", seed, "systems", update.GetStats().SystemCount)

	return &World{
		Storage:  storage,
		Update:   update,
		Render:   render,
		Seed:     seed,
		maxDelta: opts.Config.Sim.MaxDelta,
	}
}

// Step advances the simulation by dt seconds, capped at the configured max delta.
func (w *World) Step(dt float64) {
	if w.maxDelta > 0 {
		dt = min(dt, w.maxDelta)
	}
	w.Update.Once(max(dt, 0))
}

// Draw renders the world onto screen.
func (w *World) Draw(screen *ebiten.Image) {
	var target *Screen
	if w.Storage.ReadSingleton(&target) {
		bounds := screen.Bounds()
		target.Width, target.Height = bounds.Dx(), bounds.Dy()
		target.Image = screen
	}
	w.Render.Once(0)
	if target != nil {
		target.Image = nil
	}
}

// ScreenPoint projects a world position through the camera onto the screen.
// ok is false before the camera exists.
func (w *World) ScreenPoint(world Vec2) (Vec2, bool) {
	var screen *Screen
	if !w.Storage.ReadSingleton(&screen) {
		return Vec2{}, false
	}

	query := ecs.NewQuery[cameraView](w.Storage)
	query.Execute()
	_, camera, ok := query.Single()
	if !ok {
		return Vec2{}, false
	}
	return camera.Camera.WorldToScreen(world, camera.Transform.Translation, screen.Size()), true
}

// Stats returns the live GameStats.
func (w *World) Stats() *GameStats {
	var stats *GameStats
	w.Storage.ReadSingleton(&stats)
	return stats
}

// Tuning returns the live config snapshot.
func (w *World) Tuning() *Tuning {
	var tuning *Tuning
	w.Storage.ReadSingleton(&tuning)
	return tuning
}
