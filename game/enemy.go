package game

import (
	"fmt"
	"image/color"
	"reflect"

	"github.com/plus3/tanks/ecs"
)

var enemyColor = color.RGBA{60, 170, 70, 255}

// SpawnEnemy queues an enemy at position. Its first wander target is
// InitialOffset away from where it spawns.
func SpawnEnemy(commands *ecs.Commands, cfg *Tuning, name string, position Vec2) {
	size := cfg.Enemy.Size
	offset := Vec2{cfg.Enemy.InitialOffset[0], cfg.Enemy.InitialOffset[1]}

	commands.Spawn(
		Transform{Translation: position},
		GlobalTransform{Translation: position},
		Sprite{Size: Vec2{size, size}, Color: enemyColor, Shape: ShapeRect},
		DisplayName(name),
		Enemy{},
		Idle{
			Delay:        NewTimer(cfg.Enemy.IdleDelay, true),
			Target:       position.Add(offset),
			Home:         position,
			WalkDistance: cfg.Enemy.WalkDistance,
			StopRadius:   cfg.Enemy.StopRadius,
		},
		Movable{Speed: cfg.Enemy.Speed},
		Health{Current: cfg.Enemy.Health, Max: cfg.Enemy.Health},
		Collider{Mask: MaskEnemy},
		JustSpawned{},
	)
}

// EnemyName returns the display name of the n-th spawned enemy, counting from 1.
func EnemyName(n int) string {
	return fmt.Sprintf("Enemy%d", n)
}

// randomSpawnPoint picks a point inside the arena at least clearance away from
// avoid. After a bounded number of misses it settles for the last candidate.
func randomSpawnPoint(rng *Rand, cfg *Tuning, avoid Vec2, hasAvoid bool) Vec2 {
	const attempts = 16

	margin := cfg.Enemy.Size / 2
	var candidate Vec2
	for range attempts {
		candidate = Vec2{
			X: rng.Range(margin, max(cfg.Arena.Width-margin, margin+1)),
			Y: rng.Range(margin, max(cfg.Arena.Height-margin, margin+1)),
		}
		if !hasAvoid || candidate.Dist(avoid) >= cfg.Spawner.SpawnClearance {
			break
		}
	}
	return candidate
}

type spawnerPlayers = ecs.Query[struct {
	*Transform
	*PlayerControlled
}]

func playerPosition(players *spawnerPlayers) (Vec2, bool) {
	_, player, ok := players.Single()
	if !ok {
		return Vec2{}, false
	}
	return player.Transform.Translation, true
}

// SpawnInitialEnemiesSystem spawns the startup enemies.
type SpawnInitialEnemiesSystem struct {
	Tuning  ecs.Singleton[Tuning]
	Rand    ecs.Singleton[Rand]
	Stats   ecs.Singleton[GameStats]
	Players spawnerPlayers
}

func (s *SpawnInitialEnemiesSystem) Execute(frame *ecs.UpdateFrame) {
	cfg := s.Tuning.Get()
	stats := s.Stats.Get()

	// The player is queued by the same startup pass, so avoid the arena center.
	avoid, ok := playerPosition(&s.Players)
	if !ok {
		avoid, ok = arenaCenter(cfg), true
	}

	for range cfg.Spawner.StartupEnemies {
		stats.EnemiesSpawned++
		SpawnEnemy(frame.Commands, cfg, EnemyName(stats.EnemiesSpawned), randomSpawnPoint(s.Rand.Get(), cfg, avoid, ok))
	}
}

// EnemySpawnerSystem tops the enemy count up to MinEnemies, one per tick.
type EnemySpawnerSystem struct {
	Tuning  ecs.Singleton[Tuning]
	Rand    ecs.Singleton[Rand]
	Stats   ecs.Singleton[GameStats]
	Enemies ecs.Query[struct{ *Enemy }]
	Players spawnerPlayers
}

func (s *EnemySpawnerSystem) Execute(frame *ecs.UpdateFrame) {
	cfg := s.Tuning.Get()
	if s.Enemies.Count() >= cfg.Spawner.MinEnemies {
		return
	}

	stats := s.Stats.Get()
	stats.EnemiesSpawned++
	avoid, ok := playerPosition(&s.Players)
	SpawnEnemy(frame.Commands, cfg, EnemyName(stats.EnemiesSpawned), randomSpawnPoint(s.Rand.Get(), cfg, avoid, ok))
}

// EnemySpawnLogSystem logs every freshly spawned enemy once.
type EnemySpawnLogSystem struct {
	Logger  ecs.Singleton[Logger]
	Spawned ecs.Query[struct {
		ecs.EntityId
		*Enemy
		*JustSpawned
		Name *DisplayName `ecs:"optional"`
	}]
}

func (s *EnemySpawnLogSystem) Execute(frame *ecs.UpdateFrame) {
	for id, enemy := range s.Spawned.Iter() {
		name := DisplayName("")
		if enemy.Name != nil {
			name = *enemy.Name
		}
		s.Logger.Get().Info("Spawned enemy", "name", name)
		frame.Commands.RemoveComponent(id, reflect.TypeFor[JustSpawned]())
	}
}

// IdleWanderSystem runs the enemy idle behaviour: wait for the delay, walk to
// the target, pick the next target near the old one and wait again.
type IdleWanderSystem struct {
	Tuning ecs.Singleton[Tuning]
	Rand   ecs.Singleton[Rand]
	Idlers ecs.Query[struct {
		*Transform
		*Idle
		*Movable
		*Enemy
	}]
}

func (s *IdleWanderSystem) Execute(frame *ecs.UpdateFrame) {
	cfg := s.Tuning.Get()
	rng := s.Rand.Get()

	for item := range s.Idlers.Values() {
		idle := item.Idle
		if !idle.Delay.Finished() {
			idle.Delay.Tick(frame.DeltaTime)
			continue
		}

		step := item.Movable.Speed * float32(frame.DeltaTime)
		position, moving := MoveTowards(item.Transform.Translation, idle.Target, step, idle.StopRadius)
		item.Transform.Translation = position
		if moving {
			continue
		}

		idle.Target = nextWanderTarget(idle, rng.SignedVec2(cfg.Enemy.WanderMin, cfg.Enemy.WanderMax))
		idle.Delay.Reset()
	}
}

// nextWanderTarget offsets the current target. Offset axes that would carry
// the target past WalkDistance from Home are turned back toward Home.
func nextWanderTarget(idle *Idle, offset Vec2) Vec2 {
	candidate := idle.Target.Add(offset)
	if idle.WalkDistance <= 0 || candidate.Dist(idle.Home) <= idle.WalkDistance {
		return candidate
	}

	offset.X = towards(offset.X, idle.Home.X-idle.Target.X)
	offset.Y = towards(offset.Y, idle.Home.Y-idle.Target.Y)
	return idle.Target.Add(offset)
}

// towards returns v with the sign of direction, or v unchanged when direction is zero.
func towards(v, direction float32) float32 {
	switch {
	case direction > 0 && v < 0, direction < 0 && v > 0:
		return -v
	}
	return v
}
