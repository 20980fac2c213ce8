package game

import (
	"image/color"

	"github.com/plus3/tanks/ecs"
)

// SpawnProjectile queues a homing projectile at origin flying along facing.
func SpawnProjectile(commands *ecs.Commands, cfg *Tuning, origin Vec2, facing float32) {
	size := cfg.Projectile.Size
	commands.Spawn(
		Transform{Translation: origin, Rotation: facing},
		GlobalTransform{Translation: origin, Rotation: facing},
		Sprite{Size: Vec2{size, size}, Color: projectileColor, Shape: ShapeRect, Z: 2},
		Projectile{Damage: cfg.Projectile.Damage},
		Collider{Mask: MaskEnemy},
		LinearMove{Direction: FromAngle(facing), Speed: cfg.Projectile.Speed},
		HomeTowardsEnemies{TurnRate: radians(cfg.Projectile.TurnRate)},
		Lifetime{Timer: NewTimer(cfg.Projectile.Lifetime, false)},
	)
}

// ParticleBurst describes a cone of short lived particles.
type ParticleBurst struct {
	Origin   Vec2
	Facing   float32
	Spread   float32
	Count    int
	Speed    float32
	Lifetime float64
	Size     float32
	Color    color.RGBA
}

// SpawnParticles queues Count particles flying out of Origin within Spread of Facing.
func SpawnParticles(commands *ecs.Commands, rng *Rand, burst ParticleBurst) {
	for range burst.Count {
		angle := burst.Facing + rng.Range(-burst.Spread, burst.Spread)
		speed := burst.Speed * rng.Range(0.5, 1.5)
		commands.Spawn(
			Transform{Translation: burst.Origin, Rotation: angle},
			GlobalTransform{Translation: burst.Origin, Rotation: angle},
			Sprite{Size: Vec2{burst.Size, burst.Size}, Color: burst.Color, Shape: ShapeCircle, Z: 3},
			Particle{},
			LinearMove{Direction: FromAngle(angle), Speed: speed},
			Lifetime{Timer: NewTimer(burst.Lifetime, false)},
		)
	}
}

// HomingSystem turns every homing entity toward the nearest enemy and points
// its LinearMove along the new facing. With no enemies it keeps flying straight.
type HomingSystem struct {
	Homing ecs.Query[struct {
		*Transform
		*LinearMove
		*HomeTowardsEnemies
	}]
	Enemies ecs.Query[struct {
		*Transform
		*Enemy
		Homing *HomeTowardsEnemies `ecs:"without"`
	}]
}

func (s *HomingSystem) Execute(frame *ecs.UpdateFrame) {
	if s.Enemies.Count() == 0 {
		return
	}

	for item := range s.Homing.Values() {
		position := item.Transform.Translation
		target, ok := s.nearestEnemy(position)
		if !ok {
			continue
		}

		toTarget := target.Sub(position)
		if toTarget.LenSq() == 0 {
			continue
		}

		rotation := toTarget.Angle()
		if rate := item.HomeTowardsEnemies.TurnRate; rate > 0 {
			rotation = RotateTowards(item.Transform.Rotation, rotation, rate*float32(frame.DeltaTime))
		}
		item.Transform.Rotation = rotation
		item.LinearMove.Direction = FromAngle(item.Transform.Rotation)
	}
}

func (s *HomingSystem) nearestEnemy(position Vec2) (Vec2, bool) {
	var best Vec2
	bestDist := float32(-1)
	for enemy := range s.Enemies.Values() {
		dist := enemy.Transform.Translation.Sub(position).LenSq()
		if bestDist < 0 || dist < bestDist {
			best = enemy.Transform.Translation
			bestDist = dist
		}
	}
	return best, bestDist >= 0
}

// LinearMoveSystem advances every LinearMove entity.
type LinearMoveSystem struct {
	Movers ecs.Query[struct {
		*Transform
		*LinearMove
	}]
}

func (s *LinearMoveSystem) Execute(frame *ecs.UpdateFrame) {
	dt := float32(frame.DeltaTime)
	for mover := range s.Movers.Values() {
		step := mover.LinearMove.Direction.Scale(mover.LinearMove.Speed * dt)
		mover.Transform.Translation = mover.Transform.Translation.Add(step)
	}
}

// LifetimeSystem despawns entities whose Lifetime has run out and ticks the rest.
type LifetimeSystem struct {
	Logger ecs.Singleton[Logger]
	Timed  ecs.Query[struct {
		ecs.EntityId
		*Lifetime
		Projectile *Projectile `ecs:"optional"`
	}]
}

func (s *LifetimeSystem) Execute(frame *ecs.UpdateFrame) {
	for id, item := range s.Timed.Iter() {
		if item.Lifetime.Timer.Finished() {
			frame.Commands.Delete(id)
			if item.Projectile != nil {
				s.Logger.Get().Debug("Projectile expired", "id", id)
			}
			continue
		}
		item.Lifetime.Timer.Tick(frame.DeltaTime)
	}
}
