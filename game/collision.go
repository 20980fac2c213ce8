package game

import (
	"image/color"

	"github.com/plus3/tanks/ecs"
)

var hitColor = color.RGBA{255, 120, 40, 255}

// CollisionDamageSystem applies projectile damage on overlap.
//
// A projectile hits the first target whose collider mask intersects its own and
// whose box overlaps, then despawns. Targets at zero health despawn once, even
// when several projectiles reach them in the same tick.
type CollisionDamageSystem struct {
	Tuning ecs.Singleton[Tuning]
	Rand   ecs.Singleton[Rand]
	Stats  ecs.Singleton[GameStats]
	Logger ecs.Singleton[Logger]

	Projectiles ecs.Query[struct {
		ecs.EntityId
		*GlobalTransform
		*Sprite
		*Collider
		*Projectile
	}]
	Targets ecs.Query[struct {
		ecs.EntityId
		*GlobalTransform
		*Sprite
		*Collider
		*Health
		Projectile *Projectile  `ecs:"without"`
		Name       *DisplayName `ecs:"optional"`
	}]

	dead map[ecs.EntityId]bool
}

func (s *CollisionDamageSystem) Execute(frame *ecs.UpdateFrame) {
	if s.dead == nil {
		s.dead = make(map[ecs.EntityId]bool)
	}
	clear(s.dead)

	cfg := s.Tuning.Get()
	stats := s.Stats.Get()
	logger := s.Logger.Get()

	for projectileId, projectile := range s.Projectiles.Iter() {
		box := Rect{Center: projectile.GlobalTransform.Translation, Size: projectile.Sprite.Size}

		for targetId, target := range s.Targets.Iter() {
			if s.dead[targetId] || !projectile.Collider.Mask.Intersects(target.Collider.Mask) {
				continue
			}
			if !box.Overlaps(Rect{Center: target.GlobalTransform.Translation, Size: target.Sprite.Size}) {
				continue
			}

			stats.Hits++
			alive := target.Health.ApplyDamage(projectile.Projectile.Damage)
			logger.Debug("Projectile hit", "target", targetId, "damage", projectile.Projectile.Damage, "health", target.Health.Current)

			if !alive {
				s.dead[targetId] = true
				stats.Kills++
				frame.Commands.Delete(targetId)
				name := DisplayName("")
				if target.Name != nil {
					name = *target.Name
				}
				logger.Info("Destroyed", "target", targetId, "name", name)
			}

			frame.Commands.Delete(projectileId)
			SpawnParticles(frame.Commands, s.Rand.Get(), ParticleBurst{
				Origin:   projectile.GlobalTransform.Translation,
				Facing:   projectile.GlobalTransform.Rotation,
				Spread:   radians(180),
				Count:    cfg.Particle.HitCount,
				Speed:    cfg.Particle.Speed,
				Lifetime: cfg.Particle.Lifetime,
				Size:     cfg.Particle.Size,
				Color:    hitColor,
			})
			break
		}
	}
}
