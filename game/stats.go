package game

import "github.com/plus3/tanks/ecs"

// StatsSystem refreshes the live counts in GameStats.
type StatsSystem struct {
	Stats       ecs.Singleton[GameStats]
	Enemies     ecs.Query[struct{ *Enemy }]
	Projectiles ecs.Query[struct{ *Projectile }]
	Particles   ecs.Query[struct{ *Particle }]
}

func (s *StatsSystem) Execute(frame *ecs.UpdateFrame) {
	stats := s.Stats.Get()
	stats.Enemies = s.Enemies.Count()
	stats.Projectiles = s.Projectiles.Count()
	stats.Particles = s.Particles.Count()
	stats.Entities = frame.Storage.EntityCount()
	stats.Elapsed = frame.Elapsed
}
