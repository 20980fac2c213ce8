package game

import (
	"image/color"

	"github.com/plus3/tanks/ecs"
)

var (
	tankColor       = color.RGBA{200, 40, 40, 255}
	turretColor     = color.RGBA{120, 20, 20, 255}
	projectileColor = color.RGBA{40, 80, 230, 255}
	muzzleColor     = color.RGBA{255, 200, 80, 255}
)

// SpawnPlayerSystem spawns the tank in the middle of the arena and, once the
// tank exists, its turret as a child.
type SpawnPlayerSystem struct {
	Tuning ecs.Singleton[Tuning]
	Logger ecs.Singleton[Logger]
}

func (s *SpawnPlayerSystem) Execute(frame *ecs.UpdateFrame) {
	cfg := s.Tuning.Get()
	center := arenaCenter(cfg)
	size := cfg.Player.Size

	frame.Commands.Spawn(
		Transform{Translation: center},
		GlobalTransform{Translation: center},
		Sprite{Size: Vec2{size, size}, Color: tankColor, Shape: ShapeRect},
		Movable{Speed: cfg.Player.Speed, RotationSpeed: radians(cfg.Player.RotationSpeed)},
		PlayerControlled{},
		Health{Current: cfg.Player.Health, Max: cfg.Player.Health},
		Collider{Mask: MaskPlayer},
		DisplayName("Player"),
	)

	storage := frame.Storage
	logger := s.Logger.Get()
	turretSize := Vec2{cfg.Player.TurretLength, cfg.Player.TurretWidth}
	frame.Commands.Defer(func() {
		query := ecs.NewQuery[struct {
			ecs.EntityId
			*PlayerControlled
		}](storage)
		query.Execute()

		tank, _, ok := query.Single()
		if !ok {
			logger.Error("Player tank missing after spawn")
			return
		}

		storage.Spawn(
			Transform{},
			GlobalTransform{Translation: center},
			Parent{Ref: storage.CreateEntityRef(tank)},
			Sprite{Size: turretSize, Color: turretColor, Shape: ShapeBarrel, Z: 1},
			MouseControlled{},
			DisplayName("Turret"),
		)
		logger.Info("Spawned player", "tank", tank)
	})
}

// PlayerMovementSystem drives the tank along its facing and turns it.
type PlayerMovementSystem struct {
	Actions ecs.Singleton[ActionState]
	Players ecs.Query[struct {
		*Transform
		*Movable
		*PlayerControlled
	}]
}

func (s *PlayerMovementSystem) Execute(frame *ecs.UpdateFrame) {
	actions := s.Actions.Get()
	dt := float32(frame.DeltaTime)

	for player := range s.Players.Values() {
		transform := player.Transform
		forward := FromAngle(transform.Rotation)
		step := player.Movable.Speed * dt

		if actions.Pressed(ActionMoveForward) {
			transform.Translation = transform.Translation.Add(forward.Scale(step))
		}
		if actions.Pressed(ActionMoveBackward) {
			transform.Translation = transform.Translation.Sub(forward.Scale(step))
		}

		turn := player.Movable.RotationSpeed * dt
		if actions.Pressed(ActionTurnLeft) {
			transform.Rotation -= turn
		}
		if actions.Pressed(ActionTurnRight) {
			transform.Rotation += turn
		}
		transform.Rotation = NormalizeAngle(transform.Rotation)
	}
}

// TurretAimSystem turns every MouseControlled turret so that its world facing
// points at the cursor.
type TurretAimSystem struct {
	Mouse   ecs.Singleton[MousePosition]
	Turrets ecs.Query[struct {
		ecs.EntityId
		*Transform
		*MouseControlled
	}]
}

func (s *TurretAimSystem) Execute(frame *ecs.UpdateFrame) {
	cursor := s.Mouse.Get().World

	for id, turret := range s.Turrets.Iter() {
		world, ok := WorldTransform(frame.Storage, id)
		if !ok {
			continue
		}
		toCursor := cursor.Sub(world.Translation)
		if toCursor.LenSq() == 0 {
			continue
		}
		parentRotation := world.Rotation - turret.Transform.Rotation
		turret.Transform.Rotation = NormalizeAngle(toCursor.Angle() - parentRotation)
	}
}

// PlayerFiringSystem fires one homing projectile per turret when FireCannon is
// pressed, plus a puff of muzzle particles.
type PlayerFiringSystem struct {
	Actions ecs.Singleton[ActionState]
	Tuning  ecs.Singleton[Tuning]
	Rand    ecs.Singleton[Rand]
	Stats   ecs.Singleton[GameStats]
	Logger  ecs.Singleton[Logger]
	Turrets ecs.Query[struct {
		ecs.EntityId
		*GlobalTransform
		*MouseControlled
		Sprite *Sprite `ecs:"optional"`
	}]
}

func (s *PlayerFiringSystem) Execute(frame *ecs.UpdateFrame) {
	if !s.Actions.Get().JustPressed(ActionFireCannon) {
		return
	}

	cfg := s.Tuning.Get()
	rng := s.Rand.Get()

	for id, turret := range s.Turrets.Iter() {
		facing := turret.GlobalTransform.Rotation
		muzzle := turret.GlobalTransform.Translation
		if turret.Sprite != nil && turret.Sprite.Shape == ShapeBarrel {
			muzzle = muzzle.Add(FromAngle(facing).Scale(turret.Sprite.Size.X))
		}

		SpawnProjectile(frame.Commands, cfg, muzzle, facing)
		SpawnParticles(frame.Commands, rng, ParticleBurst{
			Origin:   muzzle,
			Facing:   facing,
			Spread:   radians(cfg.Particle.Spread),
			Count:    cfg.Particle.MuzzleCount,
			Speed:    cfg.Particle.Speed,
			Lifetime: cfg.Particle.Lifetime,
			Size:     cfg.Particle.Size,
			Color:    muzzleColor,
		})

		s.Stats.Get().ShotsFired++
		s.Logger.Get().Debug("Fired projectile", "turret", id, "x", muzzle.X, "y", muzzle.Y, "facing", facing)
	}
}
