package game

import (
	"image/color"
	"strings"

	"github.com/plus3/tanks/ecs"
)

// Transform is the entity's placement relative to its Parent, or to the world
// when it has none.
type Transform struct {
	Translation Vec2
	Rotation    float32
}

// GlobalTransform is the world placement, written by TransformPropagateSystem.
type GlobalTransform struct {
	Translation Vec2
	Rotation    float32
}

type Parent struct {
	Ref *ecs.EntityRef
}

type Shape int

const (
	ShapeRect Shape = iota
	ShapeCircle
	// ShapeBarrel is a rect anchored at its left edge, so it sticks out of
	// the entity's origin along its facing.
	ShapeBarrel
)

type Sprite struct {
	Size  Vec2
	Color color.RGBA
	Shape Shape
	Z     int
}

type DisplayName string

type Movable struct {
	Speed float32
	// RotationSpeed in radians per second.
	RotationSpeed float32
}

type PlayerControlled struct{}

// MouseControlled marks the turret that aims at the cursor and fires.
type MouseControlled struct{}

type Enemy struct{}

// Idle drives the wander behaviour: wait for Delay, walk to Target, pick a new
// Target near the old one, repeat.
type Idle struct {
	Delay        Timer
	Target       Vec2
	Home         Vec2
	WalkDistance float32
	StopRadius   float32
}

type Health struct {
	Current int
	Max     int
}

// ApplyDamage subtracts amount, floors at zero and reports whether the entity
// is still alive.
func (h *Health) ApplyDamage(amount int) bool {
	h.Current = max(h.Current-amount, 0)
	return h.Current > 0
}

func (h *Health) Fraction() float32 {
	if h.Max <= 0 {
		return 0
	}
	return float32(h.Current) / float32(h.Max)
}

// CollisionMask is a set of collision layers.
type CollisionMask uint8

const (
	MaskPlayer CollisionMask = 1 << iota
	MaskEnemy
)

// Intersects reports whether the two masks share a layer.
func (m CollisionMask) Intersects(o CollisionMask) bool {
	return m&o != 0
}

func (m CollisionMask) String() string {
	if m == 0 {
		return "none"
	}
	var names []string
	if m&MaskPlayer != 0 {
		names = append(names, "player")
	}
	if m&MaskEnemy != 0 {
		names = append(names, "enemy")
	}
	return strings.Join(names, "|")
}

type Collider struct {
	Mask CollisionMask
}

type Projectile struct {
	Damage int
}

type LinearMove struct {
	Direction Vec2
	Speed     float32
}

// HomeTowardsEnemies steers the entity at the nearest Enemy every tick.
// TurnRate is in radians per second; zero re-aims instantly.
type HomeTowardsEnemies struct {
	TurnRate float32
}

// Lifetime despawns the entity when Timer finishes.
type Lifetime struct {
	Timer Timer
}

type Particle struct{}

// JustSpawned is removed by EnemySpawnLogSystem after it logs the entity.
type JustSpawned struct{}

// Camera is attached to the camera entity together with a Transform.
type Camera struct {
	Zoom         float32
	FollowPlayer bool
	Smoothing    float32
}

// ScreenToWorld maps a screen pixel to world coordinates for a camera centered
// at center on a screen of the given size.
func (c *Camera) ScreenToWorld(screen Vec2, center Vec2, screenSize Vec2) Vec2 {
	return center.Add(screen.Sub(screenSize.Scale(0.5)).Scale(1 / c.zoom()))
}

// WorldToScreen is the inverse of ScreenToWorld.
func (c *Camera) WorldToScreen(world Vec2, center Vec2, screenSize Vec2) Vec2 {
	return world.Sub(center).Scale(c.zoom()).Add(screenSize.Scale(0.5))
}

func (c *Camera) zoom() float32 {
	if c.Zoom <= 0 {
		return 1
	}
	return c.Zoom
}

func registerComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Transform](registry)
	ecs.RegisterComponent[GlobalTransform](registry)
	ecs.RegisterComponent[Parent](registry)
	ecs.RegisterComponent[Sprite](registry)
	ecs.RegisterComponent[DisplayName](registry)
	ecs.RegisterComponent[Movable](registry)
	ecs.RegisterComponent[PlayerControlled](registry)
	ecs.RegisterComponent[MouseControlled](registry)
	ecs.RegisterComponent[Enemy](registry)
	ecs.RegisterComponent[Idle](registry)
	ecs.RegisterComponent[Health](registry)
	ecs.RegisterComponent[Collider](registry)
	ecs.RegisterComponent[Projectile](registry)
	ecs.RegisterComponent[LinearMove](registry)
	ecs.RegisterComponent[HomeTowardsEnemies](registry)
	ecs.RegisterComponent[Lifetime](registry)
	ecs.RegisterComponent[Particle](registry)
	ecs.RegisterComponent[JustSpawned](registry)
	ecs.RegisterComponent[Camera](registry)
}
