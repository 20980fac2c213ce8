package game

import (
	"math"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/tanks/config"
)

// Rand is the seeded source for all gameplay randomness.
type Rand struct {
	*rand.Rand
}

func NewRand(seed uint64) Rand {
	return Rand{rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Range returns a value in [lo, hi).
func (r Rand) Range(lo, hi float32) float32 {
	return lo + r.Float32()*(hi-lo)
}

// SignedRange returns a value whose magnitude is in [lo, hi) with a random sign.
func (r Rand) SignedRange(lo, hi float32) float32 {
	v := r.Range(lo, hi)
	if r.IntN(2) == 0 {
		return -v
	}
	return v
}

// SignedVec2 returns a vector whose components are independent SignedRange values.
func (r Rand) SignedVec2(lo, hi float32) Vec2 {
	return Vec2{r.SignedRange(lo, hi), r.SignedRange(lo, hi)}
}

type Logger struct {
	*log.Logger
}

// Tuning is the live config snapshot systems read every frame. The debug UI
// edits it in place.
type Tuning struct {
	config.Config
}

func radians(degrees float32) float32 {
	return degrees * math.Pi / 180
}

// MousePosition is the cursor in screen pixels and in world coordinates.
type MousePosition struct {
	Screen Vec2
	World  Vec2
}

// Screen is the render target for the current Draw call.
type Screen struct {
	Width, Height int
	Image         *ebiten.Image
}

func (s *Screen) Size() Vec2 {
	return Vec2{float32(s.Width), float32(s.Height)}
}

// GameStats is updated by the gameplay systems and shown on the HUD.
type GameStats struct {
	ShotsFired     int
	Hits           int
	Kills          int
	EnemiesSpawned int

	Enemies     int
	Projectiles int
	Particles   int
	Entities    int
	Elapsed     float64
}
