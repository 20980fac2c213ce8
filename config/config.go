// Package config holds every tunable of the game along with its default.
// Files are YAML and only need to name the values they change.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Window     Window     `yaml:"window"`
	Log        Log        `yaml:"log"`
	Sim        Sim        `yaml:"sim"`
	Arena      Arena      `yaml:"arena"`
	Camera     Camera     `yaml:"camera"`
	Player     Player     `yaml:"player"`
	Projectile Projectile `yaml:"projectile"`
	Particle   Particle   `yaml:"particle"`
	Enemy      Enemy      `yaml:"enemy"`
	Spawner    Spawner    `yaml:"spawner"`
	Debug      Debug      `yaml:"debug"`
}

type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type Log struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is one of text, json, logfmt.
	Format     string `yaml:"format"`
	Timestamps bool   `yaml:"timestamps"`
	Prefix     string `yaml:"prefix"`
}

type Sim struct {
	TickRate int `yaml:"tick_rate"`
	// MaxDelta caps a single frame step in seconds.
	MaxDelta float64 `yaml:"max_delta"`
	// Seed for gameplay randomness. Zero picks one at startup.
	Seed uint64 `yaml:"seed"`
}

type Arena struct {
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
}

type Camera struct {
	Zoom         float32 `yaml:"zoom"`
	FollowPlayer bool    `yaml:"follow_player"`
	// Smoothing is the follow rate per second.
	Smoothing float32 `yaml:"smoothing"`
}

type Player struct {
	Speed float32 `yaml:"speed"`
	// RotationSpeed in degrees per second.
	RotationSpeed float32 `yaml:"rotation_speed"`
	Size          float32 `yaml:"size"`
	TurretLength  float32 `yaml:"turret_length"`
	TurretWidth   float32 `yaml:"turret_width"`
	Health        int     `yaml:"health"`
}

type Projectile struct {
	Speed    float32 `yaml:"speed"`
	Lifetime float64 `yaml:"lifetime"`
	Size     float32 `yaml:"size"`
	Damage   int     `yaml:"damage"`
	// TurnRate limits homing in degrees per second. Zero re-aims instantly.
	TurnRate float32 `yaml:"turn_rate"`
}

type Particle struct {
	MuzzleCount int     `yaml:"muzzle_count"`
	HitCount    int     `yaml:"hit_count"`
	Speed       float32 `yaml:"speed"`
	Lifetime    float64 `yaml:"lifetime"`
	Size        float32 `yaml:"size"`
	// Spread is the half-angle of the particle cone in degrees.
	Spread float32 `yaml:"spread"`
}

type Enemy struct {
	Health     int     `yaml:"health"`
	Size       float32 `yaml:"size"`
	Speed      float32 `yaml:"speed"`
	StopRadius float32 `yaml:"stop_radius"`
	IdleDelay  float64 `yaml:"idle_delay"`
	WanderMin  float32 `yaml:"wander_min"`
	WanderMax  float32 `yaml:"wander_max"`
	// WalkDistance bounds how far wandering may lead from the spawn point.
	// Zero disables the bound.
	WalkDistance  float32    `yaml:"walk_distance"`
	InitialOffset [2]float32 `yaml:"initial_offset"`
}

type Spawner struct {
	MinEnemies     int     `yaml:"min_enemies"`
	StartupEnemies int     `yaml:"startup_enemies"`
	SpawnClearance float32 `yaml:"spawn_clearance"`
}

type Debug struct {
	// UI shows the debug windows at startup. F1 toggles them in any case.
	UI            bool `yaml:"ui"`
	HistoryFrames int  `yaml:"history_frames"`
}

func Default() Config {
	return Config{
		Window: Window{Width: 1280, Height: 720, Title: "Tanks"},
		Log:    Log{Level: "debug", Format: "text", Prefix: "tanks"},
		Sim:    Sim{TickRate: 60, MaxDelta: 0.1},
		Arena:  Arena{Width: 1600, Height: 1200},
		Camera: Camera{Zoom: 1, Smoothing: 5},
		Player: Player{
			Speed:         100,
			RotationSpeed: 80,
			Size:          64,
			TurretLength:  48,
			TurretWidth:   16,
			Health:        100,
		},
		Projectile: Projectile{Speed: 100, Lifetime: 20, Size: 20, Damage: 25},
		Particle: Particle{
			MuzzleCount: 6,
			HitCount:    10,
			Speed:       60,
			Lifetime:    0.4,
			Size:        4,
			Spread:      30,
		},
		Enemy: Enemy{
			Health:        100,
			Size:          64,
			Speed:         50,
			StopRadius:    40,
			IdleDelay:     2,
			WanderMin:     50,
			WanderMax:     80,
			WalkDistance:  200,
			InitialOffset: [2]float32{100, 100},
		},
		Spawner: Spawner{MinEnemies: 3, StartupEnemies: 2, SpawnClearance: 200},
		Debug:   Debug{HistoryFrames: 120},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOptional is Load, except that an empty path yields the defaults.
func LoadOptional(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every out-of-range value. Each error wraps ErrInvalid.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.Window.Width > 0 && c.Window.Height > 0, "window size %dx%d", c.Window.Width, c.Window.Height)
	check(oneOf(c.Log.Level, "debug", "info", "warn", "error"), "log.level %q", c.Log.Level)
	check(oneOf(c.Log.Format, "text", "json", "logfmt"), "log.format %q", c.Log.Format)
	check(c.Sim.TickRate > 0, "sim.tick_rate %d must be positive", c.Sim.TickRate)
	check(c.Sim.MaxDelta > 0, "sim.max_delta %v must be positive", c.Sim.MaxDelta)
	check(c.Arena.Width > 0 && c.Arena.Height > 0, "arena size %vx%v", c.Arena.Width, c.Arena.Height)
	check(c.Camera.Zoom > 0, "camera.zoom %v must be positive", c.Camera.Zoom)
	check(c.Player.Speed >= 0, "player.speed %v is negative", c.Player.Speed)
	check(c.Player.RotationSpeed >= 0, "player.rotation_speed %v is negative", c.Player.RotationSpeed)
	check(c.Player.Size > 0, "player.size %v must be positive", c.Player.Size)
	check(c.Player.Health > 0, "player.health %d must be positive", c.Player.Health)
	check(c.Projectile.Speed > 0, "projectile.speed %v must be positive", c.Projectile.Speed)
	check(c.Projectile.Lifetime > 0, "projectile.lifetime %v must be positive", c.Projectile.Lifetime)
	check(c.Projectile.Size > 0, "projectile.size %v must be positive", c.Projectile.Size)
	check(c.Projectile.Damage > 0, "projectile.damage %d must be positive", c.Projectile.Damage)
	check(c.Projectile.TurnRate >= 0, "projectile.turn_rate %v is negative", c.Projectile.TurnRate)
	check(c.Particle.MuzzleCount >= 0 && c.Particle.HitCount >= 0, "particle counts must not be negative")
	check(c.Particle.Speed >= 0, "particle.speed %v is negative", c.Particle.Speed)
	check(c.Particle.Size > 0, "particle.size %v must be positive", c.Particle.Size)
	check(c.Particle.Spread >= 0, "particle.spread %v is negative", c.Particle.Spread)
	check(c.Particle.Lifetime > 0, "particle.lifetime %v must be positive", c.Particle.Lifetime)
	check(c.Enemy.Health > 0, "enemy.health %d must be positive", c.Enemy.Health)
	check(c.Enemy.Size > 0, "enemy.size %v must be positive", c.Enemy.Size)
	check(c.Enemy.Speed >= 0, "enemy.speed %v is negative", c.Enemy.Speed)
	check(c.Enemy.StopRadius >= 0, "enemy.stop_radius %v is negative", c.Enemy.StopRadius)
	check(c.Enemy.IdleDelay >= 0, "enemy.idle_delay %v is negative", c.Enemy.IdleDelay)
	check(c.Enemy.WanderMin >= 0 && c.Enemy.WanderMin < c.Enemy.WanderMax,
		"enemy wander range [%v, %v) is empty", c.Enemy.WanderMin, c.Enemy.WanderMax)
	check(c.Enemy.WalkDistance >= 0, "enemy.walk_distance %v is negative", c.Enemy.WalkDistance)
	check(c.Spawner.MinEnemies >= 0, "spawner.min_enemies %d is negative", c.Spawner.MinEnemies)
	check(c.Spawner.StartupEnemies >= 0, "spawner.startup_enemies %d is negative", c.Spawner.StartupEnemies)
	check(c.Spawner.SpawnClearance >= 0, "spawner.spawn_clearance %v is negative", c.Spawner.SpawnClearance)

	return errors.Join(errs...)
}

// TickInterval is the fixed simulation step in seconds.
func (c Config) TickInterval() float64 {
	return 1 / float64(c.Sim.TickRate)
}

func oneOf(value string, options ...string) bool {
	for _, option := range options {
		if value == option {
			return true
		}
	}
	return false
}
