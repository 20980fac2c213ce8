package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/tanks/ecs"
	"github.com/plus3/tanks/game"
)

// Pilot plays the game through a ScriptedInput. It aims at the nearest
// enemy, fires every FireEvery seconds and drives in a slow circle.
type Pilot struct {
	Input     *game.ScriptedInput
	FireEvery float64
	// DriveFor and TurnFor alternate: drive forward, then turn right.
	DriveFor float64
	TurnFor  float64

	elapsed   float64
	lastShot  float64
	triggered bool
}

func NewPilot(input *game.ScriptedInput, fireEvery float64) *Pilot {
	return &Pilot{
		Input:     input,
		FireEvery: fireEvery,
		DriveFor:  2,
		TurnFor:   0.5,
		lastShot:  -fireEvery,
	}
}

type enemyView struct {
	*game.Transform
	*game.Enemy
}

// Update sets the input for the next step of dt seconds.
func (p *Pilot) Update(world *game.World, dt float64) {
	p.elapsed += dt

	if target, ok := p.nearestEnemy(world); ok {
		if point, ok := world.ScreenPoint(target); ok {
			p.Input.SetCursor(int(point.X), int(point.Y))
		}
	}

	// A shot needs a press edge, so the trigger is released for a step after every shot.
	fire := !p.triggered && p.FireEvery > 0 && p.elapsed-p.lastShot >= p.FireEvery
	if fire {
		p.lastShot = p.elapsed
	}
	p.triggered = fire
	p.Input.SetMouseButton(ebiten.MouseButtonLeft, fire)

	driving := true
	if cycle := p.DriveFor + p.TurnFor; cycle > 0 {
		driving = math.Mod(p.elapsed, cycle) < p.DriveFor
	}
	p.Input.SetKey(ebiten.KeyW, driving)
	p.Input.SetKey(ebiten.KeyD, !driving)
}

func (p *Pilot) nearestEnemy(world *game.World) (game.Vec2, bool) {
	_, player, ok := playerPosition(world.Storage)
	if !ok {
		return game.Vec2{}, false
	}

	query := ecs.NewQuery[enemyView](world.Storage)
	query.Execute()

	var best game.Vec2
	found := false
	for enemy := range query.Values() {
		position := enemy.Transform.Translation
		if !found || position.Dist(player) < best.Dist(player) {
			best, found = position, true
		}
	}
	return best, found
}

func playerPosition(storage *ecs.Storage) (ecs.EntityId, game.Vec2, bool) {
	query := ecs.NewQuery[struct {
		*game.Transform
		*game.PlayerControlled
	}](storage)
	query.Execute()

	id, player, ok := query.Single()
	if !ok {
		return 0, game.Vec2{}, false
	}
	return id, player.Transform.Translation, true
}
