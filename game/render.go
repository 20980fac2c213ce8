package game

import (
	"cmp"
	"fmt"
	"image"
	"image/color"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/plus3/tanks/ecs"
)

var (
	backgroundColor = color.RGBA{235, 235, 225, 255}
	gridColor       = color.RGBA{215, 215, 205, 255}
	borderColor     = color.RGBA{90, 90, 90, 255}
	healthBackColor = color.RGBA{60, 60, 60, 200}
	healthColor     = color.RGBA{80, 220, 90, 255}
)

const gridSpacing = 100

type drawItem struct {
	transform GlobalTransform
	sprite    Sprite
	health    *Health
}

// RenderSystem draws the arena and every sprite, lowest Z first.
type RenderSystem struct {
	Screen  ecs.Singleton[Screen]
	Tuning  ecs.Singleton[Tuning]
	Cameras ecs.Query[cameraView]
	Sprites ecs.Query[struct {
		*GlobalTransform
		*Sprite
		Health *Health `ecs:"optional"`
	}]

	items      []drawItem
	whiteImage *ebiten.Image
}

func (s *RenderSystem) Execute(frame *ecs.UpdateFrame) {
	screen := s.Screen.Get()
	if screen.Image == nil {
		return
	}
	if s.whiteImage == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		s.whiteImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}

	camera := Camera{Zoom: 1}
	center := arenaCenter(s.Tuning.Get())
	if _, view, ok := s.Cameras.Single(); ok {
		camera = *view.Camera
		center = view.Transform.Translation
	}
	project := func(world Vec2) Vec2 {
		return camera.WorldToScreen(world, center, screen.Size())
	}

	screen.Image.Fill(backgroundColor)
	s.drawArena(screen.Image, project, camera.zoom())

	s.items = s.items[:0]
	for item := range s.Sprites.Values() {
		s.items = append(s.items, drawItem{
			transform: *item.GlobalTransform,
			sprite:    *item.Sprite,
			health:    item.Health,
		})
	}
	slices.SortStableFunc(s.items, func(a, b drawItem) int {
		return cmp.Compare(a.sprite.Z, b.sprite.Z)
	})

	for _, item := range s.items {
		s.drawSprite(screen.Image, item, project, camera.zoom())
	}
}

func (s *RenderSystem) drawArena(dst *ebiten.Image, project func(Vec2) Vec2, zoom float32) {
	arena := s.Tuning.Get().Arena
	for x := float32(0); x <= arena.Width; x += gridSpacing {
		a, b := project(Vec2{x, 0}), project(Vec2{x, arena.Height})
		vector.StrokeLine(dst, a.X, a.Y, b.X, b.Y, 1, gridColor, false)
	}
	for y := float32(0); y <= arena.Height; y += gridSpacing {
		a, b := project(Vec2{0, y}), project(Vec2{arena.Width, y})
		vector.StrokeLine(dst, a.X, a.Y, b.X, b.Y, 1, gridColor, false)
	}

	topLeft := project(Vec2{})
	vector.StrokeRect(dst, topLeft.X, topLeft.Y, arena.Width*zoom, arena.Height*zoom, 2, borderColor, false)
}

func (s *RenderSystem) drawSprite(dst *ebiten.Image, item drawItem, project func(Vec2) Vec2, zoom float32) {
	center := project(item.transform.Translation)
	size := item.sprite.Size.Scale(zoom)

	switch item.sprite.Shape {
	case ShapeCircle:
		vector.DrawFilledCircle(dst, center.X, center.Y, size.X/2, item.sprite.Color, true)
	case ShapeBarrel:
		s.fillQuad(dst, center, Vec2{0, -size.Y / 2}, size, item.transform.Rotation, item.sprite.Color)
	default:
		s.fillQuad(dst, center, size.Scale(-0.5), size, item.transform.Rotation, item.sprite.Color)
	}

	if item.health != nil && item.health.Current < item.health.Max {
		w, h := size.X, float32(4)
		x, y := center.X-w/2, center.Y-size.Y/2-h-4
		vector.DrawFilledRect(dst, x, y, w, h, healthBackColor, false)
		vector.DrawFilledRect(dst, x, y, w*item.health.Fraction(), h, healthColor, false)
	}
}

// fillQuad fills a size box whose top-left corner sits at offset from center
// before rotating around center.
func (s *RenderSystem) fillQuad(dst *ebiten.Image, center, offset, size Vec2, rotation float32, clr color.RGBA) {
	corners := [4]Vec2{
		offset,
		offset.Add(Vec2{size.X, 0}),
		offset.Add(size),
		offset.Add(Vec2{0, size.Y}),
	}

	var path vector.Path
	for i, corner := range corners {
		p := center.Add(corner.Rotate(rotation))
		if i == 0 {
			path.MoveTo(p.X, p.Y)
		} else {
			path.LineTo(p.X, p.Y)
		}
	}
	path.Close()

	vertices, indices := path.AppendVerticesAndIndicesForFilling(nil, nil)
	r, g, b, a := float32(clr.R)/255, float32(clr.G)/255, float32(clr.B)/255, float32(clr.A)/255
	for i := range vertices {
		vertices[i].SrcX, vertices[i].SrcY = 1, 1
		vertices[i].ColorR, vertices[i].ColorG, vertices[i].ColorB, vertices[i].ColorA = r, g, b, a
	}

	op := &ebiten.DrawTrianglesOptions{}
	op.AntiAlias = true
	dst.DrawTriangles(vertices, indices, s.whiteImage, op)
}

// HUDSystem prints the game stats in the top-left corner.
type HUDSystem struct {
	Screen ecs.Singleton[Screen]
	Stats  ecs.Singleton[GameStats]
	Player ecs.Query[struct {
		*Health
		*PlayerControlled
	}]

	face *text.GoXFace
}

func (s *HUDSystem) Execute(frame *ecs.UpdateFrame) {
	screen := s.Screen.Get()
	if screen.Image == nil {
		return
	}
	if s.face == nil {
		s.face = text.NewGoXFace(basicfont.Face7x13)
	}

	op := &text.DrawOptions{}
	op.GeoM.Translate(8, 8)
	op.ColorScale.ScaleWithColor(color.Black)
	op.LineSpacing = 16

	text.Draw(screen.Image, HUDText(s.Stats.Get(), s.playerHealth()), s.face, op)
}

func (s *HUDSystem) playerHealth() *Health {
	if _, player, ok := s.Player.Single(); ok {
		return player.Health
	}
	return nil
}

// HUDText renders the stats block shown by HUDSystem.
func HUDText(stats *GameStats, playerHealth *Health) string {
	health := "-"
	if playerHealth != nil {
		health = fmt.Sprintf("%d/%d", playerHealth.Current, playerHealth.Max)
	}
	return fmt.Sprintf(
		"time %.1fs  health %s\nenemies %d  projectiles %d  particles %d\nshots %d  hits %d  kills %d  spawned %d",
		stats.Elapsed, health,
		stats.Enemies, stats.Projectiles, stats.Particles,
		stats.ShotsFired, stats.Hits, stats.Kills, stats.EnemiesSpawned,
	)
}
