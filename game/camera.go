package game

import (
	"github.com/plus3/tanks/ecs"
)

type cameraView struct {
	*Camera
	*Transform
}

// SpawnCameraSystem places the camera over the middle of the arena.
type SpawnCameraSystem struct {
	Tuning ecs.Singleton[Tuning]
}

func (s *SpawnCameraSystem) Execute(frame *ecs.UpdateFrame) {
	cfg := s.Tuning.Get()
	frame.Commands.Spawn(
		Camera{
			Zoom:         cfg.Camera.Zoom,
			FollowPlayer: cfg.Camera.FollowPlayer,
			Smoothing:    cfg.Camera.Smoothing,
		},
		Transform{Translation: arenaCenter(cfg)},
		DisplayName("Camera"),
	)
}

// MouseTrackingSystem converts the cursor into world coordinates through the camera.
type MouseTrackingSystem struct {
	Input   ecs.Singleton[Input]
	Screen  ecs.Singleton[Screen]
	Mouse   ecs.Singleton[MousePosition]
	Cameras ecs.Query[cameraView]
}

func (s *MouseTrackingSystem) Execute(frame *ecs.UpdateFrame) {
	source := s.Input.Get().Source
	if source == nil {
		return
	}

	x, y := source.CursorPosition()
	mouse := s.Mouse.Get()
	mouse.Screen = Vec2{float32(x), float32(y)}

	_, camera, ok := s.Cameras.Single()
	if !ok {
		mouse.World = mouse.Screen
		return
	}
	mouse.World = camera.Camera.ScreenToWorld(mouse.Screen, camera.Transform.Translation, s.Screen.Get().Size())
}

// CameraFollowSystem eases the camera toward the player when FollowPlayer is set.
type CameraFollowSystem struct {
	Cameras ecs.Query[cameraView]
	Players ecs.Query[struct {
		*Transform
		*PlayerControlled
	}]
}

func (s *CameraFollowSystem) Execute(frame *ecs.UpdateFrame) {
	_, camera, ok := s.Cameras.Single()
	if !ok || !camera.Camera.FollowPlayer {
		return
	}
	_, player, ok := s.Players.Single()
	if !ok {
		return
	}

	t := min(camera.Camera.Smoothing*float32(frame.DeltaTime), 1)
	if camera.Camera.Smoothing <= 0 {
		t = 1
	}
	delta := player.Transform.Translation.Sub(camera.Transform.Translation)
	camera.Transform.Translation = camera.Transform.Translation.Add(delta.Scale(t))
}

func arenaCenter(cfg *Tuning) Vec2 {
	return Vec2{cfg.Arena.Width / 2, cfg.Arena.Height / 2}
}
