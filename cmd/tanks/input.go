package main

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/tanks/ecs"
	"github.com/plus3/tanks/ecs/debugui"
	"github.com/plus3/tanks/game"
)

// guardedInput hides mouse buttons from the game while a debug window has
// the mouse, and keys while one has the keyboard.
type guardedInput struct {
	game.InputSource
	capture *ecs.Singleton[debugui.ImguiInputState]
}

func (in *guardedInput) state() debugui.ImguiInputState {
	if in.capture == nil {
		return debugui.ImguiInputState{}
	}
	if state := in.capture.Get(); state != nil {
		return *state
	}
	return debugui.ImguiInputState{}
}

func (in *guardedInput) IsKeyPressed(key ebiten.Key) bool {
	return !in.state().WantCaptureKeyboard && in.InputSource.IsKeyPressed(key)
}

func (in *guardedInput) IsMouseButtonPressed(button ebiten.MouseButton) bool {
	return !in.state().WantCaptureMouse && in.InputSource.IsMouseButtonPressed(button)
}
