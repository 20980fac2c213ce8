package game

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/tanks/ecs"
)

type Action int

const (
	ActionMoveForward Action = iota
	ActionMoveBackward
	ActionTurnLeft
	ActionTurnRight
	ActionFireCannon
	actionCount
)

var actionNames = [actionCount]string{
	ActionMoveForward:  "MoveForward",
	ActionMoveBackward: "MoveBackward",
	ActionTurnLeft:     "TurnLeft",
	ActionTurnRight:    "TurnRight",
	ActionFireCannon:   "FireCannon",
}

func (a Action) String() string {
	if a < 0 || a >= actionCount {
		return "Unknown"
	}
	return actionNames[a]
}

// InputSource is where raw device state comes from.
type InputSource interface {
	IsKeyPressed(key ebiten.Key) bool
	IsMouseButtonPressed(button ebiten.MouseButton) bool
	CursorPosition() (x, y int)
}

// Input holds the active InputSource.
type Input struct {
	Source InputSource
}

// Binding is a key or a mouse button.
type Binding struct {
	Key    ebiten.Key
	Button ebiten.MouseButton
	Mouse  bool
}

func KeyBinding(key ebiten.Key) Binding {
	return Binding{Key: key}
}

func MouseBinding(button ebiten.MouseButton) Binding {
	return Binding{Button: button, Mouse: true}
}

func (b Binding) pressed(source InputSource) bool {
	if b.Mouse {
		return source.IsMouseButtonPressed(b.Button)
	}
	return source.IsKeyPressed(b.Key)
}

// InputMap maps each action to the bindings that trigger it.
type InputMap struct {
	Bindings map[Action][]Binding
}

func DefaultInputMap() InputMap {
	return InputMap{Bindings: map[Action][]Binding{
		ActionMoveForward:  {KeyBinding(ebiten.KeyW), KeyBinding(ebiten.KeyArrowUp)},
		ActionMoveBackward: {KeyBinding(ebiten.KeyS), KeyBinding(ebiten.KeyArrowDown)},
		ActionTurnLeft:     {KeyBinding(ebiten.KeyA), KeyBinding(ebiten.KeyArrowLeft)},
		ActionTurnRight:    {KeyBinding(ebiten.KeyD), KeyBinding(ebiten.KeyArrowRight)},
		ActionFireCannon:   {MouseBinding(ebiten.MouseButtonLeft), KeyBinding(ebiten.KeySpace)},
	}}
}

// ActionState is the per-frame state of every action.
type ActionState struct {
	pressed      [actionCount]bool
	justPressed  [actionCount]bool
	justReleased [actionCount]bool
}

func (s *ActionState) Pressed(a Action) bool {
	return s.pressed[a]
}

func (s *ActionState) JustPressed(a Action) bool {
	return s.justPressed[a]
}

func (s *ActionState) JustReleased(a Action) bool {
	return s.justReleased[a]
}

// Set records the current state of a, deriving the edge flags from the previous frame.
func (s *ActionState) Set(a Action, down bool) {
	s.justPressed[a] = down && !s.pressed[a]
	s.justReleased[a] = !down && s.pressed[a]
	s.pressed[a] = down
}

// InputSystem samples the InputSource and updates ActionState.
type InputSystem struct {
	Input    ecs.Singleton[Input]
	InputMap ecs.Singleton[InputMap]
	Actions  ecs.Singleton[ActionState]
}

func (s *InputSystem) Execute(frame *ecs.UpdateFrame) {
	actions := s.Actions.Get()
	source := s.Input.Get().Source
	if source == nil {
		for a := range actionCount {
			actions.Set(a, false)
		}
		return
	}

	bindings := s.InputMap.Get().Bindings
	for a := range actionCount {
		down := false
		for _, binding := range bindings[a] {
			if binding.pressed(source) {
				down = true
				break
			}
		}
		actions.Set(a, down)
	}
}

// EbitenInput reads the real keyboard and mouse.
type EbitenInput struct{}

func (EbitenInput) IsKeyPressed(key ebiten.Key) bool {
	return ebiten.IsKeyPressed(key)
}

func (EbitenInput) IsMouseButtonPressed(button ebiten.MouseButton) bool {
	return ebiten.IsMouseButtonPressed(button)
}

func (EbitenInput) CursorPosition() (int, int) {
	return ebiten.CursorPosition()
}

// ScriptedInput is an InputSource driven by code, used by tests and the
// headless simulation.
type ScriptedInput struct {
	keys    map[ebiten.Key]bool
	buttons map[ebiten.MouseButton]bool
	cursorX int
	cursorY int
}

func NewScriptedInput() *ScriptedInput {
	return &ScriptedInput{
		keys:    make(map[ebiten.Key]bool),
		buttons: make(map[ebiten.MouseButton]bool),
	}
}

func (in *ScriptedInput) SetKey(key ebiten.Key, down bool) {
	in.keys[key] = down
}

func (in *ScriptedInput) SetMouseButton(button ebiten.MouseButton, down bool) {
	in.buttons[button] = down
}

func (in *ScriptedInput) SetCursor(x, y int) {
	in.cursorX, in.cursorY = x, y
}

// ReleaseAll lifts every key and button.
func (in *ScriptedInput) ReleaseAll() {
	clear(in.keys)
	clear(in.buttons)
}

func (in *ScriptedInput) IsKeyPressed(key ebiten.Key) bool {
	return in.keys[key]
}

func (in *ScriptedInput) IsMouseButtonPressed(button ebiten.MouseButton) bool {
	return in.buttons[button]
}

func (in *ScriptedInput) CursorPosition() (int, int) {
	return in.cursorX, in.cursorY
}
