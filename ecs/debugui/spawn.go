package debugui

import (
	"github.com/plus3/tanks/ecs"
)

// NamedScheduler labels a scheduler in the performance window.
type NamedScheduler struct {
	Name      string
	Scheduler *ecs.Scheduler
}

// Options configures SpawnDebugUI.
type Options struct {
	HistoryFrames   int
	EntitiesPerPage int
	Visible         bool
	Schedulers      []NamedScheduler
	Watches         []WatchComponent
}

// SpawnDebugUI adds the debug windows to storage. Each window is an entity
// holding its panel state next to an ImguiItem that draws it, so ImguiSystem
// picks them up like any other item. The panel components must be registered
// with RegisterDebugUIComponents.
func SpawnDebugUI(storage *ecs.Storage, opts Options) {
	if opts.HistoryFrames <= 0 {
		opts.HistoryFrames = 120
	}
	if opts.EntitiesPerPage <= 0 {
		opts.EntitiesPerPage = 100
	}

	ecs.NewSingleton(storage, ImguiInputState{})
	ecs.NewSingleton(storage, Visibility{Visible: opts.Visible})

	browser := spawnPanel(storage, NewEntityBrowserComponent(opts.EntitiesPerPage), func(b *EntityBrowserComponent) func() {
		return func() { b.Render(storage) }
	})

	spawnPanel(storage, NewComponentInspectorComponent(browser), func(ci *ComponentInspectorComponent) func() {
		return func() { ci.Render(storage) }
	})

	timer := NewFrameTimer()
	spawnPanel(storage, NewPerformanceStatsComponent(opts.HistoryFrames, opts.Schedulers, browser), func(ps *PerformanceStatsComponent) func() {
		return func() { ps.Render(storage, timer.GetDeltaTime()) }
	})

	for _, watch := range opts.Watches {
		spawnPanel(storage, watch, func(w *WatchComponent) func() {
			return w.Render
		})
	}
}

// spawnPanel stores panel on a new entity and binds its ImguiItem to the
// stored copy. Panel entities never change archetype, so the pointers stay valid.
func spawnPanel[T any](storage *ecs.Storage, panel T, render func(*T) func()) *T {
	id := storage.Spawn(panel, ImguiItem{})
	stored := ecs.ReadComponent[T](storage, id)
	ecs.ReadComponent[ImguiItem](storage, id).Render = render(stored)
	return stored
}
