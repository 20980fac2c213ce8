package debugui

import (
	"github.com/plus3/tanks/ecs"
)

// EntityBrowserComponent lists entities and owns the current selection.
type EntityBrowserComponent struct {
	cache              *EntityBrowserCache
	selected           *ecs.EntityRef
	filterText         string
	filterArchetypeId  *uint32
	requiredTypes      map[string]bool
	maxEntitiesPerPage int
	currentPage        int
}

// ComponentInspectorComponent edits the components of the browser's selection.
type ComponentInspectorComponent struct {
	browser *EntityBrowserComponent
}

// PerformanceStatsComponent shows frame times, scheduler timings and storage layout.
type PerformanceStatsComponent struct {
	historyFrames int
	frameHistory  []float32
	frameIndex    int
	frameCount    int
	schedulers    []NamedScheduler
	browser       *EntityBrowserComponent
}

// WatchComponent edits a live value, typically a singleton.
type WatchComponent struct {
	Title string
	Value any
}

func RegisterDebugUIComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
	ecs.RegisterComponent[EntityBrowserComponent](registry)
	ecs.RegisterComponent[ComponentInspectorComponent](registry)
	ecs.RegisterComponent[PerformanceStatsComponent](registry)
	ecs.RegisterComponent[WatchComponent](registry)
}
