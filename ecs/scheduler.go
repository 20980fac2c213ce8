package ecs

import (
	"context"
	"reflect"
	"time"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func (s *systemStatsInternal) record(d time.Duration) {
	s.executionCount++
	s.lastDuration = d
	s.totalDuration += d
	s.minDuration = min(s.minDuration, d)
	s.maxDuration = max(s.maxDuration, d)
}

// storageBinder is implemented by Query and Singleton.
type storageBinder interface {
	Init(storage *Storage)
}

// frameQuery is implemented by Query.
type frameQuery interface {
	Execute()
}

type scheduledSystem struct {
	system  System
	queries []frameQuery
	stats   *systemStatsInternal
}

// Scheduler runs systems in registration order against one Storage.
type Scheduler struct {
	storage *Storage
	startup []scheduledSystem
	systems []scheduledSystem
	started bool
	frame   *UpdateFrame
}

// NewScheduler creates a new scheduler for the given storage.
func NewScheduler(storage *Storage) *Scheduler {
	return &Scheduler{
		storage: storage,
		frame:   newUpdateFrame(0, storage),
	}
}

// Storage returns the storage the scheduler runs against.
func (s *Scheduler) Storage() *Storage {
	return s.storage
}

// Register appends a system that runs on every Once call.
func (s *Scheduler) Register(system System) {
	s.systems = append(s.systems, s.bind(system))
}

// RegisterStartup appends a system that runs once, at the start of the first
// Once call. Its commands are flushed before the regular systems run.
func (s *Scheduler) RegisterStartup(system System) {
	s.startup = append(s.startup, s.bind(system))
}

func (s *Scheduler) bind(system System) scheduledSystem {
	scheduled := scheduledSystem{
		system: system,
		stats: &systemStatsInternal{
			name:        systemName(system),
			minDuration: time.Duration(1<<63 - 1),
		},
	}

	systemValue := reflect.ValueOf(system)
	if systemValue.Kind() == reflect.Ptr {
		systemValue = systemValue.Elem()
	}
	if systemValue.Kind() != reflect.Struct {
		return scheduled
	}

	for i := 0; i < systemValue.NumField(); i++ {
		field := systemValue.Field(i)
		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}

		fieldPtr := field.Addr().Interface()
		if binder, ok := fieldPtr.(storageBinder); ok {
			binder.Init(s.storage)
		}
		if query, ok := fieldPtr.(frameQuery); ok {
			scheduled.queries = append(scheduled.queries, query)
		}
	}

	return scheduled
}

func systemName(system System) string {
	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}
	return systemType.Name()
}

func (s *Scheduler) run(list []scheduledSystem) {
	for _, scheduled := range list {
		start := time.Now()
		for _, query := range scheduled.queries {
			query.Execute()
		}
		scheduled.system.Execute(s.frame)
		scheduled.stats.record(time.Since(start))
	}
	s.frame.Commands.Flush(s.storage)
}

// Once executes all registered systems once with the given delta time in seconds.
func (s *Scheduler) Once(dt float64) {
	s.frame.DeltaTime = dt
	s.frame.Elapsed += dt
	s.frame.Tick++

	if !s.started {
		s.started = true
		s.run(s.startup)
	}

	s.run(s.systems)
}

// Run executes all systems repeatedly at the given interval until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			s.Once(dt)
		}
	}
}

// Tick returns how many times Once has been called.
func (s *Scheduler) Tick() uint64 {
	return s.frame.Tick
}

// Elapsed returns the total simulated time in seconds.
func (s *Scheduler) Elapsed() float64 {
	return s.frame.Elapsed
}

// GetStats returns statistics about regular (non-startup) system execution.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Systems:     make([]SystemStats, len(s.systems)),
	}

	for i, scheduled := range s.systems {
		internal := scheduled.stats

		avgDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    internal.minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		stats.TotalExecutions += internal.executionCount
	}

	return stats
}
