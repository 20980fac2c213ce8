// Command tanks-sim runs the game headless with a scripted pilot and prints
// a gameplay and performance report.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"runtime"
	"time"

	"github.com/plus3/tanks/config"
	"github.com/plus3/tanks/game"
	"github.com/plus3/tanks/logging"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "tanks-sim:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("tanks-sim", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "YAML config file. Defaults apply when empty.")
	duration := flags.Duration("duration", time.Minute, "Simulated time to run for.")
	seed := flags.Uint64("seed", 0, "RNG seed. Overrides sim.seed when non-zero.")
	logLevel := flags.String("log-level", "", "Overrides log.level from the config.")
	fireEvery := flags.Duration("fire-every", 500*time.Millisecond, "How often the pilot fires. Zero never fires.")
	gcPauseMetrics := flags.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *duration <= 0 {
		return fmt.Errorf("duration %v must be positive", *duration)
	}
	if *fireEvery < 0 {
		return fmt.Errorf("fire-every %v must not be negative", *fireEvery)
	}

	cfg, err := config.LoadOptional(*configPath)
	if err != nil {
		return err
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *seed != 0 {
		cfg.Sim.Seed = *seed
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log, stderr)
	if err != nil {
		return err
	}

	input := game.NewScriptedInput()
	world := game.NewWorld(game.Options{
		Config: cfg,
		Logger: logger,
		Input:  input,
	})
	pilot := NewPilot(input, fireEvery.Seconds())

	report := &Report{
		Simulated:      *duration,
		TickRate:       cfg.Sim.TickRate,
		Seed:           world.Seed,
		GCPauseMetrics: *gcPauseMetrics,
	}

	dt := cfg.TickInterval()
	ticks := int64(math.Round(duration.Seconds() * float64(cfg.Sim.TickRate)))
	report.UpdateTime.Samples = make([]time.Duration, 0, ticks)

	logger.Info("Running simulation", "duration", *duration, "ticks", ticks)
	runtime.ReadMemStats(&report.MemStatsStart)
	startTime := time.Now()

	for range ticks {
		pilot.Update(world, dt)

		updateStart := time.Now()
		world.Step(dt)
		report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = ticks
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	report.Game = *world.Stats()
	report.Systems = world.Update.GetStats()
	report.Storage = world.Storage.CollectStats()

	logger.Info("Simulation finished", "kills", report.Game.Kills, "wall", report.TotalTime)
	return report.Generate(stdout)
}
