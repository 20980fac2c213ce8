// Command tanks runs the game in a window.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/plus3/tanks/config"
	"github.com/plus3/tanks/ecs"
	"github.com/plus3/tanks/ecs/debugui"
	debugui_ebiten "github.com/plus3/tanks/ecs/debugui/ebiten"
	"github.com/plus3/tanks/game"
	"github.com/plus3/tanks/logging"
)

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "tanks:", err)
		os.Exit(1)
	}
}

// Game adapts a World to ebiten.Game.
type Game struct {
	world  *game.World
	logger *log.Logger
	dt     float64
	debug  *debugOverlay
}

type debugOverlay struct {
	backend    debugui_ebiten.ImguiBackend
	visibility *ecs.Singleton[debugui.Visibility]
}

func run(args []string, stderr io.Writer) error {
	flags := flag.NewFlagSet("tanks", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "YAML config file. Defaults apply when empty.")
	logLevel := flags.String("log-level", "", "Overrides log.level from the config.")
	seed := flags.Uint64("seed", 0, "RNG seed. Overrides sim.seed when non-zero.")
	debug := flags.Bool("debug", false, "Show the debug windows at startup. Same as debug.ui. F1 toggles them either way.")
	if err := flags.Parse(args); err != nil {
		return err
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
	if *debug {
		cfg.Debug.UI = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log, stderr)
	if err != nil {
		return err
	}

	g := newGame(cfg, logger)
	logger.Info("Starting", "seed", g.world.Seed, "tick_rate", cfg.Sim.TickRate, "debug_ui", cfg.Debug.UI)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	logger.Info("Bye", "stats", game.HUDText(g.world.Stats(), nil))
	return nil
}

func newGame(cfg config.Config, logger *log.Logger) *Game {
	ebiten.SetTPS(cfg.Sim.TickRate)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	backend := debugui_ebiten.NewImguiBackend(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height)
	world, visibility := newDebugWorld(cfg, logger, game.EbitenInput{})
	return &Game{
		world:  world,
		logger: logger,
		dt:     cfg.TickInterval(),
		debug: &debugOverlay{
			backend:    backend,
			visibility: visibility,
		},
	}
}

// newDebugWorld builds the world with the debug windows attached. They start
// hidden unless debug.ui is set. Input captured by the windows never reaches
// the game.
func newDebugWorld(cfg config.Config, logger *log.Logger, source game.InputSource) (*game.World, *ecs.Singleton[debugui.Visibility]) {
	input := &guardedInput{InputSource: source}
	world := game.NewWorld(game.Options{
		Config: cfg,
		Logger: logger,
		Input:  input,
		Extra:  []ecs.System{&debugui.ImguiSystem{}},
	})

	storage := world.Storage
	debugui.RegisterDebugUIComponents(storage.Registry())
	debugui.SpawnDebugUI(storage, debugui.Options{
		HistoryFrames: cfg.Debug.HistoryFrames,
		Visible:       cfg.Debug.UI,
		Schedulers: []debugui.NamedScheduler{
			{Name: "Update", Scheduler: world.Update},
			{Name: "Render", Scheduler: world.Render},
		},
		Watches: []debugui.WatchComponent{
			{Title: "Tuning", Value: world.Tuning()},
			{Title: "Game Stats", Value: world.Stats()},
		},
	})
	input.capture = ecs.NewSingleton[debugui.ImguiInputState](storage)

	return world, ecs.NewSingleton[debugui.Visibility](storage)
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		visible := g.debug.visibility.Get().Toggle()
		g.logger.Debug("Debug UI toggled", "visible", visible)
	}
	g.debug.backend.Update(func() {
		g.world.Step(g.dt)
	})
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.world.Draw(screen)
	g.debug.backend.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.debug.backend.Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}
