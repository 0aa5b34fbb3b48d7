package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/mitchelldurbincs/ti4-board-generator/internal/config"
	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/catalog"
	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/core"
	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/events"
	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/export"
	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/layout"
	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/mapgen"
	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/topology"
	"github.com/mitchelldurbincs/ti4-board-generator/internal/monitoring"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func newFlagSet(stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet("mapgen", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntP("players", "p", 0, "Number of players (2-8, required)")
	fs.StringP("game", "g", "pok", "System set: base, pok or expansion")
	fs.StringP("layout", "l", "regular", "Board layout: regular or large")
	fs.StringP("aggression", "a", "medium", "Aggression: very-low, low, medium, high or very-high")
	fs.IntP("iterations", "i", 100, "Thousands of iterations per attempt")
	fs.Int64("seed", 0, "Random seed (0 seeds from the clock)")
	fs.Int("workers", 1, "Parallel search workers")
	fs.String("config", "", "Path to config file")
	fs.String("log-level", "info", "Log level (debug, info, warn, error)")
	fs.String("log-format", "console", "Log format (console or json)")
	fs.BoolP("verbose", "v", false, "Log every attempt")
	fs.String("png", "", "Write a PNG picture of the board to this path")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: mapgen -p PLAYERS [options]\n\nGenerates a balanced board.\n\nOptions:\n")
		fs.PrintDefaults()
	}
	return fs
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet(stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "mapgen: %v\n\n", err)
		fs.Usage()
		return exitUsage
	}

	configPath, _ := fs.GetString("config")
	cfg, err := config.Load(configPath, fs)
	if err != nil {
		fmt.Fprintf(stderr, "mapgen: %v\n\n", err)
		fs.Usage()
		return exitUsage
	}
	logger := setupLogging(cfg.Logging, stderr)

	cat, err := catalog.Load()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load system catalog")
		return exitFailed
	}
	registry, err := layout.Load()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load layouts")
		return exitFailed
	}

	l, err := registry.Lookup(cfg.Generator.Players, cfg.LayoutSize())
	if err != nil {
		fmt.Fprintf(stderr, "mapgen: layout %q is not available for %d players (choose from: %s)\n\n",
			cfg.Generator.Layout, cfg.Generator.Players, sizeNames(registry.Sizes(cfg.Generator.Players)))
		fs.Usage()
		return exitUsage
	}

	opts, err := cfg.Options()
	if err != nil {
		fmt.Fprintf(stderr, "mapgen: %v\n\n", err)
		fs.Usage()
		return exitUsage
	}

	seed := cfg.Search.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info().Int64("seed", seed).Str("layout", l.Name).Msg("Generating board")

	tiles, err := l.Tiles()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to expand layout")
		return exitFailed
	}
	topo, err := topology.Build(tiles, l.Players)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to build board topology")
		return exitFailed
	}

	bus := events.NewEventBus(logger)
	eventLogger := subscribers.NewLoggerSubscriber("cli", logger, zerolog.DebugLevel)
	eventLogger.SetDevMode(cfg.Logging.Verbose)
	bus.Subscribe(eventLogger)
	if cfg.Logging.Verbose {
		bus.Handle(events.TypeAttemptCompleted, attemptSummary(logger))
	}

	gen, err := mapgen.NewGenerator(opts, cat, l, topo, rand.New(rand.NewSource(seed)), logger, bus)
	if err != nil {
		logger.Error().Err(err).Bool("configuration", core.IsConfigurationError(err)).Msg("Failed to prepare search")
		return exitFailed
	}

	monitor := monitoring.NewProgressMonitor(gen.Progress(), cfg.Search.ProgressInterval, logger)
	monitor.Start()
	result, err := gen.Generate(ctx)
	monitor.Stop()
	if err != nil {
		logger.Error().Err(err).Msg("Board generation failed")
		return exitFailed
	}

	reportOpts := export.ReportOptions{TTS: cfg.Output.TTS, URL: cfg.Output.URL}
	if err := export.WriteReport(stdout, result, l, topo, reportOpts); err != nil {
		logger.Error().Err(err).Msg("Failed to write report")
		return exitFailed
	}

	if cfg.Output.PNG != "" {
		if err := writePNG(cfg.Output.PNG, cat, result, l); err != nil {
			logger.Error().Err(err).Str("path", cfg.Output.PNG).Msg("Failed to write PNG")
			return exitFailed
		}
		logger.Info().Str("path", cfg.Output.PNG).Msg("Wrote board picture")
	}
	return exitOK
}

func writePNG(path string, cat *catalog.Catalog, result *mapgen.Result, l *layout.Layout) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return export.NewRenderer(cat, export.DefaultHexSize).RenderPNG(f, result.Tiles, l.Rings)
}

// attemptSummary logs one line per finished attempt.
func attemptSummary(logger zerolog.Logger) events.EventHandler {
	return func(e events.Event) {
		done, ok := e.(*events.AttemptCompletedEvent)
		if !ok {
			return
		}
		logger.Info().
			Int("attempt", done.Attempt+1).
			Float64("tolerance", done.Tolerance).
			Float64("best", done.BestImbalance).
			Str("valid", humanize.Comma(done.Valid)+"/"+humanize.Comma(done.Iterations)).
			Bool("converged", done.Converged).
			Dur("took", done.Duration).
			Msg("Attempt finished")
	}
}

func sizeNames(sizes []layout.Size) string {
	names := make([]string, len(sizes))
	for i, s := range sizes {
		names[i] = s.String()
	}
	return strings.Join(names, ", ")
}

func setupLogging(cfg config.LoggingConfig, out io.Writer) zerolog.Logger {
	// Parse log level
	var logLevel zerolog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "info":
		logLevel = zerolog.InfoLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	default:
		logLevel = zerolog.InfoLevel
	}
	if cfg.Verbose && logLevel > zerolog.InfoLevel {
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	if strings.EqualFold(cfg.Format, "json") {
		return zerolog.New(out).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()
}
