package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/versefx/components"
	"github.com/pthm-cable/versefx/config"
	"github.com/pthm-cable/versefx/host"
	"github.com/pthm-cable/versefx/upstream"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	theme := flag.String("theme", "bubbles", "Theme: rain, galaxy, snow, aurora, geometric, petals, fire, bubbles")
	mood := flag.String("mood", "joyful", "Mood: joyful, melancholic, mystical, modern, romantic, energetic")
	intensity := flag.String("intensity", "medium", "Intensity: low, medium, high")
	text := flag.String("text", "", "Detect the theme from this text instead of -theme/-mood/-intensity")
	api := flag.Bool("api", false, "Fetch a poem from the upstream service and theme from it")
	wordsFlag := flag.String("words", "dance,golden,river", "Poem inputs as verb,adjective,noun")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	tc, err := parseThemeConfig(*theme, *mood, *intensity)
	if err != nil {
		slog.Error("invalid theme flags", "error", err)
		os.Exit(2)
	}
	words, err := parseWords(*wordsFlag)
	if err != nil {
		slog.Error("invalid -words", "error", err)
		os.Exit(2)
	}

	opts := host.Options{
		Seed:           *seed,
		Headless:       *headless,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
		Theme:          tc,
		Text:           *text,
		API:            *api,
		Words:          words,
	}

	if *headless {
		// Headless mode - synthetic clock and recording surface, no raylib needed
		h, err := host.New(cfg, opts)
		if err != nil {
			slog.Error("failed to start", "error", err)
			os.Exit(1)
		}
		defer h.Unload()

		slog.Info("starting headless animation",
			"seed", *seed,
			"theme", tc.String(),
			"max_frames", *maxFrames,
		)

		for {
			h.UpdateHeadless()

			if *maxFrames > 0 && h.Frame() >= *maxFrames {
				slog.Info("max frames reached", "frame", h.Frame())
				return
			}
		}
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagWindowHighdpi)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	h, err := host.New(cfg, opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		return
	}
	defer h.Unload()

	for !rl.WindowShouldClose() {
		h.Update()
		h.Draw()

		if *maxFrames > 0 && h.Frame() >= *maxFrames {
			break
		}
	}
}

func parseThemeConfig(theme, mood, intensity string) (components.ThemeConfig, error) {
	var tc components.ThemeConfig
	var err error
	if tc.Theme, err = components.ParseTheme(theme); err != nil {
		return tc, err
	}
	if tc.Mood, err = components.ParseMood(mood); err != nil {
		return tc, err
	}
	if tc.Intensity, err = components.ParseIntensity(intensity); err != nil {
		return tc, err
	}
	return tc, nil
}

func parseWords(s string) (upstream.PoemInputs, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return upstream.PoemInputs{}, fmt.Errorf("expected verb,adjective,noun, got %q", s)
	}
	return upstream.PoemInputs{
		Verb:      strings.TrimSpace(parts[0]),
		Adjective: strings.TrimSpace(parts[1]),
		Noun:      strings.TrimSpace(parts[2]),
	}, nil
}
