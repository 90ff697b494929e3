package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gookit/color"

	"github.com/lawnchairsociety/backrooms/internal/config"
	"github.com/lawnchairsociety/backrooms/internal/export"
	"github.com/lawnchairsociety/backrooms/internal/generator"
	"github.com/lawnchairsociety/backrooms/internal/layout"
	"github.com/lawnchairsociety/backrooms/internal/logger"
)

var (
	styleTitle = color.Style{color.FgCyan, color.OpBold}
	styleLabel = color.Style{color.FgGray}
	styleGood  = color.Style{color.FgGreen}
	styleWarn  = color.Style{color.FgYellow, color.OpBold}
)

func main() {
	configFile := flag.String("config", "data/backrooms.yaml", "Path to generation config YAML file")
	loggingConfig := flag.String("logging", "", "Path to logging config YAML file (defaults to -config)")
	seed := flag.Int64("seed", 0, "Generation seed (default: random based on current time)")
	rooms := flag.Int("rooms", 0, "Override total_rooms from the config")
	outputFile := flag.String("out", "layout.yaml", "Output layout file (empty to skip)")
	quiet := flag.Bool("quiet", false, "Skip the summary")
	flag.Parse()

	logPath := *loggingConfig
	if logPath == "" {
		logPath = *configFile
	}
	logConfig, err := logger.LoadConfig(logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading logging config: %v\n", err)
	}
	if err := logger.Initialize(logConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		logger.Warning("Using default generation config", "path", *configFile, "error", err)
	}
	if *rooms > 0 {
		cfg.TotalRooms = *rooms
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid generation config:\n%v\n", err)
		os.Exit(1)
	}

	runSeed := *seed
	if runSeed == 0 {
		runSeed = time.Now().UnixNano()
		logger.Info("Generation seed selected", "seed", runSeed, "random", true)
	} else {
		logger.Info("Generation seed selected", "seed", runSeed, "random", false)
	}

	rec := &recorder{}
	o := generator.New(cfg, runSeed)
	o.SetLogger(logger.Get())
	o.SetBuilder(rec)
	o.SetWallOpener(rec)

	res, err := o.Run(generator.InitialRoom(cfg, layout.Vec3{}))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generation failed: %v\n", err)
		os.Exit(1)
	}

	logger.Always("Generation complete",
		"seed", runSeed,
		"units", len(res.Units),
		"elapsed", res.Stats.Elapsed)

	if *outputFile != "" {
		if dir := filepath.Dir(*outputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
				os.Exit(1)
			}
		}
		if err := export.Write(export.FromResult(res, runSeed, time.Now()), *outputFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing layout: %v\n", err)
			os.Exit(1)
		}
	}

	if !*quiet {
		printSummary(res, runSeed, rec, cfg.TotalRooms, *outputFile)
	}
}

func printSummary(res *generator.Result, seed int64, rec *recorder, target int, out string) {
	counts := res.Counts()

	fmt.Println(styleTitle.Sprint("Backrooms layout"))
	row("Seed", fmt.Sprint(seed))
	row("Units", fmt.Sprintf("%d / %d", len(res.Units), target))
	row("Rooms", fmt.Sprint(counts[layout.Room]))
	row("Hallways", fmt.Sprint(counts[layout.Hallway]))
	row("Stairs", fmt.Sprint(counts[layout.Stairs]))
	row("Doorways", fmt.Sprint(rec.cuts[layout.Doorway]/2))
	row("Openings", fmt.Sprint(rec.cuts[layout.Opening]/2))
	row("Main loops", fmt.Sprint(res.Stats.MainLoops))
	row("Retries", fmt.Sprint(res.Stats.ConnectionRetries))
	row("Attempts", fmt.Sprint(res.Stats.PlacementAttempts))
	row("Elapsed", res.Stats.Elapsed.Round(time.Microsecond).String())

	switch {
	case res.Stats.StoppedBySafety:
		fmt.Println(styleWarn.Sprint("Stopped by a safety limit"))
	case res.Stats.Exhausted:
		fmt.Println(styleWarn.Sprint("Ran out of open connections"))
	default:
		fmt.Println(styleGood.Sprint("Target reached"))
	}

	if out != "" {
		fmt.Printf("Layout written to %s\n", out)
	}
}

func row(label, value string) {
	fmt.Printf("  %s %s\n", styleLabel.Sprintf("%-12s", label+":"), value)
}
