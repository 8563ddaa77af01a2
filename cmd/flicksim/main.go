// Command flicksim replays scripted gesture scenarios against the headless
// viewer and reports the dismissal outcome of each.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/elektrokombinacija/imageviewer/internal/config"
	"github.com/elektrokombinacija/imageviewer/internal/sim"
	"github.com/elektrokombinacija/imageviewer/internal/viewer"
)

const version = "0.1.0"

type options struct {
	configPath string
	step       time.Duration
	jsonOut    bool
	outPath    string
	verbose    bool
	debug      bool
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "flicksim [scenario.yaml ...]",
		Short: "Replay flick-to-dismiss scenarios headlessly",
		Long: `flicksim runs scripted gesture scenarios through the viewer with a fixed
time step and checks each against its expected outcome. Without arguments the
built-in scenarios are run.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file for viewer tuning")
	f.DurationVar(&opts.step, "step", 16*time.Millisecond, "simulation time step")
	f.BoolVar(&opts.jsonOut, "json", false, "print results as JSON")
	f.StringVarP(&opts.outPath, "out", "o", "", "also write JSON results to this file")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log every transition")
	f.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	return cmd
}

func run(ctx context.Context, args []string, opts options) error {
	cfg, err := config.Resolve(opts.configPath)
	if err != nil {
		return err
	}
	logger := config.NewLogger(os.Stderr, cfg.Log, opts.debug)

	scenarios := sim.Builtin()
	if len(args) > 0 {
		scenarios = nil
		for _, path := range args {
			scs, err := sim.LoadScenarios(path)
			if err != nil {
				return err
			}
			scenarios = append(scenarios, scs...)
		}
	}

	simCfg := sim.DefaultConfig()
	simCfg.Base = viewer.OptionsFromConfig(cfg)
	simCfg.TimeStep = opts.step
	simCfg.Verbose = opts.verbose
	simCfg.Logger = logger

	var (
		results []*sim.SimulationResult
		failed  int
	)
	for _, sc := range scenarios {
		result, err := sim.RunSimulation(ctx, simCfg, sc)
		results = append(results, result)
		if err != nil {
			failed++
			logger.Error("scenario failed", "scenario", sc.Name, "err", err)
			continue
		}
		logger.Debug("scenario passed", "scenario", sc.Name, "frames", result.Metrics.Frames)
	}

	if opts.outPath != "" {
		if err := sim.ExportResults(opts.outPath, results); err != nil {
			return fmt.Errorf("failed to write results: %w", err)
		}
	}
	if opts.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		printSummary(results)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(results))
	}
	return nil
}

func printSummary(results []*sim.SimulationResult) {
	for _, r := range results {
		status := "ok"
		if !r.Success {
			status = "FAIL"
		}
		m := r.Metrics
		fmt.Printf("%-4s %-20s %-12s teardowns=%d frames=%d", status, m.Scenario, m.FinalPhase, m.Teardowns, m.Frames)
		if m.DismissedAfter > 0 {
			fmt.Printf(" off-screen after %v", m.DismissedAfter)
		}
		fmt.Println()
		if r.Error != "" {
			fmt.Printf("     %s\n", r.Error)
		}
	}
}

func main() {
	root := newRootCmd()
	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
