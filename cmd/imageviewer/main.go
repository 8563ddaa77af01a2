// Command imageviewer shows an image thumbnail that opens into a
// full-screen viewer with zoom and flick-to-dismiss.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gioui.org/app"
	"gioui.org/unit"
	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/elektrokombinacija/imageviewer/internal/config"
	"github.com/elektrokombinacija/imageviewer/internal/media"
	"github.com/elektrokombinacija/imageviewer/internal/vis"
	"github.com/elektrokombinacija/imageviewer/internal/vis/state"
)

const version = "0.1.0"

type options struct {
	configPath         string
	threshold          float32
	reduceTransparency bool
	debug              bool
	open               bool
	maxSide            int
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "imageviewer [image]",
		Short: "Full-screen image viewer with flick-to-dismiss",
		Long: `imageviewer opens a window with a thumbnail of the given image. Clicking it
presents the image full-screen over a blurred backdrop. Scroll or use +/- to
zoom, drag to pan while zoomed, tap or press Escape to close, or throw the
image off the screen to dismiss it.`,
		Args: cobra.MaximumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file")
	f.Float32Var(&opts.threshold, "threshold", 0, "fling threshold in points/s (overrides config)")
	f.BoolVar(&opts.reduceTransparency, "reduce-transparency", false, "use a solid backdrop instead of a blur")
	f.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	f.BoolVar(&opts.open, "open", false, "present the viewer immediately")
	f.IntVar(&opts.maxSide, "max-side", media.DefaultMaxSide, "longest side of the decoded display copy")
	return cmd
}

func run(cmd *cobra.Command, args []string, opts options) error {
	cfg, err := config.Resolve(opts.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("threshold") {
		cfg.Dismiss.Threshold = opts.threshold
	}
	if opts.reduceTransparency {
		cfg.Overlay.ReduceTransparency = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := config.NewLogger(os.Stderr, cfg.Log, opts.debug)

	var img *media.Image
	if len(args) == 1 {
		img, err = media.Load(args[0], opts.maxSide)
		if err != nil {
			return err
		}
		logger.Info("image loaded", "path", args[0], "width", img.Native.X, "height", img.Native.Y)
	} else {
		logger.Warn("no image given, showing a placeholder")
	}

	st, err := state.NewState(cfg, img, logger)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	go func() {
		window := new(app.Window)
		window.Option(
			app.Title("Image Viewer"),
			app.Size(unit.Dp(420), unit.Dp(760)),
		)

		application := vis.NewApp(st, opts.open)
		if err := application.Run(window); err != nil {
			slog.Error("window closed with error", "err", err)
			os.Exit(1)
		}
		os.Exit(0)
	}()
	app.Main()
	return nil
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
