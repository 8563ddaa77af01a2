// Package config loads viewer settings from YAML and the environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/elektrokombinacija/imageviewer/internal/physics"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "IMAGEVIEWER_"

// Config is the complete viewer configuration.
type Config struct {
	Dismiss  Dismiss  `yaml:"dismiss"`
	Overlay  Overlay  `yaml:"overlay"`
	Viewport Viewport `yaml:"viewport"`
	Gesture  Gesture  `yaml:"gesture"`
	Log      Log      `yaml:"log"`
}

// Dismiss tunes flick-to-dismiss.
type Dismiss struct {
	// Threshold is the release speed (points/s) above which the image is
	// thrown away.
	Threshold  float32         `yaml:"threshold"`
	PushScale  float32         `yaml:"push_scale"`
	SnapBack   time.Duration   `yaml:"snap_back"`
	SnapEasing string          `yaml:"snap_easing"`
	Fade       time.Duration   `yaml:"fade"`
	Reference  physics.Profile `yaml:"reference"`
}

// Overlay tunes presentation and the backdrop.
type Overlay struct {
	Appear             time.Duration `yaml:"appear"`
	TapDismiss         time.Duration `yaml:"tap_dismiss"`
	ReduceTransparency bool          `yaml:"reduce_transparency"`
	BackdropTint       string        `yaml:"backdrop_tint"`
	BlurSigma          float64       `yaml:"blur_sigma"`
}

// Viewport tunes zooming.
type Viewport struct {
	ZoomCap  float32 `yaml:"zoom_cap"`
	ZoomStep float32 `yaml:"zoom_step"`
}

// Gesture tunes pointer tracking.
type Gesture struct {
	TouchSlop  float32       `yaml:"touch_slop"`
	TapTimeout time.Duration `yaml:"tap_timeout"`
}

// Log selects the log level.
type Log struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Dismiss: Dismiss{
			Threshold:  800,
			PushScale:  0.1,
			SnapBack:   300 * time.Millisecond,
			SnapEasing: "ease-out",
			Fade:       250 * time.Millisecond,
			Reference:  physics.Reference,
		},
		Overlay: Overlay{
			Appear:       200 * time.Millisecond,
			TapDismiss:   200 * time.Millisecond,
			BackdropTint: "#f2f2f7",
			BlurSigma:    12,
		},
		Viewport: Viewport{
			ZoomCap:  16,
			ZoomStep: 1.1,
		},
		Gesture: Gesture{
			TouchSlop:  8,
			TapTimeout: 300 * time.Millisecond,
		},
		Log: Log{Level: "info"},
	}
}

// Load reads the YAML file at path on top of the defaults. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := cfg.decode(data); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv applies IMAGEVIEWER_* overrides found by lookup, typically
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	floats := map[string]*float32{
		"FLICK_THRESHOLD": &c.Dismiss.Threshold,
		"PUSH_SCALE":      &c.Dismiss.PushScale,
		"ZOOM_CAP":        &c.Viewport.ZoomCap,
		"TOUCH_SLOP":      &c.Gesture.TouchSlop,
	}
	for key, dst := range floats {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 32)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, key, err)
		}
		*dst = float32(f)
	}

	if v, ok := lookup(EnvPrefix + "REDUCE_TRANSPARENCY"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %sREDUCE_TRANSPARENCY: %w", EnvPrefix, err)
		}
		c.Overlay.ReduceTransparency = b
	}
	if v, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok {
		c.Log.Level = strings.TrimSpace(v)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Dismiss.Threshold <= 0:
		return fmt.Errorf("dismiss.threshold must be positive, got %v", c.Dismiss.Threshold)
	case c.Dismiss.PushScale <= 0:
		return fmt.Errorf("dismiss.push_scale must be positive, got %v", c.Dismiss.PushScale)
	case c.Dismiss.SnapBack < 0 || c.Dismiss.Fade < 0:
		return errors.New("dismiss durations must not be negative")
	case c.Dismiss.Reference.Width <= 0 || c.Dismiss.Reference.Height <= 0:
		return fmt.Errorf("dismiss.reference must be positive, got %vx%v",
			c.Dismiss.Reference.Width, c.Dismiss.Reference.Height)
	case c.Overlay.Appear < 0 || c.Overlay.TapDismiss < 0:
		return errors.New("overlay durations must not be negative")
	case c.Viewport.ZoomCap < 2:
		return fmt.Errorf("viewport.zoom_cap must be at least 2, got %v", c.Viewport.ZoomCap)
	case c.Viewport.ZoomStep <= 1:
		return fmt.Errorf("viewport.zoom_step must be greater than 1, got %v", c.Viewport.ZoomStep)
	case c.Gesture.TouchSlop < 0 || c.Gesture.TapTimeout < 0:
		return errors.New("gesture settings must not be negative")
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses Level.
func (l Log) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log.level %q: %w", l.Level, err)
	}
	return lvl, nil
}
