// Package state manages the visualization state.
package state

import (
	"image"
	"log/slog"
	"time"

	"gioui.org/f32"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/elektrokombinacija/imageviewer/internal/config"
	"github.com/elektrokombinacija/imageviewer/internal/dismiss"
	"github.com/elektrokombinacija/imageviewer/internal/geom"
	"github.com/elektrokombinacija/imageviewer/internal/media"
	"github.com/elektrokombinacija/imageviewer/internal/viewer"
)

// State holds all visualization state: the picture shown as a thumbnail
// and the viewer session presented over it, if any.
type State struct {
	Config config.Config
	Image  *media.Image
	Tint   colorful.Color
	Log    *slog.Logger

	// Viewer is the open session; nil while only the thumbnail shows.
	Viewer *viewer.Viewer
	// Observers are attached to every new session.
	Observers []dismiss.Observer

	backdrop     *image.NRGBA
	backdropSize image.Point
	showing      bool
}

// NewState creates a new visualization state. img may be nil.
func NewState(cfg config.Config, img *media.Image, log *slog.Logger) (*State, error) {
	if log == nil {
		log = slog.Default()
	}
	tint, err := media.ParseTint(cfg.Overlay.BackdropTint)
	if err != nil {
		return nil, err
	}
	return &State{Config: cfg, Image: img, Tint: tint, Log: log}, nil
}

// Open starts a viewer session growing out of thumb.
func (s *State) Open(screen f32.Point, thumb geom.Rect, now time.Time) *viewer.Viewer {
	if s.Viewer != nil {
		return s.Viewer
	}
	opts := viewer.OptionsFromConfig(s.Config)
	opts.Screen = screen
	opts.Image = s.Image.Size()
	opts.Thumbnail = thumb
	opts.Logger = s.Log
	opts.Now = now

	v := viewer.New(opts, s)
	for _, o := range s.Observers {
		v.Observe(o)
	}
	s.Viewer = v
	v.Present()
	return v
}

// Present implements overlay.Host.
func (s *State) Present() { s.showing = true }

// Dismiss implements overlay.Host. The session is dropped.
func (s *State) Dismiss() {
	s.showing = false
	if s.Viewer != nil {
		s.Viewer.Logger().Info("viewer dismissed")
	}
	s.Viewer = nil
}

// Showing reports whether the overlay is on screen.
func (s *State) Showing() bool { return s.showing }

// Backdrop returns the backdrop image for the given size, rebuilt when
// the size changes.
func (s *State) Backdrop(size image.Point) *image.NRGBA {
	if s.backdrop != nil && s.backdropSize == size {
		return s.backdrop
	}
	var src image.Image
	if s.Image != nil {
		src = s.Image.Display
	}
	s.backdrop = media.Backdrop(src, size, media.BackdropOptions{
		Sigma:              s.Config.Overlay.BlurSigma,
		Tint:               s.Tint,
		TintAlpha:          0.6,
		ReduceTransparency: s.Config.Overlay.ReduceTransparency,
	})
	s.backdropSize = size
	return s.backdrop
}
