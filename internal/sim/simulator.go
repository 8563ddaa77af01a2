// Package sim replays scripted gesture scenarios against a headless viewer.
//
// It drives the same viewer the GUI uses, with a fixed time step instead of
// display frames, and collects the dismissal transitions and outcome of
// each run. Used by flicksim and by end-to-end tests.
package sim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"slices"
	"strings"
	"time"

	"gioui.org/f32"

	"github.com/elektrokombinacija/imageviewer/internal/dismiss"
	"github.com/elektrokombinacija/imageviewer/internal/gesture"
	"github.com/elektrokombinacija/imageviewer/internal/viewer"
)

// SimulationConfig configures the simulation parameters.
type SimulationConfig struct {
	// Base holds the viewer tuning; geometry comes from the scenario.
	Base viewer.Options

	// Time step for simulation
	TimeStep time.Duration

	// Enable verbose logging
	Verbose bool

	Logger *slog.Logger
}

// DefaultConfig returns default simulation configuration.
func DefaultConfig() SimulationConfig {
	return SimulationConfig{
		Base:     viewer.DefaultOptions(),
		TimeStep: 16 * time.Millisecond, // ~60fps
	}
}

// SimulationMetrics collects metrics during simulation.
type SimulationMetrics struct {
	Scenario string `json:"scenario"`

	// Timing
	Frames        int           `json:"frames"`
	SimulatedTime time.Duration `json:"simulated_time"`
	// DismissedAfter is the time from release to leaving the screen.
	DismissedAfter time.Duration `json:"dismissed_after,omitempty"`

	// Dismissal
	Transitions  []string `json:"transitions"`
	FinalPhase   string   `json:"final_phase"`
	OverlayPhase string   `json:"overlay_phase"`
	Presents     int      `json:"presents"`
	Teardowns    int      `json:"teardowns"`

	// Body
	FinalCenter Point   `json:"final_center"`
	FinalAngle  float32 `json:"final_angle"`
	MaxAngle    float32 `json:"max_angle"`
	RestCenter  Point   `json:"rest_center"`
}

// Simulator runs one scenario.
type Simulator struct {
	config   SimulationConfig
	scenario Scenario
	log      *slog.Logger

	viewer  *viewer.Viewer
	start   time.Time
	now     time.Time
	release time.Time

	metrics SimulationMetrics
}

// countingHost stands in for the window presenting the overlay.
type countingHost struct {
	metrics *SimulationMetrics
}

func (h countingHost) Present() { h.metrics.Presents++ }
func (h countingHost) Dismiss() { h.metrics.Teardowns++ }

// NewSimulator creates a simulator for sc.
func NewSimulator(config SimulationConfig, sc Scenario) (*Simulator, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	if config.TimeStep <= 0 {
		config.TimeStep = DefaultConfig().TimeStep
	}
	log := config.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With("scenario", sc.Name)

	s := &Simulator{
		config:   config,
		scenario: sc,
		log:      log,
		start:    time.Unix(0, 0),
		metrics:  SimulationMetrics{Scenario: sc.Name, Transitions: []string{}},
	}
	s.now = s.start

	opts := config.Base
	opts.Screen = sc.Screen.F32()
	opts.Bounds = f32.Point{}
	opts.Image = sc.Image.F32()
	opts.Thumbnail = sc.Thumbnail.Geom()
	opts.Logger = log
	opts.Now = s.start
	if sc.Threshold > 0 {
		opts.Dismiss.Threshold = sc.Threshold
	}
	s.viewer = viewer.New(opts, countingHost{metrics: &s.metrics})
	s.viewer.Observe(dismiss.ObserverFunc(s.onTransition))
	return s, nil
}

func (s *Simulator) onTransition(from, to dismiss.Phase) {
	s.metrics.Transitions = append(s.metrics.Transitions, from.String()+">"+to.String())
	switch to {
	case dismiss.Flinging:
		s.release = s.now
	case dismiss.Dismissed:
		s.metrics.DismissedAfter = s.now.Sub(s.release)
	}
	if s.config.Verbose {
		s.log.Info("transition", "from", from, "to", to, "t", s.now.Sub(s.start))
	}
}

// Run executes the simulation.
func (s *Simulator) Run(ctx context.Context) (*SimulationMetrics, error) {
	events := s.scenario.sortedEvents()
	end := s.scenario.Duration()

	s.viewer.Present()
	for elapsed := time.Duration(0); elapsed <= end; {
		if err := ctx.Err(); err != nil {
			return &s.metrics, err
		}
		for len(events) > 0 && events[0].At <= elapsed {
			s.apply(events[0])
			events = events[1:]
		}

		elapsed += s.config.TimeStep
		s.now = s.start.Add(elapsed)
		s.viewer.Advance(s.now)
		s.metrics.Frames++

		angle := float32(math.Abs(float64(s.viewer.Body().Angle)))
		s.metrics.MaxAngle = max(s.metrics.MaxAngle, angle)
	}

	body := s.viewer.Body()
	rest := s.viewer.RestCenter()
	s.metrics.SimulatedTime = s.now.Sub(s.start)
	s.metrics.FinalPhase = s.viewer.Phase().String()
	s.metrics.OverlayPhase = s.viewer.OverlayPhase().String()
	s.metrics.FinalCenter = Point{body.Center.X, body.Center.Y}
	s.metrics.FinalAngle = body.Angle
	s.metrics.RestCenter = Point{rest.X, rest.Y}
	return &s.metrics, nil
}

func (s *Simulator) apply(st Step) {
	switch st.kind() {
	case ActionGesture:
		phase, _ := gesture.ParsePhase(st.Phase)
		s.viewer.HandleGesture(gesture.Event{
			Phase:       phase,
			Position:    st.Pos.F32(),
			Translation: st.Translation.F32(),
			Velocity:    st.Velocity.F32(),
			Elapsed:     st.At,
		})
	case ActionZoom:
		s.viewer.SetZoom(st.Zoom)
	case ActionClose:
		s.viewer.Close()
	case ActionResize:
		s.viewer.Resize(st.Screen.F32(), f32.Point{})
	}
}

// Metrics returns current simulation metrics.
func (s *Simulator) Metrics() SimulationMetrics { return s.metrics }

// Check compares the metrics against the scenario expectations.
func (m *SimulationMetrics) Check(e Expect) error {
	var errs []error
	if e.Phase != "" && m.FinalPhase != e.Phase {
		errs = append(errs, fmt.Errorf("final phase %s, want %s", m.FinalPhase, e.Phase))
	}
	if e.Closed != nil && (m.OverlayPhase == "closed") != *e.Closed {
		errs = append(errs, fmt.Errorf("overlay %s, want closed=%v", m.OverlayPhase, *e.Closed))
	}
	if e.Teardowns != nil && m.Teardowns != *e.Teardowns {
		errs = append(errs, fmt.Errorf("%d teardowns, want %d", m.Teardowns, *e.Teardowns))
	}
	if e.Transitions != nil && !slices.Equal(m.Transitions, e.Transitions) {
		errs = append(errs, fmt.Errorf("transitions [%s], want [%s]",
			strings.Join(m.Transitions, " "), strings.Join(e.Transitions, " ")))
	}
	if e.AtRest && (m.FinalCenter != m.RestCenter || m.FinalAngle != 0) {
		errs = append(errs, fmt.Errorf("image at %v angle %v, want rest at %v", m.FinalCenter, m.FinalAngle, m.RestCenter))
	}
	return errors.Join(errs...)
}

// SimulationResult is the final output of a simulation run.
type SimulationResult struct {
	Metrics SimulationMetrics `json:"metrics"`
	Success bool              `json:"success"`
	Error   string            `json:"error,omitempty"`
}

// RunSimulation runs sc and checks its expectations.
func RunSimulation(ctx context.Context, config SimulationConfig, sc Scenario) (*SimulationResult, error) {
	sim, err := NewSimulator(config, sc)
	if err != nil {
		return &SimulationResult{Metrics: SimulationMetrics{Scenario: sc.Name}, Error: err.Error()}, err
	}

	metrics, err := sim.Run(ctx)
	if err == nil {
		err = metrics.Check(sc.Expect)
	}
	result := &SimulationResult{Metrics: *metrics, Success: err == nil}
	if err != nil {
		result.Error = err.Error()
	}
	return result, err
}

// ExportResults writes results to a JSON file.
func ExportResults(path string, results []*SimulationResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
