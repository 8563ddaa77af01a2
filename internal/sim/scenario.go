package sim

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"gioui.org/f32"
	"gopkg.in/yaml.v3"

	"github.com/elektrokombinacija/imageviewer/internal/geom"
	"github.com/elektrokombinacija/imageviewer/internal/gesture"
)

// Point is a YAML friendly f32.Point.
type Point struct {
	X float32 `yaml:"x" json:"x"`
	Y float32 `yaml:"y" json:"y"`
}

// F32 converts p.
func (p Point) F32() f32.Point { return f32.Pt(p.X, p.Y) }

// Size is a width and height.
type Size struct {
	W float32 `yaml:"w" json:"w"`
	H float32 `yaml:"h" json:"h"`
}

// F32 converts s.
func (s Size) F32() f32.Point { return f32.Pt(s.W, s.H) }

// Rect is an origin and size.
type Rect struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
	W float32 `yaml:"w"`
	H float32 `yaml:"h"`
}

// Geom converts r.
func (r Rect) Geom() geom.Rect { return geom.R(r.X, r.Y, r.X+r.W, r.Y+r.H) }

// Action kinds of a scripted step.
const (
	ActionGesture = "gesture"
	ActionZoom    = "zoom"
	ActionClose   = "close"
	ActionResize  = "resize"
)

// Step is one scripted input, delivered At after the viewer was presented.
type Step struct {
	At     time.Duration `yaml:"at"`
	Action string        `yaml:"action"`

	// Gesture fields.
	Phase       string `yaml:"phase"`
	Pos         Point  `yaml:"pos"`
	Translation Point  `yaml:"translation"`
	Velocity    Point  `yaml:"velocity"`

	// Zoom sets the zoom scale.
	Zoom float32 `yaml:"zoom"`
	// Screen is the new size for a resize.
	Screen Size `yaml:"screen"`
}

// kind returns the action, defaulting to a gesture when a phase is set.
func (s Step) kind() string {
	if s.Action == "" && s.Phase != "" {
		return ActionGesture
	}
	return s.Action
}

// Expect is the outcome a scenario asserts.
type Expect struct {
	Phase       string   `yaml:"phase"`
	Closed      *bool    `yaml:"closed"`
	Teardowns   *int     `yaml:"teardowns"`
	Transitions []string `yaml:"transitions"`
	// AtRest requires the image to end centered and unrotated.
	AtRest bool `yaml:"at_rest"`
}

// Scenario is a scripted viewer session.
type Scenario struct {
	Name      string `yaml:"name"`
	Screen    Size   `yaml:"screen"`
	Image     Size   `yaml:"image"`
	Thumbnail Rect   `yaml:"thumbnail"`
	// Threshold overrides the fling threshold when positive.
	Threshold float32       `yaml:"threshold"`
	Events    []Step        `yaml:"events"`
	Settle    time.Duration `yaml:"settle"`
	Expect    Expect        `yaml:"expect"`
}

// Validate checks the scenario for scripting errors.
func (sc *Scenario) Validate() error {
	if sc.Screen.W <= 0 || sc.Screen.H <= 0 {
		return fmt.Errorf("scenario %q: screen size must be positive", sc.Name)
	}
	for i, st := range sc.Events {
		switch st.kind() {
		case ActionGesture:
			if _, err := gesture.ParsePhase(st.Phase); err != nil {
				return fmt.Errorf("scenario %q event %d: %w", sc.Name, i, err)
			}
		case ActionZoom:
			if st.Zoom <= 0 {
				return fmt.Errorf("scenario %q event %d: zoom must be positive", sc.Name, i)
			}
		case ActionResize:
			if st.Screen.W <= 0 || st.Screen.H <= 0 {
				return fmt.Errorf("scenario %q event %d: resize needs a screen size", sc.Name, i)
			}
		case ActionClose:
		default:
			return fmt.Errorf("scenario %q event %d: unknown action %q", sc.Name, i, st.Action)
		}
		if st.At < 0 {
			return fmt.Errorf("scenario %q event %d: negative time", sc.Name, i)
		}
	}
	return nil
}

// sortedEvents returns the events ordered by time, stable for equal times.
func (sc *Scenario) sortedEvents() []Step {
	events := slices.Clone(sc.Events)
	slices.SortStableFunc(events, func(a, b Step) int {
		return cmp.Compare(a.At, b.At)
	})
	return events
}

// Duration is the simulated time the scenario needs.
func (sc *Scenario) Duration() time.Duration {
	var last time.Duration
	for _, st := range sc.Events {
		last = max(last, st.At)
	}
	return last + sc.Settle
}

// ParseScenarios decodes one or more YAML documents.
func ParseScenarios(data []byte) ([]Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var out []Scenario
	for {
		var sc Scenario
		err := dec.Decode(&sc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse scenario: %w", err)
		}
		if err := sc.Validate(); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	if len(out) == 0 {
		return nil, errors.New("no scenarios found")
	}
	return out, nil
}

// LoadScenarios reads the scenarios in the file at path. Unnamed scenarios
// are named after the file.
func LoadScenarios(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	scs, err := ParseScenarios(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	base := strings.TrimSuffix(path[strings.LastIndexAny(path, `/\`)+1:], ".yaml")
	for i := range scs {
		if scs[i].Name == "" {
			scs[i].Name = base
		}
	}
	return scs, nil
}

func ptr[T any](v T) *T { return &v }

// Builtin returns the reference scenarios: a fast throw, a slow release,
// a tap, a pan while zoomed and a drag claimed late.
func Builtin() []Scenario {
	screen := Size{W: 320, H: 480}
	image := Size{W: 640, H: 480}
	thumb := Rect{X: 20, Y: 20, W: 80, H: 60}
	drag := func(velocity Point) []Step {
		return []Step{
			{At: 300 * time.Millisecond, Phase: "began", Pos: Point{160, 240}},
			{At: 316 * time.Millisecond, Phase: "changed", Pos: Point{160, 260}, Translation: Point{0, 20}},
			{At: 332 * time.Millisecond, Phase: "changed", Pos: Point{160, 290}, Translation: Point{0, 50}},
			{At: 348 * time.Millisecond, Phase: "ended", Pos: Point{160, 320}, Translation: Point{0, 80}, Velocity: velocity},
		}
	}
	return []Scenario{
		{
			Name:   "fling-down",
			Screen: screen, Image: image, Thumbnail: thumb,
			Events: drag(Point{0, 2000}),
			Settle: 2 * time.Second,
			Expect: Expect{
				Phase:       "dismissed",
				Closed:      ptr(true),
				Teardowns:   ptr(1),
				Transitions: []string{"idle>attached", "attached>flinging", "flinging>dismissed"},
			},
		},
		{
			Name:   "slow-release",
			Screen: screen, Image: image, Thumbnail: thumb,
			Events: drag(Point{0, 300}),
			Settle: time.Second,
			Expect: Expect{
				Phase:       "idle",
				Closed:      ptr(false),
				Teardowns:   ptr(0),
				Transitions: []string{"idle>attached", "attached>snapping-back", "snapping-back>idle"},
				AtRest:      true,
			},
		},
		{
			Name:   "tap-dismiss",
			Screen: screen, Image: image, Thumbnail: thumb,
			Events: []Step{{At: 400 * time.Millisecond, Phase: "tapped", Pos: Point{160, 240}}},
			Settle: 500 * time.Millisecond,
			Expect: Expect{Phase: "idle", Closed: ptr(true), Teardowns: ptr(1), Transitions: []string{}},
		},
		{
			Name:   "zoomed-pan",
			Screen: screen, Image: image, Thumbnail: thumb,
			Events: append([]Step{{At: 250 * time.Millisecond, Action: ActionZoom, Zoom: 2}}, drag(Point{0, 3000})...),
			Settle: time.Second,
			Expect: Expect{Phase: "idle", Closed: ptr(false), Teardowns: ptr(0), Transitions: []string{}},
		},
		{
			Name:   "late-claim",
			Screen: screen, Image: image, Thumbnail: thumb,
			Events: []Step{
				{At: 300 * time.Millisecond, Phase: "began", Pos: Point{160, 60}},
				{At: 316 * time.Millisecond, Phase: "changed", Pos: Point{160, 140}, Translation: Point{0, 80}},
				{At: 332 * time.Millisecond, Phase: "changed", Pos: Point{160, 200}, Translation: Point{0, 140}},
				{At: 348 * time.Millisecond, Phase: "ended", Pos: Point{160, 220}, Translation: Point{0, 160}, Velocity: Point{0, 200}},
			},
			Settle: time.Second,
			Expect: Expect{
				Phase:       "idle",
				Teardowns:   ptr(0),
				Transitions: []string{"idle>attached", "attached>snapping-back", "snapping-back>idle"},
				AtRest:      true,
			},
		},
	}
}
