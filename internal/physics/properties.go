package physics

import "gioui.org/f32"

// Profile is a screen size in points.
type Profile struct {
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
}

// Reference is the historical baseline device the tuning constants were
// calibrated on.
var Reference = Profile{Width: 320, Height: 480}

// Area returns Width×Height.
func (p Profile) Area() float32 { return p.Width * p.Height }

const (
	baseAngularResistance = 4
	baseDensity           = 0.5
)

// BodyProperties are the derived physical parameters of a thrown image.
type BodyProperties struct {
	AngularResistance float32
	Density           float32
}

// ComputeBodyProperties scales the base resistance and density so a throw
// feels the same on every screen: resolutionFactor = reference area /
// screen area and areaFactor = container area / displayed image area.
func ComputeBodyProperties(ref Profile, screen, container, image f32.Point) BodyProperties {
	f := ResolutionFactor(ref, screen) * AreaFactor(container, image)
	return BodyProperties{
		AngularResistance: baseAngularResistance * f,
		Density:           baseDensity * f,
	}
}

// ResolutionFactor is ref area / screen area, 1 for degenerate screens.
func ResolutionFactor(ref Profile, screen f32.Point) float32 {
	a := screen.X * screen.Y
	if a <= 0 || ref.Area() <= 0 {
		return 1
	}
	return ref.Area() / a
}

// AreaFactor is container area / image area, 1 for degenerate sizes.
func AreaFactor(container, image f32.Point) float32 {
	ia := image.X * image.Y
	ca := container.X * container.Y
	if ia <= 0 || ca <= 0 {
		return 1
	}
	return ca / ia
}
