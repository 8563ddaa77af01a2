package geom

import "gioui.org/f32"

// Insets are the distances from each edge of a viewport to its content.
type Insets struct {
	Top, Left, Bottom, Right float32
}

// FitSize scales image down to fit inside container, preserving aspect
// ratio. Images already smaller than the container keep their size.
func FitSize(image, container f32.Point) f32.Point {
	if image.X <= 0 || image.Y <= 0 || container.X <= 0 || container.Y <= 0 {
		return f32.Point{}
	}
	ratio := container.X / image.X
	if r := container.Y / image.Y; r < ratio {
		ratio = r
	}
	// Never upscale.
	if ratio > 1 {
		ratio = 1
	}
	return image.Mul(ratio)
}

// FitRect returns the display rectangle of image centered in a container
// whose origin is (0, 0).
func FitRect(image, container f32.Point) Rect {
	center := container.Mul(0.5)
	return RectAt(center, FitSize(image, container))
}

// CenterInsets returns the insets that center content of the given size in
// bounds. Axes where the content is at least as large as bounds get zero
// insets.
func CenterInsets(content, bounds f32.Point) Insets {
	var in Insets
	if bounds.X > content.X {
		in.Left = (bounds.X - content.X) / 2
		in.Right = in.Left
	}
	if bounds.Y > content.Y {
		in.Top = (bounds.Y - content.Y) / 2
		in.Bottom = in.Top
	}
	return in
}
