// Package media decodes images for display and prepares the thumbnail and
// the blurred backdrop drawn behind the full-screen viewer.
package media

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"gioui.org/f32"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	// Formats beyond the ones imaging registers.
	_ "golang.org/x/image/webp"
)

// DefaultMaxSide bounds the longer side of the display copy.
const DefaultMaxSide = 2048

// Image is a decoded picture.
type Image struct {
	// Native is the size of the source in pixels, after orientation.
	Native image.Point
	// Display is a copy no larger than the requested maximum side.
	Display *image.NRGBA
}

// Size returns the native size as a float point for layout.
func (im *Image) Size() f32.Point {
	if im == nil {
		return f32.Point{}
	}
	return f32.Pt(float32(im.Native.X), float32(im.Native.Y))
}

// Load opens and decodes the image file at path, honouring EXIF
// orientation.
func Load(path string, maxSide int) (*Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return prepare(img, maxSide), nil
}

// Decode reads an image from r.
func Decode(r io.Reader, maxSide int) (*Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return prepare(img, maxSide), nil
}

func prepare(img image.Image, maxSide int) *Image {
	if maxSide <= 0 {
		maxSide = DefaultMaxSide
	}
	b := img.Bounds()
	im := &Image{Native: b.Size()}
	if b.Dx() <= maxSide && b.Dy() <= maxSide {
		im.Display = imaging.Clone(img)
		return im
	}
	im.Display = imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
	return im
}

// Thumbnail crops and scales img to fill exactly w×h.
func Thumbnail(img image.Image, w, h int) *image.NRGBA {
	return imaging.Thumbnail(img, w, h, imaging.Lanczos)
}

// BackdropOptions control the backdrop image.
type BackdropOptions struct {
	Sigma float64
	Tint  colorful.Color
	// TintAlpha is how strongly the tint covers the blurred image.
	TintAlpha float64
	// ReduceTransparency replaces the blur with a solid tint.
	ReduceTransparency bool
}

// Backdrop renders the screen-filling backdrop for img at size.
func Backdrop(img image.Image, size image.Point, opts BackdropOptions) *image.NRGBA {
	solid := toNRGBA(opts.Tint, 1)
	if opts.ReduceTransparency || img == nil {
		return imaging.New(size.X, size.Y, solid)
	}
	// Blur a small copy; the result is smooth enough to scale up.
	small := imaging.Fill(img, max(size.X/4, 1), max(size.Y/4, 1), imaging.Center, imaging.Box)
	blurred := imaging.Blur(small, opts.Sigma/4)
	bg := imaging.Resize(blurred, size.X, size.Y, imaging.Linear)
	tint := imaging.New(size.X, size.Y, solid)
	return imaging.Overlay(bg, tint, image.Point{}, opts.TintAlpha)
}

// ParseTint parses a hex color such as "#f2f2f7".
func ParseTint(hex string) (colorful.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid tint %q: %w", hex, err)
	}
	return c, nil
}

// Dim blends c toward black by amount in [0, 1], in Lab space.
func Dim(c colorful.Color, amount float64) colorful.Color {
	return c.BlendLab(colorful.Color{}, amount).Clamped()
}

// Placeholder draws a vertical gradient shown when there is no image.
func Placeholder(w, h int, from, to colorful.Color) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		t := 0.0
		if h > 1 {
			t = float64(y) / float64(h-1)
		}
		c := toNRGBA(from.BlendLab(to, t).Clamped(), 1)
		for x := 0; x < w; x++ {
			dst.SetNRGBA(x, y, c)
		}
	}
	return dst
}

// NRGBA converts c with the given opacity to a color usable by paint ops.
func NRGBA(c colorful.Color, alpha float64) color.NRGBA {
	return toNRGBA(c, alpha)
}

func toNRGBA(c colorful.Color, alpha float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	a := min(max(alpha, 0), 1)
	return color.NRGBA{R: r, G: g, B: b, A: uint8(a*255 + 0.5)}
}
