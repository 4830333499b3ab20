package thumbnail

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
)

// Flavor is a named thumbnail size class.
type Flavor string

const (
	FlavorNormal Flavor = "normal"
	FlavorLarge  Flavor = "large"
)

// Size returns the bounding box edge in pixels.
func (f Flavor) Size() int {
	switch f {
	case FlavorLarge:
		return 256
	default:
		return 128
	}
}

// ParseFlavor parses a flavor name. The empty string means FlavorNormal.
func ParseFlavor(s string) (Flavor, error) {
	switch Flavor(strings.ToLower(s)) {
	case "", FlavorNormal:
		return FlavorNormal, nil
	case FlavorLarge:
		return FlavorLarge, nil
	default:
		return "", fmt.Errorf("unknown thumbnail flavor %q", s)
	}
}

// Scale fits img into the flavor's square box keeping the aspect ratio.
// Images already inside the box are returned unchanged.
func Scale(img image.Image, f Flavor) image.Image {
	size := f.Size()
	b := img.Bounds()
	if b.Dx() <= size && b.Dy() <= size {
		return img
	}
	return imaging.Fit(img, size, size, imaging.Lanczos)
}
