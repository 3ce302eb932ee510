// Package geom holds the value types shared by the catalog and layout
// packages: rectangle sizes, cut orientation, part rotation, and the
// four-component solution cost vector.
package geom

// Size is an immutable width/height pair, in whatever integer unit the
// instance was specified in.
type Size struct {
	Width  uint64
	Height uint64
}

// NewSize builds a Size.
func NewSize(width, height uint64) Size {
	return Size{Width: width, Height: height}
}

// Area returns width*height.
func (s Size) Area() uint64 {
	return s.Width * s.Height
}

// Rotated returns the size with width and height swapped.
func (s Size) Rotated() Size {
	return Size{Width: s.Height, Height: s.Width}
}

// Fits reports whether s fits within other along both dimensions.
func (s Size) Fits(other Size) bool {
	return s.Width <= other.Width && s.Height <= other.Height
}
