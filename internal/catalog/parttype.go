// Package catalog holds the immutable input model: part and sheet types
// and the instance that aggregates them with their demand/stock
// quantities. Every PartType/SheetType's ID equals its index in the
// Instance's list (spec §3), so catalog values never carry process-wide
// identity counters.
package catalog

import "github.com/piwi3910/gdrrcut/internal/geom"

// PartType is one immutable required part definition.
type PartType struct {
	ID            int
	Width         uint64
	Height        uint64
	FixedRotation *geom.Rotation // nil means free rotation
}

// Size returns the part's default-orientation size.
func (p PartType) Size() geom.Size {
	return geom.NewSize(p.Width, p.Height)
}

// RotatedSize returns the part's 90-degree-rotated size.
func (p PartType) RotatedSize() geom.Size {
	return p.Size().Rotated()
}

// SizeFor returns the size of the part under the given rotation.
func (p PartType) SizeFor(r geom.Rotation) geom.Size {
	if r == geom.Rotated {
		return p.RotatedSize()
	}
	return p.Size()
}

// Area is width*height, independent of rotation.
func (p PartType) Area() uint64 {
	return p.Width * p.Height
}

// AllowsRotation reports whether rotation r is usable for this part
// type, honouring FixedRotation when set.
func (p PartType) AllowsRotation(r geom.Rotation) bool {
	return p.FixedRotation == nil || *p.FixedRotation == r
}
