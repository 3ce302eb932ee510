package catalog

import "github.com/piwi3910/gdrrcut/internal/geom"

// SheetType is one immutable stock sheet definition.
type SheetType struct {
	ID                      int
	Width                   uint64
	Height                  uint64
	Value                   uint64
	FixedFirstCutOrient     *geom.Orientation // nil means both first cuts allowed
	MaxStages               uint8             // 0 means unlimited
}

// Size returns the sheet's full size.
func (s SheetType) Size() geom.Size {
	return geom.NewSize(s.Width, s.Height)
}

// Area is width*height.
func (s SheetType) Area() uint64 {
	return s.Width * s.Height
}

// AllowedFirstCutOrientations returns the orientations a Layout may be
// rooted with for this sheet type.
func (s SheetType) AllowedFirstCutOrientations() []geom.Orientation {
	if s.FixedFirstCutOrient != nil {
		return []geom.Orientation{*s.FixedFirstCutOrient}
	}
	return []geom.Orientation{geom.Horizontal, geom.Vertical}
}
