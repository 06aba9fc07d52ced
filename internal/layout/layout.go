// Package layout computes how a single tall bitmap is tiled across fixed-size
// PDF pages.
//
// The full image is placed on every page at an increasing negative offset so
// each page reveals the next vertical band of the same image. Nothing is
// cropped here; the PDF writer clips each page to its usable band.
package layout

import (
	"errors"
	"fmt"
)

// ErrDimension indicates degenerate bitmap or page dimensions.
var ErrDimension = errors.New("invalid dimensions")

// ISO A4 portrait, in millimeters.
const (
	A4Width  = 210.0
	A4Height = 297.0
)

// Margins in millimeters.
const (
	SideMargin          = 20.0
	CodeTopMargin       = 55.0 // header block clearance on code captures
	MarkupTopMargin     = 10.0
	DefaultBottomMargin = 10.0
)

// epsilon absorbs float drift when the image height is an exact multiple of
// the usable page height.
const epsilon = 1e-9

// Sized is anything with pixel dimensions, typically a raster.Bitmap.
type Sized interface {
	PixelWidth() int
	PixelHeight() int
}

// Geometry describes the printable area of a page, in millimeters.
type Geometry struct {
	PageWidth        float64
	PageHeight       float64
	HorizontalMargin float64
	TopMargin        float64
	BottomMargin     float64
}

// CodeGeometry is used for code captures: the first 55mm hold the header.
func CodeGeometry() Geometry {
	return Geometry{
		PageWidth:        A4Width,
		PageHeight:       A4Height,
		HorizontalMargin: SideMargin,
		TopMargin:        CodeTopMargin,
		BottomMargin:     DefaultBottomMargin,
	}
}

// MarkupGeometry is used for rendered-markup captures (no header).
func MarkupGeometry() Geometry {
	return Geometry{
		PageWidth:        A4Width,
		PageHeight:       A4Height,
		HorizontalMargin: SideMargin,
		TopMargin:        MarkupTopMargin,
		BottomMargin:     DefaultBottomMargin,
	}
}

// ImageWidth returns the width available to the image.
func (g Geometry) ImageWidth() float64 {
	return g.PageWidth - 2*g.HorizontalMargin
}

// UsableHeight returns the page height between top and bottom margins.
func (g Geometry) UsableHeight() float64 {
	return g.PageHeight - g.TopMargin - g.BottomMargin
}

// Validate checks that the geometry leaves a printable area.
func (g Geometry) Validate() error {
	if g.PageWidth <= 0 || g.PageHeight <= 0 {
		return fmt.Errorf("%w: page %.2fx%.2fmm", ErrDimension, g.PageWidth, g.PageHeight)
	}
	if g.ImageWidth() <= 0 {
		return fmt.Errorf("%w: no horizontal space (margin %.2fmm)", ErrDimension, g.HorizontalMargin)
	}
	if g.UsableHeight() <= 0 {
		return fmt.Errorf("%w: no vertical space (top %.2fmm, bottom %.2fmm)", ErrDimension, g.TopMargin, g.BottomMargin)
	}
	return nil
}

// Placement is where the image is drawn on one page.
type Placement struct {
	PageIndex int     // zero-based
	Offset    float64 // y of the image top edge on this page (mm, may be negative)
	Slice     float64 // height of the image band revealed on this page (mm)
}

// Plan is the result of Split: the drawn image size and one placement per page.
type Plan struct {
	ImageWidth  float64
	ImageHeight float64
	Placements  []Placement
}

// Pages returns the number of pages the plan needs.
func (p Plan) Pages() int {
	return len(p.Placements)
}

// Split tiles the bitmap across as many pages as needed.
// The image keeps its aspect ratio and fills the page width minus margins.
func Split(b Sized, g Geometry) (Plan, error) {
	if b == nil {
		return Plan{}, fmt.Errorf("%w: nil bitmap", ErrDimension)
	}
	w, h := b.PixelWidth(), b.PixelHeight()
	if w <= 0 {
		return Plan{}, fmt.Errorf("%w: bitmap width %d", ErrDimension, w)
	}
	if h <= 0 {
		return Plan{}, fmt.Errorf("%w: bitmap height %d", ErrDimension, h)
	}
	if err := g.Validate(); err != nil {
		return Plan{}, err
	}

	imgWidth := g.ImageWidth()
	imgHeight := float64(h) * imgWidth / float64(w)
	usable := g.UsableHeight()

	plan := Plan{ImageWidth: imgWidth, ImageHeight: imgHeight}

	if imgHeight <= usable {
		plan.Placements = []Placement{{PageIndex: 0, Offset: g.TopMargin, Slice: imgHeight}}
		return plan, nil
	}

	var consumed float64
	for page := 0; consumed < imgHeight-epsilon; page++ {
		slice := min(usable, imgHeight-consumed)
		plan.Placements = append(plan.Placements, Placement{
			PageIndex: page,
			Offset:    g.TopMargin - usable*float64(page),
			Slice:     slice,
		})
		consumed += usable
	}
	return plan, nil
}
