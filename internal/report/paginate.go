package report

import "math"

// PageSize is a page in millimetres.
type PageSize struct {
	Width  float64
	Height float64
}

var A4 = PageSize{Width: 210, Height: 297}

// Placement positions the full raster on one page. OffsetY is zero on the
// first page and negative after that, so each page shows the next window of
// the same image.
type Placement struct {
	Page    int
	OffsetX float64
	OffsetY float64
}

// Layout is the image size on paper plus one placement per page.
type Layout struct {
	Page       PageSize
	Width      float64
	Height     float64
	Placements []Placement
}

func (l Layout) Pages() int {
	return len(l.Placements)
}

// heights within this many millimetres of a page boundary count as exactly
// on it, so float noise never adds a blank page.
const pageEpsilon = 1e-6

// Paginate scales the raster to the page width and slides it upward one page
// height at a time until all of it has been placed.
func Paginate(imgW, imgH int, page PageSize) Layout {
	l := Layout{Page: page}
	if imgW <= 0 || imgH <= 0 || page.Width <= 0 || page.Height <= 0 {
		return l
	}
	ratio := float64(imgW) / float64(imgH)
	l.Width = page.Width
	l.Height = page.Width / ratio

	position := 0.0
	remaining := l.Height
	l.Placements = append(l.Placements, Placement{Page: 1, OffsetY: position})
	remaining -= page.Height
	for remaining > pageEpsilon {
		position -= page.Height
		l.Placements = append(l.Placements, Placement{Page: len(l.Placements) + 1, OffsetY: position})
		remaining -= page.Height
	}
	return l
}

// FitSinglePage scales the raster to the page width, or to the page height
// when that would overflow, and centres it horizontally. It never splits.
func FitSinglePage(imgW, imgH int, page PageSize) Layout {
	l := Layout{Page: page}
	if imgW <= 0 || imgH <= 0 || page.Width <= 0 || page.Height <= 0 {
		return l
	}
	scale := math.Min(page.Width/float64(imgW), page.Height/float64(imgH))
	l.Width = float64(imgW) * scale
	l.Height = float64(imgH) * scale
	l.Placements = []Placement{{Page: 1, OffsetX: (page.Width - l.Width) / 2}}
	return l
}

// LayoutFor picks the layout the report type calls for.
func LayoutFor(t Type, imgW, imgH int, page PageSize) Layout {
	if t.MultiPage() {
		return Paginate(imgW, imgH, page)
	}
	return FitSinglePage(imgW, imgH, page)
}
