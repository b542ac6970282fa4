package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginateSinglePage(t *testing.T) {
	l := Paginate(1588, 1000, A4)
	require.Equal(t, 1, l.Pages())
	assert.Equal(t, 0.0, l.Placements[0].OffsetY)
	assert.InDelta(t, 210, l.Width, 1e-9)
	assert.InDelta(t, 132.2418, l.Height, 1e-3)
}

func TestPaginateExactMultipleHasNoTrailingPage(t *testing.T) {
	// 210 wide by 594 tall is exactly two A4 heights.
	l := Paginate(210, 594, A4)
	require.Equal(t, 2, l.Pages())
	assert.Equal(t, 0.0, l.Placements[0].OffsetY)
	assert.Equal(t, -297.0, l.Placements[1].OffsetY)

	l = Paginate(420, 297, A4)
	assert.Equal(t, 1, l.Pages())
}

func TestPaginateNegativeOffsets(t *testing.T) {
	// 210 wide by 700 tall needs three pages: 297 + 297 + 106.
	l := Paginate(210, 700, A4)
	require.Equal(t, 3, l.Pages())
	for i, p := range l.Placements {
		assert.Equal(t, i+1, p.Page)
		assert.Equal(t, -297.0*float64(i), p.OffsetY)
		assert.Equal(t, 0.0, p.OffsetX)
	}
	assert.InDelta(t, 700, l.Height, 1e-9)
}

func TestPaginatePageCountMatchesCeiling(t *testing.T) {
	for h := 1; h <= 2000; h += 37 {
		l := Paginate(210, h, A4)
		want := (h + 296) / 297
		assert.Equal(t, want, l.Pages(), "height %d", h)
	}
}

func TestPaginateEmptyRaster(t *testing.T) {
	assert.Zero(t, Paginate(0, 100, A4).Pages())
	assert.Zero(t, Paginate(100, 0, A4).Pages())
}

func TestFitSinglePage(t *testing.T) {
	tall := FitSinglePage(1000, 3000, A4)
	require.Equal(t, 1, tall.Pages())
	assert.InDelta(t, 297, tall.Height, 1e-9)
	assert.InDelta(t, 99, tall.Width, 1e-9)
	assert.InDelta(t, 55.5, tall.Placements[0].OffsetX, 1e-9)

	wide := FitSinglePage(1000, 500, A4)
	assert.InDelta(t, 210, wide.Width, 1e-9)
	assert.InDelta(t, 105, wide.Height, 1e-9)
	assert.Equal(t, 0.0, wide.Placements[0].OffsetX)
}

func TestLayoutForType(t *testing.T) {
	assert.Equal(t, 3, LayoutFor(DigitalMaturity, 210, 700, A4).Pages())
	assert.Equal(t, 3, LayoutFor(AutomationReadiness, 210, 700, A4).Pages())
	assert.Equal(t, 1, LayoutFor(ROI, 210, 700, A4).Pages())
}
