package vgrid

import (
	"github.com/agiangrant/vgrid/dim"
	"github.com/agiangrant/vgrid/sizing"
)

// Chrome holds the heights of the parts drawn around the grid body.
// This is a re-export of sizing.Chrome for consumer convenience.
type Chrome = sizing.Chrome

// Geometry is the computed layout of a grid.
// This is a re-export of sizing.Geometry for consumer convenience.
type Geometry = sizing.Geometry

// Config configures a grid's layout behavior.
type Config struct {
	// Name identifies the grid in logs and metrics.
	Name string

	// Width and Height are the declared grid dimensions. Automatic and
	// percentage widths follow the container; an automatic height shows
	// TargetRecords rows.
	Width  dim.Spec
	Height dim.Spec

	// RowHeight is the height of one data row in pixels.
	// Default: 50
	RowHeight float64

	// HeaderRowHeight is the height of one header row. Default: RowHeight
	HeaderRowHeight float64

	// ScrollbarSize is the thickness of a native scrollbar.
	// Default: 18
	ScrollbarSize float64

	// TargetRecords is the number of rows an automatic height shows.
	// Default: 10
	TargetRecords int

	// Overscan is the number of items materialized beyond the viewport.
	// Default: 1
	Overscan int

	// MaxExtraPasses bounds the re-layout passes caused by scrollbars
	// appearing or disappearing. Negative means none.
	// Default: 2
	MaxExtraPasses int

	// Feature columns rendered in the pinned area, 0 when disabled.
	RowSelectorWidth float64
	DragHandleWidth  float64

	// ColumnWidth is the width of columns that declare none. When automatic,
	// the remaining width is distributed evenly.
	ColumnWidth dim.Spec

	// SnapToPixels distributes whole pixels only.
	SnapToPixels bool

	// QuickFilter shows the filter row below the headers.
	QuickFilter bool

	// PerPage enables paging when positive.
	PerPage int

	Chrome Chrome
}

// DefaultConfig returns sensible defaults for a grid filling its container.
func DefaultConfig() Config {
	return Config{
		Name:           "grid",
		Width:          dim.Pct(100),
		RowHeight:      sizing.DefaultRowHeight,
		ScrollbarSize:  sizing.DefaultScrollbarSize,
		TargetRecords:  sizing.DefaultTargetRecords,
		Overscan:       1,
		MaxExtraPasses: sizing.DefaultMaxExtraPasses,
	}
}

// FeatureWidth returns the combined width of the enabled feature columns.
func (c Config) FeatureWidth() float64 {
	return max(c.RowSelectorWidth, 0) + max(c.DragHandleWidth, 0)
}

func (c Config) params() sizing.Params {
	return sizing.Params{
		Width:           c.Width,
		Height:          c.Height,
		RowHeight:       c.RowHeight,
		HeaderRowHeight: c.HeaderRowHeight,
		ScrollbarSize:   c.ScrollbarSize,
		TargetRecords:   c.TargetRecords,
		MaxExtraPasses:  c.MaxExtraPasses,
		Overscan:        c.Overscan,
		FeatureWidth:    c.FeatureWidth(),
		ColumnWidth:     c.ColumnWidth,
		SnapToPixels:    c.SnapToPixels,
		QuickFilter:     c.QuickFilter,
		Chrome:          c.Chrome,
		PerPage:         c.PerPage,
	}
}
