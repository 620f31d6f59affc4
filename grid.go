// Package vgrid is the viewport virtualization and layout sizing engine of
// a data grid, independent of any rendering framework.
//
// A Grid decides which rows and columns are materialized and computes their
// pixel geometry: resolved column widths, the pinned and unpinned areas, the
// body height and the scroll state of both axes. The rendering layer supplies
// measurements through a Viewport and row counts through a DataSource, and
// reads back Geometry and window states after every reflow.
//
// Basic usage:
//
//	tree := column.NewTree(
//	    &column.Column{Field: "ID", Width: dim.Px(100)},
//	    &column.Column{Field: "Name"},
//	)
//	g, err := vgrid.New(vgrid.DefaultConfig(), tree,
//	    &vgrid.FixedViewport{Width: 800, Height: 600}, &vgrid.StaticData{N: 1000})
//	if err != nil {
//	    return err
//	}
//	g.ScrollTo(500, -1)
//	start, end := g.MaterializedRows()
package vgrid

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/agiangrant/vgrid/column"
	"github.com/agiangrant/vgrid/internal/diag"
	"github.com/agiangrant/vgrid/internal/metrics"
	"github.com/agiangrant/vgrid/sizing"
	"github.com/agiangrant/vgrid/virtual"
)

// Diagnostic is a non-fatal warning recorded by a grid.
type Diagnostic = diag.Diagnostic

// Grid owns every layout component of one data grid and is their single
// write path. Mutations invalidate all derived geometry; the next reflow
// recomputes it as a whole.
//
// A Grid is not safe for concurrent use. Callers serialize access the way
// a UI event loop does.
type Grid struct {
	cfg  Config
	orch *sizing.Orchestrator

	diag    *diag.Recorder
	metrics *metrics.Collector
	log     *zap.Logger

	// wheelY is the vertical wheel distance not yet worth a row.
	wheelY float64

	frames
}

// New creates a grid over tree and lays it out once.
//
// tree is read only; pin, hide and resize operations derive new trees.
// A nil tree, viewport or data source is treated as empty.
func New(cfg Config, tree *column.Tree, vp Viewport, data DataSource, opts ...Option) (*Grid, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if cfg.Name == "" {
		cfg.Name = DefaultConfig().Name
	}

	col, err := metrics.New(o.registerer, cfg.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics for grid %q: %w", cfg.Name, err)
	}

	logger := o.logger.With(zap.String("grid", cfg.Name))
	rec := diag.NewRecorder(logger)
	g := &Grid{
		cfg:     cfg,
		diag:    rec,
		metrics: col,
		log:     logger,
	}
	g.orch = sizing.NewOrchestrator(cfg.params(), tree, vp, data, rec, col)

	g.orch.Vertical().OnChunkChange(func(s virtual.State) {
		g.metrics.ChunkChanged(virtual.Vertical.String())
		g.metrics.SetMaterializedRows(s.ChunkSize)
		g.orch.Horizontal().Retain(s.StartIndex, s.End())
	})
	g.orch.Horizontal().Master().OnChunkChange(func(virtual.State) {
		g.metrics.ChunkChanged(virtual.Horizontal.String())
	})

	g.Reflow()
	return g, nil
}

// Config returns the grid configuration.
func (g *Grid) Config() Config { return g.cfg }

// Reflow recomputes the whole geometry now and drops any pending request.
func (g *Grid) Reflow() Geometry {
	g.pending = false
	g.reflows++
	geom := g.orch.Recompute()

	start, end := g.orch.Vertical().Range()
	g.orch.Horizontal().Retain(start, end)

	g.log.Debug("reflow",
		zap.Float64("calcWidth", geom.CalcWidth),
		zap.Float64("bodyHeight", geom.BodyHeight),
		zap.Int("passes", geom.Passes),
		zap.Int("rows", geom.Rows),
	)
	return geom
}

// Geometry returns the geometry of the last reflow.
func (g *Grid) Geometry() Geometry {
	return g.orch.Geometry()
}

// Tree returns the current column tree.
func (g *Grid) Tree() *column.Tree {
	return g.orch.Tree()
}

// Partition returns the pinned and unpinned areas of the last reflow.
func (g *Grid) Partition() sizing.Partition {
	return g.orch.Partition()
}

// VerticalState returns the materialized rows.
func (g *Grid) VerticalState() virtual.State {
	return g.orch.Vertical().State()
}

// HorizontalState returns the materialized unpinned columns.
func (g *Grid) HorizontalState() virtual.State {
	return g.orch.Horizontal().Master().State()
}

// MaterializedRows returns the [start, end) indices of the rows to render.
func (g *Grid) MaterializedRows() (start, end int) {
	return g.orch.Vertical().Range()
}

// Row returns the horizontal follower of a materialized row.
func (g *Grid) Row(index int) (*virtual.Follower, bool) {
	return g.orch.Horizontal().Follower(index)
}

// ColumnWidth returns the resolved width of field.
func (g *Grid) ColumnWidth(field string) float64 {
	return g.orch.WidthOf(field)
}

// Diagnostics returns the warnings recorded so far, oldest first.
func (g *Grid) Diagnostics() []Diagnostic {
	return g.diag.Entries()
}

// ClearDiagnostics drops the recorded warnings.
func (g *Grid) ClearDiagnostics() {
	g.diag.Reset()
}

// Page returns the current page when paging is enabled.
func (g *Grid) Page() int {
	return g.orch.Page()
}

// SetPage shows another page. The vertical window is re-clamped at once and
// the layout follows on the next frame.
func (g *Grid) SetPage(page int) {
	if page == g.orch.Page() {
		return
	}
	g.orch.SetPage(page)
	g.orch.Vertical().ScrollTo(0)
	g.DataChanged()
}
