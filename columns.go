package vgrid

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/agiangrant/vgrid/column"
	"github.com/agiangrant/vgrid/dim"
	"github.com/agiangrant/vgrid/internal/diag"
	"github.com/agiangrant/vgrid/sizing"
)

// PinColumn pins the top-level column containing field, along with its
// whole group. It returns false when the column is unknown or already
// pinned. It also returns false when pinning would push the pinned area
// past its cap of the grid width. A refused pin is recorded as a diagnostic
// and leaves the grid unchanged.
//
// The new layout is applied immediately.
func (g *Grid) PinColumn(field string) bool {
	return g.PinColumnAt(field, -1)
}

// PinColumnAt is PinColumn placing the column at index among the pinned
// top-level columns. A negative index appends.
func (g *Grid) PinColumnAt(field string, index int) bool {
	col := g.orch.Tree().Find(field)
	if col == nil || col.TopLevel().Pinned {
		return false
	}
	if !g.orch.CanPin(field) {
		top := col.TopLevel()
		geom := g.orch.Geometry()
		g.diag.Warn(diag.Diagnostic{
			Kind:    diag.PinRefused,
			Field:   top.Field,
			Message: fmt.Sprintf("pinned area would exceed %.0f%% of the grid width", sizing.MaxPinnedRatio*100),
			Value:   g.orch.Partition().PinnedWidth + g.orch.Resolved().Width(top.Field),
			Limit:   sizing.PinLimit(geom.CalcWidth),
		})
		g.metrics.PinRefused()
		return false
	}
	return g.apply(column.Mutation{Field: field, Op: column.OpPin, Position: max(index+1, 0)})
}

// UnpinColumn unpins the top-level column containing field. The column
// returns to its declaration position in the unpinned area.
func (g *Grid) UnpinColumn(field string) bool {
	return g.UnpinColumnAt(field, -1)
}

// UnpinColumnAt unpins the top-level column containing field and places it
// at index among the unpinned top-level columns. A negative index keeps the
// declaration position.
func (g *Grid) UnpinColumnAt(field string, index int) bool {
	return g.apply(column.Mutation{Field: field, Op: column.OpUnpin, Position: max(index+1, 0)})
}

// HideColumn hides the top-level column containing field.
func (g *Grid) HideColumn(field string) bool {
	return g.apply(column.Mutation{Field: field, Op: column.OpHide})
}

// ShowColumn shows the top-level column containing field.
func (g *Grid) ShowColumn(field string) bool {
	return g.apply(column.Mutation{Field: field, Op: column.OpShow})
}

// ResizeColumn sets the width of a leaf column in pixels, clamped to its
// constraints. The width then counts as declared.
func (g *Grid) ResizeColumn(field string, width float64) bool {
	col := g.orch.Tree().Find(field)
	if col == nil || col.IsGroup() {
		return false
	}
	return g.apply(column.Mutation{Field: field, Op: column.OpResize, Width: dim.Px(col.Clamp(max(width, 0)))})
}

// apply derives the next column tree, swaps it in and reflows.
func (g *Grid) apply(m column.Mutation) bool {
	next, changed := column.Apply(g.orch.Tree(), m)
	if !changed {
		return false
	}
	g.orch.SetTree(next)
	g.log.Debug("column changed", zap.String("field", m.Field), zap.Stringer("op", m.Op))
	g.Reflow()
	return true
}
