package vgrid

import "math"

// ScrollTo scrolls so that row becomes the first materialized row and, when
// visibleColumn is not -1, the column at that visible index becomes the
// first materialized unpinned column. Out-of-range targets are clamped.
// Pinned columns never scroll.
func (g *Grid) ScrollTo(row, visibleColumn int) {
	g.wheelY = 0
	g.orch.Vertical().ScrollTo(row)
	if visibleColumn < 0 {
		return
	}
	leaves := g.orch.Tree().VisibleLeaves()
	visibleColumn = min(visibleColumn, len(leaves)-1)
	if idx, ok := g.horizontalIndex(visibleColumn); ok && idx >= 0 {
		g.orch.Horizontal().ScrollTo(idx)
	}
}

// ScrollBy scrolls the rows by delta.
func (g *Grid) ScrollBy(delta int) {
	g.wheelY = 0
	g.orch.Vertical().ScrollBy(delta)
}

// ScrollLeft handles a horizontal scroll event carrying a pixel offset. Every
// materialized row follows.
func (g *Grid) ScrollLeft(px float64) {
	g.orch.Horizontal().OnScroll(px)
}

// Wheel handles a mouse wheel event with pixel deltas. Vertical deltas
// smaller than a row accumulate until they cross a row boundary. Returns
// whether either axis scrolled.
func (g *Grid) Wheel(deltaX, deltaY float64) bool {
	v, h := g.orch.Vertical(), g.orch.Horizontal()
	start, left := v.State().StartIndex, h.ScrollLeft()

	if deltaY != 0 && !math.IsNaN(deltaY) && !math.IsInf(deltaY, 0) {
		target := math.Max(v.ScrollPosition()+g.wheelY+deltaY, 0)
		v.ScrollToOffset(target)
		g.wheelY = 0
		if v.IndexAt(target) == v.State().StartIndex {
			g.wheelY = target - v.ScrollPosition()
		}
	}
	if deltaX != 0 && !math.IsNaN(deltaX) && !math.IsInf(deltaX, 0) {
		h.OnScroll(left + deltaX)
	}
	return v.State().StartIndex != start || h.ScrollLeft() != left
}

// NavigateTo brings the cell at row and visible column index into view,
// scrolling only as far as needed on each axis. visibleColumn -1 only
// scrolls vertically. It returns false, without scrolling, for a row or
// column that does not exist.
func (g *Grid) NavigateTo(row, visibleColumn int) bool {
	if row < 0 || row >= g.orch.Rows() {
		return false
	}
	if visibleColumn != -1 {
		idx, ok := g.horizontalIndex(visibleColumn)
		if !ok {
			return false
		}
		if idx >= 0 {
			g.orch.Horizontal().ScrollIntoView(idx)
		}
	}
	if g.orch.Vertical().ScrollIntoView(row) {
		g.wheelY = 0
	}
	return true
}

// horizontalIndex maps a visible leaf index to its item in the horizontal
// window, or -1 for a pinned column. A cell of a multi-row layout maps to
// its block. ok is false for an index that does not exist.
func (g *Grid) horizontalIndex(visibleColumn int) (idx int, ok bool) {
	leaves := g.orch.Tree().VisibleLeaves()
	if visibleColumn < 0 || visibleColumn >= len(leaves) {
		return -1, false
	}
	leaf := leaves[visibleColumn]
	top := leaf.TopLevel()
	if g.orch.Partition().IsPinned(top.Field) {
		return -1, true
	}
	for i, item := range g.orch.Partition().HorizontalItems() {
		if item == leaf || (top.Layout && item == top) {
			return i, true
		}
	}
	return -1, false
}
