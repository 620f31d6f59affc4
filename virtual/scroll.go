package virtual

// ============================================================================
// Scroll Into View
// ============================================================================

// IsFullyVisible reports whether the item at index lies entirely inside the
// viewport at the current scroll position.
func (w *Window) IsFullyVisible(index int) bool {
	if index < 0 || index >= w.total {
		return false
	}
	top := w.ScrollPosition()
	itemTop := w.ItemOffset(index)
	itemBottom := itemTop + w.SizeOf(index)
	return itemTop >= top-epsilon && itemBottom <= top+w.viewport+epsilon
}

// ScrollIntoView scrolls the minimum amount needed to make the item at index
// fully visible. Returns whether the window scrolled.
//
// Items above the viewport become the first item; items below it become the
// last fully visible one. An item taller than the viewport is aligned to the top.
func (w *Window) ScrollIntoView(index int) bool {
	if index < 0 || index >= w.total || w.IsFullyVisible(index) {
		return false
	}

	before := w.state.StartIndex
	if w.ItemOffset(index) < w.ScrollPosition() {
		w.recalc(index)
		return w.state.StartIndex != before
	}

	// Item bottom is below the visible area: find the first start index
	// whose viewport still reaches the bottom of the item.
	bottom := w.ItemOffset(index + 1)
	start := index
	for start > 0 && bottom-w.ItemOffset(start-1) <= w.viewport+epsilon {
		start--
	}
	w.recalc(start)
	return w.state.StartIndex != before
}
