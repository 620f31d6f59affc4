package sizing

import (
	"math"

	"github.com/agiangrant/vgrid/column"
	"github.com/agiangrant/vgrid/dim"
)

// MinimumColumnWidth is the width below which an unspecified column never
// shrinks, even when that makes the columns overflow the grid.
const MinimumColumnWidth = 136

const epsilon = 1e-6

// Input is what the resolver needs to size one set of columns.
type Input struct {
	// Width is the available width W: the grid width minus the vertical
	// scrollbar when it is shown.
	Width float64

	// FeatureWidth is the width of feature columns (row selector, drag
	// handle) rendered next to the data columns.
	FeatureWidth float64

	// Columns are the visible top-level columns in display order.
	Columns []*column.Column

	// DefaultWidth, when not automatic, replaces the evenly distributed
	// width of every unspecified column.
	DefaultWidth dim.Spec

	// Snap distributes whole pixels, spreading the rounding remainder so
	// that the distributed widths still add up to the remaining width.
	Snap bool
}

// Result holds resolved pixel widths.
type Result struct {
	// Unit is the width given to one unspecified column or layout slot.
	Unit float64

	// Widths maps every resolved node (leaves, groups, layout blocks and
	// layout cells) to its width.
	Widths map[string]float64

	// Total is the combined width of the columns, feature columns excluded.
	Total float64

	// Overflow reports that the columns and feature columns are wider than
	// the available width, so a horizontal scrollbar is required.
	Overflow bool
}

// Width returns the resolved width of field, 0 if it was not resolved.
func (r Result) Width(field string) float64 {
	return r.Widths[field]
}

// ============================================================================
// Resolution
// ============================================================================

// Resolve computes concrete pixel widths.
//
// Pixel and percentage widths are resolved against Width and clamped to the
// column's own constraints. What remains after them and the feature columns
// is split evenly over the unspecified columns and layout slots, never below
// MinimumColumnWidth. Degenerate inputs are clamped, never rejected.
func Resolve(in Input) Result {
	width := finite(in.Width)
	res := Result{Widths: make(map[string]float64)}

	open := acquireColumnSlice(0)
	defer func() { releaseColumnSlice(open) }()

	var blocks []*layoutBlock
	specified := 0.0
	slots := 0
	for _, col := range in.Columns {
		if col == nil || col.Hidden {
			continue
		}
		if col.Layout {
			b := newLayoutBlock(col, width)
			specified += b.specifiedWidth()
			slots += b.openSlots()
			blocks = append(blocks, b)
			continue
		}
		for _, leaf := range col.Leaves(false) {
			if px, ok := leaf.Width.Resolve(width); ok {
				px = leaf.Clamp(finite(px))
				res.Widths[leaf.Field] = px
				specified += px
				continue
			}
			open = append(open, leaf)
		}
	}

	if count := len(open) + slots; count > 0 {
		remaining := width - specified - finite(in.FeatureWidth)
		amounts := acquireFloatSlice(count)
		res.Unit = distributeWidth(amounts, remaining, width, in.DefaultWidth, in.Snap)

		for i, leaf := range open {
			res.Widths[leaf.Field] = leaf.Clamp(amounts[i])
		}
		next := len(open)
		for _, b := range blocks {
			next = b.fill(amounts, next)
		}
		releaseFloatSlice(amounts)
	}

	for _, b := range blocks {
		b.store(res.Widths)
	}
	for _, col := range in.Columns {
		if col == nil || col.Hidden {
			continue
		}
		res.Total += aggregate(col, res.Widths)
	}
	res.Overflow = res.Total+finite(in.FeatureWidth) > width+epsilon
	return res
}

// distributeWidth fills amounts with the width of each unspecified column or
// slot and returns the unit width.
func distributeWidth(amounts []float64, remaining, width float64, def dim.Spec, snap bool) float64 {
	count := len(amounts)
	if px, ok := def.Resolve(width); ok && px > 0 {
		unit := finite(px)
		if snap {
			unit = math.Floor(unit)
		}
		for i := range amounts {
			amounts[i] = unit
		}
		return unit
	}

	share := remaining / float64(count)
	if !snap || share < MinimumColumnWidth {
		unit := math.Max(share, MinimumColumnWidth)
		if snap {
			unit = math.Floor(unit)
		}
		for i := range amounts {
			amounts[i] = unit
		}
		return unit
	}

	// Whole pixels: earlier columns take the floor, the remainder spreads
	// over the later ones so the sum is exactly floor(remaining).
	left := int(math.Floor(remaining))
	for i := range amounts {
		w := left / (count - i)
		amounts[i] = float64(w)
		left -= w
	}
	return amounts[0]
}

// aggregate returns the width of col, storing group widths on the way.
// Leaves and layout blocks are already resolved.
func aggregate(col *column.Column, widths map[string]float64) float64 {
	if col.Hidden {
		return 0
	}
	if col.Layout || !col.IsGroup() {
		return widths[col.Field]
	}
	sum := 0.0
	for _, child := range col.Children {
		sum += aggregate(child, widths)
	}
	widths[col.Field] = sum
	return sum
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// ============================================================================
// Multi-row Layout Blocks
// ============================================================================

// layoutBlock is a multi-row layout block split into column slots. Slot i
// covers ColStart i+1 of its cells.
type layoutBlock struct {
	col   *column.Column
	slots []float64
	set   []bool
}

// newLayoutBlock sizes the slots that are fixed by a single-span cell with a
// declared width. The first such cell of a slot wins.
func newLayoutBlock(col *column.Column, width float64) *layoutBlock {
	n := 1
	for _, cell := range col.Children {
		if _, end := cell.ColRange(); end-1 > n {
			n = end - 1
		}
	}
	b := &layoutBlock{
		col:   col,
		slots: make([]float64, n),
		set:   make([]bool, n),
	}
	for _, cell := range col.Children {
		if cell.Hidden || cell.ColSpan() != 1 {
			continue
		}
		px, ok := cell.Width.Resolve(width)
		start, _ := cell.ColRange()
		if !ok || b.set[start-1] {
			continue
		}
		b.slots[start-1] = cell.Clamp(finite(px))
		b.set[start-1] = true
	}
	return b
}

func (b *layoutBlock) specifiedWidth() float64 {
	sum := 0.0
	for i, w := range b.slots {
		if b.set[i] {
			sum += w
		}
	}
	return sum
}

func (b *layoutBlock) openSlots() int {
	n := 0
	for _, set := range b.set {
		if !set {
			n++
		}
	}
	return n
}

// fill assigns distributed amounts to the open slots starting at amounts[next]
// and returns the next unused index.
func (b *layoutBlock) fill(amounts []float64, next int) int {
	for i := range b.slots {
		if !b.set[i] {
			b.slots[i] = amounts[next]
			next++
		}
	}
	return next
}

// store writes the cell widths (sum of the slots they span) and the block
// width (sum of all slots).
func (b *layoutBlock) store(widths map[string]float64) {
	total := 0.0
	for _, w := range b.slots {
		total += w
	}
	widths[b.col.Field] = total

	for _, cell := range b.col.Children {
		start, end := cell.ColRange()
		sum := 0.0
		for s := start - 1; s < end-1 && s < len(b.slots); s++ {
			sum += b.slots[s]
		}
		widths[cell.Field] = cell.Clamp(sum)
	}
}
