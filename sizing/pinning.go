package sizing

import "github.com/agiangrant/vgrid/column"

// MaxPinnedRatio caps the pinned area, feature columns included, as a share
// of the grid width. The unpinned area always keeps the rest.
const MaxPinnedRatio = 0.8

// Partition splits the visible top-level columns into the pinned area and
// the horizontally scrolling unpinned area.
type Partition struct {
	// Pinned columns in pin order.
	Pinned []*column.Column
	// Unpinned columns in column order.
	Unpinned []*column.Column

	// PinnedWidth includes the feature columns, which are always pinned.
	PinnedWidth float64
	// UnpinnedWidth is the viewport left to the unpinned area.
	UnpinnedWidth float64

	// Refused lists declared pinned columns that did not fit under the cap
	// and were placed in the unpinned area instead.
	Refused []string
}

// PinLimit returns the largest pinned width allowed for calcWidth.
func PinLimit(calcWidth float64) float64 {
	return MaxPinnedRatio * calcWidth
}

// CanPin reports whether a column of the given width fits in the pinned
// area next to pinnedWidth. Before the grid is measured every pin fits.
func CanPin(pinnedWidth, width, calcWidth float64) bool {
	if calcWidth <= 0 {
		return true
	}
	return pinnedWidth+width <= PinLimit(calcWidth)+epsilon
}

// NewPartition partitions tree using resolved widths. Pinned columns are
// admitted in pin order; one that would push the pinned area over the cap
// is refused and joins the unpinned area at its declaration position.
func NewPartition(tree *column.Tree, res Result, calcWidth, featureWidth float64) Partition {
	p := Partition{PinnedWidth: finite(featureWidth)}

	refused := make(map[*column.Column]bool)
	for _, root := range tree.DisplayRoots() {
		if !root.Pinned {
			break
		}
		w := res.Width(root.Field)
		if !CanPin(p.PinnedWidth, w, calcWidth) {
			refused[root] = true
			p.Refused = append(p.Refused, root.Field)
			continue
		}
		p.Pinned = append(p.Pinned, root)
		p.PinnedWidth += w
	}
	for _, root := range tree.VisibleRoots() {
		if !root.Pinned || refused[root] {
			p.Unpinned = append(p.Unpinned, root)
		}
	}

	if unpinned := finite(calcWidth) - p.PinnedWidth; unpinned > 0 {
		p.UnpinnedWidth = unpinned
	}
	return p
}

// HorizontalItems returns the items of the unpinned area, in order, whose
// positions are the indices of the horizontal window: visible leaves, except
// that a multi-row layout block counts as one item.
func (p Partition) HorizontalItems() []*column.Column {
	return items(p.Unpinned)
}

// PinnedItemCount returns the number of pinned items, counted the way
// HorizontalItems counts them.
func (p Partition) PinnedItemCount() int {
	return len(items(p.Pinned))
}

func items(cols []*column.Column) []*column.Column {
	var out []*column.Column
	for _, col := range cols {
		if col.Layout {
			out = append(out, col)
			continue
		}
		out = append(out, col.Leaves(false)...)
	}
	return out
}

// IsPinned reports whether the top-level column of field is in the pinned area.
func (p Partition) IsPinned(field string) bool {
	for _, col := range p.Pinned {
		if col.Field == field {
			return true
		}
	}
	return false
}
