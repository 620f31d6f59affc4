// Package column models the declared columns of a grid: plain columns,
// header groups and multi-row layout blocks, arranged as a tree.
//
// Columns are declaration input. Resolved pixel widths are derived by the
// sizing package and never stored on the nodes.
package column

import "github.com/agiangrant/vgrid/dim"

// Column is a node in the column tree. A column with children is a group;
// a group with Layout set is a multi-row layout block whose children are
// placed on a grid of row and column slots.
type Column struct {
	// Field identifies the column. It must be unique within a tree,
	// groups included.
	Field  string
	Header string

	// Declared width; the zero value means unspecified.
	Width dim.Spec

	// Constraints in pixels, 0 means unset.
	MinWidth float64
	MaxWidth float64

	Pinned bool
	Hidden bool

	// PinOrder orders pinned top-level columns. Columns pinned later
	// appear further right in the pinned area.
	PinOrder int

	// Multi-row layout placement, 1-based with exclusive ends
	// (a cell with ColStart 1 and ColEnd 3 spans two slots). 0 means unset.
	RowStart int
	RowEnd   int
	ColStart int
	ColEnd   int

	// Layout marks a group as a multi-row layout block.
	Layout   bool
	Children []*Column

	parent *Column
	order  int // declaration order among all nodes
}

// IsGroup reports whether the column has children.
func (c *Column) IsGroup() bool {
	return len(c.Children) > 0
}

// Parent returns the enclosing group, or nil for a top-level column.
func (c *Column) Parent() *Column {
	return c.parent
}

// TopLevel returns the outermost group containing c, or c itself.
func (c *Column) TopLevel() *Column {
	top := c
	for top.parent != nil {
		top = top.parent
	}
	return top
}

// Level is the nesting depth, 0 for top-level columns.
func (c *Column) Level() int {
	level := 0
	for p := c.parent; p != nil; p = p.parent {
		level++
	}
	return level
}

// Order returns the declaration order of the column within its tree.
func (c *Column) Order() int {
	return c.order
}

// WidthSetByUser reports whether a width was declared for the column.
func (c *Column) WidthSetByUser() bool {
	return !c.Width.IsAuto()
}

// ColSpan returns the number of layout slots the column covers.
func (c *Column) ColSpan() int {
	start, end := c.ColRange()
	return end - start
}

// ColRange returns the normalized [start, end) slot range of a layout cell.
// Missing values default to a single slot starting at 1.
func (c *Column) ColRange() (start, end int) {
	start = c.ColStart
	if start < 1 {
		start = 1
	}
	end = c.ColEnd
	if end <= start {
		end = start + 1
	}
	return start, end
}

// RowRange returns the normalized [start, end) row range of a layout cell.
func (c *Column) RowRange() (start, end int) {
	start = c.RowStart
	if start < 1 {
		start = 1
	}
	end = c.RowEnd
	if end <= start {
		end = start + 1
	}
	return start, end
}

// Leaves returns the non-group descendants of c (or c itself) in order.
// Hidden leaves are included only if includeHidden is set.
func (c *Column) Leaves(includeHidden bool) []*Column {
	var out []*Column
	var walk func(n *Column)
	walk = func(n *Column) {
		if n.Hidden && !includeHidden {
			return
		}
		if !n.IsGroup() {
			out = append(out, n)
			return
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(c)
	return out
}

// Clamp limits width to the column's [MinWidth, MaxWidth] constraints.
func (c *Column) Clamp(width float64) float64 {
	if c.MinWidth > 0 && width < c.MinWidth {
		width = c.MinWidth
	}
	if c.MaxWidth > 0 && width > c.MaxWidth {
		width = c.MaxWidth
	}
	return width
}

func (c *Column) clone(parent *Column) *Column {
	cp := *c
	cp.parent = parent
	if len(c.Children) > 0 {
		cp.Children = make([]*Column, len(c.Children))
		for i, child := range c.Children {
			cp.Children[i] = child.clone(&cp)
		}
	}
	return &cp
}
