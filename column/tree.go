package column

import (
	"errors"
	"fmt"
	"sort"
)

// Tree holds the declared columns of one grid.
//
// A Tree is never mutated in place once built: Apply returns a new tree, so
// a recompute pass always reads a consistent column set.
type Tree struct {
	roots   []*Column
	index   map[string]*Column
	nextPin int
}

// NewTree links the given top-level columns into a tree.
//
// Group state is normalized on the way in: a pinned or hidden descendant
// pins or hides its whole top-level group. Pinned top-level columns without
// an explicit PinOrder are ordered by declaration.
func NewTree(roots ...*Column) *Tree {
	t := &Tree{index: make(map[string]*Column)}
	order := 0
	var link func(c, parent *Column)
	link = func(c, parent *Column) {
		c.parent = parent
		c.order = order
		order++
		if c.Field != "" {
			t.index[c.Field] = c
		}
		for _, child := range c.Children {
			link(child, c)
		}
	}
	for _, root := range roots {
		if root == nil {
			continue
		}
		link(root, nil)
		t.roots = append(t.roots, root)
	}

	for _, root := range t.roots {
		pinned, hidden := anyState(root)
		setState(root, pinned, hidden)
		if root.Pinned && root.PinOrder > t.nextPin {
			t.nextPin = root.PinOrder
		}
	}
	for _, root := range t.roots {
		if root.Pinned && root.PinOrder == 0 {
			t.nextPin++
			root.PinOrder = t.nextPin
		}
	}
	return t
}

func anyState(c *Column) (pinned, hidden bool) {
	pinned, hidden = c.Pinned, c.Hidden
	for _, child := range c.Children {
		p, h := anyState(child)
		pinned = pinned || p
		hidden = hidden || h
	}
	return pinned, hidden
}

func setState(c *Column, pinned, hidden bool) {
	c.Pinned = pinned
	c.Hidden = hidden
	if !pinned {
		c.PinOrder = 0
	}
	for _, child := range c.Children {
		setState(child, pinned, hidden)
		child.PinOrder = 0
	}
}

// Roots returns the top-level columns in column order. That is the
// declaration order unless an unpin placed a column elsewhere.
func (t *Tree) Roots() []*Column {
	return append([]*Column(nil), t.roots...)
}

// Len returns the number of top-level columns.
func (t *Tree) Len() int {
	return len(t.roots)
}

// Find returns the column with the given field, or nil.
func (t *Tree) Find(field string) *Column {
	if t == nil {
		return nil
	}
	return t.index[field]
}

// Walk visits every node depth-first in declaration order until fn returns false.
func (t *Tree) Walk(fn func(c *Column) bool) {
	var walk func(c *Column) bool
	walk = func(c *Column) bool {
		if !fn(c) {
			return false
		}
		for _, child := range c.Children {
			if !walk(child) {
				return false
			}
		}
		return true
	}
	for _, root := range t.roots {
		if !walk(root) {
			return
		}
	}
}

// VisibleRoots returns the non-hidden top-level columns in column order.
func (t *Tree) VisibleRoots() []*Column {
	var out []*Column
	for _, root := range t.roots {
		if !root.Hidden {
			out = append(out, root)
		}
	}
	return out
}

// DisplayRoots returns the visible top-level columns in display order:
// pinned columns first (by PinOrder), then unpinned ones in column order.
func (t *Tree) DisplayRoots() []*Column {
	var pinned, unpinned []*Column
	for _, root := range t.VisibleRoots() {
		if root.Pinned {
			pinned = append(pinned, root)
		} else {
			unpinned = append(unpinned, root)
		}
	}
	sort.SliceStable(pinned, func(i, j int) bool {
		return pinned[i].PinOrder < pinned[j].PinOrder
	})
	return append(pinned, unpinned...)
}

// VisibleLeaves returns the visible leaf columns in display order. The
// position of a leaf in this slice is its visible index.
func (t *Tree) VisibleLeaves() []*Column {
	var out []*Column
	for _, root := range t.DisplayRoots() {
		out = append(out, root.Leaves(false)...)
	}
	return out
}

// VisibleIndex returns the visible index of the leaf with the given field,
// or -1 when it is hidden, a group or unknown.
func (t *Tree) VisibleIndex(field string) int {
	for i, leaf := range t.VisibleLeaves() {
		if leaf.Field == field {
			return i
		}
	}
	return -1
}

// HasLayouts reports whether any top-level column is a multi-row layout block.
func (t *Tree) HasLayouts() bool {
	for _, root := range t.roots {
		if root.Layout {
			return true
		}
	}
	return false
}

// HasGroups reports whether any top-level column is a group.
func (t *Tree) HasGroups() bool {
	for _, root := range t.roots {
		if root.IsGroup() {
			return true
		}
	}
	return false
}

// MaxHeaderDepth returns the number of extra header rows needed above the
// leaf headers: the deepest group nesting, or for multi-row layouts the
// number of layout rows minus one.
func (t *Tree) MaxHeaderDepth() int {
	if t.HasLayouts() {
		return t.LayoutRowSpan() - 1
	}
	depth := 0
	t.Walk(func(c *Column) bool {
		if l := c.Level(); l > depth {
			depth = l
		}
		return true
	})
	return depth
}

// LayoutRowSpan returns how many grid rows one record occupies. It is 1
// unless multi-row layouts are declared.
func (t *Tree) LayoutRowSpan() int {
	span := 1
	for _, root := range t.roots {
		if !root.Layout || root.Hidden {
			continue
		}
		for _, child := range root.Children {
			if _, end := child.RowRange(); end-1 > span {
				span = end - 1
			}
		}
	}
	return span
}

// Clone returns a deep copy of the tree.
func (t *Tree) Clone() *Tree {
	cp := &Tree{
		roots:   make([]*Column, len(t.roots)),
		index:   make(map[string]*Column, len(t.index)),
		nextPin: t.nextPin,
	}
	for i, root := range t.roots {
		cp.roots[i] = root.clone(nil)
	}
	cp.Walk(func(c *Column) bool {
		if c.Field != "" {
			cp.index[c.Field] = c
		}
		return true
	})
	return cp
}

// Validate checks the declaration for problems the engine cannot clamp
// away: missing or duplicate fields and layout cells outside their block.
func (t *Tree) Validate() error {
	var errs []error
	seen := make(map[string]bool)
	t.Walk(func(c *Column) bool {
		switch {
		case c.Field == "":
			errs = append(errs, fmt.Errorf("column %q: field is required", c.Header))
		case seen[c.Field]:
			errs = append(errs, fmt.Errorf("column %q: duplicate field", c.Field))
		}
		seen[c.Field] = true
		if c.MinWidth > 0 && c.MaxWidth > 0 && c.MinWidth > c.MaxWidth {
			errs = append(errs, fmt.Errorf("column %q: minWidth %v exceeds maxWidth %v", c.Field, c.MinWidth, c.MaxWidth))
		}
		if c.Layout {
			for _, child := range c.Children {
				if child.IsGroup() {
					errs = append(errs, fmt.Errorf("layout %q: cell %q cannot be a group", c.Field, child.Field))
				}
			}
		}
		return true
	})
	return errors.Join(errs...)
}
