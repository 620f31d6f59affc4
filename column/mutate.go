package column

import (
	"slices"
	"sort"

	"github.com/agiangrant/vgrid/dim"
)

// Op is a column mutation kind.
type Op int

const (
	OpPin Op = iota
	OpUnpin
	OpHide
	OpShow
	OpResize
)

func (o Op) String() string {
	switch o {
	case OpPin:
		return "pin"
	case OpUnpin:
		return "unpin"
	case OpHide:
		return "hide"
	case OpShow:
		return "show"
	case OpResize:
		return "resize"
	default:
		return "unknown"
	}
}

// Mutation describes one change to a column.
type Mutation struct {
	Field string
	Op    Op
	Width dim.Spec // OpResize only

	// Position places the column in its target area on OpPin and OpUnpin,
	// counting from 1 among the top-level columns of that area. Positions
	// past the end append. Zero keeps the default placement: the end of the
	// pinned area, or the declaration position when unpinning.
	Position int
}

// Apply returns a new tree with m applied and group state propagated, and
// whether anything changed. The input tree is left untouched; when nothing
// changes the input tree itself is returned.
//
// Pin and visibility state belong to the top-level column: changing it on
// any node changes it on the whole top-level group, and every descendant
// follows. Resize applies to leaves only.
func Apply(t *Tree, m Mutation) (*Tree, bool) {
	target := t.Find(m.Field)
	if target == nil {
		return t, false
	}
	top := target.TopLevel()

	switch m.Op {
	case OpPin:
		if top.Pinned {
			return t, false
		}
	case OpUnpin:
		if !top.Pinned {
			return t, false
		}
	case OpHide:
		if top.Hidden {
			return t, false
		}
	case OpShow:
		if !top.Hidden {
			return t, false
		}
	case OpResize:
		if target.IsGroup() || target.Width == m.Width {
			return t, false
		}
	default:
		return t, false
	}

	next := t.Clone()
	target = next.Find(m.Field)
	top = target.TopLevel()

	switch m.Op {
	case OpPin:
		next.nextPin++
		setState(top, true, top.Hidden)
		top.PinOrder = next.nextPin
		if m.Position > 0 {
			next.placePinned(top, m.Position-1)
		}
	case OpUnpin:
		setState(top, false, top.Hidden)
		if m.Position > 0 {
			next.placeUnpinned(top, m.Position-1)
		}
	case OpHide:
		setState(top, top.Pinned, true)
	case OpShow:
		setState(top, top.Pinned, false)
	case OpResize:
		target.Width = m.Width
	}
	return next, true
}

// placePinned moves the pinned top-level column c to index i of the pinned
// area and renumbers the pin order from 1.
func (t *Tree) placePinned(c *Column, i int) {
	var pinned []*Column
	for _, root := range t.roots {
		if root.Pinned && root != c {
			pinned = append(pinned, root)
		}
	}
	sort.SliceStable(pinned, func(a, b int) bool {
		return pinned[a].PinOrder < pinned[b].PinOrder
	})
	pinned = slices.Insert(pinned, min(i, len(pinned)), c)
	for n, root := range pinned {
		root.PinOrder = n + 1
	}
	t.nextPin = len(pinned)
}

// placeUnpinned moves the unpinned top-level column c so that it is at
// index i among the unpinned columns. Pinned columns keep their slots.
func (t *Tree) placeUnpinned(c *Column, i int) {
	roots := slices.DeleteFunc(t.roots, func(root *Column) bool { return root == c })
	at := len(roots)
	seen := 0
	for n, root := range roots {
		if root.Pinned {
			continue
		}
		if seen == i {
			at = n
			break
		}
		seen++
	}
	t.roots = slices.Insert(roots, at, c)
}
