package column

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agiangrant/vgrid/dim"
)

func sampleTree() *Tree {
	return NewTree(
		&Column{Field: "ID", Width: dim.Px(100)},
		&Column{Field: "Address", Children: []*Column{
			{Field: "Street"},
			{Field: "City"},
		}},
		&Column{Field: "Name"},
		&Column{Field: "Phone"},
	)
}

func fields(cols []*Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Field
	}
	return out
}

func TestNewTreeLinksParents(t *testing.T) {
	tree := sampleTree()

	city := tree.Find("City")
	require.NotNil(t, city)
	assert.Equal(t, "Address", city.Parent().Field)
	assert.Equal(t, "Address", city.TopLevel().Field)
	assert.Equal(t, 1, city.Level())
	assert.Equal(t, 1, tree.MaxHeaderDepth())
	assert.Nil(t, tree.Find("missing"))
}

func TestNewTreePropagatesChildState(t *testing.T) {
	tree := NewTree(
		&Column{Field: "A"},
		&Column{Field: "G", Children: []*Column{
			{Field: "G1"},
			{Field: "G2", Pinned: true},
		}},
	)

	for _, f := range []string{"G", "G1", "G2"} {
		assert.True(t, tree.Find(f).Pinned, "%s should be pinned", f)
	}
	assert.Equal(t, 1, tree.Find("G").PinOrder)
	assert.Equal(t, []string{"G", "A"}, fields(tree.DisplayRoots()))
	assert.Equal(t, []string{"G1", "G2", "A"}, fields(tree.VisibleLeaves()))
}

func TestApplyPropagation(t *testing.T) {
	tests := []struct {
		name       string
		mutation   Mutation
		wantPinned []string
		wantHidden []string
	}{
		{
			name:       "pin child pins whole group",
			mutation:   Mutation{Field: "City", Op: OpPin},
			wantPinned: []string{"Address", "Street", "City"},
		},
		{
			name:       "pin group pins children",
			mutation:   Mutation{Field: "Address", Op: OpPin},
			wantPinned: []string{"Address", "Street", "City"},
		},
		{
			name:       "pin plain column",
			mutation:   Mutation{Field: "Name", Op: OpPin},
			wantPinned: []string{"Name"},
		},
		{
			name:       "hide child hides whole group",
			mutation:   Mutation{Field: "Street", Op: OpHide},
			wantHidden: []string{"Address", "Street", "City"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := sampleTree()
			after, changed := Apply(before, tt.mutation)
			require.True(t, changed)

			var pinned, hidden []string
			after.Walk(func(c *Column) bool {
				if c.Pinned {
					pinned = append(pinned, c.Field)
				}
				if c.Hidden {
					hidden = append(hidden, c.Field)
				}
				return true
			})
			assert.Equal(t, tt.wantPinned, pinned)
			assert.Equal(t, tt.wantHidden, hidden)

			// The input tree is never modified.
			before.Walk(func(c *Column) bool {
				assert.False(t, c.Pinned || c.Hidden, "input tree changed at %s", c.Field)
				return true
			})
		})
	}
}

func TestApplyNoop(t *testing.T) {
	tree := sampleTree()

	for _, m := range []Mutation{
		{Field: "Name", Op: OpUnpin},
		{Field: "Name", Op: OpShow},
		{Field: "missing", Op: OpPin},
		{Field: "Address", Op: OpResize, Width: dim.Px(10)},
		{Field: "ID", Op: OpResize, Width: dim.Px(100)},
	} {
		next, changed := Apply(tree, m)
		assert.False(t, changed, "%s %s", m.Op, m.Field)
		assert.Same(t, tree, next)
	}
}

func TestPinUnpinRestoresTree(t *testing.T) {
	tree := sampleTree()

	pinned, ok := Apply(tree, Mutation{Field: "Street", Op: OpPin})
	require.True(t, ok)
	assert.Equal(t, []string{"Address", "ID", "Name", "Phone"}, fields(pinned.DisplayRoots()))

	restored, ok := Apply(pinned, Mutation{Field: "Address", Op: OpUnpin})
	require.True(t, ok)

	if diff := cmp.Diff(tree.Roots(), restored.Roots(), cmpopts.IgnoreUnexported(Column{})); diff != "" {
		t.Errorf("pin then unpin changed the tree (-want +got):\n%s", diff)
	}
}

func TestPinOrder(t *testing.T) {
	tree := sampleTree()
	tree, _ = Apply(tree, Mutation{Field: "Phone", Op: OpPin})
	tree, _ = Apply(tree, Mutation{Field: "ID", Op: OpPin})

	assert.Equal(t, []string{"Phone", "ID", "Address", "Name"}, fields(tree.DisplayRoots()))
	assert.Equal(t, 0, tree.VisibleIndex("Phone"))
	assert.Equal(t, 2, tree.VisibleIndex("Street"))
	assert.Equal(t, -1, tree.VisibleIndex("Address"))
}

func TestPinAndUnpinAtPosition(t *testing.T) {
	tree := sampleTree()
	tree, _ = Apply(tree, Mutation{Field: "Phone", Op: OpPin})
	tree, _ = Apply(tree, Mutation{Field: "Name", Op: OpPin})

	tests := []struct {
		name      string
		mutation  Mutation
		wantOrder []string
	}{
		{
			name:      "pin first",
			mutation:  Mutation{Field: "ID", Op: OpPin, Position: 1},
			wantOrder: []string{"ID", "Phone", "Name", "Address"},
		},
		{
			name:      "pin between",
			mutation:  Mutation{Field: "Street", Op: OpPin, Position: 2},
			wantOrder: []string{"Phone", "Address", "Name", "ID"},
		},
		{
			name:      "pin past the end appends",
			mutation:  Mutation{Field: "ID", Op: OpPin, Position: 9},
			wantOrder: []string{"Phone", "Name", "ID", "Address"},
		},
		{
			name:      "unpin first",
			mutation:  Mutation{Field: "Name", Op: OpUnpin, Position: 1},
			wantOrder: []string{"Phone", "Name", "ID", "Address"},
		},
		{
			name:      "unpin last",
			mutation:  Mutation{Field: "Phone", Op: OpUnpin, Position: 3},
			wantOrder: []string{"Name", "ID", "Address", "Phone"},
		},
		{
			name:      "unpin to declaration position",
			mutation:  Mutation{Field: "Phone", Op: OpUnpin},
			wantOrder: []string{"Name", "ID", "Address", "Phone"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok := Apply(tree, tt.mutation)
			require.True(t, ok)
			assert.Equal(t, tt.wantOrder, fields(next.DisplayRoots()))
			assert.Equal(t, []string{"Phone", "Name", "ID", "Address"}, fields(tree.DisplayRoots()), "input tree untouched")
		})
	}
}

func TestPinAtPositionRenumbers(t *testing.T) {
	tree := sampleTree()
	tree, _ = Apply(tree, Mutation{Field: "Phone", Op: OpPin})
	tree, _ = Apply(tree, Mutation{Field: "Name", Op: OpPin, Position: 1})
	assert.Equal(t, 1, tree.Find("Name").PinOrder)
	assert.Equal(t, 2, tree.Find("Phone").PinOrder)

	// Later default pins still land at the end.
	tree, _ = Apply(tree, Mutation{Field: "ID", Op: OpPin})
	assert.Equal(t, []string{"Name", "Phone", "ID", "Address"}, fields(tree.DisplayRoots()))

	_, ok := Apply(tree, Mutation{Field: "ID", Op: OpPin, Position: 1})
	assert.False(t, ok, "pinning a pinned column is no change")
}

func TestResize(t *testing.T) {
	tree := sampleTree()
	next, ok := Apply(tree, Mutation{Field: "Name", Op: OpResize, Width: dim.Px(250)})
	require.True(t, ok)

	assert.Equal(t, dim.Px(250), next.Find("Name").Width)
	assert.True(t, next.Find("Name").WidthSetByUser())
	assert.False(t, tree.Find("Name").WidthSetByUser())
}

func TestLayoutRowSpan(t *testing.T) {
	tree := NewTree(
		&Column{Field: "block1", Layout: true, Children: []*Column{
			{Field: "ID", RowStart: 1, RowEnd: 3, ColStart: 1, ColEnd: 2},
			{Field: "Name", RowStart: 1, RowEnd: 2, ColStart: 2, ColEnd: 4},
			{Field: "City", RowStart: 2, RowEnd: 4, ColStart: 2, ColEnd: 3},
		}},
	)

	assert.True(t, tree.HasLayouts())
	assert.Equal(t, 3, tree.LayoutRowSpan())
	assert.Equal(t, 2, tree.MaxHeaderDepth())
	assert.Equal(t, 2, tree.Find("Name").ColSpan())
}

func TestValidate(t *testing.T) {
	assert.NoError(t, sampleTree().Validate())

	bad := NewTree(
		&Column{Field: "A"},
		&Column{Field: "A"},
		&Column{Header: "nameless"},
		&Column{Field: "B", MinWidth: 200, MaxWidth: 100},
	)
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate field")
	assert.Contains(t, err.Error(), "field is required")
	assert.Contains(t, err.Error(), "exceeds maxWidth")
}

func TestClamp(t *testing.T) {
	c := &Column{MinWidth: 50, MaxWidth: 200}
	assert.Equal(t, 50.0, c.Clamp(10))
	assert.Equal(t, 200.0, c.Clamp(500))
	assert.Equal(t, 120.0, c.Clamp(120))
	assert.Equal(t, 10.0, (&Column{}).Clamp(10))
}
