package sizing

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agiangrant/vgrid/column"
	"github.com/agiangrant/vgrid/dim"
	"github.com/agiangrant/vgrid/internal/diag"
	"github.com/agiangrant/vgrid/virtual"
)

type fixedSize struct{ w, h float64 }

func (s fixedSize) Size() (float64, float64) { return s.w, s.h }

type rowCount int

func (n rowCount) TotalItemCount() int { return int(n) }

func autoColumns(n int) *column.Tree {
	out := make([]*column.Column, n)
	for i := range out {
		out[i] = &column.Column{Field: fmt.Sprintf("c%d", i)}
	}
	return column.NewTree(out...)
}

func TestRecomputeVerticalScenario(t *testing.T) {
	// Header is one row of 50 plus a 1px border, so the body gets 530.
	o := NewOrchestrator(Params{Height: dim.Px(581)}, autoColumns(4), fixedSize{1000, 800}, rowCount(1000), nil, nil)
	g := o.Recompute()

	assert.Equal(t, 51.0, g.HeaderHeight)
	assert.Equal(t, 530.0, g.BodyHeight)
	assert.False(t, g.AutoHeight)
	assert.True(t, g.VerticalScroll)
	assert.False(t, g.HorizontalScroll)
	assert.Equal(t, 982.0, g.CalcWidth)
	assert.Equal(t, 1000.0, g.OuterWidth)
	assert.Equal(t, 245.5, g.ColumnWidths["c0"])
	assert.Equal(t, 2, g.Passes)
	assert.True(t, g.Converged)

	assert.Equal(t, virtual.State{StartIndex: 0, ChunkSize: 11, TotalItemCount: 1000}, o.Vertical().State())
	o.Vertical().ScrollTo(995)
	assert.Equal(t, 989, o.Vertical().State().StartIndex)
}

func TestBodyHeight(t *testing.T) {
	tests := []struct {
		name     string
		params   Params
		columns  int
		rows     int
		height   float64
		wantBody float64
		wantAuto bool
		wantV    bool
	}{
		{name: "auto height few rows", rows: 5, height: 800, wantBody: 250, wantAuto: true},
		{name: "auto height many rows", rows: 100, height: 800, wantBody: 500, wantAuto: true, wantV: true},
		{name: "auto height no rows", rows: 0, height: 800, wantBody: 0, wantAuto: true},
		{
			name:     "percent height rows fit",
			params:   Params{Height: dim.Pct(100)},
			rows:     5,
			height:   800,
			wantBody: 250,
			wantAuto: true,
		},
		{
			name:     "percent height rows overflow",
			params:   Params{Height: dim.Pct(50)},
			rows:     100,
			height:   800,
			wantBody: 349,
			wantV:    true,
		},
		{
			name:     "explicit height minus chrome",
			params:   Params{Height: dim.Px(600), Chrome: Chrome{Toolbar: 40, Pager: 50, Summary: 30, GroupArea: 20}},
			rows:     100,
			height:   800,
			wantBody: 409,
			wantV:    true,
		},
		{
			name:     "non-positive explicit height falls back to target",
			params:   Params{Height: dim.Px(40)},
			rows:     3,
			height:   800,
			wantBody: 150,
		},
		{
			name:     "horizontal scrollbar leaves no room",
			params:   Params{Height: dim.Px(69)},
			columns:  10,
			rows:     1000,
			height:   800,
			wantBody: 500,
			wantV:    true,
		},
		{
			name:     "quick filter row",
			params:   Params{Height: dim.Px(600), QuickFilter: true},
			rows:     100,
			height:   800,
			wantBody: 499,
			wantV:    true,
		},
		{
			name:     "paging caps the rows",
			params:   Params{PerPage: 4},
			rows:     100,
			height:   800,
			wantBody: 200,
			wantAuto: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			columns := tt.columns
			if columns == 0 {
				columns = 3
			}
			o := NewOrchestrator(tt.params, autoColumns(columns), fixedSize{1000, tt.height}, rowCount(tt.rows), nil, nil)
			g := o.Recompute()
			assert.Equal(t, tt.wantBody, g.BodyHeight)
			assert.Equal(t, tt.wantAuto, g.AutoHeight)
			assert.Equal(t, tt.wantV, g.VerticalScroll)
			assert.True(t, g.Converged)
		})
	}
}

func TestRecomputeScrollbarCascade(t *testing.T) {
	// The vertical scrollbar takes 18px, the four columns no longer fit
	// at their minimum width, and the horizontal scrollbar lowers the body.
	o := NewOrchestrator(Params{Height: dim.Px(551)}, autoColumns(4), fixedSize{544, 800}, rowCount(11), nil, nil)
	g := o.Recompute()

	assert.Equal(t, 3, g.Passes)
	assert.True(t, g.Converged)
	assert.True(t, g.VerticalScroll)
	assert.True(t, g.HorizontalScroll)
	assert.Equal(t, 526.0, g.CalcWidth)
	assert.Equal(t, 482.0, g.BodyHeight)
	assert.Equal(t, 544.0, g.TotalColumnWidth)
}

func TestRecomputePassBound(t *testing.T) {
	rec := diag.NewRecorder(nil)
	o := NewOrchestrator(Params{Height: dim.Px(551), MaxExtraPasses: -1}, autoColumns(4), fixedSize{544, 800}, rowCount(11), rec, nil)
	g := o.Recompute()

	assert.Equal(t, 1, g.Passes)
	assert.False(t, g.Converged)
	assert.Equal(t, 1, rec.Count(diag.NotConverged))
}

func TestRecomputeDegenerate(t *testing.T) {
	tests := []struct {
		name string
		tree *column.Tree
		vp   Viewport
		data DataSource
	}{
		{name: "nothing", tree: nil, vp: nil, data: nil},
		{name: "no columns", tree: column.NewTree(), vp: fixedSize{800, 600}, data: rowCount(100)},
		{name: "zero width", tree: autoColumns(3), vp: fixedSize{0, 0}, data: rowCount(100)},
		{name: "no rows", tree: autoColumns(3), vp: fixedSize{800, 600}, data: rowCount(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOrchestrator(Params{}, tt.tree, tt.vp, tt.data, nil, nil)
			var g Geometry
			require.NotPanics(t, func() { g = o.Recompute() })
			assert.True(t, g.Converged)
			assert.GreaterOrEqual(t, g.BodyHeight, 0.0)
			assert.LessOrEqual(t, o.Vertical().State().End(), o.Vertical().State().TotalItemCount)
		})
	}
}

func TestRecomputePassBoundProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 300; i++ {
		tree := column.NewTree(randomColumns(rng, true)...)
		params := Params{
			Height:       dim.Px(float64(rng.Intn(900))),
			FeatureWidth: float64(rng.Intn(2) * 48),
			QuickFilter:  rng.Intn(2) == 0,
		}
		if rng.Intn(3) == 0 {
			params.Height = dim.Spec{}
		}
		o := NewOrchestrator(params, tree, fixedSize{float64(100 + rng.Intn(1500)), 900}, rowCount(rng.Intn(60)), nil, nil)
		g := o.Recompute()
		require.LessOrEqual(t, g.Passes, 1+DefaultMaxExtraPasses, "input %d", i)
		require.True(t, g.Converged, "input %d", i)
	}
}

func TestForcedUnpin(t *testing.T) {
	rec := diag.NewRecorder(nil)
	tree := column.NewTree(
		&column.Column{Field: "A", Width: dim.Px(300), Pinned: true},
		&column.Column{Field: "B", Width: dim.Px(200), Pinned: true},
		&column.Column{Field: "C"},
	)
	o := NewOrchestrator(Params{}, tree, fixedSize{500, 600}, rowCount(0), rec, nil)
	o.Recompute()

	p := o.Partition()
	assert.Equal(t, []string{"A"}, names(p.Pinned))
	assert.Equal(t, []string{"B", "C"}, names(p.Unpinned))
	assert.Empty(t, p.Refused)
	assert.False(t, o.Tree().Find("B").Pinned)
	require.Equal(t, 1, rec.Count(diag.ForcedUnpin))
	assert.Equal(t, "B", rec.Entries()[0].Field)

	// The declaration tree given by the caller is left untouched.
	assert.True(t, tree.Find("B").Pinned)
}

func TestPinUnpinIdempotent(t *testing.T) {
	tree := column.NewTree(
		&column.Column{Field: "ID", Width: dim.Px(100)},
		&column.Column{Field: "Address", Children: []*column.Column{
			{Field: "Street", Width: dim.Pct(20)},
			{Field: "City"},
		}},
		&column.Column{Field: "Name"},
	)
	o := NewOrchestrator(Params{SnapToPixels: true}, tree, fixedSize{1000, 600}, rowCount(50), nil, nil)
	before := o.Recompute()
	beforePart := names(o.Partition().Unpinned)

	pinned, ok := column.Apply(o.Tree(), column.Mutation{Field: "City", Op: column.OpPin})
	require.True(t, ok)
	o.SetTree(pinned)
	o.Recompute()
	assert.Equal(t, []string{"Address"}, names(o.Partition().Pinned))

	unpinned, ok := column.Apply(o.Tree(), column.Mutation{Field: "Street", Op: column.OpUnpin})
	require.True(t, ok)
	o.SetTree(unpinned)
	after := o.Recompute()

	if diff := cmp.Diff(before.ColumnWidths, after.ColumnWidths); diff != "" {
		t.Errorf("widths changed (-before +after):\n%s", diff)
	}
	assert.Equal(t, beforePart, names(o.Partition().Unpinned))
	assert.Equal(t, before.PinnedWidth, after.PinnedWidth)
}

func TestCanPinThroughOrchestrator(t *testing.T) {
	o := NewOrchestrator(Params{}, autoColumns(5), fixedSize{1000, 600}, rowCount(0), nil, nil)
	o.Recompute()

	for _, field := range []string{"c0", "c1", "c2", "c3"} {
		require.True(t, o.CanPin(field), field)
		next, _ := column.Apply(o.Tree(), column.Mutation{Field: field, Op: column.OpPin})
		o.SetTree(next)
		o.Recompute()
	}
	assert.Equal(t, 800.0, o.Partition().PinnedWidth)
	assert.False(t, o.CanPin("c4"))
	assert.True(t, o.CanPin("c0"))
	assert.False(t, o.CanPin("missing"))
}

func TestRecomputeCache(t *testing.T) {
	o := NewOrchestrator(Params{}, autoColumns(2), fixedSize{600, 600}, rowCount(3), nil, nil)
	o.Recompute()

	calc, ok := o.Cache().Peek(KeyCalcWidth)
	require.True(t, ok)
	assert.Equal(t, 600.0, calc)
	assert.Equal(t, 300.0, o.WidthOf("c1"))

	hits := o.Cache().Stats().Hits
	o.WidthOf("c1")
	assert.Equal(t, hits+1, o.Cache().Stats().Hits)
}

func TestHorizontalWindowFollowsPartition(t *testing.T) {
	tree := column.NewTree(
		&column.Column{Field: "ID", Width: dim.Px(100), Pinned: true},
		&column.Column{Field: "A", Width: dim.Px(300)},
		&column.Column{Field: "B", Width: dim.Px(300)},
		&column.Column{Field: "C", Width: dim.Px(300)},
	)
	o := NewOrchestrator(Params{}, tree, fixedSize{600, 600}, rowCount(0), nil, nil)
	g := o.Recompute()
	require.True(t, g.HorizontalScroll)

	master := o.Horizontal().Master()
	assert.Equal(t, 3, master.TotalItemCount())
	assert.Equal(t, 500.0, master.Viewport())
	assert.Equal(t, 900.0, master.ContentSize())

	o.Horizontal().OnScroll(1000)
	assert.Equal(t, 400.0, o.Horizontal().ScrollLeft())

	// A wider container is applied to the master before the next recompute.
	o.Resize(800, 600)
	assert.Equal(t, 700.0, master.Viewport())
	o.Recompute()
	assert.Equal(t, 700.0, master.Viewport())
	assert.Equal(t, 200.0, o.Horizontal().ScrollLeft())
}

func TestResizeFollowsDeclaredSize(t *testing.T) {
	tests := []struct {
		name       string
		params     Params
		container  fixedSize
		resize     fixedSize
		wantChunk  int
		wantMaster float64
	}{
		{
			name:       "pixel size ignores the container",
			params:     Params{Width: dim.Px(1000), Height: dim.Px(581)},
			container:  fixedSize{1018, 800},
			resize:     fixedSize{600, 2000},
			wantChunk:  11,
			wantMaster: 982,
		},
		{
			name:       "percent size scales the change",
			params:     Params{Width: dim.Pct(50), Height: dim.Pct(50)},
			container:  fixedSize{2000, 1162},
			resize:     fixedSize{1000, 1362},
			wantChunk:  13,
			wantMaster: 482,
		},
		{
			name:       "auto width follows the container",
			params:     Params{Height: dim.Px(581)},
			container:  fixedSize{1000, 800},
			resize:     fixedSize{800, 2000},
			wantChunk:  11,
			wantMaster: 782,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOrchestrator(tt.params, autoColumns(4), tt.container, rowCount(1000), nil, nil)
			g := o.Recompute()
			require.Equal(t, 530.0, g.BodyHeight)
			require.Equal(t, 982.0, o.Horizontal().Master().Viewport())
			require.Equal(t, 11, o.Vertical().State().ChunkSize)

			o.Resize(tt.resize.w, tt.resize.h)
			assert.Equal(t, tt.wantChunk, o.Vertical().State().ChunkSize)
			assert.Equal(t, tt.wantMaster, o.Horizontal().Master().Viewport())
		})
	}
}

func TestResizePixelSizeStable(t *testing.T) {
	o := NewOrchestrator(Params{Width: dim.Px(1000), Height: dim.Px(581)}, autoColumns(4), fixedSize{1018, 800}, rowCount(1000), nil, nil)
	before := o.Recompute()

	o.Resize(600, 2000)
	after := o.Recompute()
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("geometry changed with a pixel size (-before +after):\n%s", diff)
	}
	assert.Equal(t, 11, o.Vertical().State().ChunkSize)
}
