package sizing

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/agiangrant/vgrid/column"
	"github.com/agiangrant/vgrid/dim"
	"github.com/agiangrant/vgrid/internal/diag"
	"github.com/agiangrant/vgrid/internal/metrics"
	"github.com/agiangrant/vgrid/virtual"
)

// Defaults for Params fields left at zero.
const (
	DefaultRowHeight      = 50
	DefaultScrollbarSize  = 18
	DefaultTargetRecords  = 10
	DefaultMaxExtraPasses = 2
	FilterRowHeight       = 50
)

// Viewport measures the scrollable container hosting the grid.
type Viewport interface {
	Size() (width, height float64)
}

// DataSource provides the number of rows, local or remote.
type DataSource interface {
	TotalItemCount() int
}

// Chrome holds the heights of the parts the rendering layer draws around
// the grid body.
type Chrome struct {
	Toolbar   float64 `json:"toolbar" yaml:"toolbar" toml:"toolbar"`
	Pager     float64 `json:"pager" yaml:"pager" toml:"pager"`
	Summary   float64 `json:"summary" yaml:"summary" toml:"summary"`
	GroupArea float64 `json:"groupArea" yaml:"groupArea" toml:"groupArea"`
}

// Params configures an Orchestrator. Zero values take the defaults above.
type Params struct {
	// Width and Height are the declared grid dimensions. Automatic and
	// percentage widths follow the container; an automatic height shows
	// TargetRecords rows.
	Width  dim.Spec
	Height dim.Spec

	RowHeight       float64
	HeaderRowHeight float64
	ScrollbarSize   float64
	TargetRecords   int
	// MaxExtraPasses bounds the re-layout passes after the first one.
	// Zero takes the default, a negative value allows none.
	MaxExtraPasses int
	Overscan       int

	// FeatureWidth is the width of the row selector and drag handle columns.
	FeatureWidth float64
	// ColumnWidth is the grid-level width of unspecified columns.
	ColumnWidth  dim.Spec
	SnapToPixels bool
	QuickFilter  bool
	Chrome       Chrome

	// PerPage enables paging when positive.
	PerPage int
}

func (p Params) withDefaults() Params {
	if p.RowHeight <= 0 {
		p.RowHeight = DefaultRowHeight
	}
	if p.HeaderRowHeight <= 0 {
		p.HeaderRowHeight = p.RowHeight
	}
	if p.ScrollbarSize <= 0 {
		p.ScrollbarSize = DefaultScrollbarSize
	}
	if p.TargetRecords <= 0 {
		p.TargetRecords = DefaultTargetRecords
	}
	if p.MaxExtraPasses < 0 {
		p.MaxExtraPasses = 0
	} else if p.MaxExtraPasses == 0 {
		p.MaxExtraPasses = DefaultMaxExtraPasses
	}
	if p.Overscan <= 0 {
		p.Overscan = virtual.DefaultOverscan
	}
	return p
}

// Geometry is the result of one recompute. It is replaced as a whole.
type Geometry struct {
	OuterWidth       float64            `json:"outerWidth" yaml:"outerWidth"`
	CalcWidth        float64            `json:"calcWidth" yaml:"calcWidth"`
	BodyHeight       float64            `json:"bodyHeight" yaml:"bodyHeight"`
	AutoHeight       bool               `json:"autoHeight" yaml:"autoHeight"`
	HeaderHeight     float64            `json:"headerHeight" yaml:"headerHeight"`
	SummaryHeight    float64            `json:"summaryHeight" yaml:"summaryHeight"`
	RowHeight        float64            `json:"rowHeight" yaml:"rowHeight"`
	Rows             int                `json:"rows" yaml:"rows"`
	PinnedWidth      float64            `json:"pinnedWidth" yaml:"pinnedWidth"`
	UnpinnedWidth    float64            `json:"unpinnedWidth" yaml:"unpinnedWidth"`
	TotalColumnWidth float64            `json:"totalColumnWidth" yaml:"totalColumnWidth"`
	ColumnWidths     map[string]float64 `json:"columnWidths" yaml:"columnWidths"`
	VerticalScroll   bool               `json:"verticalScroll" yaml:"verticalScroll"`
	HorizontalScroll bool               `json:"horizontalScroll" yaml:"horizontalScroll"`
	Passes           int                `json:"passes" yaml:"passes"`
	Converged        bool               `json:"converged" yaml:"converged"`
}

// Orchestrator is the single write path of a grid's geometry. It owns the
// metric cache, the vertical window and the horizontal coordinator, and
// recomputes all of them from the column tree and the measured viewport.
//
// An Orchestrator is not safe for concurrent use.
type Orchestrator struct {
	params   Params
	tree     *column.Tree
	viewport Viewport
	data     DataSource
	page     int

	// measured overrides viewport once Resize has been called.
	measured    [2]float64
	hasMeasured bool

	cache      *Cache
	vertical   *virtual.Window
	horizontal *virtual.Coordinator

	resolved Result
	part     Partition
	geom     Geometry

	diag    *diag.Recorder
	metrics *metrics.Collector
	log     *zap.Logger
}

// NewOrchestrator creates an orchestrator. rec and col may be nil.
// No geometry exists until the first Recompute.
func NewOrchestrator(p Params, tree *column.Tree, vp Viewport, data DataSource, rec *diag.Recorder, col *metrics.Collector) *Orchestrator {
	p = p.withDefaults()
	if tree == nil {
		tree = column.NewTree()
	}
	o := &Orchestrator{
		params:   p,
		tree:     tree,
		viewport: vp,
		data:     data,
		cache:    NewCache(),
		vertical: virtual.NewWindow(virtual.Vertical, virtual.WindowConfig{
			ItemSize: p.RowHeight,
			Overscan: p.Overscan,
		}),
		horizontal: virtual.NewCoordinator(virtual.NewWindow(virtual.Horizontal, virtual.WindowConfig{
			Overscan: p.Overscan,
		})),
		diag:    rec,
		metrics: col,
		log:     rec.Logger().With(zap.String("component", "sizing")),
	}
	return o
}

// Params returns the effective parameters, defaults applied.
func (o *Orchestrator) Params() Params { return o.params }

// Tree returns the current column tree.
func (o *Orchestrator) Tree() *column.Tree { return o.tree }

// SetTree replaces the column tree. The caller recomputes afterwards.
func (o *Orchestrator) SetTree(t *column.Tree) {
	if t == nil {
		t = column.NewTree()
	}
	o.tree = t
}

// Cache returns the metric cache.
func (o *Orchestrator) Cache() *Cache { return o.cache }

// Vertical returns the row window.
func (o *Orchestrator) Vertical() *virtual.Window { return o.vertical }

// Horizontal returns the coordinator of the unpinned column windows.
func (o *Orchestrator) Horizontal() *virtual.Coordinator { return o.horizontal }

// Geometry returns the geometry of the last recompute.
func (o *Orchestrator) Geometry() Geometry { return o.geom }

// Partition returns the pinned/unpinned partition of the last recompute.
func (o *Orchestrator) Partition() Partition { return o.part }

// Resolved returns the resolver result of the last recompute.
func (o *Orchestrator) Resolved() Result { return o.resolved }

// SetPage selects the page shown when paging is enabled.
func (o *Orchestrator) SetPage(page int) {
	o.page = max(page, 0)
}

// Page returns the current page.
func (o *Orchestrator) Page() int { return o.page }

// Rows returns the number of rows on the current page.
func (o *Orchestrator) Rows() int {
	total := 0
	if o.data != nil {
		total = max(o.data.TotalItemCount(), 0)
	}
	if o.params.PerPage <= 0 {
		return total
	}
	return min(max(total-o.page*o.params.PerPage, 0), o.params.PerPage)
}

// Resize records a new container measurement and applies it to the windows
// right away. Column widths and heights follow on the next Recompute.
// From then on the recorded measurement takes precedence over the Viewport
// until Remeasure is called.
func (o *Orchestrator) Resize(width, height float64) {
	prevW, prevH := o.measure()
	o.measured = [2]float64{finite(width), finite(height)}
	o.hasMeasured = true

	// Only the part of the change that reaches the declared size moves a
	// window: a pixel dimension ignores the container, a percentage scales.
	if !o.geom.AutoHeight && o.geom.Passes > 0 {
		prev, _ := o.params.Height.Resolve(prevH)
		next, _ := o.params.Height.Resolve(o.measured[1])
		if next != prev {
			o.vertical.OnSizeChange(math.Max(o.geom.BodyHeight+next-prev, 0))
		}
	}
	if prev, next := o.outerWidth(prevW), o.outerWidth(o.measured[0]); next != prev {
		master := o.horizontal.Master()
		master.OnSizeChange(math.Max(master.Viewport()+next-prev, 0))
	}
}

// outerWidth returns the grid width for a container of the given width.
func (o *Orchestrator) outerWidth(containerW float64) float64 {
	if px, ok := o.params.Width.Resolve(containerW); ok {
		return finite(px)
	}
	return containerW
}

// Remeasure drops the measurement recorded by Resize so that the next
// Recompute asks the Viewport again.
func (o *Orchestrator) Remeasure() {
	o.hasMeasured = false
}

// DataChanged re-reads the row count and re-clamps the vertical window.
func (o *Orchestrator) DataChanged() {
	o.vertical.OnDataChange(o.Rows())
	if o.metrics != nil {
		o.metrics.SetMaterializedRows(o.vertical.State().ChunkSize)
	}
}

func (o *Orchestrator) measure() (width, height float64) {
	if o.hasMeasured {
		return o.measured[0], o.measured[1]
	}
	if o.viewport == nil {
		return 0, 0
	}
	width, height = o.viewport.Size()
	if math.IsNaN(width) || math.IsInf(width, 0) || math.IsNaN(height) || math.IsInf(height, 0) {
		o.diag.Warn(diag.Diagnostic{
			Kind:    diag.Degenerate,
			Message: fmt.Sprintf("viewport measured %vx%v", width, height),
		})
	}
	return finite(width), finite(height)
}

// ============================================================================
// Recompute
// ============================================================================

// Recompute invalidates the cache and recomputes the whole geometry.
//
// Widths are resolved before heights. Showing a vertical scrollbar narrows
// the columns, which may add a horizontal scrollbar, which lowers an
// explicit body height, which may add the vertical scrollbar: the loop
// repeats until neither flips, at most 1+MaxExtraPasses times.
func (o *Orchestrator) Recompute() Geometry {
	o.cache.Invalidate()
	p := o.params

	containerW, containerH := o.measure()

	outer := o.outerWidth(containerW)
	rowHeight := o.cache.Get(KeyRowHeight, func() float64 {
		return p.RowHeight * float64(o.tree.LayoutRowSpan())
	})
	rows := o.Rows()
	roots := o.tree.DisplayRoots()

	header := 0.0
	if len(roots) > 0 {
		header = float64(o.tree.MaxHeaderDepth()+1)*p.HeaderRowHeight + 1
		if p.QuickFilter {
			header += FilterRowHeight
		}
	}

	var (
		vScroll, hScroll bool
		res              Result
		body             float64
		auto             bool
		converged        bool
		passes           int
	)
	for passes < 1+p.MaxExtraPasses {
		passes++
		calc := outer
		if vScroll {
			calc = math.Max(outer-p.ScrollbarSize, 0)
		}
		res = Resolve(Input{
			Width:        calc,
			FeatureWidth: p.FeatureWidth,
			Columns:      roots,
			DefaultWidth: p.ColumnWidth,
			Snap:         p.SnapToPixels,
		})
		hNext := len(roots) > 0 && res.Overflow
		if len(roots) > 0 {
			body, auto = o.bodyHeight(containerH, header, rows, rowHeight, hNext)
		} else {
			body, auto = 0, true
		}
		vNext := len(roots) > 0 && float64(rows)*rowHeight > body+epsilon

		o.log.Debug("sizing pass",
			zap.Int("pass", passes),
			zap.Float64("calcWidth", calc),
			zap.Float64("bodyHeight", body),
			zap.Bool("verticalScroll", vNext),
			zap.Bool("horizontalScroll", hNext),
		)
		if vNext == vScroll && hNext == hScroll {
			converged = true
			break
		}
		vScroll, hScroll = vNext, hNext
	}
	if !converged {
		o.diag.Warn(diag.Diagnostic{
			Kind:    diag.NotConverged,
			Message: fmt.Sprintf("scrollbars still changing after %d passes", passes),
			Value:   float64(passes),
		})
	}

	calc := outer
	if vScroll {
		calc = math.Max(outer-p.ScrollbarSize, 0)
	}
	o.resolved = res
	o.part = o.partition(res, calc)

	o.cache.Put(KeyCalcWidth, calc)
	o.cache.Put(KeyPinnedWidth, o.part.PinnedWidth)
	o.cache.Put(KeyUnpinnedWidth, o.part.UnpinnedWidth)
	o.cache.Put(KeyTotalWidth, res.Total)
	for field, w := range res.Widths {
		o.cache.Put(ColumnKey(field), w)
	}

	o.geom = Geometry{
		OuterWidth:       outer,
		CalcWidth:        calc,
		BodyHeight:       body,
		AutoHeight:       auto,
		HeaderHeight:     header,
		SummaryHeight:    p.Chrome.Summary,
		RowHeight:        rowHeight,
		Rows:             rows,
		PinnedWidth:      o.part.PinnedWidth,
		UnpinnedWidth:    o.part.UnpinnedWidth,
		TotalColumnWidth: res.Total,
		ColumnWidths:     res.Widths,
		VerticalScroll:   vScroll,
		HorizontalScroll: hScroll,
		Passes:           passes,
		Converged:        converged,
	}

	o.vertical.Configure(rowHeight, body, rows)
	o.configureHorizontal()

	if o.metrics != nil {
		o.metrics.Recompute(passes)
		o.metrics.SetMaterializedRows(o.vertical.State().ChunkSize)
		o.metrics.SetCacheHitRatio(o.cache.Stats().HitRatio())
	}
	return o.geom
}

// bodyHeight returns the height of the scrolling body and whether it is
// automatic (sized from the rows rather than the container).
func (o *Orchestrator) bodyHeight(containerH, header float64, rows int, rowHeight float64, hScroll bool) (float64, bool) {
	p := o.params
	target := float64(min(rows, p.TargetRecords)) * rowHeight

	if p.Height.IsAuto() {
		return target, true
	}
	available, _ := p.Height.Resolve(containerH)
	available -= header + p.Chrome.Summary + p.Chrome.Pager + p.Chrome.Toolbar + p.Chrome.GroupArea
	if hScroll {
		available -= p.ScrollbarSize
	}
	if math.IsNaN(available) || available <= 0 {
		return target, false
	}

	content := float64(rows) * rowHeight
	if p.Height.IsPercent() && content <= available {
		// Every row fits: let the body follow its content.
		return content, true
	}
	return available, false
}

// partition builds the pin partition and forcibly unpins declared pinned
// columns that do not fit under the cap.
func (o *Orchestrator) partition(res Result, calc float64) Partition {
	part := NewPartition(o.tree, res, calc, o.params.FeatureWidth)
	if len(part.Refused) == 0 {
		return part
	}
	for _, field := range part.Refused {
		o.tree, _ = column.Apply(o.tree, column.Mutation{Field: field, Op: column.OpUnpin})
		o.diag.Warn(diag.Diagnostic{
			Kind:    diag.ForcedUnpin,
			Field:   field,
			Message: "pinned area would exceed the maximum share of the grid width; column unpinned",
			Value:   part.PinnedWidth + res.Width(field),
			Limit:   PinLimit(calc),
		})
		if o.metrics != nil {
			o.metrics.ForcedUnpin()
		}
	}
	return NewPartition(o.tree, res, calc, o.params.FeatureWidth)
}

func (o *Orchestrator) configureHorizontal() {
	items := o.part.HorizontalItems()
	sizes := make([]float64, len(items))
	for i, col := range items {
		sizes[i] = o.resolved.Width(col.Field)
	}
	o.horizontal.Master().ConfigureSizes(sizes, o.part.UnpinnedWidth)
	o.horizontal.OnScroll(o.horizontal.ScrollLeft())
}

// WidthOf returns the resolved width of field from the metric cache.
func (o *Orchestrator) WidthOf(field string) float64 {
	return o.cache.Get(ColumnKey(field), func() float64 {
		return o.resolved.Width(field)
	})
}

// CanPin reports whether the top-level column of field fits in the pinned
// area. It is true for columns already pinned and false for unknown ones.
func (o *Orchestrator) CanPin(field string) bool {
	col := o.tree.Find(field)
	if col == nil {
		return false
	}
	top := col.TopLevel()
	if top.Pinned {
		return true
	}
	width := o.resolved.Width(top.Field)
	if top.Hidden || width == 0 {
		// Hidden columns have no resolved width; size them as if shown.
		shown, _ := column.Apply(o.tree, column.Mutation{Field: top.Field, Op: column.OpShow})
		width = Resolve(Input{
			Width:        o.geom.CalcWidth,
			FeatureWidth: o.params.FeatureWidth,
			Columns:      shown.DisplayRoots(),
			DefaultWidth: o.params.ColumnWidth,
			Snap:         o.params.SnapToPixels,
		}).Width(top.Field)
	}
	return CanPin(o.part.PinnedWidth, width, o.geom.CalcWidth)
}
