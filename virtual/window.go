// Package virtual decides which slice of a logically larger collection is
// materialized along one axis, and keeps row-level horizontal windows in
// lockstep with the grid's authoritative horizontal scroll position.
package virtual

import (
	"math"
	"sort"
)

// Axis identifies the direction a Window virtualizes.
type Axis int

const (
	Vertical Axis = iota
	Horizontal
)

func (a Axis) String() string {
	if a == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Phase is the state of a Window's recalculation state machine.
type Phase int

const (
	// Idle means the window is settled.
	Idle Phase = iota
	// Recalculating is observed only from inside chunk-change listeners.
	Recalculating
)

// DefaultOverscan is the number of items materialized beyond the ones that
// fully fit in the viewport.
const DefaultOverscan = 1

const epsilon = 1e-9

// State is the materialized slice of one axis.
type State struct {
	StartIndex     int
	ChunkSize      int
	TotalItemCount int
}

// End returns the exclusive end index of the chunk.
func (s State) End() int {
	return s.StartIndex + s.ChunkSize
}

// Window virtualizes one axis. Items have a uniform size unless per-item
// sizes are set (columns on the horizontal axis).
//
// A Window is not safe for concurrent use.
type Window struct {
	axis     Axis
	itemSize float64
	sizes    []float64
	offsets  []float64 // prefix sums of sizes, len(sizes)+1
	viewport float64
	overscan int
	total    int

	state     State
	phase     Phase
	listeners []func(State)
}

// WindowConfig configures a new Window.
type WindowConfig struct {
	// ItemSize is the uniform item size in pixels.
	ItemSize float64
	// Overscan is clamped to at least 1.
	Overscan int
	// Viewport is the initial viewport size in pixels.
	Viewport float64
	// TotalItemCount is the initial number of items.
	TotalItemCount int
}

// NewWindow creates a window starting at index 0.
func NewWindow(axis Axis, cfg WindowConfig) *Window {
	if cfg.Overscan < DefaultOverscan {
		cfg.Overscan = DefaultOverscan
	}
	w := &Window{
		axis:     axis,
		itemSize: sanitize(cfg.ItemSize),
		viewport: sanitize(cfg.Viewport),
		overscan: cfg.Overscan,
		total:    max(cfg.TotalItemCount, 0),
	}
	w.recalc(0)
	return w
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// Axis returns the axis the window virtualizes.
func (w *Window) Axis() Axis { return w.axis }

// State returns the current materialized slice.
func (w *Window) State() State { return w.state }

// Phase returns Recalculating while listeners are being notified.
func (w *Window) Phase() Phase { return w.phase }

// Viewport returns the viewport size in pixels.
func (w *Window) Viewport() float64 { return w.viewport }

// ItemSize returns the uniform item size.
func (w *Window) ItemSize() float64 { return w.itemSize }

// TotalItemCount returns the number of items, local or remote.
func (w *Window) TotalItemCount() int { return w.total }

// Range returns the [start, end) indices of the chunk.
func (w *Window) Range() (start, end int) {
	return w.state.StartIndex, w.state.End()
}

// Contains reports whether index is materialized.
func (w *Window) Contains(index int) bool {
	return index >= w.state.StartIndex && index < w.state.End()
}

// OnChunkChange registers fn to be called whenever the state changes.
// Listeners run synchronously, in registration order.
func (w *Window) OnChunkChange(fn func(State)) {
	w.listeners = append(w.listeners, fn)
}

// ScrollTo makes index the first materialized item, clamped into
// [0, total-chunkSize].
func (w *Window) ScrollTo(index int) {
	w.recalc(index)
}

// ScrollBy moves the start index by delta items.
func (w *Window) ScrollBy(delta int) {
	w.recalc(w.state.StartIndex + delta)
}

// ScrollToOffset scrolls to the item under the given pixel offset.
func (w *Window) ScrollToOffset(offset float64) {
	w.recalc(w.IndexAt(offset))
}

// OnSizeChange recomputes the chunk for a new viewport size and re-clamps
// the start index.
func (w *Window) OnSizeChange(viewport float64) {
	w.viewport = sanitize(viewport)
	w.recalc(w.state.StartIndex)
}

// OnDataChange sets a new item count, clamping the start index if the
// current one is now out of range.
func (w *Window) OnDataChange(total int) {
	w.total = max(total, 0)
	w.recalc(w.state.StartIndex)
}

// SetTotalItemCount sets the item count of a remotely virtualized
// collection, which may exceed what is held in memory.
func (w *Window) SetTotalItemCount(total int) {
	w.OnDataChange(total)
}

// SetItemSize switches to uniform items of the given size.
func (w *Window) SetItemSize(size float64) {
	w.itemSize = sanitize(size)
	w.sizes, w.offsets = nil, nil
	w.recalc(w.state.StartIndex)
}

// SetItemSizes switches to per-item sizes. The item count becomes len(sizes).
func (w *Window) SetItemSizes(sizes []float64) {
	w.sizes = make([]float64, len(sizes))
	w.offsets = make([]float64, len(sizes)+1)
	for i, s := range sizes {
		w.sizes[i] = sanitize(s)
		w.offsets[i+1] = w.offsets[i] + w.sizes[i]
	}
	w.total = len(sizes)
	w.recalc(w.state.StartIndex)
}

// Configure replaces the uniform item size, viewport and item count at once,
// notifying listeners at most once.
func (w *Window) Configure(itemSize, viewport float64, total int) {
	w.itemSize = sanitize(itemSize)
	w.sizes, w.offsets = nil, nil
	w.viewport = sanitize(viewport)
	w.total = max(total, 0)
	w.recalc(w.state.StartIndex)
}

// ConfigureSizes replaces the per-item sizes and the viewport at once,
// notifying listeners at most once.
func (w *Window) ConfigureSizes(sizes []float64, viewport float64) {
	w.viewport = sanitize(viewport)
	w.SetItemSizes(sizes)
}

// SizeOf returns the size of the item at index.
func (w *Window) SizeOf(index int) float64 {
	if index >= 0 && index < len(w.sizes) {
		return w.sizes[index]
	}
	return w.itemSize
}

// ItemOffset returns the cumulative size of all items before index.
// index is clamped into [0, total].
func (w *Window) ItemOffset(index int) float64 {
	index = min(max(index, 0), w.total)
	if w.offsets == nil {
		return float64(index) * w.itemSize
	}
	n := len(w.sizes)
	if index <= n {
		return w.offsets[index]
	}
	return w.offsets[n] + float64(index-n)*w.itemSize
}

// ContentSize returns the size of all items.
func (w *Window) ContentSize() float64 {
	return w.ItemOffset(w.total)
}

// ScrollPosition returns the pixel offset of the first materialized item.
func (w *Window) ScrollPosition() float64 {
	return w.ItemOffset(w.state.StartIndex)
}

// MaxScrollPosition returns the largest meaningful pixel scroll offset.
func (w *Window) MaxScrollPosition() float64 {
	return math.Max(0, w.ContentSize()-w.viewport)
}

// IsScrollable reports whether the items overflow the viewport.
func (w *Window) IsScrollable() bool {
	return w.ContentSize() > w.viewport+epsilon
}

// IndexAt returns the index of the item under offset, clamped into
// [0, total-1] (0 for an empty window).
func (w *Window) IndexAt(offset float64) int {
	if w.total == 0 || !(offset > 0) {
		return 0
	}
	var idx int
	if w.offsets == nil {
		if w.itemSize <= 0 {
			return 0
		}
		idx = int(math.Floor(offset / w.itemSize))
	} else {
		// First offset strictly greater than the target, minus one.
		idx = sort.Search(len(w.offsets), func(i int) bool {
			return w.offsets[i] > offset
		}) - 1
		if idx >= len(w.sizes) && w.itemSize > 0 {
			idx = len(w.sizes) + int(math.Floor((offset-w.offsets[len(w.sizes)])/w.itemSize))
		}
	}
	return min(max(idx, 0), w.total-1)
}

// chunkSize returns the largest number of whole items that fit in the
// viewport from any start position, plus overscan, capped at total.
func (w *Window) chunkSize() int {
	if w.total == 0 {
		return 0
	}
	var fit int
	if w.offsets == nil {
		if w.itemSize <= 0 {
			return w.total
		}
		fit = int(math.Floor(w.viewport/w.itemSize + epsilon))
	} else {
		fit = w.maxFit()
	}
	return min(fit+w.overscan, w.total)
}

func (w *Window) maxFit() int {
	best, sum, j := 0, 0.0, 0
	for i := 0; i < w.total; i++ {
		if j < i {
			j, sum = i, 0
		}
		for j < w.total && sum+w.SizeOf(j) <= w.viewport+epsilon {
			sum += w.SizeOf(j)
			j++
		}
		if j-i > best {
			best = j - i
		}
		if j == w.total {
			break
		}
		if j > i {
			sum -= w.SizeOf(i)
		}
	}
	return best
}

func (w *Window) recalc(start int) {
	w.phase = Recalculating
	defer func() { w.phase = Idle }()

	chunk := w.chunkSize()
	maxStart := max(w.total-chunk, 0)
	next := State{
		StartIndex:     min(max(start, 0), maxStart),
		ChunkSize:      chunk,
		TotalItemCount: w.total,
	}
	if next == w.state {
		return
	}
	w.state = next
	for _, fn := range w.listeners {
		fn(next)
	}
}
