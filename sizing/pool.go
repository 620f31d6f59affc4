package sizing

import (
	"sync"

	"github.com/agiangrant/vgrid/column"
)

// ============================================================================
// Slice Pooling
// ============================================================================
//
// A recompute runs on every resize, scroll-triggered reflow and column
// change, and the resolver needs scratch slices for the columns it
// distributes over. These are pooled to keep continuous resizes from
// allocating on every pass.
//
// Usage:
//   cols := acquireColumnSlice(0)
//   cols = append(cols, ...)
//   ... use cols ...
//   releaseColumnSlice(cols)

var columnSlicePool = sync.Pool{
	New: func() interface{} {
		return make([]*column.Column, 0, 16)
	},
}

// acquireColumnSlice gets a column slice from the pool with len == n.
// Caller must call releaseColumnSlice when done.
func acquireColumnSlice(n int) []*column.Column {
	slice := columnSlicePool.Get().([]*column.Column)
	if cap(slice) < n {
		columnSlicePool.Put(slice[:0])
		return make([]*column.Column, n, n*2)
	}
	return slice[:n]
}

// releaseColumnSlice returns a column slice to the pool.
// The slice should not be used after calling this.
func releaseColumnSlice(slice []*column.Column) {
	if slice == nil {
		return
	}
	for i := range slice {
		slice[i] = nil
	}
	if cap(slice) <= 256 {
		columnSlicePool.Put(slice[:0])
	}
}

var floatSlicePool = sync.Pool{
	New: func() interface{} {
		return make([]float64, 0, 16)
	},
}

// acquireFloatSlice gets a zeroed float slice with len == n.
func acquireFloatSlice(n int) []float64 {
	slice := floatSlicePool.Get().([]float64)
	if cap(slice) < n {
		floatSlicePool.Put(slice[:0])
		return make([]float64, n, n*2)
	}
	slice = slice[:n]
	clear(slice)
	return slice
}

// releaseFloatSlice returns a float slice to the pool.
func releaseFloatSlice(slice []float64) {
	if slice != nil && cap(slice) <= 256 {
		floatSlicePool.Put(slice[:0])
	}
}
