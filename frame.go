package vgrid

// ============================================================================
// Frame Scheduling
// ============================================================================
//
// Measurements are applied as soon as they arrive, but re-layout is deferred
// to the next frame. Any number of requests within one frame collapse into a
// single recompute, so a burst of resize or wheel events costs one reflow.

// frames tracks pending re-layout requests.
type frames struct {
	pending bool
	frame   uint64
	reflows uint64
}

// RequestReflow schedules a reflow for the next frame.
func (g *Grid) RequestReflow() {
	g.pending = true
}

// ReflowPending reports whether a reflow is scheduled.
func (g *Grid) ReflowPending() bool {
	return g.pending
}

// Frame advances one rendering frame, running the scheduled reflow if any.
// Returns whether a reflow ran.
func (g *Grid) Frame() bool {
	g.frame++
	if !g.pending {
		return false
	}
	g.Reflow()
	return true
}

// FrameNumber returns the number of frames advanced so far.
func (g *Grid) FrameNumber() uint64 {
	return g.frame
}

// Reflows returns the number of reflows run so far, the initial one included.
func (g *Grid) Reflows() uint64 {
	return g.reflows
}

// Resize applies a new container measurement to both windows immediately
// and schedules the re-layout for the next frame.
func (g *Grid) Resize(width, height float64) {
	g.orch.Resize(width, height)
	g.RequestReflow()
}

// DataChanged must be called when the data source's row count changes. The
// vertical window is re-clamped immediately; the layout follows on the next
// frame.
func (g *Grid) DataChanged() {
	g.orch.DataChanged()
	g.orch.Cache().Invalidate()
	g.RequestReflow()
}
