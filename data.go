package vgrid

import "github.com/agiangrant/vgrid/sizing"

// Viewport measures the scrollable container hosting the grid. The
// rendering layer implements it.
type Viewport = sizing.Viewport

// DataSource provides the number of rows. The backing collection may hold
// fewer rows than it reports when the grid is remotely virtualized.
type DataSource = sizing.DataSource

// FixedViewport is a Viewport of a known size.
type FixedViewport struct {
	Width  float64
	Height float64
}

// Size implements Viewport.
func (v *FixedViewport) Size() (float64, float64) {
	return v.Width, v.Height
}

// StaticData is a DataSource over an in-memory collection of N rows.
type StaticData struct {
	N int
}

// TotalItemCount implements DataSource.
func (d *StaticData) TotalItemCount() int {
	return d.N
}

// RemoteData is a DataSource whose total is supplied by a remote service,
// independent of how many rows are loaded locally.
type RemoteData struct {
	Loaded int
	Total  int
}

// TotalItemCount implements DataSource. The remote total wins once known.
func (d *RemoteData) TotalItemCount() int {
	if d.Total > 0 {
		return d.Total
	}
	return d.Loaded
}
