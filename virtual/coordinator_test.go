package virtual

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newColumnWindow() *Window {
	w := NewWindow(Horizontal, WindowConfig{Viewport: 400})
	w.SetItemSizes([]float64{136, 136, 136, 136, 136, 136, 136, 136})
	return w
}

func TestCoordinatorAttachResyncs(t *testing.T) {
	c := NewCoordinator(newColumnWindow())
	c.Retain(0, 5)
	require.Equal(t, 5, c.Len())

	c.OnScroll(300)
	assert.Equal(t, 300.0, c.ScrollLeft())
	assert.Equal(t, 2, c.Master().State().StartIndex)

	// A row materialized after the scroll starts in sync.
	f := c.Attach(42)
	assert.Equal(t, c.Master().State(), f.State())
	assert.Equal(t, 300.0, f.ScrollLeft())
	assert.Empty(t, c.Diverged())
}

func TestCoordinatorOnScrollClamps(t *testing.T) {
	c := NewCoordinator(newColumnWindow())
	c.Retain(0, 3)

	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "negative", in: -50, want: 0},
		{name: "inside", in: 136, want: 136},
		{name: "past end", in: 5000, want: 8*136 - 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.OnScroll(tt.in)
			if got := c.ScrollLeft(); got != tt.want {
				t.Errorf("ScrollLeft = %v, want %v", got, tt.want)
			}
			for _, k := range c.Keys() {
				f, _ := c.Follower(k)
				assert.Equal(t, tt.want, f.ScrollLeft())
			}
			assert.Empty(t, c.Diverged())
		})
	}
}

func TestCoordinatorScrollTo(t *testing.T) {
	c := NewCoordinator(newColumnWindow())
	c.Retain(0, 2)

	c.ScrollTo(3)
	assert.Equal(t, 3, c.Master().State().StartIndex)
	assert.Equal(t, 3*136.0, c.ScrollLeft())
	assert.Empty(t, c.Diverged())

	assert.False(t, c.ScrollIntoView(3))
	assert.True(t, c.ScrollIntoView(0))
	assert.Equal(t, 0.0, c.ScrollLeft())
}

func TestCoordinatorRetain(t *testing.T) {
	c := NewCoordinator(newColumnWindow())
	attached, detached := c.Retain(0, 4)
	assert.Equal(t, []int{0, 1, 2, 3}, attached)
	assert.Empty(t, detached)

	attached, detached = c.Retain(2, 6)
	assert.Equal(t, []int{4, 5}, attached)
	assert.Equal(t, []int{0, 1}, detached)
	assert.Equal(t, []int{2, 3, 4, 5}, c.Keys())

	assert.True(t, c.Detach(2))
	assert.False(t, c.Detach(2))
	_, ok := c.Follower(2)
	assert.False(t, ok)
}

func TestCoordinatorFollowsMasterResize(t *testing.T) {
	c := NewCoordinator(newColumnWindow())
	c.Retain(0, 3)
	c.OnScroll(600)

	// Widening the viewport lowers the max scroll position.
	c.Master().OnSizeChange(900)
	assert.Equal(t, 8*136.0-900, c.ScrollLeft())
	assert.Empty(t, c.Diverged())

	// Columns removed: every follower sees the new chunk.
	c.Master().SetItemSizes([]float64{136, 136})
	assert.Equal(t, 0.0, c.ScrollLeft())
	for _, k := range c.Keys() {
		f, _ := c.Follower(k)
		assert.Equal(t, State{StartIndex: 0, ChunkSize: 2, TotalItemCount: 2}, f.State())
	}
}
