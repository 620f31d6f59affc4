package virtual

import (
	"math"
	"sort"
)

// Follower is the horizontal window state of one materialized row. It
// mirrors the master and is only ever written by its Coordinator.
type Follower struct {
	key        int
	state      State
	scrollLeft float64
}

// Key returns the row index the follower belongs to.
func (f *Follower) Key() int { return f.key }

// State returns the follower's horizontal chunk.
func (f *Follower) State() State { return f.state }

// ScrollLeft returns the follower's horizontal pixel offset.
func (f *Follower) ScrollLeft() float64 { return f.scrollLeft }

// Coordinator keeps every row-level horizontal window in lockstep with one
// authoritative master window over the unpinned columns.
//
// Followers are held in an explicit registry and synchronized by iterating
// it, never through subscriptions. A newly attached follower starts at
// offset zero and is resynchronized before Attach returns.
type Coordinator struct {
	master     *Window
	scrollLeft float64
	followers  map[int]*Follower
}

// NewCoordinator creates a coordinator around master. Chunk changes of the
// master (from resizes or column changes) are pushed to all followers.
func NewCoordinator(master *Window) *Coordinator {
	c := &Coordinator{
		master:    master,
		followers: make(map[int]*Follower),
	}
	master.OnChunkChange(func(State) {
		c.clampScrollLeft()
		c.Sync()
	})
	return c
}

// Master returns the authoritative horizontal window.
func (c *Coordinator) Master() *Window { return c.master }

// ScrollLeft returns the authoritative horizontal pixel offset.
func (c *Coordinator) ScrollLeft() float64 { return c.scrollLeft }

// OnScroll handles a horizontal scroll event carrying a pixel offset.
func (c *Coordinator) OnScroll(scrollLeft float64) {
	if math.IsNaN(scrollLeft) {
		scrollLeft = 0
	}
	c.scrollLeft = math.Min(math.Max(scrollLeft, 0), c.master.MaxScrollPosition())
	c.master.ScrollToOffset(c.scrollLeft)
	c.Sync()
}

// ScrollTo scrolls horizontally so that the unpinned column at index is the
// first materialized one.
func (c *Coordinator) ScrollTo(index int) {
	c.master.ScrollTo(index)
	c.scrollLeft = math.Min(c.master.ScrollPosition(), c.master.MaxScrollPosition())
	c.Sync()
}

// ScrollIntoView scrolls the minimum amount needed to fully show the
// unpinned column at index. Returns whether it scrolled.
func (c *Coordinator) ScrollIntoView(index int) bool {
	if !c.master.ScrollIntoView(index) {
		return false
	}
	c.scrollLeft = math.Min(c.master.ScrollPosition(), c.master.MaxScrollPosition())
	c.Sync()
	return true
}

func (c *Coordinator) clampScrollLeft() {
	if limit := c.master.MaxScrollPosition(); c.scrollLeft > limit {
		c.scrollLeft = limit
	}
}

// Attach registers the follower for a newly materialized row and
// synchronizes it immediately. Attaching an existing key resyncs it.
func (c *Coordinator) Attach(key int) *Follower {
	f, ok := c.followers[key]
	if !ok {
		f = &Follower{key: key}
		c.followers[key] = f
	}
	c.resync(f)
	return f
}

// Detach removes the follower of a row that is no longer materialized.
func (c *Coordinator) Detach(key int) bool {
	if _, ok := c.followers[key]; !ok {
		return false
	}
	delete(c.followers, key)
	return true
}

// Follower returns the follower registered for key.
func (c *Coordinator) Follower(key int) (*Follower, bool) {
	f, ok := c.followers[key]
	return f, ok
}

// Len returns the number of registered followers.
func (c *Coordinator) Len() int {
	return len(c.followers)
}

// Keys returns the registered row keys in ascending order.
func (c *Coordinator) Keys() []int {
	keys := make([]int, 0, len(c.followers))
	for k := range c.followers {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Retain makes the registry match the materialized rows [start, end):
// rows leaving the range are detached, rows entering it are attached and
// resynchronized.
func (c *Coordinator) Retain(start, end int) (attached, detached []int) {
	for _, k := range c.Keys() {
		if k < start || k >= end {
			delete(c.followers, k)
			detached = append(detached, k)
		}
	}
	for k := start; k < end; k++ {
		if _, ok := c.followers[k]; !ok {
			c.Attach(k)
			attached = append(attached, k)
		}
	}
	return attached, detached
}

// Sync pushes the master state to every follower.
func (c *Coordinator) Sync() {
	for _, f := range c.followers {
		c.resync(f)
	}
}

func (c *Coordinator) resync(f *Follower) {
	f.state = c.master.State()
	f.scrollLeft = c.scrollLeft
}

// Diverged returns the keys of followers whose state differs from the
// master, in ascending order. It is empty after every coordinator operation.
func (c *Coordinator) Diverged() []int {
	var out []int
	want := c.master.State()
	for _, k := range c.Keys() {
		f := c.followers[k]
		if f.state != want || f.scrollLeft != c.scrollLeft {
			out = append(out, k)
		}
	}
	return out
}
