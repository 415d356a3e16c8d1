package state

import "github.com/idilsaglam/todo/internal/model"

// Snapshot is a consistent copy of everything a renderer reads.
type Snapshot struct {
	Items          []model.Item
	Visible        []model.Item
	Filter         model.Filter
	ActiveCount    int
	CompletedCount int
	AllCompleted   bool
	Loading        bool
	Submitting     bool
	Notice         Notice
	HasNotice      bool

	pending       map[int]bool
	placeholderID int
	placeholder   bool
}

// IsPending reports whether id has a call in flight or is the placeholder.
func (s Snapshot) IsPending(id int) bool {
	return s.pending[id] || (s.placeholder && s.placeholderID == id)
}

// IsPlaceholder reports whether id is the item being created.
func (s Snapshot) IsPlaceholder(id int) bool { return s.placeholder && s.placeholderID == id }

// Snapshot copies the current state under one lock.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Items:          append([]model.Item(nil), c.items...),
		Visible:        c.filter.Apply(c.items),
		Filter:         c.filter,
		ActiveCount:    c.activeCountLocked(),
		CompletedCount: c.completedCountLocked(),
		AllCompleted:   len(c.items) > 0 && c.allCompletedLocked(),
		Loading:        c.loading,
		Submitting:     c.submitting,
		pending:        make(map[int]bool, len(c.pending)),
	}
	for id := range c.pending {
		s.pending[id] = true
	}
	if c.placeholder != nil {
		s.placeholder = true
		s.placeholderID = c.placeholder.ID
	}
	if c.notice != nil {
		s.Notice, s.HasNotice = *c.notice, true
	}
	return s
}

// Items returns a copy of the authoritative list.
func (c *Controller) Items() []model.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Item(nil), c.items...)
}

// Visible returns the authoritative list passed through the current filter.
func (c *Controller) Visible() []model.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter.Apply(c.items)
}

// Len is the size of the authoritative list.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// ActiveCount counts items not completed, leaving out the placeholder.
func (c *Controller) ActiveCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeCountLocked()
}

// CompletedCount counts completed items.
func (c *Controller) CompletedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.completedCountLocked()
}

// AllCompleted reports a non-empty list with every item completed.
func (c *Controller) AllCompleted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items) > 0 && c.allCompletedLocked()
}

func (c *Controller) IsPending(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending[id] > 0 || c.isPlaceholderLocked(id)
}

// Placeholder returns the item currently being created, if any.
func (c *Controller) Placeholder() (model.Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.placeholder == nil {
		return model.Item{}, false
	}
	return *c.placeholder, true
}

func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *Controller) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

func (c *Controller) Filter() model.Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Notice returns the current banner message, if any.
func (c *Controller) Notice() (Notice, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.notice == nil {
		return Notice{}, false
	}
	return *c.notice, true
}

func (c *Controller) activeCountLocked() int {
	n := 0
	for _, it := range c.items {
		if !it.Completed && !c.isPlaceholderLocked(it.ID) {
			n++
		}
	}
	return n
}

func (c *Controller) completedCountLocked() int {
	n := 0
	for _, it := range c.items {
		if it.Completed {
			n++
		}
	}
	return n
}
