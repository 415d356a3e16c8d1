// Package state owns the authoritative in-memory todo list and the
// transitions that mutate it.
//
// Every transition applies its local effect right away (placeholder
// insert, pending marker) and then converges the list back to whatever
// the server returns. Network failures never escape a transition: they
// become a Notice, logged with their cause, and the list is left
// consistent.
package state

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todo/internal/clock"
	"github.com/idilsaglam/todo/internal/model"
)

// DefaultErrorTimeout is how long a notice stays up unless replaced or dismissed.
const DefaultErrorTimeout = 3 * time.Second

// Store is the remote collection. *api.Client implements it.
type Store interface {
	List(ctx context.Context) ([]model.Item, error)
	Create(ctx context.Context, d model.Draft) (model.Item, error)
	Delete(ctx context.Context, id int) error
	Update(ctx context.Context, id int, p model.Patch) (model.Item, error)
}

// Options configure a Controller at construction.
type Options struct {
	// UserID is the owner identity. Zero means unconfigured: Load is a no-op.
	UserID int

	Clock  clock.Clock
	Logger *log.Logger

	// ErrorTimeout defaults to DefaultErrorTimeout.
	ErrorTimeout time.Duration

	// DeleteConcurrency bounds ClearCompleted. Zero means 1 (sequential).
	DeleteConcurrency int

	// UpdateConcurrency bounds ToggleAll. Zero means unbounded.
	UpdateConcurrency int
}

// Controller is safe for concurrent use. The mutex is never held across a
// call into Store.
type Controller struct {
	store        Store
	userID       int
	clock        clock.Clock
	logger       *log.Logger
	errorTimeout time.Duration
	deleteLimit  int
	updateLimit  int

	mu          sync.Mutex
	items       []model.Item
	filter      model.Filter
	placeholder *model.Item
	pending     map[int]int
	loading     bool
	submitting  bool
	notice      *Notice
	noticeTimer clock.Timer
	noticeSeq   uint64

	changes chan struct{}
}

// New returns a Controller with an empty list.
func New(store Store, opts Options) *Controller {
	c := &Controller{
		store:        store,
		userID:       opts.UserID,
		clock:        opts.Clock,
		logger:       opts.Logger,
		errorTimeout: opts.ErrorTimeout,
		deleteLimit:  opts.DeleteConcurrency,
		updateLimit:  opts.UpdateConcurrency,
		items:        []model.Item{},
		pending:      make(map[int]int),
		changes:      make(chan struct{}, 1),
	}
	if c.clock == nil {
		c.clock = clock.Real()
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	if c.errorTimeout <= 0 {
		c.errorTimeout = DefaultErrorTimeout
	}
	if c.deleteLimit <= 0 {
		c.deleteLimit = 1
	}
	if c.updateLimit < 0 {
		c.updateLimit = 0
	}
	return c
}

// Changes delivers a value after any state change. Notifications coalesce:
// a slow reader sees one pending signal, not a backlog.
func (c *Controller) Changes() <-chan struct{} { return c.changes }

func (c *Controller) notify() {
	select {
	case c.changes <- struct{}{}:
	default:
	}
}

// Configured reports whether an owner identity is set.
func (c *Controller) Configured() bool { return c.userID != 0 }

// UserID returns the owner identity.
func (c *Controller) UserID() int { return c.userID }

// ---------------------------------------------------
// Transitions
// ---------------------------------------------------

// Load replaces the list with the server's. It does nothing when no owner
// is configured.
func (c *Controller) Load(ctx context.Context) {
	if !c.Configured() {
		return
	}
	c.mu.Lock()
	c.loading = true
	c.clearNoticeLocked()
	c.mu.Unlock()
	c.notify()

	items, err := c.store.List(ctx)

	c.mu.Lock()
	if err != nil {
		c.logger.Warn("load failed", "user_id", c.userID, "err", err)
		c.setNoticeLocked(LoadFailed)
	} else {
		c.items = dedupe(items)
		// a create still in flight keeps its placeholder
		if ph := c.placeholder; ph != nil && c.indexLocked(ph.ID) < 0 {
			c.items = append(c.items, *ph)
		}
	}
	c.loading = false
	c.mu.Unlock()
	c.notify()
}

// CreateResult reports how a submission settled. The caller clears its
// input only when OK is set.
type CreateResult struct {
	Item model.Item
	OK   bool
}

// Create validates title, appends a placeholder immediately and swaps it
// for the server's item once the create call returns. On failure the
// placeholder is removed again.
func (c *Controller) Create(ctx context.Context, title string) CreateResult {
	trimmed := strings.TrimSpace(title)

	c.mu.Lock()
	c.clearNoticeLocked()
	if trimmed == "" {
		c.setNoticeLocked(ValidationEmpty)
		c.mu.Unlock()
		c.notify()
		return CreateResult{}
	}
	ph := model.Item{
		ID:     c.placeholderIDLocked(),
		UserID: c.userID,
		Title:  trimmed,
	}
	c.items = append(c.items, ph)
	c.placeholder = &ph
	c.submitting = true
	c.mu.Unlock()
	c.notify()

	created, err := c.store.Create(ctx, model.Draft{
		UserID:    ph.UserID,
		Title:     ph.Title,
		Completed: ph.Completed,
	})

	c.mu.Lock()
	defer c.notify()
	defer c.mu.Unlock()

	if c.placeholder != nil && c.placeholder.ID == ph.ID {
		c.placeholder = nil
		c.submitting = false
	}
	if err != nil {
		c.logger.Warn("create failed", "title", trimmed, "err", err)
		c.removeLocked(ph.ID)
		c.setNoticeLocked(CreateFailed)
		return CreateResult{}
	}
	switch {
	case c.indexLocked(ph.ID) >= 0:
		c.replaceLocked(ph.ID, created)
	case c.indexLocked(created.ID) < 0:
		c.items = append(c.items, created)
	}
	return CreateResult{Item: created, OK: true}
}

// Delete removes one item once the server confirms. It reports false when
// the item is unknown, is still a placeholder, or the call failed.
func (c *Controller) Delete(ctx context.Context, id int) bool {
	c.mu.Lock()
	if c.indexLocked(id) < 0 || c.isPlaceholderLocked(id) {
		c.mu.Unlock()
		return false
	}
	c.pending[id]++
	c.mu.Unlock()
	c.notify()

	err := c.store.Delete(ctx, id)

	c.mu.Lock()
	if err != nil {
		c.logger.Warn("delete failed", "id", id, "err", err)
		c.setNoticeLocked(DeleteFailed)
	} else {
		c.removeLocked(id)
	}
	c.unmarkLocked(id)
	c.mu.Unlock()
	c.notify()
	return err == nil
}

// ClearCompleted deletes every currently completed item. Each deletion goes
// through Delete, so each failure is surfaced on its own and none aborts the
// rest.
func (c *Controller) ClearCompleted(ctx context.Context) {
	c.mu.Lock()
	var ids []int
	for _, it := range c.items {
		if it.Completed && !c.isPlaceholderLocked(it.ID) {
			ids = append(ids, it.ID)
		}
	}
	c.mu.Unlock()

	runBulk(ctx, ids, c.deleteLimit, func(ctx context.Context, id int) {
		c.Delete(ctx, id)
	})
}

// Toggle flips the completion flag of one item.
func (c *Controller) Toggle(ctx context.Context, id int) bool {
	c.mu.Lock()
	i := c.indexLocked(id)
	if i < 0 || c.isPlaceholderLocked(id) {
		c.mu.Unlock()
		return false
	}
	target := !c.items[i].Completed
	c.mu.Unlock()

	return c.patch(ctx, id, model.CompletedPatch(target))
}

// ToggleAll marks everything completed, or everything active when all items
// already are completed. Items already at the target generate no call; the
// rest are patched concurrently and each result lands independently.
func (c *Controller) ToggleAll(ctx context.Context) {
	c.mu.Lock()
	target := !c.allCompletedLocked()
	var ids []int
	for _, it := range c.items {
		if it.Completed != target && !c.isPlaceholderLocked(it.ID) {
			ids = append(ids, it.ID)
		}
	}
	c.mu.Unlock()

	runBulk(ctx, ids, c.updateLimit, func(ctx context.Context, id int) {
		c.patch(ctx, id, model.CompletedPatch(target))
	})
}

// RenameResult tells the renderer whether to leave edit mode.
type RenameResult int

const (
	// RenameUnchanged: the trimmed title equals the current one (or the item
	// is gone). No call was made.
	RenameUnchanged RenameResult = iota
	// RenameSaved: the server accepted the new title.
	RenameSaved
	// RenameDeleted: the title was empty and the item was deleted.
	RenameDeleted
	// RenameFailed: the call failed; stay in edit mode.
	RenameFailed
)

// ExitsEdit reports whether edit mode should end.
func (r RenameResult) ExitsEdit() bool { return r != RenameFailed }

func (r RenameResult) String() string {
	switch r {
	case RenameSaved:
		return "saved"
	case RenameDeleted:
		return "deleted"
	case RenameFailed:
		return "failed"
	}
	return "unchanged"
}

// Rename sets a new title. An empty title deletes the item. The local title
// only changes once the server confirms.
func (c *Controller) Rename(ctx context.Context, id int, title string) RenameResult {
	trimmed := strings.TrimSpace(title)

	c.mu.Lock()
	i := c.indexLocked(id)
	if i < 0 || c.isPlaceholderLocked(id) {
		c.mu.Unlock()
		return RenameUnchanged
	}
	current := c.items[i].Title
	c.mu.Unlock()

	switch {
	case trimmed == current:
		return RenameUnchanged
	case trimmed == "":
		if c.Delete(ctx, id) {
			return RenameDeleted
		}
		return RenameFailed
	}
	if c.patch(ctx, id, model.TitlePatch(trimmed)) {
		return RenameSaved
	}
	return RenameFailed
}

// patch marks id pending, sends p and replaces the item with the server's copy.
func (c *Controller) patch(ctx context.Context, id int, p model.Patch) bool {
	c.mu.Lock()
	c.pending[id]++
	c.mu.Unlock()
	c.notify()

	updated, err := c.store.Update(ctx, id, p)

	c.mu.Lock()
	if err != nil {
		c.logger.Warn("update failed", "id", id, "err", err)
		c.setNoticeLocked(UpdateFailed)
	} else {
		c.replaceLocked(id, updated)
	}
	c.unmarkLocked(id)
	c.mu.Unlock()
	c.notify()
	return err == nil
}

// SetFilter changes the visible subset.
func (c *Controller) SetFilter(f model.Filter) {
	c.mu.Lock()
	c.filter = f
	c.mu.Unlock()
	c.notify()
}

// DismissNotice clears the banner and cancels its timer.
func (c *Controller) DismissNotice() {
	c.mu.Lock()
	c.clearNoticeLocked()
	c.mu.Unlock()
	c.notify()
}

// ---------------------------------------------------
// Notice lifecycle
// ---------------------------------------------------

func (c *Controller) setNoticeLocked(k Kind) {
	c.stopNoticeTimerLocked()
	n := newNotice(k)
	c.notice = &n
	c.noticeSeq++
	seq := c.noticeSeq
	c.noticeTimer = c.clock.AfterFunc(c.errorTimeout, func() { c.expireNotice(seq) })
}

func (c *Controller) expireNotice(seq uint64) {
	c.mu.Lock()
	if c.noticeSeq != seq || c.notice == nil {
		c.mu.Unlock()
		return
	}
	c.notice = nil
	c.noticeTimer = nil
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) clearNoticeLocked() {
	c.stopNoticeTimerLocked()
	c.notice = nil
	c.noticeSeq++
}

func (c *Controller) stopNoticeTimerLocked() {
	if c.noticeTimer != nil {
		c.noticeTimer.Stop()
		c.noticeTimer = nil
	}
}

// ---------------------------------------------------
// List helpers (callers hold mu)
// ---------------------------------------------------

func (c *Controller) indexLocked(id int) int {
	for i, it := range c.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (c *Controller) isPlaceholderLocked(id int) bool {
	return c.placeholder != nil && c.placeholder.ID == id
}

// placeholderIDLocked derives a client id from the clock, stepping past any
// id already in the list.
func (c *Controller) placeholderIDLocked() int {
	id := int(c.clock.Now().UnixMilli())
	for c.indexLocked(id) >= 0 {
		id++
	}
	return id
}

func (c *Controller) removeLocked(id int) {
	out := c.items[:0]
	for _, it := range c.items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	c.items = out
}

// replaceLocked swaps the item with id for it, keeping its position, and
// drops any other entry already carrying it.ID. Nothing happens if id is
// no longer in the list.
func (c *Controller) replaceLocked(id int, it model.Item) {
	i := c.indexLocked(id)
	if i < 0 {
		return
	}
	out := make([]model.Item, 0, len(c.items))
	for j, cur := range c.items {
		switch {
		case j == i:
			out = append(out, it)
		case cur.ID == it.ID:
		default:
			out = append(out, cur)
		}
	}
	c.items = out
}

func (c *Controller) unmarkLocked(id int) {
	if c.pending[id] <= 1 {
		delete(c.pending, id)
		return
	}
	c.pending[id]--
}

func (c *Controller) allCompletedLocked() bool {
	for _, it := range c.items {
		if !it.Completed {
			return false
		}
	}
	return true
}

// dedupe keeps the first occurrence of each id.
func dedupe(items []model.Item) []model.Item {
	seen := make(map[int]bool, len(items))
	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		out = append(out, it)
	}
	return out
}
