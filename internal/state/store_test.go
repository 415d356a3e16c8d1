package state

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todo/internal/clock"
	"github.com/idilsaglam/todo/internal/model"
)

var errBoom = errors.New("boom")

// fakeStore is an in-memory remote collection. Hooks run before the default
// behavior and may block or fail a call.
type fakeStore struct {
	mu     sync.Mutex
	server map[int]model.Item
	nextID int
	calls  []string

	failList   bool
	failCreate bool
	failDelete map[int]bool
	failUpdate map[int]bool

	beforeCreate func(model.Draft)
	beforeDelete func(int)
	beforeUpdate func(int, model.Patch)

	drafts  []model.Draft
	patches map[int][]model.Patch
}

func newFakeStore(items ...model.Item) *fakeStore {
	s := &fakeStore{
		server:     make(map[int]model.Item),
		nextID:     100,
		failDelete: make(map[int]bool),
		failUpdate: make(map[int]bool),
		patches:    make(map[int][]model.Patch),
	}
	for _, it := range items {
		s.server[it.ID] = it
	}
	return s
}

func (s *fakeStore) record(call string) {
	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.mu.Unlock()
}

func (s *fakeStore) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *fakeStore) List(ctx context.Context) ([]model.Item, error) {
	s.record("list")
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failList {
		return nil, errBoom
	}
	out := make([]model.Item, 0, len(s.server))
	for _, it := range s.server {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeStore) Create(ctx context.Context, d model.Draft) (model.Item, error) {
	s.record("create")
	if s.beforeCreate != nil {
		s.beforeCreate(d)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts = append(s.drafts, d)
	if s.failCreate {
		return model.Item{}, errBoom
	}
	it := model.Item{ID: s.nextID, UserID: d.UserID, Title: d.Title, Completed: d.Completed}
	s.nextID++
	s.server[it.ID] = it
	return it, nil
}

func (s *fakeStore) Delete(ctx context.Context, id int) error {
	s.record(fmt.Sprintf("delete %d", id))
	if s.beforeDelete != nil {
		s.beforeDelete(id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDelete[id] {
		return errBoom
	}
	delete(s.server, id)
	return nil
}

func (s *fakeStore) Update(ctx context.Context, id int, p model.Patch) (model.Item, error) {
	s.record(fmt.Sprintf("update %d", id))
	if s.beforeUpdate != nil {
		s.beforeUpdate(id, p)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patches[id] = append(s.patches[id], p)
	if s.failUpdate[id] {
		return model.Item{}, errBoom
	}
	it, ok := s.server[id]
	if !ok {
		return model.Item{}, errBoom
	}
	if p.Title != nil {
		it.Title = *p.Title
	}
	if p.Completed != nil {
		it.Completed = *p.Completed
	}
	s.server[id] = it
	return it, nil
}

var epoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// newLoaded builds a controller over store, loads it and returns both with
// the fake clock.
func newLoaded(t *testing.T, store *fakeStore) (*Controller, *clock.FakeClock) {
	t.Helper()
	clk := clock.Fake(epoch)
	c := New(store, Options{
		UserID: 1685,
		Clock:  clk,
		Logger: log.New(io.Discard),
	})
	c.Load(context.Background())
	if _, ok := c.Notice(); ok {
		t.Fatalf("unexpected notice after load")
	}
	return c, clk
}

func ids(items []model.Item) []int {
	out := make([]int, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func assertNotice(t *testing.T, c *Controller, want Kind) {
	t.Helper()
	n, ok := c.Notice()
	if !ok {
		t.Fatalf("expected notice %s, got none", want)
	}
	if n.Kind != want || n.Message != want.Message() {
		t.Fatalf("notice = %+v, want %s %q", n, want, want.Message())
	}
}
