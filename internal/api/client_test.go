package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todo/internal/model"
)

// testClient starts an httptest server for handler and returns a Client
// pointed at it. The server is closed when the test completes.
func testClient(t *testing.T, handler http.Handler, userID int, token string) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient(Config{
		BaseURL:    server.URL + "/",
		UserID:     userID,
		Token:      token,
		HTTPClient: server.Client(),
		Logger:     log.New(io.Discard),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestList(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /todos", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("userId"); got != "1685" {
			t.Errorf("userId = %q, want 1685", got)
		}
		if got := r.Header.Get("X-Request-Id"); got == "" {
			t.Errorf("missing X-Request-Id")
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]model.Item{
			{ID: 1, UserID: 1685, Title: "a"},
			{ID: 2, UserID: 1685, Title: "b", Completed: true},
		})
	})

	c := testClient(t, mux, 1685, "secret")
	items, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 || items[1].Title != "b" || !items[1].Completed {
		t.Fatalf("items = %+v", items)
	}
}

func TestListEmptyBodyIsEmptySlice(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /todos", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("null"))
	})
	c := testClient(t, mux, 1, "")
	items, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("items = %#v, want empty non-nil slice", items)
	}
}

func TestCreateSendsDraft(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /todos", func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json; charset=UTF-8" {
			t.Errorf("Content-Type = %q", ct)
		}
		var raw map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Errorf("decode: %v", err)
		}
		if _, ok := raw["id"]; ok {
			t.Errorf("draft must not carry an id: %v", raw)
		}
		if raw["title"] != "buy milk" || raw["completed"] != false || raw["userId"] != float64(7) {
			t.Errorf("body = %v", raw)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(model.Item{ID: 42, UserID: 7, Title: "buy milk"})
	})

	c := testClient(t, mux, 7, "")
	it, err := c.Create(context.Background(), model.Draft{UserID: 7, Title: "buy milk"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if it.ID != 42 {
		t.Fatalf("ID = %d, want 42", it.ID)
	}
}

func TestUpdateSendsOnlyPatchedFields(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /todos/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "3" {
			t.Errorf("id = %q", r.PathValue("id"))
		}
		var raw map[string]any
		json.NewDecoder(r.Body).Decode(&raw)
		if len(raw) != 1 || raw["completed"] != true {
			t.Errorf("body = %v, want only completed=true", raw)
		}
		json.NewEncoder(w).Encode(model.Item{ID: 3, Title: "c", Completed: true})
	})

	c := testClient(t, mux, 1, "")
	it, err := c.Update(context.Background(), 3, model.CompletedPatch(true))
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !it.Completed || it.Title != "c" {
		t.Fatalf("item = %+v", it)
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()

	var called atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /todos/{id}", func(w http.ResponseWriter, r *http.Request) {
		called.Store(r.PathValue("id") == "9")
		w.Write([]byte("1"))
	})
	c := testClient(t, mux, 1, "")
	if err := c.Delete(context.Background(), 9); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !called.Load() {
		t.Fatalf("handler not reached with id 9")
	}
}

func TestErrorsCarryFixedMessage(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
	})
	c := testClient(t, mux, 1, "")
	ctx := context.Background()

	_, err := c.List(ctx)
	assertOpError(t, err, ErrFetch)
	_, err = c.Create(ctx, model.Draft{Title: "x"})
	assertOpError(t, err, ErrCreate)
	assertOpError(t, c.Delete(ctx, 1), ErrDelete)
	_, err = c.Update(ctx, 1, model.TitlePatch("y"))
	assertOpError(t, err, ErrUpdate)

	var se *StatusError
	if !errors.As(err, &se) || se.Status != http.StatusInternalServerError {
		t.Fatalf("cause = %v, want *StatusError 500", errors.Unwrap(err))
	}
}

func TestTransportErrorIsWrapped(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	base := server.URL
	server.Close()

	c, err := NewClient(Config{BaseURL: base, Logger: log.New(io.Discard)})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = c.List(context.Background())
	assertOpError(t, err, ErrFetch)
}

func TestUndecodableBodyIsUpdateError(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /todos/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})
	c := testClient(t, mux, 1, "")
	_, err := c.Update(context.Background(), 1, model.TitlePatch("z"))
	assertOpError(t, err, ErrUpdate)
}

func TestNewClientRejectsBadScheme(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(Config{BaseURL: "ftp://example.com"}); err == nil {
		t.Fatalf("expected error for ftp scheme")
	}
	c, err := NewClient(Config{})
	if err != nil {
		t.Fatalf("NewClient with defaults: %v", err)
	}
	if c.baseURL != DefaultBaseURL {
		t.Fatalf("baseURL = %q", c.baseURL)
	}
}

func assertOpError(t *testing.T, err, op error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v, got nil", op)
	}
	if !errors.Is(err, op) {
		t.Fatalf("errors.Is(%v, %v) = false", err, op)
	}
	if err.Error() != op.Error() {
		t.Fatalf("message = %q, want %q", err.Error(), op.Error())
	}
}
