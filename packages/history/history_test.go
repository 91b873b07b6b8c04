package history

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ahttp "github.com/Muradian-OSP/Ababil-Studio/packages/http"
	"github.com/Muradian-OSP/Ababil-Studio/packages/postman"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpen_SQLiteURL(t *testing.T) {
	store, err := Open("sqlite://" + filepath.Join(t.TempDir(), "h.db"))
	require.NoError(t, err)
	defer store.Close()

	entries, err := store.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_RecordListGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"first", "second", "third"} {
		e := &Entry{
			Name:       name,
			Method:     "GET",
			URL:        "http://example.com/" + name,
			StatusCode: 200,
			DurationMs: int64(i),
			Request:    `{}`,
			Response:   `{}`,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, store.Record(ctx, e))
		assert.NotEmpty(t, e.ID)
	}

	entries, err := store.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "third", entries[0].Name)
	assert.Equal(t, "second", entries[1].Name)
	assert.True(t, entries[0].CreatedAt.Equal(base.Add(2*time.Minute)))

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	got, err := store.Get(ctx, entries[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/second", got.URL)

	byPrefix, err := store.Get(ctx, entries[1].ID[:8])
	require.NoError(t, err)
	assert.Equal(t, entries[1].ID, byPrefix.ID)

	_, err = store.Get(ctx, "does-not-exist")
	assert.True(t, errors.Is(err, ErrNotFound))

	n, err := store.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	all, err = store.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestNewEntry_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("queued"))
	}))
	defer server.Close()

	req := &postman.Request{
		Method: postman.String("post"),
		URL:    &postman.URL{Raw: postman.String(server.URL + "/jobs")},
	}
	resp, err := ahttp.NewClient().Execute(context.Background(), req)
	require.NoError(t, err)

	e := NewEntry("create job", req, resp, nil)
	assert.Equal(t, "POST", e.Method)
	assert.Equal(t, server.URL+"/jobs", e.URL)
	assert.Equal(t, 202, e.StatusCode)
	assert.Empty(t, e.Error)
	assert.JSONEq(t, `{"method":"post","url":{"raw":"`+server.URL+`/jobs"}}`, e.Request)

	doc, err := e.ResponseDocument()
	require.NoError(t, err)
	assert.Equal(t, "queued", doc.Body)

	store := openTestStore(t)
	require.NoError(t, store.Record(context.Background(), e))
	stored, err := store.Get(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.Response, stored.Response)
}

func TestNewEntry_Failure(t *testing.T) {
	req := &postman.Request{
		Method: postman.String("TRACE"),
		URL:    &postman.URL{Host: []string{"example", "com"}},
	}
	_, err := ahttp.NewClient().Execute(context.Background(), req)
	require.Error(t, err)

	e := NewEntry("", req, nil, err)
	assert.Equal(t, "TRACE", e.Method)
	assert.Equal(t, "http://example.com", e.URL)
	assert.Equal(t, 0, e.StatusCode)
	assert.Contains(t, e.Error, "unsupported HTTP method")

	doc, derr := e.ResponseDocument()
	require.NoError(t, derr)
	assert.True(t, doc.IsError())
	assert.Equal(t, "Error: "+err.Error(), doc.Body)
}
