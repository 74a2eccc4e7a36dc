package feedsync

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"newsblur-sync/blursync/internal/api"
	"newsblur-sync/blursync/internal/database"
	"newsblur-sync/blursync/internal/models"
	"newsblur-sync/blursync/internal/store"
)

type call struct {
	Method string
	Path   string
	Params url.Values
	Token  string
}

// stubGateway answers every request with the same response or error.
type stubGateway struct {
	resp  *api.Response
	err   error
	calls []call
}

func (g *stubGateway) Get(_ context.Context, path string, params url.Values, token string) (*api.Response, error) {
	g.calls = append(g.calls, call{Method: http.MethodGet, Path: path, Params: params, Token: token})
	return g.resp, g.err
}

func (g *stubGateway) Post(_ context.Context, path string, params url.Values, token string) (*api.Response, error) {
	g.calls = append(g.calls, call{Method: http.MethodPost, Path: path, Params: params, Token: token})
	return g.resp, g.err
}

func ok(body string) *api.Response {
	return &api.Response{StatusCode: http.StatusOK, Body: []byte(body)}
}

func status(code int, body string) *api.Response {
	return &api.Response{StatusCode: code, Body: []byte(body)}
}

func redirect(body string) *api.Response {
	return &api.Response{StatusCode: http.StatusOK, Redirected: true, Body: []byte(body)}
}

var transportFault = &api.TransportError{Method: http.MethodGet, URL: "http://example.invalid", Err: errors.New("connection refused")}

var fixedNow = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := database.NewDB(database.NewConfig(filepath.Join(t.TempDir(), "cache.db")))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return store.New(db)
}

func newTestSyncer(t *testing.T, gw Gateway, st Store) *Syncer {
	t.Helper()
	s := New(gw, api.NewDecoder(), st, zerolog.Nop())
	s.now = func() time.Time { return fixedNow }
	return s
}

// failingStore fails the named write after letting the first `after` calls through.
type failingStore struct {
	*store.Store
	failOn string
	after  int
	seen   int
}

var errDiskFull = errors.New("disk full")

func (f *failingStore) trip(op string) error {
	if op != f.failOn {
		return nil
	}
	f.seen++
	if f.seen > f.after {
		return errDiskFull
	}
	return nil
}

func (f *failingStore) UpsertStory(ctx context.Context, story models.Story) error {
	if err := f.trip("story"); err != nil {
		return err
	}
	return f.Store.UpsertStory(ctx, story)
}

func (f *failingStore) UpsertComment(ctx context.Context, comment models.Comment) error {
	if err := f.trip("comment"); err != nil {
		return err
	}
	return f.Store.UpsertComment(ctx, comment)
}

func (f *failingStore) SaveSession(ctx context.Context, session models.Session) error {
	if err := f.trip("session"); err != nil {
		return err
	}
	return f.Store.SaveSession(ctx, session)
}

func countRows(t *testing.T, st *store.Store, feedID int64) (stories, comments int) {
	t.Helper()
	ctx := context.Background()
	rows, err := st.StoriesForFeed(ctx, feedID)
	require.NoError(t, err)
	for _, story := range rows {
		c, err := st.CommentsForStory(ctx, story.ID)
		require.NoError(t, err)
		comments += len(c)
	}
	return len(rows), comments
}
