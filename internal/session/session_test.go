package session_test

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/mind-engage/railquiz/internal/db"
	"github.com/mind-engage/railquiz/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseBackend runs the behaviour every Backend must share.
func exerciseBackend(t *testing.T, b session.Backend) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := b.Get(ctx, "s1", "correct_answer")
	require.NoError(t, err)
	assert.False(t, ok, "empty session has no value")

	require.NoError(t, b.Set(ctx, "s1", "correct_answer", "1435 mm", time.Hour))
	v, ok, err := b.Get(ctx, "s1", "correct_answer")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1435 mm", v)

	require.NoError(t, b.Set(ctx, "s1", "correct_answer", "1067 mm", time.Hour))
	v, _, err = b.Get(ctx, "s1", "correct_answer")
	require.NoError(t, err)
	assert.Equal(t, "1067 mm", v, "set overwrites")

	_, ok, err = b.Get(ctx, "s2", "correct_answer")
	require.NoError(t, err)
	assert.False(t, ok, "sessions are isolated")
}

func TestMemoryBackend(t *testing.T) {
	exerciseBackend(t, session.NewMemoryBackend())
}

func TestMemoryBackendExpiry(t *testing.T) {
	b := session.NewMemoryBackend()
	ctx := context.Background()
	require.NoError(t, b.Set(ctx, "s", "k", "v", time.Nanosecond))
	time.Sleep(5 * time.Millisecond)
	_, ok, err := b.Get(ctx, "s", "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func openSQLite(t *testing.T) (*session.SQLBackend, *sql.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	require.NoError(t, err)
	b := session.NewSQLBackend(dbh)
	t.Cleanup(func() { _ = b.Close() })
	return b, dbh
}

func TestSQLBackend(t *testing.T) {
	b, _ := openSQLite(t)
	exerciseBackend(t, b)
}

func TestSQLBackendExpiryAndPurge(t *testing.T) {
	b, dbh := openSQLite(t)
	ctx := context.Background()
	_, err := dbh.ExecContext(ctx,
		`INSERT INTO session_values (session_id, key, value, expires_at) VALUES ('old','k','v',1)`)
	require.NoError(t, err)
	require.NoError(t, b.Set(ctx, "live", "k", "v", time.Hour))
	require.NoError(t, b.Set(ctx, "forever", "k", "v", 0))

	_, ok, err := b.Get(ctx, "old", "k")
	require.NoError(t, err)
	assert.False(t, ok, "expired row is invisible")

	n, err := b.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	for _, sid := range []string{"live", "forever"} {
		_, ok, err := b.Get(ctx, sid, "k")
		require.NoError(t, err)
		assert.True(t, ok, sid)
	}
}

func TestRedisBackend(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	b, err := session.NewRedisBackend(context.Background(), addr, "", 0)
	require.NoError(t, err)
	defer b.Close()
	exerciseBackend(t, b)
}

func newManager(t *testing.T, secret []byte) *session.Manager {
	t.Helper()
	m, err := session.NewManager(secret, session.NewMemoryBackend(), session.Options{TTL: time.Hour})
	require.NoError(t, err)
	return m
}

func sidHandler(m *session.Manager) http.Handler {
	return m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(session.IDFromContext(r.Context())))
	}))
}

func TestMiddlewareIssuesAndReusesCookie(t *testing.T) {
	secret, err := session.NewSecret()
	require.NoError(t, err)
	h := sidHandler(newManager(t, secret))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	res := rec.Result()
	require.Len(t, res.Cookies(), 1)
	c := res.Cookies()[0]
	assert.Equal(t, session.CookieName, c.Name)
	assert.True(t, c.HttpOnly)
	first := rec.Body.String()
	assert.NotEmpty(t, first)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, first, rec.Body.String())
	assert.Empty(t, rec.Result().Cookies(), "valid cookie is not reissued")
}

func TestMiddlewareRejectsForeignCookie(t *testing.T) {
	s1, _ := session.NewSecret()
	s2, _ := session.NewSecret()

	rec := httptest.NewRecorder()
	sidHandler(newManager(t, s1)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	old := rec.Result().Cookies()[0]

	// a restarted process has a new secret
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(old)
	rec2 := httptest.NewRecorder()
	sidHandler(newManager(t, s2)).ServeHTTP(rec2, req)
	assert.NotEqual(t, rec.Body.String(), rec2.Body.String())
	assert.Len(t, rec2.Result().Cookies(), 1)
}

func TestStateForWithoutMiddleware(t *testing.T) {
	s, _ := session.NewSecret()
	_, err := newManager(t, s).StateFor(context.Background())
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestStateForBindsSession(t *testing.T) {
	s, _ := session.NewSecret()
	m := newManager(t, s)
	ctx := context.Background()

	a, err := m.StateFor(session.WithID(ctx, "a"))
	require.NoError(t, err)
	b, err := m.StateFor(session.WithID(ctx, "b"))
	require.NoError(t, err)

	require.NoError(t, a.Set(ctx, "correct_answer", "x"))
	_, ok, err := b.Get(ctx, "correct_answer")
	require.NoError(t, err)
	assert.False(t, ok)
	v, ok, err := a.Get(ctx, "correct_answer")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x", v)
}

func TestNewManagerShortSecret(t *testing.T) {
	_, err := session.NewManager([]byte(strconv.Itoa(42)), session.NewMemoryBackend(), session.Options{})
	assert.Error(t, err)
}

func TestIDFromContext(t *testing.T) {
	assert.Empty(t, session.IDFromContext(context.Background()))
	assert.Equal(t, "abc", session.IDFromContext(session.WithID(context.Background(), "abc")))
}
