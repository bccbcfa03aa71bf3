package middleware

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rohits-web03/recipeshare/internal/logging"
	"github.com/rohits-web03/recipeshare/internal/models"
	"github.com/rohits-web03/recipeshare/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSessions struct {
	byID map[string]uint
	ttls map[string]time.Duration
	err  error
}

func newMemSessions() *memSessions {
	return &memSessions{byID: map[string]uint{}, ttls: map[string]time.Duration{}}
}

func (m *memSessions) Create(_ context.Context, userID uint, ttl time.Duration) (string, error) {
	id := fmt.Sprintf("sid-%d", len(m.ttls)+1)
	m.byID[id] = userID
	m.ttls[id] = ttl
	return id, nil
}

func (m *memSessions) Get(_ context.Context, id string) (uint, error) {
	if m.err != nil {
		return 0, m.err
	}
	uid, ok := m.byID[id]
	if !ok {
		return 0, repositories.ErrNotFound
	}
	return uid, nil
}

func (m *memSessions) Delete(_ context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

type userMap map[uint]*models.User

func (u userMap) UserByID(_ context.Context, id uint) (*models.User, error) {
	if user, ok := u[id]; ok {
		return user, nil
	}
	return nil, errors.New("no such user")
}

func newTestSessions(store *memSessions) *Sessions {
	users := userMap{1: {ID: 1, Username: "alice"}}
	return NewSessions(store, users, logging.Discard(), SessionOptions{
		TTL:         time.Hour,
		RememberTTL: 30 * 24 * time.Hour,
	})
}

func whoAmI(w http.ResponseWriter, r *http.Request) {
	if u := CurrentUser(r.Context()); u != nil {
		_, _ = w.Write([]byte(u.Username))
		return
	}
	_, _ = w.Write([]byte("anonymous"))
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestSessions_LoginThenLoadUser(t *testing.T) {
	store := newMemSessions()
	s := newTestSessions(store)

	rec := httptest.NewRecorder()
	require.NoError(t, s.Login(context.Background(), rec, 1, false))
	cookie := cookieNamed(rec, SessionCookieName)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Zero(t, cookie.MaxAge)
	assert.Equal(t, time.Hour, store.ttls[cookie.Value])

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	s.LoadUser(http.HandlerFunc(whoAmI)).ServeHTTP(rec, req)
	assert.Equal(t, "alice", rec.Body.String())
}

func TestSessions_RememberSetsMaxAge(t *testing.T) {
	store := newMemSessions()
	s := newTestSessions(store)

	rec := httptest.NewRecorder()
	require.NoError(t, s.Login(context.Background(), rec, 1, true))
	cookie := cookieNamed(rec, SessionCookieName)
	require.NotNil(t, cookie)
	assert.Equal(t, 30*24*60*60, cookie.MaxAge)
	assert.Equal(t, 30*24*time.Hour, store.ttls[cookie.Value])
}

func TestSessions_UnknownSessionIsAnonymous(t *testing.T) {
	s := newTestSessions(newMemSessions())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "stale"})
	rec := httptest.NewRecorder()
	s.LoadUser(http.HandlerFunc(whoAmI)).ServeHTTP(rec, req)

	assert.Equal(t, "anonymous", rec.Body.String())
	cleared := cookieNamed(rec, SessionCookieName)
	require.NotNil(t, cleared)
	assert.Less(t, cleared.MaxAge, 0)
}

func TestSessions_StoreErrorKeepsCookie(t *testing.T) {
	store := newMemSessions()
	store.err = errors.New("redis down")
	s := newTestSessions(store)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sid"})
	rec := httptest.NewRecorder()
	s.LoadUser(http.HandlerFunc(whoAmI)).ServeHTTP(rec, req)

	assert.Equal(t, "anonymous", rec.Body.String())
	assert.Nil(t, cookieNamed(rec, SessionCookieName))
}

func TestSessions_Logout(t *testing.T) {
	store := newMemSessions()
	s := newTestSessions(store)
	rec := httptest.NewRecorder()
	require.NoError(t, s.Login(context.Background(), rec, 1, false))
	cookie := cookieNamed(rec, SessionCookieName)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(cookie)
	s.Logout(httptest.NewRecorder(), req)

	_, err := store.Get(context.Background(), cookie.Value)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestRequireAuth_RedirectsWithNext(t *testing.T) {
	h := RequireAuth(whoAmI)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/post/3/update", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?next=%2Fpost%2F3%2Fupdate", rec.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/account", nil)
	req = req.WithContext(WithUser(req.Context(), &models.User{Username: "alice"}))
	rec = httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", rec.Body.String())
}

func TestRequireGuest(t *testing.T) {
	h := RequireGuest(whoAmI)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req = req.WithContext(WithUser(req.Context(), &models.User{Username: "alice"}))
	rec := httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Equal(t, "anonymous", rec.Body.String())
}

func TestLogger_RecordsStatusAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	h := chimw.RequestID(Logger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/brew", nil))

	out := buf.String()
	assert.Contains(t, out, "status=418")
	assert.Contains(t, out, "path=/brew")
	assert.Regexp(t, `request_id=\S+`, out)
}
