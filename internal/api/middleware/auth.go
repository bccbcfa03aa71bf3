package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/rohits-web03/recipeshare/internal/logging"
	"github.com/rohits-web03/recipeshare/internal/models"
	"github.com/rohits-web03/recipeshare/internal/repositories"
	"github.com/rohits-web03/recipeshare/internal/utils"
)

type contextKey string

const userKey contextKey = "user"

const SessionCookieName = "session"

// UserLoader resolves the user behind a session.
type UserLoader interface {
	UserByID(ctx context.Context, id uint) (*models.User, error)
}

// WithUser returns ctx carrying u as the acting user.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// CurrentUser is the signed-in user, or nil for anonymous requests.
func CurrentUser(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}

type SessionOptions struct {
	// TTL bounds a session that is not remembered.
	TTL time.Duration
	// RememberTTL is the lifetime of the cookie and session for "remember me".
	RememberTTL time.Duration
	Secure      bool
}

// Sessions manages the session cookie and the store behind it.
type Sessions struct {
	store repositories.SessionStore
	users UserLoader
	log   logging.Logger
	opts  SessionOptions
}

func NewSessions(store repositories.SessionStore, users UserLoader, log logging.Logger, opts SessionOptions) *Sessions {
	return &Sessions{store: store, users: users, log: log, opts: opts}
}

// LoadUser resolves the session cookie once per request. Unknown or expired
// sessions are treated as anonymous and the cookie is dropped.
func (s *Sessions) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		userID, err := s.store.Get(ctx, cookie.Value)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				s.clearCookie(w)
			} else {
				s.log.Error(ctx, "failed to load session", "err", err)
			}
			next.ServeHTTP(w, r)
			return
		}

		user, err := s.users.UserByID(ctx, userID)
		if err != nil {
			s.log.Warn(ctx, "session user not loaded", "user_id", userID, "err", err)
			s.clearCookie(w)
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(ctx, user)))
	})
}

// Login starts a session for userID. A remembered session outlives the
// browser; otherwise the cookie lasts until the browser closes.
func (s *Sessions) Login(ctx context.Context, w http.ResponseWriter, userID uint, remember bool) error {
	ttl := s.opts.TTL
	if remember {
		ttl = s.opts.RememberTTL
	}
	id, err := s.store.Create(ctx, userID, ttl)
	if err != nil {
		return err
	}

	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    id,
		Path:     "/",
		Secure:   s.opts.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if remember {
		cookie.MaxAge = int(s.opts.RememberTTL.Seconds())
	}
	http.SetCookie(w, cookie)
	return nil
}

// Logout ends the current session, if any.
func (s *Sessions) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if err := s.store.Delete(r.Context(), cookie.Value); err != nil {
			s.log.Warn(r.Context(), "failed to delete session", "err", err)
		}
	}
	s.clearCookie(w)
}

func (s *Sessions) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   s.opts.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// RequireAuth sends anonymous users to the login page, remembering where
// they were going.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		if CurrentUser(r.Context()) == nil {
			utils.SetFlash(w, "info", "Please log in to access this page.")
			http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

// RequireGuest keeps signed-in users away from login and registration pages.
func RequireGuest(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		if CurrentUser(r.Context()) != nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}
