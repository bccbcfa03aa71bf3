package api

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/rohits-web03/recipeshare/docs"
	"github.com/rohits-web03/recipeshare/internal/api/handlers"
	"github.com/rohits-web03/recipeshare/internal/api/middleware"
	"github.com/rohits-web03/recipeshare/internal/logging"
)

type RouterConfig struct {
	Cors cors.Options
	// StaticDir is served at /static/ when images are stored on local disk.
	StaticDir string
}

func SetupRouter(h *handlers.Handler, sessions *middleware.Sessions, log logging.Logger, cfg RouterConfig) http.Handler {
	mainMux := http.NewServeMux()

	// ---------- PUBLIC ROUTES ----------
	mainMux.HandleFunc("GET /health", h.Health)
	mainMux.HandleFunc("GET /docs/", httpSwagger.WrapHandler)
	if cfg.StaticDir != "" {
		mainMux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))
	}

	mainMux.HandleFunc("GET /{$}", h.Index)
	mainMux.HandleFunc("GET /index", h.Index)
	mainMux.HandleFunc("GET /user/{username}", h.UserPosts)
	mainMux.HandleFunc("GET /post/{id}", h.ViewPost)
	mainMux.HandleFunc("GET /logout", h.Logout)

	// Ownership is checked by the handler, and anonymous callers get 403.
	mainMux.HandleFunc("GET /post/{id}/update", h.UpdatePost)
	mainMux.HandleFunc("POST /post/{id}/update", h.UpdatePost)
	mainMux.HandleFunc("POST /post/{id}/delete", h.DeletePost)

	// ---------- GUEST-ONLY ROUTES ----------
	for _, route := range []struct {
		path    string
		handler http.HandlerFunc
	}{
		{"/register", h.Register},
		{"/login", h.Login},
		{"/reset_password_request", h.ResetRequest},
		{"/reset_password/{token}", h.ResetPassword},
	} {
		mainMux.HandleFunc("GET "+route.path, middleware.RequireGuest(route.handler))
		mainMux.HandleFunc("POST "+route.path, middleware.RequireGuest(route.handler))
	}
	mainMux.HandleFunc("GET /auth/google/login", middleware.RequireGuest(h.GoogleLogin))
	mainMux.HandleFunc("GET /auth/google/callback", middleware.RequireGuest(h.GoogleCallback))

	// ---------- PROTECTED ROUTES ----------
	for _, route := range []struct {
		path    string
		handler http.HandlerFunc
	}{
		{"/account", h.Account},
		{"/post", h.CreatePost},
	} {
		mainMux.HandleFunc("GET "+route.path, middleware.RequireAuth(route.handler))
		mainMux.HandleFunc("POST "+route.path, middleware.RequireAuth(route.handler))
	}

	// ---------- JSON API ----------
	apiMux := http.NewServeMux()
	apiMux.HandleFunc("GET /posts", h.ListPosts)
	apiMux.HandleFunc("GET /users/{username}/posts", h.ListUserPosts)
	mainMux.Handle("/api/v1/", http.StripPrefix("/api/v1", cors.New(cfg.Cors).Handler(apiMux)))

	var handler http.Handler = mainMux
	handler = sessions.LoadUser(handler)
	handler = http.NewCrossOriginProtection().Handler(handler)
	handler = chimw.Recoverer(handler)
	handler = middleware.Logger(log)(handler)
	handler = chimw.RealIP(handler)
	handler = chimw.RequestID(handler)
	return handler
}
