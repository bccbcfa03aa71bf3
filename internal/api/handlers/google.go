package handlers

import (
	"errors"
	"net/http"

	"github.com/rohits-web03/recipeshare/internal/api/services"
	"github.com/rohits-web03/recipeshare/internal/utils"
)

const stateCookieName = "oauth_state"

// GET /auth/google/login
func (h *Handler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.google.Enabled() {
		h.notFound(w, r)
		return
	}

	state, err := GenerateState(map[string]string{
		"next": utils.LocalRedirect(r.URL.Query().Get("next"), "/index"),
	})
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/auth/google",
		MaxAge:   600,
		Secure:   h.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.google.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// GET /auth/google/callback
//
// Only existing accounts can sign in this way; registration stays the one
// path that creates users.
func (h *Handler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if !h.google.Enabled() {
		h.notFound(w, r)
		return
	}

	var expected string
	if c, err := r.Cookie(stateCookieName); err == nil {
		expected = c.Value
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookieName, Path: "/auth/google", MaxAge: -1})

	stateData, err := DecodeState(r.FormValue("state"), expected)
	if err != nil {
		h.clientError(w, r, http.StatusBadRequest, "Invalid OAuth state.")
		return
	}

	profile, err := h.google.Exchange(r.Context(), r.FormValue("code"))
	if err != nil {
		h.log.Warn(r.Context(), "google sign-in failed", "err", err)
		utils.SetFlash(w, "danger", "Google sign-in failed. Please try again.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	user, err := h.accounts.UserByEmail(r.Context(), profile.Email)
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.SetFlash(w, "info", "No account uses that Google address. Please register first.")
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	case err != nil:
		h.serverError(w, r, err)
		return
	}

	if err := h.sessions.Login(r.Context(), w, user.ID, false); err != nil {
		h.serverError(w, r, err)
		return
	}
	h.log.Info(r.Context(), "user logged in with google", "user_id", user.ID)
	http.Redirect(w, r, utils.LocalRedirect(stateData["next"], "/index"), http.StatusSeeOther)
}
