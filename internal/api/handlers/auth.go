package handlers

import (
	"errors"
	"net/http"

	"github.com/rohits-web03/recipeshare/internal/api/services"
	"github.com/rohits-web03/recipeshare/internal/utils"
)

const msgBadLogin = "Login unsuccessful. Please check email and password."

// GET, POST /register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.render(w, r, http.StatusOK, pageRegister, &PageData{Title: "Register"})
		return
	}

	in := services.RegisterInput{
		Username:        r.PostFormValue("username"),
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	}
	if _, err := h.accounts.Register(r.Context(), in); err != nil {
		if h.fail(w, r, err) {
			return
		}
		h.render(w, r, http.StatusUnprocessableEntity, pageRegister, &PageData{
			Title:  "Register",
			Form:   map[string]string{"username": in.Username, "email": in.Email},
			Errors: fieldErrors(err),
		})
		return
	}

	utils.SetFlash(w, "success", "Your account has been created! You are now able to log in.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// GET, POST /login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	next := utils.LocalRedirect(r.URL.Query().Get("next"), "")
	data := &PageData{Title: "Login", Next: next}

	if r.Method != http.MethodPost {
		h.render(w, r, http.StatusOK, pageLogin, data)
		return
	}

	in := services.LoginInput{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		Remember: r.PostFormValue("remember_me") != "",
	}
	data.Form = map[string]string{"email": in.Email}

	user, err := h.accounts.Authenticate(r.Context(), in)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrInvalidCredentials):
		data.Message = msgBadLogin
		h.render(w, r, http.StatusUnauthorized, pageLogin, data)
		return
	default:
		if h.fail(w, r, err) {
			return
		}
		data.Errors = fieldErrors(err)
		h.render(w, r, http.StatusUnprocessableEntity, pageLogin, data)
		return
	}

	if err := h.sessions.Login(r.Context(), w, user.ID, in.Remember); err != nil {
		h.serverError(w, r, err)
		return
	}
	h.log.Info(r.Context(), "user logged in", "user_id", user.ID, "remember", in.Remember)
	http.Redirect(w, r, utils.LocalRedirect(next, "/index"), http.StatusSeeOther)
}

// GET /logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout(w, r)
	http.Redirect(w, r, "/index", http.StatusSeeOther)
}

// GET, POST /reset_password_request
func (h *Handler) ResetRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.render(w, r, http.StatusOK, pageResetRequest, &PageData{Title: "Reset Password"})
		return
	}

	in := services.ResetRequestInput{Email: r.PostFormValue("email")}
	err := h.accounts.RequestPasswordReset(r.Context(), in, func(token string) string {
		return h.baseURL + "/reset_password/" + token
	})
	if err != nil {
		if h.fail(w, r, err) {
			return
		}
		h.render(w, r, http.StatusUnprocessableEntity, pageResetRequest, &PageData{
			Title:  "Reset Password",
			Form:   map[string]string{"email": in.Email},
			Errors: fieldErrors(err),
		})
		return
	}

	utils.SetFlash(w, "info", "An email has been sent with instructions to reset your password.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// GET, POST /reset_password/{token}
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	if r.Method != http.MethodPost {
		if _, err := h.accounts.CheckResetToken(r.Context(), token); err != nil {
			h.badResetToken(w, r, err)
			return
		}
		h.render(w, r, http.StatusOK, pageResetToken, &PageData{Title: "Reset Password"})
		return
	}

	in := services.ResetPasswordInput{
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	}
	if err := h.accounts.ResetPassword(r.Context(), token, in); err != nil {
		if _, ok := services.AsValidation(err); ok {
			h.render(w, r, http.StatusUnprocessableEntity, pageResetToken, &PageData{
				Title:  "Reset Password",
				Errors: fieldErrors(err),
			})
			return
		}
		h.badResetToken(w, r, err)
		return
	}

	utils.SetFlash(w, "success", "Your password has been updated! You are now able to log in.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) badResetToken(w http.ResponseWriter, r *http.Request, err error) {
	if !errors.Is(err, services.ErrInvalidToken) {
		h.serverError(w, r, err)
		return
	}
	utils.SetFlash(w, "warning", "That is an invalid or expired token.")
	http.Redirect(w, r, "/reset_password_request", http.StatusSeeOther)
}
