package handlers

import (
	"net/http"
	"strconv"

	"github.com/rohits-web03/recipeshare/internal/api/middleware"
	"github.com/rohits-web03/recipeshare/internal/api/services"
	"github.com/rohits-web03/recipeshare/internal/models"
	"github.com/rohits-web03/recipeshare/internal/utils"
)

// GET /, /index
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.Feed(r.Context(), pageParam(r))
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, pageIndex, &PageData{Title: "Home", Posts: posts})
}

// GET /user/{username}
func (h *Handler) UserPosts(w http.ResponseWriter, r *http.Request) {
	user, posts, err := h.posts.UserFeed(r.Context(), r.PathValue("username"), pageParam(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, pageUserPosts, &PageData{Title: user.Username, User: user, Posts: posts})
}

// GET, POST /post
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	data := &PageData{Title: "New Post"}
	if r.Method != http.MethodPost {
		h.render(w, r, http.StatusOK, pageCreatePost, data)
		return
	}

	image, file, err := parseUpload(w, r, "picture")
	if err != nil {
		h.clientError(w, r, http.StatusBadRequest, "Could not read the submitted form.")
		return
	}
	if file != nil {
		defer file.Close()
	}

	in := services.PostInput{
		Title:            r.PostFormValue("title"),
		TimeLabel:        r.PostFormValue("time"),
		TemperatureLabel: r.PostFormValue("temp"),
		Body:             r.PostFormValue("content"),
	}
	if _, err := h.posts.Create(r.Context(), middleware.CurrentUser(r.Context()), in, image); err != nil {
		if h.fail(w, r, err) {
			return
		}
		data.Form = postForm(in)
		data.Errors = fieldErrors(err)
		h.render(w, r, http.StatusUnprocessableEntity, pageCreatePost, data)
		return
	}

	utils.SetFlash(w, "success", "Your post has been created!")
	http.Redirect(w, r, "/index", http.StatusSeeOther)
}

// GET /post/{id}
func (h *Handler) ViewPost(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	post, err := h.posts.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, pagePost, &PageData{Title: post.Title, Post: post})
}

// GET, POST /post/{id}/update
//
// Anonymous requests are refused with 403 like any other non-author.
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	actor := middleware.CurrentUser(r.Context())

	if r.Method != http.MethodPost {
		post, err := h.posts.ForEdit(r.Context(), actor, id)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		h.render(w, r, http.StatusOK, pageCreatePost, &PageData{
			Title: "Update Post",
			Post:  post,
			Form:  map[string]string{"title": post.Title, "content": post.Body},
		})
		return
	}

	in := services.PostEditInput{
		Title: r.PostFormValue("title"),
		Body:  r.PostFormValue("content"),
	}
	post, err := h.posts.Update(r.Context(), actor, id, in)
	if err != nil {
		if h.fail(w, r, err) {
			return
		}
		h.render(w, r, http.StatusUnprocessableEntity, pageCreatePost, &PageData{
			Title:  "Update Post",
			Post:   post,
			Form:   map[string]string{"title": in.Title, "content": in.Body},
			Errors: fieldErrors(err),
		})
		return
	}

	utils.SetFlash(w, "success", "Your post has been updated!")
	http.Redirect(w, r, "/post/"+strconv.FormatUint(uint64(post.ID), 10), http.StatusSeeOther)
}

// POST /post/{id}/delete
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	if err := h.posts.Delete(r.Context(), middleware.CurrentUser(r.Context()), id); err != nil {
		h.fail(w, r, err)
		return
	}

	utils.SetFlash(w, "success", "Your post has been deleted!")
	http.Redirect(w, r, "/index", http.StatusSeeOther)
}

func postForm(in services.PostInput) map[string]string {
	return map[string]string{
		"title":   in.Title,
		"time":    in.TimeLabel,
		"temp":    in.TemperatureLabel,
		"content": in.Body,
	}
}

// GET, POST /account
func (h *Handler) Account(w http.ResponseWriter, r *http.Request) {
	actor := middleware.CurrentUser(r.Context())
	data := &PageData{Title: "Account", Form: accountForm(actor)}

	if r.Method != http.MethodPost {
		h.render(w, r, http.StatusOK, pageAccount, data)
		return
	}

	avatar, file, err := parseUpload(w, r, "picture")
	if err != nil {
		h.clientError(w, r, http.StatusBadRequest, "Could not read the submitted form.")
		return
	}
	if file != nil {
		defer file.Close()
	}

	in := services.AccountInput{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		AboutMe:  r.PostFormValue("about_me"),
	}
	if _, err := h.accounts.UpdateAccount(r.Context(), actor, in, avatar); err != nil {
		if h.fail(w, r, err) {
			return
		}
		data.Form = map[string]string{"username": in.Username, "email": in.Email, "about_me": in.AboutMe}
		data.Errors = fieldErrors(err)
		h.render(w, r, http.StatusUnprocessableEntity, pageAccount, data)
		return
	}

	utils.SetFlash(w, "success", "Your account has been updated!")
	http.Redirect(w, r, "/account", http.StatusSeeOther)
}

func accountForm(u *models.User) map[string]string {
	if u == nil {
		return nil
	}
	return map[string]string{"username": u.Username, "email": u.Email, "about_me": u.AboutMe}
}
