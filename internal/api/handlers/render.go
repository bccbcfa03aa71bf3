package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/rohits-web03/recipeshare/internal/api/middleware"
	"github.com/rohits-web03/recipeshare/internal/api/services"
	"github.com/rohits-web03/recipeshare/internal/models"
	"github.com/rohits-web03/recipeshare/internal/repositories"
	"github.com/rohits-web03/recipeshare/internal/utils"
)

const (
	pageIndex        = "index.html"
	pageUserPosts    = "user_posts.html"
	pagePost         = "post.html"
	pageCreatePost   = "create_post.html"
	pageRegister     = "register.html"
	pageLogin        = "login.html"
	pageAccount      = "account.html"
	pageResetRequest = "reset_request.html"
	pageResetToken   = "reset_token.html"
	pageError        = "error.html"
)

var pageFiles = []string{
	pageIndex, pageUserPosts, pagePost, pageCreatePost, pageRegister,
	pageLogin, pageAccount, pageResetRequest, pageResetToken, pageError,
}

// PageData is what every template receives.
type PageData struct {
	Title         string
	Message       string
	CurrentUser   *models.User
	Flashes       []utils.Flash
	Form          map[string]string
	Errors        map[string]string
	Next          string
	GoogleEnabled bool

	Post  *models.Post
	User  *models.User
	Posts *repositories.Page[models.Post]
}

type pagerData struct {
	Page *repositories.Page[models.Post]
	Base string
}

// Renderer holds one parsed template set per page, each joined with the
// base layout.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer(files fs.FS, uploader *services.Uploader) (*Renderer, error) {
	funcs := template.FuncMap{
		"avatar": func(name string) string {
			return uploader.URL(services.CategoryProfile, name)
		},
		"postImage": func(name string) string {
			return uploader.URL(services.CategoryPost, name)
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("January 2, 2006")
		},
		"pager": func(p *repositories.Page[models.Post], base string) pagerData {
			return pagerData{Page: p, Base: base}
		},
	}

	r := &Renderer{pages: map[string]*template.Template{}}
	for _, page := range pageFiles {
		ts, err := template.New(page).Funcs(funcs).ParseFS(files, "templates/base.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		r.pages[page] = ts
	}
	return r, nil
}

// render writes the page with status once it has executed cleanly.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data *PageData) {
	ts, ok := h.pages.pages[page]
	if !ok {
		h.serverError(w, r, fmt.Errorf("unknown page %q", page))
		return
	}
	if data == nil {
		data = &PageData{}
	}
	if data.CurrentUser == nil {
		data.CurrentUser = middleware.CurrentUser(r.Context())
	}
	data.Flashes = utils.PopFlashes(w, r)
	data.GoogleEnabled = h.google.Enabled()

	buf := new(bytes.Buffer)
	if err := ts.ExecuteTemplate(buf, "base", data); err != nil {
		h.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
