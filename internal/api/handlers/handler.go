package handlers

import (
	"errors"
	"io/fs"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/rohits-web03/recipeshare/internal/api/middleware"
	"github.com/rohits-web03/recipeshare/internal/api/services"
	"github.com/rohits-web03/recipeshare/internal/logging"
)

// Uploads larger than this are refused before parsing.
const maxUploadBytes = 16 << 20

type Deps struct {
	Accounts  *services.AccountService
	Posts     *services.PostService
	Uploader  *services.Uploader
	Sessions  *middleware.Sessions
	Google    *services.GoogleAuth
	Templates fs.FS
	Log       logging.Logger
	// BaseURL prefixes links sent out of band, such as reset emails.
	BaseURL string
	Secure  bool
}

// Handler serves every page and API route.
type Handler struct {
	accounts *services.AccountService
	posts    *services.PostService
	uploader *services.Uploader
	sessions *middleware.Sessions
	google   *services.GoogleAuth
	pages    *Renderer
	log      logging.Logger
	baseURL  string
	secure   bool
}

func New(d Deps) (*Handler, error) {
	pages, err := NewRenderer(d.Templates, d.Uploader)
	if err != nil {
		return nil, err
	}
	return &Handler{
		accounts: d.Accounts,
		posts:    d.Posts,
		uploader: d.Uploader,
		sessions: d.Sessions,
		google:   d.Google,
		pages:    pages,
		log:      d.Log,
		baseURL:  d.BaseURL,
		secure:   d.Secure,
	}, nil
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (h *Handler) clientError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.render(w, r, status, pageError, &PageData{Title: http.StatusText(status), Message: message})
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.clientError(w, r, http.StatusNotFound, "That page does not exist.")
}

func (h *Handler) forbidden(w http.ResponseWriter, r *http.Request) {
	h.clientError(w, r, http.StatusForbidden, "You do not have permission to do that.")
}

// fail maps a service error onto a response. It reports false when err is a
// validation error, which the caller renders with its own form.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) bool {
	switch {
	case errors.Is(err, services.ErrNotFound):
		h.notFound(w, r)
	case errors.Is(err, services.ErrForbidden):
		h.forbidden(w, r)
	case errors.Is(err, services.ErrUnauthenticated):
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	default:
		if _, ok := services.AsValidation(err); ok {
			return false
		}
		h.serverError(w, r, err)
	}
	return true
}

func fieldErrors(err error) map[string]string {
	if ve, ok := services.AsValidation(err); ok {
		return ve.Fields
	}
	return nil
}

// pageParam is the ?page= query value; anything missing or invalid is page 1.
func pageParam(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func idParam(r *http.Request) (uint, bool) {
	n, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// parseUpload reads a multipart form and returns the optional image under
// field. The caller closes the returned file.
func parseUpload(w http.ResponseWriter, r *http.Request, field string) (*services.Upload, multipart.File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, nil, err
	}

	file, header, err := r.FormFile(field)
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return nil, nil, nil
	case err != nil:
		return nil, nil, err
	}
	if header.Filename == "" {
		_ = file.Close()
		return nil, nil, nil
	}
	return &services.Upload{Filename: header.Filename, Content: file}, file, nil
}
