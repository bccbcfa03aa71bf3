package handlers

import (
	"net/http"
	"time"

	"github.com/rohits-web03/recipeshare/internal/api/services"
	"github.com/rohits-web03/recipeshare/internal/models"
	"github.com/rohits-web03/recipeshare/internal/repositories"
	"github.com/rohits-web03/recipeshare/internal/utils"
)

type AuthorDTO struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl"`
}

type PostDTO struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Time        string    `json:"time"`
	Temperature string    `json:"temperature"`
	ImageURL    string    `json:"imageUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	Author      AuthorDTO `json:"author"`
}

type FeedDTO struct {
	Items   []PostDTO `json:"items"`
	Page    int       `json:"page"`
	Pages   int       `json:"pages"`
	Total   int64     `json:"total"`
	HasPrev bool      `json:"hasPrev"`
	HasNext bool      `json:"hasNext"`
}

// ListPosts godoc
// @Summary      Global recipe feed
// @Description  Posts newest first, one page at a time.
// @Tags         posts
// @Produce      json
// @Param        page  query     int  false  "Page number (default 1)"
// @Success      200   {object}  utils.Payload{data=FeedDTO}
// @Router       /posts [get]
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.Feed(r.Context(), pageParam(r))
	if err != nil {
		h.log.Error(r.Context(), "list posts failed", "err", err)
		utils.JSONError(w, http.StatusInternalServerError, "Database query failed")
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{Success: true, Message: "ok", Data: h.feedDTO(posts)})
}

// ListUserPosts godoc
// @Summary      Recipes by one user
// @Tags         posts
// @Produce      json
// @Param        username  path      string  true   "Username"
// @Param        page      query     int     false  "Page number (default 1)"
// @Success      200       {object}  utils.Payload{data=FeedDTO}
// @Failure      404       {object}  utils.Payload
// @Router       /users/{username}/posts [get]
func (h *Handler) ListUserPosts(w http.ResponseWriter, r *http.Request) {
	_, posts, err := h.posts.UserFeed(r.Context(), r.PathValue("username"), pageParam(r))
	switch err {
	case nil:
	case services.ErrNotFound:
		utils.JSONError(w, http.StatusNotFound, "User not found")
		return
	default:
		h.log.Error(r.Context(), "list user posts failed", "err", err)
		utils.JSONError(w, http.StatusInternalServerError, "Database query failed")
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{Success: true, Message: "ok", Data: h.feedDTO(posts)})
}

// GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (h *Handler) feedDTO(p *repositories.Page[models.Post]) FeedDTO {
	items := make([]PostDTO, 0, len(p.Items))
	for _, post := range p.Items {
		items = append(items, PostDTO{
			ID:          post.ID,
			Title:       post.Title,
			Body:        post.Body,
			Time:        post.TimeLabel,
			Temperature: post.TemperatureLabel,
			ImageURL:    h.uploader.URL(services.CategoryPost, post.ImageFile),
			CreatedAt:   post.CreatedAt,
			Author: AuthorDTO{
				Username:  post.Author.Username,
				AvatarURL: h.uploader.URL(services.CategoryProfile, post.Author.ImageFile),
			},
		})
	}
	return FeedDTO{
		Items:   items,
		Page:    p.Number,
		Pages:   p.Pages(),
		Total:   p.Total,
		HasPrev: p.HasPrev(),
		HasNext: p.HasNext(),
	}
}
