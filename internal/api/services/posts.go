package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rohits-web03/recipeshare/internal/logging"
	"github.com/rohits-web03/recipeshare/internal/models"
	"github.com/rohits-web03/recipeshare/internal/repositories"
)

type PostInput struct {
	Title            string `form:"title" validate:"required,max=100"`
	TimeLabel        string `form:"time" validate:"required,max=64"`
	TemperatureLabel string `form:"temp" validate:"required,max=64"`
	Body             string `form:"content" validate:"required"`
}

// PostEditInput is what an author may revise after creation. Time,
// temperature and image are fixed once a post exists.
type PostEditInput struct {
	Title string `form:"title" validate:"required,max=100"`
	Body  string `form:"content" validate:"required"`
}

type PostService struct {
	posts    repositories.PostRepository
	users    repositories.UserRepository
	uploader *Uploader
	perPage  int
	log      logging.Logger
	now      func() time.Time
}

func NewPostService(posts repositories.PostRepository, users repositories.UserRepository, uploader *Uploader, perPage int, log logging.Logger) *PostService {
	return &PostService{
		posts:    posts,
		users:    users,
		uploader: uploader,
		perPage:  perPage,
		log:      log,
		now:      time.Now,
	}
}

func (s *PostService) PerPage() int { return s.perPage }

func (s *PostService) Create(ctx context.Context, actor *models.User, in PostInput, image *Upload) (*models.Post, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}

	ve := &ValidationError{}
	ve.Merge(check(in))
	ve.Merge(checkImage("picture", image))
	if !ve.Empty() {
		return nil, ve
	}

	post := &models.Post{
		Title:            in.Title,
		Body:             in.Body,
		TimeLabel:        in.TimeLabel,
		TemperatureLabel: in.TemperatureLabel,
		ImageFile:        models.DefaultImage,
		CreatedAt:        s.now(),
		AuthorID:         actor.ID,
	}

	if image != nil {
		name, err := s.uploader.Save(ctx, CategoryPost, *image)
		if err != nil {
			if errors.Is(err, ErrUnsupportedImage) {
				return nil, fieldError("picture", "Could not read the image file.")
			}
			return nil, err
		}
		post.ImageFile = name
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	post.Author = *actor

	s.log.Info(ctx, "post created", "post_id", post.ID, "author_id", actor.ID)
	return post, nil
}

func (s *PostService) Get(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNotFound
	}
	return post, err
}

// ForEdit loads a post for its author. Anonymous actors are refused before
// the post is looked up.
func (s *PostService) ForEdit(ctx context.Context, actor *models.User, id uint) (*models.Post, error) {
	if actor == nil {
		return nil, ErrForbidden
	}
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != actor.ID {
		return nil, ErrForbidden
	}
	return post, nil
}

// Update returns the post even on a validation failure so the form can be
// shown again.
func (s *PostService) Update(ctx context.Context, actor *models.User, id uint, in PostEditInput) (*models.Post, error) {
	post, err := s.ForEdit(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if ve := check(in); ve != nil {
		return post, ve
	}

	post.Title = in.Title
	post.Body = in.Body
	if err := s.posts.UpdateContent(ctx, post); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update post: %w", err)
	}

	s.log.Info(ctx, "post updated", "post_id", post.ID)
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, actor *models.User, id uint) error {
	if _, err := s.ForEdit(ctx, actor, id); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete post: %w", err)
	}

	s.log.Info(ctx, "post deleted", "post_id", id, "author_id", actor.ID)
	return nil
}

func (s *PostService) Feed(ctx context.Context, page int) (*repositories.Page[models.Post], error) {
	return s.posts.ListAll(ctx, page, s.perPage)
}

func (s *PostService) UserFeed(ctx context.Context, username string, page int) (*models.User, *repositories.Page[models.Post], error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	posts, err := s.posts.ListByAuthor(ctx, user.ID, page, s.perPage)
	if err != nil {
		return nil, nil, err
	}
	return user, posts, nil
}
