package repositories

import (
	"context"

	"github.com/rohits-web03/recipeshare/internal/models"
	"gorm.io/gorm"
)

type PostRepository interface {
	Create(ctx context.Context, p *models.Post) error
	FindByID(ctx context.Context, id uint) (*models.Post, error)
	// UpdateContent writes title and body only.
	UpdateContent(ctx context.Context, p *models.Post) error
	Delete(ctx context.Context, id uint) error
	ListAll(ctx context.Context, page, perPage int) (*Page[models.Post], error)
	ListByAuthor(ctx context.Context, authorID uint, page, perPage int) (*Page[models.Post], error)
}

type GormPostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

func (r *GormPostRepository) Create(ctx context.Context, p *models.Post) error {
	return translate(r.db.WithContext(ctx).Omit("Author").Create(p).Error)
}

func (r *GormPostRepository) FindByID(ctx context.Context, id uint) (*models.Post, error) {
	var p models.Post
	err := r.db.WithContext(ctx).Preload("Author").First(&p, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *GormPostRepository) UpdateContent(ctx context.Context, p *models.Post) error {
	res := r.db.WithContext(ctx).
		Model(&models.Post{ID: p.ID}).
		Select("title", "body").
		Updates(map[string]any{"title": p.Title, "body": p.Body})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormPostRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormPostRepository) ListAll(ctx context.Context, page, perPage int) (*Page[models.Post], error) {
	return r.list(r.db.WithContext(ctx).Model(&models.Post{}), page, perPage)
}

func (r *GormPostRepository) ListByAuthor(ctx context.Context, authorID uint, page, perPage int) (*Page[models.Post], error) {
	return r.list(r.db.WithContext(ctx).Model(&models.Post{}).Where("author_id = ?", authorID), page, perPage)
}

// Newest first; id breaks ties between posts created in the same instant.
func (r *GormPostRepository) list(q *gorm.DB, page, perPage int) (*Page[models.Post], error) {
	if page < 1 {
		page = 1
	}
	out := &Page[models.Post]{Number: page, PerPage: perPage, Items: []models.Post{}}

	if err := q.Session(&gorm.Session{}).Count(&out.Total).Error; err != nil {
		return nil, translate(err)
	}
	if page > out.Pages() {
		return out, nil
	}

	err := q.Preload("Author").
		Order("created_at DESC").Order("id DESC").
		Limit(perPage).Offset(offset(page, perPage)).
		Find(&out.Items).Error
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}
