package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/rohits-web03/recipeshare/internal/models"
	"github.com/rohits-web03/recipeshare/internal/utils"
	"gorm.io/gorm"
)

// Session ids are 32 random bytes, URL-safe base64.
const sessionIDLength = 32

// SessionStore maps opaque session ids to user ids until they expire.
type SessionStore interface {
	Create(ctx context.Context, userID uint, ttl time.Duration) (string, error)
	// Get returns ErrNotFound for unknown and expired sessions.
	Get(ctx context.Context, id string) (uint, error)
	Delete(ctx context.Context, id string) error
}

type GormSessionStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormSessionStore(db *gorm.DB) *GormSessionStore {
	return &GormSessionStore{db: db, now: time.Now}
}

func (s *GormSessionStore) Create(ctx context.Context, userID uint, ttl time.Duration) (string, error) {
	id, err := utils.GenerateSecureToken(sessionIDLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	session := models.Session{
		ID:        id,
		UserID:    userID,
		ExpiresAt: s.now().Add(ttl),
	}
	if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
		return "", translate(err)
	}
	return id, nil
}

func (s *GormSessionStore) Get(ctx context.Context, id string) (uint, error) {
	var session models.Session
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&session).Error; err != nil {
		return 0, translate(err)
	}
	if s.now().After(session.ExpiresAt) {
		_ = s.Delete(ctx, id)
		return 0, ErrNotFound
	}
	return session.UserID, nil
}

// Delete is a no-op for unknown ids.
func (s *GormSessionStore) Delete(ctx context.Context, id string) error {
	return translate(s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Session{}).Error)
}

// Purge removes every expired session and reports how many went.
func (s *GormSessionStore) Purge(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at < ?", s.now()).Delete(&models.Session{})
	return res.RowsAffected, translate(res.Error)
}
