package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rohits-web03/recipeshare/internal/logging"
	"github.com/rohits-web03/recipeshare/internal/models"
	"github.com/rohits-web03/recipeshare/internal/repositories"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}}
}

func (m *memStore) Put(_ context.Context, key string, data []byte, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = append([]byte(nil), data...)
	return nil
}

func (m *memStore) URL(key string) string { return "/static/" + key }

func (m *memStore) get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[key]
	return b, ok
}

type sentMail struct {
	to   string
	link string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (n *recordingNotifier) SendPasswordReset(_ context.Context, to *models.User, link string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentMail{to: to.Email, link: link})
	return nil
}

var errSMTPDown = errors.New("smtp down")

type fixture struct {
	store    *memStore
	notifier *recordingNotifier
	tokens   *TokenIssuer
	accounts *AccountService
	posts    *PostService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := repositories.ConnectDatabase("sqlite://"+filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	users := repositories.NewUserRepository(db)
	store := newMemStore()
	uploader := NewUploader(store, 125, 600)
	notifier := &recordingNotifier{}
	tokens := NewTokenIssuer("test-secret", 10*time.Minute)

	accounts := NewAccountService(users, tokens, notifier, uploader, logging.Discard())
	accounts.hashCost = bcrypt.MinCost

	return &fixture{
		store:    store,
		notifier: notifier,
		tokens:   tokens,
		accounts: accounts,
		posts:    NewPostService(repositories.NewPostRepository(db), users, uploader, 3, logging.Discard()),
	}
}

func (f *fixture) register(t *testing.T, username, email, password string) *models.User {
	t.Helper()
	u, err := f.accounts.Register(context.Background(), RegisterInput{
		Username:        username,
		Email:           email,
		Password:        password,
		ConfirmPassword: password,
	})
	require.NoError(t, err)
	return u
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.NRGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func pngUpload(t *testing.T, name string, w, h int) *Upload {
	return &Upload{Filename: name, Content: bytes.NewReader(pngBytes(t, w, h))}
}

func requireFieldError(t *testing.T, err error, field string) string {
	t.Helper()
	ve, ok := AsValidation(err)
	require.True(t, ok, "expected a validation error, got %v", err)
	msg, ok := ve.Fields[field]
	require.True(t, ok, "no error for field %q in %v", field, ve.Fields)
	return msg
}
