package repositories

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ObjectStore persists uploaded images under keys like "profile_pics/ab12.jpg".
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// URL is the public address a page should link to.
	URL(key string) string
}

// LocalStore writes under a directory that is also served at urlPrefix.
type LocalStore struct {
	root      string
	urlPrefix string
}

func NewLocalStore(root, urlPrefix string) *LocalStore {
	return &LocalStore{root: root, urlPrefix: strings.TrimRight(urlPrefix, "/")}
}

func (s *LocalStore) Root() string { return s.root }

func (s *LocalStore) Put(_ context.Context, key string, data []byte, _ string) error {
	dst := filepath.Join(s.root, filepath.FromSlash(key))
	if rel, err := filepath.Rel(s.root, dst); err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("invalid object key %q", key)
	}
	if err := os.MkdirAll(filepath.Dir(dst), os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

func (s *LocalStore) URL(key string) string {
	return s.urlPrefix + "/" + key
}
