package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rohits-web03/recipeshare/internal/models"
	"github.com/rohits-web03/recipeshare/internal/repositories"
)

// Category is the destination directory of an uploaded image.
type Category string

const (
	CategoryProfile Category = "profile_pics"
	CategoryPost    Category = "post_pics"
)

// maxImagePixels caps the declared canvas of an upload.
const maxImagePixels = 40_000_000

var allowedImageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// Upload is an image submitted with a form.
type Upload struct {
	Filename string
	Content  io.Reader
}

// AllowedImage reports whether filename has a jpg, jpeg or png extension.
func AllowedImage(filename string) bool {
	_, ok := allowedImageTypes[strings.ToLower(filepath.Ext(filename))]
	return ok
}

func checkImage(field string, up *Upload) *ValidationError {
	if up == nil || AllowedImage(up.Filename) {
		return nil
	}
	return fieldError(field, "File does not have an approved extension: jpg, jpeg, png")
}

// Uploader resizes images and hands them to the object store under a fresh
// random name per call.
type Uploader struct {
	store   repositories.ObjectStore
	bounds  map[Category]int
	newName func() string
}

func NewUploader(store repositories.ObjectStore, avatarSize, postSize int) *Uploader {
	return &Uploader{
		store: store,
		bounds: map[Category]int{
			CategoryProfile: avatarSize,
			CategoryPost:    postSize,
		},
		newName: func() string { return strings.ReplaceAll(uuid.NewString(), "-", "") },
	}
}

// Save returns the stored file name (random stem, original extension).
// The longest edge of the stored image is at most the category bound.
func (u *Uploader) Save(ctx context.Context, category Category, up Upload) (string, error) {
	bound, ok := u.bounds[category]
	if !ok {
		return "", fmt.Errorf("unknown upload category %q", category)
	}
	ext := strings.ToLower(filepath.Ext(up.Filename))
	contentType, ok := allowedImageTypes[ext]
	if !ok {
		return "", ErrUnsupportedImage
	}
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return "", ErrUnsupportedImage
	}

	data, err := io.ReadAll(up.Content)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return "", fmt.Errorf("%w: %dx%d is too large", ErrUnsupportedImage, cfg.Width, cfg.Height)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	img = imaging.Fit(img, bound, bound, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format); err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}

	name := u.newName() + ext
	if err := u.store.Put(ctx, key(category, name), buf.Bytes(), contentType); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return name, nil
}

func (u *Uploader) URL(category Category, name string) string {
	if name == "" {
		name = models.DefaultImage
	}
	return u.store.URL(key(category, name))
}

// WritePlaceholders stores a plain default.jpg for every category.
func (u *Uploader) WritePlaceholders(ctx context.Context) error {
	for category, bound := range u.bounds {
		img := imaging.New(bound, bound, color.NRGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff})
		if err := u.put(ctx, category, models.DefaultImage, img); err != nil {
			return err
		}
	}
	return nil
}

func (u *Uploader) put(ctx context.Context, category Category, name string, img image.Image) error {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG); err != nil {
		return err
	}
	return u.store.Put(ctx, key(category, name), buf.Bytes(), "image/jpeg")
}

func key(category Category, name string) string {
	return string(category) + "/" + name
}
