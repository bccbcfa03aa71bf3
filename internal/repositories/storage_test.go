package repositories

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rohits-web03/recipeshare/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_PutAndURL(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root, "/static/")

	require.NoError(t, store.Put(context.Background(), "post_pics/a.png", []byte("png"), "image/png"))

	data, err := os.ReadFile(filepath.Join(root, "post_pics", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
	assert.Equal(t, "/static/post_pics/a.png", store.URL("post_pics/a.png"))
}

func TestLocalStore_RejectsEscapingKeys(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "/static")
	assert.Error(t, store.Put(context.Background(), "../evil.png", []byte("x"), "image/png"))
	assert.Error(t, store.Put(context.Background(), "", []byte("x"), "image/png"))
}

func TestNewR2Store_RequiresBucketAndURL(t *testing.T) {
	_, err := NewR2Store(config.R2Config{AccountID: "acc"})
	assert.ErrorContains(t, err, "R2_BUCKET_NAME")
}

func TestR2Store_PutAndURL(t *testing.T) {
	var gotPath, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotType = r.URL.Path, r.Header.Get("Content-Type")
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store, err := NewR2Store(config.R2Config{
		AccountID:     "acc",
		BucketName:    "recipes",
		Region:        "auto",
		PublicBaseURL: "https://cdn.test/",
	})
	require.NoError(t, err)
	store.client = s3.NewFromConfig(aws.Config{
		Region:      "auto",
		Credentials: credentials.NewStaticCredentialsProvider("id", "secret", ""),
	}, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(srv.URL)
		o.UsePathStyle = true
	})

	require.NoError(t, store.Put(context.Background(), "post_pics/a.png", []byte("png"), "image/png"))
	assert.Equal(t, "/recipes/post_pics/a.png", gotPath)
	assert.Equal(t, "image/png", gotType)
	assert.Equal(t, "https://cdn.test/post_pics/a.png", store.URL("post_pics/a.png"))
}
