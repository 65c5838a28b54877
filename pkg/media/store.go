// Package media stores posters, covers and videos on an S3-compatible bucket.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"movie-catalog/pkg/utils"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

const (
	ImageFolder = "movie-app"
	VideoFolder = "movie-app-videos"
)

var ErrDisabled = errors.New("media store is not configured")

// Object is an uploaded file.
type Object struct {
	URL string `json:"url"`
	ID  string `json:"id"`
}

// File is an upload payload; Size may be -1 when unknown.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type Store interface {
	Upload(ctx context.Context, folder string, file File) (*Object, error)
	Delete(ctx context.Context, id string) error
	// ObjectID returns the object id behind url if the url points into this store.
	ObjectID(url string) (string, bool)
}

type minioStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
	log     *zap.Logger
}

// NewStore connects to the bucket described by cfg. An empty endpoint
// returns a store that refuses uploads.
func NewStore(ctx context.Context, cfg utils.MediaConfig, log *zap.Logger) (Store, error) {
	log = log.With(zap.String("component", "media"))
	if cfg.Endpoint == "" {
		return disabledStore{}, nil
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create media client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
		log.Info("Media bucket created", zap.String("bucket", cfg.Bucket))
	}

	return &minioStore{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: baseURL(cfg),
		log:     log,
	}, nil
}

func baseURL(cfg utils.MediaConfig) string {
	if cfg.PublicURL != "" {
		return strings.TrimRight(cfg.PublicURL, "/")
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
}

func (s *minioStore) Upload(ctx context.Context, folder string, file File) (*Object, error) {
	key := path.Join(folder, uuid.NewString()+strings.ToLower(filepath.Ext(file.Name)))

	opts := minio.PutObjectOptions{ContentType: file.ContentType}
	if _, err := s.client.PutObject(ctx, s.bucket, key, file.Reader, file.Size, opts); err != nil {
		s.log.Error("Failed to upload object", zap.Error(err), zap.String("key", key))
		return nil, fmt.Errorf("upload %s: %w", key, err)
	}

	s.log.Info("Object uploaded", zap.String("key", key), zap.Int64("size", file.Size))
	return &Object{URL: s.baseURL + "/" + key, ID: key}, nil
}

func (s *minioStore) Delete(ctx context.Context, id string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, id, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	return nil
}

func (s *minioStore) ObjectID(url string) (string, bool) {
	return objectID(s.baseURL, url)
}

func objectID(base, url string) (string, bool) {
	prefix := base + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	id := strings.TrimPrefix(url, prefix)
	if id == "" {
		return "", false
	}
	return id, true
}

type disabledStore struct{}

func (disabledStore) Upload(context.Context, string, File) (*Object, error) {
	return nil, ErrDisabled
}

func (disabledStore) Delete(context.Context, string) error { return nil }

func (disabledStore) ObjectID(string) (string, bool) { return "", false }
