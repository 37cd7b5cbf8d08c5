package samples

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"log-console/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Prefix is the folder holding sample logs in the bucket.
const Prefix = "samples/"

var (
	// ErrInvalidKey is returned for keys escaping the samples folder.
	ErrInvalidKey = errors.New("invalid sample key")
	// ErrNotFound is returned when a sample does not exist.
	ErrNotFound = errors.New("sample not found")
	// ErrTooLarge is returned when an upload exceeds the configured size.
	ErrTooLarge = errors.New("sample too large")
)

// Sample describes a sample log object.
type Sample struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

// Content is the (possibly truncated) body of a sample.
type Content struct {
	Key       string `json:"key"`
	Content   string `json:"content"`
	Truncated bool   `json:"truncated"`
}

// listing is a cached result of List.
type listing struct {
	items []Sample
	built time.Time
}

// Service reads and writes sample logs.
type Service struct {
	client   storage.Client
	bucket   string
	maxBytes int64
	logger   *zap.Logger
	reads    singleflight.Group

	listTTL  time.Duration
	listMu   sync.RWMutex
	listings map[string]listing
	lists    singleflight.Group
}

// NewService creates a new samples service.
func NewService(client storage.Client, bucket string, maxBytes int64, logger *zap.Logger) *Service {
	return &Service{
		client:   client,
		bucket:   bucket,
		maxBytes: maxBytes,
		logger:   logger,
		listings: make(map[string]listing),
	}
}

// WithListCache caches List results for ttl. Uploads and deletes drop the
// cache. A zero ttl disables caching.
func (s *Service) WithListCache(ttl time.Duration) *Service {
	s.listTTL = ttl
	return s
}

// List returns the samples whose key starts with samples/<prefix>, sorted by key.
// Concurrent listings of the same prefix share one storage request.
func (s *Service) List(ctx context.Context, prefix string) ([]Sample, error) {
	prefix = Prefix + strings.TrimPrefix(prefix, Prefix)

	if s.listTTL > 0 {
		s.listMu.RLock()
		cached, ok := s.listings[prefix]
		s.listMu.RUnlock()
		if ok && time.Since(cached.built) <= s.listTTL {
			return cached.items, nil
		}
	}

	items, _, err := share(ctx, &s.lists, prefix, func(ctx context.Context) ([]Sample, error) {
		items, err := s.list(ctx, prefix)
		if err != nil {
			return nil, err
		}
		if s.listTTL > 0 {
			s.listMu.Lock()
			s.listings[prefix] = listing{items: items, built: time.Now()}
			s.listMu.Unlock()
		}
		return items, nil
	})
	return items, err
}

// flightTimeout bounds a shared storage request, which outlives the caller
// that started it.
const flightTimeout = time.Minute

// share runs fn once for concurrent callers of the same key. fn gets a context
// detached from the caller's cancellation so one abandoned request does not
// fail the others; each caller stops waiting when its own ctx is done.
func share[T any](ctx context.Context, g *singleflight.Group, key string, fn func(context.Context) (T, error)) (T, bool, error) {
	ch := g.DoChan(key, func() (interface{}, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flightTimeout)
		defer cancel()
		return fn(flightCtx)
	})

	var zero T
	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Shared, res.Err
		}
		return res.Val.(T), res.Shared, nil
	case <-ctx.Done():
		return zero, false, ctx.Err()
	}
}

func (s *Service) invalidate() {
	s.listMu.Lock()
	s.listings = make(map[string]listing)
	s.listMu.Unlock()
}

func (s *Service) list(ctx context.Context, prefix string) ([]Sample, error) {
	opts := minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}

	result := []Sample{}
	for obj := range s.client.ListObjects(ctx, s.bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list samples: %w", obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		result = append(result, Sample{Key: obj.Key, Size: obj.Size, LastModified: obj.LastModified})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})
	return result, nil
}

// Read returns a sample's content. Concurrent reads of the same key share one
// storage request.
func (s *Service) Read(ctx context.Context, key string) (*Content, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return nil, err
	}

	content, shared, err := share(ctx, &s.reads, key, func(ctx context.Context) (*Content, error) {
		data, truncated, err := storage.ReadObject(ctx, s.client, s.bucket, key, s.maxBytes)
		if err != nil {
			return nil, translate(err)
		}
		return &Content{Key: key, Content: string(data), Truncated: truncated}, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug("Shared sample read", zap.String("key", key))
	}
	return content, nil
}

// Upload stores data as a sample.
func (s *Service) Upload(ctx context.Context, key string, data []byte) (*Sample, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return nil, err
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("%w: larger than %d bytes", ErrTooLarge, s.maxBytes)
	}

	info, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "text/plain",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload sample %s: %w", key, err)
	}
	s.invalidate()
	s.logger.Info("Sample uploaded", zap.String("key", key), zap.Int("bytes", len(data)))
	return &Sample{Key: key, Size: info.Size, LastModified: info.LastModified}, nil
}

// Delete removes a sample.
func (s *Service) Delete(ctx context.Context, key string) error {
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete sample %s: %w", key, translate(err))
	}
	s.invalidate()
	s.logger.Info("Sample deleted", zap.String("key", key))
	return nil
}

// normalizeKey returns the full object key of a sample, with or without the
// samples/ prefix.
func normalizeKey(key string) (string, error) {
	key = strings.TrimPrefix(strings.TrimPrefix(key, "/"), Prefix)
	if key == "" || strings.HasSuffix(key, "/") {
		return "", ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." || part == "." {
			return "", ErrInvalidKey
		}
	}
	return Prefix + path.Clean(key), nil
}

func translate(err error) error {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) && resp.Code == "NoSuchKey" {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
