package gcp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/yungbote/seobrain/internal/platform/dbctx"
)

// MemoryBucketService keeps objects in process. Used for local runs without
// object storage and in tests.
type MemoryBucketService struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string][]byte
}

func NewMemoryBucketService(baseURL string) *MemoryBucketService {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "memory://seobrain"
	}
	return &MemoryBucketService{baseURL: baseURL, objects: map[string][]byte{}}
}

func objectID(category BucketCategory, key string) string {
	return string(category) + "/" + strings.TrimLeft(key, "/")
}

func (m *MemoryBucketService) UploadFile(dbc dbctx.Context, category BucketCategory, key string, file io.Reader) error {
	b, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}
	m.mu.Lock()
	m.objects[objectID(category, key)] = b
	m.mu.Unlock()
	return nil
}

func (m *MemoryBucketService) DeleteFile(dbc dbctx.Context, category BucketCategory, key string) error {
	m.mu.Lock()
	delete(m.objects, objectID(category, key))
	m.mu.Unlock()
	return nil
}

func (m *MemoryBucketService) DownloadFile(ctx context.Context, category BucketCategory, key string) (io.ReadCloser, error) {
	m.mu.RLock()
	b, ok := m.objects[objectID(category, key)]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("object %q not found", key)
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *MemoryBucketService) ListKeys(ctx context.Context, category BucketCategory, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	root := string(category) + "/"
	out := []string{}
	for id := range m.objects {
		if !strings.HasPrefix(id, root) {
			continue
		}
		key := strings.TrimPrefix(id, root)
		if strings.HasPrefix(key, prefix) {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemoryBucketService) DeletePrefix(ctx context.Context, category BucketCategory, prefix string) (int, error) {
	keys, _ := m.ListKeys(ctx, category, prefix)
	m.mu.Lock()
	for _, k := range keys {
		delete(m.objects, objectID(category, k))
	}
	m.mu.Unlock()
	return len(keys), nil
}

func (m *MemoryBucketService) GetPublicURL(category BucketCategory, key string) string {
	return fmt.Sprintf("%s/%s", m.baseURL, objectID(category, key))
}

func (m *MemoryBucketService) Close() error { return nil }
