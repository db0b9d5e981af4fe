package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/redis/go-redis/v9"
)

// ViewedStore tracks which posts a client has already been counted as
// viewing. Markers live for the client's lifetime; a marked pair makes the
// view increment a no-op.
type ViewedStore interface {
	Seen(ctx context.Context, clientID, postID string) (bool, error)
	Mark(ctx context.Context, clientID, postID string) error
}

func markerKey(clientID, postID string) string {
	return fmt.Sprintf("viewed:%s:%s", clientID, postID)
}

// MemoryViewedStore keeps markers in process memory.
type MemoryViewedStore struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewMemoryViewedStore creates an empty in-memory marker store.
func NewMemoryViewedStore() *MemoryViewedStore {
	return &MemoryViewedStore{seen: make(map[string]struct{})}
}

// Seen reports whether the client+post pair is marked.
func (s *MemoryViewedStore) Seen(_ context.Context, clientID, postID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[markerKey(clientID, postID)]
	return ok, nil
}

// Mark records the client+post pair.
func (s *MemoryViewedStore) Mark(_ context.Context, clientID, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[markerKey(clientID, postID)] = struct{}{}
	return nil
}

// RedisViewedStore keeps markers in Redis, for server deployments where the
// dedup state must survive restarts and be shared between replicas.
type RedisViewedStore struct {
	client *redis.Client
}

// NewRedisViewedStore creates a marker store on client.
func NewRedisViewedStore(client *redis.Client) *RedisViewedStore {
	return &RedisViewedStore{client: client}
}

// Seen reports whether the marker key exists.
func (s *RedisViewedStore) Seen(ctx context.Context, clientID, postID string) (bool, error) {
	n, err := s.client.Exists(ctx, markerKey(clientID, postID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

// Mark sets the marker key without expiry.
func (s *RedisViewedStore) Mark(ctx context.Context, clientID, postID string) error {
	if err := s.client.Set(ctx, markerKey(clientID, postID), "1", 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// FileViewedStore keeps markers in a JSON file inside a profile directory,
// for the CLI target.
type FileViewedStore struct {
	mu   sync.Mutex
	path string
}

// NewFileViewedStore creates a marker store under dir.
func NewFileViewedStore(dir string) *FileViewedStore {
	return &FileViewedStore{path: filepath.Join(dir, "viewed.json")}
}

// Seen reports whether the client+post pair is marked.
func (s *FileViewedStore) Seen(_ context.Context, clientID, postID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen, err := s.load()
	if err != nil {
		return false, err
	}
	return seen[markerKey(clientID, postID)], nil
}

// Mark records the client+post pair and saves the file.
func (s *FileViewedStore) Mark(_ context.Context, clientID, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen, err := s.load()
	if err != nil {
		return err
	}
	seen[markerKey(clientID, postID)] = true

	data, err := json.Marshal(seen)
	if err != nil {
		return fmt.Errorf("encode viewed markers: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create profile dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("persist viewed markers: %w", err)
	}
	return nil
}

func (s *FileViewedStore) load() (map[string]bool, error) {
	seen := make(map[string]bool)
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return seen, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read viewed markers: %w", err)
	}
	if err := json.Unmarshal(data, &seen); err != nil {
		return nil, fmt.Errorf("decode viewed markers: %w", err)
	}
	return seen, nil
}
