package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Pargusz/izmirdestek/internal/models"
	"github.com/google/uuid"
)

// MemoryStore implements Store in process memory. Used by the dev profile
// and as the test fixture, with the same field-op semantics as the real
// backends.
type MemoryStore struct {
	mu     sync.Mutex
	posts  map[string]*models.Post
	seq    map[string]int
	nextID int
	subs   map[int]chan []models.Post
	subID  int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		posts: make(map[string]*models.Post),
		seq:   make(map[string]int),
		subs:  make(map[int]chan []models.Post),
	}
}

// Create persists the post, assigning id and creation time.
func (s *MemoryStore) Create(_ context.Context, post *models.Post) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post.ID = uuid.NewString()
	post.CreatedAt = time.Now().UTC()
	clone := *post
	s.posts[post.ID] = &clone
	s.nextID++
	s.seq[post.ID] = s.nextID
	s.broadcast()
	return post.ID, nil
}

// Get returns a copy of the stored post.
func (s *MemoryStore) Get(_ context.Context, id string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *post
	clone.Likes = append([]string{}, post.Likes...)
	clone.Comments = append([]models.Comment{}, post.Comments...)
	return &clone, nil
}

// Subscribe registers a snapshot channel and delivers the current state.
func (s *MemoryStore) Subscribe(context.Context) (*Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subID++
	id := s.subID
	ch := make(chan []models.Post, 1)
	s.subs[id] = ch
	offer(ch, s.snapshot())

	return newSubscription(ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}), nil
}

// ArrayUnion adds value to the field with set semantics.
func (s *MemoryStore) ArrayUnion(_ context.Context, id, field string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return ErrNotFound
	}
	switch field {
	case FieldLikes:
		clientID, _ := value.(string)
		if !post.LikedBy(clientID) {
			post.Likes = append(post.Likes, clientID)
		}
	case FieldComments:
		if c, ok := value.(models.Comment); ok {
			post.Comments = append(post.Comments, c)
		}
	}
	s.broadcast()
	return nil
}

// ArrayRemove removes value from the field.
func (s *MemoryStore) ArrayRemove(_ context.Context, id, field string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return ErrNotFound
	}
	if field == FieldLikes {
		clientID, _ := value.(string)
		kept := post.Likes[:0]
		for _, l := range post.Likes {
			if l != clientID {
				kept = append(kept, l)
			}
		}
		post.Likes = kept
	}
	s.broadcast()
	return nil
}

// Increment adds delta to the numeric field.
func (s *MemoryStore) Increment(_ context.Context, id, field string, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return ErrNotFound
	}
	if field == FieldViews {
		post.Views += delta
	}
	s.broadcast()
	return nil
}

// Delete removes the post.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return ErrNotFound
	}
	delete(s.posts, id)
	delete(s.seq, id)
	s.broadcast()
	return nil
}

// Close closes all open subscriptions.
func (s *MemoryStore) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	return nil
}

// snapshot returns all posts newest first. Callers hold the mutex.
func (s *MemoryStore) snapshot() []models.Post {
	posts := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		clone := *p
		clone.Likes = append([]string{}, p.Likes...)
		clone.Comments = append([]models.Comment{}, p.Comments...)
		posts = append(posts, clone)
	}
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return s.seq[posts[i].ID] > s.seq[posts[j].ID]
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts
}

func (s *MemoryStore) broadcast() {
	snap := s.snapshot()
	for _, ch := range s.subs {
		offer(ch, snap)
	}
}
