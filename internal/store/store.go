// Package store is the document-store boundary. A Store persists post
// records, pushes full ordered collection snapshots on every change and
// mutates individual fields through conflict-free atomic operations, never
// through a full-document overwrite. The interaction layer behaves
// identically regardless of which backend implements these primitives.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/Pargusz/izmirdestek/internal/models"
)

// ErrNotFound is returned when the requested post record does not exist.
var ErrNotFound = errors.New("post not found")

// Field names accepted by the atomic operations.
const (
	FieldLikes    = "likes"
	FieldComments = "comments"
	FieldViews    = "views"
)

// Store is the external document-store collaborator.
type Store interface {
	// Create persists a new post record. The store assigns the id and the
	// creation timestamp; both are filled into post and the id returned.
	Create(ctx context.Context, post *models.Post) (string, error)

	// Get reads one record by id, returning ErrNotFound when absent.
	Get(ctx context.Context, id string) (*models.Post, error)

	// Subscribe streams full collection snapshots ordered by creation time
	// descending. A snapshot is delivered immediately and then re-delivered
	// on every mutation until Unsubscribe is called.
	Subscribe(ctx context.Context) (*Subscription, error)

	// ArrayUnion atomically adds value to an array field if not present.
	ArrayUnion(ctx context.Context, id, field string, value interface{}) error

	// ArrayRemove atomically removes value from an array field.
	ArrayRemove(ctx context.Context, id, field string, value interface{}) error

	// Increment atomically adds delta to a numeric field.
	Increment(ctx context.Context, id, field string, delta int64) error

	// Delete removes the record entirely. Irreversible.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// Subscription is a live feed of collection snapshots. Slow consumers only
// ever miss intermediate snapshots, never the latest one.
type Subscription struct {
	ch   chan []models.Post
	stop func()
	once sync.Once
}

func newSubscription(ch chan []models.Post, stop func()) *Subscription {
	return &Subscription{ch: ch, stop: stop}
}

// Snapshots returns the snapshot channel. It is closed after Unsubscribe or
// when the backing stream terminates.
func (s *Subscription) Snapshots() <-chan []models.Post {
	return s.ch
}

// Unsubscribe terminates the stream. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.once.Do(s.stop)
}

// offer replaces the pending snapshot with the newest one without blocking.
func offer(ch chan []models.Post, snap []models.Post) {
	select {
	case ch <- snap:
	default:
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
