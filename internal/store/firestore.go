package store

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"github.com/Pargusz/izmirdestek/internal/models"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const postsCollection = "posts"

// FirestoreStore implements Store on Cloud Firestore. Firestore provides the
// atomic primitives natively: ArrayUnion, ArrayRemove, Increment, server
// timestamps and ordered query snapshots.
type FirestoreStore struct {
	client *firestore.Client
	posts  *firestore.CollectionRef
}

// NewFirestoreStore creates a FirestoreStore on the given client.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{
		client: client,
		posts:  client.Collection(postsCollection),
	}
}

// Create persists a new post. Firestore assigns the document id; the
// serverTimestamp tag on CreatedAt makes the server assign the timestamp.
func (s *FirestoreStore) Create(ctx context.Context, post *models.Post) (string, error) {
	doc, _, err := s.posts.Add(ctx, post)
	if err != nil {
		return "", fmt.Errorf("firestore create: %w", err)
	}
	post.ID = doc.ID
	return doc.ID, nil
}

// Get reads one post by document id.
func (s *FirestoreStore) Get(ctx context.Context, id string) (*models.Post, error) {
	snap, err := s.posts.Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("firestore get: %w", err)
	}
	return decodeDoc(snap)
}

// Subscribe streams query snapshots ordered by createdAt descending.
func (s *FirestoreStore) Subscribe(ctx context.Context) (*Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)
	it := s.posts.OrderBy("createdAt", firestore.Desc).Snapshots(ctx)
	ch := make(chan []models.Post, 1)

	go func() {
		defer close(ch)
		for {
			qs, err := it.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					log.Printf("firestore subscription ended: %v", err)
				}
				return
			}
			posts := make([]models.Post, 0, qs.Size)
			docs := qs.Documents
			for {
				doc, err := docs.Next()
				if err == iterator.Done {
					break
				}
				if err != nil {
					log.Printf("firestore snapshot read: %v", err)
					break
				}
				p, err := decodeDoc(doc)
				if err != nil {
					log.Printf("skipping malformed post %s: %v", doc.Ref.ID, err)
					continue
				}
				posts = append(posts, *p)
			}
			offer(ch, posts)
		}
	}()

	return newSubscription(ch, func() {
		cancel()
		it.Stop()
	}), nil
}

// ArrayUnion adds value to an array field if not already present.
func (s *FirestoreStore) ArrayUnion(ctx context.Context, id, field string, value interface{}) error {
	return s.update(ctx, id, firestore.Update{Path: field, Value: firestore.ArrayUnion(value)})
}

// ArrayRemove removes value from an array field.
func (s *FirestoreStore) ArrayRemove(ctx context.Context, id, field string, value interface{}) error {
	return s.update(ctx, id, firestore.Update{Path: field, Value: firestore.ArrayRemove(value)})
}

// Increment adds delta to a numeric field.
func (s *FirestoreStore) Increment(ctx context.Context, id, field string, delta int64) error {
	return s.update(ctx, id, firestore.Update{Path: field, Value: firestore.Increment(delta)})
}

// Delete removes the post document.
func (s *FirestoreStore) Delete(ctx context.Context, id string) error {
	if _, err := s.posts.Doc(id).Delete(ctx, firestore.Exists); err != nil {
		if status.Code(err) == codes.NotFound || status.Code(err) == codes.FailedPrecondition {
			return ErrNotFound
		}
		return fmt.Errorf("firestore delete: %w", err)
	}
	return nil
}

// Close shuts down the underlying client.
func (s *FirestoreStore) Close(context.Context) error {
	return s.client.Close()
}

func (s *FirestoreStore) update(ctx context.Context, id string, u firestore.Update) error {
	if _, err := s.posts.Doc(id).Update(ctx, []firestore.Update{u}); err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return fmt.Errorf("firestore update %s: %w", u.Path, err)
	}
	return nil
}

func decodeDoc(snap *firestore.DocumentSnapshot) (*models.Post, error) {
	var post models.Post
	if err := snap.DataTo(&post); err != nil {
		return nil, fmt.Errorf("decode post %s: %w", snap.Ref.ID, err)
	}
	post.ID = snap.Ref.ID
	post.Normalize()
	return &post, nil
}
