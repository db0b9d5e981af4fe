package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Pargusz/izmirdestek/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store on MongoDB. The atomic primitives map to
// $addToSet, $pull and $inc; the subscription is driven by a change stream
// that re-queries the ordered collection on every event.
type MongoStore struct {
	collection *mongo.Collection
}

// NewMongoStore creates a MongoStore on the posts collection of db.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{collection: db.Collection(postsCollection)}
}

// Create persists a new post. The id and creation timestamp are assigned
// here, on the store side of the boundary, never by the caller.
func (s *MongoStore) Create(ctx context.Context, post *models.Post) (string, error) {
	post.ID = primitive.NewObjectID().Hex()
	post.CreatedAt = time.Now().UTC()
	if _, err := s.collection.InsertOne(ctx, post); err != nil {
		return "", fmt.Errorf("mongo create: %w", err)
	}
	return post.ID, nil
}

// Get retrieves one post by id.
func (s *MongoStore) Get(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("mongo get: %w", err)
	}
	post.Normalize()
	return &post, nil
}

// Subscribe emits an initial snapshot and then re-queries the collection on
// every change-stream event. Coarser than Firestore's query snapshots but
// delivers the same full-collection contract.
func (s *MongoStore) Subscribe(ctx context.Context) (*Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)

	stream, err := s.collection.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("mongo watch: %w", err)
	}

	ch := make(chan []models.Post, 1)
	go func() {
		defer close(ch)
		defer stream.Close(context.Background())

		snap, err := s.snapshot(ctx)
		if err != nil {
			log.Printf("mongo initial snapshot: %v", err)
			return
		}
		offer(ch, snap)

		for stream.Next(ctx) {
			snap, err := s.snapshot(ctx)
			if err != nil {
				log.Printf("mongo snapshot: %v", err)
				continue
			}
			offer(ch, snap)
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			log.Printf("mongo subscription ended: %v", err)
		}
	}()

	return newSubscription(ch, cancel), nil
}

// ArrayUnion adds value to an array field, set semantics via $addToSet.
func (s *MongoStore) ArrayUnion(ctx context.Context, id, field string, value interface{}) error {
	return s.update(ctx, id, bson.M{"$addToSet": bson.M{field: value}})
}

// ArrayRemove removes value from an array field via $pull.
func (s *MongoStore) ArrayRemove(ctx context.Context, id, field string, value interface{}) error {
	return s.update(ctx, id, bson.M{"$pull": bson.M{field: value}})
}

// Increment adds delta to a numeric field via $inc.
func (s *MongoStore) Increment(ctx context.Context, id, field string, delta int64) error {
	return s.update(ctx, id, bson.M{"$inc": bson.M{field: delta}})
}

// Delete removes the post document.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Close disconnects the underlying client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.collection.Database().Client().Disconnect(ctx)
}

func (s *MongoStore) update(ctx context.Context, id string, update bson.M) error {
	res, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("mongo update: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) snapshot(ctx context.Context) ([]models.Post, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].Normalize()
	}
	return posts, nil
}
