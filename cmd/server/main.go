package main

import (
	"context"
	"errors"
	"log"
	"time"

	fbdb "firebase.google.com/go/v4/db"
	"github.com/Pargusz/izmirdestek/internal/router"
	"github.com/Pargusz/izmirdestek/internal/store"
	"github.com/Pargusz/izmirdestek/pkg/config"
	"github.com/Pargusz/izmirdestek/pkg/firebase"
	"github.com/Pargusz/izmirdestek/validators"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg := config.Load()
	ctx := context.Background()

	// Initialize the post store and optional collaborators
	var (
		st   store.Store
		rtdb *fbdb.Client
	)
	switch cfg.StoreBackend {
	case "firestore":
		firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.FirebaseProjectID, cfg.FirebaseDatabaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		st = store.NewFirestoreStore(firebaseApp.Firestore)
		rtdb = firebaseApp.RTDB
	case "mongo":
		mongoClient, err := initMongo(ctx, cfg.MongoURI)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		st = store.NewMongoStore(mongoClient.Database(cfg.MongoDB))
	case "memory":
		st = store.NewMemoryStore()
		log.Println("Using in-memory post store.")
	default:
		log.Fatalf("Unknown store backend %q", cfg.StoreBackend)
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			log.Printf("Error closing post store: %v", err)
		}
	}()

	// Postgres backs the private submission log; optional
	var pgdb *gorm.DB
	if cfg.PostgresConnStr != "" {
		var err error
		pgdb, err = gorm.Open(postgres.Open(cfg.PostgresConnStr), &gorm.Config{})
		if err != nil {
			log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		}
		log.Println("Successfully connected to PostgreSQL!")
	}

	// Redis backs the view dedup markers; optional
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		log.Println("Successfully connected to Redis!")
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, st, pgdb, rdb, rtdb)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}

var errMissingMongoURI = errors.New("MONGO_URI is not set")

// initMongo initializes the MongoDB connection
func initMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	if uri == "" {
		return nil, errMissingMongoURI
	}

	clientOptions := options.Client().ApplyURI(uri)
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	// Ping the primary to verify connection
	if err = client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	log.Println("Successfully connected to MongoDB!")
	return client, nil
}
