package router

import (
	"context"
	"log"

	"firebase.google.com/go/v4/db"
	"github.com/Pargusz/izmirdestek/internal/auditlog"
	"github.com/Pargusz/izmirdestek/internal/feed"
	"github.com/Pargusz/izmirdestek/internal/geoip"
	"github.com/Pargusz/izmirdestek/internal/handlers"
	"github.com/Pargusz/izmirdestek/internal/identity"
	"github.com/Pargusz/izmirdestek/internal/interaction"
	"github.com/Pargusz/izmirdestek/internal/middleware"
	"github.com/Pargusz/izmirdestek/internal/presence"
	"github.com/Pargusz/izmirdestek/internal/store"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies.
// pgdb, rdb and rtdb are optional: without them the audit log, the
// persistent view dedup and the presence counter degrade gracefully.
func SetupRoutes(e *echo.Echo, st store.Store, pgdb *gorm.DB, rdb *redis.Client, rtdb *db.Client) {
	// Private submission log
	recorder := auditlog.NewRecorder(pgdb)
	if err := recorder.Migrate(); err != nil {
		log.Fatalf("Failed to migrate audit log: %v", err)
	}
	if recorder.Enabled() {
		log.Println("Submission audit log enabled.")
	}

	// View dedup markers: Redis when configured, in-process otherwise
	var viewed identity.ViewedStore
	if rdb != nil {
		viewed = identity.NewRedisViewedStore(rdb)
		log.Println("Redis viewed-marker store configured.")
	} else {
		viewed = identity.NewMemoryViewedStore()
		log.Println("In-memory viewed-marker store configured.")
	}

	controller := interaction.NewController(st, viewed, recorder, geoip.NewClient())

	projector := feed.NewProjector()
	if err := projector.Run(context.Background(), st); err != nil {
		log.Fatalf("Failed to start feed projection: %v", err)
	}
	log.Println("Feed projection started.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	api := e.Group("/api/v1")
	api.Use(middleware.ClientID())

	postHandler := handlers.NewPostHandler(controller, projector)
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	likeHandler := handlers.NewLikeHandler(controller)
	likeHandler.RegisterLikeRoutes(api)
	log.Println("Like routes configured.")

	commentHandler := handlers.NewCommentHandler(controller)
	commentHandler.RegisterCommentRoutes(api)
	log.Println("Comment routes configured.")

	viewHandler := handlers.NewViewHandler(controller)
	viewHandler.RegisterViewRoutes(api)
	log.Println("View routes configured.")

	presenceHandler := handlers.NewPresenceHandler(presence.NewCounter(rtdb))
	presenceHandler.RegisterPresenceRoutes(api)
	log.Println("Presence routes configured.")

	log.Println("All routes configured.")
}
