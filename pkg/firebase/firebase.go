package firebase

import (
	"context"
	"fmt"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"
)

// App holds the initialized Firebase app and the clients this service uses:
// Firestore for the post store and the Realtime Database for the live
// presence counter. RTDB is nil when no database URL is configured.
type App struct {
	FirebaseApp *firebase.App
	Firestore   *firestore.Client
	RTDB        *db.Client
}

// InitFirebase initializes the Firebase application and its clients
func InitFirebase(ctx context.Context, credentialsPath, projectID, databaseURL string) (*App, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("Firebase credentials path not provided")
	}

	// Check if the credentials file exists
	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("Firebase credentials file not found at %s", credentialsPath)
	}

	opt := option.WithCredentialsFile(credentialsPath)
	conf := &firebase.Config{
		ProjectID:   projectID,
		DatabaseURL: databaseURL,
	}

	firebaseApp, err := firebase.NewApp(ctx, conf, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	firestoreClient, err := firebaseApp.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firestore client: %w", err)
	}

	app := &App{FirebaseApp: firebaseApp, Firestore: firestoreClient}

	if databaseURL != "" {
		rtdbClient, err := firebaseApp.Database(ctx)
		if err != nil {
			return nil, fmt.Errorf("error getting realtime database client: %w", err)
		}
		app.RTDB = rtdbClient
	}

	log.Println("Firebase app and clients initialized successfully!")
	return app, nil
}
