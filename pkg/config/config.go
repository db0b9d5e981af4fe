package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string
	Env  string

	// StoreBackend selects the post store: firestore, mongo or memory.
	StoreBackend string

	FirebaseCredentialsPath string
	FirebaseProjectID       string
	FirebaseDatabaseURL     string

	MongoURI string
	MongoDB  string

	// PostgresConnStr enables the private submission log when set.
	PostgresConnStr string

	// RedisAddr enables the Redis-backed view dedup store when set.
	RedisAddr string

	// ProfileDir holds the CLI target's client id and viewed markers.
	ProfileDir string
}

func Load() *Config {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		StoreBackend:            getEnv("STORE_BACKEND", "firestore"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", "./firebase_credentials.json"),
		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseDatabaseURL:     getEnv("FIREBASE_DATABASE_URL", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDB:                 getEnv("MONGO_DB", "izmirdestek"),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		RedisAddr:               getEnv("REDIS_ADDR", ""),
		ProfileDir:              getEnv("PROFILE_DIR", defaultProfileDir()),
	}
}

func defaultProfileDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".izmirdestek"
	}
	return home + "/.izmirdestek"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
