// internal/infrastructure/config/config.go
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application. Every collaborator
// receives its values explicitly at construction; nothing reads the
// environment at call time.
type Config struct {
	// App
	AppVersion string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Form recognizer (boarding pass + identity document extraction)
	FormRecognizerEndpoint string
	FormRecognizerKey      string
	FormRecognizerModelID  string
	PollAttempts           int
	PollInterval           time.Duration

	// Face comparison
	FaceEndpoint string
	FaceKey      string

	// Object detection
	VisionEndpoint      string
	VisionPredictionKey string
	VisionProjectID     string
	VisionIteration     string

	// Validation thresholds
	FaceConfidenceMin float64
	LighterThreshold  float64

	// Postgres (manifest store)
	PostgresURI string

	// MongoDB (decision log)
	MongoURI string
	MongoDB  string

	// Data
	DataDir      string
	ManifestPath string
	ValidatedDir string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	// Set defaults and override with env vars
	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		FormRecognizerEndpoint: getEnv("FORM_RECOGNIZER_ENDPOINT", ""),
		FormRecognizerKey:      getEnv("FORM_RECOGNIZER_KEY", ""),
		FormRecognizerModelID:  getEnv("FORM_RECOGNIZER_MODEL_ID", ""),
		PollAttempts:           getEnvAsInt("EXTRACTION_POLL_ATTEMPTS", 4),
		PollInterval:           time.Duration(getEnvAsInt("EXTRACTION_POLL_INTERVAL", 2)) * time.Second,

		FaceEndpoint: getEnv("FACE_ENDPOINT", ""),
		FaceKey:      getEnv("FACE_KEY", ""),

		VisionEndpoint:      getEnv("VISION_ENDPOINT", ""),
		VisionPredictionKey: getEnv("VISION_PREDICTION_KEY", ""),
		VisionProjectID:     getEnv("VISION_PROJECT_ID", ""),
		VisionIteration:     getEnv("VISION_ITERATION", ""),

		FaceConfidenceMin: getEnvAsFloat("FACE_CONFIDENCE_MIN", 0.6),
		LighterThreshold:  getEnvAsFloat("LIGHTER_THRESHOLD", 0.2),

		PostgresURI: getEnv("POSTGRES_DSN", ""),

		MongoURI: getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "checkpoint"),

		DataDir:      getEnv("DATA_DIR", "data/raw"),
		ManifestPath: getEnv("MANIFEST_PATH", "data/raw/flight_manifest.csv"),
		ValidatedDir: getEnv("VALIDATED_DIR", "data/validated"),
	}

	return config, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}
