package bootstrap

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ServerAddr string
	LogLevel   string

	LiveKitURL       string
	LiveKitAPIKey    string
	LiveKitAPISecret string
	DefaultRoom      string

	VisionAPIToken string

	DetectorURL   string
	DetectorModel string

	GoogleMapsAPIKey string

	DecisionTTL  time.Duration
	HistoryLimit int
}

func LoadConfig() *Config {
	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		LiveKitURL:       getEnv("LIVEKIT_URL", ""),
		LiveKitAPIKey:    getEnv("LIVEKIT_API_KEY", ""),
		LiveKitAPISecret: getEnv("LIVEKIT_API_SECRET", ""),
		DefaultRoom:      getEnv("LIVEKIT_ROOM", "vision-nav-room"),

		VisionAPIToken: getEnv("VISION_API_TOKEN", ""),

		DetectorURL:   getEnv("DETECTOR_URL", ""),
		DetectorModel: getEnv("DETECTOR_MODEL", "yolov8n-seg"),

		GoogleMapsAPIKey: getEnv("GOOGLE_MAPS_API_KEY", ""),

		DecisionTTL:  getEnvDuration("NAVIGATION_DECISION_TTL", 5*time.Second),
		HistoryLimit: getEnvInt("NAVIGATION_HISTORY_LIMIT", 50),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
