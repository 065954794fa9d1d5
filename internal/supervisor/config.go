package supervisor

import (
	"os"
	"strconv"
	"time"

	"github.com/eleven-am/vision-nav/internal/shared"
)

type Config struct {
	DetectorURL   string
	DetectorModel string
	MinConfidence float64

	VideoSource string

	APIBaseURL string
	APIToken   string

	LiveKitURL       string
	LiveKitAPIKey    string
	LiveKitAPISecret string
	LiveKitRoom      string
	Identity         string
	UseLiveKit       bool

	ObstacleThreshold float64
	PublishInterval   time.Duration

	DisplayAddr string
}

func LoadConfig() *Config {
	return &Config{
		DetectorURL:   getEnv("DETECTOR_URL", "http://localhost:9090"),
		DetectorModel: getEnv("DETECTOR_MODEL", "yolov8n-seg"),
		MinConfidence: getEnvFloat("VISION_MIN_CONF", 0.35),

		VideoSource: getEnv("VIDEO_SOURCE", ""),

		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8080"),
		APIToken:   getEnv("VISION_API_TOKEN", ""),

		LiveKitURL:       getEnv("LIVEKIT_URL", ""),
		LiveKitAPIKey:    getEnv("LIVEKIT_API_KEY", ""),
		LiveKitAPISecret: getEnv("LIVEKIT_API_SECRET", ""),
		LiveKitRoom:      getEnv("LIVEKIT_ROOM", "vision-nav-room"),
		Identity:         getEnv("VISION_IDENTITY", shared.NewID("vision-supervisor-")),
		UseLiveKit:       getEnv("VISION_USE_LIVEKIT", "true") == "true",

		ObstacleThreshold: getEnvFloat("VISION_OBSTACLE_THRESHOLD", 0.4),
		PublishInterval:   getEnvDuration("VISION_PUBLISH_INTERVAL", 500*time.Millisecond),

		DisplayAddr: getEnv("VISION_DISPLAY", ""),
	}
}

// LiveKitReady reports whether the config carries everything needed to
// join a room over LiveKit.
func (c *Config) LiveKitReady() bool {
	return c.LiveKitURL != "" && c.LiveKitAPIKey != "" && c.LiveKitAPISecret != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
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
