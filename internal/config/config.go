package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the process configuration read from the environment
type Config struct {
	Port     string
	Env      string
	LogLevel string

	DatabaseURL string
	RedisAddr   string

	LifestyleServiceURL string
	VisionServiceURL    string
	SensorServiceURL    string
	SensorDisabled      bool
	LifestyleDelay      time.Duration
	VisionDelay         time.Duration
	ScoringTimeout      time.Duration

	SessionTTL          time.Duration
	WizardTTL           time.Duration
	IdentityUserinfoURL string

	// EnvFileLoaded reports whether a .env file was found
	EnvFileLoaded bool
}

// Load reads .env when present, then the environment
func Load() *Config {
	loaded := godotenv.Load() == nil

	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("GO_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisAddr:   getEnv("REDIS_ADDR", ""),

		LifestyleServiceURL: getEnv("LIFESTYLE_SERVICE_URL", ""),
		VisionServiceURL:    getEnv("VISION_SERVICE_URL", ""),
		SensorServiceURL:    getEnv("SENSOR_SERVICE_URL", ""),
		SensorDisabled:      getBool("SENSOR_DISABLED", false),
		LifestyleDelay:      getDuration("LIFESTYLE_DELAY", 2*time.Second),
		VisionDelay:         getDuration("VISION_DELAY", 3*time.Second),
		ScoringTimeout:      getDuration("SCORING_TIMEOUT", 30*time.Second),

		SessionTTL:          getDuration("SESSION_TTL", 24*time.Hour),
		WizardTTL:           getDuration("WIZARD_TTL", time.Hour),
		IdentityUserinfoURL: getEnv("IDENTITY_USERINFO_URL", ""),

		EnvFileLoaded: loaded,
	}
}

// IsDevelopment reports whether GO_ENV selects development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration accepts Go durations ("1500ms") or plain seconds ("2")
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.ParseFloat(value, 64); err == nil && secs >= 0 {
		return time.Duration(secs * float64(time.Second))
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return b
}
