package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool

	// Session tokens
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Mock persistence
	SnapshotPath string

	// Price feed
	PriceTickInterval time.Duration

	// AI collaborator
	AssistantBaseURL string
	AssistantAPIKey  string
	AssistantTimeout time.Duration

	// CORS
	FrontendBaseURL string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "12h")
	viper.SetDefault("JWT_ISSUER", "golden-digital-gold")
	viper.SetDefault("SNAPSHOT_PATH", "data/snapshot.json")
	viper.SetDefault("PRICE_TICK_INTERVAL", "5s")
	viper.SetDefault("ASSISTANT_BASE_URL", "")
	viper.SetDefault("ASSISTANT_API_KEY", "")
	viper.SetDefault("ASSISTANT_TIMEOUT", "20s")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiry, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiry = 12 * time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION (%q). Defaulting to %s.\n", jwtExpiryStr, jwtExpiry)
	}
	cfg.JWTExpiryDuration = jwtExpiry

	cfg.SnapshotPath = viper.GetString("SNAPSHOT_PATH")

	tickStr := viper.GetString("PRICE_TICK_INTERVAL")
	tick, err := time.ParseDuration(tickStr)
	if err != nil || tick <= 0 {
		tick = 5 * time.Second
		log.Printf("Warning: Invalid value for PRICE_TICK_INTERVAL (%q). Defaulting to %s.\n", tickStr, tick)
	}
	cfg.PriceTickInterval = tick

	cfg.AssistantBaseURL = viper.GetString("ASSISTANT_BASE_URL")
	cfg.AssistantAPIKey = viper.GetString("ASSISTANT_API_KEY")
	assistantTimeoutStr := viper.GetString("ASSISTANT_TIMEOUT")
	assistantTimeout, err := time.ParseDuration(assistantTimeoutStr)
	if err != nil || assistantTimeout <= 0 {
		assistantTimeout = 20 * time.Second
	}
	cfg.AssistantTimeout = assistantTimeout

	cfg.FrontendBaseURL = viper.GetString("FRONTEND_BASE_URL")

	return cfg, nil
}
