package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config carries everything the service reads from the environment.
type Config struct {
	Addr              string
	MongoURI          string
	DBName            string
	WebhookURL        string
	KeepaliveURL      string
	LinkCheckInterval time.Duration
	LinkCheckLimit    int
}

const (
	defaultLinkCheckInterval = 15 * time.Minute
	defaultLinkCheckLimit    = 100
)

// Load resolves the runtime configuration from environment variables,
// falling back to defaults that work for local development.
func Load() Config {
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	viper.SetDefault("DB_NAME", "anime_db")
	viper.SetDefault("WEBHOOK_URL", "")
	viper.SetDefault("KEEPALIVE_URL", "")
	viper.SetDefault("LINK_CHECK_INTERVAL", defaultLinkCheckInterval)
	viper.SetDefault("LINK_CHECK_LIMIT", defaultLinkCheckLimit)
	viper.AutomaticEnv()

	cfg := Config{
		Addr:              ":" + viper.GetString("PORT"),
		MongoURI:          viper.GetString("MONGODB_URI"),
		DBName:            viper.GetString("DB_NAME"),
		WebhookURL:        viper.GetString("WEBHOOK_URL"),
		KeepaliveURL:      viper.GetString("KEEPALIVE_URL"),
		LinkCheckInterval: viper.GetDuration("LINK_CHECK_INTERVAL"),
		LinkCheckLimit:    viper.GetInt("LINK_CHECK_LIMIT"),
	}
	// Malformed env values parse as zero, and the checker's ticker needs a
	// positive interval.
	if cfg.LinkCheckInterval <= 0 {
		cfg.LinkCheckInterval = defaultLinkCheckInterval
	}
	if cfg.LinkCheckLimit <= 0 {
		cfg.LinkCheckLimit = defaultLinkCheckLimit
	}
	return cfg
}
