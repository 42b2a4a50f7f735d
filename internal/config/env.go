package config

import (
	"os"

	"github.com/joho/godotenv"
)

// loadDotEnv loads .env from the working directory. Variables already set in
// the environment win, and a missing file is not an error.
func loadDotEnv() {
	_ = godotenv.Load(".env")
}

// applyEnv overrides file values with environment variables.
func applyEnv(c *Config) {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Cache.Backend, "LOGOFIELD_CACHE")
	set(&c.Cache.Dir, "LOGOFIELD_CACHE_DIR")
	set(&c.Cache.RedisURL, "REDIS_URL")
	set(&c.Store.Backend, "LOGOFIELD_STORE")
	set(&c.Store.MongoURI, "MONGO_URI")
	set(&c.Server.Addr, "LOGOFIELD_ADDR")
	set(&c.Portal.BaseURL, "PORTAL_BASE_URL")
	set(&c.Portal.Token, "PORTAL_API_TOKEN")
}
