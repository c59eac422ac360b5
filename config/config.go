package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string

	// Database
	DatabaseURL string
	MongoDBURL  string
	MongoDBName string
	RedisURL    string

	// JWT
	JWTSecret   string
	JWTTokenTTL time.Duration

	// Auth
	BcryptCost int

	// Cache
	CacheProfileTTL time.Duration

	// Github
	GithubAPIURL     string
	GithubToken      string
	GithubRepoLimit  int
	GithubTimeoutSec int

	// CORS
	AllowedOrigins []string
}

func Load() (*Config, error) {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", ""),
		MongoDBURL:  getEnv("MONGODB_URL", ""),
		MongoDBName: getEnv("MONGODB_DATABASE", "devconnect"),
		RedisURL:    getEnv("REDIS_URL", ""),

		// JWT
		JWTSecret:   getEnv("JWT_SECRET", ""),
		JWTTokenTTL: time.Duration(getEnvInt("JWT_TTL_HOUR", 100)) * time.Hour,

		// Auth
		BcryptCost: getEnvInt("BCRYPT_COST", 10),

		// Cache
		CacheProfileTTL: time.Duration(getEnvInt("CACHE_PROFILE_TTL_SEC", 60)) * time.Second,

		// Github
		GithubAPIURL:     getEnv("GITHUB_API_URL", "https://api.github.com"),
		GithubToken:      getEnv("GITHUB_TOKEN", ""),
		GithubRepoLimit:  getEnvInt("GITHUB_REPO_LIMIT", 5),
		GithubTimeoutSec: getEnvInt("GITHUB_TIMEOUT_SEC", 10),

		// CORS
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
