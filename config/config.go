package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port             string
	MongoURI         string
	MongoDatabase    string
	RedisAddr        string
	RedisPassword    string
	RedisQueuePrefix string
	IssueRateLimit   int
	JWTSecret        string
	Env              string
}

// Load reads configuration from the environment. MongoURI and RedisAddr are
// optional: without them the server runs on in-memory storage with no rate
// limiting.
func Load() *Config {
	return &Config{
		Port:             getEnv("PORT", "8080"),
		MongoURI:         os.Getenv("MONGODB_URI"),
		MongoDatabase:    getEnv("MONGODB_DATABASE", "civictrack"),
		RedisAddr:        os.Getenv("REDIS_ADDRESS"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisQueuePrefix: getEnv("REDIS_QUEUE_FOR_ISSUE_LIMIT", "issue-limit"),
		IssueRateLimit:   getEnvInt("ISSUE_RATE_LIMIT", 10),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		Env:              getEnv("GO_ENV", "development"),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
