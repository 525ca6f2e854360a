package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	JWTSecret string `env:"JWT_SECRET, required"`

	// TokenTTL bounds the validity of issued access tokens.
	TokenTTL time.Duration `env:"TOKEN_TTL, default=24h"`

	// Argon2id work factor for password hashing.
	ArgonMemoryKiB   int `env:"ARGON_MEMORY_KIB,  default=65536"`
	ArgonIterations  int `env:"ARGON_ITERATIONS,  default=1"`
	ArgonParallelism int `env:"ARGON_PARALLELISM, default=4"`

	RecorderWorkers int `env:"RECORDER_WORKERS, default=4"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=fabricat"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
