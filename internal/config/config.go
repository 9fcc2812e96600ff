package config

import (
	"github.com/ilyakaznacheev/cleanenv"
	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	Env      string `env:"ENV" env-default:"dev"`
	HTTPAddr string `env:"HTTP_ADDR" env-default:":8080"`
	GinMode  string `env:"GIN_MODE" env-default:"debug"`

	DBHost     string `env:"DB_HOST" env-default:"localhost"`
	DBPort     string `env:"DB_PORT" env-default:"3306"`
	DBUser     string `env:"DB_USER" env-default:"tracker"`
	DBPassword string `env:"DB_PASSWORD" env-default:"trackerpassword"`
	DBName     string `env:"DB_NAME" env-default:"productivity_tracker"`

	RedisHost string `env:"REDIS_HOST" env-default:"localhost"`
	RedisPort string `env:"REDIS_PORT" env-default:"6379"`

	SessionSecret string `env:"SESSION_SECRET" env-default:"default-secret-key-change-me"`

	// RateLimit is the number of requests allowed per client IP per minute.
	RateLimit int `env:"RATE_LIMIT" env-default:"120"`
}

// Load reads the configuration from the environment. A .env file, if
// present, was already loaded by the godotenv autoload import.
func Load() (*Config, error) {
	cfg := new(Config)
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
