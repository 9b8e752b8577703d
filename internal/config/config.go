package config

import "os"

type Config struct {
	Server   ServerConfig
	JWT      JWTConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Admin    AdminConfig
}

type ServerConfig struct {
	Port string
}

type JWTConfig struct {
	SignerKey  string
	Issuer     string
	AccessTTL  string
	RefreshTTL string
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       string
}

type AdminConfig struct {
	Username string
	Password string
}

func Load() Config {
	return Config{
		Server: ServerConfig{
			Port: getenv("PORT", "8080"),
		},
		JWT: JWTConfig{
			SignerKey:  os.Getenv("JWT_SIGNER_KEY"),
			Issuer:     getenv("JWT_ISSUER", "identity-service"),
			AccessTTL:  getenv("JWT_ACCESS_TTL", "15m"),
			RefreshTTL: getenv("JWT_REFRESH_TTL", "168h"),
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getenv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getenv("REDIS_DB", "0"),
		},
		Admin: AdminConfig{
			Username: getenv("ADMIN_USERNAME", "admin"),
			Password: getenv("ADMIN_PASSWORD", "admin"),
		},
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
