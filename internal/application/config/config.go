package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Debug    bool   `env:"DEBUG" envDefault:"false"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Port       string `env:"PORT" envDefault:"3000"`
	MetricPort string `env:"METRIC_PORT" envDefault:"9090"`
	Domain     string `env:"DOMAIN" envDefault:"http://localhost:3000"`
	WebURL     string `env:"WEB_URL" envDefault:"http://localhost:5173"`

	JWTSecret string        `env:"JWT_SECRET,required,notEmpty"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"72h"`

	// RateLimit - запросов в секунду на одного клиента HTTP API
	RateLimit float64 `env:"RATE_LIMIT" envDefault:"20"`

	// AdminPasswordHash - bcrypt хеш пароля для доступа к админке
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`

	Session  SessionConfig
	Google   GoogleConfig
	Postgres PostgresConfig
}

type SessionConfig struct {
	EventQueueSize        int           `env:"EVENT_QUEUE_SIZE" envDefault:"1024"`
	SendQueueSize         int           `env:"WS_SEND_QUEUE_SIZE" envDefault:"64"`
	WriteThroughQueueSize int           `env:"WRITE_THROUGH_QUEUE_SIZE" envDefault:"256"`
	WriteThroughTimeout   time.Duration `env:"WRITE_THROUGH_TIMEOUT" envDefault:"5s"`
}

type GoogleConfig struct {
	ClientID     string `env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	RedirectURL  string `env:"GOOGLE_REDIRECT_URL" envDefault:"http://localhost:3000/api/auth/google/callback"`
}

type PostgresConfig struct {
	URL string `env:"POSTGRES_URL"`

	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER" envDefault:"postgres"`
	Password string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	Name     string `env:"POSTGRES_NAME" envDefault:"listenroom"`
	SSL      string `env:"POSTGRES_SSL" envDefault:"disable"`
}

func (p *PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}

	return fmt.Sprintf("postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		p.User,
		p.Password,
		p.Host,
		p.Port,
		p.Name,
		p.SSL,
	)
}

// SlogLevel переводит LOG_LEVEL в уровень slog, неизвестные значения дают info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func New() (*Config, error) {
	c, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if c.Session.EventQueueSize <= 0 || c.Session.SendQueueSize <= 0 || c.Session.WriteThroughQueueSize <= 0 {
		return nil, fmt.Errorf("queue sizes must be positive")
	}

	return &c, nil
}
