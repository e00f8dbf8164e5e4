package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Booking  BookingConfig
	Realtime RealtimeConfig
	Paging   PagingConfig
	Logging  LoggingConfig
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Host           string        `envconfig:"HTTP_HOST" default:"0.0.0.0"`
	Port           string        `envconfig:"HTTP_PORT" default:"8080"`
	GRPCHealthPort string        `envconfig:"GRPC_HEALTH_PORT" default:"7010"`
	ReadTimeout    time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout   time.Duration `envconfig:"WRITE_TIMEOUT" default:"15s"`
	Environment    string        `envconfig:"ENVIRONMENT" default:"development"` // development, staging, production
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host         string `envconfig:"MYSQL_HOST" default:"localhost"`
	Port         string `envconfig:"MYSQL_PORT" default:"3306"`
	Username     string `envconfig:"MYSQL_USERNAME" default:"gocoach"`
	Password     string `envconfig:"MYSQL_PASSWORD" default:"gocoach123"`
	DatabaseName string `envconfig:"MYSQL_DATABASE" default:"gocoach"`
	MaxOpenConns int    `envconfig:"MYSQL_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns int    `envconfig:"MYSQL_MAX_IDLE_CONNS" default:"5"`
	AutoMigrate  bool   `envconfig:"MYSQL_AUTO_MIGRATE" default:"true"`
}

type AuthConfig struct {
	JWTSecret string `envconfig:"JWT_SECRET" default:"change-me"`
	Issuer    string `envconfig:"JWT_ISSUER" default:"gocoach"`
}

type BookingConfig struct {
	// OneMeetingPerRequest marks a request consumed once it has a live meeting.
	OneMeetingPerRequest bool `envconfig:"BOOKING_ONE_MEETING_PER_REQUEST" default:"false"`
}

type RealtimeConfig struct {
	SendBuffer int           `envconfig:"WS_SEND_BUFFER" default:"128"`
	ReadLimit  int64         `envconfig:"WS_READ_LIMIT" default:"65536"`
	PingPeriod time.Duration `envconfig:"WS_PING_PERIOD" default:"30s"`
	PongWait   time.Duration `envconfig:"WS_PONG_WAIT" default:"60s"`

	// EventBuffer bounds the queue of meeting events waiting for delivery.
	EventBuffer int `envconfig:"EVENT_BUFFER" default:"1000"`
}

type PagingConfig struct {
	ChatPageSize    int `envconfig:"CHAT_PAGE_SIZE" default:"50"`
	MeetingPageSize int `envconfig:"MEETING_PAGE_SIZE" default:"20"`
	MaxPageSize     int `envconfig:"MAX_PAGE_SIZE" default:"100"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`  // debug, info, warn, error
	Format string `envconfig:"LOG_FORMAT" default:"text"` // json, text
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug(".env file not found, using system environment variables")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.Server.Environment == "production" && cfg.Auth.JWTSecret == "change-me" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if cfg.Realtime.PingPeriod >= cfg.Realtime.PongWait {
		return fmt.Errorf("WS_PING_PERIOD must be shorter than WS_PONG_WAIT")
	}
	if cfg.Paging.MaxPageSize < cfg.Paging.ChatPageSize || cfg.Paging.MaxPageSize < cfg.Paging.MeetingPageSize {
		return fmt.Errorf("MAX_PAGE_SIZE must not be smaller than the default page sizes")
	}
	return nil
}

func (cfg *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DatabaseName,
	)
}

// SlogLevel translates LOG_LEVEL into a slog level, defaulting to info.
func (l LoggingConfig) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
