package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server     ServerConfig
	Worker     WorkerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	RabbitMQ   RabbitMQConfig
	MinIO      MinIOConfig
	Downloader DownloaderConfig
	Upstream   UpstreamConfig
	Cache      CacheConfig
	Session    SessionConfig
}

type ServerConfig struct {
	Port            int           `envconfig:"API_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"API_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"API_WRITE_TIMEOUT" default:"180s"`
	ShutdownTimeout time.Duration `envconfig:"API_SHUTDOWN_TIMEOUT" default:"10s"`
}

type WorkerConfig struct {
	MaxRetries      int           `envconfig:"WORKER_MAX_RETRIES" default:"3"`
	ShutdownTimeout time.Duration `envconfig:"WORKER_SHUTDOWN_TIMEOUT" default:"30s"`
}

type DatabaseConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" default:"tubevault"`
	Password string `envconfig:"POSTGRES_PASSWORD" default:"tubevault"`
	DBName   string `envconfig:"POSTGRES_DB" default:"tubevault"`
	SSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type RabbitMQConfig struct {
	Host     string `envconfig:"RABBITMQ_HOST" default:"localhost"`
	Port     int    `envconfig:"RABBITMQ_PORT" default:"5672"`
	User     string `envconfig:"RABBITMQ_USER" default:"tubevault"`
	Password string `envconfig:"RABBITMQ_PASSWORD" default:"tubevault"`
	VHost    string `envconfig:"RABBITMQ_VHOST" default:"/"`
}

func (c RabbitMQConfig) URL() string {
	return fmt.Sprintf(
		"amqp://%s:%s@%s:%d%s",
		c.User, c.Password, c.Host, c.Port, c.VHost,
	)
}

type MinIOConfig struct {
	Endpoint string `envconfig:"MINIO_ENDPOINT" default:"localhost:9000"`
	// PublicEndpoint, when set, is used to sign download URLs handed to
	// browsers that cannot reach the internal endpoint.
	PublicEndpoint string `envconfig:"MINIO_PUBLIC_ENDPOINT" default:""`
	AccessKey      string `envconfig:"MINIO_ACCESS_KEY" default:"minioadmin"`
	SecretKey      string `envconfig:"MINIO_SECRET_KEY" default:"minioadmin"`
	Bucket         string `envconfig:"MINIO_BUCKET" default:"downloads"`
	UseSSL         bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

type DownloaderConfig struct {
	// BinPath is the external downloader binary. It is invoked as a child
	// process; only its exit code and the presence of the output file are
	// consumed.
	BinPath        string        `envconfig:"DOWNLOADER_BIN" default:"yt-dlp"`
	DownloadDir    string        `envconfig:"DOWNLOAD_DIR" default:"./static/downloads"`
	CookiesPath    string        `envconfig:"DOWNLOADER_COOKIES" default:"./cookies.txt"`
	PrimaryTimeout time.Duration `envconfig:"DOWNLOADER_PRIMARY_TIMEOUT" default:"90s"`
	SimpleTimeout  time.Duration `envconfig:"DOWNLOADER_SIMPLE_TIMEOUT" default:"60s"`
	HelperTimeout  time.Duration `envconfig:"DOWNLOADER_HELPER_TIMEOUT" default:"120s"`
}

type UpstreamConfig struct {
	BaseURL          string        `envconfig:"UPSTREAM_BASE_URL" default:"https://www.youtube.com"`
	ThumbnailBaseURL string        `envconfig:"UPSTREAM_THUMBNAIL_BASE_URL" default:"https://i.ytimg.com"`
	RequestTimeout   time.Duration `envconfig:"UPSTREAM_REQUEST_TIMEOUT" default:"15s"`
}

type CacheConfig struct {
	SearchTTL     time.Duration `envconfig:"SEARCH_CACHE_TTL" default:"1h"`
	SearchMaxSize int           `envconfig:"SEARCH_CACHE_MAX_SIZE" default:"100"`
}

type SessionConfig struct {
	TTL time.Duration `envconfig:"SESSION_TTL" default:"720h"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
