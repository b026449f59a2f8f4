package config

import (
	"flag"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// DefaultMaxUploadSizeMB — лимит загрузки, если UPLOAD_MAX_SIZE_MB не задан или некорректен.
const DefaultMaxUploadSizeMB = 4

// Blob backends.
const (
	BlobBackendDB       = "db"
	BlobBackendSupabase = "supabase"
	BlobBackendMinio    = "minio"
)

type Config struct {
	// Server-side settings
	DatabaseDSN     string        `env:"DATABASE_URI"`
	MaxUploadSizeMB int           `env:"UPLOAD_MAX_SIZE_MB"`
	BlobBackend     string        `env:"BLOB_BACKEND"`
	ShareSecret     string        `env:"SHARE_SECRET"`
	ShareTTL        time.Duration `env:"SHARE_TTL"`

	// Supabase Storage
	SupabaseURL        string `env:"SUPABASE_URL"`
	SupabaseServiceKey string `env:"SUPABASE_SERVICE_KEY"`
	SupabaseBucket     string `env:"SUPABASE_BUCKET"`

	// MinIO / S3
	MinioEndpoint  string `env:"MINIO_ENDPOINT"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY"`
	MinioBucket    string `env:"MINIO_BUCKET"`
	MinioSecure    bool   `env:"MINIO_SECURE"`

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`
	// PublicURL — внешний адрес сервера для ссылок на загрузки и share-страницы.
	PublicURL string `env:"PUBLIC_URL"`

	// ServerURL вычисляется из BaseURL и EnableHTTPS.
	ServerURL string `env:"-"`
	Version   bool   `env:"-"` // show version and exit (flag only)
}

var hostPortRe = regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)

// Load читает .env и переменные окружения и заполняет значения по умолчанию.
// Флаги не трогает: CLI-клиент разбирает их сам.
func Load() *Config {
	cfg := fromEnv()
	cfg.applyDefaults()
	return cfg
}

func fromEnv() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)
	return cfg
}

// NewConfig — конфигурация сервера: env, затем флаги командной строки.
func NewConfig() *Config {
	cfg := fromEnv()

	// флаги работают поверх переменных окружения
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД (postgres:// или путь к sqlite)")
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "адрес сервера в виде host:port")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "внешние ссылки строятся по https")
	flag.StringVar(&cfg.PublicURL, "public-url", cfg.PublicURL, "внешний адрес сервера для ссылок")
	flag.IntVar(&cfg.MaxUploadSizeMB, "max-upload-mb", cfg.MaxUploadSizeMB, "максимальный размер изображения, МБ")
	flag.StringVar(&cfg.BlobBackend, "blob", cfg.BlobBackend, "хранилище изображений: db, supabase, minio")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show version and exit")

	flag.Parse()

	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = "file:statedeck.db"
	}
	if cfg.MaxUploadSizeMB <= 0 {
		cfg.MaxUploadSizeMB = DefaultMaxUploadSizeMB
	}
	cfg.BlobBackend = strings.ToLower(strings.TrimSpace(cfg.BlobBackend))
	if cfg.BlobBackend == "" {
		cfg.BlobBackend = BlobBackendDB
	}
	if cfg.ShareSecret == "" {
		cfg.ShareSecret = "dev-share-secret"
	}
	if cfg.ShareTTL <= 0 {
		cfg.ShareTTL = 30 * 24 * time.Hour
	}
	if cfg.SupabaseBucket == "" {
		cfg.SupabaseBucket = "uploads"
	}
	if cfg.MinioBucket == "" {
		cfg.MinioBucket = "uploads"
	}

	// BaseURL должен быть в виде "address:port" (без схемы и пути)
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8081"
	}
	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}
	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")
	if cfg.PublicURL == "" {
		cfg.PublicURL = cfg.ServerURL
	}
}

// MaxUploadBytes — текущий лимит загрузки в байтах.
func (cfg *Config) MaxUploadBytes() int64 {
	mb := cfg.MaxUploadSizeMB
	if mb <= 0 {
		mb = DefaultMaxUploadSizeMB
	}
	return int64(mb) * 1024 * 1024
}
