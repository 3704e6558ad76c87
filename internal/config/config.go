package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	SessionStoreMemory   = "memory"
	SessionStorePostgres = "postgres"
)

// Configはアプリ全体の設定
type Config struct {
	Port  string // サーバーポート（8080）
	GoEnv string // dev/prod

	SessionSecret string        // セッションcookie（JWT）の署名シークレット
	SessionTTL    time.Duration // 操作が無いセッションの寿命
	MaxSessions   int           // 同時に保持するセッション数の上限

	CatalogLocation string // data/products.json / https://... / s3://bucket/key
	AWSRegion       string // S3のリージョン
	S3Endpoint      string // S3互換の向き先（空ならAWS）

	CheckoutURL string        // メッセージボットのURL
	FrameDelay  time.Duration // Opening→Open
	CloseDelay  time.Duration // Closing→Closed

	SessionStore string // memory / postgres
	DatabaseURL  string // postgresのDSN（SessionStore=postgresのとき）
}

// Loadは環境変数
func Load() (Config, error) {
	ttl, err := durationOr("SESSION_TTL", 30*time.Minute)
	if err != nil {
		return Config{}, err
	}
	maxSessions, err := atoiOr("MAX_SESSIONS", 10000)
	if err != nil {
		return Config{}, err
	}
	frame, err := durationOr("OVERLAY_FRAME_DELAY", 16*time.Millisecond)
	if err != nil {
		return Config{}, err
	}
	closeDelay, err := durationOr("OVERLAY_CLOSE_DELAY", 250*time.Millisecond)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:  os.Getenv("PORT"),
		GoEnv: getenv("GO_ENV", "dev"),

		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionTTL:    ttl,
		MaxSessions:   maxSessions,

		CatalogLocation: getenv("CATALOG_LOCATION", "data/products.json"),
		AWSRegion:       os.Getenv("AWS_REGION"),
		S3Endpoint:      os.Getenv("S3_ENDPOINT"),

		CheckoutURL: getenv("CHECKOUT_URL", "https://t.me/storefront_bot"),
		FrameDelay:  frame,
		CloseDelay:  closeDelay,

		SessionStore: getenv("SESSION_STORE", SessionStoreMemory),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.SessionSecret == "" {
		return Config{}, fmt.Errorf("SESSION_SECRET is required")
	}
	if cfg.MaxSessions < 1 {
		return Config{}, fmt.Errorf("MAX_SESSIONS must be positive")
	}
	switch cfg.SessionStore {
	case SessionStoreMemory:
	case SessionStorePostgres:
		// DATABASE_URL があれば最優先で使う
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = postgresDSN()
		}
	default:
		return Config{}, fmt.Errorf("SESSION_STORE must be memory or postgres: %q", cfg.SessionStore)
	}

	return cfg, nil
}

// IsProd は cookie の Secure などに使う
func (c Config) IsProd() bool {
	return c.GoEnv == "prod"
}

// Addr は ":8080" 形式
func (c Config) Addr() string {
	if c.Port != "" && c.Port[0] == ':' {
		return c.Port
	}
	return ":" + c.Port
}

func postgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getenv("POSTGRES_HOST", "localhost"),
		getenv("POSTGRES_PORT", "5432"),
		getenv("POSTGRES_USER", "postgres"),
		getenv("POSTGRES_PASSWORD", "postgres"),
		getenv("POSTGRES_DB", "app"),
		getenv("POSTGRES_SSLMODE", "disable"),
	)
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiOr(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func durationOr(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}
