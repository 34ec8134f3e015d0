package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ストアのバックエンド種別
const (
	StoreBackendFirestore = "firestore"
	StoreBackendMemory    = "memory"
)

// Config サーバー全体の設定
type Config struct {
	Port               string
	StoreBackend       string
	FirestoreProjectID string
	CredentialsFile    string
	SupabaseURL        string
	SupabaseServiceKey string
	StorageBucket      string
	LogLevel           string
	ImportConcurrency  int
	JobCacheTTL        time.Duration
	TxMaxAttempts      int
	MemorySeedFile     string
}

// Load .env と環境変数から設定を読み込む
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		StoreBackend:       getEnv("STORE_BACKEND", StoreBackendFirestore),
		FirestoreProjectID: os.Getenv("FIRESTORE_PROJECT_ID"),
		CredentialsFile:    os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		SupabaseURL:        os.Getenv("SUPABASE_URL"),
		SupabaseServiceKey: os.Getenv("SUPABASE_SERVICE_KEY"),
		StorageBucket:      getEnv("SUPABASE_STORAGE_BUCKET", "spot-media"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		MemorySeedFile:     os.Getenv("MEMORY_SEED_FILE"),
	}

	var err error
	if cfg.ImportConcurrency, err = getEnvInt("IMPORT_CONCURRENCY", 4); err != nil {
		return nil, err
	}
	if cfg.TxMaxAttempts, err = getEnvInt("TX_MAX_ATTEMPTS", 5); err != nil {
		return nil, err
	}
	if cfg.JobCacheTTL, err = getEnvDuration("JOB_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 設定値の整合性チェック
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreBackendFirestore:
		if c.FirestoreProjectID == "" {
			return fmt.Errorf("FIRESTORE_PROJECT_ID環境変数が設定されていません")
		}
	case StoreBackendMemory:
	default:
		return fmt.Errorf("未知のSTORE_BACKEND: %s", c.StoreBackend)
	}
	if c.ImportConcurrency < 1 {
		return fmt.Errorf("IMPORT_CONCURRENCYは1以上である必要があります")
	}
	if c.TxMaxAttempts < 1 {
		return fmt.Errorf("TX_MAX_ATTEMPTSは1以上である必要があります")
	}
	return nil
}

// BlobStoreEnabled Supabase Storage の資格情報が揃っているか
func (c *Config) BlobStoreEnabled() bool {
	return c.SupabaseURL != "" && c.SupabaseServiceKey != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%sの値が不正です: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%sの値が不正です: %w", key, err)
	}
	return d, nil
}
