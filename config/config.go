package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lthoa462/homework/models"
)

// Config is built once in main and handed to the components that need it.
type Config struct {
	Port   string
	AppEnv string

	DatabaseURL string

	JWTSecret  string
	SessionTTL time.Duration

	SupabaseURL   string
	SupabaseKey   string
	StorageBucket string

	PublicBaseURL string
	CORSOrigins   []string

	// TrustedProxies may set X-Forwarded-For. Empty trusts nobody.
	TrustedProxies []string

	LoginRatePerMinute int
}

// IsProduction decides whether the session cookie carries the Secure flag.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// AllowedOrigins merges PUBLIC_BASE_URL into the CORS allow-list.
func (c Config) AllowedOrigins() []string {
	origins := make([]string, 0, len(c.CORSOrigins)+1)
	seen := make(map[string]struct{})
	add := func(o string) {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" {
			return
		}
		if _, ok := seen[o]; ok {
			return
		}
		seen[o] = struct{}{}
		origins = append(origins, o)
	}
	add(c.PublicBaseURL)
	for _, o := range c.CORSOrigins {
		add(o)
	}
	return origins
}

// Load reads the process environment. Call godotenv.Load before it if a .env
// file should be honoured.
func Load() (Config, error) {
	cfg := Config{
		Port:               getEnv("PORT", "8080"),
		AppEnv:             getEnv("APP_ENV", "development"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		SessionTTL:         time.Hour,
		SupabaseURL:        strings.TrimRight(os.Getenv("SUPABASE_URL"), "/"),
		SupabaseKey:        os.Getenv("SUPABASE_KEY"),
		StorageBucket:      getEnv("STORAGE_BUCKET", "uploads"),
		PublicBaseURL:      os.Getenv("PUBLIC_BASE_URL"),
		LoginRatePerMinute: 10,
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is not set")
	}

	if ttl := os.Getenv("SESSION_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid SESSION_TTL %q", ttl)
		}
		cfg.SessionTTL = d
	}

	if rate := os.Getenv("LOGIN_RATE_PER_MINUTE"); rate != "" {
		n, err := strconv.Atoi(rate)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid LOGIN_RATE_PER_MINUTE %q", rate)
		}
		cfg.LoginRatePerMinute = n
	}

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = strings.Split(origins, ",")
	}

	cfg.TrustedProxies = splitList(os.Getenv("TRUSTED_PROXIES"))

	cfg.DatabaseURL = DatabaseURLFromEnv()

	return cfg, nil
}

// DatabaseURLFromEnv returns DATABASE_URL, or a DSN assembled from the DB_*
// variables when it is unset.
func DatabaseURLFromEnv() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_USER", "postgres"),
		os.Getenv("DB_PASSWORD"),
		getEnv("DB_NAME", "homework"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_SSLMODE", "disable"),
	)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// OpenDB connects to PostgreSQL, tunes the pool and migrates every model.
func OpenDB(dsn string) (*gorm.DB, error) {
	lg := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         lg,
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the tables for every model.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.HomeworkReport{},
		&models.SubjectEntry{},
		&models.Schedule{},
	)
	if err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// InitDB is the fail-fast variant used by main.
func InitDB(cfg Config) *gorm.DB {
	db, err := OpenDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Không thể kết nối database: ", err)
	}
	log.Println("postgreSQL connected & migrated successfully!")
	return db
}
