package app

import (
	"strings"
	"time"

	"github.com/yungbote/seobrain/internal/platform/envutil"
)

type Config struct {
	LogMode     string
	Environment string
	Version     string
	HTTPAddr    string
	// AdminToken guards /api; empty leaves it open.
	AdminToken     string
	AllowedOrigins []string

	DBDriver         string
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresName     string
	PostgresSSLMode  string
	SQLitePath       string
	AutoMigrate      bool

	CacheBackend  string
	RedisURL      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTextTTL  time.Duration

	LLMBaseURL    string
	LLMAPIKey     string
	LLMModel      string
	LLMTimeout    time.Duration
	LLMJSONMode   string
	LLMJSONRetry  int
	TextCacheName string

	ImageBaseURL    string
	ImageAPIKey     string
	ImageModel      string
	ImageTimeout    time.Duration
	ImageMaxRetries int
	ImageKeyPrefix  string

	ObjectStorageMode   string
	StorageEmulatorHost string
	StoragePublicBase   string
	ImagesBucket        string
	ImagesCDN           string
	CardsBucket         string
	CardsCDN            string

	SiteBaseURL        string
	BusinessName       string
	Currency           string
	PageRequireReview  bool
	SocialCardsEnabled bool
	CityStylesPath     string

	TargetCities  int
	BatchSize     int
	RatePerSecond float64
	RateBurst     int
	BatchPause    time.Duration
	CityTimeout   time.Duration

	OptimizerEnabled   bool
	OptimizerCron      string
	OptimizerThreshold float64
	OptimizerTopCount  int

	OtelEnabled     bool
	OtelServiceName string
	OtelEndpoint    string
	OtelHeaders     string
	OtelInsecure    bool
	OtelSampleRatio float64
}

func LoadConfig() Config {
	return Config{
		LogMode:        envutil.String("LOG_MODE", "development"),
		Environment:    envutil.String("APP_ENV", "development"),
		Version:        envutil.String("APP_VERSION", "dev"),
		HTTPAddr:       envutil.String("HTTP_ADDR", ":8080"),
		AdminToken:     envutil.String("ADMIN_API_TOKEN", ""),
		AllowedOrigins: splitList(envutil.String("CORS_ALLOWED_ORIGINS", "")),

		DBDriver:         envutil.String("DB_DRIVER", "postgres"),
		PostgresHost:     envutil.String("POSTGRES_HOST", "localhost"),
		PostgresPort:     envutil.String("POSTGRES_PORT", "5432"),
		PostgresUser:     envutil.String("POSTGRES_USER", "postgres"),
		PostgresPassword: envutil.String("POSTGRES_PASSWORD", ""),
		PostgresName:     envutil.String("POSTGRES_NAME", "seobrain"),
		PostgresSSLMode:  envutil.String("POSTGRES_SSLMODE", "disable"),
		SQLitePath:       envutil.String("SQLITE_PATH", "seobrain.db"),
		AutoMigrate:      envutil.Bool("DB_AUTO_MIGRATE", true),

		CacheBackend:  strings.ToLower(envutil.String("CACHE_BACKEND", "redis")),
		RedisURL:      envutil.String("REDIS_URL", ""),
		RedisAddr:     envutil.String("REDIS_ADDR", "localhost:6379"),
		RedisPassword: envutil.String("REDIS_PASSWORD", ""),
		RedisDB:       envutil.Int("REDIS_DB", 0),
		CacheTextTTL:  envutil.Duration("CACHE_TEXT_TTL", 24*time.Hour),

		LLMBaseURL:    envutil.String("LLM_BASE_URL", "http://localhost:11434"),
		LLMAPIKey:     envutil.String("LLM_API_KEY", ""),
		LLMModel:      envutil.String("LLM_MODEL", "llama3.1"),
		LLMTimeout:    time.Duration(envutil.Int("LLM_TIMEOUT_SECONDS", 120)) * time.Second,
		LLMJSONMode:   envutil.String("LLM_JSON_MODE", "auto"),
		LLMJSONRetry:  envutil.Int("LLM_JSON_MAX_RETRIES", 0),
		TextCacheName: envutil.String("LLM_CACHE_SERVICE", "ollama"),

		ImageBaseURL:    envutil.String("IMAGE_BASE_URL", "https://api.openai.com"),
		ImageAPIKey:     envutil.String("IMAGE_API_KEY", ""),
		ImageModel:      envutil.String("IMAGE_MODEL", "gpt-image-1"),
		ImageTimeout:    time.Duration(envutil.Int("IMAGE_TIMEOUT_SECONDS", 180)) * time.Second,
		ImageMaxRetries: envutil.Int("IMAGE_MAX_RETRIES", 3),
		ImageKeyPrefix:  envutil.String("IMAGE_KEY_PREFIX", "seo"),

		ObjectStorageMode:   strings.ToLower(envutil.String("OBJECT_STORAGE_MODE", "")),
		StorageEmulatorHost: envutil.String("STORAGE_EMULATOR_HOST", ""),
		StoragePublicBase:   envutil.String("OBJECT_STORAGE_PUBLIC_BASE_URL", ""),
		ImagesBucket:        envutil.String("SEO_IMAGES_GCS_BUCKET", ""),
		ImagesCDN:           envutil.String("SEO_IMAGES_CDN_DOMAIN", ""),
		CardsBucket:         envutil.String("SEO_CARDS_GCS_BUCKET", ""),
		CardsCDN:            envutil.String("SEO_CARDS_CDN_DOMAIN", ""),

		SiteBaseURL:        envutil.String("SITE_BASE_URL", ""),
		BusinessName:       envutil.String("BUSINESS_NAME", ""),
		Currency:           envutil.String("CURRENCY", "USD"),
		PageRequireReview:  envutil.Bool("PAGE_REQUIRE_REVIEW", false),
		SocialCardsEnabled: envutil.Bool("SOCIAL_CARDS_ENABLED", true),
		CityStylesPath:     envutil.String("CITY_STYLES_PATH", ""),

		TargetCities:  envutil.Int("CAMPAIGN_TARGET_CITIES", 200),
		BatchSize:     envutil.Int("CAMPAIGN_BATCH_SIZE", 10),
		RatePerSecond: envutil.Float("CAMPAIGN_RATE_PER_SECOND", 5),
		RateBurst:     envutil.Int("CAMPAIGN_RATE_BURST", 10),
		BatchPause:    envutil.Duration("CAMPAIGN_BATCH_PAUSE", 0),
		CityTimeout:   envutil.Duration("CAMPAIGN_CITY_TIMEOUT", 5*time.Minute),

		OptimizerEnabled:   envutil.Bool("OPTIMIZER_ENABLED", true),
		OptimizerCron:      envutil.String("OPTIMIZER_CRON", "@every 6h"),
		OptimizerThreshold: envutil.Float("OPTIMIZER_LOSER_THRESHOLD", 30),
		OptimizerTopCount:  envutil.Int("OPTIMIZER_TOP_COUNT", 10),

		OtelEnabled:     envutil.Bool("OTEL_ENABLED", false),
		OtelServiceName: envutil.String("OTEL_SERVICE_NAME", "seobrain"),
		OtelEndpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OtelHeaders:     envutil.String("OTEL_EXPORTER_OTLP_HEADERS", ""),
		OtelInsecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
		OtelSampleRatio: envutil.Float("OTEL_SAMPLE_RATIO", 1),
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
