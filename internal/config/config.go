package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	awspkg "github.com/yashrajoria/catalog-service/internal/aws"
)

// Config holds all environment variables for the catalog service.
type Config struct {
	Env    string // APP_ENV, "production" switches to JSON logs
	Port   string
	APIURL string // route prefix, e.g. /api/v1

	MongoURI string
	MongoDB  string

	JWTSecret  string
	JWTTTL     time.Duration // zero means tokens carry no exp claim
	BcryptCost int

	UploadDir  string
	ImageStore string // "local" or "s3"
	S3Bucket   string
	S3Prefix   string

	RedisURL string
	CacheTTL time.Duration

	OrderTransactions bool
	AuthGlobalGuard   bool

	AllowedOrigins []string
	OrderTopicARN  string
	CloudWatch     bool

	CloudWatchLogs bool   // ship logs to CloudWatch Logs
	LogGroup       string // CloudWatch Logs group, stream is per process

	// Warnings are non-fatal problems found while loading. Load runs before
	// the logger exists, so callers log them once logging is up.
	Warnings []string
}

// jwtSecretName is the Secrets Manager id read when AWS_USE_SECRETS=true.
const jwtSecretName = "catalog/JWT_SECRET"

// fetchSecret reads a secret string from Secrets Manager.
var fetchSecret = func(ctx context.Context, name string) (string, error) {
	awsCfg, err := awspkg.LoadAWSConfig(ctx)
	if err != nil {
		return "", err
	}
	return awspkg.NewSecretsClient(awsCfg).GetSecret(ctx, name)
}

// Load reads .env (when present) and the process environment into Config and
// validates it. If AWS_USE_SECRETS=true the JWT secret is read from Secrets
// Manager, falling back to JWT_SECRET on failure.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:        getEnv("APP_ENV", "development"),
		Port:       getEnv("PORT", "3000"),
		APIURL:     strings.TrimSuffix(getEnv("API_URL", "/api/v1"), "/"),
		MongoURI:   getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:    getEnv("MONGO_DB", "eshop"),
		JWTSecret:  strings.TrimSpace(os.Getenv("JWT_SECRET")),
		UploadDir:  getEnv("UPLOAD_DIR", "public/uploads"),
		ImageStore: strings.ToLower(getEnv("IMAGE_STORE", "local")),
		S3Bucket:   getEnv("AWS_S3_BUCKET", "shopswift"),
		S3Prefix:   getEnv("AWS_S3_PREFIX", "products/"),
		RedisURL:   os.Getenv("REDIS_URL"),

		OrderTopicARN: os.Getenv("SNS_ORDER_TOPIC_ARN"),
		LogGroup:      getEnv("CLOUDWATCH_LOG_GROUP", "/catalog/service"),
	}

	var err error
	if cfg.JWTTTL, err = getDuration("JWT_TTL", 0); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.BcryptCost, err = getInt("BCRYPT_COST", 10); err != nil {
		return nil, err
	}
	if cfg.OrderTransactions, err = getBool("ORDER_TRANSACTIONS", false); err != nil {
		return nil, err
	}
	if cfg.AuthGlobalGuard, err = getBool("AUTH_GLOBAL_GUARD", false); err != nil {
		return nil, err
	}
	if cfg.CloudWatch, err = getBool("CLOUDWATCH_ENABLED", false); err != nil {
		return nil, err
	}
	if cfg.CloudWatchLogs, err = getBool("CLOUDWATCH_LOGS_ENABLED", false); err != nil {
		return nil, err
	}
	cfg.AllowedOrigins = splitList(getEnv("ALLOWED_ORIGINS", "*"))

	if os.Getenv("AWS_USE_SECRETS") == "true" {
		secret, err := fetchSecret(context.Background(), jwtSecretName)
		switch {
		case err != nil:
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("falling back to JWT_SECRET env: %v", err))
		case strings.TrimSpace(secret) == "":
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("falling back to JWT_SECRET env: secret %s is empty", jwtSecretName))
		default:
			cfg.JWTSecret = strings.TrimSpace(secret)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required fields and enumerations.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.MongoURI == "" || c.MongoDB == "" {
		return fmt.Errorf("MONGO_URI and MONGO_DB are required")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost)
	}
	switch c.ImageStore {
	case "local", "s3":
	default:
		return fmt.Errorf("IMAGE_STORE must be local or s3, got %q", c.ImageStore)
	}
	if c.CloudWatchLogs && c.LogGroup == "" {
		return fmt.Errorf("CLOUDWATCH_LOG_GROUP is required when CLOUDWATCH_LOGS_ENABLED=true")
	}
	if c.ImageStore == "s3" && c.S3Bucket == "" {
		return fmt.Errorf("AWS_S3_BUCKET is required when IMAGE_STORE=s3")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(strings.TrimSuffix(part, "/")); p != "" {
			out = append(out, p)
		}
	}
	return out
}
