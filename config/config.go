package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	aws_pkg "github.com/ayoogunade/AyoZon/pkg/aws"
)

// Config holds all environment-driven settings for the storefront service.
// It is loaded once at startup and treated as read-only afterwards.
type Config struct {
	Env  string
	Port string

	MongoURI string
	MongoDB  string

	StripeSecretKey      string
	StripePublishableKey string

	// Session signing key for the admin cookie
	SecretKey     string
	AdminUsername string
	AdminPassword string

	ResendAPIKey  string
	ResendBaseURL string
	FromEmail     string

	UploadBackend string // "local" or "s3"
	UploadDir     string
	PublicBaseURL string
	S3Bucket      string
	S3Prefix      string
	S3PublicURL   string

	RedisURL string

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string
	PostgresSSLMode  string
	PostgresTimeZone string

	OrderSNSTopicARN string
	AllowedOrigins   []string

	CloudWatchEnabled   bool
	CloudWatchNamespace string
	CloudWatchLogGroup  string
}

// SecretsGetter is the subset of the Secrets Manager client used for overrides.
type SecretsGetter interface {
	GetSecret(ctx context.Context, name string) (string, error)
	GetSecretMap(ctx context.Context, name string) (map[string]string, error)
}

// LoadConfig reads configuration from environment variables. If AWS_USE_SECRETS=true
// sensitive values are replaced with Secrets Manager entries when available.
func LoadConfig() (*Config, error) {
	cfg := fromEnv()

	if os.Getenv("AWS_USE_SECRETS") == "true" {
		if awsCfg, err := aws_pkg.LoadAWSConfig(context.Background()); err == nil {
			applySecrets(context.Background(), cfg, aws_pkg.NewSecretsClient(awsCfg))
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromEnv() *Config {
	port := getEnv("PORT", "5003")
	return &Config{
		Env:  getEnv("APP_ENV", "development"),
		Port: port,

		MongoURI: os.Getenv("MONGO_URI"),
		MongoDB:  getEnv("MONGO_DB", "amazon_clone"),

		StripeSecretKey:      os.Getenv("STRIPE_SECRET_KEY"),
		StripePublishableKey: os.Getenv("STRIPE_PUBLISHABLE_KEY"),

		SecretKey:     getEnv("SECRET_KEY", "dev-secret-key-change-in-production"),
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),

		ResendAPIKey:  os.Getenv("RESEND_API_KEY"),
		ResendBaseURL: getEnv("RESEND_BASE_URL", "https://api.resend.com"),
		FromEmail:     os.Getenv("FROM_EMAIL"),

		UploadBackend: strings.ToLower(getEnv("UPLOAD_BACKEND", "local")),
		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:"+port), "/"),
		S3Bucket:      os.Getenv("AWS_S3_BUCKET"),
		S3Prefix:      getEnv("AWS_S3_PREFIX", "products/"),
		S3PublicURL:   os.Getenv("AWS_S3_PUBLIC_URL"),

		RedisURL: os.Getenv("REDIS_URL"),

		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTimeZone: getEnv("POSTGRES_TIMEZONE", "UTC"),

		OrderSNSTopicARN: os.Getenv("ORDER_SNS_TOPIC_ARN"),
		AllowedOrigins:   splitOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),

		CloudWatchEnabled:   os.Getenv("CLOUDWATCH_ENABLED") == "true",
		CloudWatchNamespace: getEnv("CLOUDWATCH_NAMESPACE", "Storefront"),
		CloudWatchLogGroup:  getEnv("CLOUDWATCH_LOG_GROUP", "/storefront/services"),
	}
}

// applySecrets overrides sensitive settings. Keys in the JSON bundle named by
// AWS_SECRETS_BUNDLE win; the rest fall back to one secret per key under "storefront/".
func applySecrets(ctx context.Context, cfg *Config, sm SecretsGetter) {
	overrides := map[string]*string{
		"STRIPE_SECRET_KEY": &cfg.StripeSecretKey,
		"RESEND_API_KEY":    &cfg.ResendAPIKey,
		"ADMIN_PASSWORD":    &cfg.AdminPassword,
		"SECRET_KEY":        &cfg.SecretKey,
	}
	bundle, err := sm.GetSecretMap(ctx, getEnv("AWS_SECRETS_BUNDLE", "storefront"))
	if err != nil {
		bundle = nil
	}
	for key, target := range overrides {
		if v := bundle[key]; v != "" {
			*target = v
			continue
		}
		if v, err := sm.GetSecret(ctx, "storefront/"+key); err == nil && v != "" {
			*target = v
		}
	}
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.StripeSecretKey == "" {
		return fmt.Errorf("STRIPE_SECRET_KEY is required")
	}
	if c.StripePublishableKey == "" {
		return fmt.Errorf("STRIPE_PUBLISHABLE_KEY is required")
	}
	switch c.UploadBackend {
	case "local":
	case "s3":
		if c.S3Bucket == "" {
			return fmt.Errorf("AWS_S3_BUCKET is required when UPLOAD_BACKEND=s3")
		}
	default:
		return fmt.Errorf("unsupported UPLOAD_BACKEND %q", c.UploadBackend)
	}
	return nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// AWSEnabled reports whether any component needs an AWS config.
func (c *Config) AWSEnabled() bool {
	return c.UploadBackend == "s3" || c.OrderSNSTopicARN != "" || c.CloudWatchEnabled
}

// PostgresEnabled reports whether the notification log database is configured.
func (c *Config) PostgresEnabled() bool {
	return c.PostgresHost != "" && c.PostgresUser != "" && c.PostgresDB != ""
}

// PostgresDSN builds the gorm postgres DSN.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB,
		c.PostgresPort, c.PostgresSSLMode, c.PostgresTimeZone,
	)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func splitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(o), "/")); o != "" {
			out = append(out, o)
		}
	}
	return out
}
