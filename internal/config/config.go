package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string

	JWTSecret    string
	JWTExpiresIn time.Duration
	// JWTExpiresInRaw keeps the duration exactly as configured; the auth
	// response echoes this string back as expiresIn.
	JWTExpiresInRaw string

	// ProfileStackCount is the daily swipe/profile-view quota per user.
	ProfileStackCount int

	GoogleClientID string

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	SNSRegion string

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users             string
	Profiles          string
	Swipes            string
	Subscriptions     string
	Plans             string
	Notifications     string
	Photos            string
	UserVerifications string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	jwtExpiresIn, jwtExpiresInRaw := getEnvDurationPair("JWT_EXPIRES_IN", 24*time.Hour, "24h")

	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:             getEnv("DYNAMO_TABLE_USERS", "users"),
			Profiles:          getEnv("DYNAMO_TABLE_PROFILES", "profiles"),
			Swipes:            getEnv("DYNAMO_TABLE_SWIPES", "swipes"),
			Subscriptions:     getEnv("DYNAMO_TABLE_SUBSCRIPTIONS", "subscriptions"),
			Plans:             getEnv("DYNAMO_TABLE_PLANS", "plans"),
			Notifications:     getEnv("DYNAMO_TABLE_NOTIFICATIONS", "notifications"),
			Photos:            getEnv("DYNAMO_TABLE_PHOTOS", "photos"),
			UserVerifications: getEnv("DYNAMO_TABLE_USER_VERIFICATIONS", "user_verifications"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "go-match-photos"),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTExpiresIn:    jwtExpiresIn,
		JWTExpiresInRaw: jwtExpiresInRaw,

		ProfileStackCount: getEnvInt("PROFILE_STACK_COUNT", 20),

		GoogleClientID: getEnv("GOOGLE_CLIENT_ID", ""),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		SNSRegion: getEnv("SNS_REGION", "us-east-1"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// getEnvDurationPair parses a duration env var and returns it together with
// the raw string it was parsed from. An unset or unparseable value falls back
// to the defaults as a pair, so the raw string always describes the duration.
func getEnvDurationPair(key string, fallback time.Duration, fallbackRaw string) (time.Duration, string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d, v
		}
	}
	return fallback, fallbackRaw
}
