package config

import (
	"encoding/base64"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

type Config struct {
	Port          string
	MongoURI      string
	DBName        string
	S3Bucket      string
	S3Region      string
	S3AccessKeyID string
	S3SecretKey   string
	JWTSecret     string
	MaxUploadMB   int64

	// Seed credentials for the initial admin account.
	AdminUsername string
	AdminEmail    string
	AdminPassword string

	// SMTP settings for verification result mails; Host empty disables mail.
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	// 32 bytes for AES-256; optional, base64 in env. Nil disables mnemonic
	// encryption at rest.
	MnemonicEncryptionKey []byte
}

func Load() (*Config, error) {
	maxMB := int64(10)
	if v := getEnv("MAX_UPLOAD_MB", "10"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			maxMB = n
		}
	}
	smtpPort := 587
	if v := getEnv("SMTP_PORT", "587"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			smtpPort = n
		}
	}
	var mnemonicKey []byte
	if k := getEnv("MNEMONIC_ENCRYPTION_KEY", ""); k != "" {
		mnemonicKey, _ = base64.StdEncoding.DecodeString(k)
		if len(mnemonicKey) != 32 {
			mnemonicKey = nil
		}
	}

	return &Config{
		Port:                  getEnv("PORT", "8080"),
		MongoURI:              getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		DBName:                getEnv("MONGODB_DB", "kuryepanel"),
		S3Bucket:              getEnv("AWS_S3_BUCKET", ""),
		S3Region:              getEnv("AWS_REGION", "eu-central-1"),
		S3AccessKeyID:         getEnv("AWS_ACCESS_KEY_ID", ""),
		S3SecretKey:           getEnv("AWS_SECRET_ACCESS_KEY", ""),
		JWTSecret:             getEnv("JWT_SECRET", "change-me-in-production"),
		MaxUploadMB:           maxMB,
		AdminUsername:         getEnv("ADMIN_USERNAME", "admin"),
		AdminEmail:            getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword:         getEnv("ADMIN_PASSWORD", ""),
		SMTPHost:              getEnv("SMTP_HOST", ""),
		SMTPPort:              smtpPort,
		SMTPUser:              getEnv("SMTP_USER", ""),
		SMTPPass:              getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:              getEnv("SMTP_FROM", ""),
		MnemonicEncryptionKey: mnemonicKey,
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// RequiredEnvVars are checked at startup; app exits if any are unset.
var RequiredEnvVars = []string{
	"MONGODB_URI",
	"MONGODB_DB",
	"JWT_SECRET",
}

var secretEnvVars = map[string]bool{
	"JWT_SECRET":              true,
	"AWS_ACCESS_KEY_ID":       true,
	"AWS_SECRET_ACCESS_KEY":   true,
	"ADMIN_PASSWORD":          true,
	"SMTP_PASSWORD":           true,
	"MNEMONIC_ENCRYPTION_KEY": true,
}

// OptionalEnvVars are logged at startup so you can confirm they are loaded when set.
var OptionalEnvVars = []string{
	"PORT",
	"AWS_S3_BUCKET",
	"AWS_REGION",
	"MAX_UPLOAD_MB",
	"SMTP_HOST",
	"SMTP_FROM",
	"ADMIN_USERNAME",
	"ADMIN_EMAIL",
}

// ValidateEnv checks that all required env vars are set and logs the status
// of required + optional ones. Exits if any required var is missing.
func ValidateEnv() {
	log := zap.L()
	var missing []string
	for _, key := range RequiredEnvVars {
		if strings.TrimSpace(os.Getenv(key)) == "" {
			missing = append(missing, key)
		} else {
			log.Info("env loaded", zap.String("key", key))
		}
	}
	if len(missing) > 0 {
		log.Fatal("missing required env (set these in .env or environment)",
			zap.String("keys", strings.Join(missing, ", ")))
	}
	for _, key := range OptionalEnvVars {
		v := strings.TrimSpace(os.Getenv(key))
		switch {
		case v == "":
			log.Info("env not set (optional)", zap.String("key", key))
		case secretEnvVars[key]:
			log.Info("env loaded", zap.String("key", key))
		default:
			log.Info("env loaded", zap.String("key", key), zap.String("value", v))
		}
	}
	if os.Getenv("JWT_SECRET") == "change-me-in-production" {
		log.Fatal("JWT_SECRET must be set to a strong secret (not the default change-me-in-production)")
	}
	if k := os.Getenv("MNEMONIC_ENCRYPTION_KEY"); k != "" {
		dec, _ := base64.StdEncoding.DecodeString(k)
		if len(dec) != 32 {
			log.Fatal("MNEMONIC_ENCRYPTION_KEY must be 32 bytes base64 (generate with: openssl rand -base64 32)",
				zap.Int("got_bytes", len(dec)))
		}
	}
}
