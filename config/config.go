package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	// Store selection: postgres, mongo or memory
	StoreDriver   string
	DBUrl         string
	MongoURI      string
	MongoDatabase string
	// Auth
	JWTSecret     string
	JWTTTLHours   int
	CookieSecure  bool
	AdminEmail    string
	AdminPassword string
	// Browser origins
	FrontendURL string
	CORSOrigins []string
	// Photo storage: s3 or local
	StorageDriver  string
	UploadDir      string
	PublicBaseURL  string
	S3Provider     string
	S3AccessKeyID  string
	S3SecretKey    string
	S3Region       string
	S3Bucket       string
	S3Endpoint     string
	S3PublicURL    string
	MaxPhotos      int
	MaxPhotoBytes  int64
	UploadsPerHour int
	// SMTP
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SMTPFromEmail string
	AdminEmailTo  string
	// Redis/Upstash Configuration
	UpstashRedisURL      string
	UpstashRedisPassword string
	// Rate Limiting Configuration
	RateLimitGlobalThreshold int
	FailedLoginBlockMinutes  int
	FailedLoginMaxAttempts   int
	FailedLoginWindowMinutes int
}

func LoadConfig() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	frontend := strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/")
	port := getEnv("PORT", "8080")

	cfg := &Config{
		Port:        port,
		Environment: getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		StoreDriver:   strings.ToLower(getEnv("STORE_DRIVER", "postgres")),
		DBUrl:         getEnv("DATABASE_URL", ""),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "matrimony"),

		JWTSecret:     getEnv("JWT_SECRET", ""),
		JWTTTLHours:   getEnvInt("JWT_TTL_HOURS", 24),
		CookieSecure:  getEnvBool("COOKIE_SECURE", true),
		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		FrontendURL: frontend,
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", frontend)),

		StorageDriver:  strings.ToLower(getEnv("STORAGE_DRIVER", "local")),
		UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
		PublicBaseURL:  strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:"+port), "/"),
		S3Provider:     getEnv("S3_PROVIDER", "aws"),
		S3AccessKeyID:  getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretKey:    getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Region:       getEnv("S3_REGION", "us-east-1"),
		S3Bucket:       getEnv("S3_BUCKET", ""),
		S3Endpoint:     getEnv("S3_ENDPOINT", ""),
		S3PublicURL:    strings.TrimRight(getEnv("S3_PUBLIC_URL", ""), "/"),
		MaxPhotos:      getEnvInt("MAX_PHOTOS", 6),
		MaxPhotoBytes:  int64(getEnvInt("MAX_PHOTO_BYTES", 5<<20)),
		UploadsPerHour: getEnvInt("UPLOADS_PER_HOUR", 30),

		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SMTPFromEmail: getEnv("SMTP_FROM_EMAIL", ""),
		AdminEmailTo:  getEnv("ADMIN_NOTIFY_EMAIL", getEnv("ADMIN_EMAIL", "")),

		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),

		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100), // per minute
		FailedLoginBlockMinutes:  getEnvInt("FAILED_LOGIN_BLOCK_MINUTES", 15),
		FailedLoginMaxAttempts:   getEnvInt("FAILED_LOGIN_MAX_ATTEMPTS", 5),
		FailedLoginWindowMinutes: getEnvInt("FAILED_LOGIN_WINDOW_MINUTES", 15),
	}

	if cfg.StoreDriver == "postgres" && cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.JWTSecret == "" {
		log.Println("WARNING: JWT_SECRET is missing. Login will fail until it is set.")
	}
	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with production defaults.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimRight(strings.TrimSpace(part), "/"); part != "" {
			out = append(out, part)
		}
	}
	return out
}
