package config

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
	PublicBaseURL   string
}

type MinioConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PublicBaseURL string
}

type MailConfig struct {
	Server   string
	Port     int
	UseTLS   bool
	Username string
	Password string
	NoReply  string
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type Config struct {
	SecretKey   string
	DatabaseURL string
	Port        string
	Environment string
	BaseURL     string

	PostsPerPage     int
	SessionDuration  time.Duration
	RememberDuration time.Duration
	ResetTokenTTL    time.Duration

	// Longest edge, in pixels, of stored images per upload category.
	AvatarSize    int
	PostImageSize int

	StorageDriver string
	StaticDir     string

	RedisAddr     string
	RedisPassword string

	CorsConfig cors.Options
	Mail       MailConfig
	R2         R2Config
	Minio      MinioConfig
	Google     GoogleConfig
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads the process environment, after merging an optional .env file
// (ENV_FILE overrides the path).
func Load() Config {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("No", envFile, "file found")
	}

	port := getEnv("PORT", "8080")

	return Config{
		SecretKey:   getEnv("SECRET_KEY", "something"),
		DatabaseURL: getEnv("DATABASE_URL", "sqlite://app.db"),
		Port:        port,
		Environment: getEnv("ENV", "development"),
		BaseURL:     strings.TrimRight(getEnv("BASE_URL", "http://localhost:"+port), "/"),

		PostsPerPage:     getEnvInt("POSTS_PER_PAGE", 3),
		SessionDuration:  getEnvDuration("SESSION_DURATION", 24*time.Hour),
		RememberDuration: getEnvDuration("REMEMBER_COOKIE_DURATION", 30*24*time.Hour),
		ResetTokenTTL:    getEnvDuration("RESET_TOKEN_TTL", 10*time.Minute),

		AvatarSize:    getEnvInt("AVATAR_SIZE", 125),
		PostImageSize: getEnvInt("POST_IMAGE_SIZE", 600),

		StorageDriver: getEnv("STORAGE_DRIVER", "local"),
		StaticDir:     getEnv("STATIC_DIR", "static"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		CorsConfig: CorsConfig(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		Mail: MailConfig{
			Server:   getEnv("MAIL_SERVER", ""),
			Port:     getEnvInt("MAIL_PORT", 587),
			UseTLS:   getEnvBool("MAIL_USE_TLS", true),
			Username: getEnv("MAIL_USERNAME", ""),
			Password: getEnv("MAIL_PASSWORD", ""),
			NoReply:  getEnv("EMAIL_NO_REPLY", "noreply@localhost"),
		},
		R2: R2Config{
			AccountID:       getEnv("R2_ACCOUNT_ID", ""),
			AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
			BucketName:      getEnv("R2_BUCKET_NAME", ""),
			Region:          getEnv("R2_REGION", "auto"),
			PublicBaseURL:   getEnv("R2_PUBLIC_BASE_URL", ""),
		},
		Minio: MinioConfig{
			Endpoint:      getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey:     getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey:     getEnv("MINIO_SECRET_KEY", ""),
			Bucket:        getEnv("MINIO_BUCKET", "recipeshare"),
			UseSSL:        getEnvBool("MINIO_USE_SSL", false),
			PublicBaseURL: getEnv("MINIO_PUBLIC_BASE_URL", ""),
		},
		Google: GoogleConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:"+port+"/auth/google/callback"),
		},
	}
}

// Gets the env by key or fallbacks
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		log.Printf("Invalid %s=%q, using %d", key, value, fallback)
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Invalid %s=%q, using %t", key, value, fallback)
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Printf("Invalid %s=%q, using %s", key, value, fallback)
		return fallback
	}
	return d
}

// CorsConfig applies to the read-only JSON API only.
func CorsConfig(origins string) cors.Options {
	var allowed []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			allowed = append(allowed, o)
		}
	}
	return cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}
}
