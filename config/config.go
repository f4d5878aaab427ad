package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	Env           string
	LogLevel      string
	DBUrl         string
	JWTSecret     string
	AllowedOrigin string
	// PublicBaseURL is the externally reachable URL of this server; image proxy URLs are built from it.
	PublicBaseURL     string
	AccessTokenExpiry time.Duration
	// AdminEmails are granted is_admin when they register.
	AdminEmails []string
	// DB Config
	DBMaxConns        int32
	DBMinConns        int32
	DBMaxConnIdleTime time.Duration
	// Product feed
	FeedProxyURL      string
	FeedScriptURL     string
	FeedRetries       int
	FeedBackoff       time.Duration
	FeedTimeout       time.Duration
	FeedMobileTimeout time.Duration
	// Catalog
	CatalogTTL      time.Duration
	CatalogPageSize int
	TopSellerCount  int
	DefaultPrice    float64
	// Browsing sessions (cart + catalog view)
	SessionTTL time.Duration
	// Checkout
	WhatsAppNumber  string
	MaxCartQuantity int
	// Registration mirror
	RegistrationScriptURL string
	// Images
	DriveCredentialsFile string
	ImageFetchTimeout    time.Duration
	CacheImageTTL        time.Duration
	MaxImageWidth        int
	// R2 Storage (image mirror)
	R2AccountID       string
	R2AccessKeyID     string
	R2AccessKeySecret string
	R2BucketName      string
	R2PublicURL       string
	R2UploadTimeout   time.Duration
	// Assistant
	GeminiAPIKey         string
	GeminiModel          string
	GeminiThinkingBudget int32
}

const defaultJWTSecret = "default_secret_CHANGE_ME"

func LoadConfig() *Config {
	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		if err := godotenv.Load(configFile); err != nil {
			log.Printf("Warning: Failed to load config file '%s': %v", configFile, err)
		} else {
			log.Printf("Loaded configuration from %s", configFile)
		}
	} else {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found or error loading it, relying on system env vars")
		}
	}

	cfg := &Config{
		Port:              getEnv("PORT", "8000"),
		Env:               getEnv("ENV", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DBUrl:             getEnv("DB_DSN", ""),
		JWTSecret:         getEnv("JWT_SECRET_KEY", defaultJWTSecret),
		AllowedOrigin:     getEnv("ALLOWED_ORIGIN", "*"),
		PublicBaseURL:     getEnv("PUBLIC_BASE_URL", "http://localhost:8000"),
		AccessTokenExpiry: getDurationEnv("ACCESS_TOKEN_EXPIRY", 7*24*time.Hour),
		AdminEmails:       getListEnv("ADMIN_EMAILS"),

		DBMaxConns:        getInt32Env("DB_MAX_CONNS", 10),
		DBMinConns:        getInt32Env("DB_MIN_CONNS", 1),
		DBMaxConnIdleTime: getDurationEnv("DB_MAX_CONN_IDLE_TIME", 15*time.Minute),

		FeedProxyURL:      getEnv("FEED_PROXY_URL", ""),
		FeedScriptURL:     getEnv("FEED_SCRIPT_URL", "https://script.google.com/macros/s/AKfycbwJeBmEY53VYRy_axC-aVJ-rhXxHmTnWTbObJugG4G2soVW_Bo_SyUqXytu6oKtR8c/exec"),
		FeedRetries:       getIntEnv("FEED_RETRIES", 3),
		FeedBackoff:       getDurationEnv("FEED_BACKOFF", time.Second),
		FeedTimeout:       getDurationEnv("FEED_TIMEOUT", 15*time.Second),
		FeedMobileTimeout: getDurationEnv("FEED_MOBILE_TIMEOUT", 30*time.Second),

		CatalogTTL:      getDurationEnv("CATALOG_TTL", 10*time.Minute),
		CatalogPageSize: getIntEnv("CATALOG_PAGE_SIZE", 20),
		TopSellerCount:  getIntEnv("TOP_SELLER_COUNT", 10),
		DefaultPrice:    getFloatEnv("DEFAULT_PRICE", 25),

		SessionTTL: getDurationEnv("SESSION_TTL", 24*time.Hour),

		WhatsAppNumber:  getEnv("WHATSAPP_NUMBER", "584146266306"),
		MaxCartQuantity: getIntEnv("MAX_CART_QUANTITY", 99),

		RegistrationScriptURL: getEnv("APPSCRIPT_REGISTRATION_URL", ""),

		DriveCredentialsFile: getEnv("DRIVE_CREDENTIALS_FILE", ""),
		ImageFetchTimeout:    getDurationEnv("IMAGE_FETCH_TIMEOUT", 30*time.Second),
		CacheImageTTL:        getDurationEnv("CACHE_IMAGE_TTL", 6*time.Hour),
		MaxImageWidth:        getIntEnv("MAX_IMAGE_WIDTH", 2000),

		R2AccountID:       getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
		R2AccessKeySecret: getEnv("R2_ACCESS_KEY_SECRET", ""),
		R2BucketName:      getEnv("R2_BUCKET_NAME", ""),
		R2PublicURL:       getEnv("R2_PUBLIC_URL", ""),
		R2UploadTimeout:   getDurationEnv("R2_UPLOAD_TIMEOUT", 30*time.Second),

		GeminiAPIKey:         getEnv("GEMINI_API_KEY", ""),
		GeminiModel:          getEnv("GEMINI_MODEL", "gemini-2.5-pro"),
		GeminiThinkingBudget: getInt32Env("GEMINI_THINKING_BUDGET", 32768),
	}

	cfg.Validate()
	return cfg
}

func (c *Config) Validate() {
	if c.JWTSecret == defaultJWTSecret {
		if c.IsProduction() {
			log.Fatal("CRITICAL: JWT_SECRET_KEY must be set in production")
		}
		log.Println("WARNING: Using default JWT secret. Setting up for failure in production.")
	}
	if c.DBUrl == "" {
		log.Println("WARNING: DB_DSN not set, auth and admin endpoints are disabled")
	}
	if c.FeedRetries < 1 {
		c.FeedRetries = 1
	}
	if c.CatalogPageSize < 1 {
		c.CatalogPageSize = 20
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// R2Enabled reports whether every R2 credential needed for the image mirror is present.
func (c *Config) R2Enabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2AccessKeySecret != "" && c.R2BucketName != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid duration for %s, using fallback", key)
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		log.Printf("Invalid int for %s, using fallback", key)
	}
	return fallback
}

func getFloatEnv(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		log.Printf("Invalid float for %s, using fallback", key)
	}
	return fallback
}
