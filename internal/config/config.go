package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds all configuration for the application
type Config struct {
	Port              string
	Version           string
	LogLevel          string
	CatalogEndpoint   string // Remote product catalog API (read-only)
	CatalogTimeout    int    // Catalog fetch timeout in seconds
	ProductCacheTTL   int    // Product listing cache TTL in minutes
	ResponseDelayMS   int    // Simulated bot "thinking" delay in milliseconds
	WelcomeDelayMS    int    // Delay before the welcome message appears in milliseconds
	SessionTTLMinutes int    // Idle sessions older than this are evicted
	DefaultLanguage   string // Fallback language when a visitor has no saved preference
	LanguageStorePath string // Path of the persisted language preference file; empty means in-memory only
	SendGridAPIKey    string // SendGrid API key for forwarding enquiry leads
	SalesEmail        string // Destination address for enquiry leads
	ContactPhone      string // Phone number shown in contact messages
	ContactEmail      string // Email address shown in contact messages
	WhatsAppURL       string // Live chat link shown in support messages
	CatalogPDFURL     string // Download link shown in catalog messages
}

// Load initializes and returns application configuration
func Load() *Config {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Port:              getEnv("PORT", "8080"),
		Version:           getEnv("VERSION", "1.0.0"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		CatalogEndpoint:   getEnv("CATALOG_ENDPOINT", "https://crud-backend-a70z.onrender.com/api/products"),
		CatalogTimeout:    getEnvInt("CATALOG_TIMEOUT", 10),
		ProductCacheTTL:   getEnvInt("PRODUCT_CACHE_TTL", 5),
		ResponseDelayMS:   getEnvInt("RESPONSE_DELAY_MS", 1500),
		WelcomeDelayMS:    getEnvInt("WELCOME_DELAY_MS", 1000),
		SessionTTLMinutes: getEnvInt("SESSION_TTL_MINUTES", 30),
		DefaultLanguage:   getEnv("DEFAULT_LANGUAGE", "en"),
		LanguageStorePath: os.Getenv("LANGUAGE_STORE_PATH"),
		SendGridAPIKey:    os.Getenv("SENDGRID_API_KEY"),
		SalesEmail:        getEnv("SALES_EMAIL", "sales@swansorter.com"),
		ContactPhone:      getEnv("CONTACT_PHONE", "+1 (555) 123-4567"),
		ContactEmail:      getEnv("CONTACT_EMAIL", "support@swansorter.com"),
		WhatsAppURL:       getEnv("WHATSAPP_URL", "https://wa.me/15551234567"),
		CatalogPDFURL:     getEnv("CATALOG_PDF_URL", "https://swansorter.com/downloads/catalog.pdf"),
	}

	return config
}

// getEnv gets an environment variable with a default fallback
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as integer with a default fallback
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// SetupLogger configures zerolog with JSON output and single-line format
func (c *Config) SetupLogger() zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", "swanchat").
		Str("version", c.Version).
		Logger()

	// Set log level based on configuration
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger = logger.Level(level)

	return logger
}
