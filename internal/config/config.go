package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	Telemetry TelemetryConfig

	Beds24 Beds24Config

	AvailabilityCacheTTL time.Duration

	WebhookSecret    string
	BookingRateLimit float64
	BookingRateBurst int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CatalogFile string
}

// TelemetryConfig groups logging and tracing settings.
type TelemetryConfig struct {
	LogLevel      string
	LogFormat     string
	OtelEnabled   bool
	OTLPEndpoint  string
	OTLPProtocol  string
	SamplingRatio float64
}

// Beds24Config groups the property-management API settings.
type Beds24Config struct {
	APIKey     string
	PropKey    string
	PropertyID string
	BaseURL    string
	PayURL     string
	Timeout    time.Duration
}

// HasCredentials reports whether both API credentials are present.
func (c Beds24Config) HasCredentials() bool {
	return strings.TrimSpace(c.APIKey) != "" && strings.TrimSpace(c.PropKey) != ""
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:     getenv("APP_SERVICE", "channelbridge"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		Telemetry: TelemetryConfig{
			LogLevel:      strings.ToLower(strings.TrimSpace(getenv("LOG_LEVEL", ""))),
			LogFormat:     strings.ToLower(strings.TrimSpace(getenv("LOG_FORMAT", "json"))),
			OtelEnabled:   getenvBool("OTEL_ENABLED", false),
			OTLPEndpoint:  strings.TrimSpace(getenv("OTEL_EXPORTER_OTLP_ENDPOINT", getenv("OTLP_ENDPOINT", "localhost:4317"))),
			OTLPProtocol:  strings.ToLower(strings.TrimSpace(getenv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"))),
			SamplingRatio: getenvFloat("OTEL_SAMPLING_RATIO", 0.1),
		},
		Beds24: Beds24Config{
			APIKey:     strings.TrimSpace(getenv("BEDS24_API_KEY", "")),
			PropKey:    strings.TrimSpace(getenv("BEDS24_PROP_KEY", "")),
			PropertyID: strings.TrimSpace(getenv("BEDS24_PROPERTY_ID", "151309")),
			BaseURL:    strings.TrimRight(getenv("BEDS24_BASE_URL", "https://api.beds24.com/json"), "/"),
			PayURL:     getenv("BEDS24_PAY_URL", "https://beds24.com/bookpay.php"),
			Timeout:    getenvDuration("BEDS24_TIMEOUT", 12*time.Second),
		},
		AvailabilityCacheTTL: getenvDuration("AVAILABILITY_CACHE_TTL", 5*time.Minute),
		WebhookSecret:        getenv("WEBHOOK_SECRET", ""),
		BookingRateLimit:     getenvFloat("BOOKING_RATE_LIMIT", 0),
		BookingRateBurst:     int(getenvInt64("BOOKING_RATE_BURST", 5)),
		RedisAddr:            strings.TrimSpace(getenv("REDIS_ADDR", "")),
		RedisPassword:        getenv("REDIS_PASSWORD", ""),
		RedisDB:              int(getenvInt64("REDIS_DB", 0)),
		CatalogFile:          strings.TrimSpace(getenv("CATALOG_FILE", "")),
	}

	return cfg
}

// IsDevelopment reports whether the service runs in a local or test environment.
func (c Config) IsDevelopment() bool {
	switch strings.ToLower(strings.TrimSpace(c.Environment)) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvBool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
