package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"BEDS24_API_KEY", "BEDS24_PROP_KEY", "BEDS24_TIMEOUT", "AVAILABILITY_CACHE_TTL", "WEBHOOK_SECRET"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "151309", cfg.Beds24.PropertyID)
	assert.Equal(t, "https://api.beds24.com/json", cfg.Beds24.BaseURL)
	assert.Equal(t, 12*time.Second, cfg.Beds24.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.AvailabilityCacheTTL)
	assert.False(t, cfg.Beds24.HasCredentials())
	assert.Empty(t, cfg.WebhookSecret)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BEDS24_API_KEY", " key ")
	t.Setenv("BEDS24_PROP_KEY", "prop")
	t.Setenv("BEDS24_BASE_URL", "http://localhost:9999/json/")
	t.Setenv("BEDS24_TIMEOUT", "3s")
	t.Setenv("AVAILABILITY_CACHE_TTL", "not-a-duration")

	cfg := Load()

	assert.Equal(t, "key", cfg.Beds24.APIKey)
	assert.True(t, cfg.Beds24.HasCredentials())
	assert.Equal(t, "http://localhost:9999/json", cfg.Beds24.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Beds24.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.AvailabilityCacheTTL)
}

func TestLoadTelemetry(t *testing.T) {
	t.Setenv("LOG_LEVEL", " DEBUG ")
	t.Setenv("OTEL_ENABLED", "yes")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTLP_ENDPOINT", "collector:4317")
	t.Setenv("OTEL_SAMPLING_RATIO", "0.5")
	t.Setenv("ENVIRONMENT", "production")

	cfg := Load()

	assert.Equal(t, "debug", cfg.Telemetry.LogLevel)
	assert.True(t, cfg.Telemetry.OtelEnabled)
	assert.Equal(t, "collector:4317", cfg.Telemetry.OTLPEndpoint)
	assert.Equal(t, "grpc", cfg.Telemetry.OTLPProtocol)
	assert.Equal(t, 0.5, cfg.Telemetry.SamplingRatio)
	assert.False(t, cfg.IsDevelopment())
}
