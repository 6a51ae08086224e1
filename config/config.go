package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServiceName  string
	OTELEndpoint string
	Port         string

	DatabaseDriver string
	DatabaseDSN    string

	// SiteCurrency is used for payments that do not name their own currency.
	SiteCurrency string
	// Gateways are the gateway names this deployment accepts, e.g. "Dummy".
	Gateways []string
	// CVNMode asks merchant hosted forms for the card verification number.
	CVNMode bool
}

// Load loads configuration from environment variables. Values in a .env
// file, when present, fill in anything not already set.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServiceName:    getEnv("SERVICE_NAME", "payment-records"),
		OTELEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		Port:           getEnv("PORT", "8081"),
		DatabaseDriver: getEnv("DB_DRIVER", "sqlite"),
		DatabaseDSN:    getEnv("DB_DSN", "payments.db"),
		SiteCurrency:   getEnv("SITE_CURRENCY", "USD"),
		Gateways:       splitList(getEnv("PAYMENT_GATEWAYS", "Dummy,Cheque")),
		CVNMode:        getBool("CVN_MODE", true),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
