// Package config centralises configuration parsing for the most-active cookie analyzer.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Config captures runtime configuration values. Command-line flags override these.
type Config struct {
	FileExtension     string        // Required source file suffix; empty accepts any file.
	Output            string        // text or json.
	Quiet             bool          // Suppress diagnostic logging.
	MetricsFile       string        // Path for a Prometheus textfile dump; empty disables it.
	Publish           bool          // Publish the report to Kafka.
	KafkaBrokers      []string
	ReportTopic       string
	SchemaRegistryURL string        // Optional; enables Confluent framing when set.
	PublishTimeout    time.Duration // Upper bound for registry calls and the Kafka write.
}

// Load reads environment variables into Config, applying defaults.
func Load() Config {
	return Config{
		FileExtension:     getEnv("MOSTACTIVE_FILE_EXTENSION", ".csv"),
		Output:            getEnv("MOSTACTIVE_OUTPUT", OutputText),
		Quiet:             getBoolEnv("MOSTACTIVE_QUIET", false),
		MetricsFile:       getEnv("MOSTACTIVE_METRICS_FILE", ""),
		Publish:           getBoolEnv("MOSTACTIVE_PUBLISH", false),
		KafkaBrokers:      splitAndTrim(getEnv("KAFKA_BROKERS", "localhost:9092")),
		ReportTopic:       getEnv("MOSTACTIVE_REPORT_TOPIC", "cookie_activity_reports"),
		SchemaRegistryURL: getEnv("SCHEMA_REGISTRY_URL", ""),
		PublishTimeout:    getDurationEnv("MOSTACTIVE_PUBLISH_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
