package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config carries the environment-driven settings shared by every command.
// Window bounds and per-invocation filters come from flags, not here.
type Config struct {
	TracePath string // KTRACE_TRACE (optional default trace)
	NATSURL   string // KTRACE_NATS_URL (optional, empty = no events)

	// Export destination settings
	ExportDir  string // KTRACE_EXPORT_DIR (default "ktrace_out")
	S3Bucket   string // KTRACE_S3_BUCKET (enables S3 upload when set)
	S3Endpoint string // KTRACE_S3_ENDPOINT (custom endpoint for MinIO)
	S3Region   string // KTRACE_S3_REGION (default "us-east-1")
	S3Prefix   string // KTRACE_S3_PREFIX (default "ktrace")

	// Anomaly thresholds
	SuspiciousMinBytes int64   // KTRACE_SUSPICIOUS_MIN_BYTES (default 1 MiB)
	NearZeroMS         float64 // KTRACE_NEAR_ZERO_MS (default 0.001)
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	c := &Config{
		TracePath:  os.Getenv("KTRACE_TRACE"),
		NATSURL:    os.Getenv("KTRACE_NATS_URL"),
		ExportDir:  envOrDefault("KTRACE_EXPORT_DIR", "ktrace_out"),
		S3Bucket:   os.Getenv("KTRACE_S3_BUCKET"),
		S3Endpoint: os.Getenv("KTRACE_S3_ENDPOINT"),
		S3Region:   envOrDefault("KTRACE_S3_REGION", "us-east-1"),
		S3Prefix:   envOrDefault("KTRACE_S3_PREFIX", "ktrace"),
	}

	var err error
	c.SuspiciousMinBytes, err = envInt64("KTRACE_SUSPICIOUS_MIN_BYTES", 1<<20)
	if err != nil {
		return nil, err
	}
	c.NearZeroMS, err = envFloat("KTRACE_NEAR_ZERO_MS", 0.001)
	if err != nil {
		return nil, err
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}
