package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"filevars/pkg/variable"
)

const (
	defaultMaxUploadBytes = 32 << 20
	maxChunkSize          = 16 << 20
)

func Load() (Config, error) {
	cfg := Config{}

	cfg.HTTP.Addr = getEnv("FILEVARS_HTTP_ADDR", ":8080")
	cfg.HTTP.MaxUploadBytes = defaultMaxUploadBytes
	if raw := os.Getenv("FILEVARS_MAX_UPLOAD_BYTES"); raw != "" {
		size, err := parseByteSize(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FILEVARS_MAX_UPLOAD_BYTES: %w", err)
		}
		cfg.HTTP.MaxUploadBytes = size
	}
	cfg.HTTP.Timeout = time.Duration(getEnvInt("FILEVARS_HTTP_TIMEOUT_SECONDS", 60)) * time.Second
	if cfg.HTTP.Timeout <= 0 {
		return Config{}, fmt.Errorf("FILEVARS_HTTP_TIMEOUT_SECONDS must be positive")
	}

	cfg.Ingest.ChunkSize = variable.DefaultChunkSize
	if raw := os.Getenv("FILEVARS_CHUNK_SIZE"); raw != "" {
		size, err := parseByteSize(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FILEVARS_CHUNK_SIZE: %w", err)
		}
		if size > maxChunkSize {
			return Config{}, fmt.Errorf("FILEVARS_CHUNK_SIZE must be at most %d bytes", maxChunkSize)
		}
		cfg.Ingest.ChunkSize = int(size)
	}

	cfg.Metrics.Enabled = getEnvBool("FILEVARS_ENABLE_JOB_METRICS", true)
	cfg.Metrics.Namespace = getEnv("FILEVARS_METRICS_NAMESPACE", "engine")

	cfg.S3.Enabled = getEnvBool("FILEVARS_ENABLE_S3", false)

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// parseByteSize accepts plain byte counts or a K/KB/KiB, M/MB/MiB or G/GB/GiB suffix.
// All suffixes are binary multiples.
func parseByteSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, fmt.Errorf("size is empty")
	}

	upper := strings.ToUpper(trimmed)
	multiplier := int64(1)
	for _, unit := range []struct {
		suffixes []string
		factor   int64
	}{
		{[]string{"KIB", "KB", "K"}, 1 << 10},
		{[]string{"MIB", "MB", "M"}, 1 << 20},
		{[]string{"GIB", "GB", "G"}, 1 << 30},
	} {
		matched := false
		for _, suffix := range unit.suffixes {
			if strings.HasSuffix(upper, suffix) {
				upper = strings.TrimSpace(strings.TrimSuffix(upper, suffix))
				multiplier = unit.factor
				matched = true
				break
			}
		}
		if matched {
			break
		}
	}
	upper = strings.TrimSpace(strings.TrimSuffix(upper, "B"))

	n, err := strconv.ParseInt(upper, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a valid size", trimmed)
	}
	if n <= 0 {
		return 0, fmt.Errorf("size %d must be positive", n)
	}
	if n > math.MaxInt64/multiplier {
		return 0, fmt.Errorf("%q is too large", trimmed)
	}
	return n * multiplier, nil
}
