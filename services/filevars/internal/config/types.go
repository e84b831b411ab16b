package config

import "time"

type Config struct {
	HTTP    HTTPConfig
	Ingest  IngestConfig
	Metrics MetricsConfig
	S3      S3Config
}

type HTTPConfig struct {
	Addr           string
	MaxUploadBytes int64
	Timeout        time.Duration
}

type IngestConfig struct {
	ChunkSize int
}

type MetricsConfig struct {
	Enabled   bool
	Namespace string
}

type S3Config struct {
	Enabled bool
}
