// Package config defines the global configuration structure for the fmrwatch
// service. Configuration is loaded once at process initialization and is
// immutable thereafter. It follows 12-Factor App principles by strictly
// separating code from configuration.
//
// Any missing required value or invalid format causes the application to fail
// immediately on startup.
package config

import "time"

// Config is the top-level configuration struct. It is populated once during
// process initialization and never modified. Sub-components receive only the
// specific config subsets they require.
type Config struct {
	// System Metadata
	Environment string `envconfig:"APP_ENV" default:"local" validate:"required,oneof=local dev staging prod"`
	Service     string `envconfig:"SERVICE_NAME" default:"fmrwatch"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Domain Configurations
	Server        ServerConfig
	Database      DatabaseConfig
	Detection     DetectionConfig
	Survey        SurveyConfig
	AWS           AWSConfig
	Security      SecurityConfig
	Observability ObservabilityConfig
	Jobs          JobsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string        `envconfig:"PORT" default:"8080"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"29s"`
}

// DatabaseConfig holds database connection and pool tuning parameters.
// URL may be empty in local mode, in which case the service falls back to
// the built-in seed project source and skips persistence.
type DatabaseConfig struct {
	URL string `envconfig:"DATABASE_URL" validate:"omitempty,url"`

	// Tuning Parameters
	MaxConns          int           `envconfig:"DB_MAX_CONNS" default:"10"`
	MinConns          int           `envconfig:"DB_MIN_CONNS" default:"2"`
	MaxConnLifetime   time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"30m"`
	HealthCheckPeriod time.Duration `envconfig:"DB_HEALTH_CHECK_PERIOD" default:"1m"`
}

// DetectionConfig selects and configures the defect detector variant.
type DetectionConfig struct {
	Variant       string `envconfig:"DETECTOR_VARIANT" default:"stub" validate:"oneof=stub model"`
	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY"`
	Model         string `envconfig:"DETECTOR_MODEL" default:"gpt-4o-mini"`
	MaxImageBytes int64  `envconfig:"DETECTOR_MAX_IMAGE_BYTES" default:"10485760"` // 10 MB
}

// SurveyConfig holds evaluation sink settings. An empty queue URL selects the
// log sink.
type SurveyConfig struct {
	QueueURL string `envconfig:"SQS_SURVEY_QUEUE" validate:"omitempty,url"`
}

// AWSConfig holds regional configuration for the SQS sink and CloudWatch
// metrics. EndpointURL supports LocalStack and is empty in production.
type AWSConfig struct {
	Region      string `envconfig:"AWS_REGION" default:"ap-southeast-1"`
	EndpointURL string `envconfig:"AWS_ENDPOINT_URL"`
}

// SecurityConfig holds CORS settings for the dashboard frontend origin.
type SecurityConfig struct {
	CorsAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// ObservabilityConfig holds telemetry settings.
type ObservabilityConfig struct {
	MetricNamespace string `envconfig:"METRIC_NAMESPACE" default:"FMRWatch"`
	EnableMetrics   bool   `envconfig:"ENABLE_METRICS" default:"false"`
}

// JobsConfig holds background job schedules in cron syntax.
type JobsConfig struct {
	RollupSchedule string `envconfig:"ROLLUP_SCHEDULE" default:"0 * * * *"`
}
