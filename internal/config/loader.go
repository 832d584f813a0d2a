package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// LoadConfig loads and validates the service configuration.
//
// It performs the following steps in order:
//  1. Sets the process timezone to UTC to prevent date-comparison drift.
//  2. Loads a .env file if present (non-fatal if missing; existing
//     environment variables are not overridden).
//  3. Processes envconfig tags to populate the Config struct.
//  4. Validates the Config struct.
func LoadConfig() (*Config, error) {
	// Classification compares calendar dates; a non-UTC process timezone
	// would shift the evaluation date near midnight.
	time.Local = time.UTC

	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("processing environment configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	if cfg.Detection.Variant == "model" && cfg.Detection.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("DETECTOR_VARIANT=model requires OPENAI_API_KEY")
	}

	return &cfg, nil
}
