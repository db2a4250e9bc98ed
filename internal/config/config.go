package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server    ServerConfig
	OpenAI    OpenAIConfig
	Store     StoreConfig
	Assistant AssistantConfig
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
}

type ServerConfig struct {
	Port           string        `envconfig:"SERVER_PORT" default:"8000"`
	Host           string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	ReadTimeout    time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout   time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"60s"`
	RequestTimeout time.Duration `envconfig:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

type OpenAIConfig struct {
	Provider       string `envconfig:"OPENAI_PROVIDER" default:"openai"`
	APIKey         string `envconfig:"OPENAI_API_KEY" required:"true"`
	APIEndpoint    string `envconfig:"OPENAI_ENDPOINT" default:"https://api.openai.com/v1"`
	Model          string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	DeploymentName string `envconfig:"OPENAI_DEPLOYMENT" default:"gpt-4o"`
	APIVersion     string `envconfig:"OPENAI_API_VERSION" default:"2023-05-15"`
}

type StoreConfig struct {
	Bucket string `envconfig:"DATASET_S3_BUCKET" required:"true"`
	Region string `envconfig:"DATASET_S3_REGION" default:"us-east-1"`
	// Endpoint overrides the S3 endpoint for S3-compatible stores (minio etc).
	Endpoint        string `envconfig:"DATASET_S3_ENDPOINT"`
	AccessKeyID     string `envconfig:"DATASET_S3_ACCESS_KEY_ID"`
	SecretAccessKey string `envconfig:"DATASET_S3_SECRET_ACCESS_KEY"`
}

type AssistantConfig struct {
	ConfidenceThreshold float64       `envconfig:"CONFIDENCE_THRESHOLD" default:"0.4"`
	ClassifyTimeout     time.Duration `envconfig:"CLASSIFY_TIMEOUT" default:"10s"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	slog.Info("configuration loaded successfully")
	return &cfg, nil
}
