package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration for the offer editor.
type Config struct {
	ProjectID       string
	VertexAIRegion  string
	GenerationModel string
	PrintBucket     string
	PDFFontPath     string
	NodeID          int64
	HTTPPort        string
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("VERTEX_AI_REGION", "us-central1")
	v.SetDefault("GENERATION_MODEL", "gemini-2.5-flash")
	v.SetDefault("NODE_ID", 1)
	v.SetDefault("HTTP_PORT", "8080")

	cfg := &Config{
		ProjectID:       v.GetString("PROJECT_ID"),
		VertexAIRegion:  v.GetString("VERTEX_AI_REGION"),
		GenerationModel: v.GetString("GENERATION_MODEL"),
		PrintBucket:     v.GetString("PRINT_BUCKET"),
		PDFFontPath:     v.GetString("PDF_FONT_PATH"),
		NodeID:          v.GetInt64("NODE_ID"),
		HTTPPort:        v.GetString("HTTP_PORT"),
	}
	if cfg.PrintBucket != "" && cfg.ProjectID == "" {
		return nil, fmt.Errorf("PROJECT_ID environment variable must be set when PRINT_BUCKET is used")
	}
	if cfg.NodeID < 0 || cfg.NodeID > 1023 {
		return nil, fmt.Errorf("NODE_ID must be between 0 and 1023, got %d", cfg.NodeID)
	}
	return cfg, nil
}

// GenerationEnabled reports whether a Vertex AI project is configured.
func (c *Config) GenerationEnabled() bool { return c.ProjectID != "" }
