package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PROJECT_ID", "")
	t.Setenv("PRINT_BUCKET", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.VertexAIRegion != "us-central1" || cfg.GenerationModel != "gemini-2.5-flash" || cfg.NodeID != 1 || cfg.HTTPPort != "8080" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.GenerationEnabled() {
		t.Fatalf("generation must be disabled without a project")
	}
}

func TestLoad_Validation(t *testing.T) {
	t.Setenv("PROJECT_ID", "")
	t.Setenv("PRINT_BUCKET", "offers-print")
	if _, err := Load(); err == nil {
		t.Fatalf("print bucket without project must fail")
	}

	t.Setenv("PROJECT_ID", "acme")
	t.Setenv("NODE_ID", "4096")
	if _, err := Load(); err == nil {
		t.Fatalf("out of range node id must fail")
	}

	t.Setenv("NODE_ID", "7")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.NodeID != 7 || cfg.PrintBucket != "offers-print" || !cfg.GenerationEnabled() {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}
