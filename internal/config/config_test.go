package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Mode != "hybrid" {
		t.Errorf("Mode = %q, want hybrid", cfg.Mode)
	}
	if cfg.BatchSize != 50 || cfg.ConfirmBatchSize != 10 {
		t.Errorf("batch sizes = %d/%d, want 50/10", cfg.BatchSize, cfg.ConfirmBatchSize)
	}
	if cfg.ClusterThreshold != 0.65 || cfg.ConfirmThreshold != 0.85 {
		t.Errorf("thresholds = %g/%g, want 0.65/0.85", cfg.ClusterThreshold, cfg.ConfirmThreshold)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9001")
	t.Setenv("NORMALIZATION_BATCH_SIZE", "25")
	t.Setenv("NORMALIZATION_CLUSTER_THRESHOLD", "0.7")
	t.Setenv("GEMINI_MODEL", "gemini-2.0-pro")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9001" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.BatchSize != 25 {
		t.Errorf("BatchSize = %d", cfg.BatchSize)
	}
	if cfg.ClusterThreshold != 0.7 {
		t.Errorf("ClusterThreshold = %g", cfg.ClusterThreshold)
	}
	if cfg.GeminiModel != "gemini-2.0-pro" {
		t.Errorf("GeminiModel = %q", cfg.GeminiModel)
	}
}

func TestLoadInvalidEnvFallsBackToDefault(t *testing.T) {
	t.Setenv("NORMALIZATION_BATCH_SIZE", "not-a-number")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BatchSize != 50 {
		t.Errorf("BatchSize = %d, want default 50", cfg.BatchSize)
	}
}

func TestValidateSemanticRequiresKey(t *testing.T) {
	t.Setenv("NORMALIZATION_MODE", "semantic")
	t.Setenv("GEMINI_API_KEY", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error: semantic mode without API key")
	}

	t.Setenv("GEMINI_API_KEY", "k")
	if _, err := Load(); err != nil {
		t.Fatalf("Load with key: %v", err)
	}
}

func TestValidateRejectsBadMode(t *testing.T) {
	t.Setenv("NORMALIZATION_MODE", "psychic")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestValidateThresholdOrder(t *testing.T) {
	t.Setenv("NORMALIZATION_CLUSTER_THRESHOLD", "0.9")
	t.Setenv("NORMALIZATION_CONFIRM_THRESHOLD", "0.7")
	if _, err := Load(); err == nil {
		t.Fatal("expected error: confirm threshold below cluster threshold")
	}
}
