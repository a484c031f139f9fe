package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pithecene-io/reqforge/inference"
)

func TestLoad_FullConfig(t *testing.T) {
	yaml := `handoff: .reqforge/session.msgpack
debug: true

inference:
  endpoint: http://gpu-box:11434/api/generate
  model: llama3
  timeout: 90s
  max_attempts: 5
  base_delay: 250ms
  options:
    temperature: 0.2
    top_p: 0.8
    max_tokens: 4096
  stop: ["@enduml"]
  headers:
    X-Team: platform

storage:
  backend: s3
  path: my-bucket/prefix
  region: us-east-1
  endpoint: https://example.com
  s3_path_style: true

adapter:
  type: webhook
  url: https://hooks.example.com/reqforge
  headers:
    Authorization: Bearer token123
  timeout: 10s
  retries: 3
`
	path := writeTemp(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	assertEqual(t, "handoff", cfg.Handoff, ".reqforge/session.msgpack")
	if !cfg.Debug {
		t.Error("expected debug=true")
	}

	// Inference
	assertEqual(t, "inference.endpoint", cfg.Inference.Endpoint, "http://gpu-box:11434/api/generate")
	assertEqual(t, "inference.model", cfg.Inference.Model, "llama3")
	if cfg.Inference.Timeout.Duration != 90*time.Second {
		t.Errorf("inference.timeout = %v", cfg.Inference.Timeout.Duration)
	}
	if cfg.Inference.MaxAttempts != 5 {
		t.Errorf("inference.max_attempts = %d", cfg.Inference.MaxAttempts)
	}
	if cfg.Inference.BaseDelay.Duration != 250*time.Millisecond {
		t.Errorf("inference.base_delay = %v", cfg.Inference.BaseDelay.Duration)
	}
	wantOpts := inference.Options{Temperature: 0.2, TopP: 0.8, MaxTokens: 4096}
	if cfg.Inference.Options != wantOpts {
		t.Errorf("inference.options = %+v, want %+v", cfg.Inference.Options, wantOpts)
	}
	if len(cfg.Inference.Stop) != 1 || cfg.Inference.Stop[0] != "@enduml" {
		t.Errorf("inference.stop = %v", cfg.Inference.Stop)
	}
	assertEqual(t, "inference.headers", cfg.Inference.Headers["X-Team"], "platform")

	// Storage
	assertEqual(t, "storage.backend", cfg.Storage.Backend, "s3")
	assertEqual(t, "storage.path", cfg.Storage.Path, "my-bucket/prefix")
	assertEqual(t, "storage.region", cfg.Storage.Region, "us-east-1")
	assertEqual(t, "storage.endpoint", cfg.Storage.Endpoint, "https://example.com")
	if !cfg.Storage.S3PathStyle {
		t.Error("expected storage.s3_path_style=true")
	}

	// Adapter
	assertEqual(t, "adapter.type", cfg.Adapter.Type, "webhook")
	assertEqual(t, "adapter.url", cfg.Adapter.URL, "https://hooks.example.com/reqforge")
	assertEqual(t, "adapter.headers", cfg.Adapter.Headers["Authorization"], "Bearer token123")
	if cfg.Adapter.Timeout.Duration != 10*time.Second {
		t.Errorf("adapter.timeout = %v", cfg.Adapter.Timeout.Duration)
	}
	if cfg.Adapter.Retries == nil || *cfg.Adapter.Retries != 3 {
		t.Errorf("adapter.retries = %v", cfg.Adapter.Retries)
	}
}

func TestLoad_EmptyAndCommentOnly(t *testing.T) {
	for _, content := range []string{"", "   \n  \n", "# comment\n# another\n"} {
		cfg, err := Load(writeTemp(t, content))
		if err != nil {
			t.Fatalf("Load(%q) failed: %v", content, err)
		}
		if cfg.Inference.Model != "" || cfg.Storage.Backend != "" {
			t.Errorf("expected zero config, got %+v", cfg)
		}
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/reqforge.yaml")
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("err = %v", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	if _, err := Load(writeTemp(t, "{{invalid yaml")); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("REQFORGE_TEST_MODEL", "mistral")
	yaml := "inference:\n  model: ${REQFORGE_TEST_MODEL}\n  endpoint: ${REQFORGE_UNSET_ENDPOINT:-http://localhost:9999/api/generate}\n"

	cfg, err := Load(writeTemp(t, yaml))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	assertEqual(t, "inference.model", cfg.Inference.Model, "mistral")
	assertEqual(t, "inference.endpoint", cfg.Inference.Endpoint, "http://localhost:9999/api/generate")
}

func TestLoad_UnknownKeysRejected(t *testing.T) {
	for _, yaml := range []string{
		"bogus: 1\n",
		"inference:\n  modle: gemma3\n",
		"inference:\n  options:\n    temp: 0.1\n",
	} {
		if _, err := Load(writeTemp(t, yaml)); err == nil {
			t.Errorf("expected error for %q", yaml)
		}
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"negative attempts", "inference:\n  max_attempts: -1\n", "max_attempts"},
		{"unknown backend", "storage:\n  backend: gcs\n", "storage.backend"},
		{"s3 without path", "storage:\n  backend: s3\n", "storage.path"},
		{"unknown adapter", "adapter:\n  type: kafka\n  url: x\n", "adapter.type"},
		{"adapter without url", "adapter:\n  type: redis\n", "adapter.url"},
		{"negative retries", "adapter:\n  type: webhook\n  url: http://h\n  retries: -2\n", "adapter.retries"},
		{"negative duration", "inference:\n  timeout: -5s\n", "must not be negative"},
		{"bad duration", "inference:\n  timeout: soon\n", "invalid duration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeTemp(t, tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoad_RetriesZeroDistinctFromNil(t *testing.T) {
	cfg, err := Load(writeTemp(t, "adapter:\n  type: webhook\n  url: http://h\n  retries: 0\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Adapter.Retries == nil || *cfg.Adapter.Retries != 0 {
		t.Errorf("expected explicit zero retries, got %v", cfg.Adapter.Retries)
	}

	cfg, err = Load(writeTemp(t, "adapter:\n  type: webhook\n  url: http://h\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Adapter.Retries != nil {
		t.Errorf("expected nil retries, got %d", *cfg.Adapter.Retries)
	}
}

func TestLoadOptional(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadOptional("")
	if err != nil || cfg == nil {
		t.Fatalf("LoadOptional without file: %v", err)
	}

	if err := os.WriteFile(DefaultPath, []byte("inference:\n  model: phi3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadOptional("")
	if err != nil {
		t.Fatalf("LoadOptional with default file: %v", err)
	}
	assertEqual(t, "inference.model", cfg.Inference.Model, "phi3")

	if _, err := LoadOptional("missing.yaml"); err == nil {
		t.Error("explicit missing path should fail")
	}
}

// writeTemp writes content to a temp file and returns the path.
func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reqforge.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func assertEqual(t *testing.T, field, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("%s: got %q, want %q", field, got, want)
	}
}
