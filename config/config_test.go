package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap/zapcore"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
	if cfg.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want 0", cfg.MaxRetries)
	}
}

func TestLoadExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.json")
	content := `{
		"api_key": "file-key",
		"output_dir": "/tmp/out",
		"timeout": "2m",
		"max_retries": 3,
		"log_level": "debug"
	}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIKey != "file-key" {
		t.Errorf("APIKey = %q, want file-key", cfg.APIKey)
	}
	if cfg.OutputDir != "/tmp/out" {
		t.Errorf("OutputDir = %q, want /tmp/out", cfg.OutputDir)
	}
	if time.Duration(cfg.Timeout) != 2*time.Minute {
		t.Errorf("Timeout = %v, want 2m", time.Duration(cfg.Timeout))
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.Level() != zapcore.DebugLevel {
		t.Errorf("Level() = %v, want debug", cfg.Level())
	}
	// Unset fields keep their defaults.
	if cfg.BackoffMultiplier != 2.0 {
		t.Errorf("BackoffMultiplier = %f, want default 2.0", cfg.BackoffMultiplier)
	}
}

func TestLoadExplicitFileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("Load() with missing explicit path should fail")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load() with malformed file should fail")
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	if err := os.WriteFile(path, []byte(`{"api_key": "file-key", "max_retries": 1}`), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("YTEXPORT_API_KEY", "env-key")
	t.Setenv("YTEXPORT_MAX_RETRIES", "4")
	t.Setenv("YTEXPORT_TIMEOUT", "45s")
	t.Setenv("YTEXPORT_SHOW_PROGRESS", "false")
	t.Setenv("YTEXPORT_REQUESTS_PER_SECOND", "2.5")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want env-key", cfg.APIKey)
	}
	if cfg.MaxRetries != 4 {
		t.Errorf("MaxRetries = %d, want 4", cfg.MaxRetries)
	}
	if time.Duration(cfg.Timeout) != 45*time.Second {
		t.Errorf("Timeout = %v, want 45s", time.Duration(cfg.Timeout))
	}
	if cfg.ShowProgress {
		t.Error("ShowProgress should be false")
	}
	if cfg.RequestsPerSecond != 2.5 {
		t.Errorf("RequestsPerSecond = %f, want 2.5", cfg.RequestsPerSecond)
	}
}

func TestValidateAggregatesErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 0
	cfg.MaxRetries = -1
	cfg.BackoffMultiplier = 1
	cfg.LogLevel = "loud"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}

	merr, ok := err.(*multierror.Error)
	if !ok {
		t.Fatalf("Validate() returned %T, want *multierror.Error", err)
	}
	if len(merr.Errors) != 4 {
		t.Errorf("got %d errors, want 4: %v", len(merr.Errors), err)
	}
	for _, want := range []string{"timeout", "max_retries", "backoff_multiplier", "log_level"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestDurationUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"string", `"90s"`, 90 * time.Second, false},
		{"integer nanoseconds", `1000000000`, time.Second, false},
		{"bad string", `"soon"`, 0, true},
		{"bool", `true`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalJSON([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnmarshalJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && time.Duration(d) != tt.want {
				t.Errorf("UnmarshalJSON() = %v, want %v", time.Duration(d), tt.want)
			}
		})
	}
}

func TestResolveOutputDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OutputDir = "/data/exports"
	dir, err := cfg.ResolveOutputDir()
	if err != nil || dir != "/data/exports" {
		t.Errorf("ResolveOutputDir() = %q, %v", dir, err)
	}

	cfg.OutputDir = ""
	dir, err = cfg.ResolveOutputDir()
	if err != nil {
		t.Fatalf("ResolveOutputDir() error = %v", err)
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ResolveOutputDir() = %q, want absolute executable dir", dir)
	}
}
