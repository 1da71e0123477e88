package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// validBatch returns a batch configuration whose directory and template exist
func validBatch(t *testing.T) *Config {
	t.Helper()
	dir := t.TempDir()
	template := filepath.Join(dir, "compare.xlsx")
	if err := os.WriteFile(template, []byte("xlsx"), 0o600); err != nil {
		t.Fatalf("write template: %v", err)
	}
	cfg := DefaultConfig()
	cfg.OfferDirectory = dir
	cfg.Template = template
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != "batch" {
		t.Errorf("Expected default mode to be 'batch', got '%s'", cfg.Mode)
	}
	if cfg.Host != "127.0.0.1" {
		t.Errorf("Expected default host to be '127.0.0.1', got '%s'", cfg.Host)
	}
	if cfg.Port != 8080 {
		t.Errorf("Expected default port to be 8080, got %d", cfg.Port)
	}
	if cfg.ServerName != "cbs-offer-importer" {
		t.Errorf("Expected default server name to be 'cbs-offer-importer', got '%s'", cfg.ServerName)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level to be 'info', got '%s'", cfg.LogLevel)
	}
	if cfg.MaxFileSize != 100*1024*1024 {
		t.Errorf("Expected default max file size to be 100MB, got %d", cfg.MaxFileSize)
	}
	if cfg.Workers != 4 {
		t.Errorf("Expected default workers to be 4, got %d", cfg.Workers)
	}
	if cfg.Resolution != 150 || cfg.Brightness != 150 {
		t.Errorf("Expected resolution and brightness 150, got %g and %g", cfg.Resolution, cfg.Brightness)
	}
	if cfg.CheckboxSize != 10.5 || cfg.CheckboxTolerance != 1.5 {
		t.Errorf("Expected checkbox 10.5±1.5, got %g±%g", cfg.CheckboxSize, cfg.CheckboxTolerance)
	}
	if cfg.HeaderMargin != 150 {
		t.Errorf("Expected header margin 150, got %g", cfg.HeaderMargin)
	}

	currentDir, _ := os.Getwd()
	if cfg.OfferDirectory != currentDir {
		t.Errorf("Expected default offer directory to be '%s', got '%s'", currentDir, cfg.OfferDirectory)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid batch", func(c *Config) {}, ""},
		{"valid stdio", func(c *Config) { c.Mode = ModeStdio; c.Template = "" }, ""},
		{"valid server", func(c *Config) { c.Mode = ModeServer }, ""},
		{"invalid mode", func(c *Config) { c.Mode = "invalid" }, "mode must be"},
		{"port too low", func(c *Config) { c.Mode = ModeServer; c.Port = 0 }, "port"},
		{"port too high", func(c *Config) { c.Mode = ModeServer; c.Port = 70000 }, "port"},
		{"port ignored in stdio", func(c *Config) { c.Mode = ModeStdio; c.Port = 0 }, ""},
		{"empty directory", func(c *Config) { c.OfferDirectory = "" }, "directory cannot be empty"},
		{"batch missing directory", func(c *Config) { c.OfferDirectory = filepath.Join(c.OfferDirectory, "missing") }, "cannot access offer directory"},
		{"batch without template", func(c *Config) { c.Template = "" }, "template is required"},
		{"batch template not xlsx", func(c *Config) { c.Template = "compare.csv" }, ".xlsx"},
		{"batch template missing", func(c *Config) { c.Template = filepath.Join(c.OfferDirectory, "nope.xlsx") }, "cannot access template"},
		{"zero max file size", func(c *Config) { c.MaxFileSize = 0 }, "maximum file size"},
		{"zero workers", func(c *Config) { c.Workers = 0 }, "workers"},
		{"zero resolution", func(c *Config) { c.Resolution = 0 }, "resolution"},
		{"brightness above 255", func(c *Config) { c.Brightness = 256 }, "brightness"},
		{"zero checkbox size", func(c *Config) { c.CheckboxSize = 0 }, "checkbox size"},
		{"tolerance too large", func(c *Config) { c.CheckboxTolerance = 11 }, "tolerance"},
		{"zero header margin", func(c *Config) { c.HeaderMargin = 0 }, "header margin"},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validBatch(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidateDirectoryCreation(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "offers", "incoming")
	cfg := DefaultConfig()
	cfg.Mode = ModeStdio
	cfg.OfferDirectory = dir

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("Validate() should have created %s", dir)
	}
}

func TestConfigSettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Resolution = 200
	cfg.Brightness = 120
	cfg.CheckboxSize = 12
	cfg.CheckboxTolerance = 2
	cfg.HeaderMargin = 140

	s := cfg.Settings()
	if s.Resolution != 200 || s.BrightnessThreshold != 120 {
		t.Errorf("Settings() resolution/brightness = %g/%g", s.Resolution, s.BrightnessThreshold)
	}
	if s.Checkbox.Size != 12 || s.Checkbox.Tolerance != 2 {
		t.Errorf("Settings() checkbox = %+v", s.Checkbox)
	}
	if s.HeaderMargin != 140 {
		t.Errorf("Settings() header margin = %g", s.HeaderMargin)
	}
	if s.LabelGlyphs != 15 {
		t.Errorf("Settings() should keep default label glyphs, got %d", s.LabelGlyphs)
	}
	if s.Debug {
		t.Errorf("Settings() should not enable debug at log level %q", cfg.LogLevel)
	}

	cfg.LogLevel = "debug"
	if !cfg.Settings().Debug {
		t.Errorf("Settings() should enable debug at log level debug")
	}
}

func TestConfigAddress(t *testing.T) {
	cfg := &Config{Host: "0.0.0.0", Port: 9090}
	if got := cfg.Address(); got != "0.0.0.0:9090" {
		t.Errorf("Address() = %s, want 0.0.0.0:9090", got)
	}
}

func TestConfigModes(t *testing.T) {
	tests := []struct {
		mode   string
		batch  bool
		stdio  bool
		server bool
	}{
		{ModeBatch, true, false, false},
		{ModeStdio, false, true, false},
		{ModeServer, false, false, true},
	}
	for _, tt := range tests {
		cfg := &Config{Mode: tt.mode}
		if cfg.IsBatchMode() != tt.batch || cfg.IsStdioMode() != tt.stdio || cfg.IsServerMode() != tt.server {
			t.Errorf("mode predicates wrong for %s", tt.mode)
		}
	}
}

func TestConfigIsDebug(t *testing.T) {
	for level, want := range map[string]bool{"debug": true, "info": false, "warn": false, "error": false} {
		cfg := &Config{LogLevel: level}
		if cfg.IsDebug() != want {
			t.Errorf("IsDebug() for %s = %v, want %v", level, cfg.IsDebug(), want)
		}
	}
}

func TestConfigString(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Template = "/offers/compare.xlsx"
	s := cfg.String()
	for _, want := range []string{"Mode: batch", "Template: /offers/compare.xlsx", "Workers: 4", "Resolution: 150"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %s, missing %q", s, want)
		}
	}
}
