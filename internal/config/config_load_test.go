package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var envVars = []string{
	"CBS_OFFER_MODE", "CBS_OFFER_HOST", "CBS_OFFER_PORT", "CBS_OFFER_DIR",
	"CBS_OFFER_TEMPLATE", "CBS_OFFER_OUTPUT", "CBS_OFFER_LOGLEVEL",
	"CBS_OFFER_MAXFILESIZE", "CBS_OFFER_WORKERS", "CBS_OFFER_RESOLUTION",
	"CBS_OFFER_BRIGHTNESS", "CBS_OFFER_CHECKBOX_SIZE", "CBS_OFFER_CHECKBOX_TOLERANCE",
	"CBS_OFFER_HEADER_MARGIN", "CBS_OFFER_ENV_FILE",
}

// Helper function to reset pflag.CommandLine for testing
func resetFlags() {
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	viper.Reset()
}

// prepare installs args, clears the importer's environment and restores
// both when the test ends
func prepare(t *testing.T, args ...string) {
	t.Helper()
	originalArgs := os.Args
	t.Cleanup(func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	})
	clearEnvVars()
	os.Args = append([]string{"offer-importer"}, args...)
	resetFlags()
}

func clearEnvVars() {
	for _, v := range envVars {
		os.Unsetenv(v)
	}
}

func batchFixture(t *testing.T) (dir, template string) {
	t.Helper()
	dir = t.TempDir()
	template = filepath.Join(dir, "compare.xlsx")
	if err := os.WriteFile(template, []byte("xlsx"), 0o600); err != nil {
		t.Fatalf("write template: %v", err)
	}
	return dir, template
}

func TestLoadFromFlags_BatchRequiresTemplate(t *testing.T) {
	dir, _ := batchFixture(t)
	prepare(t, "--dir="+dir)

	if _, err := LoadFromFlags(); err == nil {
		t.Fatal("LoadFromFlags() expected an error without --template")
	}
}

func TestLoadFromFlags_ValidFlags(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantMode    string
		wantPort    int
		wantWorkers int
		wantSize    float64
		wantLevel   string
	}{
		{
			name:        "batch defaults",
			args:        nil,
			wantMode:    "batch",
			wantPort:    8080,
			wantWorkers: 4,
			wantSize:    10.5,
			wantLevel:   "info",
		},
		{
			name:        "server mode with custom port",
			args:        []string{"--mode=server", "--port=9090"},
			wantMode:    "server",
			wantPort:    9090,
			wantWorkers: 4,
			wantSize:    10.5,
			wantLevel:   "info",
		},
		{
			name:        "extraction tunables",
			args:        []string{"--workers=8", "--checkbox-size=12", "--loglevel=debug"},
			wantMode:    "batch",
			wantPort:    8080,
			wantWorkers: 8,
			wantSize:    12,
			wantLevel:   "debug",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, template := batchFixture(t)
			prepare(t, append([]string{"--dir=" + dir, "--template=" + template}, tt.args...)...)

			cfg, err := LoadFromFlags()
			if err != nil {
				t.Fatalf("LoadFromFlags() unexpected error: %v", err)
			}
			if cfg.Mode != tt.wantMode {
				t.Errorf("Mode = %v, want %v", cfg.Mode, tt.wantMode)
			}
			if cfg.Port != tt.wantPort {
				t.Errorf("Port = %v, want %v", cfg.Port, tt.wantPort)
			}
			if cfg.Workers != tt.wantWorkers {
				t.Errorf("Workers = %v, want %v", cfg.Workers, tt.wantWorkers)
			}
			if cfg.CheckboxSize != tt.wantSize {
				t.Errorf("CheckboxSize = %v, want %v", cfg.CheckboxSize, tt.wantSize)
			}
			if cfg.LogLevel != tt.wantLevel {
				t.Errorf("LogLevel = %v, want %v", cfg.LogLevel, tt.wantLevel)
			}
			if cfg.OfferDirectory != dir || cfg.Template != template {
				t.Errorf("paths = %s, %s; want %s, %s", cfg.OfferDirectory, cfg.Template, dir, template)
			}
		})
	}
}

func TestLoadFromFlags_Environment(t *testing.T) {
	dir, template := batchFixture(t)
	prepare(t)
	os.Setenv("CBS_OFFER_DIR", dir)
	os.Setenv("CBS_OFFER_TEMPLATE", template)
	os.Setenv("CBS_OFFER_WORKERS", "6")
	os.Setenv("CBS_OFFER_CHECKBOX_TOLERANCE", "2")

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}
	if cfg.Workers != 6 {
		t.Errorf("Workers = %d, want 6", cfg.Workers)
	}
	if cfg.CheckboxTolerance != 2 {
		t.Errorf("CheckboxTolerance = %g, want 2", cfg.CheckboxTolerance)
	}
}

func TestLoadFromFlags_FlagBeatsEnvironment(t *testing.T) {
	dir, template := batchFixture(t)
	prepare(t, "--dir="+dir, "--template="+template, "--workers=3")
	os.Setenv("CBS_OFFER_WORKERS", "9")

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}
	if cfg.Workers != 3 {
		t.Errorf("Workers = %d, want 3", cfg.Workers)
	}
}

func TestLoadFromFlags_EnvFile(t *testing.T) {
	dir, template := batchFixture(t)
	envFile := filepath.Join(dir, "offers.env")
	content := "CBS_OFFER_DIR=" + dir + "\nCBS_OFFER_TEMPLATE=" + template + "\nCBS_OFFER_RESOLUTION=300\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	prepare(t)
	os.Setenv(EnvFileVariable, envFile)

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}
	if cfg.Resolution != 300 {
		t.Errorf("Resolution = %g, want 300", cfg.Resolution)
	}
	if cfg.Template != template {
		t.Errorf("Template = %s, want %s", cfg.Template, template)
	}
}

func TestLoadFromFlags_Version(t *testing.T) {
	prepare(t, "--version")
	if _, err := LoadFromFlags(); err == nil || err.Error() != "version requested" {
		t.Errorf("LoadFromFlags() error = %v, want version requested", err)
	}
}
