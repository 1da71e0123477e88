package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/a3tai/cbs-offer-importer/internal/offer"
	"github.com/a3tai/cbs-offer-importer/internal/pdf/layout"
)

const (
	// Mode constants
	ModeBatch  = "batch"
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
	DefaultWorkers     = 4

	// EnvPrefix prefixes every environment variable the importer reads
	EnvPrefix = "CBS_OFFER"
	// EnvFileVariable names an alternative .env file
	EnvFileVariable = "CBS_OFFER_ENV_FILE"

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the offer importer
type Config struct {
	// Server configuration
	Mode string // "batch", "stdio" or "server"
	Host string
	Port int

	// Input and output
	OfferDirectory string
	Template       string
	Output         string

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum PDF file size in bytes
	Workers     int

	// Extraction tunables
	Resolution        float64
	Brightness        float64
	CheckboxSize      float64
	CheckboxTolerance float64
	HeaderMargin      float64
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	settings := offer.DefaultSettings()
	return &Config{
		Mode:              ModeBatch,
		Host:              DefaultHost,
		Port:              DefaultPort,
		OfferDirectory:    currentDir,
		Version:           "1.0.0",
		ServerName:        "cbs-offer-importer",
		LogLevel:          DefaultLogLevel,
		MaxFileSize:       DefaultMaxFileSize,
		Workers:           DefaultWorkers,
		Resolution:        settings.Resolution,
		Brightness:        settings.BrightnessThreshold,
		CheckboxSize:      settings.Checkbox.Size,
		CheckboxTolerance: settings.Checkbox.Tolerance,
		HeaderMargin:      settings.HeaderMargin,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	if err := loadEnvFile(); err != nil {
		return nil, err
	}
	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	for _, p := range []*string{&cfg.OfferDirectory, &cfg.Template, &cfg.Output} {
		if *p == "" {
			continue
		}
		if abs, err := filepath.Abs(*p); err == nil {
			*p = abs
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadEnvFile loads .env, or the file named by CBS_OFFER_ENV_FILE, into the
// process environment. Variables already set win. A missing file is fine.
func loadEnvFile() error {
	path := os.Getenv(EnvFileVariable)
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("dir", cfg.OfferDirectory)
	viper.SetDefault("template", cfg.Template)
	viper.SetDefault("output", cfg.Output)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("workers", cfg.Workers)
	viper.SetDefault("resolution", cfg.Resolution)
	viper.SetDefault("brightness", cfg.Brightness)
	viper.SetDefault("checkbox.size", cfg.CheckboxSize)
	viper.SetDefault("checkbox.tolerance", cfg.CheckboxTolerance)
	viper.SetDefault("header.margin", cfg.HeaderMargin)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Run mode: 'batch' to import a folder, 'stdio' for MCP standard I/O, 'server' for HTTP")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("dir", cfg.OfferDirectory, "Directory containing offer PDFs")
	pflag.String("template", cfg.Template, "Comparison workbook template (.xlsx)")
	pflag.String("output", cfg.Output, "Output workbook (default <template>_filled.xlsx)")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	pflag.Int("workers", cfg.Workers, "Number of documents extracted concurrently")
	pflag.Float64("resolution", cfg.Resolution, "Checkbox raster resolution in DPI")
	pflag.Float64("brightness", cfg.Brightness, "Mean brightness above which a checkbox counts as empty")
	pflag.Float64("checkbox-size", cfg.CheckboxSize, "Checkbox image size in points")
	pflag.Float64("checkbox-tolerance", cfg.CheckboxTolerance, "Allowed deviation from the checkbox size")
	pflag.Float64("header-margin", cfg.HeaderMargin, "Largest x0 of a section header number")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("mode", pflag.Lookup("mode"))
	_ = viper.BindPFlag("host", pflag.Lookup("host"))
	_ = viper.BindPFlag("port", pflag.Lookup("port"))
	_ = viper.BindPFlag("dir", pflag.Lookup("dir"))
	_ = viper.BindPFlag("template", pflag.Lookup("template"))
	_ = viper.BindPFlag("output", pflag.Lookup("output"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
	_ = viper.BindPFlag("workers", pflag.Lookup("workers"))
	_ = viper.BindPFlag("resolution", pflag.Lookup("resolution"))
	_ = viper.BindPFlag("brightness", pflag.Lookup("brightness"))
	_ = viper.BindPFlag("checkbox.size", pflag.Lookup("checkbox-size"))
	_ = viper.BindPFlag("checkbox.tolerance", pflag.Lookup("checkbox-tolerance"))
	_ = viper.BindPFlag("header.margin", pflag.Lookup("header-margin"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nCBS Offer Importer - fills a comparison workbook from CBS1 offer PDFs\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s --dir=./offers --template=compare.xlsx   # import a folder\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=stdio --dir=./offers                # MCP server on stdio\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --host=0.0.0.0 --port=8081   # HTTP server\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables (also read from .env):\n")
		fmt.Fprintf(os.Stderr, "  CBS_OFFER_MODE, CBS_OFFER_HOST, CBS_OFFER_PORT, CBS_OFFER_DIR\n")
		fmt.Fprintf(os.Stderr, "  CBS_OFFER_TEMPLATE, CBS_OFFER_OUTPUT, CBS_OFFER_LOGLEVEL\n")
		fmt.Fprintf(os.Stderr, "  CBS_OFFER_MAXFILESIZE, CBS_OFFER_WORKERS, CBS_OFFER_RESOLUTION\n")
		fmt.Fprintf(os.Stderr, "  CBS_OFFER_BRIGHTNESS, CBS_OFFER_CHECKBOX_SIZE, CBS_OFFER_CHECKBOX_TOLERANCE\n")
		fmt.Fprintf(os.Stderr, "  CBS_OFFER_HEADER_MARGIN, CBS_OFFER_ENV_FILE\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.OfferDirectory = viper.GetString("dir")
	cfg.Template = viper.GetString("template")
	cfg.Output = viper.GetString("output")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.Workers = viper.GetInt("workers")
	cfg.Resolution = viper.GetFloat64("resolution")
	cfg.Brightness = viper.GetFloat64("brightness")
	cfg.CheckboxSize = viper.GetFloat64("checkbox.size")
	cfg.CheckboxTolerance = viper.GetFloat64("checkbox.tolerance")
	cfg.HeaderMargin = viper.GetFloat64("header.margin")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeBatch, ModeStdio, ModeServer:
	default:
		return errors.New("mode must be one of 'batch', 'stdio' or 'server'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.OfferDirectory == "" {
		return errors.New("offer directory cannot be empty")
	}

	if c.IsBatchMode() {
		if err := c.validateBatchInputs(); err != nil {
			return err
		}
	} else if _, err := os.Stat(c.OfferDirectory); os.IsNotExist(err) {
		// The MCP and HTTP surfaces create their root on first start
		if err := os.MkdirAll(c.OfferDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create offer directory %s: %w", c.OfferDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access offer directory %s: %w", c.OfferDirectory, err)
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}
	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}
	if err := c.validateExtraction(); err != nil {
		return err
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

func (c *Config) validateBatchInputs() error {
	info, err := os.Stat(c.OfferDirectory)
	if err != nil {
		return fmt.Errorf("cannot access offer directory %s: %w", c.OfferDirectory, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("offer directory is not a directory: %s", c.OfferDirectory)
	}
	if c.Template == "" {
		return errors.New("template is required in batch mode")
	}
	if !strings.EqualFold(filepath.Ext(c.Template), ".xlsx") {
		return fmt.Errorf("template must be a .xlsx file: %s", c.Template)
	}
	if _, err := os.Stat(c.Template); err != nil {
		return fmt.Errorf("cannot access template %s: %w", c.Template, err)
	}
	return nil
}

func (c *Config) validateExtraction() error {
	if c.Resolution <= 0 {
		return errors.New("resolution must be positive")
	}
	if c.Brightness < 0 || c.Brightness > 255 {
		return errors.New("brightness must be between 0 and 255")
	}
	if c.CheckboxSize <= 0 {
		return errors.New("checkbox size must be positive")
	}
	if c.CheckboxTolerance < 0 || c.CheckboxTolerance >= c.CheckboxSize {
		return errors.New("checkbox tolerance must be non-negative and smaller than the size")
	}
	if c.HeaderMargin <= 0 {
		return errors.New("header margin must be positive")
	}
	return nil
}

// Settings returns the extraction settings described by the configuration
func (c *Config) Settings() offer.Settings {
	s := offer.DefaultSettings()
	s.Resolution = c.Resolution
	s.BrightnessThreshold = c.Brightness
	s.Checkbox = layout.CheckboxGeometry{Size: c.CheckboxSize, Tolerance: c.CheckboxTolerance}
	s.HeaderMargin = c.HeaderMargin
	s.Debug = c.IsDebug()
	return s
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, OfferDirectory: %s, Template: %s, "+
		"LogLevel: %s, MaxFileSize: %d, Workers: %d, Resolution: %g}",
		c.Mode, c.Host, c.Port, c.OfferDirectory, c.Template, c.LogLevel, c.MaxFileSize, c.Workers, c.Resolution)
}

// IsBatchMode returns true when the importer runs once over a folder
func (c *Config) IsBatchMode() bool {
	return c.Mode == ModeBatch
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
