package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// CorpusSettings configuration for the offline corpus build
type CorpusSettings struct {
	Dir       string `mapstructure:"dir"`
	OutputDir string `mapstructure:"output_dir"`
}

// ServeSettings configuration for the HTTP serve layer
type ServeSettings struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	StaticDir  string `mapstructure:"static_dir"`
	MaxResults int    `mapstructure:"max_results"`
}

// Settings application settings
type Settings struct {
	Corpus CorpusSettings `mapstructure:"corpus"`
	Serve  ServeSettings  `mapstructure:"serve"`
}

// LoadSettings loads settings from environment variables and optional .env file
func LoadSettings() (*Settings, error) {
	return LoadSettingsWithFlags(nil)
}

// LoadSettingsWithFlags loads settings with optional CLI flag overrides.
// Priority: CLI flags > environment variables > .env file > defaults.
// If flags is nil, only env vars and defaults are used.
func LoadSettingsWithFlags(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	// Default values
	v.SetDefault("corpus.dir", "contents")
	v.SetDefault("corpus.output_dir", filepath.Join("public", "data"))
	v.SetDefault("serve.host", "0.0.0.0")
	v.SetDefault("serve.port", 8080)
	v.SetDefault("serve.static_dir", "")
	v.SetDefault("serve.max_results", 20)

	// Environment variables
	v.SetEnvPrefix("PODATLAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind specific env vars for nested config
	_ = v.BindEnv("corpus.dir", "PODATLAS_CORPUS_DIR")
	_ = v.BindEnv("corpus.output_dir", "PODATLAS_CORPUS_OUTPUT_DIR")
	_ = v.BindEnv("serve.host", "PODATLAS_SERVE_HOST")
	_ = v.BindEnv("serve.port", "PODATLAS_SERVE_PORT")
	_ = v.BindEnv("serve.static_dir", "PODATLAS_SERVE_STATIC_DIR")
	_ = v.BindEnv("serve.max_results", "PODATLAS_SERVE_MAX_RESULTS")

	// Bind CLI flags if provided (highest priority)
	if flags != nil {
		bindFlag(v, flags, "corpus.dir", "corpus-dir")
		bindFlag(v, flags, "corpus.output_dir", "output-dir")
		bindFlag(v, flags, "serve.host", "host")
		bindFlag(v, flags, "serve.port", "port")
		bindFlag(v, flags, "serve.static_dir", "static-dir")
		bindFlag(v, flags, "serve.max_results", "max-results")
	}

	// Helper to look for .env file
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // Ignore error if .env doesn't exist

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, err
	}

	// Expand home directory in paths
	settings.Corpus.Dir = expandHomeDir(settings.Corpus.Dir)
	settings.Corpus.OutputDir = expandHomeDir(settings.Corpus.OutputDir)
	settings.Serve.StaticDir = expandHomeDir(settings.Serve.StaticDir)

	return &settings, nil
}

// bindFlag binds a viper key to a pflag, skipping flags the command did not
// register.
func bindFlag(v *viper.Viper, flags *pflag.FlagSet, key, flag string) {
	if f := flags.Lookup(flag); f != nil {
		_ = v.BindPFlag(key, f)
	}
}

// expandHomeDir expands ~ to the user's home directory
func expandHomeDir(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}
	return path
}

// ValidateSettings checks for invalid or incomplete configuration.
func ValidateSettings(s *Settings) error {
	if s.Corpus.Dir == "" {
		return errors.New("corpus-dir cannot be empty")
	}

	if s.Corpus.OutputDir == "" {
		return errors.New("output-dir cannot be empty")
	}

	if s.Serve.Port <= 0 || s.Serve.Port > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	if s.Serve.MaxResults <= 0 {
		return errors.New("max-results must be positive")
	}

	return nil
}
