package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the peaktable configuration file (~/.config/peaktable/config.yaml).
// Empty strings mean "not set". MaxUploadBytes and Fetch.Timeout are pointers
// because their zero values are meaningful.
type Config struct {
	DataDir string `yaml:"data_dir"`
	PlotDir string `yaml:"plot_dir"`

	// Output
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Server
	ServerAddress  string `yaml:"server_address"`
	MaxUploadBytes *int64 `yaml:"max_upload_bytes"`

	Fetch FetchConfig `yaml:"fetch"`
}

// FetchConfig holds the remote search defaults. Secrets are read from the
// environment, never from this file.
type FetchConfig struct {
	BaseURL  string         `yaml:"base_url"`
	Username string         `yaml:"username"`
	Table    string         `yaml:"table"`
	Format   string         `yaml:"format"`
	Criteria []string       `yaml:"criteria"`
	Compress string         `yaml:"compress"`
	Timeout  *time.Duration `yaml:"timeout"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "peaktable", "config.yaml")
}

// LoadConfig reads the config file. Returns a zero Config if the file doesn't exist.
func LoadConfig() Config {
	return loadConfigFrom(configPath())
}

func loadConfigFrom(path string) Config {
	if path == "" {
		return Config{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}

func applyLoggingConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// applyInputConfig applies the data directory default to commands that read
// a peak table.
func applyInputConfig(c *cli.Command, cfg Config, dataDir *string) {
	if cfg.DataDir != "" && !c.IsSet("data-dir") {
		*dataDir = cfg.DataDir
	}
}

// applyServeConfig applies config file defaults to serve command variables.
func applyServeConfig(c *cli.Command, cfg Config, addr *string, maxUpload *int64) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
	if cfg.MaxUploadBytes != nil && !c.IsSet("max-upload") {
		*maxUpload = *cfg.MaxUploadBytes
	}
}

// applyFetchConfig applies config file defaults to fetch command variables.
func applyFetchConfig(c *cli.Command, cfg FetchConfig, opts *fetchOptions) {
	if cfg.BaseURL != "" && !c.IsSet("base-url") {
		opts.baseURL = cfg.BaseURL
	}
	if cfg.Username != "" && !c.IsSet("username") {
		opts.username = cfg.Username
	}
	if cfg.Table != "" && !c.IsSet("table") {
		opts.table = cfg.Table
	}
	if cfg.Format != "" && !c.IsSet("format") {
		opts.format = cfg.Format
	}
	if len(cfg.Criteria) > 0 && !c.IsSet("criterion") {
		opts.criteria = cfg.Criteria
	}
	if cfg.Compress != "" && !c.IsSet("compress") {
		opts.compress = cfg.Compress
	}
	if cfg.Timeout != nil && !c.IsSet("timeout") {
		opts.timeout = *cfg.Timeout
	}
}
