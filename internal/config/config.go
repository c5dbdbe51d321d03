package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Remote document sources. Empty values fall back to the local paths.
	ExcelURL   string `mapstructure:"excel_url" yaml:"excel_url"`
	TargetsURL string `mapstructure:"targets_url" yaml:"targets_url"`

	LocalWorkbook string `mapstructure:"local_workbook" yaml:"local_workbook"`
	LocalTargets  string `mapstructure:"local_targets" yaml:"local_targets"`

	ListenAddr     string `mapstructure:"listen_addr" yaml:"listen_addr"`
	HTTPTimeoutSec int    `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
	LogFormat      string `mapstructure:"log_format" yaml:"log_format"`
}

// HTTPTimeout returns the fetch timeout as a duration.
func (g *Global) HTTPTimeout() time.Duration {
	return time.Duration(g.HTTPTimeoutSec) * time.Second
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	_ = godotenv.Load() // ignore missing .env

	v := viper.New()
	v.SetEnvPrefix("WATERTREND")
	v.AutomaticEnv()

	v.SetDefault("excel_url", "")
	v.SetDefault("targets_url", "")
	v.SetDefault("local_workbook", filepath.Join("data", "Results Trendline Template.xlsx"))
	v.SetDefault("local_targets", filepath.Join("data", "param_targets_max_only.csv"))
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("http_timeout_sec", 30)
	v.SetDefault("log_format", "text")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".watertrend")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.HTTPTimeoutSec <= 0 {
		return nil, fmt.Errorf("http_timeout_sec must be positive, got %d", c.HTTPTimeoutSec)
	}
	return &c, nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is
// empty, it writes to ~/.watertrend/config.yaml, creating the directory if
// necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".watertrend")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
