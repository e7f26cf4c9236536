// Package config loads and validates publisher configuration via Viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/JakeFAU/showcase-publisher/internal/showcase"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	URLs     []string       `mapstructure:"urls"`
	Fetch    FetchConfig    `mapstructure:"fetch"`
	Download DownloadConfig `mapstructure:"download"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	CMS      CMSConfig      `mapstructure:"cms"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// FetchConfig controls page retrieval.
type FetchConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// DownloadConfig controls generated image retrieval. A zero timeout leaves
// the request unbounded.
type DownloadConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// OpenAIConfig describes how to reach the text and image models.
type OpenAIConfig struct {
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	TextModel  string `mapstructure:"text_model"`
	ImageModel string `mapstructure:"image_model"`
	ImageSize  string `mapstructure:"image_size"`

	// RequestsPerMinute throttles each OpenAI endpoint; zero disables.
	RequestsPerMinute float64 `mapstructure:"requests_per_minute"`
}

// CMSConfig holds the XML-RPC endpoint and credentials.
type CMSConfig struct {
	URL        string `mapstructure:"url"`
	Username   string `mapstructure:"username"`
	Password   string `mapstructure:"password"`
	BlogID     int    `mapstructure:"blog_id"`
	PostType   string `mapstructure:"post_type"`
	PostStatus string `mapstructure:"post_status"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// MetricsConfig points at an optional node-exporter textfile.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// legacyEnv maps config keys to the unprefixed variables deployments
// already export.
var legacyEnv = map[string]string{
	"openai.api_key": "OPENAI_API_KEY",
	"cms.url":        "WP_URL",
	"cms.username":   "WP_USER",
	"cms.password":   "WP_PASSWORD",
}

// Load builds a Config from defaults, an optional YAML file, an optional
// dotenv file, and the environment, in increasing order of precedence.
func Load(path, envFile string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SHOWCASE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	for key, env := range legacyEnv {
		if err := v.BindEnv(key, "SHOWCASE_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if envFile != "" {
		if err := mergeDotenv(v, envFile); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// mergeDotenv copies credentials from a dotenv file. Values already present
// in the environment or the config file win. A missing file is ignored.
func mergeDotenv(v *viper.Viper, envFile string) error {
	if _, err := os.Stat(envFile); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	dot := viper.New()
	dot.SetConfigFile(envFile)
	dot.SetConfigType("env")
	if err := dot.ReadInConfig(); err != nil {
		return fmt.Errorf("read env file: %w", err)
	}
	for key, env := range legacyEnv {
		if v.IsSet(key) && v.GetString(key) != "" {
			continue
		}
		if val := dot.GetString(strings.ToLower(env)); val != "" {
			v.Set(key, val)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("urls", []string{})
	v.SetDefault("fetch.timeout", 10*time.Second)
	v.SetDefault("fetch.user_agent", "")
	v.SetDefault("download.timeout", time.Duration(0))
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.text_model", "gpt-3.5-turbo")
	v.SetDefault("openai.image_model", "dall-e-3")
	v.SetDefault("openai.image_size", "1024x1024")
	v.SetDefault("openai.requests_per_minute", 0.0)
	v.SetDefault("cms.blog_id", 0)
	v.SetDefault("cms.post_type", "projet")
	v.SetDefault("cms.post_status", "publish")
	v.SetDefault("logging.development", false)
	v.SetDefault("metrics.textfile", "")
}

// Validate enforces required values and reasonable limits. Missing
// credentials are reported as config errors.
func (c Config) Validate() error {
	var missing []string
	if c.OpenAI.APIKey == "" {
		missing = append(missing, "openai.api_key")
	}
	if c.CMS.URL == "" {
		missing = append(missing, "cms.url")
	}
	if c.CMS.Username == "" {
		missing = append(missing, "cms.username")
	}
	if c.CMS.Password == "" {
		missing = append(missing, "cms.password")
	}
	if len(missing) > 0 {
		return showcase.NewError(showcase.KindConfig, "validate", "",
			fmt.Errorf("missing required settings: %s", strings.Join(missing, ", ")))
	}
	if c.Fetch.Timeout <= 0 {
		return showcase.NewError(showcase.KindConfig, "validate", "", errors.New("fetch.timeout must be > 0"))
	}
	if c.OpenAI.RequestsPerMinute < 0 {
		return showcase.NewError(showcase.KindConfig, "validate", "", errors.New("openai.requests_per_minute must be >= 0"))
	}
	if c.Download.Timeout < 0 {
		return showcase.NewError(showcase.KindConfig, "validate", "", errors.New("download.timeout must be >= 0"))
	}
	return nil
}
