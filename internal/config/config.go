package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sjianjun/charsetconv"
	"github.com/spf13/viper"
)

// Codecs accepted by the codec setting. "text" prints the decoded body.
var validCodecs = []string{"text", "json", "xml", "yaml", "msgpack", "bson"}

// Config holds the bodydecode settings.
type Config struct {
	ContentType   string            `mapstructure:"content_type"`    // Overrides the Content-Type of the input
	MetaScanLimit int               `mapstructure:"meta_scan_limit"` // Leading bytes inspected for <meta> declarations
	Codec         string            `mapstructure:"codec"`           // "text" or a structured codec name
	Sniffer       string            `mapstructure:"sniffer"`         // "text" or "html"
	Timeout       time.Duration     `mapstructure:"timeout"`         // HTTP fetch timeout
	LogLevel      string            `mapstructure:"log_level"`
	LogFormat     string            `mapstructure:"log_format"` // "text" (default) or "json"
	Aliases       map[string]string `mapstructure:"aliases"`    // Extra label -> known label mappings
}

// InitConfig initializes the configuration system
func InitConfig(cfgFile string) error {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}

		// Search config in home directory with name ".bodydecode" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".bodydecode")
	}

	viper.SetEnvPrefix("BODYDECODE")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

// Load loads the configuration from viper
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Codec = strings.ToLower(strings.TrimSpace(cfg.Codec))
	cfg.Sniffer = strings.ToLower(strings.TrimSpace(cfg.Sniffer))

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("content_type", "")
	viper.SetDefault("meta_scan_limit", charsetconv.DefaultMetaScanLimit)
	viper.SetDefault("codec", "text")
	viper.SetDefault("sniffer", "text")
	viper.SetDefault("timeout", 30*time.Second)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "text")
}

// validate validates the configuration
func validate(cfg *Config) error {
	if cfg.MetaScanLimit < 0 {
		return fmt.Errorf("meta_scan_limit must not be negative, got %d", cfg.MetaScanLimit)
	}
	if cfg.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", cfg.Timeout)
	}
	if !isValidCodec(cfg.Codec) {
		return fmt.Errorf("codec must be one of %s, got %q", strings.Join(validCodecs, ", "), cfg.Codec)
	}
	if cfg.Sniffer != "text" && cfg.Sniffer != "html" {
		return fmt.Errorf("sniffer must be text or html, got %q", cfg.Sniffer)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return fmt.Errorf("log_format must be text or json, got %q", cfg.LogFormat)
	}
	for label, target := range cfg.Aliases {
		if strings.TrimSpace(label) == "" {
			return fmt.Errorf("aliases: empty label for target %q", target)
		}
	}
	return nil
}

func isValidCodec(codec string) bool {
	for _, c := range validCodecs {
		if c == codec {
			return true
		}
	}
	return false
}

// DecoderOptions translates the configuration into charsetconv options.
// Every alias target must be a label the built-in indexes know.
func (cfg *Config) DecoderOptions() ([]charsetconv.Option, error) {
	opts := []charsetconv.Option{charsetconv.WithMetaScanLimit(cfg.MetaScanLimit)}

	if cfg.Sniffer == "html" {
		opts = append(opts, charsetconv.WithSniffer(charsetconv.HTMLSniffer()))
	}

	for label, target := range cfg.Aliases {
		enc, _, err := charsetconv.LookupEncoding(target)
		if err != nil {
			return nil, fmt.Errorf("alias %q: %w", label, err)
		}
		opts = append(opts, charsetconv.WithEncoding(label, enc))
	}
	return opts, nil
}

// Structured reports whether output goes through a codec rather than being
// printed as text.
func (cfg *Config) Structured() bool {
	return cfg.Codec != "text"
}
