package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ExtractionConfig holds tunables for OCR recognition and bulk import.
type ExtractionConfig struct {
	TesseractPath string        `mapstructure:"tesseractPath"`
	TessdataDir   string        `mapstructure:"tessdataDir"`
	Language      string        `mapstructure:"language"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxImageBytes int64         `mapstructure:"maxImageBytes"`
	MaxBatchSize  int           `mapstructure:"maxBatchSize"`
}

// DefaultExtractionConfig returns the built-in tunables.
func DefaultExtractionConfig() ExtractionConfig {
	return ExtractionConfig{
		TesseractPath: "tesseract",
		Language:      "eng",
		Timeout:       60 * time.Second,
		MaxImageBytes: 10 << 20,
		MaxBatchSize:  500,
	}
}

// ExtractionHolder provides hot-reloadable access to ExtractionConfig.
type ExtractionHolder struct {
	current atomic.Value // holds ExtractionConfig
}

// NewExtractionHolder loads extraction.yml and watches it for changes.
func NewExtractionHolder() (*ExtractionHolder, error) {
	v := viper.New()

	v.SetConfigName("extraction")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/telm/config")
	v.AddConfigPath("/etc/telm")
	v.AddConfigPath(".")

	v.SetEnvPrefix("TELM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultExtractionConfig()
		v.SetDefault("extraction.tesseractPath", defaults.TesseractPath)
		v.SetDefault("extraction.tessdataDir", defaults.TessdataDir)
		v.SetDefault("extraction.language", defaults.Language)
		v.SetDefault("extraction.timeout", defaults.Timeout)
		v.SetDefault("extraction.maxImageBytes", defaults.MaxImageBytes)
		v.SetDefault("extraction.maxBatchSize", defaults.MaxBatchSize)
	}

	var cfg ExtractionConfig
	if err := v.UnmarshalKey("extraction", &cfg); err != nil {
		return nil, err
	}
	applyExtractionDefaults(&cfg)
	if err := validateExtractionConfig(cfg); err != nil {
		return nil, err
	}

	holder := &ExtractionHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated ExtractionConfig
		if err := v.UnmarshalKey("extraction", &updated); err != nil {
			log.Printf("[extraction-config] reload failed: %v", err)
			return
		}
		applyExtractionDefaults(&updated)
		if err := validateExtractionConfig(updated); err != nil {
			log.Printf("[extraction-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[extraction-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// Get returns the current extraction config.
func (h *ExtractionHolder) Get() ExtractionConfig {
	return h.current.Load().(ExtractionConfig)
}

// Store replaces the current config. Intended for tests.
func (h *ExtractionHolder) Store(cfg ExtractionConfig) {
	applyExtractionDefaults(&cfg)
	h.current.Store(cfg)
}

func applyExtractionDefaults(cfg *ExtractionConfig) {
	defaults := DefaultExtractionConfig()
	if strings.TrimSpace(cfg.TesseractPath) == "" {
		cfg.TesseractPath = defaults.TesseractPath
	}
	if strings.TrimSpace(cfg.Language) == "" {
		cfg.Language = defaults.Language
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.MaxImageBytes <= 0 {
		cfg.MaxImageBytes = defaults.MaxImageBytes
	}
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = defaults.MaxBatchSize
	}
}

func validateExtractionConfig(cfg ExtractionConfig) error {
	if cfg.Timeout < time.Second {
		return errors.New("extraction.timeout must be at least 1s")
	}
	return nil
}
