package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Core   CoreConfig   `toml:"core"`
	Parser ParserConfig `toml:"parser"`
	API    APIConfig    `toml:"api"`
}

type CoreConfig struct {
	LogLevel    string `toml:"log_level"`
	PreviewRows int    `toml:"preview_rows"`
}

type ParserConfig struct {
	// Sentinels extends the template detection vocabulary.
	Sentinels []string `toml:"sentinels"`
	// SkipToData starts non-standard parsing after the DATA: descriptor.
	SkipToData bool `toml:"skip_to_data"`
}

type APIConfig struct {
	BaseURL        string `toml:"base_url"`
	Limit          int    `toml:"limit"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	Retries        int    `toml:"retries"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Core: CoreConfig{
			LogLevel:    "info",
			PreviewRows: 20,
		},
		Parser: ParserConfig{
			Sentinels:  []string{},
			SkipToData: false,
		},
		API: APIConfig{
			BaseURL:        "",
			Limit:          100,
			TimeoutSeconds: 30,
			Retries:        2,
		},
	}
}

func LoadConfigFromFile(path string) (*Config, error) {
	config := NewDefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil // no config file, return defaults
	}

	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("failed to decode TOML config: %w", err)
	}

	return config, nil
}
