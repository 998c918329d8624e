/*
 * Copyright 2025 The supermart-insights Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *    https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Detection DetectionConfig
	Database  DatabaseConfig
	Gemini    GeminiConfig
}

// DetectionConfig holds the dialect-detection knobs. The mojibake threshold
// and sample size are configuration rather than constants: the right values
// depend on dataset size.
type DetectionConfig struct {
	Encodings         []string
	Delimiters        []string
	MojibakeMarkers   []string
	MojibakeThreshold int
	SampleRows        int
	FieldWeight       int
}

// DatabaseConfig holds export-target connection configuration.
type DatabaseConfig struct {
	Dialect                        string
	Host                           string
	Port                           int
	User                           string
	Password                       string
	DBName                         string
	SSLMode                        string
	CloudSQLInstanceConnectionName string
	UsePrivateIP                   bool
	Table                          string
	BatchSize                      int
}

// GeminiConfig holds the narrative-generation settings.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// Default returns the configuration used when no file, env var or flag
// overrides a value.
func Default() *Config {
	return &Config{
		Detection: DetectionConfig{
			Encodings:         []string{"utf-8", "utf-8-sig", "latin-1", "windows-1252"},
			Delimiters:        []string{",", ";", "\t", "|"},
			MojibakeMarkers:   []string{"Ã", "Â", "�"},
			MojibakeThreshold: 5,
			SampleRows:        50,
			FieldWeight:       10,
		},
		Database: DatabaseConfig{
			Dialect:   "postgres",
			Host:      "localhost",
			Port:      5432,
			SSLMode:   "disable",
			Table:     "supermarket_sales",
			BatchSize: 500,
		},
		Gemini: GeminiConfig{
			Model: "gemini-1.5-flash-latest",
		},
	}
}

// Load reads supermart.yaml (or the explicitly given file) plus SUPERMART_*
// environment variables over the defaults. A missing default config file is
// not an error; a missing explicit one is.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("supermart")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.supermart")
	}
	v.SetEnvPrefix("SUPERMART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if cfgFile != "" {
			return nil, fmt.Errorf("read config file %s: %w", cfgFile, err)
		}
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("detection.encodings", d.Detection.Encodings)
	v.SetDefault("detection.delimiters", d.Detection.Delimiters)
	v.SetDefault("detection.mojibakemarkers", d.Detection.MojibakeMarkers)
	v.SetDefault("detection.mojibakethreshold", d.Detection.MojibakeThreshold)
	v.SetDefault("detection.samplerows", d.Detection.SampleRows)
	v.SetDefault("detection.fieldweight", d.Detection.FieldWeight)
	v.SetDefault("database.dialect", d.Database.Dialect)
	v.SetDefault("database.host", d.Database.Host)
	v.SetDefault("database.port", d.Database.Port)
	v.SetDefault("database.sslmode", d.Database.SSLMode)
	v.SetDefault("database.table", d.Database.Table)
	v.SetDefault("database.batchsize", d.Database.BatchSize)
	v.SetDefault("gemini.model", d.Gemini.Model)
}

// Validate enforces cross-field invariants, notably that one recovered
// canonical field always outranks the mojibake penalty in the detector's
// score.
func (c *Config) Validate() error {
	if c.Detection.FieldWeight <= 1 {
		return fmt.Errorf("detection.fieldweight must be greater than the maximum mojibake penalty (1)")
	}
	if c.Detection.MojibakeThreshold < 1 {
		return fmt.Errorf("detection.mojibakethreshold must be at least 1")
	}
	if c.Detection.SampleRows < 1 {
		return fmt.Errorf("detection.samplerows must be at least 1")
	}
	if c.Database.BatchSize < 1 {
		return fmt.Errorf("database.batchsize must be at least 1")
	}
	for _, delim := range c.Detection.Delimiters {
		if len([]rune(delim)) != 1 {
			return fmt.Errorf("detection.delimiters entries must be single characters, got %q", delim)
		}
	}
	return nil
}

// DelimiterRunes converts the configured delimiter strings to runes.
// Validate has already rejected multi-character entries.
func (c *Config) DelimiterRunes() []rune {
	runes := make([]rune, 0, len(c.Detection.Delimiters))
	for _, d := range c.Detection.Delimiters {
		runes = append(runes, []rune(d)[0])
	}
	return runes
}

var globalConfig *Config

// GetConfig returns the process-wide configuration, defaulting when
// SetConfig has not run yet.
func GetConfig() *Config {
	if globalConfig == nil {
		return Default()
	}
	return globalConfig
}

// SetConfig sets the global configuration.
func SetConfig(cfg *Config) {
	globalConfig = cfg
}
