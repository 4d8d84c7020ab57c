// Package config provides configuration management for the news event monitor.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Embedding   EmbeddingConfig  `mapstructure:"embedding"`
	Clustering  ClusteringConfig `mapstructure:"clustering"`
	Validity    ValidityConfig   `mapstructure:"validity"`
	Decision    DecisionConfig   `mapstructure:"decision"`
	Logging     LoggingConfig    `mapstructure:"logging"`
	Credentials Credentials      `mapstructure:"-"` // Loaded separately
}

// EmbeddingConfig holds text embedding configuration.
type EmbeddingConfig struct {
	Model     string `mapstructure:"model"`
	Dimension int    `mapstructure:"dimension"`
	CacheCap  int    `mapstructure:"cache_cap"` // entries; cache resets when reached
}

// ClusteringConfig holds clustering algorithm configuration.
type ClusteringConfig struct {
	Algorithm           string  `mapstructure:"algorithm"` // "dbscan"
	MinClusterSize      int     `mapstructure:"min_cluster_size"`
	SelectionEpsilon    float64 `mapstructure:"selection_epsilon"`
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"` // greedy cosine
	SmallBatchLimit     int     `mapstructure:"small_batch_limit"`    // n <= limit uses greedy cosine
}

// ValidityConfig holds event-validity filter thresholds.
type ValidityConfig struct {
	MinEventSize       int     `mapstructure:"min_event_size"`
	MinCompanyCount    int     `mapstructure:"min_company_count"`
	MinSignalCount     int     `mapstructure:"min_signal_count"`
	MinInvestmentScore float64 `mapstructure:"min_investment_score"`
}

// ImportanceTier holds the thresholds an event must meet simultaneously to
// reach an importance level.
type ImportanceTier struct {
	MinNews    int     `mapstructure:"min_news"`
	MinSources int     `mapstructure:"min_sources"`
	MinScore   float64 `mapstructure:"min_score"`
}

// DecisionConfig holds decision-layer configuration.
type DecisionConfig struct {
	High            ImportanceTier `mapstructure:"high"`
	Medium          ImportanceTier `mapstructure:"medium"`
	PositiveSignals []string       `mapstructure:"positive_signals"`
	RiskSignals     []string       `mapstructure:"risk_signals"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    bool   `mapstructure:"file"`
}

// Credentials holds API credentials.
type Credentials struct {
	OpenAI OpenAICredentials `mapstructure:"openai"`
}

// OpenAICredentials holds OpenAI API credentials.
type OpenAICredentials struct {
	APIKey string `mapstructure:"api_key"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/ai-invest-news"
	}
	return filepath.Join(home, ".config", "ai-invest-news")
}

// Default returns the built-in configuration, matched to the thresholds the
// upstream scorer was tuned against.
func Default() *Config {
	return &Config{
		Embedding: EmbeddingConfig{
			Model:     "text-embedding-3-small",
			Dimension: 384,
			CacheCap:  4096,
		},
		Clustering: ClusteringConfig{
			Algorithm:           "dbscan",
			MinClusterSize:      2,
			SelectionEpsilon:    0.3,
			SimilarityThreshold: 0.7,
			SmallBatchLimit:     10,
		},
		Validity: ValidityConfig{
			MinEventSize:       2,
			MinCompanyCount:    1,
			MinSignalCount:     1,
			MinInvestmentScore: 0.3,
		},
		Decision: DecisionConfig{
			High:   ImportanceTier{MinNews: 3, MinSources: 2, MinScore: 0.6},
			Medium: ImportanceTier{MinNews: 2, MinSources: 1, MinScore: 0.3},
			PositiveSignals: []string{
				"earnings", "revenue", "profit", "funding",
				"investment", "contract", "partnership", "product_launch",
			},
			RiskSignals: []string{
				"regulation", "ban", "lawsuit", "antitrust",
				"investigation", "security", "data_leak", "delay",
			},
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
			File:    true,
		},
	}
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := Default()

	// Load main config
	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	// Load credentials
	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, target *Config) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v, target)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Missing config file is fine: run on defaults.
			return nil
		}
		return err
	}

	return v.Unmarshal(target)
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("embedding.model", cfg.Embedding.Model)
	v.SetDefault("embedding.dimension", cfg.Embedding.Dimension)
	v.SetDefault("embedding.cache_cap", cfg.Embedding.CacheCap)
	v.SetDefault("clustering.algorithm", cfg.Clustering.Algorithm)
	v.SetDefault("clustering.min_cluster_size", cfg.Clustering.MinClusterSize)
	v.SetDefault("clustering.selection_epsilon", cfg.Clustering.SelectionEpsilon)
	v.SetDefault("clustering.similarity_threshold", cfg.Clustering.SimilarityThreshold)
	v.SetDefault("clustering.small_batch_limit", cfg.Clustering.SmallBatchLimit)
	v.SetDefault("validity.min_event_size", cfg.Validity.MinEventSize)
	v.SetDefault("validity.min_company_count", cfg.Validity.MinCompanyCount)
	v.SetDefault("validity.min_signal_count", cfg.Validity.MinSignalCount)
	v.SetDefault("validity.min_investment_score", cfg.Validity.MinInvestmentScore)
	v.SetDefault("decision.high.min_news", cfg.Decision.High.MinNews)
	v.SetDefault("decision.high.min_sources", cfg.Decision.High.MinSources)
	v.SetDefault("decision.high.min_score", cfg.Decision.High.MinScore)
	v.SetDefault("decision.medium.min_news", cfg.Decision.Medium.MinNews)
	v.SetDefault("decision.medium.min_sources", cfg.Decision.Medium.MinSources)
	v.SetDefault("decision.medium.min_score", cfg.Decision.Medium.MinScore)
	v.SetDefault("decision.positive_signals", cfg.Decision.PositiveSignals)
	v.SetDefault("decision.risk_signals", cfg.Decision.RiskSignals)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.console", cfg.Logging.Console)
	v.SetDefault("logging.file", cfg.Logging.File)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Credentials.OpenAI.APIKey = v
	}
	if v := os.Getenv("EMBEDDING_MODEL"); v != "" {
		cfg.Embedding.Model = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Embedding.Dimension <= 0 {
		return fmt.Errorf("embedding dimension must be positive")
	}
	if c.Embedding.CacheCap < 0 {
		return fmt.Errorf("embedding cache_cap must be non-negative")
	}
	if c.Clustering.Algorithm != "dbscan" {
		return fmt.Errorf("unknown clustering algorithm: %s", c.Clustering.Algorithm)
	}
	if c.Clustering.MinClusterSize < 1 {
		return fmt.Errorf("min_cluster_size must be at least 1")
	}
	if c.Clustering.SimilarityThreshold <= 0 || c.Clustering.SimilarityThreshold >= 1 {
		return fmt.Errorf("similarity_threshold must be in (0, 1)")
	}
	if c.Clustering.SelectionEpsilon <= 0 {
		return fmt.Errorf("selection_epsilon must be positive")
	}
	if c.Validity.MinEventSize < 1 {
		return fmt.Errorf("min_event_size must be at least 1")
	}
	if c.Validity.MinInvestmentScore < 0 || c.Validity.MinInvestmentScore > 1 {
		return fmt.Errorf("min_investment_score must be between 0 and 1")
	}
	if c.Decision.High.MinNews < c.Decision.Medium.MinNews {
		return fmt.Errorf("high tier min_news must not be below medium tier")
	}
	if c.Decision.High.MinScore < c.Decision.Medium.MinScore {
		return fmt.Errorf("high tier min_score must not be below medium tier")
	}
	return nil
}
