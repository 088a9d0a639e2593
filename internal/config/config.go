// Package config provides configuration management for the reporting pipeline.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Tagging   TaggingConfig   `mapstructure:"tagging"`
	PlanMatch PlanMatchConfig `mapstructure:"plan_match"`
	Storage   StorageConfig   `mapstructure:"storage"`
}

// TaggingConfig holds the behavioral tagger thresholds. Every value has a
// documented default so the rules stay testable against varied thresholds
// instead of living as embedded literals.
type TaggingConfig struct {
	// MinRiskReward is the profit-to-risk ratio below which a trip with a
	// known stop distance is tagged POOR RISK REWARD.
	MinRiskReward float64 `mapstructure:"min_risk_reward"`
	// LossHoldMinutes is the holding duration beyond which a losing trip
	// is tagged HELD LOSS TOO LONG.
	LossHoldMinutes int `mapstructure:"loss_hold_minutes"`
	// PrematureExitMinutes bounds winning trips tagged PREMATURE EXIT.
	PrematureExitMinutes int `mapstructure:"premature_exit_minutes"`
	// StopTolerance multiplies the running average loss; a loss beyond it
	// is tagged MISSED STOP LOSS.
	StopTolerance float64 `mapstructure:"stop_tolerance"`
	// EntryCutoff (HH:MM) is the time before which entries are tagged
	// CHASED ENTRY.
	EntryCutoff string `mapstructure:"entry_cutoff"`
	// RevengeWindowMinutes is the window after a loss within which a new
	// same-direction losing entry is tagged REVENGE TRADE.
	RevengeWindowMinutes int `mapstructure:"revenge_window_minutes"`
	// OvertradeCount is the per-day trip count beyond which trips are
	// tagged OVERTRADING.
	OvertradeCount int `mapstructure:"overtrade_count"`
	// Capital and CapitalRiskPercent cap the approximate per-trip risk;
	// SizeLossMultiple caps it against the running average loss. Either
	// breach tags WRONG POSITION SIZE.
	Capital            float64 `mapstructure:"capital"`
	CapitalRiskPercent float64 `mapstructure:"capital_risk_percent"`
	SizeLossMultiple   float64 `mapstructure:"size_loss_multiple"`
}

// PlanMatchConfig holds plan-to-execution matching configuration.
type PlanMatchConfig struct {
	// PriceTolerancePercent is the allowed entry price deviation between a
	// plan and the executed trip.
	PriceTolerancePercent float64 `mapstructure:"price_tolerance_percent"`
}

// StorageConfig holds persistence configuration.
type StorageConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/tradehabit"
	}
	return filepath.Join(home, ".config", "tradehabit")
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Tagging: TaggingConfig{
			MinRiskReward:        1.2,
			LossHoldMinutes:      90,
			PrematureExitMinutes: 8,
			StopTolerance:        1.3,
			EntryCutoff:          "09:20",
			RevengeWindowMinutes: 15,
			OvertradeCount:       5,
			Capital:              100000,
			CapitalRiskPercent:   1.0,
			SizeLossMultiple:     2.0,
		},
		PlanMatch: PlanMatchConfig{
			PriceTolerancePercent: 0.5,
		},
		Storage: StorageConfig{
			DBPath: filepath.Join(DefaultConfigDir(), "tradehabit.db"),
		},
	}
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v, configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
		// First run: write a template so thresholds are discoverable.
		if err := createTemplateConfig(configDir); err != nil {
			return nil, fmt.Errorf("creating config template: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyEnvOverrides(cfg)

	if cfg.Storage.DBPath == "" {
		cfg.Storage.DBPath = filepath.Join(configDir, "tradehabit.db")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	def := Default()
	v.SetDefault("tagging.min_risk_reward", def.Tagging.MinRiskReward)
	v.SetDefault("tagging.loss_hold_minutes", def.Tagging.LossHoldMinutes)
	v.SetDefault("tagging.premature_exit_minutes", def.Tagging.PrematureExitMinutes)
	v.SetDefault("tagging.stop_tolerance", def.Tagging.StopTolerance)
	v.SetDefault("tagging.entry_cutoff", def.Tagging.EntryCutoff)
	v.SetDefault("tagging.revenge_window_minutes", def.Tagging.RevengeWindowMinutes)
	v.SetDefault("tagging.overtrade_count", def.Tagging.OvertradeCount)
	v.SetDefault("tagging.capital", def.Tagging.Capital)
	v.SetDefault("tagging.capital_risk_percent", def.Tagging.CapitalRiskPercent)
	v.SetDefault("tagging.size_loss_multiple", def.Tagging.SizeLossMultiple)
	v.SetDefault("plan_match.price_tolerance_percent", def.PlanMatch.PriceTolerancePercent)
	v.SetDefault("storage.db_path", filepath.Join(configDir, "tradehabit.db"))
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TRADEHABIT_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Tagging.MinRiskReward < 0 {
		return fmt.Errorf("min_risk_reward must be non-negative")
	}
	if c.Tagging.LossHoldMinutes < 0 {
		return fmt.Errorf("loss_hold_minutes must be non-negative")
	}
	if c.Tagging.OvertradeCount < 1 {
		return fmt.Errorf("overtrade_count must be at least 1")
	}
	if c.Tagging.Capital <= 0 {
		return fmt.Errorf("capital must be positive")
	}
	if c.Tagging.CapitalRiskPercent <= 0 || c.Tagging.CapitalRiskPercent > 100 {
		return fmt.Errorf("capital_risk_percent must be between 0 and 100")
	}
	if _, err := parseClock(c.Tagging.EntryCutoff); err != nil {
		return fmt.Errorf("entry_cutoff: %w", err)
	}
	if c.PlanMatch.PriceTolerancePercent < 0 {
		return fmt.Errorf("price_tolerance_percent must be non-negative")
	}
	return nil
}

// parseClock validates an HH:MM string and returns minutes after midnight.
func parseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock time %q out of range", s)
	}
	return h*60 + m, nil
}

// CutoffMinutes returns the entry cutoff as minutes after midnight.
func (t TaggingConfig) CutoffMinutes() int {
	m, err := parseClock(t.EntryCutoff)
	if err != nil {
		return 9*60 + 20
	}
	return m
}
