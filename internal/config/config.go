// Package config loads the server and balance configuration from a
// yaml file. A missing file is not an error; every knob has a default
// so the server runs with zero configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"questlog/internal/challenge"
	"questlog/internal/shop"
)

type Config struct {
	Server     ServerConfig           `yaml:"server" json:"server"`
	Balance    Balance                `yaml:"balance" json:"balance"`
	Challenges []challenge.Definition `yaml:"challenges" json:"challenges"`
	Shop       ShopConfig             `yaml:"shop" json:"shop"`
}

type ServerConfig struct {
	Addr                string `yaml:"addr" json:"addr"`
	DataDir             string `yaml:"data_dir" json:"data_dir"`
	TelemetryPath       string `yaml:"telemetry_path" json:"telemetry_path"`
	DefaultUser         string `yaml:"default_user" json:"default_user"`
	SyncDebounceSeconds int    `yaml:"sync_debounce_seconds" json:"sync_debounce_seconds"`
}

type Balance struct {
	DifficultyXP        map[string]int `yaml:"difficulty_xp" json:"difficulty_xp"`
	FocusBonusXP        int            `yaml:"focus_bonus_xp" json:"focus_bonus_xp"`
	FocusDefaultMinutes int            `yaml:"focus_default_minutes" json:"focus_default_minutes"`
}

type ShopConfig struct {
	Items []shop.Item `yaml:"items" json:"items"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:                ":8787",
			DataDir:             "data",
			TelemetryPath:       "data/telemetry.db",
			DefaultUser:         "guest",
			SyncDebounceSeconds: 2,
		},
		Balance: Balance{
			DifficultyXP: map[string]int{
				"easy":      20,
				"medium":    50,
				"hard":      100,
				"legendary": 200,
			},
			FocusBonusXP:        30,
			FocusDefaultMinutes: 25,
		},
		Challenges: challenge.Defaults(),
		Shop:       ShopConfig{Items: shop.DefaultCatalog().Items},
	}
}

func (c *Config) ApplyDefaults() {
	d := Default()
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Server.DataDir == "" {
		c.Server.DataDir = d.Server.DataDir
	}
	if c.Server.TelemetryPath == "" {
		c.Server.TelemetryPath = d.Server.TelemetryPath
	}
	if c.Server.DefaultUser == "" {
		c.Server.DefaultUser = d.Server.DefaultUser
	}
	if c.Server.SyncDebounceSeconds <= 0 {
		c.Server.SyncDebounceSeconds = d.Server.SyncDebounceSeconds
	}
	if len(c.Balance.DifficultyXP) == 0 {
		c.Balance.DifficultyXP = d.Balance.DifficultyXP
	}
	if c.Balance.FocusBonusXP <= 0 {
		c.Balance.FocusBonusXP = d.Balance.FocusBonusXP
	}
	if c.Balance.FocusDefaultMinutes <= 0 {
		c.Balance.FocusDefaultMinutes = d.Balance.FocusDefaultMinutes
	}
	if len(c.Challenges) == 0 {
		c.Challenges = d.Challenges
	}
	if len(c.Shop.Items) == 0 {
		c.Shop.Items = d.Shop.Items
	}
}

// Load reads the config file at path. An absent file yields defaults;
// a present but malformed file is an error.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	c.ApplyDefaults()
	return &c, nil
}
