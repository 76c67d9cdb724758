package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/lazypower/persona/internal/profile"
)

// Config holds all persona configuration. Loaded once at startup and handed
// to components by value.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Taxonomy TaxonomyConfig `yaml:"taxonomy"`
	Profile  ProfileConfig  `yaml:"profile"`
}

type ServerConfig struct {
	Bind string `yaml:"bind" env:"PERSONA_BIND"`
	Port int    `yaml:"port" env:"PERSONA_PORT"`
}

type DatabaseConfig struct {
	Path string `yaml:"path" env:"PERSONA_DB_PATH"`
}

type TaxonomyConfig struct {
	// Path to a YAML taxonomy file; empty uses the built-in taxonomy.
	Path string `yaml:"path" env:"PERSONA_TAXONOMY_PATH"`
}

// ProfileConfig tunes the lifecycle engine.
type ProfileConfig struct {
	ReinforcementWeight float64 `yaml:"reinforcement_weight"`
	DefaultDecayRate    float64 `yaml:"default_decay_rate"`
	DecayWindowDays     float64 `yaml:"decay_window_days"`
	EvidenceCap         int     `yaml:"evidence_cap"`
	ConfidentThreshold  float64 `yaml:"confident_threshold"`
	MaturityTagTarget   int     `yaml:"maturity_tag_target"`
	TimelineCap         int     `yaml:"timeline_cap"`
	StrictExclusivity   bool    `yaml:"strict_exclusivity" env:"PERSONA_STRICT_EXCLUSIVITY"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	p := profile.DefaultParams()
	return Config{
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 38585,
		},
		Database: DatabaseConfig{
			Path: "", // resolved at runtime via store.DefaultDBPath()
		},
		Profile: ProfileConfig{
			ReinforcementWeight: p.ReinforcementWeight,
			DefaultDecayRate:    p.DefaultDecayRate,
			DecayWindowDays:     p.DecayWindowDays,
			EvidenceCap:         p.EvidenceCap,
			ConfidentThreshold:  p.ConfidentThreshold,
			MaturityTagTarget:   int(p.MaturityTagTarget),
			TimelineCap:         p.TimelineCap,
		},
	}
}

// Load builds the effective configuration: defaults, overlaid by the YAML
// file at path (if any), overlaid by environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}

// Params converts the profile section into engine parameters.
func (c *Config) Params() profile.Params {
	p := profile.DefaultParams()
	p.ReinforcementWeight = c.Profile.ReinforcementWeight
	p.DefaultDecayRate = c.Profile.DefaultDecayRate
	p.DecayWindowDays = c.Profile.DecayWindowDays
	p.EvidenceCap = c.Profile.EvidenceCap
	p.ConfidentThreshold = c.Profile.ConfidentThreshold
	p.MaturityTagTarget = float64(c.Profile.MaturityTagTarget)
	p.TimelineCap = c.Profile.TimelineCap
	p.StrictExclusivity = c.Profile.StrictExclusivity
	return p
}
