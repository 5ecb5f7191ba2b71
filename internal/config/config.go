// Package config loads the drumtwin configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/drumtwinlabs/drumtwin/pkg/physics"
	"github.com/drumtwinlabs/drumtwin/pkg/session"
	"github.com/drumtwinlabs/drumtwin/pkg/supervisor"
)

// Config is the top-level drumtwin configuration.
type Config struct {
	Server     Server                `yaml:"server"`
	Step       time.Duration         `yaml:"step"`
	Physics    physics.Constants     `yaml:"physics"`
	Initial    session.Initial       `yaml:"initial"`
	Supervisor supervisor.Policy     `yaml:"supervisor"`
	Features   supervisor.FeatureMap `yaml:"features"`
	Model      Model                 `yaml:"model"`
	Redis      Redis                 `yaml:"redis"`
	LogLevel   string                `yaml:"log_level"`
}

// Server holds the HTTP listener settings.
type Server struct {
	Addr string `yaml:"addr"`
}

// Model points at the exported model artifact.
type Model struct {
	ArtifactPath string `yaml:"artifact_path"`
}

// Redis enables the snapshot mirror and distributed locking when Addr is set.
type Redis struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// Enabled reports whether a Redis backend is configured.
func (r Redis) Enabled() bool { return r.Addr != "" }

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server:     Server{Addr: ":8000"},
		Step:       physics.NominalStep,
		Physics:    physics.DefaultConstants(),
		Initial:    session.DefaultInitial(),
		Supervisor: supervisor.DefaultPolicy(),
		Features:   supervisor.DefaultFeatureMap(),
		Model:      Model{ArtifactPath: "boiler_model.json"},
		LogLevel:   "info",
	}
}

// Load reads a YAML config file, layering it over Default. A missing file
// at the default path is not an error; callers that pass an explicit path
// should check existence themselves.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Step <= 0 {
		return fmt.Errorf("config: step must be positive, got %s", c.Step)
	}
	if c.Physics.MinWaterLevel >= c.Physics.MaxWaterLevel {
		return fmt.Errorf("config: min water level %.1f must be below max %.1f",
			c.Physics.MinWaterLevel, c.Physics.MaxWaterLevel)
	}
	if c.Supervisor.SafeFireLimit <= 0 || c.Supervisor.SafeFireLimit > 100 {
		return fmt.Errorf("config: safe fire limit must be in (0, 100], got %.1f", c.Supervisor.SafeFireLimit)
	}
	return nil
}
