package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port        int      `yaml:"port"`
		CORSOrigins []string `yaml:"corsOrigins"`
		RateLimit   struct {
			Capacity   int `yaml:"capacity"`
			RefillRate int `yaml:"refillRate"`
		} `yaml:"rateLimit"`
	} `yaml:"server"`

	Data struct {
		Dir     string `yaml:"dir"`
		Backend string `yaml:"backend"` // "json" (legacy layout) or "sqlite"
	} `yaml:"data"`

	Model struct {
		SchemaPath     string  `yaml:"schemaPath"`
		ScorerURL      string  `yaml:"scorerURL"`
		TimeoutSeconds int     `yaml:"timeoutSeconds"`
		Threshold      float64 `yaml:"threshold"`
	} `yaml:"model"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// Load reads the config.yaml file and fills in defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.Server.RateLimit.Capacity == 0 {
		c.Server.RateLimit.Capacity = 60
	}
	if c.Server.RateLimit.RefillRate == 0 {
		c.Server.RateLimit.RefillRate = 10
	}
	if c.Data.Dir == "" {
		c.Data.Dir = "saved_data"
	}
	if c.Data.Backend == "" {
		c.Data.Backend = "json"
	}
	if c.Model.SchemaPath == "" {
		c.Model.SchemaPath = "model/feature_info.json"
	}
	if c.Model.TimeoutSeconds == 0 {
		c.Model.TimeoutSeconds = 10
	}
	if c.Model.Threshold == 0 {
		c.Model.Threshold = 0.5
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// ScorerTimeout is the per-call timeout for the model server.
func (c *Config) ScorerTimeout() time.Duration {
	return time.Duration(c.Model.TimeoutSeconds) * time.Second
}
