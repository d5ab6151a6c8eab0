package app

import (
	"fmt"
	"os"
	"time"

	"github.com/kestfor/hexspeak/internal/services/cluster"
	"github.com/kestfor/hexspeak/internal/services/tasks/notifier"
	"github.com/kestfor/hexspeak/internal/services/tasks/taskservice"
	"github.com/kestfor/hexspeak/internal/wordtable"
	"github.com/kestfor/hexspeak/pkg/logging"
	"github.com/kestfor/hexspeak/pkg/validation"
	"gopkg.in/yaml.v3"
)

const defaultTarget = 8

type HTTPServerConfig struct {
	Port            int           `yaml:"port" validate:"gte=1,lte=65535"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gte=0"`
}

type SearchConfig struct {
	Dictionary   string `yaml:"dictionary" validate:"required"`
	Alphabet     string `yaml:"alphabet" validate:"required"`
	TargetLength int    `yaml:"target_length" validate:"gte=0"`
	Strategy     string `yaml:"strategy" validate:"omitempty,oneof=recursive frontier"`
	Workers      int    `yaml:"workers" validate:"gte=0,lte=1024"`

	// WatchDictionary makes serve reload the dictionary when the file changes.
	WatchDictionary bool `yaml:"watch_dictionary"`
}

// Config is the whole configuration file. When Cluster lists nodes, count
// and list run on them instead of in this process.
type Config struct {
	Logger   *logging.LoggerConfig        `yaml:"logger"`
	HTTP     *HTTPServerConfig            `yaml:"http"`
	Search   *SearchConfig                `yaml:"search"`
	Service  *taskservice.Config          `yaml:"service"`
	Notifier *notifier.HTTPNotifierConfig `yaml:"notifier"`
	Cluster  *cluster.Config              `yaml:"cluster"`
}

func DefaultConfig() *Config {
	return &Config{
		Logger: &logging.LoggerConfig{Level: "info"},
		HTTP: &HTTPServerConfig{
			Port:            8080,
			ShutdownTimeout: 10 * time.Second,
		},
		Search: &SearchConfig{
			Dictionary:   wordtable.DefaultDictionary,
			Alphabet:     wordtable.DefaultLetters,
			TargetLength: defaultTarget,
			Strategy:     "recursive",
			Workers:      1,
		},
		Service: &taskservice.Config{
			MaxParallel: 4,
		},
		Notifier: &notifier.HTTPNotifierConfig{
			Timeout: 5 * time.Second,
		},
		Cluster: &cluster.Config{
			PollPeriod:    200 * time.Millisecond,
			HealthTimeout: 5 * time.Second,
		},
	}
}

// LoadConfig reads the YAML file at path over the defaults. An empty path
// yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(bytes, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Logger == nil {
		return fmt.Errorf("logger config is required")
	}

	if c.HTTP == nil {
		return fmt.Errorf("http config is required")
	}

	if c.Search == nil {
		return fmt.Errorf("search config is required")
	}

	if c.Service == nil {
		return fmt.Errorf("service config is required")
	}

	if c.Notifier == nil {
		return fmt.Errorf("notifier config is required")
	}

	if c.Cluster == nil {
		return fmt.Errorf("cluster config is required")
	}

	for _, section := range []any{c.Logger, c.HTTP, c.Search, c.Service, c.Notifier, c.Cluster} {
		if err := validation.Struct(section); err != nil {
			return err
		}
	}

	if _, err := wordtable.ParseAlphabet(c.Search.Alphabet); err != nil {
		return err
	}

	return nil
}
