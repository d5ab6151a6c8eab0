package cluster

import "time"

type Config struct {
	// Nodes are base URLs of search services, e.g. http://10.0.0.7:8080.
	Nodes         []string      `yaml:"nodes" validate:"dive,url"`
	PollPeriod    time.Duration `yaml:"poll_period" validate:"gte=0"`
	HealthTimeout time.Duration `yaml:"health_timeout" validate:"gte=0"`
}
