package taskservice

import "time"

type Config struct {
	MaxParallel int           `yaml:"max_parallel" validate:"gte=1"`
	TaskTimeout time.Duration `yaml:"task_timeout" validate:"gte=0"`
	// Strategy and Workers apply to tasks that leave them unset.
	Strategy string `yaml:"strategy" validate:"omitempty,oneof=recursive frontier"`
	Workers  int    `yaml:"workers" validate:"gte=0,lte=1024"`
}
