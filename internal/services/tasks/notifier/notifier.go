package notifier

import "github.com/kestfor/hexspeak/internal/services/tasks"

type Notifier interface {
	Notify(result *tasks.TaskProgress) error
}
