package cluster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kestfor/hexspeak/internal/search"
	"github.com/kestfor/hexspeak/internal/services/cluster/healthchecker"
	"github.com/kestfor/hexspeak/internal/services/tasks"
	"github.com/kestfor/hexspeak/internal/services/tasks/client"
	"golang.org/x/sync/errgroup"
)

var ErrNoAvailableNodes = errors.New("no available nodes")

const defaultPollPeriod = 200 * time.Millisecond

type HealthCheckerProvider func(nodeAddress string) healthchecker.HealthChecker

// HTTPHealthCheckers probes the /health route of every node.
func HTTPHealthCheckers(timeout time.Duration) HealthCheckerProvider {
	return func(nodeAddress string) healthchecker.HealthChecker {
		return healthchecker.NewHTTPHealthChecker(&healthchecker.HTTPHealthCheckerConfig{
			URL:     nodeAddress + "/health",
			Timeout: timeout,
		})
	}
}

// Cluster splits one search over several search services by first word and
// merges their results.
type Cluster struct {
	nodes      []client.Client
	pollPeriod time.Duration

	healthCheckerProvider HealthCheckerProvider
}

func New(config *Config, nodes []client.Client, healthCheckerProvider HealthCheckerProvider) *Cluster {
	pollPeriod := config.PollPeriod
	if pollPeriod <= 0 {
		pollPeriod = defaultPollPeriod
	}

	return &Cluster{
		nodes:                 nodes,
		pollPeriod:            pollPeriod,
		healthCheckerProvider: healthCheckerProvider,
	}
}

// NewHTTP builds a cluster of the configured HTTP nodes.
func NewHTTP(config *Config) *Cluster {
	nodes := make([]client.Client, 0, len(config.Nodes))
	for _, address := range config.Nodes {
		nodes = append(nodes, client.NewHTTPClient(address))
	}

	return New(config, nodes, HTTPHealthCheckers(config.HealthTimeout))
}

// Run gives every healthy node one shard of task and waits for all of them.
// Phrases are merged in shard order, so a list matches a local search. The
// first failing node cancels the rest.
func (c *Cluster) Run(ctx context.Context, task *tasks.Task) (*tasks.TaskProgress, error) {
	nodes := c.healthyNodes(ctx)
	if len(nodes) == 0 {
		return nil, ErrNoAvailableNodes
	}

	slog.Info("submitting task",
		slog.String("task_id", task.TaskID.String()),
		slog.Int("target_length", task.TargetLength),
		slog.Int("nodes_count", len(nodes)),
	)

	start := time.Now()
	parts := make([]*tasks.TaskProgress, len(nodes))

	g, gctx := errgroup.WithContext(ctx)
	for i, node := range nodes {
		part := *task
		part.TaskID = uuid.New()
		part.Shard = search.Shard{Index: i, Total: len(nodes)}

		g.Go(func() error {
			progress, err := client.Run(gctx, node, &part, c.pollPeriod)
			if err != nil {
				return fmt.Errorf("node %s: %w", node.Address(), err)
			}

			slog.Debug("shard finished",
				slog.String("node", node.Address()),
				slog.String("shard", part.Shard.String()),
				slog.String("status", string(progress.Status)),
			)

			parts[i] = progress
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("cluster search failed",
			slog.String("task_id", task.TaskID.String()),
			slog.Any("error", err),
		)
		return nil, err
	}

	merged := mergeProgress(task.TaskID, parts...)
	merged.ElapsedMS = float64(time.Since(start)) / float64(time.Millisecond)

	return merged, nil
}

func (c *Cluster) healthyNodes(ctx context.Context) []client.Client {
	healthy := make([]client.Client, 0, len(c.nodes))

	for _, node := range c.nodes {
		if err := c.healthCheckerProvider(node.Address()).Check(ctx); err != nil {
			slog.Warn("node health check failed, skipping node",
				slog.String("node", node.Address()),
				slog.Any("error", err),
			)
			continue
		}
		healthy = append(healthy, node)
	}

	return healthy
}
