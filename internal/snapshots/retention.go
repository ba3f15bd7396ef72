package snapshots

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Pruner trims append-only tables down to their newest Keep versions.
// Menus are keyed by date and never pruned.
type Pruner struct {
	Store  Store
	Keep   int
	Logger *slog.Logger
}

// PruneAll prunes every append-only table and returns the rows removed per
// table. It stops at the first failure.
func (p *Pruner) PruneAll(ctx context.Context) (map[Table]int64, error) {
	removed := make(map[Table]int64, len(Tables))
	for _, table := range Tables {
		if table.DateKeyed() {
			continue
		}
		n, err := p.Store.Prune(ctx, table, p.Keep)
		if err != nil {
			return removed, fmt.Errorf("prune %s: %w", table, err)
		}
		removed[table] = n
	}
	return removed, nil
}

// StartRetention schedules PruneAll on a six-field cron spec (seconds
// first) and starts the scheduler. The caller stops it on shutdown.
func StartRetention(p *Pruner, spec string) (*cron.Cron, error) {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		start := time.Now()
		removed, err := p.PruneAll(ctx)
		if err != nil {
			p.logger().Error("snapshot retention failed", "error", err)
			return
		}
		p.logger().Info("snapshot retention completed",
			"keep", p.Keep,
			"removed", removed,
			"duration", time.Since(start).String())
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create retention job: %w", err)
	}

	c.Start()
	p.logger().Info("snapshot retention scheduled", "schedule", spec, "keep", p.Keep)
	return c, nil
}

func (p *Pruner) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}
