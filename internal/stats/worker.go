package stats

import (
	"context"
	"log/slog"
	"time"

	"github.com/jinsol-dev/persona-lab/internal/quiz"
	"github.com/jinsol-dev/persona-lab/internal/store"
)

// StartWorker runs a background goroutine that periodically rolls the raw
// logs up into the daily_stats table and prunes expired quiz snapshots.
// One pass runs immediately at startup so a restart never leaves today's
// row stale for a full period.
func StartWorker(ctx context.Context, repo store.Repository, period time.Duration) {
	go func() {
		slog.Info("stats worker started", "period", period)

		runPass(ctx, repo)

		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				runPass(ctx, repo)
			case <-ctx.Done():
				slog.Info("stats worker shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

func runPass(ctx context.Context, repo store.Repository) {
	day := time.Now().UTC().Format("2006-01-02")

	stat, err := repo.DailyCounts(ctx, day)
	if err != nil {
		slog.Error("stats worker failed to aggregate daily counts", "error", err, "day", day)
	} else if err := repo.UpsertDailyStat(ctx, stat); err != nil {
		slog.Error("stats worker failed to write daily stat", "error", err, "day", day)
	}

	if deleted, err := repo.DeleteExpiredSnapshots(ctx, quiz.SnapshotTTL); err != nil {
		slog.Error("stats worker failed to prune snapshots", "error", err)
	} else if deleted > 0 {
		slog.Info("stats worker pruned expired snapshots", "count", deleted)
	}
}
