// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	apistatsstore "github.com/dalemusser/mediasave/internal/app/store/apistats"
	ledgerstore "github.com/dalemusser/mediasave/internal/app/store/ledger"
	"go.uber.org/zap"
)

// LedgerRetentionJob creates a job that deletes request ledger entries older
// than the retention window. The ledger exists for diagnosing recent save
// failures, not as a permanent record.
func LedgerRetentionJob(store *ledgerstore.Store, logger *zap.Logger, retention time.Duration) Job {
	return Job{
		Name:     "ledger-retention",
		Interval: 1 * time.Hour,
		Run: func(ctx context.Context) error {
			cutoff := time.Now().Add(-retention)
			deleted, err := store.DeleteOlderThan(ctx, cutoff)
			if err != nil {
				return err
			}
			if deleted > 0 {
				logger.Info("pruned old ledger entries",
					zap.Int64("deleted", deleted),
					zap.Duration("retention", retention))
			}
			return nil
		},
	}
}

// APIStatsRetentionJob creates a job that deletes API stat buckets older
// than the retention window.
func APIStatsRetentionJob(store *apistatsstore.Store, logger *zap.Logger, retention time.Duration) Job {
	return Job{
		Name:     "apistats-retention",
		Interval: 6 * time.Hour,
		Run: func(ctx context.Context) error {
			cutoff := time.Now().Add(-retention)
			deleted, err := store.DeleteOlderThan(ctx, cutoff, "")
			if err != nil {
				return err
			}
			if deleted > 0 {
				logger.Info("pruned old API stat buckets",
					zap.Int64("deleted", deleted),
					zap.Duration("retention", retention))
			}
			return nil
		},
	}
}
