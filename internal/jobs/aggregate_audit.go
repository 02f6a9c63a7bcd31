package jobs

import (
	"context"

	"github.com/emrgen/transmem/internal/store"
	"github.com/sirupsen/logrus"
)

// AggregateAudit recomputes every file's segment-status counters and repairs
// drift left by external writers. The engine's own writes keep aggregates
// consistent transactionally, the audit is the safety net for everyone else
// touching the database.
type AggregateAudit struct {
	store store.Store
	cron  string
}

func NewAggregateAudit(interval string, store store.Store) *AggregateAudit {
	return &AggregateAudit{
		store: store,
		cron:  interval,
	}
}

func (a *AggregateAudit) Schedule() string {
	return a.cron
}

func (a *AggregateAudit) Run() {
	ctx := context.Background()

	projects, err := a.store.ListProjects(ctx)
	if err != nil {
		logrus.Errorf("aggregate audit: listing projects failed: %v", err)
		return
	}

	for _, project := range projects {
		files, err := a.store.ListFiles(ctx, project.ID)
		if err != nil {
			logrus.Errorf("aggregate audit: listing files of %s failed: %v", project.ID, err)
			continue
		}

		for _, file := range files {
			stored := file
			err := a.store.Transaction(ctx, func(tx store.Store) error {
				stats, err := tx.RecomputeFileStats(ctx, file.ID)
				if err != nil {
					return err
				}

				if stats.Total != stored.TotalSegments || stats.Confirmed != stored.ConfirmedSegments {
					logrus.Warnf("aggregate audit: repaired drift on file %s (total %d->%d, confirmed %d->%d)",
						file.ID, stored.TotalSegments, stats.Total, stored.ConfirmedSegments, stats.Confirmed)
				}
				return nil
			})
			if err != nil {
				logrus.Errorf("aggregate audit: recompute of %s failed: %v", file.ID, err)
			}
		}
	}
}
