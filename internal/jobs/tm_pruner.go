package jobs

import (
	"context"

	"github.com/emrgen/transmem/internal/model"
	"github.com/emrgen/transmem/internal/store"
	"github.com/sirupsen/logrus"
)

// keepPerSourceKey caps how many alternative translations a working TM holds
// for one source. Working memories are disposable scratch, older duplicates
// only slow fuzzy scans down.
const keepPerSourceKey = 5

// WorkingTMPruner trims duplicate entries from working-kind TMs. Main TMs
// are never touched, they are the curated asset.
type WorkingTMPruner struct {
	store store.Store
	cron  string
}

func NewWorkingTMPruner(interval string, store store.Store) *WorkingTMPruner {
	return &WorkingTMPruner{
		store: store,
		cron:  interval,
	}
}

func (p *WorkingTMPruner) Schedule() string {
	return p.cron
}

func (p *WorkingTMPruner) Run() {
	ctx := context.Background()

	tms, err := p.store.ListTMs(ctx)
	if err != nil {
		logrus.Errorf("tm pruner: listing tms failed: %v", err)
		return
	}

	for _, tm := range tms {
		if tm.Kind != string(model.TMKindWorking) {
			continue
		}

		pruned, err := p.store.PruneTMEntries(ctx, tm.ID, keepPerSourceKey)
		if err != nil {
			logrus.Errorf("tm pruner: pruning %s failed: %v", tm.ID, err)
			continue
		}
		if pruned > 0 {
			logrus.Infof("tm pruner: removed %d stale entries from %s", pruned, tm.Name)
		}
	}
}
