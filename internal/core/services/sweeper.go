package services

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"collectible-mint-service/internal/core/ports/output"
)

// SagaSweeper periodically resumes sagas left behind by a crash or a
// confirmation timeout: reconcilable ones by polling their transaction id or
// retrying the provenance write, abandoned in-flight ones by re-running the
// pre-payment pipeline. A saga with a persisted signature is only ever
// polled, never signed again.
type SagaSweeper struct {
	sagas    ports.SagaRepository
	resolver *MintSagaService
	interval time.Duration
	grace    time.Duration
	batch    int
}

func NewSagaSweeper(sagas ports.SagaRepository, resolver *MintSagaService, interval, grace time.Duration) *SagaSweeper {
	return &SagaSweeper{
		sagas:    sagas,
		resolver: resolver,
		interval: interval,
		grace:    grace,
		batch:    50,
	}
}

// Run blocks until ctx is cancelled.
func (w *SagaSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *SagaSweeper) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-w.grace)
	sagas, err := w.sagas.ListResumable(ctx, cutoff, w.batch)
	if err != nil {
		log.WithError(err).Error("list resumable sagas")
		return
	}

	for _, saga := range sagas {
		resolved, err := w.resolver.Recover(ctx, saga.RequestID)
		if err != nil {
			log.WithError(err).WithField("request_id", saga.RequestID).Warn("resume saga")
			continue
		}
		if resolved.State != saga.State {
			log.WithFields(log.Fields{
				"request_id": saga.RequestID,
				"from":       saga.State,
				"to":         resolved.State,
			}).Info("saga resumed")
		}
	}
}
