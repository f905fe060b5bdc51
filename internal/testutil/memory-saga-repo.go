package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"collectible-mint-service/internal/core/domain"
)

// MemorySagaRepo is an in-memory SagaRepository with the same claim and
// compare-and-set semantics as the postgres implementation. It exists for
// tests that exercise concurrent sagas, where mock expectations cannot model
// the exclusive claim.
type MemorySagaRepo struct {
	mu    sync.Mutex
	sagas map[uuid.UUID]domain.MintSaga
}

func NewMemorySagaRepo() *MemorySagaRepo {
	return &MemorySagaRepo{sagas: make(map[uuid.UUID]domain.MintSaga)}
}

func (r *MemorySagaRepo) Claim(_ context.Context, saga *domain.MintSaga) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sagas[saga.RequestID]; ok {
		return false, nil
	}
	r.sagas[saga.RequestID] = *saga
	return true, nil
}

func (r *MemorySagaRepo) GetByRequestID(_ context.Context, requestID uuid.UUID) (*domain.MintSaga, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	saga, ok := r.sagas[requestID]
	if !ok {
		return nil, domain.ErrSagaNotFound
	}
	copied := saga
	return &copied, nil
}

func (r *MemorySagaRepo) Transition(_ context.Context, saga *domain.MintSaga, from domain.SagaState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.sagas[saga.RequestID]
	if !ok || stored.State != from {
		return domain.ErrSagaConflict
	}
	saga.UpdatedAt = time.Now()
	r.sagas[saga.RequestID] = *saga
	return nil
}

func (r *MemorySagaRepo) ListResumable(_ context.Context, cutoff time.Time, limit int) ([]*domain.MintSaga, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.MintSaga
	for _, saga := range r.sagas {
		if len(out) >= limit {
			break
		}
		if (saga.State.Reconcilable() || saga.State.InFlight()) && saga.UpdatedAt.Before(cutoff) {
			copied := saga
			out = append(out, &copied)
		}
	}
	return out, nil
}
