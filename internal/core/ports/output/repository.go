package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"collectible-mint-service/internal/core/domain"
)

// SagaRepository persists mint sagas keyed by request id.
type SagaRepository interface {
	// Claim inserts the saga row if no row exists for its request id and
	// reports whether this caller won the claim. Losing the claim is not an
	// error; the caller should load the existing saga instead.
	Claim(ctx context.Context, saga *domain.MintSaga) (bool, error)

	GetByRequestID(ctx context.Context, requestID uuid.UUID) (*domain.MintSaga, error)

	// Transition writes the saga guarded by the state the caller last
	// observed. It returns domain.ErrSagaConflict when the stored state no
	// longer matches from.
	Transition(ctx context.Context, saga *domain.MintSaga, from domain.SagaState) error

	// ListResumable returns sagas stuck in a reconcilable state whose last
	// update is older than cutoff, oldest first.
	ListResumable(ctx context.Context, cutoff time.Time, limit int) ([]*domain.MintSaga, error)
}

// ProvenanceRepository owns the append-only ownership records. Append is
// idempotent per (account, content) pair so the RECORD_PENDING retry path can
// re-run it safely.
type ProvenanceRepository interface {
	Append(ctx context.Context, record *domain.ProvenanceRecord) error
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.ProvenanceRecord, error)
}

// AccountRepository stores registered accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
}
