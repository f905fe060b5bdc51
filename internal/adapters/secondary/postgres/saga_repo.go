package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"collectible-mint-service/internal/core/domain"
	"collectible-mint-service/internal/core/ports/output"
)

type sagaRepo struct {
	pool *pgxpool.Pool
}

func NewSagaRepository(pool *pgxpool.Pool) ports.SagaRepository {
	return &sagaRepo{pool: pool}
}

// Claim inserts the saga row. The primary key on request_id makes the insert
// the exclusive claim: exactly one caller per request id ever observes
// claimed=true.
func (r *sagaRepo) Claim(ctx context.Context, saga *domain.MintSaga) (bool, error) {
	query := `
		INSERT INTO mint_saga
			(request_id, account_id, prompt, state, artifact_url, content_id,
			 transaction_id, paid_lamports, failure_reason, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (request_id) DO NOTHING
	`
	result, err := r.pool.Exec(ctx, query,
		saga.RequestID, saga.AccountID, saga.Prompt, string(saga.State),
		saga.ArtifactURL, saga.ContentID, saga.TransactionID,
		saga.PaidLamports, saga.FailureReason, saga.CreatedAt, saga.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("claim mint saga: %w", err)
	}
	return result.RowsAffected() == 1, nil
}

func (r *sagaRepo) GetByRequestID(ctx context.Context, requestID uuid.UUID) (*domain.MintSaga, error) {
	query := `
		SELECT request_id, account_id, prompt, state, artifact_url, content_id,
			   transaction_id, paid_lamports, failure_reason, created_at, updated_at
		FROM mint_saga
		WHERE request_id = $1
	`
	saga, err := scanSaga(r.pool.QueryRow(ctx, query, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSagaNotFound
		}
		return nil, fmt.Errorf("get mint saga: %w", err)
	}
	return saga, nil
}

func (r *sagaRepo) Transition(ctx context.Context, saga *domain.MintSaga, from domain.SagaState) error {
	query := `
		UPDATE mint_saga
		SET state=$1, artifact_url=$2, content_id=$3, transaction_id=$4,
			paid_lamports=$5, failure_reason=$6, updated_at=NOW()
		WHERE request_id=$7 AND state=$8
	`
	result, err := r.pool.Exec(ctx, query,
		string(saga.State), saga.ArtifactURL, saga.ContentID,
		saga.TransactionID, saga.PaidLamports, saga.FailureReason,
		saga.RequestID, string(from),
	)
	if err != nil {
		return fmt.Errorf("transition mint saga: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrSagaConflict
	}
	return nil
}

func (r *sagaRepo) ListResumable(ctx context.Context, cutoff time.Time, limit int) ([]*domain.MintSaga, error) {
	query := `
		SELECT request_id, account_id, prompt, state, artifact_url, content_id,
			   transaction_id, paid_lamports, failure_reason, created_at, updated_at
		FROM mint_saga
		WHERE state = ANY($1) AND updated_at < $2
		ORDER BY updated_at ASC
		LIMIT $3
	`
	// In-flight states qualify too: a stale one means its worker died and the
	// sweeper must take over.
	states := []string{
		string(domain.SagaStateInit),
		string(domain.SagaStateGenerating),
		string(domain.SagaStateStoring),
		string(domain.SagaStateMinting),
		string(domain.SagaStateAwaitingConfirmation),
		string(domain.SagaStateConfirmed),
		string(domain.SagaStateRecordPending),
	}
	rows, err := r.pool.Query(ctx, query, states, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("list resumable sagas: %w", err)
	}
	defer rows.Close()

	var sagas []*domain.MintSaga
	for rows.Next() {
		saga, err := scanSaga(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resumable saga: %w", err)
		}
		sagas = append(sagas, saga)
	}
	return sagas, rows.Err()
}

func scanSaga(row pgx.Row) (*domain.MintSaga, error) {
	var saga domain.MintSaga
	var state string
	err := row.Scan(
		&saga.RequestID, &saga.AccountID, &saga.Prompt, &state,
		&saga.ArtifactURL, &saga.ContentID, &saga.TransactionID,
		&saga.PaidLamports, &saga.FailureReason, &saga.CreatedAt, &saga.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	saga.State = domain.SagaState(state)
	return &saga, nil
}
