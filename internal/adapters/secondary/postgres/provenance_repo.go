package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"collectible-mint-service/internal/core/domain"
	"collectible-mint-service/internal/core/ports/output"
)

type provenanceRepo struct {
	pool *pgxpool.Pool
}

func NewProvenanceRepository(pool *pgxpool.Pool) ports.ProvenanceRepository {
	return &provenanceRepo{pool: pool}
}

// Append writes the ownership record. The unique index on
// (account_id, content_id) makes re-running the RECORD_PENDING retry path a
// no-op instead of a duplicate row.
func (r *provenanceRepo) Append(ctx context.Context, record *domain.ProvenanceRecord) error {
	query := `
		INSERT INTO provenance_record (id, account_id, content_id, created_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (account_id, content_id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query,
		record.ID, record.AccountID, record.ContentID, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append provenance record: %w", err)
	}
	return nil
}

func (r *provenanceRepo) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.ProvenanceRecord, error) {
	query := `
		SELECT id, account_id, content_id, created_at
		FROM provenance_record
		WHERE account_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("list provenance records: %w", err)
	}
	defer rows.Close()

	records := []*domain.ProvenanceRecord{}
	for rows.Next() {
		var rec domain.ProvenanceRecord
		if err := rows.Scan(&rec.ID, &rec.AccountID, &rec.ContentID, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan provenance record: %w", err)
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}
