package services

import (
	"context"

	"github.com/google/uuid"

	"collectible-mint-service/internal/core/domain"
	"collectible-mint-service/internal/core/ports/output"
)

type ProvenanceService struct {
	records  ports.ProvenanceRepository
	accounts ports.AccountRepository
}

func NewProvenanceService(records ports.ProvenanceRepository, accounts ports.AccountRepository) *ProvenanceService {
	return &ProvenanceService{records: records, accounts: accounts}
}

// List returns the account's provenance records, most recent first.
func (s *ProvenanceService) List(ctx context.Context, accountID uuid.UUID) ([]*domain.ProvenanceRecord, error) {
	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		return nil, err
	}
	return s.records.ListByAccount(ctx, accountID)
}
