package testutil

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"collectible-mint-service/internal/core/domain"
	"collectible-mint-service/internal/core/ports/output"
)

// MockSagaRepo is a mock of SagaRepository.
type MockSagaRepo struct {
	mock.Mock
}

func (m *MockSagaRepo) Claim(ctx context.Context, saga *domain.MintSaga) (bool, error) {
	args := m.Called(ctx, saga)
	return args.Bool(0), args.Error(1)
}

func (m *MockSagaRepo) GetByRequestID(ctx context.Context, requestID uuid.UUID) (*domain.MintSaga, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MintSaga), args.Error(1)
}

func (m *MockSagaRepo) Transition(ctx context.Context, saga *domain.MintSaga, from domain.SagaState) error {
	args := m.Called(ctx, saga, from)
	return args.Error(0)
}

func (m *MockSagaRepo) ListResumable(ctx context.Context, cutoff time.Time, limit int) ([]*domain.MintSaga, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.MintSaga), args.Error(1)
}

// MockProvenanceRepo is a mock of ProvenanceRepository.
type MockProvenanceRepo struct {
	mock.Mock
}

func (m *MockProvenanceRepo) Append(ctx context.Context, record *domain.ProvenanceRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockProvenanceRepo) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.ProvenanceRecord, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ProvenanceRecord), args.Error(1)
}

// MockAccountRepo is a mock of AccountRepository.
type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) Create(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// MockArtifactGenerator is a mock of ArtifactGenerator.
type MockArtifactGenerator struct {
	mock.Mock
}

func (m *MockArtifactGenerator) Generate(ctx context.Context, prompt string) (*domain.GeneratedArtifact, error) {
	args := m.Called(ctx, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeneratedArtifact), args.Error(1)
}

// MockContentStore is a mock of ContentStore.
type MockContentStore struct {
	mock.Mock
}

func (m *MockContentStore) Store(ctx context.Context, sourceURL string, meta ports.ContentMetadata) (*domain.StoredContent, error) {
	args := m.Called(ctx, sourceURL, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoredContent), args.Error(1)
}

// MockLedgerClient is a mock of LedgerClient.
type MockLedgerClient struct {
	mock.Mock
}

func (m *MockLedgerClient) Sign(ctx context.Context, contentID string, lamports uint64) (*domain.SignedTransaction, error) {
	args := m.Called(ctx, contentID, lamports)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SignedTransaction), args.Error(1)
}

func (m *MockLedgerClient) Send(ctx context.Context, tx *domain.SignedTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockLedgerClient) AwaitConfirmation(ctx context.Context, transactionID string, timeout time.Duration) (*domain.TransactionReceipt, error) {
	args := m.Called(ctx, transactionID, timeout)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionReceipt), args.Error(1)
}
