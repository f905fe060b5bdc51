package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"collectible-mint-service/internal/core/domain"
)

func TestSagaSweeper_ResumesParkedSagas(t *testing.T) {
	f := newSagaFixture()
	f.expectGenerate()
	f.expectStore()
	f.expectSign()
	f.expectSend()
	f.ledger.On("AwaitConfirmation", mock.Anything, "sig-1", mock.Anything).
		Return(nil, domain.ErrConfirmationTimeout).Once()

	requestID := uuid.New()
	saga, err := f.svc.Mint(context.Background(), f.accountID, "sunset", requestID)
	assert.NoError(t, err)
	assert.Equal(t, domain.SagaStateAwaitingConfirmation, saga.State)

	// The chain finalizes while nobody is polling; the sweeper picks the
	// parked saga up and completes it with the original transaction id.
	f.expectConfirmed()
	f.provenance.On("Append", mock.Anything, mock.Anything).Return(nil)

	sweeper := NewSagaSweeper(f.sagas, f.svc, time.Minute, -time.Second)
	sweeper.sweep(context.Background())

	resolved, err := f.svc.Resolve(context.Background(), requestID)
	assert.NoError(t, err)
	assert.Equal(t, domain.SagaStateRecorded, resolved.State)
	f.ledger.AssertNumberOfCalls(t, "Sign", 1)
}

func TestSagaSweeper_RecoversStuckMinting(t *testing.T) {
	f := newSagaFixture()
	// A worker died after persisting the signature but before the saga moved
	// on; the payment may already be on chain.
	requestID := f.seedSaga(t, domain.SagaStateMinting, "sig-9")

	f.ledger.On("AwaitConfirmation", mock.Anything, "sig-9", mock.Anything).
		Return(&domain.TransactionReceipt{TransactionID: "sig-9", Status: domain.TransactionStatusConfirmed}, nil)
	f.provenance.On("Append", mock.Anything, mock.Anything).Return(nil)

	sweeper := NewSagaSweeper(f.sagas, f.svc, time.Minute, -time.Second)
	sweeper.sweep(context.Background())

	saga, err := f.svc.Resolve(context.Background(), requestID)
	assert.NoError(t, err)
	assert.Equal(t, domain.SagaStateRecorded, saga.State)

	// Strictly polled, never re-signed.
	f.ledger.AssertNotCalled(t, "Sign", mock.Anything, mock.Anything, mock.Anything)
	f.ledger.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestSagaSweeper_RecoversAbandonedPipeline(t *testing.T) {
	f := newSagaFixture()
	requestID := f.seedSaga(t, domain.SagaStateStoring, "")

	f.expectGenerate()
	f.expectStore()
	f.expectSign()
	f.expectSend()
	f.expectConfirmed()
	f.provenance.On("Append", mock.Anything, mock.Anything).Return(nil)

	sweeper := NewSagaSweeper(f.sagas, f.svc, time.Minute, -time.Second)
	sweeper.sweep(context.Background())

	saga, err := f.svc.Resolve(context.Background(), requestID)
	assert.NoError(t, err)
	assert.Equal(t, domain.SagaStateRecorded, saga.State)
	f.ledger.AssertNumberOfCalls(t, "Sign", 1)
}

func TestSagaSweeper_SkipsRecentSagas(t *testing.T) {
	f := newSagaFixture()
	f.expectGenerate()
	f.expectStore()
	f.expectSign()
	f.expectSend()
	f.ledger.On("AwaitConfirmation", mock.Anything, "sig-1", mock.Anything).
		Return(nil, domain.ErrConfirmationTimeout)

	requestID := uuid.New()
	_, err := f.svc.Mint(context.Background(), f.accountID, "sunset", requestID)
	assert.NoError(t, err)

	// One poll happened during Mint; a sweep inside the grace window must
	// leave the saga alone.
	sweeper := NewSagaSweeper(f.sagas, f.svc, time.Minute, time.Hour)
	sweeper.sweep(context.Background())

	f.ledger.AssertNumberOfCalls(t, "AwaitConfirmation", 1)
}
