package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"collectible-mint-service/internal/core/domain"
	"collectible-mint-service/internal/core/ports/output"
)

// Policy bundles the coordinator's tunables.
type Policy struct {
	// PaymentLamports is the fixed price of one mint.
	PaymentLamports uint64
	// RetryAttempts bounds transparent retries of the pre-payment stages.
	RetryAttempts int
	// RetryBackoff is the initial backoff delay, doubled per attempt.
	RetryBackoff time.Duration
	// ConfirmTimeout bounds one confirmation poll cycle.
	ConfirmTimeout time.Duration
}

// MintSagaService drives the generate -> store -> mint -> record pipeline for
// one request id.
//
// The retry policy is asymmetric on purpose: everything before the ledger
// submission has no financial side effect and may be retried with backoff,
// while the submission itself happens at most once per request id. After a
// transaction id exists, recovery is strictly polling that id; the
// coordinator never mints again.
type MintSagaService struct {
	sagas      ports.SagaRepository
	provenance ports.ProvenanceRepository
	accounts   ports.AccountRepository
	generator  ports.ArtifactGenerator
	store      ports.ContentStore
	ledger     ports.LedgerClient
	policy     Policy
}

func NewMintSagaService(
	sagas ports.SagaRepository,
	provenance ports.ProvenanceRepository,
	accounts ports.AccountRepository,
	generator ports.ArtifactGenerator,
	store ports.ContentStore,
	ledger ports.LedgerClient,
	policy Policy,
) *MintSagaService {
	if policy.RetryAttempts < 1 {
		policy.RetryAttempts = 1
	}
	return &MintSagaService{
		sagas:      sagas,
		provenance: provenance,
		accounts:   accounts,
		generator:  generator,
		store:      store,
		ledger:     ledger,
		policy:     policy,
	}
}

// Mint runs the pipeline for one request. Re-invoking with a request id that
// was claimed before returns the existing saga instead of starting a second
// pipeline, so at most one ledger submission can ever exist per request id.
//
// A nil error does not mean the mint is fully settled: callers must inspect
// the returned state. AWAITING_CONFIRMATION, FAILED_MINT_CONFIRM and
// RECORD_PENDING are reconcilable outcomes, resolved by Resolve or the
// sweeper, never by minting again.
func (s *MintSagaService) Mint(ctx context.Context, accountID uuid.UUID, prompt string, requestID uuid.UUID) (*domain.MintSaga, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, domain.ErrEmptyPrompt
	}
	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		return nil, err
	}
	if requestID == uuid.Nil {
		requestID = uuid.New()
	}

	now := time.Now()
	saga := &domain.MintSaga{
		RequestID: requestID,
		AccountID: accountID,
		Prompt:    prompt,
		State:     domain.SagaStateInit,
		CreatedAt: now,
		UpdatedAt: now,
	}

	claimed, err := s.sagas.Claim(ctx, saga)
	if err != nil {
		return nil, fmt.Errorf("claim saga: %w", err)
	}
	if !claimed {
		return s.sagas.GetByRequestID(ctx, requestID)
	}

	return s.run(ctx, saga)
}

// Resolve advances a saga that is parked in a reconcilable state. For
// AWAITING_CONFIRMATION it re-polls the existing transaction id; for
// CONFIRMED and RECORD_PENDING it retries the provenance write. Every other
// state is returned unchanged.
func (s *MintSagaService) Resolve(ctx context.Context, requestID uuid.UUID) (*domain.MintSaga, error) {
	saga, err := s.sagas.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	switch saga.State {
	case domain.SagaStateAwaitingConfirmation:
		return s.await(ctx, saga)
	case domain.SagaStateConfirmed, domain.SagaStateRecordPending:
		return s.record(ctx, saga)
	default:
		return saga, nil
	}
}

func (s *MintSagaService) run(ctx context.Context, saga *domain.MintSaga) (*domain.MintSaga, error) {
	logger := log.WithFields(log.Fields{
		"request_id": saga.RequestID,
		"account_id": saga.AccountID,
	})

	if err := s.transition(ctx, saga, domain.SagaStateGenerating); err != nil {
		return saga, err
	}
	artifact, err := retry(ctx, s.policy, func(ctx context.Context) (*domain.GeneratedArtifact, error) {
		return s.generator.Generate(ctx, saga.Prompt)
	})
	if err != nil {
		s.abort(ctx, saga, domain.SagaStateFailedGenerate, err)
		return saga, err
	}
	saga.ArtifactURL = artifact.SourceURL
	logger.WithField("artifact_url", saga.ArtifactURL).Info("artifact generated")

	if err := s.transition(ctx, saga, domain.SagaStateStoring); err != nil {
		return saga, err
	}
	meta := ports.ContentMetadata{
		RequestID: saga.RequestID,
		AccountID: saga.AccountID,
		Prompt:    saga.Prompt,
	}
	content, err := retry(ctx, s.policy, func(ctx context.Context) (*domain.StoredContent, error) {
		return s.store.Store(ctx, saga.ArtifactURL, meta)
	})
	if err != nil {
		s.abort(ctx, saga, domain.SagaStateFailedStore, err)
		return saga, err
	}
	saga.ContentID = content.ID
	logger.WithField("content_id", saga.ContentID).Info("content pinned")

	if err := s.transition(ctx, saga, domain.SagaStateMinting); err != nil {
		return saga, err
	}
	signed, err := retry(ctx, s.policy, func(ctx context.Context) (*domain.SignedTransaction, error) {
		return s.ledger.Sign(ctx, saga.ContentID, s.policy.PaymentLamports)
	})
	if err != nil {
		// Nothing was signed, so nothing can be on chain.
		s.abort(ctx, saga, domain.SagaStateFailedMintSubmit, err)
		return saga, err
	}

	// The signature is fixed now. Persisting it before the first send attempt
	// means any later crash or lost connection is resolved by polling this id;
	// a second signature for this request must never be created.
	saga.TransactionID = signed.ID
	saga.PaidLamports = s.policy.PaymentLamports
	if err := s.transition(ctx, saga, domain.SagaStateMinting); err != nil {
		return saga, err
	}

	// Value may move from here. The saga must reach a reconcilable state even
	// if the caller disconnects, so cancellation stops mattering.
	ctx = context.WithoutCancel(ctx)

	// Re-sending the same signed payload is safe: the ledger accepts a
	// signature at most once.
	sendErr := retryOp(ctx, s.policy, func(ctx context.Context) error {
		return s.ledger.Send(ctx, signed)
	})
	if sendErr != nil {
		if !errors.Is(sendErr, domain.ErrLedgerNetwork) {
			// Rejected before acceptance; the transaction is not on chain.
			s.abort(ctx, saga, domain.SagaStateFailedMintSubmit, sendErr)
			return saga, sendErr
		}
		// The node may have received the transaction before the connection
		// broke. Park on the known signature and let polling decide.
		logger.WithError(sendErr).WithField("transaction_id", signed.ID).
			Warn("send outcome unknown, resolving by signature")
	}

	if err := s.transition(ctx, saga, domain.SagaStateAwaitingConfirmation); err != nil {
		return saga, err
	}
	logger.WithField("transaction_id", signed.ID).Info("mint transaction submitted")

	return s.await(ctx, saga)
}

// Recover advances a saga abandoned by a crashed worker. Pre-payment states
// re-run the pipeline from the top: generation and storage carry no financial
// effect and storage is idempotent by content id. A MINTING saga with a
// persisted signature may already be on chain and is resolved strictly by
// polling that signature; one without a signature provably never sent, because
// the signature is persisted before the first send attempt.
func (s *MintSagaService) Recover(ctx context.Context, requestID uuid.UUID) (*domain.MintSaga, error) {
	saga, err := s.sagas.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	switch {
	case saga.State.Terminal():
		return saga, nil
	case saga.State.PastSubmission():
		return s.Resolve(ctx, requestID)
	case saga.State == domain.SagaStateMinting && saga.TransactionID != "":
		if err := s.transition(ctx, saga, domain.SagaStateAwaitingConfirmation); err != nil {
			return saga, err
		}
		return s.await(ctx, saga)
	default:
		return s.run(ctx, saga)
	}
}

func (s *MintSagaService) await(ctx context.Context, saga *domain.MintSaga) (*domain.MintSaga, error) {
	receipt, err := s.ledger.AwaitConfirmation(ctx, saga.TransactionID, s.policy.ConfirmTimeout)
	if err != nil {
		// The transaction may still confirm. The saga stays parked in
		// AWAITING_CONFIRMATION for a later Resolve or the sweeper; assuming
		// failure here could discard a paid mint.
		log.WithError(err).WithFields(log.Fields{
			"request_id":     saga.RequestID,
			"transaction_id": saga.TransactionID,
		}).Warn("confirmation still pending")
		return saga, nil
	}

	if receipt.Status == domain.TransactionStatusFailed {
		saga.FailureReason = "transaction failed on chain"
		if terr := s.transition(ctx, saga, domain.SagaStateFailedMintConfirm); terr != nil {
			return saga, terr
		}
		return saga, nil
	}

	if err := s.transition(ctx, saga, domain.SagaStateConfirmed); err != nil {
		return saga, err
	}
	return s.record(ctx, saga)
}

func (s *MintSagaService) record(ctx context.Context, saga *domain.MintSaga) (*domain.MintSaga, error) {
	rec := &domain.ProvenanceRecord{
		ID:        uuid.New(),
		AccountID: saga.AccountID,
		ContentID: saga.ContentID,
		CreatedAt: time.Now(),
	}
	if err := s.provenance.Append(ctx, rec); err != nil {
		// The mint itself succeeded, so this is never surfaced as a mint
		// failure; the write is retried until it lands.
		log.WithError(err).WithField("request_id", saga.RequestID).Warn("provenance write deferred")
		if terr := s.transition(ctx, saga, domain.SagaStateRecordPending); terr != nil {
			return saga, terr
		}
		return saga, nil
	}

	if err := s.transition(ctx, saga, domain.SagaStateRecorded); err != nil {
		return saga, err
	}
	return saga, nil
}

// transition moves the saga to the next state guarded by the state observed
// so far. A conflict means another worker advanced the same saga; the local
// copy is left untouched so the caller can surface it.
func (s *MintSagaService) transition(ctx context.Context, saga *domain.MintSaga, to domain.SagaState) error {
	from := saga.State
	saga.State = to
	saga.UpdatedAt = time.Now()
	if err := s.sagas.Transition(ctx, saga, from); err != nil {
		saga.State = from
		return err
	}
	return nil
}

// abort records a pre-payment failure. The context may already be cancelled,
// and losing the failure record would strand the row in a running state, so
// the write is detached from cancellation.
func (s *MintSagaService) abort(ctx context.Context, saga *domain.MintSaga, to domain.SagaState, cause error) {
	saga.FailureReason = cause.Error()
	if err := s.transition(context.WithoutCancel(ctx), saga, to); err != nil {
		log.WithError(err).WithField("request_id", saga.RequestID).Error("record saga failure state")
	}
}

// retry runs fn up to policy.RetryAttempts times with exponential backoff.
// Only transient upstream errors are retried; definitive failures and context
// cancellation return immediately.
func retry[T any](ctx context.Context, policy Policy, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	delay := policy.RetryBackoff
	for attempt := 0; attempt < policy.RetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err
		if !retryable(err) {
			return zero, err
		}
	}

	return zero, fmt.Errorf("retries exhausted: %w", lastErr)
}

func retryOp(ctx context.Context, policy Policy, fn func(context.Context) error) error {
	_, err := retry(ctx, policy, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

func retryable(err error) bool {
	switch {
	case errors.Is(err, domain.ErrGeneratorUnavailable),
		errors.Is(err, domain.ErrGeneratorTimeout),
		errors.Is(err, domain.ErrUploadFailed),
		errors.Is(err, domain.ErrContentStoreUnavailable),
		errors.Is(err, domain.ErrLedgerNetwork):
		return true
	}
	return false
}
