package domain

import (
	"time"

	"github.com/google/uuid"
)

// SagaState is the persisted position of one mint request in the pipeline.
type SagaState string

const (
	SagaStateInit                 SagaState = "INIT"
	SagaStateGenerating           SagaState = "GENERATING"
	SagaStateStoring              SagaState = "STORING"
	SagaStateMinting              SagaState = "MINTING"
	SagaStateAwaitingConfirmation SagaState = "AWAITING_CONFIRMATION"
	SagaStateConfirmed            SagaState = "CONFIRMED"
	SagaStateRecorded             SagaState = "RECORDED"
	SagaStateRecordPending        SagaState = "RECORD_PENDING"
	SagaStateFailedGenerate       SagaState = "FAILED_GENERATE"
	SagaStateFailedStore          SagaState = "FAILED_STORE"
	SagaStateFailedMintSubmit     SagaState = "FAILED_MINT_SUBMIT"
	SagaStateFailedMintConfirm    SagaState = "FAILED_MINT_CONFIRM"
)

// Terminal reports whether no further automatic processing will touch the saga.
func (s SagaState) Terminal() bool {
	switch s {
	case SagaStateRecorded, SagaStateFailedGenerate, SagaStateFailedStore,
		SagaStateFailedMintSubmit, SagaStateFailedMintConfirm:
		return true
	}
	return false
}

// Reconcilable reports whether the saga is waiting on a follow-up poll or a
// deferred provenance write rather than a fresh attempt. Value has already
// moved (or may have moved) for every state in this set.
func (s SagaState) Reconcilable() bool {
	switch s {
	case SagaStateAwaitingConfirmation, SagaStateConfirmed, SagaStateRecordPending:
		return true
	}
	return false
}

// PastSubmission reports whether the ledger submission has left the client
// boundary. At and beyond this point the saga must never be cancelled or
// re-submitted.
func (s SagaState) PastSubmission() bool {
	return s.Reconcilable() || s == SagaStateRecorded || s == SagaStateFailedMintConfirm
}

// InFlight reports whether a worker was actively driving the saga when it was
// last persisted. A stale in-flight saga means its worker died mid-pipeline.
func (s SagaState) InFlight() bool {
	switch s {
	case SagaStateInit, SagaStateGenerating, SagaStateStoring, SagaStateMinting:
		return true
	}
	return false
}

// MintSaga is the durable record of one mint request, keyed by RequestID.
// The row is the exclusive claim on the request id: it is created exactly once
// and every state change is a compare-and-set against the expected state.
type MintSaga struct {
	RequestID     uuid.UUID
	AccountID     uuid.UUID
	Prompt        string
	State         SagaState
	ArtifactURL   string
	ContentID     string
	TransactionID string
	PaidLamports  uint64
	FailureReason string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// GeneratedArtifact is the generator's answer for a prompt. It is ephemeral:
// nothing persists it unless the saga reaches the content store step.
type GeneratedArtifact struct {
	SourceURL  string
	ProducedAt time.Time
}

// StoredContent is a pinned artifact addressed by its CID. Identical bytes
// always produce the same ID, so storing twice is safe and non-duplicating.
type StoredContent struct {
	ID         string
	BackingURL string
}

// SignedTransaction is a fully signed, not yet submitted ledger transaction.
// ID is the transaction signature, fixed the moment the transaction is signed,
// so it can be persisted before submission and polled after any crash.
type SignedTransaction struct {
	ID      string
	Payload []byte
}

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusConfirmed TransactionStatus = "confirmed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// TransactionReceipt is the normalized outcome of polling a submitted
// transaction.
type TransactionReceipt struct {
	TransactionID string
	Status        TransactionStatus
}

// ProvenanceRecord asserts that an account owns a stored piece of content.
// Records are append-only and written only after the mint transaction
// confirmed.
type ProvenanceRecord struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	ContentID string
	CreatedAt time.Time
}
