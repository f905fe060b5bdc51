package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"collectible-mint-service/internal/core/domain"
)

// ArtifactGenerator requests an image for a prompt and returns a reference to
// it. Implementations do not retry; retry policy belongs to the coordinator.
type ArtifactGenerator interface {
	Generate(ctx context.Context, prompt string) (*domain.GeneratedArtifact, error)
}

// ContentMetadata travels with a store call for attribution and logging.
type ContentMetadata struct {
	RequestID uuid.UUID
	AccountID uuid.UUID
	Prompt    string
}

// ContentStore persists the artifact behind sourceURL into content-addressed
// storage. Storing the same bytes twice must return the same content id.
type ContentStore interface {
	Store(ctx context.Context, sourceURL string, meta ContentMetadata) (*domain.StoredContent, error)
}

// LedgerClient signs, submits and tracks value-bearing mint transactions.
//
// Submission is split in two so the coordinator can persist the transaction
// id before anything reaches the network: Sign has no on-chain effect and may
// be retried freely, while Send is idempotent for one signed payload — the
// ledger accepts a given signature at most once, so re-sending the same
// SignedTransaction after a transport failure can never double-pay. Signing a
// second transaction for the same request is what creates a second payment,
// and is the caller's responsibility to prevent.
type LedgerClient interface {
	Sign(ctx context.Context, contentID string, lamports uint64) (*domain.SignedTransaction, error)

	// Send submits a signed transaction. A nil error means the ledger accepted
	// it (including the duplicate-send case). Definitive rejections come back
	// as domain sentinels; anything else means the outcome is unknown and must
	// be resolved by polling the transaction id.
	Send(ctx context.Context, tx *domain.SignedTransaction) error

	// AwaitConfirmation polls the transaction until it finalizes or timeout
	// elapses. A timeout returns domain.ErrConfirmationTimeout, never an
	// assumed failure.
	AwaitConfirmation(ctx context.Context, transactionID string, timeout time.Duration) (*domain.TransactionReceipt, error)
}
