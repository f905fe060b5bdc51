package solana

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/memo"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/rpc"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"

	"collectible-mint-service/internal/config"
	"collectible-mint-service/internal/core/domain"
	"collectible-mint-service/internal/core/ports/output"
)

// Client signs and submits mint payments to Solana. A mint is a lamport
// transfer from the service payer to the vault, carrying the content id in a
// memo instruction so the payment is attributable on chain.
//
// Sign and Send are separate calls so the caller can persist the transaction
// signature before the network is touched. The signature is derived locally
// at signing time; the ledger accepts it at most once, which makes re-sending
// the same signed payload safe.
type Client struct {
	rpc           *client.Client
	payer         types.Account
	vault         common.PublicKey
	pollInterval  time.Duration
	submitTimeout time.Duration
}

func NewClient(cfg *config.LedgerConfig) (*Client, error) {
	if cfg.PayerKey == "" {
		return nil, fmt.Errorf("ledger payer key is not configured")
	}
	if cfg.VaultAddress == "" {
		return nil, fmt.Errorf("ledger vault address is not configured")
	}

	payer, err := types.AccountFromBase58(cfg.PayerKey)
	if err != nil {
		return nil, fmt.Errorf("parse payer key: %w", err)
	}

	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	submitTimeout := cfg.SubmitTimeout
	if submitTimeout <= 0 {
		submitTimeout = 30 * time.Second
	}

	return &Client{
		rpc:           client.NewClient(cfg.RPCURL),
		payer:         payer,
		vault:         common.PublicKeyFromString(cfg.VaultAddress),
		pollInterval:  pollInterval,
		submitTimeout: submitTimeout,
	}, nil
}

var _ ports.LedgerClient = (*Client)(nil)

func (c *Client) Sign(ctx context.Context, contentID string, lamports uint64) (*domain.SignedTransaction, error) {
	ctx, cancel := context.WithTimeout(ctx, c.submitTimeout)
	defer cancel()

	recent, err := c.rpc.GetLatestBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: get latest blockhash: %v", domain.ErrLedgerNetwork, err)
	}

	tx, err := types.NewTransaction(types.NewTransactionParam{
		Signers: []types.Account{c.payer},
		Message: types.NewMessage(types.NewMessageParam{
			FeePayer:        c.payer.PublicKey,
			RecentBlockhash: recent.Blockhash,
			Instructions: []types.Instruction{
				system.Transfer(system.TransferParam{
					From:   c.payer.PublicKey,
					To:     c.vault,
					Amount: lamports,
				}),
				memo.BuildMemo(memo.BuildMemoParam{
					SignerPubkeys: []common.PublicKey{c.payer.PublicKey},
					Memo:          []byte(contentID),
				}),
			},
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: build transaction: %v", domain.ErrLedgerNetwork, err)
	}

	raw, err := tx.Serialize()
	if err != nil {
		return nil, fmt.Errorf("serialize transaction: %w", err)
	}

	return &domain.SignedTransaction{
		ID:      base58.Encode(tx.Signatures[0]),
		Payload: raw,
	}, nil
}

func (c *Client) Send(ctx context.Context, signed *domain.SignedTransaction) error {
	ctx, cancel := context.WithTimeout(ctx, c.submitTimeout)
	defer cancel()

	tx, err := types.TransactionDeserialize(signed.Payload)
	if err != nil {
		return fmt.Errorf("decode signed transaction: %w", err)
	}

	if _, err := c.rpc.SendTransaction(ctx, tx); err != nil {
		return normalizeSendError(err)
	}
	return nil
}

func (c *Client) AwaitConfirmation(ctx context.Context, transactionID string, timeout time.Duration) (*domain.TransactionReceipt, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		status, err := c.rpc.GetSignatureStatus(ctx, transactionID)
		if err == nil && status != nil {
			if status.Err != nil {
				return &domain.TransactionReceipt{
					TransactionID: transactionID,
					Status:        domain.TransactionStatusFailed,
				}, nil
			}
			if status.ConfirmationStatus != nil &&
				(*status.ConfirmationStatus == rpc.CommitmentConfirmed ||
					*status.ConfirmationStatus == rpc.CommitmentFinalized) {
				return &domain.TransactionReceipt{
					TransactionID: transactionID,
					Status:        domain.TransactionStatusConfirmed,
				}, nil
			}
		}
		// RPC errors and unknown signatures are both worth another poll; a
		// transaction can take a while to show up in the status cache.

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: transaction %s", domain.ErrConfirmationTimeout, transactionID)
		case <-ticker.C:
		}
	}
}

// normalizeSendError folds the RPC node's loosely shaped errors into the
// domain's fixed taxonomy so the coordinator never inspects upstream strings.
// A duplicate send of an already-landed signature is a success, not an error.
func normalizeSendError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "already been processed"),
		strings.Contains(msg, "alreadyprocessed"):
		return nil
	case strings.Contains(msg, "insufficient"):
		return fmt.Errorf("%w: %v", domain.ErrInsufficientFunds, err)
	case strings.Contains(msg, "signature verification"), strings.Contains(msg, "rejected"):
		return fmt.Errorf("%w: %v", domain.ErrUserRejected, err)
	default:
		return fmt.Errorf("%w: %v", domain.ErrLedgerNetwork, err)
	}
}
