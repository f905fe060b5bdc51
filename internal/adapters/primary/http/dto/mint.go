package dto

import (
	"time"

	"collectible-mint-service/internal/core/domain"
)

type CreateMintRequest struct {
	AccountID string `json:"accountId" binding:"required"`
	Prompt    string `json:"prompt"`
	// RequestID is the idempotency token. Optional: the server generates one
	// when it is absent.
	RequestID string `json:"requestId"`
}

type MintResponse struct {
	RequestID     string `json:"requestId"`
	Status        string `json:"status"`
	ContentID     string `json:"contentId,omitempty"`
	TransactionID string `json:"transactionId,omitempty"`
	Error         string `json:"error,omitempty"`
}

func ToMintResponse(saga *domain.MintSaga) MintResponse {
	return MintResponse{
		RequestID:     saga.RequestID.String(),
		Status:        string(saga.State),
		ContentID:     saga.ContentID,
		TransactionID: saga.TransactionID,
		Error:         saga.FailureReason,
	}
}

type CollectibleResponse struct {
	ContentID string    `json:"contentId"`
	CreatedAt time.Time `json:"createdAt"`
}

type ListCollectiblesResponse struct {
	Items []CollectibleResponse `json:"items"`
	Total int                   `json:"total"`
}

func ToCollectibleResponse(r *domain.ProvenanceRecord) CollectibleResponse {
	return CollectibleResponse{
		ContentID: r.ContentID,
		CreatedAt: r.CreatedAt,
	}
}
