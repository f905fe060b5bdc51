package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"collectible-mint-service/internal/adapters/primary/http/dto"
	"collectible-mint-service/internal/core/domain"
)

func (h *Handler) CreateMint(c *gin.Context) {
	var req dto.CreateMintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return
	}

	requestID := uuid.Nil
	if req.RequestID != "" {
		requestID, err = uuid.Parse(req.RequestID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
			return
		}
	}

	saga, err := h.mintSvc.Mint(c.Request.Context(), accountID, req.Prompt, requestID)
	if err != nil {
		log.WithError(err).WithField("account_id", req.AccountID).Error("mint failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(mintStatusCode(saga.State), dto.ToMintResponse(saga))
}

func (h *Handler) GetMint(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("requestId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	saga, err := h.mintSvc.Resolve(c.Request.Context(), requestID)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMintResponse(saga))
}

// mintStatusCode distinguishes settled, still-pending and
// needs-reconciliation outcomes so a client can never mistake a paid-but-
// unconfirmed mint for either success or nothing-happened.
func mintStatusCode(state domain.SagaState) int {
	switch state {
	case domain.SagaStateRecorded, domain.SagaStateRecordPending:
		return http.StatusCreated
	case domain.SagaStateAwaitingConfirmation, domain.SagaStateConfirmed:
		return http.StatusAccepted
	default:
		return http.StatusOK
	}
}
