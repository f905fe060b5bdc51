package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"collectible-mint-service/internal/adapters/primary/http/dto"
)

func (h *Handler) ListCollectibles(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("accountId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return
	}

	records, err := h.provenanceSvc.List(c.Request.Context(), accountID)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	items := make([]dto.CollectibleResponse, 0, len(records))
	for _, r := range records {
		items = append(items, dto.ToCollectibleResponse(r))
	}

	c.JSON(http.StatusOK, dto.ListCollectiblesResponse{
		Items: items,
		Total: len(items),
	})
}
