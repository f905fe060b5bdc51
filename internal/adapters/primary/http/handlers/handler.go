package handlers

import (
	"github.com/gin-gonic/gin"

	"collectible-mint-service/internal/core/services"
)

type Handler struct {
	accountSvc    *services.AccountService
	mintSvc       *services.MintSagaService
	provenanceSvc *services.ProvenanceService
}

func New(accountSvc *services.AccountService, mintSvc *services.MintSagaService, provenanceSvc *services.ProvenanceService) *Handler {
	return &Handler{
		accountSvc:    accountSvc,
		mintSvc:       mintSvc,
		provenanceSvc: provenanceSvc,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/accounts/register", h.Register)
	rg.POST("/accounts/login", h.Login)
	rg.GET("/accounts/:accountId/collectibles", h.ListCollectibles)

	rg.POST("/mints", h.CreateMint)
	rg.GET("/mints/:requestId", h.GetMint)
}
