package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"collectible-mint-service/internal/adapters/primary/http/dto"
)

func (h *Handler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.accountSvc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	log.WithField("email", account.Email).Info("account registered")
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

func (h *Handler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.accountSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}
