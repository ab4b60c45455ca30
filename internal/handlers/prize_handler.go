package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spinquest/spinwheel-backend/internal/models"
	"github.com/spinquest/spinwheel-backend/internal/services"
)

// PrizeHandler handles prize table HTTP requests
type PrizeHandler struct {
	prizeService services.PrizeService
}

// NewPrizeHandler creates a new PrizeHandler
func NewPrizeHandler(prizeService services.PrizeService) *PrizeHandler {
	return &PrizeHandler{prizeService: prizeService}
}

// List handles GET /prizes
func (h *PrizeHandler) List(c *gin.Context) {
	slots, err := h.prizeService.ListPrizes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"prizes": slots})
}

// ReplaceRequest is the admin prize table replacement payload
type ReplaceRequest struct {
	Prizes []models.PrizeSlotInput `json:"prizes" binding:"required"`
}

// Replace handles PUT /prizes
func (h *PrizeHandler) Replace(c *gin.Context) {
	var request ReplaceRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prizes payload is required"})
		return
	}

	slots, err := h.prizeService.ReplaceAll(c.Request.Context(), request.Prizes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"prizes": slots})
}
