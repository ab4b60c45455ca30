package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/spinquest/spinwheel-backend/internal/middleware"
	"github.com/spinquest/spinwheel-backend/internal/models"
	"github.com/spinquest/spinwheel-backend/internal/services"
)

// TokenHandler handles token-related HTTP requests
type TokenHandler struct {
	tokenService services.TokenService
}

// NewTokenHandler creates a new TokenHandler
func NewTokenHandler(tokenService services.TokenService) *TokenHandler {
	return &TokenHandler{tokenService: tokenService}
}

// IssueRequest is the bulk token creation payload
type IssueRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// Issue handles POST /tokens
func (h *TokenHandler) Issue(c *gin.Context) {
	var request IssueRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity is required"})
		return
	}

	adminID, ok := middleware.AdminIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	tokens, err := h.tokenService.Issue(c.Request.Context(), request.Quantity, adminID)
	if err != nil {
		// A mid-batch generation failure keeps what was already created;
		// report both counts so the operator knows what landed.
		if len(tokens) > 0 {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     errMessage(err),
				"requested": request.Quantity,
				"created":   len(tokens),
				"tokens":    tokens,
			})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"tokens": tokens})
}

// ValidateRequest is the public token pre-check payload
type ValidateRequest struct {
	Code string `json:"code" binding:"required"`
}

// Validate handles POST /tokens/validate
func (h *TokenHandler) Validate(c *gin.Context) {
	var request ValidateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token code is required"})
		return
	}

	token, err := h.tokenService.Validate(c.Request.Context(), request.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token": gin.H{
			"id":        token.ID,
			"code":      token.Code,
			"expiresAt": token.ExpiresAt,
		},
	})
}

// List handles GET /tokens
func (h *TokenHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	status := models.TokenStatus(c.Query("status"))

	tokens, total, err := h.tokenService.List(c.Request.Context(), status, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tokens": tokens,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetStats handles GET /tokens/stats
func (h *TokenHandler) GetStats(c *gin.Context) {
	stats, err := h.tokenService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// PurgeExpired handles DELETE /tokens/expired
func (h *TokenHandler) PurgeExpired(c *gin.Context) {
	deleted, err := h.tokenService.PurgeExpired(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
