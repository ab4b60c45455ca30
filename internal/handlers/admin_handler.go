package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spinquest/spinwheel-backend/internal/middleware"
	"github.com/spinquest/spinwheel-backend/internal/models"
	"github.com/spinquest/spinwheel-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminHandler handles admin account management HTTP requests
type AdminHandler struct {
	adminService services.AdminService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminService services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// List handles GET /admins
func (h *AdminHandler) List(c *gin.Context) {
	admins, err := h.adminService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"admins": admins})
}

// Create handles POST /admins
func (h *AdminHandler) Create(c *gin.Context) {
	var request models.CreateAdminRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	creatorID, ok := middleware.AdminIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	admin, err := h.adminService.Create(c.Request.Context(), &request, creatorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"admin": admin})
}

// Delete handles DELETE /admins/:id
func (h *AdminHandler) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	requesterID, ok := middleware.AdminIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	if err := h.adminService.Delete(c.Request.Context(), id, requesterID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Admin deleted"})
}
