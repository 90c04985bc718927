package handler

import (
	"net/http"

	"treatment_tracker/internal/middleware"
	"treatment_tracker/internal/model"
	"treatment_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// TreatmentHandler handles treatment related requests
type TreatmentHandler struct {
	service service.TreatmentService
}

// NewTreatmentHandler creates a new TreatmentHandler
func NewTreatmentHandler(s service.TreatmentService) *TreatmentHandler {
	return &TreatmentHandler{service: s}
}

func (h *TreatmentHandler) ListTreatments(c *gin.Context) {
	userID, err := middleware.AuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	treatments, err := h.service.ListTreatments(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve treatments")
		return
	}
	c.JSON(http.StatusOK, treatments)
}

func (h *TreatmentHandler) CreateTreatment(c *gin.Context) {
	userID, err := middleware.AuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req model.CreateTreatmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	treatment, err := h.service.CreateTreatment(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to create treatment")
		return
	}
	c.JSON(http.StatusCreated, treatment)
}

func (h *TreatmentHandler) GetTreatment(c *gin.Context) {
	userID, err := middleware.AuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	treatment, err := h.service.GetTreatment(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve treatment")
		return
	}
	c.JSON(http.StatusOK, treatment)
}

func (h *TreatmentHandler) UpdateTreatment(c *gin.Context) {
	userID, err := middleware.AuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req model.UpdateTreatmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	treatment, err := h.service.UpdateTreatment(c.Request.Context(), c.Param("id"), userID, req)
	if err != nil {
		respondError(c, err, "Failed to update treatment")
		return
	}
	c.JSON(http.StatusOK, treatment)
}

func (h *TreatmentHandler) DeleteTreatment(c *gin.Context) {
	userID, err := middleware.AuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	id, err := h.service.DeleteTreatment(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err, "Failed to delete treatment")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Treatment deleted successfully",
		"id":      id,
	})
}

// RegisterTreatmentRoutes registers treatment routes; all of them require authMW
func (h *TreatmentHandler) RegisterTreatmentRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	treatmentRoutes := rg.Group("/treatments")
	treatmentRoutes.Use(authMW)
	{
		treatmentRoutes.GET("", h.ListTreatments)
		treatmentRoutes.POST("", h.CreateTreatment)
		treatmentRoutes.GET("/:id", h.GetTreatment)
		treatmentRoutes.PUT("/:id", h.UpdateTreatment)
		treatmentRoutes.DELETE("/:id", h.DeleteTreatment)
	}
}
