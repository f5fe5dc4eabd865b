package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meridianfi/rebalance/internal/middleware"
	"github.com/meridianfi/rebalance/internal/models"
	"github.com/meridianfi/rebalance/internal/services"
)

// TargetHandler handles target allocation endpoints
type TargetHandler struct {
	targetSvc *services.TargetService
}

// NewTargetHandler creates a new TargetHandler
func NewTargetHandler(targetSvc *services.TargetService) *TargetHandler {
	return &TargetHandler{
		targetSvc: targetSvc,
	}
}

// Upsert handles PUT /targets/:name
// @Summary Store a target allocation
// @Description Store a named target allocation, replacing any previous one under that name. Percentages that do not total 100 are stored with a warning.
// @Tags targets
// @Accept json
// @Produce json
// @Param name path string true "Target name"
// @Param target body models.TargetRequest true "Allocations by asset class, in percent"
// @Success 200 {object} models.TargetResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /targets/{name} [put]
func (h *TargetHandler) Upsert(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required",
		})
		return
	}

	var req models.TargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	ctx, wc := services.NewWarningContext(c.Request.Context())
	target, err := h.targetSvc.UpsertTarget(ctx, userID, c.Param("name"), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidAllocation) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "bad_request",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	target.Warnings = wc.GetWarnings()
	c.JSON(http.StatusOK, target)
}

// Get handles GET /targets/:name
// @Summary Get a target allocation
// @Tags targets
// @Produce json
// @Param name path string true "Target name"
// @Success 200 {object} models.TargetResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /targets/{name} [get]
func (h *TargetHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required",
		})
		return
	}

	target, err := h.targetSvc.GetTarget(c.Request.Context(), userID, c.Param("name"))
	if err != nil {
		respondTargetError(c, err)
		return
	}

	c.JSON(http.StatusOK, target)
}

// List handles GET /targets
// @Summary List target allocations
// @Tags targets
// @Produce json
// @Success 200 {array} models.TargetResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /targets [get]
func (h *TargetHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required",
		})
		return
	}

	targets, err := h.targetSvc.ListTargets(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, targets)
}

// Delete handles DELETE /targets/:name
// @Summary Delete a target allocation
// @Tags targets
// @Produce json
// @Param name path string true "Target name"
// @Success 200 {object} map[string]string
// @Failure 404 {object} models.ErrorResponse
// @Router /targets/{name} [delete]
func (h *TargetHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required",
		})
		return
	}

	if err := h.targetSvc.DeleteTarget(c.Request.Context(), userID, c.Param("name")); err != nil {
		respondTargetError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "target deleted"})
}

func respondTargetError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrTargetNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "target allocation not found",
		})
		return
	}
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:   "internal_error",
		Message: err.Error(),
	})
}
