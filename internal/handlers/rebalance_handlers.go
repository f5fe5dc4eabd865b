package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meridianfi/rebalance/internal/middleware"
	"github.com/meridianfi/rebalance/internal/models"
	"github.com/meridianfi/rebalance/internal/rebalance"
	"github.com/meridianfi/rebalance/internal/services"
)

// RebalanceHandler handles portfolio report, rebalance and execution endpoints
type RebalanceHandler struct {
	rebalanceSvc *services.RebalanceService
}

// NewRebalanceHandler creates a new RebalanceHandler
func NewRebalanceHandler(rebalanceSvc *services.RebalanceService) *RebalanceHandler {
	return &RebalanceHandler{
		rebalanceSvc: rebalanceSvc,
	}
}

// GetPortfolio handles GET /portfolio
// @Summary Get the portfolio
// @Description Get the flattened holdings table across all accounts plus its total value
// @Tags portfolio
// @Produce json
// @Success 200 {object} models.PortfolioSnapshot
// @Failure 401 {object} models.ErrorResponse
// @Router /portfolio [get]
func (h *RebalanceHandler) GetPortfolio(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	snapshot, err := h.rebalanceSvc.GetSnapshot(c.Request.Context(), userID)
	if err != nil {
		respondRebalanceError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// AllocationByClass handles GET /portfolio/allocation
// @Summary Allocation by asset class
// @Description Total value held per asset class, in canonical class order
// @Tags portfolio
// @Produce json
// @Success 200 {array} models.ClassAllocation
// @Failure 401 {object} models.ErrorResponse
// @Router /portfolio/allocation [get]
func (h *RebalanceHandler) AllocationByClass(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	allocation, err := h.rebalanceSvc.AllocationByClass(c.Request.Context(), userID)
	if err != nil {
		respondRebalanceError(c, err)
		return
	}

	c.JSON(http.StatusOK, allocation)
}

// AllocationByInstitution handles GET /portfolio/allocation/institution
// @Summary Allocation by institution
// @Tags portfolio
// @Produce json
// @Success 200 {array} models.InstitutionAllocation
// @Failure 401 {object} models.ErrorResponse
// @Router /portfolio/allocation/institution [get]
func (h *RebalanceHandler) AllocationByInstitution(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	allocation, err := h.rebalanceSvc.AllocationByInstitution(c.Request.Context(), userID)
	if err != nil {
		respondRebalanceError(c, err)
		return
	}

	c.JSON(http.StatusOK, allocation)
}

// PercentageAllocation handles GET /portfolio/allocation/percentage
// @Summary Percentage allocation
// @Description Each asset class's share of the portfolio as value, fraction and percentage
// @Tags portfolio
// @Produce json
// @Success 200 {array} models.PercentageAllocation
// @Failure 401 {object} models.ErrorResponse
// @Router /portfolio/allocation/percentage [get]
func (h *RebalanceHandler) PercentageAllocation(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	allocation, err := h.rebalanceSvc.PercentageAllocation(c.Request.Context(), userID)
	if err != nil {
		respondRebalanceError(c, err)
		return
	}

	c.JSON(http.StatusOK, allocation)
}

// DiffFromTarget handles GET /portfolio/target-diff
// @Summary Deviation from target
// @Description How far each asset class sits from a stored target, in percentage points. Positive means underweight.
// @Tags portfolio
// @Produce json
// @Param target query string true "Stored target name"
// @Success 200 {array} models.TargetDiff
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /portfolio/target-diff [get]
func (h *RebalanceHandler) DiffFromTarget(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	diff, err := h.rebalanceSvc.DiffFromTarget(c.Request.Context(), userID, c.Query("target"), nil)
	if err != nil {
		respondRebalanceError(c, err)
		return
	}

	c.JSON(http.StatusOK, diff)
}

// Rebalance handles POST /portfolio/rebalance
// @Summary Propose rebalancing transactions
// @Description Run the optimizer against a target allocation. Mode "cash" only spends idle cash in taxable accounts; mode "tune" additionally rebalances within non-taxable accounts. Nothing is persisted.
// @Tags portfolio
// @Accept json
// @Produce json
// @Param request body models.RebalanceRequest true "Target (stored name or inline allocations) and mode"
// @Success 200 {object} models.RebalanceResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /portfolio/rebalance [post]
func (h *RebalanceHandler) Rebalance(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req models.RebalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	ctx, wc := services.NewWarningContext(c.Request.Context())
	resp, err := h.rebalanceSvc.Rebalance(ctx, userID, &req)
	if err != nil {
		respondRebalanceError(c, err)
		return
	}

	resp.Warnings = wc.GetWarnings()
	c.JSON(http.StatusOK, resp)
}

// Execute handles POST /portfolio/transactions
// @Summary Execute transactions
// @Description Apply transactions to the portfolio. With apply=false the response is a preview; with apply=true the new holdings are persisted. Transactions naming an unknown account or fund are skipped with a warning.
// @Tags portfolio
// @Accept json
// @Produce json
// @Param request body models.ExecuteRequest true "Transactions to apply"
// @Success 200 {object} models.ExecuteResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /portfolio/transactions [post]
func (h *RebalanceHandler) Execute(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req models.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	ctx, wc := services.NewWarningContext(c.Request.Context())
	resp, err := h.rebalanceSvc.Execute(ctx, userID, &req)
	if err != nil {
		respondRebalanceError(c, err)
		return
	}

	resp.Warnings = wc.GetWarnings()
	c.JSON(http.StatusOK, resp)
}

func requireUser(c *gin.Context) (int64, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required",
		})
		return 0, false
	}
	return userID, true
}

func respondRebalanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidTargetSpec),
		errors.Is(err, services.ErrInvalidMode),
		errors.Is(err, services.ErrInvalidAllocation):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrTargetNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "target allocation not found",
		})
	case errors.Is(err, rebalance.ErrOptimizationFailed):
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:   "optimization_failed",
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
	}
}
