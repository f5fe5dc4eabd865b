package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/meridianfi/rebalance/internal/loader"
	"github.com/meridianfi/rebalance/internal/middleware"
	"github.com/meridianfi/rebalance/internal/models"
	"github.com/meridianfi/rebalance/internal/services"
)

// AccountHandler handles account CRUD and positions import endpoints
type AccountHandler struct {
	accountSvc *services.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountSvc *services.AccountService) *AccountHandler {
	return &AccountHandler{
		accountSvc: accountSvc,
	}
}

// Create handles POST /accounts
// @Summary Create an account
// @Description Create an investment account with its holdings
// @Tags accounts
// @Accept json
// @Produce json
// @Param account body models.CreateAccountRequest true "Account to create"
// @Success 201 {object} models.AccountResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /accounts [post]
func (h *AccountHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required",
		})
		return
	}

	var req models.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	account, err := h.accountSvc.CreateAccount(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidHolding) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "bad_request",
				Message: err.Error(),
			})
			return
		}
		if errors.Is(err, services.ErrAccountConflict) {
			c.JSON(http.StatusConflict, models.ErrorResponse{
				Error:   "conflict",
				Message: "account with same name and institution already exists",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, accountResponse(account))
}

// List handles GET /accounts
// @Summary List accounts
// @Description List the user's accounts with holding counts and values
// @Tags accounts
// @Produce json
// @Success 200 {array} models.AccountListItem
// @Failure 401 {object} models.ErrorResponse
// @Router /accounts [get]
func (h *AccountHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required",
		})
		return
	}

	accounts, err := h.accountSvc.ListAccounts(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, accounts)
}

// Get handles GET /accounts/:id
// @Summary Get an account
// @Description Get an account with its holdings
// @Tags accounts
// @Produce json
// @Param id path int true "Account ID"
// @Success 200 {object} models.AccountResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /accounts/{id} [get]
func (h *AccountHandler) Get(c *gin.Context) {
	id, userID, ok := accountScope(c)
	if !ok {
		return
	}

	account, err := h.accountSvc.GetAccount(c.Request.Context(), id, userID)
	if err != nil {
		respondAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, accountResponse(account))
}

// Delete handles DELETE /accounts/:id
// @Summary Delete an account
// @Description Delete an account and its holdings
// @Tags accounts
// @Produce json
// @Param id path int true "Account ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} models.ErrorResponse
// @Router /accounts/{id} [delete]
func (h *AccountHandler) Delete(c *gin.Context) {
	id, userID, ok := accountScope(c)
	if !ok {
		return
	}

	if err := h.accountSvc.DeleteAccount(c.Request.Context(), id, userID); err != nil {
		respondAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}

// ReplaceHoldings handles PUT /accounts/:id/holdings
// @Summary Replace holdings
// @Description Replace an account's holdings wholesale; order is preserved
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path int true "Account ID"
// @Param holdings body models.ReplaceHoldingsRequest true "New holdings"
// @Success 200 {object} models.AccountResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /accounts/{id}/holdings [put]
func (h *AccountHandler) ReplaceHoldings(c *gin.Context) {
	id, userID, ok := accountScope(c)
	if !ok {
		return
	}

	var req models.ReplaceHoldingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	account, err := h.accountSvc.ReplaceHoldings(c.Request.Context(), id, userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidHolding) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "bad_request",
				Message: err.Error(),
			})
			return
		}
		respondAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, accountResponse(account))
}

// ImportPositions handles POST /accounts/:id/positions
// @Summary Import positions
// @Description Replace an account's holdings from a brokerage positions CSV. Column names default to Fidelity's export format and can be overridden with form fields.
// @Tags accounts
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Account ID"
// @Param positions formData file true "Positions CSV"
// @Param symbol_column formData string false "Header of the ticker column"
// @Param description_column formData string false "Header of the fund name column"
// @Param shares_column formData string false "Header of the share count column"
// @Param price_column formData string false "Header of the share price column"
// @Success 200 {object} models.ImportResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /accounts/{id}/positions [post]
func (h *AccountHandler) ImportPositions(c *gin.Context) {
	id, userID, ok := accountScope(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("positions")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: "positions file is required",
		})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}
	defer file.Close()

	columns := loader.ColumnMap{
		Symbol:      c.PostForm("symbol_column"),
		Description: c.PostForm("description_column"),
		NumShares:   c.PostForm("shares_column"),
		SharePrice:  c.PostForm("price_column"),
	}

	ctx, wc := services.NewWarningContext(c.Request.Context())
	account, skipped, err := h.accountSvc.ImportPositions(ctx, id, userID, columns, file)
	if err != nil {
		if errors.Is(err, services.ErrInvalidHolding) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "bad_request",
				Message: err.Error(),
			})
			return
		}
		respondAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ImportResponse{
		Account:  accountResponse(account),
		Imported: account.NumHoldings(),
		Skipped:  skipped,
		Warnings: wc.GetWarnings(),
	})
}

// accountScope parses the account ID and user ID every account route needs;
// on failure it writes the error response and returns ok=false.
func accountScope(c *gin.Context) (int64, int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: "invalid account ID",
		})
		return 0, 0, false
	}
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required",
		})
		return 0, 0, false
	}
	return id, userID, true
}

func respondAccountError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrAccountNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "account not found",
		})
		return
	}
	if errors.Is(err, services.ErrUnauthorized) {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "unauthorized",
			Message: "not authorized to access this account",
		})
		return
	}
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:   "internal_error",
		Message: err.Error(),
	})
}

func accountResponse(a *models.Account) models.AccountResponse {
	holdings := a.Holdings()
	resp := models.AccountResponse{
		ID:          a.ID,
		Name:        a.Name,
		Institution: a.Institution,
		Taxable:     a.Taxable,
		Value:       a.Value(),
		Cash:        a.Cash(),
		Holdings:    make([]models.HoldingResponse, 0, len(holdings)),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	for _, inv := range holdings {
		resp.Holdings = append(resp.Holdings, models.HoldingResponse{
			Ticker:     inv.Fund.Ticker,
			AssetClass: inv.Fund.AssetClass,
			Name:       inv.Fund.Name,
			Shares:     inv.Shares,
			SharePrice: inv.Fund.SharePrice,
			Value:      inv.Value(),
		})
	}
	return resp
}
