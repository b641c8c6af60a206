package handler

import (
	"context"
	"net/http"

	"github.com/bancario/transaction-service/internal/domain"
	"github.com/bancario/transaction-service/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TransactionProcessor defines the single-account operations used by TransactionHandler.
type TransactionProcessor interface {
	ProcessDeposit(ctx context.Context, req domain.TransactionRequest) (*domain.Transaction, error)
	ProcessWithdrawal(ctx context.Context, req domain.TransactionRequest) (*domain.Transaction, error)
	ProcessPayment(ctx context.Context, req domain.TransactionRequest) (*domain.Transaction, error)
	ProcessConsumption(ctx context.Context, req domain.TransactionRequest) (*domain.Transaction, error)
}

// TransferExecutor defines the two-account transfer operation.
type TransferExecutor interface {
	Execute(ctx context.Context, req domain.TransferRequest) (*domain.Transaction, error)
}

// TransactionQuerier defines the read-side operations used by TransactionHandler.
type TransactionQuerier interface {
	FindByAccountID(ctx context.Context, accountID string) ([]domain.TransactionView, error)
	GetTransaction(ctx context.Context, transactionID, accountID string) (*domain.TransactionView, error)
}

type TransactionHandler struct {
	processor TransactionProcessor
	transfers TransferExecutor
	queries   TransactionQuerier
}

func NewTransactionHandler(processor TransactionProcessor, transfers TransferExecutor, queries TransactionQuerier) *TransactionHandler {
	return &TransactionHandler{processor: processor, transfers: transfers, queries: queries}
}

type TransactionRequestBody struct {
	AccountID   string  `json:"accountId" validate:"required"`
	CustomerID  string  `json:"customerId" validate:"required"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description"`
}

type TransferRequestBody struct {
	SourceAccountNumber string  `json:"sourceAccountNumber" validate:"required"`
	TargetAccountNumber string  `json:"targetAccountNumber" validate:"required"`
	Amount              float64 `json:"amount" validate:"required,gt=0"`
	Description         string  `json:"description"`
}

// statusByKind is the single mapping from failure class to transport status.
var statusByKind = map[domain.Kind]int{
	domain.KindValidation:         http.StatusBadRequest,
	domain.KindNotFound:           http.StatusNotFound,
	domain.KindInsufficientFunds:  http.StatusUnprocessableEntity,
	domain.KindServiceUnavailable: http.StatusServiceUnavailable,
	domain.KindTransferIncomplete: http.StatusInternalServerError,
	domain.KindTransferEscalated:  http.StatusServiceUnavailable,
	domain.KindInternal:           http.StatusInternalServerError,
}

func respondError(c *gin.Context, err error) {
	status, ok := statusByKind[domain.KindOf(err)]
	if !ok {
		status = http.StatusInternalServerError
	}
	middleware.RespondWithError(c, status, err.Error())
}

func (h *TransactionHandler) ProcessDeposit(c *gin.Context) {
	h.processSimple(c, h.processor.ProcessDeposit)
}

func (h *TransactionHandler) ProcessWithdrawal(c *gin.Context) {
	h.processSimple(c, h.processor.ProcessWithdrawal)
}

func (h *TransactionHandler) ProcessPayment(c *gin.Context) {
	h.processSimple(c, h.processor.ProcessPayment)
}

func (h *TransactionHandler) ProcessConsumption(c *gin.Context) {
	h.processSimple(c, h.processor.ProcessConsumption)
}

func (h *TransactionHandler) processSimple(
	c *gin.Context,
	process func(context.Context, domain.TransactionRequest) (*domain.Transaction, error),
) {
	var req TransactionRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}
	if tokenCustomer, ok := middleware.GetCustomerID(c); ok && tokenCustomer != req.CustomerID {
		middleware.RespondWithError(c, http.StatusForbidden, "customerId does not match the authenticated customer")
		return
	}

	record, err := process(c.Request.Context(), domain.TransactionRequest{
		AccountID:   req.AccountID,
		CustomerID:  req.CustomerID,
		Amount:      decimal.NewFromFloat(req.Amount),
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *TransactionHandler) ProcessTransfer(c *gin.Context) {
	var req TransferRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	record, err := h.transfers.Execute(c.Request.Context(), domain.TransferRequest{
		SourceAccountNumber: req.SourceAccountNumber,
		TargetAccountNumber: req.TargetAccountNumber,
		Amount:              decimal.NewFromFloat(req.Amount),
		Description:         req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	accountID := c.Query("accountId")
	if accountID == "" {
		middleware.RespondWithError(c, http.StatusBadRequest, "accountId query parameter is required")
		return
	}

	views, err := h.queries.FindByAccountID(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	accountID := c.Query("accountId")
	if accountID == "" {
		middleware.RespondWithError(c, http.StatusBadRequest, "accountId query parameter is required")
		return
	}

	view, err := h.queries.GetTransaction(c.Request.Context(), c.Param("transactionId"), accountID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
