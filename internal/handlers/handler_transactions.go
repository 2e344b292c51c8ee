package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/mma_fx/internal/core/ports/services"
	"github.com/SscSPs/mma_fx/internal/dto"
	"github.com/SscSPs/mma_fx/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests related to transactions.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

func newTransactionHandler(ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{transactionService: ts}
}

// registerTransactionRoutes registers routes related to a user's transactions.
func registerTransactionRoutes(users *gin.RouterGroup, ts portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(ts)

	txs := users.Group("/transactions")
	{
		txs.POST("", h.createTransaction)
		txs.GET("", h.listTransactions)
		txs.GET("/:transactionID", h.getTransaction)
	}
}

// createTransaction godoc
// @Summary Record a transaction
// @Description Normalizes the amount into targetCurrency and stores it. Conversion problems are reported as a warning, not an error.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   userID path string true "User ID"
// @Param   transaction body dto.CreateTransactionRequest true "Transaction"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Duplicate transaction ID"
// @Failure 500 {object} map[string]string "Failed to create transaction"
// @Router /users/{userID}/transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	userID := c.Param("userID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("user_id", userID))

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	outcome, err := h.transactionService.CreateTransaction(c.Request.Context(), req.ToDraft(userID), req.TargetCurrency)
	if err != nil {
		respondError(c, err, "Failed to create transaction")
		return
	}

	if outcome.Warning != "" {
		logger.Warn("Transaction stored with degraded conversion",
			slog.String("transaction_id", outcome.Transaction.TransactionID),
			slog.String("warning", outcome.Warning))
	}
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(*outcome))
}

// getTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce  json
// @Param   userID path string true "User ID"
// @Param   transactionID path string true "Transaction ID"
// @Success 200 {object} domain.NormalizedTransaction
// @Failure 404 {object} map[string]string "Transaction not found"
// @Router /users/{userID}/transactions/{transactionID} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	tx, err := h.transactionService.GetTransaction(c.Request.Context(), c.Param("userID"), c.Param("transactionID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, tx)
}

// listTransactions godoc
// @Summary List a user's transactions
// @Tags transactions
// @Produce  json
// @Param   userID path string true "User ID"
// @Param   displayCurrency query string false "Re-denominate amounts into this currency"
// @Param   limit query int false "Page size" default(50)
// @Param   offset query int false "Offset"
// @Success 200 {object} dto.ListTransactionsResponse
// @Router /users/{userID}/transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	var q dto.ListTransactionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	txs, err := h.transactionService.ListTransactions(c.Request.Context(), c.Param("userID"), q.DisplayCurrency, q.Limit, q.Offset)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ListTransactionsResponse{Transactions: txs, Limit: q.Limit, Offset: q.Offset})
}
