package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/payswift/payswift_backend/internal/apperrors"
	portssvc "github.com/payswift/payswift_backend/internal/core/ports/services"
	"github.com/payswift/payswift_backend/internal/dto"
	"github.com/payswift/payswift_backend/internal/middleware"
)

// ledgerHandler handles HTTP requests against the transaction ledger.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// RegisterLedgerRoutes registers all ledger-related routes.
func RegisterLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	rg.POST("/transactions", h.recordTransaction)
	rg.GET("/transactions", h.listTransactions)
	rg.GET("/credit-score", h.getCreditScore)
	rg.GET("/balance", h.getBalance)
}

// recordTransaction ingests one transaction and returns the updated
// aggregate. This is the only mutation entry point of the ledger.
func (h *ledgerHandler) recordTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for record transaction request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	txn := req.ToDomain(uuid.NewString(), time.Now().UTC())
	score, err := h.ledgerService.Record(c.Request.Context(), txn)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidTransaction) {
			logger.Warn("Rejected invalid transaction", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to record transaction", slog.String("transaction_id", txn.ID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record transaction"})
		return
	}

	logger.Info("Transaction recorded",
		slog.String("transaction_id", txn.ID),
		slog.String("type", string(txn.Type)),
		slog.String("status", string(txn.Status)),
	)
	c.JSON(http.StatusCreated, dto.RecordTransactionResponse{Transaction: txn, CreditScore: score})
}

// listTransactions returns the newest-first history, optionally truncated
// by the limit query parameter.
func (h *ledgerHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	txns, err := h.ledgerService.GetTransactions(c.Request.Context(), limit)
	if err != nil {
		logger.Error("Failed to list transactions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list transactions"})
		return
	}
	c.JSON(http.StatusOK, dto.ListTransactionsResponse{Transactions: txns})
}

func (h *ledgerHandler) getCreditScore(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	score, err := h.ledgerService.GetScore(c.Request.Context())
	if err != nil {
		logger.Error("Failed to get credit score", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get credit score"})
		return
	}
	c.JSON(http.StatusOK, score)
}

func (h *ledgerHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	balance, err := h.ledgerService.GetBalance(c.Request.Context())
	if err != nil {
		logger.Error("Failed to get balance", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get balance"})
		return
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{Balance: balance})
}
