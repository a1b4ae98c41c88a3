package handlers

import (
	"encoding/json"
	"net/http"

	"crebito/internal/domain"
	"crebito/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

type transactionRequest struct {
	Amount      json.Number `json:"amount"`
	Kind        string      `json:"kind"`
	Description string      `json:"description"`
}

// ApplyTransaction handles POST /accounts/:id/transactions.
func (h *Handler) ApplyTransaction(c *gin.Context) {
	accountID, ok := accountIDParam(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}

	// Tolerant decode: a malformed body degrades to zero values so the
	// account existence check still runs first and an unknown account
	// answers 404 regardless of the payload.
	var req transactionRequest
	_ = c.ShouldBindJSON(&req)

	// Fractional or absent amounts fail Int64 and fall through as zero,
	// which the engine rejects as an invalid amount.
	amount, _ := req.Amount.Int64()

	snap, err := h.Ledger.Apply(c.Request.Context(), accountID, domain.TransactionKind(req.Kind), amount, req.Description)
	if err != nil {
		middleware.CountApplyOutcome(err)
		writeDomainError(c, err)
		return
	}

	middleware.CountApplyOutcome(nil)
	c.JSON(http.StatusOK, snap)
}
