package handlers

import (
	"net/http"
	"time"

	"crebito/internal/domain"

	"github.com/gin-gonic/gin"
)

type statementBalance struct {
	Total       int64     `json:"total"`
	CreditLimit int64     `json:"credit_limit"`
	QueriedAt   time.Time `json:"queried_at"`
}

type statementResponse struct {
	Balance          statementBalance      `json:"balance"`
	LastTransactions []*domain.Transaction `json:"last_transactions"`
}

// Statement handles GET /accounts/:id/statement.
func (h *Handler) Statement(c *gin.Context) {
	accountID, ok := accountIDParam(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}

	st, err := h.Ledger.Statement(c.Request.Context(), accountID)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	txs := st.Transactions
	if txs == nil {
		txs = []*domain.Transaction{}
	}

	c.JSON(http.StatusOK, statementResponse{
		Balance: statementBalance{
			Total:       st.Balance,
			CreditLimit: st.CreditLimit,
			QueriedAt:   st.QueriedAt,
		},
		LastTransactions: txs,
	})
}
