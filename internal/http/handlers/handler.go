package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"crebito/internal/domain"
	"crebito/internal/logger"
	"crebito/internal/repository"
	"crebito/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler carries the dependencies shared by the account endpoints.
type Handler struct {
	DB     *pgxpool.Pool
	Ledger *service.LedgerService
}

func NewHandler(db *pgxpool.Pool) *Handler {
	return &Handler{
		DB:     db,
		Ledger: service.NewLedgerService(repository.NewAccountRepository(db)),
	}
}

// accountIDParam parses the :id path segment. A non-numeric or non-positive
// id behaves as an unknown account.
func accountIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// writeDomainError maps the ledger error taxonomy onto HTTP statuses.
// Invalid input and limit rejections are routine outcomes and are not
// logged; an unreachable store is the one case worth alerting on.
func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
	case errors.Is(err, domain.ErrInvalidTransaction), errors.Is(err, domain.ErrLimitExceeded):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrStorageUnavailable):
		logger.Error("storage unavailable", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage unavailable"})
	default:
		logger.Error("unhandled error", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
