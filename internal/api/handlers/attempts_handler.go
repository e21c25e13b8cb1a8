package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/portvakt/portvakt/internal/ledger"
)

type AttemptsHandler struct {
	ledger *ledger.Ledger
}

func NewAttemptsHandler(l *ledger.Ledger) *AttemptsHandler {
	return &AttemptsHandler{ledger: l}
}

// List handles GET /api/v1/attempts?limit=
func (h *AttemptsHandler) List(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 1000 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 1000"})
			return
		}
		limit = n
	}

	attempts, err := h.ledger.Recent(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":  attempts,
		"count": len(attempts),
	})
}

// Stats handles GET /api/v1/attempts/stats
func (h *AttemptsHandler) Stats(c *gin.Context) {
	stats, err := h.ledger.Aggregate(1000)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}
