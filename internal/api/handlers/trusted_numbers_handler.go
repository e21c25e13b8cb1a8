package handlers

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/portvakt/portvakt/internal/allowlist"
)

type TrustedNumbersHandler struct {
	store *allowlist.Store
}

func NewTrustedNumbersHandler(store *allowlist.Store) *TrustedNumbersHandler {
	return &TrustedNumbersHandler{store: store}
}

type numberRequest struct {
	Number string `json:"number" binding:"required"`
}

// List handles GET /api/v1/trusted-numbers
func (h *TrustedNumbersHandler) List(c *gin.Context) {
	numbers, err := h.store.Load()
	if err != nil {
		// Degraded store reads as empty; admins still get a response.
		numbers = []string{}
	}
	sort.Strings(numbers)

	c.JSON(http.StatusOK, gin.H{
		"numbers": numbers,
		"count":   len(numbers),
	})
}

// Add handles POST /api/v1/trusted-numbers
func (h *TrustedNumbersHandler) Add(c *gin.Context) {
	var req numberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "number is required"})
		return
	}

	added, err := h.store.Add(strings.TrimSpace(req.Number))
	if err != nil {
		if errors.Is(err, allowlist.ErrInvalidNumber) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if !added {
		c.JSON(http.StatusOK, gin.H{"message": "number already present"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "number added"})
}

// Remove handles DELETE /api/v1/trusted-numbers
func (h *TrustedNumbersHandler) Remove(c *gin.Context) {
	var req numberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "number is required"})
		return
	}

	removed, err := h.store.Remove(strings.TrimSpace(req.Number))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "number not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "number removed"})
}
