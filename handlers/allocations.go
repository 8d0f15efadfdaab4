package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"fund-tracker/database"
	"fund-tracker/models"

	"github.com/gin-gonic/gin"
)

type AllocationInput struct {
	Name   string `form:"name" json:"name"`
	Amount string `form:"amount" json:"amount"`
}

// CreateAllocation records capital assigned to a named bucket. Unlike
// investment submission, a malformed amount is a hard 400.
func (h *Handler) CreateAllocation(c *gin.Context) {
	if _, ok := h.authorize(c, models.RoleAdmin); !ok {
		return
	}

	var input AllocationInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	amount, err := parseAmount(input.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount", "details": err.Error()})
		return
	}

	_, err = h.Store.CreateAllocation(c.Request.Context(), input.Name, amount)
	if errors.Is(err, database.ErrInvalidAmount) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount", "details": err.Error()})
		return
	}
	if err != nil {
		serverError(c, "Failed to create allocation", err)
		return
	}

	h.redirect(c, dashboardPath, fmt.Sprintf("$%s allocated to \"%s\"", amount, input.Name))
}
