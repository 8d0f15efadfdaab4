package handlers

import (
	"net/http"
	"strconv"
	"time"

	"fund-tracker/database"
	"fund-tracker/models"

	"github.com/gin-gonic/gin"
)

// History lists approved investments, newest approval first, optionally
// narrowed to one investor and an approval date range. Malformed filters
// are a hard 400.
func (h *Handler) History(c *gin.Context) {
	if _, ok := h.authorize(c, models.RoleAdmin); !ok {
		return
	}

	selectedUserID := c.Query("user_id")
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")

	var filter database.HistoryFilter
	if selectedUserID != "" && selectedUserID != "all" {
		id, err := strconv.ParseUint(selectedUserID, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id", "details": err.Error()})
			return
		}
		uid := uint(id)
		filter.UserID = &uid
	}
	if startDate != "" {
		start, err := parseDate(startDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date", "details": err.Error()})
			return
		}
		filter.Start = &start
	}
	if endDate != "" {
		end, err := parseDate(endDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date", "details": err.Error()})
			return
		}
		// Include the whole end day.
		end = end.Add(24*time.Hour - time.Nanosecond)
		filter.End = &end
	}

	ctx := c.Request.Context()
	approved, err := h.Store.History(ctx, filter)
	if err != nil {
		serverError(c, "Failed to fetch history", err)
		return
	}
	investors, err := h.Store.ListInvestors(ctx)
	if err != nil {
		serverError(c, "Failed to fetch investors", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":            investors,
		"approved":         approved,
		"selected_user_id": selectedUserID,
		"start_date":       startDate,
		"end_date":         endDate,
		"messages":         h.messages(c),
	})
}
