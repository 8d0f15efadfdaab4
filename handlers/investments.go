package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"fund-tracker/database"
	"fund-tracker/models"

	"github.com/gin-gonic/gin"
)

const (
	submitPath     = "/submit"
	investmentNoun = "Investment"
	msgBadAmount   = "Please enter a valid amount."
	msgBadDate     = "Invalid date format. Please use the date picker."
	msgSubmitted   = "Investment submitted and pending approval!"
	msgApproved    = "Investment approved!"
	msgRejected    = "Investment rejected!"
)

type InvestmentInput struct {
	Amount        string `form:"amount" json:"amount"`
	Comment       string `form:"comment" json:"comment"`
	DateSubmitted string `form:"date_submitted" json:"date_submitted"`
}

func (h *Handler) SubmitForm(c *gin.Context) {
	if _, ok := h.authorize(c, models.RoleInvestor); !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"form":     "investment",
		"messages": h.messages(c),
	})
}

// SubmitInvestment records a Pending investment for the current investor.
// Bad amounts or dates send the investor back to the form with a message
// and create nothing.
func (h *Handler) SubmitInvestment(c *gin.Context) {
	user, ok := h.authorize(c, models.RoleInvestor)
	if !ok {
		return
	}

	var input InvestmentInput
	if err := c.ShouldBind(&input); err != nil {
		h.redirect(c, submitPath, msgBadAmount)
		return
	}

	amount, err := parseAmount(input.Amount)
	if err != nil || !amount.IsPositive() {
		h.redirect(c, submitPath, msgBadAmount)
		return
	}

	var submittedAt time.Time
	if input.DateSubmitted != "" {
		if submittedAt, err = parseDate(input.DateSubmitted); err != nil {
			h.redirect(c, submitPath, msgBadDate)
			return
		}
	}

	_, err = h.Store.SubmitInvestment(c.Request.Context(), user.ID, amount, strings.TrimSpace(input.Comment), submittedAt)
	if errors.Is(err, database.ErrInvalidAmount) {
		h.redirect(c, submitPath, msgBadAmount)
		return
	}
	if err != nil {
		serverError(c, "Failed to create investment", err)
		return
	}

	h.redirect(c, dashboardPath, msgSubmitted)
}

func (h *Handler) Approve(c *gin.Context) {
	h.transition(c, models.StatusApproved)
}

func (h *Handler) Reject(c *gin.Context) {
	h.transition(c, models.StatusRejected)
}

// transition applies an admin decision. There is no guard against deciding
// twice; the last decision wins.
func (h *Handler) transition(c *gin.Context, status models.Status) {
	if _, ok := h.authorize(c, models.RoleAdmin); !ok {
		return
	}
	id, ok := idParam(c, investmentNoun)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var (
		err error
		msg string
	)
	switch status {
	case models.StatusApproved:
		_, err = h.Store.ApproveInvestment(ctx, id)
		msg = msgApproved
	case models.StatusRejected:
		_, err = h.Store.RejectInvestment(ctx, id)
		msg = msgRejected
	}
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Investment not found"})
		return
	}
	if err != nil {
		serverError(c, "Failed to update investment", err)
		return
	}

	h.invalidateOwnership(ctx)
	h.redirect(c, dashboardPath, msg)
}
