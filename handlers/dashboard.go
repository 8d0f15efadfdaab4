package handlers

import (
	"net/http"

	"fund-tracker/middleware"
	"fund-tracker/models"
	"fund-tracker/ownership"

	"github.com/gin-gonic/gin"
)

// Dashboard renders the admin aggregate view or the investor's own view,
// depending on the principal's role.
func (h *Handler) Dashboard(c *gin.Context) {
	user, ok := middleware.CurrentPrincipal(c)
	if !ok {
		c.Redirect(http.StatusFound, "/")
		return
	}

	switch user.Role {
	case models.RoleAdmin:
		h.adminDashboard(c)
	case models.RoleInvestor:
		h.investorDashboard(c, user)
	default:
		h.redirect(c, "/", msgDenied)
	}
}

func (h *Handler) adminDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	pending, err := h.Store.ListInvestmentsByStatus(ctx, models.StatusPending)
	if err != nil {
		serverError(c, "Failed to fetch pending investments", err)
		return
	}
	approved, err := h.Store.ListInvestmentsByStatus(ctx, models.StatusApproved)
	if err != nil {
		serverError(c, "Failed to fetch approved investments", err)
		return
	}
	gen, genOK := h.ownershipGeneration(ctx)
	investors, err := h.Store.ListInvestors(ctx)
	if err != nil {
		serverError(c, "Failed to fetch investors", err)
		return
	}
	// ownership_data and investors come from the same read.
	var b ownership.Breakdown
	if genOK {
		b = h.fillOwnership(ctx, gen, investors)
	} else {
		b = ownership.Compute(investors)
	}
	allocations, err := h.Store.ListAllocations(ctx)
	if err != nil {
		serverError(c, "Failed to fetch fund allocations", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"view":                "admin",
		"pending":             pending,
		"history":             approved,
		"ownership_data":      b.Holdings,
		"investors":           investors,
		"fund_allocations":    allocations,
		"total_contributions": b.GrandTotal,
		"messages":            h.messages(c),
	})
}

func (h *Handler) investorDashboard(c *gin.Context, user *models.User) {
	ctx := c.Request.Context()

	investments, err := h.Store.ApprovedInvestments(ctx, user.ID)
	if err != nil {
		serverError(c, "Failed to fetch investments", err)
		return
	}
	b, err := h.breakdown(ctx)
	if err != nil {
		serverError(c, "Failed to compute ownership", err)
		return
	}
	allocations, err := h.Store.ListAllocations(ctx)
	if err != nil {
		serverError(c, "Failed to fetch fund allocations", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"view":             "investor",
		"investments":      investments,
		"ownership_data":   b.Holdings,
		"fund_allocations": ownership.AllocationShares(allocations, b.GrandTotal),
		"messages":         h.messages(c),
	})
}
