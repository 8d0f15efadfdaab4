package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"fund-tracker/database"
	"fund-tracker/models"

	"github.com/gin-gonic/gin"
)

const createUserPath = "/create-user"

type CreateUserInput struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

func (h *Handler) CreateUserForm(c *gin.Context) {
	if _, ok := h.authorize(c, models.RoleAdmin); !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"form":     "create_user",
		"messages": h.messages(c),
	})
}

// CreateUser opens an investor account. Admin accounts are never created
// through this route.
func (h *Handler) CreateUser(c *gin.Context) {
	if _, ok := h.authorize(c, models.RoleAdmin); !ok {
		return
	}

	var input CreateUserInput
	if err := c.ShouldBind(&input); err != nil || strings.TrimSpace(input.Username) == "" {
		h.redirect(c, createUserPath, "Username and password are required.")
		return
	}

	ctx := c.Request.Context()
	_, err := h.Store.CreateInvestor(ctx, strings.TrimSpace(input.Username), input.Password)
	if errors.Is(err, database.ErrDuplicateUsername) {
		h.redirect(c, createUserPath, "Username already exists.")
		return
	}
	if err != nil {
		serverError(c, "Failed to create user", err)
		return
	}

	h.invalidateOwnership(ctx)
	h.redirect(c, dashboardPath, "Investor account created successfully.")
}

// DeleteUser removes an investor together with all of its investments.
func (h *Handler) DeleteUser(c *gin.Context) {
	if _, ok := h.authorize(c, models.RoleAdmin); !ok {
		return
	}
	id, ok := idParam(c, "User")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	user, err := h.Store.DeleteInvestor(ctx, id)
	switch {
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	case errors.Is(err, database.ErrAdminProtected):
		h.redirect(c, dashboardPath, "Cannot delete admin accounts.")
		return
	case err != nil:
		serverError(c, "Failed to delete user", err)
		return
	}

	h.invalidateOwnership(ctx)
	h.redirect(c, dashboardPath, fmt.Sprintf("Investor \"%s\" has been deleted.", user.Username))
}
