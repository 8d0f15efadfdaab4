package handlers

import (
	"errors"
	"net/http"

	"fund-tracker/database"
	"fund-tracker/middleware"
	"fund-tracker/session"

	"github.com/gin-gonic/gin"
)

const msgBadLogin = "Invalid username or password."

type LoginInput struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

func (h *Handler) LoginForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"form":     "login",
		"messages": []string{},
	})
}

// Login checks credentials, opens a session and sends the principal to the
// dashboard. Failures re-show the login view with a message.
func (h *Handler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBind(&input); err != nil {
		loginFailed(c)
		return
	}

	ctx := c.Request.Context()
	user, err := h.Store.Authenticate(ctx, input.Username, input.Password)
	if errors.Is(err, database.ErrInvalidCredentials) {
		loginFailed(c)
		return
	}
	if err != nil {
		serverError(c, "Failed to check credentials", err)
		return
	}

	token, _, err := h.Sessions.Create(ctx, user)
	if err != nil {
		serverError(c, "Failed to start session", err)
		return
	}

	c.SetCookie(session.CookieName, token, int(h.Sessions.TTL().Seconds()), "/", "", h.CookieSecure, true)
	c.Redirect(http.StatusFound, dashboardPath)
}

func loginFailed(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"form":     "login",
		"messages": []string{msgBadLogin},
	})
}

func (h *Handler) Logout(c *gin.Context) {
	if sess, ok := middleware.CurrentSession(c); ok {
		if err := h.Sessions.Revoke(c.Request.Context(), sess.ID); err != nil {
			serverError(c, "Failed to end session", err)
			return
		}
	}
	c.SetCookie(session.CookieName, "", -1, "/", "", h.CookieSecure, true)
	c.Redirect(http.StatusFound, "/")
}
