package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"fund-tracker/database"
	"fund-tracker/models"
	"fund-tracker/session"

	"github.com/gin-gonic/gin"
)

const (
	principalKey = "principal"
	sessionKey   = "session"
)

// UserLookup loads the principal a session belongs to.
type UserLookup interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

// RequireLogin resolves the session token from the session cookie or a
// Bearer header and loads the principal. Anonymous or stale requests are
// sent to the login page.
func RequireLogin(sessions *session.Manager, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			toLogin(c)
			return
		}

		ctx := c.Request.Context()
		sess, err := sessions.Verify(ctx, tokenString)
		if err != nil {
			if !errors.Is(err, session.ErrInvalidSession) {
				log.Printf("[auth] verify session: %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Session store unavailable"})
				return
			}
			clearCookie(c)
			toLogin(c)
			return
		}

		user, err := users.GetUser(ctx, sess.UserID)
		if err != nil {
			if !errors.Is(err, database.ErrNotFound) {
				log.Printf("[auth] load principal %d: %v", sess.UserID, err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
				return
			}
			// The account was deleted while the session was live.
			if err := sessions.Revoke(ctx, sess.ID); err != nil {
				log.Printf("[auth] revoke session %s: %v", sess.ID, err)
			}
			clearCookie(c)
			toLogin(c)
			return
		}

		c.Set(sessionKey, sess)
		c.Set(principalKey, user)
		c.Next()
	}
}

// CurrentPrincipal returns the user attached by RequireLogin.
func CurrentPrincipal(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

// CurrentSession returns the session attached by RequireLogin.
func CurrentSession(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*session.Session)
	return sess, ok
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(session.CookieName); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}

func toLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, "/")
	c.Abort()
}

func clearCookie(c *gin.Context) {
	c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
}
