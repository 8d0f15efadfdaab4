package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fund-tracker/database"
	"fund-tracker/middleware"
	"fund-tracker/models"
	"fund-tracker/ownership"
	"fund-tracker/session"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const (
	dateLayout    = "2006-01-02"
	dashboardPath = "/dashboard"
	msgDenied     = "Access denied."
)

// Handler serves every route. Each request reads its principal from the gin
// context populated by middleware.RequireLogin.
type Handler struct {
	Store        *database.Store
	Sessions     *session.Manager
	Ownership    *ownership.Cache
	CookieSecure bool
}

// NewRouter registers the public login routes and the session-guarded
// application routes.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.Default()

	// Public routes
	router.GET("/", h.LoginForm)
	router.POST("/", h.Login)

	// Protected routes
	auth := router.Group("/")
	auth.Use(middleware.RequireLogin(h.Sessions, h.Store))
	{
		auth.GET("/logout", h.Logout)
		auth.GET("/dashboard", h.Dashboard)
		auth.POST("/dashboard", h.Dashboard)
		auth.GET("/submit", h.SubmitForm)
		auth.POST("/submit", h.SubmitInvestment)
		auth.GET("/approve/:id", h.Approve)
		auth.GET("/reject/:id", h.Reject)
		auth.GET("/create-user", h.CreateUserForm)
		auth.POST("/create-user", h.CreateUser)
		auth.POST("/delete-user/:id", h.DeleteUser)
		auth.POST("/create-allocation", h.CreateAllocation)
		auth.GET("/history", h.History)
	}
	return router
}

// authorize lets the request through only when the principal holds role.
// Otherwise it flashes a denial and redirects to the dashboard.
func (h *Handler) authorize(c *gin.Context, role models.Role) (*models.User, bool) {
	user, ok := middleware.CurrentPrincipal(c)
	if !ok {
		c.Redirect(http.StatusFound, "/")
		return nil, false
	}

	var allowed bool
	switch user.Role {
	case models.RoleAdmin:
		allowed = role == models.RoleAdmin
	case models.RoleInvestor:
		allowed = role == models.RoleInvestor
	}
	if !allowed {
		h.redirect(c, dashboardPath, msgDenied)
		return nil, false
	}
	return user, true
}

func (h *Handler) flash(c *gin.Context, message string) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		return
	}
	if err := h.Sessions.Flash(c.Request.Context(), sess.ID, message); err != nil {
		log.Printf("[flash] session %s: %v", sess.ID, err)
	}
}

// messages pops the flashes queued for this session.
func (h *Handler) messages(c *gin.Context) []string {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		return []string{}
	}
	msgs, err := h.Sessions.Flashes(c.Request.Context(), sess.ID)
	if err != nil {
		log.Printf("[flash] session %s: %v", sess.ID, err)
	}
	if msgs == nil {
		msgs = []string{}
	}
	return msgs
}

func (h *Handler) redirect(c *gin.Context, path, message string) {
	if message != "" {
		h.flash(c, message)
	}
	c.Redirect(http.StatusFound, path)
}

// breakdown serves the ownership breakdown from cache, computing and
// storing it on a miss.
func (h *Handler) breakdown(ctx context.Context) (ownership.Breakdown, error) {
	gen, genOK := h.ownershipGeneration(ctx)
	b, ok, err := h.Ownership.Get(ctx)
	if err != nil {
		log.Printf("[ownership] cache read: %v", err)
	}
	if ok {
		return b, nil
	}

	investors, err := h.Store.ListInvestors(ctx)
	if err != nil {
		return ownership.Breakdown{}, err
	}
	if !genOK {
		return ownership.Compute(investors), nil
	}
	return h.fillOwnership(ctx, gen, investors), nil
}

// ownershipGeneration must run before the investor read whose result is
// cached. ok is false when Redis is unreachable; callers then skip the fill.
func (h *Handler) ownershipGeneration(ctx context.Context) (gen int64, ok bool) {
	gen, err := h.Ownership.Generation(ctx)
	if err != nil {
		log.Printf("[ownership] cache generation: %v", err)
		return 0, false
	}
	return gen, true
}

func (h *Handler) fillOwnership(ctx context.Context, gen int64, investors []models.User) ownership.Breakdown {
	b := ownership.Compute(investors)
	stored, err := h.Ownership.Set(ctx, gen, b)
	switch {
	case err != nil:
		log.Printf("[ownership] cache write: %v", err)
	case !stored:
		log.Printf("[ownership] dropped fill from generation %d", gen)
	}
	return b
}

func (h *Handler) invalidateOwnership(ctx context.Context) {
	if err := h.Ownership.Invalidate(ctx); err != nil {
		log.Printf("[ownership] cache invalidate: %v", err)
	}
}

// idParam parses a numeric path parameter. Anything else is a 404, matching
// how an unknown route would answer.
func idParam(c *gin.Context, what string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
		return 0, false
	}
	return uint(id), true
}

// parseAmount accepts at most cents, the precision amounts are stored at.
func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, err
	}
	if !amount.Equal(amount.Round(2)) {
		return decimal.Decimal{}, fmt.Errorf("%s has more than 2 decimal places", amount)
	}
	return amount, nil
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.UTC)
}

func serverError(c *gin.Context, msg string, err error) {
	log.Printf("Error: %s: %v", msg, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
