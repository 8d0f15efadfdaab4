package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"fund-tracker/database"
	"fund-tracker/models"
	"fund-tracker/ownership"
	"fund-tracker/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var zeroTime time.Time

func itoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }

type testApp struct {
	t      *testing.T
	db     *gorm.DB
	store  *database.Store
	router *gin.Engine
	admin  *models.User
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	store := database.NewStore(db)
	if err := store.AutoMigrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	admin, err := store.CreateUser(context.Background(), "admin", "admin-pw", models.RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}

	h := &Handler{
		Store:     store,
		Sessions:  session.NewManager(rdb, "test-secret", time.Hour),
		Ownership: ownership.NewCache(rdb),
	}
	return &testApp{t: t, db: db, store: store, router: NewRouter(h), admin: admin}
}

func (a *testApp) investor(name string) *models.User {
	a.t.Helper()
	u, err := a.store.CreateInvestor(context.Background(), name, name+"-pw")
	if err != nil {
		a.t.Fatalf("create investor %s: %v", name, err)
	}
	return u
}

func (a *testApp) do(method, target string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	a.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) login(username, password string) *http.Cookie {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/", url.Values{"username": {username}, "password": {password}}, nil)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/dashboard" {
		a.t.Fatalf("login %s: status %d location %q body %s", username, rec.Code, rec.Header().Get("Location"), rec.Body)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	a.t.Fatalf("login %s: no session cookie", username)
	return nil
}

func expectRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302; body %s", rec.Code, rec.Body)
	}
	if got := rec.Header().Get("Location"); got != location {
		t.Fatalf("location = %q, want %q", got, location)
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body, err)
	}
}

type holdingView struct {
	Username      string          `json:"username"`
	TotalApproved decimal.Decimal `json:"total_approved"`
	Percentage    decimal.Decimal `json:"percentage"`
}

type shareView struct {
	Name       string          `json:"name"`
	Percentage decimal.Decimal `json:"percentage"`
}

type investorDashboard struct {
	View            string                   `json:"view"`
	Investments     []models.InvestmentInput `json:"investments"`
	OwnershipData   []holdingView            `json:"ownership_data"`
	FundAllocations []shareView              `json:"fund_allocations"`
	Messages        []string                 `json:"messages"`
}

type adminDashboard struct {
	View               string                   `json:"view"`
	Pending            []models.InvestmentInput `json:"pending"`
	History            []models.InvestmentInput `json:"history"`
	OwnershipData      []holdingView            `json:"ownership_data"`
	Investors          []models.User            `json:"investors"`
	FundAllocations    []models.FundAllocation  `json:"fund_allocations"`
	TotalContributions decimal.Decimal          `json:"total_contributions"`
	Messages           []string                 `json:"messages"`
}
