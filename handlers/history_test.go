package handlers

import (
	"context"
	"net/http"
	"testing"

	"fund-tracker/models"

	"github.com/shopspring/decimal"
)

type historyView struct {
	Users          []models.User            `json:"users"`
	Approved       []models.InvestmentInput `json:"approved"`
	SelectedUserID string                   `json:"selected_user_id"`
	StartDate      string                   `json:"start_date"`
}

func TestHistoryFilters(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	alice := app.investor("alice")
	bob := app.investor("bob")
	cookie := app.login("admin", "admin-pw")

	var aliceIDs []uint
	for _, owner := range []*models.User{alice, bob, alice} {
		inv, err := app.store.SubmitInvestment(ctx, owner.ID, decimal.NewFromInt(10), "", zeroTime)
		if err != nil {
			t.Fatal(err)
		}
		app.do(http.MethodGet, "/approve/"+itoa(inv.ID), nil, cookie)
		if owner == alice {
			aliceIDs = append(aliceIDs, inv.ID)
		}
	}
	if _, err := app.store.SubmitInvestment(ctx, alice.ID, decimal.NewFromInt(99), "", zeroTime); err != nil {
		t.Fatal(err)
	}

	var all historyView
	decode(t, app.do(http.MethodGet, "/history?user_id=all", nil, cookie), &all)
	if len(all.Approved) != 3 || len(all.Users) != 2 || all.SelectedUserID != "all" {
		t.Fatalf("unfiltered history: %+v", all)
	}
	for i := 1; i < len(all.Approved); i++ {
		if all.Approved[i-1].DateApproved.Before(*all.Approved[i].DateApproved) {
			t.Fatalf("history not newest first: %+v", all.Approved)
		}
	}

	var mine historyView
	decode(t, app.do(http.MethodGet, "/history?user_id="+itoa(alice.ID), nil, cookie), &mine)
	if len(mine.Approved) != len(aliceIDs) {
		t.Fatalf("alice history: %+v", mine.Approved)
	}
	for _, inv := range mine.Approved {
		if inv.UserID != alice.ID {
			t.Fatalf("foreign investment %d in alice history", inv.ID)
		}
	}

	var future historyView
	decode(t, app.do(http.MethodGet, "/history?start_date=2999-01-01", nil, cookie), &future)
	if len(future.Approved) != 0 || future.StartDate != "2999-01-01" {
		t.Fatalf("future history: %+v", future)
	}
}

func TestHistoryMalformedFilters(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login("admin", "admin-pw")

	for _, q := range []string{"user_id=alice", "start_date=yesterday", "end_date=2024-13-01"} {
		if rec := app.do(http.MethodGet, "/history?"+q, nil, cookie); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", q, rec.Code)
		}
	}
}
