package handlers

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCreateAllocation(t *testing.T) {
	app := newTestApp(t)
	alice := app.investor("alice")
	aliceCookie := app.login("alice", "alice-pw")
	adminCookie := app.login("admin", "admin-pw")

	inv, err := app.store.SubmitInvestment(context.Background(), alice.ID, decimal.NewFromInt(200), "", zeroTime)
	if err != nil {
		t.Fatal(err)
	}
	app.do(http.MethodGet, "/approve/"+itoa(inv.ID), nil, adminCookie)

	form := url.Values{"name": {"Crypto"}, "amount": {"50"}}
	expectRedirect(t, app.do(http.MethodPost, "/create-allocation", form, adminCookie), "/dashboard")

	var admin adminDashboard
	decode(t, app.do(http.MethodGet, "/dashboard", nil, adminCookie), &admin)
	if len(admin.FundAllocations) != 1 || admin.FundAllocations[0].Name != "Crypto" {
		t.Fatalf("allocations = %+v", admin.FundAllocations)
	}
	if last := admin.Messages[len(admin.Messages)-1]; last != `$50 allocated to "Crypto"` {
		t.Fatalf("message = %q", last)
	}

	var view investorDashboard
	decode(t, app.do(http.MethodGet, "/dashboard", nil, aliceCookie), &view)
	if len(view.FundAllocations) != 1 || !view.FundAllocations[0].Percentage.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("investor allocations = %+v", view.FundAllocations)
	}
}

func TestCreateAllocationBadAmountIsHardFailure(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login("admin", "admin-pw")

	for _, amount := range []string{"", "fifty", "10.005"} {
		rec := app.do(http.MethodPost, "/create-allocation", url.Values{"name": {"Crypto"}, "amount": {amount}}, cookie)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("amount %q: status %d, want 400", amount, rec.Code)
		}
	}

	allocs, err := app.store.ListAllocations(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(allocs) != 0 {
		t.Fatalf("bad requests created %d allocations", len(allocs))
	}
}
