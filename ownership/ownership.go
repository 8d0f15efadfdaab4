// Package ownership derives investor ownership shares and allocation
// percentages from approved capital.
package ownership

import (
	"fund-tracker/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Holding is one investor's approved capital and share of the total.
type Holding struct {
	UserID        uint            `json:"user_id"`
	Username      string          `json:"username"`
	TotalApproved decimal.Decimal `json:"total_approved"`
	Percentage    decimal.Decimal `json:"percentage"`
}

type Breakdown struct {
	GrandTotal decimal.Decimal `json:"grand_total"`
	Holdings   []Holding       `json:"holdings"`
}

// AllocationShare is a fund allocation expressed against the investor
// grand total.
type AllocationShare struct {
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// Percentage returns 100*part/total rounded to two places, or zero when
// total is not positive.
func Percentage(part, total decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(total).Round(2)
}

// Compute builds the breakdown for investors. Each user's TotalApproved is
// taken from its loaded investments.
func Compute(investors []models.User) Breakdown {
	totals := make([]decimal.Decimal, len(investors))
	grand := decimal.Zero
	for i := range investors {
		totals[i] = investors[i].TotalApproved()
		grand = grand.Add(totals[i])
	}

	b := Breakdown{
		GrandTotal: grand,
		Holdings:   make([]Holding, 0, len(investors)),
	}
	for i, u := range investors {
		b.Holdings = append(b.Holdings, Holding{
			UserID:        u.ID,
			Username:      u.Username,
			TotalApproved: totals[i],
			Percentage:    Percentage(totals[i], grand),
		})
	}
	return b
}

// Holding returns the entry for userID, if present.
func (b Breakdown) Holding(userID uint) (Holding, bool) {
	for _, h := range b.Holdings {
		if h.UserID == userID {
			return h, true
		}
	}
	return Holding{}, false
}

// AllocationShares divides each allocation by grandTotal, the investors'
// approved total rather than the sum of allocations.
func AllocationShares(allocations []models.FundAllocation, grandTotal decimal.Decimal) []AllocationShare {
	out := make([]AllocationShare, 0, len(allocations))
	for _, a := range allocations {
		out = append(out, AllocationShare{
			Name:       a.Name,
			Amount:     a.Amount,
			Percentage: Percentage(a.Amount, grandTotal),
		})
	}
	return out
}
