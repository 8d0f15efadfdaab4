package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FundAllocation records capital assigned to a named bucket such as
// "Crypto" or "Real Estate".
type FundAllocation struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"size:100;not null" json:"name"`
	Amount    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

func (FundAllocation) TableName() string {
	return "fund_allocations"
}
