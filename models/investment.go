package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Status uint8

const (
	StatusPending Status = iota + 1
	StatusApproved
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusApproved:
		return "Approved"
	case StatusRejected:
		return "Rejected"
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

func ParseStatus(s string) (Status, error) {
	switch s {
	case "Pending":
		return StatusPending, nil
	case "Approved":
		return StatusApproved, nil
	case "Rejected":
		return StatusRejected, nil
	}
	return 0, fmt.Errorf("unknown status %q", s)
}

func (s Status) Value() (driver.Value, error) {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return s.String(), nil
	}
	return nil, fmt.Errorf("invalid status %d", uint8(s))
}

func (s *Status) Scan(src interface{}) error {
	var str string
	switch v := src.(type) {
	case string:
		str = v
	case []byte:
		str = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Status", src)
	}
	parsed, err := ParseStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s Status) MarshalText() ([]byte, error) {
	if _, err := s.Value(); err != nil {
		return nil, err
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	parsed, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// InvestmentInput is one contribution submitted by an investor.
// DateApproved is non-nil exactly when Status is StatusApproved.
type InvestmentInput struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	DateSubmitted time.Time       `gorm:"not null" json:"date_submitted"`
	DateApproved  *time.Time      `gorm:"index" json:"date_approved,omitempty"`
	Status        Status          `gorm:"type:varchar(50);not null;index" json:"status"`
	Comment       string          `gorm:"size:300" json:"comment,omitempty"`
	UserID        uint            `gorm:"not null;index" json:"user_id"`
	Investor      *User           `gorm:"foreignKey:UserID" json:"investor,omitempty"`
}

func (InvestmentInput) TableName() string {
	return "investments"
}
