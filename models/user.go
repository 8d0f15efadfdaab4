package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Role is the closed set of principal roles.
type Role uint8

const (
	RoleAdmin Role = iota + 1
	RoleInvestor
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleInvestor:
		return "investor"
	}
	return fmt.Sprintf("Role(%d)", uint8(r))
}

// ParseRole maps the stored name back to a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "admin":
		return RoleAdmin, nil
	case "investor":
		return RoleInvestor, nil
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

func (r Role) Value() (driver.Value, error) {
	switch r {
	case RoleAdmin, RoleInvestor:
		return r.String(), nil
	}
	return nil, fmt.Errorf("invalid role %d", uint8(r))
}

func (r *Role) Scan(src interface{}) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Role", src)
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func (r Role) MarshalText() ([]byte, error) {
	if _, err := r.Value(); err != nil {
		return nil, err
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// User is a principal: either the administrator or an investor.
type User struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	Username    string            `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Password    string            `gorm:"size:255;not null" json:"-"`
	Role        Role              `gorm:"type:varchar(50);not null" json:"role"`
	Investments []InvestmentInput `gorm:"foreignKey:UserID" json:"investments,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// TotalApproved sums the approved investments loaded on u.
func (u *User) TotalApproved() decimal.Decimal {
	total := decimal.Zero
	for _, inv := range u.Investments {
		if inv.Status == StatusApproved {
			total = total.Add(inv.Amount)
		}
	}
	return total
}
