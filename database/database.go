package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fund-tracker/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrAdminProtected     = errors.New("admin accounts cannot be deleted")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidAmount      = errors.New("invalid amount")
)

// amountPlaces matches the scale of the decimal(15,2) amount columns.
const amountPlaces = 2

// checkScale rejects amounts the columns would silently round.
func checkScale(amount decimal.Decimal) error {
	if !amount.Equal(amount.Round(amountPlaces)) {
		return fmt.Errorf("%s has more than %d decimal places: %w", amount, amountPlaces, ErrInvalidAmount)
	}
	return nil
}

// Store is the persistence layer for users, investments and allocations.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock replaces the time source used for approval stamps and default
// submission dates.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// AutoMigrate creates or updates the three tables.
func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(
		&models.User{},
		&models.InvestmentInput{},
		&models.FundAllocation{},
	)
}

// withTx runs fn inside one transaction. Any error or panic rolls it back.
func (s *Store) withTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func notFound(err error, what string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return err
}
