package database

import (
	"context"

	"fund-tracker/models"

	"github.com/shopspring/decimal"
)

// CreateAllocation accepts any sign; only the scale is checked.
func (s *Store) CreateAllocation(ctx context.Context, name string, amount decimal.Decimal) (*models.FundAllocation, error) {
	if err := checkScale(amount); err != nil {
		return nil, err
	}
	alloc := models.FundAllocation{
		Name:      name,
		Amount:    amount,
		CreatedAt: s.now(),
	}
	if err := s.db.WithContext(ctx).Create(&alloc).Error; err != nil {
		return nil, err
	}
	return &alloc, nil
}

func (s *Store) ListAllocations(ctx context.Context) ([]models.FundAllocation, error) {
	var out []models.FundAllocation
	err := s.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}
