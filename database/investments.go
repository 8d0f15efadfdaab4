package database

import (
	"context"
	"fmt"
	"time"

	"fund-tracker/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SubmitInvestment records a Pending investment for userID. A zero
// submittedAt means now.
func (s *Store) SubmitInvestment(ctx context.Context, userID uint, amount decimal.Decimal, comment string, submittedAt time.Time) (*models.InvestmentInput, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%s is not positive: %w", amount, ErrInvalidAmount)
	}
	if err := checkScale(amount); err != nil {
		return nil, err
	}
	if submittedAt.IsZero() {
		submittedAt = s.now()
	}

	inv := models.InvestmentInput{
		Amount:        amount,
		DateSubmitted: submittedAt,
		Status:        models.StatusPending,
		Comment:       comment,
		UserID:        userID,
	}
	if err := s.db.WithContext(ctx).Create(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *Store) GetInvestment(ctx context.Context, id uint) (*models.InvestmentInput, error) {
	var inv models.InvestmentInput
	if err := s.db.WithContext(ctx).First(&inv, id).Error; err != nil {
		return nil, notFound(err, "investment", id)
	}
	return &inv, nil
}

// ApproveInvestment marks the investment Approved and stamps the approval
// time. Approving twice re-stamps it.
func (s *Store) ApproveInvestment(ctx context.Context, id uint) (*models.InvestmentInput, error) {
	return s.setStatus(ctx, id, models.StatusApproved)
}

// RejectInvestment marks the investment Rejected and clears any approval time.
func (s *Store) RejectInvestment(ctx context.Context, id uint) (*models.InvestmentInput, error) {
	return s.setStatus(ctx, id, models.StatusRejected)
}

func (s *Store) setStatus(ctx context.Context, id uint, status models.Status) (*models.InvestmentInput, error) {
	var inv models.InvestmentInput
	err := s.withTx(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&inv, id).Error; err != nil {
			return notFound(err, "investment", id)
		}

		inv.Status = status
		switch status {
		case models.StatusApproved:
			now := s.now()
			inv.DateApproved = &now
		case models.StatusRejected, models.StatusPending:
			inv.DateApproved = nil
		}

		return tx.Model(&inv).Updates(map[string]interface{}{
			"status":        inv.Status,
			"date_approved": inv.DateApproved,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListInvestmentsByStatus returns investments in one state with their owner
// loaded, oldest first.
func (s *Store) ListInvestmentsByStatus(ctx context.Context, status models.Status) ([]models.InvestmentInput, error) {
	var out []models.InvestmentInput
	err := s.db.WithContext(ctx).
		Preload("Investor").
		Where("status = ?", status).
		Order("id").
		Find(&out).Error
	return out, err
}

// ApprovedInvestments returns one user's approved investments.
func (s *Store) ApprovedInvestments(ctx context.Context, userID uint) ([]models.InvestmentInput, error) {
	var out []models.InvestmentInput
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.StatusApproved).
		Order("id").
		Find(&out).Error
	return out, err
}

// HistoryFilter narrows the approved-investment report. Nil fields do not
// filter. Start and End bound the approval time inclusively.
type HistoryFilter struct {
	UserID *uint
	Start  *time.Time
	End    *time.Time
}

// History returns approved investments matching f, most recently approved
// first.
func (s *Store) History(ctx context.Context, f HistoryFilter) ([]models.InvestmentInput, error) {
	query := s.db.WithContext(ctx).
		Preload("Investor").
		Where("status = ?", models.StatusApproved)

	if f.UserID != nil {
		query = query.Where("user_id = ?", *f.UserID)
	}
	if f.Start != nil {
		query = query.Where("date_approved >= ?", *f.Start)
	}
	if f.End != nil {
		query = query.Where("date_approved <= ?", *f.End)
	}

	var out []models.InvestmentInput
	err := query.Order("date_approved DESC").Order("id DESC").Find(&out).Error
	return out, err
}
