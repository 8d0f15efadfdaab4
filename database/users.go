package database

import (
	"context"
	"errors"
	"fmt"

	"fund-tracker/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CreateUser stores a new principal with a bcrypt-hashed password.
func (s *Store) CreateUser(ctx context.Context, username, password string, role models.Role) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username: username,
		Password: string(hashed),
		Role:     role,
	}

	err = s.withTx(ctx, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%q: %w", username, ErrDuplicateUsername)
		}
		return tx.Create(&user).Error
	})
	// The count can lose a race with a concurrent insert; the unique index
	// still holds. Requires gorm.Config.TranslateError.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, fmt.Errorf("%q: %w", username, ErrDuplicateUsername)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) CreateInvestor(ctx context.Context, username, password string) (*models.User, error) {
	return s.CreateUser(ctx, username, password, models.RoleInvestor)
}

// EnsureAdmin creates the admin account unless the username is already taken.
// It reports whether a user was created.
func (s *Store) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	_, err := s.CreateUser(ctx, username, password, models.RoleAdmin)
	if errors.Is(err, ErrDuplicateUsername) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Authenticate returns the user whose password matches.
func (s *Store) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err, "user", id)
	}
	return &user, nil
}

// ListInvestors returns every investor with only their approved investments
// loaded, so TotalApproved reflects approved capital.
func (s *Store) ListInvestors(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Preload("Investments", "status = ?", models.StatusApproved).
		Where("role = ?", models.RoleInvestor).
		Order("id").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// DeleteInvestor removes an investor and every investment it owns in one
// transaction. Admin accounts are refused with ErrAdminProtected.
func (s *Store) DeleteInvestor(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.withTx(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return notFound(err, "user", id)
		}

		switch user.Role {
		case models.RoleAdmin:
			return fmt.Errorf("%q: %w", user.Username, ErrAdminProtected)
		case models.RoleInvestor:
		default:
			return fmt.Errorf("user %d has invalid role %v", id, user.Role)
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&models.InvestmentInput{}).Error; err != nil {
			return fmt.Errorf("delete investments: %w", err)
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
