package repository

import (
	"context"
	"errors"
	"strings"

	"coursecatalog/internal/domain"

	"gorm.io/gorm"
)

type EmailRepository struct {
	db *gorm.DB
}

func NewEmailRepository(db *gorm.DB) *EmailRepository {
	return &EmailRepository{db: db}
}

// GetOrCreate returns the record for an address, creating it unverified
// on first sight. Addresses are stored lowercased.
func (r *EmailRepository) GetOrCreate(ctx context.Context, address string) (*domain.Email, error) {
	address = strings.ToLower(strings.TrimSpace(address))

	var email domain.Email
	err := r.db.WithContext(ctx).First(&email, "address = ?", address).Error
	if err == nil {
		return &email, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	email = domain.Email{Address: address}
	if err := r.db.WithContext(ctx).Create(&email).Error; err != nil {
		return nil, err
	}
	return &email, nil
}

func (r *EmailRepository) GetByAddress(ctx context.Context, address string) (*domain.Email, error) {
	address = strings.ToLower(strings.TrimSpace(address))

	var email domain.Email
	err := r.db.WithContext(ctx).First(&email, "address = ?", address).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEmailNotFound
		}
		return nil, err
	}
	return &email, nil
}

func (r *EmailRepository) MarkVerified(ctx context.Context, address string) error {
	address = strings.ToLower(strings.TrimSpace(address))

	res := r.db.WithContext(ctx).Model(&domain.Email{}).
		Where("address = ?", address).
		Update("verified", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrEmailNotFound
	}
	return nil
}
