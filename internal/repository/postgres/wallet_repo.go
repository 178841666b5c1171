package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/rafael/central-backend/internal/domain"
	"gorm.io/gorm"
)

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *walletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	return r.db.WithContext(ctx).Create(wallet).Error
}

func (r *walletRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	var wallet domain.Wallet
	err := r.db.WithContext(ctx).First(&wallet, "user_id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

type affiliateLinkRepository struct {
	db *gorm.DB
}

func NewAffiliateLinkRepository(db *gorm.DB) *affiliateLinkRepository {
	return &affiliateLinkRepository{db: db}
}

func (r *affiliateLinkRepository) Create(ctx context.Context, link *domain.AffiliateLink) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *affiliateLinkRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.AffiliateLink, error) {
	var link domain.AffiliateLink
	err := r.db.WithContext(ctx).First(&link, "user_id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}
