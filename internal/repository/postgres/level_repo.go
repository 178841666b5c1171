package postgres

import (
	"context"

	"github.com/rafael/central-backend/internal/domain"
	"gorm.io/gorm"
)

type userLevelRepository struct {
	db *gorm.DB
}

func NewUserLevelRepository(db *gorm.DB) *userLevelRepository {
	return &userLevelRepository{db: db}
}

func (r *userLevelRepository) Create(ctx context.Context, level *domain.UserLevel) error {
	return r.db.WithContext(ctx).Create(level).Error
}

func (r *userLevelRepository) Lowest(ctx context.Context) (*domain.UserLevel, error) {
	var level domain.UserLevel
	err := r.db.WithContext(ctx).Order("level_number ASC").First(&level).Error
	if err != nil {
		return nil, err
	}
	return &level, nil
}

func (r *userLevelRepository) ListByRequiredPointsDesc(ctx context.Context) ([]*domain.UserLevel, error) {
	var levels []*domain.UserLevel
	err := r.db.WithContext(ctx).Order("required_points DESC").Find(&levels).Error
	if err != nil {
		return nil, err
	}
	return levels, nil
}

type customerLevelRepository struct {
	db *gorm.DB
}

func NewCustomerLevelRepository(db *gorm.DB) *customerLevelRepository {
	return &customerLevelRepository{db: db}
}

func (r *customerLevelRepository) Create(ctx context.Context, level *domain.CustomerLevel) error {
	return r.db.WithContext(ctx).Create(level).Error
}

func (r *customerLevelRepository) Lowest(ctx context.Context) (*domain.CustomerLevel, error) {
	var level domain.CustomerLevel
	err := r.db.WithContext(ctx).Order("level_number ASC").First(&level).Error
	if err != nil {
		return nil, err
	}
	return &level, nil
}

func (r *customerLevelRepository) ListByRequiredPointsDesc(ctx context.Context) ([]*domain.CustomerLevel, error) {
	var levels []*domain.CustomerLevel
	err := r.db.WithContext(ctx).Order("required_points DESC").Find(&levels).Error
	if err != nil {
		return nil, err
	}
	return levels, nil
}
