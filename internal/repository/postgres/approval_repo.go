package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rafael/central-backend/internal/domain"
	"gorm.io/gorm"
)

type approvalRepository struct {
	db *gorm.DB
}

func NewApprovalRepository(db *gorm.DB) *approvalRepository {
	return &approvalRepository{db: db}
}

func (r *approvalRepository) Create(ctx context.Context, approval *domain.UserApproval) error {
	return r.db.WithContext(ctx).Create(approval).Error
}

func (r *approvalRepository) LatestByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserApproval, error) {
	var approval domain.UserApproval
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		First(&approval, "user_id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return &approval, nil
}

func (r *approvalRepository) SetStatus(ctx context.Context, userID uuid.UUID, status string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&domain.UserApproval{}).
		Where("user_id = ? AND status <> ?", userID, status).
		Updates(map[string]interface{}{"status": status, "accepted_at": now}).Error
}

func (r *approvalRepository) PendingUsers(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User
	err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Joins("JOIN user_approvals ON user_approvals.user_id = users.id").
		Where("user_approvals.status = ?", domain.ApprovalStatusPending).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
