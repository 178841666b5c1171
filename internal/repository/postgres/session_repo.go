package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/rafael/central-backend/internal/domain"
	"gorm.io/gorm"
)

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *sessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.UserSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) GetMatch(ctx context.Context, userID uuid.UUID, token, ip, userAgent string) (*domain.UserSession, error) {
	var session domain.UserSession
	err := r.db.WithContext(ctx).
		First(&session, "user_id = ? AND token = ? AND ip_address = ? AND user_agent = ?", userID, token, ip, userAgent).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) GetActive(ctx context.Context, userID uuid.UUID, token string) (*domain.UserSession, error) {
	var session domain.UserSession
	err := r.db.WithContext(ctx).
		First(&session, "user_id = ? AND token = ? AND is_active = ?", userID, token, true).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Update(ctx context.Context, session *domain.UserSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}
