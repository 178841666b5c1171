package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/rafael/central-backend/internal/domain"
	"gorm.io/gorm"
)

type teamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) *teamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) Create(ctx context.Context, team *domain.Team) error {
	return r.db.WithContext(ctx).Create(team).Error
}

func (r *teamRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Team, error) {
	var team domain.Team
	err := r.db.WithContext(ctx).First(&team, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) GetByOwner(ctx context.Context, ownerUserID uuid.UUID) (*domain.Team, error) {
	var team domain.Team
	err := r.db.WithContext(ctx).First(&team, "owner_user_id = ?", ownerUserID).Error
	if err != nil {
		return nil, err
	}
	return &team, nil
}

type memberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *memberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(ctx context.Context, member *domain.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *memberRepository) GetByEmail(ctx context.Context, email string) (*domain.Member, error) {
	var member domain.Member
	err := r.db.WithContext(ctx).First(&member, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

type teamMemberRepository struct {
	db *gorm.DB
}

func NewTeamMemberRepository(db *gorm.DB) *teamMemberRepository {
	return &teamMemberRepository{db: db}
}

func (r *teamMemberRepository) Create(ctx context.Context, teamMember *domain.TeamMember) error {
	return r.db.WithContext(ctx).Create(teamMember).Error
}

func (r *teamMemberRepository) Get(ctx context.Context, teamID, memberID uuid.UUID) (*domain.TeamMember, error) {
	var teamMember domain.TeamMember
	err := r.db.WithContext(ctx).
		First(&teamMember, "team_id = ? AND member_id = ?", teamID, memberID).Error
	if err != nil {
		return nil, err
	}
	return &teamMember, nil
}

func (r *teamMemberRepository) Delete(ctx context.Context, teamID, memberID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&domain.TeamMember{}, "team_id = ? AND member_id = ?", teamID, memberID).Error
}

func (r *teamMemberRepository) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]*domain.TeamMemberDetail, error) {
	var memberships []*domain.TeamMember
	err := r.db.WithContext(ctx).Find(&memberships, "team_id = ?", teamID).Error
	if err != nil {
		return nil, err
	}

	details := make([]*domain.TeamMemberDetail, 0, len(memberships))
	for _, tm := range memberships {
		var member domain.Member
		if err := r.db.WithContext(ctx).First(&member, "id = ?", tm.MemberID).Error; err != nil {
			return nil, err
		}
		var role domain.Role
		if err := r.db.WithContext(ctx).First(&role, "id = ?", tm.RoleID).Error; err != nil {
			return nil, err
		}
		details = append(details, &domain.TeamMemberDetail{
			TeamMember: *tm,
			Member:     member,
			Role:       role,
		})
	}
	return details, nil
}

type invitationRepository struct {
	db *gorm.DB
}

func NewInvitationRepository(db *gorm.DB) *invitationRepository {
	return &invitationRepository{db: db}
}

func (r *invitationRepository) Create(ctx context.Context, invitation *domain.TeamInvitation) error {
	return r.db.WithContext(ctx).Create(invitation).Error
}

func (r *invitationRepository) GetByToken(ctx context.Context, token string) (*domain.TeamInvitation, error) {
	var invitation domain.TeamInvitation
	err := r.db.WithContext(ctx).First(&invitation, "token = ?", token).Error
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

func (r *invitationRepository) GetPending(ctx context.Context, teamID uuid.UUID, email string) (*domain.TeamInvitation, error) {
	var invitation domain.TeamInvitation
	err := r.db.WithContext(ctx).
		First(&invitation, "team_id = ? AND email = ? AND status = ?", teamID, email, domain.InvitationStatusPending).Error
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

func (r *invitationRepository) Update(ctx context.Context, invitation *domain.TeamInvitation) error {
	return r.db.WithContext(ctx).Save(invitation).Error
}
