package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rafael/central-backend/internal/domain"
	"github.com/rafael/central-backend/internal/repository"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrNotAdmin = errors.New("admin access required")

type TeamService struct {
	teamRepo       repository.TeamRepository
	memberRepo     repository.MemberRepository
	teamMemberRepo repository.TeamMemberRepository
	invitationRepo repository.InvitationRepository
	roleRepo       repository.RoleRepository
	userRepo       repository.UserRepository
	logger         zerolog.Logger
}

func NewTeamService(repos *repository.Repositories, logger zerolog.Logger) *TeamService {
	return &TeamService{
		teamRepo:       repos.Team,
		memberRepo:     repos.Member,
		teamMemberRepo: repos.TeamMember,
		invitationRepo: repos.Invitation,
		roleRepo:       repos.Role,
		userRepo:       repos.User,
		logger:         logger.With().Str("component", "team_service").Logger(),
	}
}

type CreateTeamInput struct {
	Name        string
	Description string
}

type InviteInput struct {
	TeamID uuid.UUID
	Email  string
	RoleID uuid.UUID
}

// Create opens a team for a platform admin. Each user owns at most one
// team; the owner is enrolled as its first member with the Admin role.
func (s *TeamService) Create(ctx context.Context, ownerID uuid.UUID, input CreateTeamInput) (*domain.Team, error) {
	adminRole, err := s.requirePlatformAdmin(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if _, err := s.teamRepo.GetByOwner(ctx, ownerID); err == nil {
		return nil, domain.ErrTeamExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	team := &domain.Team{
		ID:          uuid.New(),
		OwnerUserID: ownerID,
		Name:        input.Name,
		Description: input.Description,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, err
	}

	member, err := s.ensureMemberForUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	teamMember := &domain.TeamMember{
		TeamID:   team.ID,
		MemberID: member.ID,
		RoleID:   adminRole.ID,
		JoinedAt: time.Now(),
	}
	if err := s.teamMemberRepo.Create(ctx, teamMember); err != nil {
		return nil, err
	}

	return team, nil
}

// AllowedRoles lists the roles an invitation may carry; Admin is
// reserved for team owners.
func (s *TeamService) AllowedRoles(ctx context.Context) ([]*domain.Role, error) {
	return s.roleRepo.ListExcluding(ctx, domain.RoleAdmin)
}

// Invite creates a pending, token-addressed invitation. Only a team
// member holding the Admin role may invite, and an email can hold at
// most one pending invitation per team.
func (s *TeamService) Invite(ctx context.Context, inviterID uuid.UUID, inviterEmail string, input InviteInput) (*domain.TeamInvitation, error) {
	if _, err := s.teamRepo.GetByID(ctx, input.TeamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTeamNotFound
		}
		return nil, err
	}

	inviterMember, err := s.memberRepo.GetByEmail(ctx, inviterEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotTeamMember
		}
		return nil, err
	}
	teamMember, err := s.teamMemberRepo.Get(ctx, input.TeamID, inviterMember.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotTeamMember
		}
		return nil, err
	}
	role, err := s.roleRepo.GetByID(ctx, teamMember.RoleID)
	if err != nil || role.Name != domain.RoleAdmin {
		return nil, domain.ErrNotTeamAdmin
	}

	if _, err := s.invitationRepo.GetPending(ctx, input.TeamID, input.Email); err == nil {
		return nil, domain.ErrInvitePending
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if existing, err := s.memberRepo.GetByEmail(ctx, input.Email); err == nil {
		if _, err := s.teamMemberRepo.Get(ctx, input.TeamID, existing.ID); err == nil {
			return nil, domain.ErrAlreadyMember
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	token, err := inviteToken()
	if err != nil {
		return nil, err
	}
	invitation := &domain.TeamInvitation{
		ID:              uuid.New(),
		TeamID:          input.TeamID,
		Email:           input.Email,
		RoleID:          input.RoleID,
		InvitedByUserID: inviterID,
		Token:           token,
		Status:          domain.InvitationStatusPending,
	}
	if err := s.invitationRepo.Create(ctx, invitation); err != nil {
		return nil, err
	}
	return invitation, nil
}

// AcceptInvitation redeems a pending invitation within its 24-hour
// window, creating the member account and its team membership. An
// overdue invitation transitions to expired.
func (s *TeamService) AcceptInvitation(ctx context.Context, token, name, password string) (*domain.Member, error) {
	invitation, err := s.invitationRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvitationNotFound
		}
		return nil, err
	}
	if invitation.Status != domain.InvitationStatusPending {
		return nil, domain.ErrInvitationInvalid
	}
	if time.Since(invitation.CreatedAt) > domain.InvitationTTL {
		invitation.Status = domain.InvitationStatusExpired
		if err := s.invitationRepo.Update(ctx, invitation); err != nil {
			return nil, err
		}
		return nil, domain.ErrInvitationExpired
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	member := &domain.Member{
		ID:           uuid.New(),
		Email:        invitation.Email,
		PasswordHash: string(hashed),
		Name:         name,
		Active:       true,
	}
	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, err
	}

	teamMember := &domain.TeamMember{
		TeamID:   invitation.TeamID,
		MemberID: member.ID,
		RoleID:   invitation.RoleID,
		JoinedAt: time.Now(),
	}
	if err := s.teamMemberRepo.Create(ctx, teamMember); err != nil {
		return nil, err
	}

	now := time.Now()
	invitation.Status = domain.InvitationStatusAccepted
	invitation.AcceptedAt = &now
	if err := s.invitationRepo.Update(ctx, invitation); err != nil {
		return nil, err
	}

	return member, nil
}

// RemoveMember drops a membership; the caller must hold the team Admin
// role.
func (s *TeamService) RemoveMember(ctx context.Context, callerEmail string, teamID, memberID uuid.UUID) error {
	callerMember, err := s.memberRepo.GetByEmail(ctx, callerEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotTeamAdmin
		}
		return err
	}
	teamMember, err := s.teamMemberRepo.Get(ctx, teamID, callerMember.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotTeamAdmin
		}
		return err
	}
	role, err := s.roleRepo.GetByID(ctx, teamMember.RoleID)
	if err != nil || role.Name != domain.RoleAdmin {
		return domain.ErrNotTeamAdmin
	}

	return s.teamMemberRepo.Delete(ctx, teamID, memberID)
}

func (s *TeamService) ListMembers(ctx context.Context, teamID uuid.UUID) ([]*domain.TeamMemberDetail, error) {
	return s.teamMemberRepo.ListByTeam(ctx, teamID)
}

func (s *TeamService) requirePlatformAdmin(ctx context.Context, userID uuid.UUID) (*domain.Role, error) {
	roles, err := s.roleRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, role := range roles {
		if role.Name == domain.RoleAdmin {
			return role, nil
		}
	}
	return nil, ErrNotAdmin
}

// ensureMemberForUser backfills a Member row for a platform user so
// team membership can reference it. The user's existing password hash
// is carried over; both verify through the same bcrypt path.
func (s *TeamService) ensureMemberForUser(ctx context.Context, userID uuid.UUID) (*domain.Member, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	member, err := s.memberRepo.GetByEmail(ctx, user.Email)
	if err == nil {
		return member, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	member = &domain.Member{
		ID:           uuid.New(),
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Name:         user.Name,
		Active:       true,
	}
	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

func inviteToken() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
