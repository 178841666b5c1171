package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/rafael/central-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	GetByDocument(ctx context.Context, document string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserLevelRepository interface {
	Create(ctx context.Context, level *domain.UserLevel) error
	Lowest(ctx context.Context) (*domain.UserLevel, error)
	ListByRequiredPointsDesc(ctx context.Context) ([]*domain.UserLevel, error)
}

type CustomerLevelRepository interface {
	Create(ctx context.Context, level *domain.CustomerLevel) error
	Lowest(ctx context.Context) (*domain.CustomerLevel, error)
	ListByRequiredPointsDesc(ctx context.Context) ([]*domain.CustomerLevel, error)
}

type ApprovalRepository interface {
	Create(ctx context.Context, approval *domain.UserApproval) error
	LatestByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserApproval, error)
	SetStatus(ctx context.Context, userID uuid.UUID, status string) error
	PendingUsers(ctx context.Context) ([]*domain.User, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.UserSession) error
	// GetMatch finds a session with the exact (user, token, ip, ua)
	// fingerprint regardless of its active flag.
	GetMatch(ctx context.Context, userID uuid.UUID, token, ip, userAgent string) (*domain.UserSession, error)
	GetActive(ctx context.Context, userID uuid.UUID, token string) (*domain.UserSession, error)
	Update(ctx context.Context, session *domain.UserSession) error
}

type RoleRepository interface {
	Create(ctx context.Context, role *domain.Role) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Role, error)
	GetByName(ctx context.Context, name string) (*domain.Role, error)
	ListExcluding(ctx context.Context, name string) ([]*domain.Role, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Role, error)
	AssignToUser(ctx context.Context, userID, roleID uuid.UUID) error
	HasAssignment(ctx context.Context, userID, roleID uuid.UUID) (bool, error)
}

type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error)
}

type AffiliateLinkRepository interface {
	Create(ctx context.Context, link *domain.AffiliateLink) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.AffiliateLink, error)
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*domain.Customer, error)
	GetByDocument(ctx context.Context, document string) (*domain.Customer, error)
	List(ctx context.Context) ([]*domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	// GetBroker returns the user the customer was referred by via its
	// affiliate link, when one is recorded.
	GetBroker(ctx context.Context, customerID uuid.UUID) (*domain.User, error)
}

type TeamRepository interface {
	Create(ctx context.Context, team *domain.Team) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Team, error)
	GetByOwner(ctx context.Context, ownerUserID uuid.UUID) (*domain.Team, error)
}

type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	GetByEmail(ctx context.Context, email string) (*domain.Member, error)
}

type TeamMemberRepository interface {
	Create(ctx context.Context, teamMember *domain.TeamMember) error
	Get(ctx context.Context, teamID, memberID uuid.UUID) (*domain.TeamMember, error)
	Delete(ctx context.Context, teamID, memberID uuid.UUID) error
	ListByTeam(ctx context.Context, teamID uuid.UUID) ([]*domain.TeamMemberDetail, error)
}

type InvitationRepository interface {
	Create(ctx context.Context, invitation *domain.TeamInvitation) error
	GetByToken(ctx context.Context, token string) (*domain.TeamInvitation, error)
	GetPending(ctx context.Context, teamID uuid.UUID, email string) (*domain.TeamInvitation, error)
	Update(ctx context.Context, invitation *domain.TeamInvitation) error
}

type Repositories struct {
	User          UserRepository
	UserLevel     UserLevelRepository
	CustomerLevel CustomerLevelRepository
	Approval      ApprovalRepository
	Session       SessionRepository
	Role          RoleRepository
	Wallet        WalletRepository
	AffiliateLink AffiliateLinkRepository
	Customer      CustomerRepository
	Team          TeamRepository
	Member        MemberRepository
	TeamMember    TeamMemberRepository
	Invitation    InvitationRepository
}
