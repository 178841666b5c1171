package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rafael/central-backend/internal/config"
	"github.com/rafael/central-backend/internal/domain"
	"github.com/rafael/central-backend/internal/repository"
	"github.com/rafael/central-backend/internal/validation"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrLevelsNotConfigured = errors.New("levels not configured")

type UserService struct {
	userRepo      repository.UserRepository
	levelRepo     repository.UserLevelRepository
	approvalRepo  repository.ApprovalRepository
	roleRepo      repository.RoleRepository
	walletRepo    repository.WalletRepository
	affiliateRepo repository.AffiliateLinkRepository
	cfg           *config.Config
	logger        zerolog.Logger
}

func NewUserService(repos *repository.Repositories, cfg *config.Config, logger zerolog.Logger) *UserService {
	return &UserService{
		userRepo:      repos.User,
		levelRepo:     repos.UserLevel,
		approvalRepo:  repos.Approval,
		roleRepo:      repos.Role,
		walletRepo:    repos.Wallet,
		affiliateRepo: repos.AffiliateLink,
		cfg:           cfg,
		logger:        logger.With().Str("component", "user_service").Logger(),
	}
}

type CreateUserInput struct {
	Name            string
	Email           string
	Password        string
	Document        string
	Phone           string
	Localization    string
	Enterprise      string
	CompanyPosition string
	Website         string
	Birthday        string
	Bio             string
}

type UpdateUserInput struct {
	Name            *string
	Email           *string
	Password        *string
	Document        *string
	Phone           *string
	Localization    *string
	Enterprise      *string
	CompanyPosition *string
	Website         *string
	Birthday        *string
	Bio             *string
	Points          *int
}

type UserWithRoles struct {
	*domain.User
	Roles []*domain.Role `json:"roles"`
}

// Create registers a user at the lowest configured level with a pending
// approval record. All validation problems are collected into a single
// error so the caller sees every one of them.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	var msgs []string

	if input.Name == "" {
		msgs = append(msgs, "name is required")
	}
	if input.Email == "" {
		msgs = append(msgs, "email is required")
	} else {
		msgs = append(msgs, s.validateEmail(ctx, input.Email, uuid.Nil)...)
	}
	if input.Password == "" {
		msgs = append(msgs, "password is required")
	} else if len(input.Password) < s.cfg.UserPasswordMinLength {
		msgs = append(msgs, fmt.Sprintf("password must be at least %d characters", s.cfg.UserPasswordMinLength))
	}
	if input.Phone == "" {
		msgs = append(msgs, "phone is required")
	} else {
		msgs = append(msgs, s.validatePhone(ctx, input.Phone, uuid.Nil)...)
	}
	if input.Document == "" {
		msgs = append(msgs, "document is required")
	} else {
		msgs = append(msgs, s.validateDocument(ctx, input.Document, uuid.Nil)...)
	}
	if input.Birthday != "" && !validation.ValidBirthday(input.Birthday, time.Now()) {
		msgs = append(msgs, "invalid birthday: must be a real date, not in the future, with age between 13 and 120")
	}

	if err := validationResult(msgs); err != nil {
		return nil, err
	}

	initialLevel, err := s.levelRepo.Lowest(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLevelsNotConfigured
		}
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:              uuid.New(),
		Name:            input.Name,
		Email:           input.Email,
		PasswordHash:    string(hashedPassword),
		Document:        input.Document,
		Phone:           input.Phone,
		Localization:    input.Localization,
		Enterprise:      input.Enterprise,
		CompanyPosition: input.CompanyPosition,
		Website:         input.Website,
		Birthday:        input.Birthday,
		Bio:             input.Bio,
		Points:          0,
		LevelID:         initialLevel.ID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	approval := &domain.UserApproval{
		ID:     uuid.New(),
		UserID: user.ID,
		Token:  uuid.New().String(),
		Status: domain.ApprovalStatusPending,
	}
	if err := s.approvalRepo.Create(ctx, approval); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserWithRoles, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withRoles(ctx, user)
}

func (s *UserService) List(ctx context.Context) ([]*UserWithRoles, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*UserWithRoles, 0, len(users))
	for _, user := range users {
		withRoles, err := s.withRoles(ctx, user)
		if err != nil {
			return nil, err
		}
		result = append(result, withRoles)
	}
	return result, nil
}

func (s *UserService) PendingUsers(ctx context.Context) ([]*domain.User, error) {
	return s.approvalRepo.PendingUsers(ctx)
}

// Update applies the provided fields. A changed password is re-hashed
// before persisting; a changed points balance triggers the level
// recompute.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*UserWithRoles, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var msgs []string
	if input.Email != nil {
		msgs = append(msgs, s.validateEmail(ctx, *input.Email, id)...)
	}
	if input.Password != nil && len(*input.Password) < s.cfg.UserPasswordMinLength {
		msgs = append(msgs, fmt.Sprintf("password must be at least %d characters", s.cfg.UserPasswordMinLength))
	}
	if input.Phone != nil {
		msgs = append(msgs, s.validatePhone(ctx, *input.Phone, id)...)
	}
	if input.Document != nil {
		msgs = append(msgs, s.validateDocument(ctx, *input.Document, id)...)
	}
	if input.Birthday != nil && *input.Birthday != "" && !validation.ValidBirthday(*input.Birthday, time.Now()) {
		msgs = append(msgs, "invalid birthday: must be a real date, not in the future, with age between 13 and 120")
	}
	if err := validationResult(msgs); err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hashed)
	}
	if input.Document != nil {
		user.Document = *input.Document
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Localization != nil {
		user.Localization = *input.Localization
	}
	if input.Enterprise != nil {
		user.Enterprise = *input.Enterprise
	}
	if input.CompanyPosition != nil {
		user.CompanyPosition = *input.CompanyPosition
	}
	if input.Website != nil {
		user.Website = *input.Website
	}
	if input.Birthday != nil {
		user.Birthday = *input.Birthday
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Points != nil {
		user.Points = *input.Points
		s.recomputeLevel(ctx, user)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.withRoles(ctx, user)
}

func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, id)
}

// Approve settles the pending approval. Approval also grants the Broker
// role, opens a zero-balance wallet and registers an affiliate link,
// each only if missing.
func (s *UserService) Approve(ctx context.Context, id uuid.UUID, approve bool) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	status := domain.ApprovalStatusRejected
	if approve {
		status = domain.ApprovalStatusApproved
	}
	if err := s.approvalRepo.SetStatus(ctx, user.ID, status); err != nil {
		return err
	}
	if !approve {
		return nil
	}

	brokerRole, err := s.roleRepo.GetByName(ctx, domain.RoleBroker)
	if err == nil {
		has, err := s.roleRepo.HasAssignment(ctx, user.ID, brokerRole.ID)
		if err != nil {
			return err
		}
		if !has {
			if err := s.roleRepo.AssignToUser(ctx, user.ID, brokerRole.ID); err != nil {
				return err
			}
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if _, err := s.walletRepo.GetByUserID(ctx, user.ID); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		wallet := &domain.Wallet{ID: uuid.New(), UserID: user.ID, Balance: 0}
		if err := s.walletRepo.Create(ctx, wallet); err != nil {
			return err
		}
	}

	if _, err := s.affiliateRepo.GetByUserID(ctx, user.ID); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		link := &domain.AffiliateLink{
			ID:            uuid.New(),
			UserID:        user.ID,
			GeneratedLink: fmt.Sprintf("aff-%s-%d", user.ID, time.Now().UnixMilli()),
		}
		if err := s.affiliateRepo.Create(ctx, link); err != nil {
			return err
		}
	}

	return nil
}

func (s *UserService) withRoles(ctx context.Context, user *domain.User) (*UserWithRoles, error) {
	roles, err := s.roleRepo.ListForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &UserWithRoles{User: user, Roles: roles}, nil
}

// recomputeLevel keeps the level in step with the points balance. A
// platform without configured levels keeps the user's current level.
func (s *UserService) recomputeLevel(ctx context.Context, user *domain.User) {
	levels, err := s.levelRepo.ListByRequiredPointsDesc(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to load levels for recompute")
		return
	}
	if len(levels) == 0 {
		s.logger.Warn().Str("user_id", user.ID.String()).Msg("no user levels configured, skipping level recompute")
		return
	}
	if matched := MatchUserLevel(levels, user.Points); matched != nil {
		user.LevelID = matched.ID
	}
}

func (s *UserService) validateEmail(ctx context.Context, email string, selfID uuid.UUID) []string {
	if !validation.ValidEmail(email) {
		return []string{"invalid email format"}
	}
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil && existing.ID != selfID {
		return []string{"email already registered"}
	}
	return nil
}

func (s *UserService) validatePhone(ctx context.Context, phone string, selfID uuid.UUID) []string {
	existing, err := s.userRepo.GetByPhone(ctx, phone)
	if err == nil && existing.ID != selfID {
		return []string{"phone already registered"}
	}
	return nil
}

func (s *UserService) validateDocument(ctx context.Context, document string, selfID uuid.UUID) []string {
	if !validation.ValidDocument(document) {
		return []string{"invalid document (CPF or CNPJ)"}
	}
	existing, err := s.userRepo.GetByDocument(ctx, document)
	if err == nil && existing.ID != selfID {
		return []string{"document already registered"}
	}
	return nil
}
