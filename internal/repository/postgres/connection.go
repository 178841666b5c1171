package postgres

import (
	"github.com/rafael/central-backend/internal/domain"
	"github.com/rafael/central-backend/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, err
	}

	// Auto-migrate tables
	err = db.AutoMigrate(
		&domain.UserLevel{},
		&domain.User{},
		&domain.UserApproval{},
		&domain.UserSession{},
		&domain.Role{},
		&domain.UserRole{},
		&domain.Wallet{},
		&domain.AffiliateLink{},
		&domain.CustomerLevel{},
		&domain.Customer{},
		&domain.Team{},
		&domain.Member{},
		&domain.TeamMember{},
		&domain.TeamInvitation{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:          NewUserRepository(db),
		UserLevel:     NewUserLevelRepository(db),
		CustomerLevel: NewCustomerLevelRepository(db),
		Approval:      NewApprovalRepository(db),
		Session:       NewSessionRepository(db),
		Role:          NewRoleRepository(db),
		Wallet:        NewWalletRepository(db),
		AffiliateLink: NewAffiliateLinkRepository(db),
		Customer:      NewCustomerRepository(db),
		Team:          NewTeamRepository(db),
		Member:        NewMemberRepository(db),
		TeamMember:    NewTeamMemberRepository(db),
		Invitation:    NewInvitationRepository(db),
	}
}
