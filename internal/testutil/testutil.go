package testutil

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rafael/central-backend/internal/api"
	"github.com/rafael/central-backend/internal/config"
	"github.com/rafael/central-backend/internal/domain"
	"github.com/rafael/central-backend/internal/gateway"
	"github.com/rafael/central-backend/internal/repository"
	repoPostgres "github.com/rafael/central-backend/internal/repository/postgres"
	"github.com/rafael/central-backend/internal/service"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB manages a testcontainers PostgreSQL instance
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	DSN       string
}

// NewTestDB creates a new PostgreSQL testcontainer and returns a connection
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_central_backend"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := gorm.Open(gormPostgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	// Run migrations
	err = db.AutoMigrate(
		&domain.UserLevel{},
		&domain.CustomerLevel{},
		&domain.User{},
		&domain.UserApproval{},
		&domain.UserSession{},
		&domain.Role{},
		&domain.UserRole{},
		&domain.Wallet{},
		&domain.AffiliateLink{},
		&domain.Customer{},
		&domain.Team{},
		&domain.Member{},
		&domain.TeamMember{},
		&domain.TeamInvitation{},
	)
	if err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	testDB := &TestDB{
		Container: container,
		DB:        db,
		DSN:       dsn,
	}

	t.Cleanup(func() {
		testDB.Cleanup()
	})

	return testDB
}

// Cleanup terminates the container
func (tdb *TestDB) Cleanup() {
	if tdb.Container != nil {
		ctx := context.Background()
		tdb.Container.Terminate(ctx)
	}
}

// Truncate clears all tables for test isolation
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	tables := []string{
		"team_invitations",
		"team_members",
		"members",
		"teams",
		"affiliate_links",
		"wallets",
		"user_roles",
		"roles",
		"customers",
		"user_sessions",
		"user_approvals",
		"users",
		"customer_levels",
		"user_levels",
	}

	for _, table := range tables {
		if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			t.Logf("warning: failed to truncate %s: %v", table, err)
		}
	}
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		Port:                          "0", // Random port
		Environment:                   "test",
		JWTSecret:                     "test-jwt-secret-key-for-testing-only",
		JWTExpirationHours:            1,
		CustomerTokenTTLDays:          1,
		UserPasswordMinLength:         3,
		CustomerPasswordMinLength:     6,
		PaymentGatewayURL:             "http://localhost:0",
		PaymentGatewayInternalSecret:  "test-internal-secret",
		PaymentGatewayValidateTimeout: 500 * time.Millisecond,
		PaymentGatewayRegisterTimeout: 500 * time.Millisecond,
	}
}

// TestServer holds all components for integration testing
type TestServer struct {
	Server   *httptest.Server
	DB       *TestDB
	Repos    *repository.Repositories
	Services *service.Services
	Config   *config.Config
}

// NewTestServer creates a complete test server with all dependencies.
// The payment gateway URL defaults to an unreachable address; tests
// exercising affiliate flows point it at their own httptest server.
func NewTestServer(t *testing.T, opts ...func(*config.Config)) *TestServer {
	t.Helper()

	testDB := NewTestDB(t)
	cfg := TestConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	repos := repoPostgres.NewRepositories(testDB.DB)
	gatewayClient := gateway.NewPaymentGatewayClient(
		cfg.PaymentGatewayURL,
		cfg.PaymentGatewayInternalSecret,
		cfg.PaymentGatewayValidateTimeout,
		cfg.PaymentGatewayRegisterTimeout,
		zerolog.Nop(),
	)

	services := service.NewServices(repos, gatewayClient, cfg, zerolog.Nop())
	router := api.NewRouter(services)

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:   server,
		DB:       testDB,
		Repos:    repos,
		Services: services,
		Config:   cfg,
	}

	t.Cleanup(func() {
		server.Close()
	})

	return ts
}

// WithGatewayURL points the payment gateway client at the given base URL
func WithGatewayURL(url string) func(*config.Config) {
	return func(cfg *config.Config) {
		cfg.PaymentGatewayURL = url
	}
}

// BaseURL returns the test server's base URL
func (ts *TestServer) BaseURL() string {
	return ts.Server.URL
}

// APIURL returns the full API URL for a given path
func (ts *TestServer) APIURL(path string) string {
	return fmt.Sprintf("%s/api/v1%s", ts.Server.URL, path)
}
