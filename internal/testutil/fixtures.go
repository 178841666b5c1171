package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rafael/central-backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedUserLevels creates a default ladder of user levels and returns
// them ordered from lowest to highest
func SeedUserLevels(t *testing.T, db *gorm.DB) []*domain.UserLevel {
	t.Helper()

	specs := []struct {
		name   string
		number int
		points int
	}{
		{"Bronze", 1, 0},
		{"Silver", 2, 100},
		{"Gold", 3, 500},
	}

	levels := make([]*domain.UserLevel, len(specs))
	for i, spec := range specs {
		level := &domain.UserLevel{
			ID:             uuid.New(),
			Name:           spec.name,
			LevelNumber:    spec.number,
			RequiredPoints: spec.points,
		}
		if err := db.Create(level).Error; err != nil {
			t.Fatalf("failed to create user level: %v", err)
		}
		levels[i] = level
	}
	return levels
}

// SeedCustomerLevels creates a default ladder of customer levels
func SeedCustomerLevels(t *testing.T, db *gorm.DB) []*domain.CustomerLevel {
	t.Helper()

	points := []int{0, 50, 200}
	levels := make([]*domain.CustomerLevel, len(points))
	for i, p := range points {
		level := &domain.CustomerLevel{
			ID:             uuid.New(),
			LevelNumber:    i + 1,
			RequiredPoints: p,
		}
		if err := db.Create(level).Error; err != nil {
			t.Fatalf("failed to create customer level: %v", err)
		}
		levels[i] = level
	}
	return levels
}

// SeedRoles creates the platform roles plus team-assignable extras
func SeedRoles(t *testing.T, db *gorm.DB) map[string]*domain.Role {
	t.Helper()

	names := []string{domain.RoleAdmin, domain.RoleBroker, "Analyst", "Viewer"}
	roles := make(map[string]*domain.Role, len(names))
	for _, name := range names {
		role := &domain.Role{ID: uuid.New(), Name: name}
		if err := db.Create(role).Error; err != nil {
			t.Fatalf("failed to create role %s: %v", name, err)
		}
		roles[name] = role
	}
	return roles
}

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	name     string
	email    string
	password string
	document string
	phone    string
	points   int
	approved bool
	roles    []*domain.Role
}

// NewUserBuilder creates a new UserBuilder with default values. The
// document is a checksum-valid CPF; unique email and phone are derived
// from a fresh UUID.
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		name:     fmt.Sprintf("Test User %s", suffix),
		email:    fmt.Sprintf("user_%s@example.com", suffix),
		password: "testpassword123",
		document: "52998224725",
		phone:    fmt.Sprintf("+55119%s", suffix),
		approved: true,
	}
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// WithDocument sets the document
func (b *UserBuilder) WithDocument(document string) *UserBuilder {
	b.document = document
	return b
}

// WithPhone sets the phone
func (b *UserBuilder) WithPhone(phone string) *UserBuilder {
	b.phone = phone
	return b
}

// WithPoints sets the points balance
func (b *UserBuilder) WithPoints(points int) *UserBuilder {
	b.points = points
	return b
}

// Pending leaves the user's approval in the pending state
func (b *UserBuilder) Pending() *UserBuilder {
	b.approved = false
	return b
}

// WithRoles assigns the given roles after creation
func (b *UserBuilder) WithRoles(roles ...*domain.Role) *UserBuilder {
	b.roles = append(b.roles, roles...)
	return b
}

// Build creates the user in the database, with its approval row and
// role assignments, and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	var level domain.UserLevel
	if err := db.Order("required_points asc").First(&level).Error; err != nil {
		t.Fatalf("no user levels seeded: %v", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         b.name,
		Email:        b.email,
		PasswordHash: string(hashedPassword),
		Document:     b.document,
		Phone:        b.phone,
		Points:       b.points,
		LevelID:      level.ID,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	status := domain.ApprovalStatusPending
	if b.approved {
		status = domain.ApprovalStatusApproved
	}
	approval := &domain.UserApproval{
		ID:     uuid.New(),
		UserID: user.ID,
		Token:  uuid.New().String(),
		Status: status,
	}
	if err := db.Create(approval).Error; err != nil {
		t.Fatalf("failed to create approval: %v", err)
	}

	for _, role := range b.roles {
		if err := db.Create(&domain.UserRole{UserID: user.ID, RoleID: role.ID}).Error; err != nil {
			t.Fatalf("failed to assign role: %v", err)
		}
	}

	return user, b.password
}

// BuildAndLogin creates the user and logs in via the API, returning the
// user and its session token
func (b *UserBuilder) BuildAndLogin(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	user, password := b.Build(t, ts.DB.DB)

	reqBody := map[string]string{"email": user.Email, "password": password}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.APIURL("/users/login"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to log in: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected login status code: %d", resp.StatusCode)
	}

	var loginResp struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}

	return user, loginResp.Token
}

// CustomerBuilder creates test customers with a builder pattern
type CustomerBuilder struct {
	name     string
	email    string
	password string
	document string
	phone    string
	points   int
}

// NewCustomerBuilder creates a new CustomerBuilder with default values
func NewCustomerBuilder() *CustomerBuilder {
	suffix := uuid.New().String()[:8]
	return &CustomerBuilder{
		name:     fmt.Sprintf("Test Customer %s", suffix),
		email:    fmt.Sprintf("customer_%s@example.com", suffix),
		password: "customerpass",
		document: "11144477735",
		phone:    fmt.Sprintf("+55118%s", suffix),
	}
}

// WithEmail sets the email
func (b *CustomerBuilder) WithEmail(email string) *CustomerBuilder {
	b.email = email
	return b
}

// WithDocument sets the document
func (b *CustomerBuilder) WithDocument(document string) *CustomerBuilder {
	b.document = document
	return b
}

// WithPoints sets the points balance
func (b *CustomerBuilder) WithPoints(points int) *CustomerBuilder {
	b.points = points
	return b
}

// Build creates the customer in the database and returns it with the
// raw password
func (b *CustomerBuilder) Build(t *testing.T, db *gorm.DB) (*domain.Customer, string) {
	t.Helper()

	var level domain.CustomerLevel
	if err := db.Order("required_points asc").First(&level).Error; err != nil {
		t.Fatalf("no customer levels seeded: %v", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	customer := &domain.Customer{
		ID:           uuid.New(),
		Name:         b.name,
		Email:        b.email,
		PasswordHash: string(hashedPassword),
		Document:     b.document,
		Phone:        b.phone,
		Points:       b.points,
		LevelID:      level.ID,
	}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("failed to create customer: %v", err)
	}

	return customer, b.password
}

// SeedAffiliate approves a user end to end: Broker role, wallet and
// affiliate link, the way the approval flow leaves an account
func SeedAffiliate(t *testing.T, db *gorm.DB, user *domain.User, brokerRole *domain.Role) *domain.AffiliateLink {
	t.Helper()

	if err := db.Create(&domain.UserRole{UserID: user.ID, RoleID: brokerRole.ID}).Error; err != nil {
		t.Fatalf("failed to assign broker role: %v", err)
	}
	if err := db.Create(&domain.Wallet{ID: uuid.New(), UserID: user.ID}).Error; err != nil {
		t.Fatalf("failed to create wallet: %v", err)
	}

	link := &domain.AffiliateLink{
		ID:            uuid.New(),
		UserID:        user.ID,
		GeneratedLink: fmt.Sprintf("aff-%s-%d", user.ID, time.Now().UnixMilli()),
	}
	if err := db.Create(link).Error; err != nil {
		t.Fatalf("failed to create affiliate link: %v", err)
	}
	return link
}

// CreateAuthenticatedRequest creates an HTTP request with auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}
