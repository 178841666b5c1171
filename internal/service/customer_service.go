package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rafael/central-backend/internal/config"
	"github.com/rafael/central-backend/internal/domain"
	"github.com/rafael/central-backend/internal/gateway"
	"github.com/rafael/central-backend/internal/repository"
	"github.com/rafael/central-backend/internal/validation"
	"github.com/rs/zerolog"
	stripe "github.com/stripe/stripe-go/v78"
	stripeclient "github.com/stripe/stripe-go/v78/client"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CustomerService struct {
	customerRepo repository.CustomerRepository
	levelRepo    repository.CustomerLevelRepository
	gateway      *gateway.PaymentGatewayClient
	stripe       *stripeclient.API
	cfg          *config.Config
	logger       zerolog.Logger
}

func NewCustomerService(repos *repository.Repositories, gatewayClient *gateway.PaymentGatewayClient, stripeAPI *stripeclient.API, cfg *config.Config, logger zerolog.Logger) *CustomerService {
	return &CustomerService{
		customerRepo: repos.Customer,
		levelRepo:    repos.CustomerLevel,
		gateway:      gatewayClient,
		stripe:       stripeAPI,
		cfg:          cfg,
		logger:       logger.With().Str("component", "customer_service").Logger(),
	}
}

type CreateCustomerInput struct {
	Name          string
	Email         string
	Password      string
	Document      string
	Phone         string
	Birthday      string
	AffiliateLink string
}

type UpdateCustomerInput struct {
	Name     *string
	Email    *string
	Password *string
	Document *string
	Phone    *string
	Birthday *string
	Points   *int
}

// CreateCustomerResult reports the created record along with the
// outcome of the affiliate linkage, which may have degraded to a
// warning without failing the creation.
type CreateCustomerResult struct {
	Customer  *domain.Customer        `json:"customer"`
	Affiliate *gateway.RegisterResult `json:"affiliate"`
	Message   string                  `json:"message"`
}

// Create validates the payload, optionally validates the affiliate link
// against the payment gateway, creates the customer locally (plus a
// Stripe customer when configured) and finally registers the affiliate
// linkage. The gateway call is sequenced after the local write: its
// failure never rolls the customer back.
func (s *CustomerService) Create(ctx context.Context, input CreateCustomerInput) (*CreateCustomerResult, error) {
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
	} else if len(input.Password) < s.cfg.CustomerPasswordMinLength {
		msgs = append(msgs, fmt.Sprintf("password must be at least %d characters", s.cfg.CustomerPasswordMinLength))
	}
	if input.Phone == "" {
		msgs = append(msgs, "phone is required")
	} else {
		msgs = append(msgs, s.validatePhone(ctx, input.Phone, uuid.Nil)...)
	}
	if input.Document == "" || !validation.ValidCPF(input.Document) {
		msgs = append(msgs, "document (CPF) is required and must be a valid CPF")
	} else {
		msgs = append(msgs, s.validateDocumentUnique(ctx, input.Document, uuid.Nil)...)
	}
	var birthday *datatypes.Date
	if input.Birthday != "" {
		if !validation.ValidBirthday(input.Birthday, time.Now()) {
			msgs = append(msgs, "invalid birthday: must be a real date, not in the future, with age between 13 and 120")
		} else {
			parsed, _ := validation.ParseBirthday(input.Birthday)
			d := datatypes.Date(parsed)
			birthday = &d
		}
	}

	// Affiliate link validity is part of payload validation: a link
	// the gateway does not recognize rejects the whole request.
	var affiliate *gateway.AffiliateValidation
	if input.AffiliateLink != "" {
		var err error
		affiliate, err = s.gateway.ValidateAffiliateLink(ctx, input.AffiliateLink)
		if err != nil {
			return nil, err
		}
		if !affiliate.IsValid {
			msgs = append(msgs, "invalid or unknown affiliate link")
		}
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

	customer := &domain.Customer{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Document:     input.Document,
		Phone:        input.Phone,
		Birthday:     birthday,
		Points:       0,
		LevelID:      initialLevel.ID,
	}

	if s.stripe != nil {
		customer.StripeCustomerID = s.createStripeCustomer(input)
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	result := &CreateCustomerResult{Customer: customer, Message: "customer created"}
	if affiliate == nil || affiliate.UserID == nil {
		return result, nil
	}

	registration, err := s.gateway.RegisterCustomerWithAffiliate(ctx, customer, input.AffiliateLink)
	if err != nil {
		// Customer already exists locally; surface the partial success.
		s.logger.Error().Err(err).Str("customer_id", customer.ID.String()).Msg("affiliate registration failed after customer creation")
		result.Message = "customer created, affiliate registration failed"
		return result, nil
	}

	result.Affiliate = registration
	if registration.Degraded() {
		result.Message = registration.Warning
		return result, nil
	}

	customer.AffiliateUserID = affiliate.UserID
	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	result.Message = "customer created and linked to affiliate"
	return result, nil
}

// Login issues a customer token with an expiry claim. Customer tokens
// are stateless; no session ledger entry is recorded for them.
func (s *CustomerService) Login(ctx context.Context, email, password string) (string, error) {
	customer, err := s.customerRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	ttl := time.Duration(s.cfg.CustomerTokenTTLDays) * 24 * time.Hour
	return signToken(s.cfg.JWTSecret, customer.ID, customer.Email, ttl)
}

func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	return s.customerRepo.GetByID(ctx, id)
}

func (s *CustomerService) List(ctx context.Context) ([]*domain.Customer, error) {
	return s.customerRepo.List(ctx)
}

func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*domain.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var msgs []string
	if input.Document != nil && *input.Document != "" {
		if !validation.ValidCPF(*input.Document) {
			msgs = append(msgs, "document (CPF) must be a valid CPF")
		} else {
			msgs = append(msgs, s.validateDocumentUnique(ctx, *input.Document, id)...)
		}
	}
	if input.Email != nil {
		msgs = append(msgs, s.validateEmail(ctx, *input.Email, id)...)
	}
	if input.Password != nil && len(*input.Password) < s.cfg.CustomerPasswordMinLength {
		msgs = append(msgs, fmt.Sprintf("password must be at least %d characters", s.cfg.CustomerPasswordMinLength))
	}
	if input.Phone != nil {
		msgs = append(msgs, s.validatePhone(ctx, *input.Phone, id)...)
	}
	if input.Birthday != nil && *input.Birthday != "" && !validation.ValidBirthday(*input.Birthday, time.Now()) {
		msgs = append(msgs, "invalid birthday: must be a real date, not in the future, with age between 13 and 120")
	}
	if err := validationResult(msgs); err != nil {
		return nil, err
	}

	if input.Name != nil {
		customer.Name = *input.Name
	}
	if input.Email != nil {
		customer.Email = *input.Email
	}
	if input.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		customer.PasswordHash = string(hashed)
	}
	if input.Document != nil && *input.Document != "" {
		customer.Document = *input.Document
	}
	if input.Phone != nil {
		customer.Phone = *input.Phone
	}
	if input.Birthday != nil && *input.Birthday != "" {
		parsed, ok := validation.ParseBirthday(*input.Birthday)
		if ok {
			d := datatypes.Date(parsed)
			customer.Birthday = &d
		}
	}
	if input.Points != nil {
		customer.Points = *input.Points
		s.recomputeLevel(ctx, customer)
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.customerRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.customerRepo.Delete(ctx, id)
}

// Broker returns the user the customer is linked to through its
// affiliate registration.
func (s *CustomerService) Broker(ctx context.Context, customerID uuid.UUID) (*domain.User, error) {
	return s.customerRepo.GetBroker(ctx, customerID)
}

func (s *CustomerService) ValidateAffiliateLink(ctx context.Context, link string) (*gateway.AffiliateValidation, error) {
	return s.gateway.ValidateAffiliateLink(ctx, link)
}

// createStripeCustomer mirrors the local record into Stripe. Failures
// only cost the stripe_customer_id reference; the local creation
// proceeds regardless.
func (s *CustomerService) createStripeCustomer(input CreateCustomerInput) string {
	params := &stripe.CustomerParams{
		Name:  stripe.String(input.Name),
		Email: stripe.String(input.Email),
		Phone: stripe.String(input.Phone),
	}
	params.AddMetadata("cpf", input.Document)
	params.AddMetadata("birthday", input.Birthday)

	stripeCustomer, err := s.stripe.Customers.New(params)
	if err != nil {
		s.logger.Warn().Err(err).Msg("stripe customer creation failed, continuing without stripe reference")
		return ""
	}
	return stripeCustomer.ID
}

func (s *CustomerService) recomputeLevel(ctx context.Context, customer *domain.Customer) {
	levels, err := s.levelRepo.ListByRequiredPointsDesc(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", customer.ID.String()).Msg("failed to load levels for recompute")
		return
	}
	if len(levels) == 0 {
		s.logger.Warn().Str("customer_id", customer.ID.String()).Msg("no customer levels configured, skipping level recompute")
		return
	}
	if matched := MatchCustomerLevel(levels, customer.Points); matched != nil {
		customer.LevelID = matched.ID
	}
}

func (s *CustomerService) validateEmail(ctx context.Context, email string, selfID uuid.UUID) []string {
	if !validation.ValidEmail(email) {
		return []string{"invalid email format"}
	}
	existing, err := s.customerRepo.GetByEmail(ctx, email)
	if err == nil && existing.ID != selfID {
		return []string{"email already registered"}
	}
	return nil
}

func (s *CustomerService) validatePhone(ctx context.Context, phone string, selfID uuid.UUID) []string {
	existing, err := s.customerRepo.GetByPhone(ctx, phone)
	if err == nil && existing.ID != selfID {
		return []string{"phone already registered"}
	}
	return nil
}

func (s *CustomerService) validateDocumentUnique(ctx context.Context, document string, selfID uuid.UUID) []string {
	existing, err := s.customerRepo.GetByDocument(ctx, document)
	if err == nil && existing.ID != selfID {
		return []string{"document already registered"}
	}
	return nil
}
