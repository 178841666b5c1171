package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/rafael/central-backend/internal/domain"
	"gorm.io/gorm"
)

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *customerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	var customer domain.Customer
	err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	var customer domain.Customer
	err := r.db.WithContext(ctx).First(&customer, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) GetByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	var customer domain.Customer
	err := r.db.WithContext(ctx).First(&customer, "phone = ?", phone).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) GetByDocument(ctx context.Context, document string) (*domain.Customer, error) {
	var customer domain.Customer
	err := r.db.WithContext(ctx).First(&customer, "document = ?", document).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) List(ctx context.Context) ([]*domain.Customer, error) {
	var customers []*domain.Customer
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *customerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Customer{}, "id = ?", id).Error
}

func (r *customerRepository) GetBroker(ctx context.Context, customerID uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Joins("JOIN customers ON customers.affiliate_user_id = users.id").
		Where("customers.id = ?", customerID).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
