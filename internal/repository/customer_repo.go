package repository

import (
	"errors"

	"meter-reading-backend/internal/models"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate record")

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// GetByID fetches a single customer by its opaque code
func (r *CustomerRepository) GetByID(code string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.First(&customer, "id = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// Create inserts a new customer, failing with ErrDuplicate when the code is
// already taken.
func (r *CustomerRepository) Create(customer *models.Customer) error {
	err := r.db.Create(customer).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}
