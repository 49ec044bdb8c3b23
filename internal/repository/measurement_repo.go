package repository

import (
	"errors"

	"meter-reading-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MeasurementRepository struct {
	db *gorm.DB
}

func NewMeasurementRepository(db *gorm.DB) *MeasurementRepository {
	return &MeasurementRepository{db: db}
}

// Create inserts a new measurement. The composite unique index on
// (customer_id, type, period_year, period_month) is the authoritative
// monthly-uniqueness check: of two concurrent inserts for the same period
// exactly one reaches the table, the other gets ErrDuplicate.
func (r *MeasurementRepository) Create(m *models.Measurement) error {
	err := r.db.Create(m).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

// GetByID fetches a single measurement by ID
func (r *MeasurementRepository) GetByID(id uuid.UUID) (*models.Measurement, error) {
	var m models.Measurement
	err := r.db.First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ConfirmValue stores the human-confirmed value and flips the confirmed flag.
// The update is conditioned on confirmed still being false so that of two
// racing confirmations only one can change the row; the loser sees
// confirmed=false here and reports nothing updated.
func (r *MeasurementRepository) ConfirmValue(id uuid.UUID, value float64) (bool, error) {
	res := r.db.Model(&models.Measurement{}).
		Where("id = ? AND confirmed = ?", id, false).
		Updates(map[string]interface{}{"value": value, "confirmed": true})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListByCustomer returns all measurements for a customer ordered by reading
// datetime, optionally filtered by type. An empty result is a valid answer,
// not an error.
func (r *MeasurementRepository) ListByCustomer(customerID string, measureType string) ([]models.Measurement, error) {
	var measurements []models.Measurement

	query := r.db.Where("customer_id = ?", customerID)
	if measureType != "" {
		query = query.Where("type = ?", measureType)
	}

	err := query.Order("measure_datetime ASC").Find(&measurements).Error
	return measurements, err
}
