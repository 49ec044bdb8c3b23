package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	MeasurementWater = "WATER"
	MeasurementGas   = "GAS"
)

// ParseMeasurementType validates a caller-supplied measurement type. The
// match is exact: only the uppercase WATER and GAS tokens are accepted.
func ParseMeasurementType(s string) (string, bool) {
	switch s {
	case MeasurementWater:
		return MeasurementWater, true
	case MeasurementGas:
		return MeasurementGas, true
	default:
		return "", false
	}
}

// Measurement is one meter reading reported for a customer. PeriodYear and
// PeriodMonth are derived from Datetime and form the composite unique index
// that rejects a second report for the same customer, type and calendar
// month at insert time.
type Measurement struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID  string    `gorm:"index;uniqueIndex:idx_customer_type_period"`
	Type        string    `gorm:"uniqueIndex:idx_customer_type_period"`
	PeriodYear  int       `gorm:"uniqueIndex:idx_customer_type_period"`
	PeriodMonth int       `gorm:"uniqueIndex:idx_customer_type_period"`
	Datetime    time.Time `gorm:"column:measure_datetime"`
	Value       float64
	ImageURL    string
	Confirmed   bool
	ReadingMeta datatypes.JSON
	CreatedAt   time.Time
}

// BillingPeriod returns the calendar month bucket a reading datetime falls
// into. The bucket is computed in UTC so the same instant never lands in two
// different periods depending on server locale.
func BillingPeriod(t time.Time) (year int, month int) {
	u := t.UTC()
	return u.Year(), int(u.Month())
}
