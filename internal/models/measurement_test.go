package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseMeasurementType(t *testing.T) {
	for input, want := range map[string]string{
		"WATER": MeasurementWater,
		"GAS":   MeasurementGas,
	} {
		got, ok := ParseMeasurementType(input)
		assert.True(t, ok, input)
		assert.Equal(t, want, got)
	}

	// only the exact uppercase tokens are valid
	for _, input := range []string{"", "ELECTRICITY", "WATERGAS", "W", "water", "gas", " GAS ", "Water"} {
		_, ok := ParseMeasurementType(input)
		assert.False(t, ok, input)
	}
}

func TestBillingPeriod(t *testing.T) {
	year, month := BillingPeriod(time.Date(2024, 8, 28, 13, 10, 0, 0, time.UTC))
	assert.Equal(t, 2024, year)
	assert.Equal(t, 8, month)
}

func TestBillingPeriod_UsesUTCBucket(t *testing.T) {
	// 2024-09-01T01:30+03:00 is still August 31st in UTC
	loc := time.FixedZone("UTC+3", 3*3600)
	year, month := BillingPeriod(time.Date(2024, 9, 1, 1, 30, 0, 0, loc))
	assert.Equal(t, 2024, year)
	assert.Equal(t, 8, month)
}

func TestBillingPeriod_MonthBoundary(t *testing.T) {
	y1, m1 := BillingPeriod(time.Date(2024, 8, 31, 23, 59, 59, 0, time.UTC))
	y2, m2 := BillingPeriod(time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, y1, y2)
	assert.NotEqual(t, m1, m2)
}
