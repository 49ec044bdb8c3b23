package measurement

import (
	"fmt"
	"net/http"
)

// DomainError is an expected business-rule outcome. It carries the HTTP
// status and the stable machine-readable code the API contract promises, so
// handlers can render it without inspecting error types beyond this one.
type DomainError struct {
	Status      int
	Code        string
	Description string
}

func (e *DomainError) Error() string {
	return e.Code + ": " + e.Description
}

func errInvalidData(description string) *DomainError {
	return &DomainError{
		Status:      http.StatusBadRequest,
		Code:        "INVALID_DATA",
		Description: description,
	}
}

func errUnreadableMeasurement() *DomainError {
	return &DomainError{
		Status:      http.StatusBadRequest,
		Code:        "UNREADABLE_MEASUREMENT",
		Description: "The measurement could not be read",
	}
}

func errCustomerNotFound(code string) *DomainError {
	return &DomainError{
		Status:      http.StatusNotFound,
		Code:        "CUSTOMER_NOT_FOUND",
		Description: fmt.Sprintf("Customer with code %s not found", code),
	}
}

func errDoubleReport() *DomainError {
	return &DomainError{
		Status:      http.StatusConflict,
		Code:        "DOUBLE_REPORT",
		Description: "Monthly measurement already reported",
	}
}

func errMeasureNotFound(id string) *DomainError {
	return &DomainError{
		Status:      http.StatusNotFound,
		Code:        "MEASURE_NOT_FOUND",
		Description: fmt.Sprintf("Measurement with id %s not found", id),
	}
}

func errConfirmationDuplicate() *DomainError {
	return &DomainError{
		Status:      http.StatusConflict,
		Code:        "CONFIRMATION_DUPLICATE",
		Description: "Monthly measurement already confirmed",
	}
}

func errInvalidType(measureType string) *DomainError {
	return &DomainError{
		Status:      http.StatusBadRequest,
		Code:        "INVALID_TYPE",
		Description: fmt.Sprintf("Invalid measurement type %s", measureType),
	}
}
