package measurement

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"meter-reading-backend/internal/events"
	"meter-reading-backend/internal/models"
	"meter-reading-backend/internal/repository"
	"meter-reading-backend/internal/storage"
	"meter-reading-backend/internal/vision"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CustomerStore resolves customers by their opaque code.
type CustomerStore interface {
	GetByID(code string) (*models.Customer, error)
}

// MeasurementStore persists measurements. Create must reject a second insert
// for the same (customer, type, billing period) atomically, and ConfirmValue
// must only change a row whose confirmed flag is still false.
type MeasurementStore interface {
	Create(m *models.Measurement) error
	GetByID(id uuid.UUID) (*models.Measurement, error)
	ConfirmValue(id uuid.UUID, value float64) (bool, error)
	ListByCustomer(customerID string, measureType string) ([]models.Measurement, error)
}

// VisionReader extracts a numeric reading from a meter photo.
type VisionReader interface {
	Read(ctx context.Context, image []byte, mimeType string) (*vision.Reading, error)
}

// ImageStore persists the raw photo and returns a durable retrieval URL.
type ImageStore interface {
	Store(ctx context.Context, data []byte, key, contentType string) (string, error)
}

// EventPublisher announces recorded/confirmed measurements downstream.
type EventPublisher interface {
	Publish(ctx context.Context, event events.MeasurementEvent, routingKey string) error
}

// Service orchestrates the upload, confirm and list operations. It holds no
// state of its own; every cross-request guarantee lives in the database.
type Service struct {
	customers    CustomerStore
	measurements MeasurementStore
	reader       VisionReader
	images       ImageStore
	publisher    EventPublisher // may be nil when eventing is not configured
	logger       *zap.Logger
}

func NewService(
	customers CustomerStore,
	measurements MeasurementStore,
	reader VisionReader,
	images ImageStore,
	publisher EventPublisher,
	logger *zap.Logger,
) *Service {
	return &Service{
		customers:    customers,
		measurements: measurements,
		reader:       reader,
		images:       images,
		publisher:    publisher,
		logger:       logger,
	}
}

// UploadInput carries an already-decoded image plus the submission identity.
type UploadInput struct {
	Image        []byte
	CustomerCode string
	Datetime     time.Time
	Type         string
}

// UploadResult is what the API returns for a recorded measurement.
type UploadResult struct {
	ImageURL  string
	Value     float64
	MeasureID uuid.UUID
}

// Upload stores the photo, runs vision inference, validates the customer and
// records the measurement. Image storage and inference have no data
// dependency and run concurrently; both must succeed before anything is
// written to the database, so a failed inference never leaves a dangling
// record.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	measureType, ok := models.ParseMeasurementType(in.Type)
	if !ok {
		return nil, errInvalidData("The measure_type must be WATER or GAS")
	}

	mimeType := vision.DetectImageMIMEType(in.Image)
	key := storage.ObjectKey(in.CustomerCode, measureType, in.Datetime, mimeType)

	var (
		imageURL string
		reading  *vision.Reading
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		url, err := s.images.Store(gctx, in.Image, key, mimeType)
		if err != nil {
			return err
		}
		imageURL = url
		return nil
	})
	g.Go(func() error {
		r, err := s.reader.Read(gctx, in.Image, mimeType)
		if err != nil {
			return err
		}
		reading = r
		return nil
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, vision.ErrUnreadable) {
			return nil, errUnreadableMeasurement()
		}
		return nil, err
	}

	customer, err := s.customers.GetByID(in.CustomerCode)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errCustomerNotFound(in.CustomerCode)
	}
	if err != nil {
		return nil, err
	}

	year, month := models.BillingPeriod(in.Datetime)
	meta, _ := json.Marshal(map[string]interface{}{
		"model":        reading.Model,
		"raw_text":     reading.RawText,
		"parsed_value": reading.Value,
	})

	m := &models.Measurement{
		ID:          uuid.New(),
		CustomerID:  customer.ID,
		Type:        measureType,
		PeriodYear:  year,
		PeriodMonth: month,
		Datetime:    in.Datetime,
		Value:       reading.Value,
		ImageURL:    imageURL,
		Confirmed:   false,
		ReadingMeta: meta,
		CreatedAt:   time.Now(),
	}

	if err := s.measurements.Create(m); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errDoubleReport()
		}
		return nil, err
	}

	s.publish(ctx, m, events.RoutingKeyRecorded)

	return &UploadResult{
		ImageURL:  imageURL,
		Value:     reading.Value,
		MeasureID: m.ID,
	}, nil
}

// Confirm records the human-verified value for a measurement. The confirmed
// flag moves false -> true exactly once; a repeat attempt, or the loser of a
// concurrent race, gets CONFIRMATION_DUPLICATE.
func (s *Service) Confirm(ctx context.Context, measureID uuid.UUID, confirmedValue float64) error {
	m, err := s.measurements.GetByID(measureID)
	if errors.Is(err, repository.ErrNotFound) {
		return errMeasureNotFound(measureID.String())
	}
	if err != nil {
		return err
	}

	if m.Confirmed {
		return errConfirmationDuplicate()
	}

	updated, err := s.measurements.ConfirmValue(measureID, confirmedValue)
	if err != nil {
		return err
	}
	if !updated {
		// another confirmation won the race between our read and the update
		return errConfirmationDuplicate()
	}

	m.Value = confirmedValue
	m.Confirmed = true
	s.publish(ctx, m, events.RoutingKeyConfirmed)

	return nil
}

// List returns a customer's measurements ordered by reading datetime,
// optionally filtered by type. No measurements is an empty list, not an
// error.
func (s *Service) List(ctx context.Context, customerCode, measureType string) ([]models.Measurement, error) {
	if _, err := s.customers.GetByID(customerCode); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errCustomerNotFound(customerCode)
		}
		return nil, err
	}

	filter := ""
	if measureType != "" {
		parsed, ok := models.ParseMeasurementType(measureType)
		if !ok {
			return nil, errInvalidType(measureType)
		}
		filter = parsed
	}

	return s.measurements.ListByCustomer(customerCode, filter)
}

// publish is best effort: a broker outage must not fail a request whose
// database write already succeeded.
func (s *Service) publish(ctx context.Context, m *models.Measurement, routingKey string) {
	if s.publisher == nil {
		return
	}

	event := events.MeasurementEvent{
		MeasureID:    m.ID.String(),
		CustomerCode: m.CustomerID,
		MeasureType:  m.Type,
		Value:        m.Value,
		Datetime:     m.Datetime,
		Confirmed:    m.Confirmed,
	}

	if err := s.publisher.Publish(ctx, event, routingKey); err != nil {
		s.logger.Warn("failed to publish measurement event",
			zap.String("routing_key", routingKey),
			zap.String("measure_id", event.MeasureID),
			zap.Error(err),
		)
	}
}
