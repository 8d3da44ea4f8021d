package booking

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/skinsociete/platform/internal/observability/metrics"
	"github.com/skinsociete/platform/internal/phorest"
	"github.com/skinsociete/platform/pkg/logging"
)

var bookingTracer = otel.Tracer("skinsociete.internal.booking")

// startTimeLayout is the wire format Phorest expects for appointment starts.
const startTimeLayout = "2006-01-02T15:04:05.000Z"

// AppointmentCreator is the slice of the Phorest client the gateway needs.
type AppointmentCreator interface {
	CreateAppointment(ctx context.Context, req phorest.AppointmentRequest) (*phorest.AppointmentConfirmation, error)
}

// SubmissionRequest is a finalized booking selection.
type SubmissionRequest struct {
	ClientID    string `json:"clientId"`
	ServiceID   string `json:"serviceId"`
	StaffID     string `json:"staffId"`
	StartTime   string `json:"startTime"`
	Notes       string `json:"notes,omitempty"`
	ServiceName string `json:"serviceName,omitempty"`
	StaffName   string `json:"staffName,omitempty"`
	ClientName  string `json:"clientName,omitempty"`
	ClientEmail string `json:"clientEmail,omitempty"`
}

// SubmissionError carries the classified category alongside the cause.
type SubmissionError struct {
	Category FailureCategory
	Err      error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("booking: %s: %v", e.Category, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// Message returns the user-facing text for the failure.
func (e *SubmissionError) Message() string { return e.Category.Message() }

// Gateway submits finalized bookings to the clinic platform. Validation
// happens locally first: an empty client or staff id never reaches the wire.
type Gateway struct {
	creator AppointmentCreator
	metrics *metrics.BookingMetrics
	logger  *logging.Logger
}

// NewGateway creates a submission gateway.
func NewGateway(creator AppointmentCreator, m *metrics.BookingMetrics, logger *logging.Logger) *Gateway {
	if logger == nil {
		logger = logging.Default()
	}
	return &Gateway{creator: creator, metrics: m, logger: logger}
}

// Submit validates the selection and creates the appointment. Remote failures
// are returned as *SubmissionError with a classified category; there is no
// automatic retry.
func (g *Gateway) Submit(ctx context.Context, req SubmissionRequest) (*phorest.AppointmentConfirmation, error) {
	ctx, span := bookingTracer.Start(ctx, "booking.submit")
	defer span.End()
	span.SetAttributes(
		attribute.String("skinsociete.service_id", req.ServiceID),
		attribute.String("skinsociete.staff_id", req.StaffID),
	)

	if req.ClientID == "" {
		return nil, &SubmissionError{Category: FailureClientNotFound, Err: ErrMissingClient}
	}
	if req.StaffID == "" {
		return nil, &SubmissionError{Category: FailureInvalidRequest, Err: ErrMissingStaff}
	}

	started := time.Now()
	conf, err := g.creator.CreateAppointment(ctx, phorest.AppointmentRequest{
		ClientID:    req.ClientID,
		ServiceID:   req.ServiceID,
		StaffID:     req.StaffID,
		StartTime:   req.StartTime,
		Notes:       req.Notes,
		ServiceName: req.ServiceName,
		StaffName:   req.StaffName,
		ClientName:  req.ClientName,
	})
	if err != nil {
		span.RecordError(err)
		category := classifyFailure(err)
		g.metrics.ObserveSubmission(string(category))
		g.metrics.ObserveSubmissionLatency(string(category), time.Since(started).Seconds())
		g.logger.Warn("booking submission failed",
			"category", string(category), "error", err, "staff_id", req.StaffID)
		return nil, &SubmissionError{Category: category, Err: err}
	}

	g.metrics.ObserveSubmission("confirmed")
	g.metrics.ObserveSubmissionLatency("confirmed", time.Since(started).Seconds())
	g.logger.Info("booking confirmed",
		"appointment_id", conf.AppointmentID, "client_id", req.ClientID, "start_time", req.StartTime)
	return conf, nil
}

// BuildStartTime assembles the Phorest start timestamp from a wizard's
// date (YYYY-MM-DD) and slot time (HH:MM).
func BuildStartTime(date, slotTime string) (string, error) {
	t, err := time.Parse("2006-01-02 15:04", date+" "+slotTime)
	if err != nil {
		return "", fmt.Errorf("booking: bad date/time %q %q: %w", date, slotTime, err)
	}
	return t.UTC().Format(startTimeLayout), nil
}
