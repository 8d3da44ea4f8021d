package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/skinsociete/platform/internal/booking"
	"github.com/skinsociete/platform/internal/phorest"
	"github.com/skinsociete/platform/pkg/logging"
)

// BookingListener emails the client a confirmation after a booking succeeds.
// A send failure is logged and swallowed; the booking already happened.
type BookingListener struct {
	sender EmailSender
	logger *logging.Logger
}

func NewBookingListener(sender EmailSender, logger *logging.Logger) *BookingListener {
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingListener{sender: sender, logger: logger}
}

// BookingConfirmed implements booking.ConfirmListener.
func (l *BookingListener) BookingConfirmed(ctx context.Context, req booking.SubmissionRequest, conf *phorest.AppointmentConfirmation) {
	if l.sender == nil || req.ClientEmail == "" {
		return
	}

	msg := buildConfirmationEmail(req, conf)
	if err := l.sender.Send(ctx, msg); err != nil {
		l.logger.Warn("notify: sending booking confirmation", "error", err, "to", req.ClientEmail)
	}
}

func buildConfirmationEmail(req booking.SubmissionRequest, conf *phorest.AppointmentConfirmation) EmailMessage {
	service := req.ServiceName
	if service == "" {
		service = "your treatment"
	}

	when := req.StartTime
	if t, err := time.Parse("2006-01-02T15:04:05.000Z", req.StartTime); err == nil {
		when = t.Format("Monday 2 January 2006 at 3:04 PM")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", firstName(req.ClientName))
	fmt.Fprintf(&b, "Your booking for %s is confirmed for %s.\n", service, when)
	if req.StaffName != "" {
		fmt.Fprintf(&b, "You'll be looked after by %s.\n", req.StaffName)
	}
	if conf != nil && conf.AppointmentID != "" {
		fmt.Fprintf(&b, "\nBooking reference: %s\n", conf.AppointmentID)
	}
	b.WriteString("\nWe can't wait to see you.\n\nSkin Societé")

	return EmailMessage{
		To:      req.ClientEmail,
		ToName:  req.ClientName,
		Subject: fmt.Sprintf("Booking confirmed: %s", service),
		Body:    b.String(),
	}
}

func firstName(full string) string {
	full = strings.TrimSpace(full)
	if full == "" {
		return "there"
	}
	if i := strings.IndexByte(full, ' '); i > 0 {
		return full[:i]
	}
	return full
}
