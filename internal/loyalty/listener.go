package loyalty

import (
	"context"

	"github.com/skinsociete/platform/internal/booking"
	"github.com/skinsociete/platform/internal/phorest"
	"github.com/skinsociete/platform/pkg/logging"
)

// BookingListener awards loyalty points when a booking is confirmed. Failures
// are logged and swallowed; a points hiccup must never disturb a booking.
type BookingListener struct {
	progress    ProgressRepository
	leaderboard *Leaderboard
	logger      *logging.Logger
}

func NewBookingListener(progress ProgressRepository, leaderboard *Leaderboard, logger *logging.Logger) *BookingListener {
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingListener{progress: progress, leaderboard: leaderboard, logger: logger}
}

// BookingConfirmed implements booking.ConfirmListener.
func (l *BookingListener) BookingConfirmed(ctx context.Context, req booking.SubmissionRequest, conf *phorest.AppointmentConfirmation) {
	_ = conf
	if req.ClientID == "" {
		return
	}

	if l.progress != nil {
		if _, _, err := l.progress.RecordActivity(ctx, req.ClientID, PointsBooking, ""); err != nil {
			l.logger.Warn("loyalty: recording booking points", "error", err, "client_id", req.ClientID)
		}
	}
	if l.leaderboard != nil {
		if err := l.leaderboard.Award(ctx, req.ClientID, req.ClientName, PointsBooking); err != nil {
			l.logger.Warn("loyalty: awarding leaderboard points", "error", err, "client_id", req.ClientID)
		}
	}
}
