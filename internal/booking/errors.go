package booking

import (
	"errors"
	"strings"
)

var (
	// ErrMissingSlot is returned when advancing without a chosen date and time
	ErrMissingSlot = errors.New("a date and time must be selected")

	// ErrMissingStaff is returned when advancing without a chosen staff member
	ErrMissingStaff = errors.New("a staff member must be selected")

	// ErrMissingClient is returned when submitting without a client id
	ErrMissingClient = errors.New("client id is required")

	// ErrWizardComplete is returned for transitions out of the terminal state
	ErrWizardComplete = errors.New("booking already completed")

	// ErrInvalidTransition is returned for out-of-order wizard actions
	ErrInvalidTransition = errors.New("action not valid in current step")

	// ErrWizardNotFound is returned when a wizard session is unknown or expired
	ErrWizardNotFound = errors.New("booking session not found")
)

// FailureCategory classifies a remote booking failure into a user-facing bucket.
type FailureCategory string

const (
	FailureStaffNotRostered FailureCategory = "staff-not-rostered"
	FailureSlotUnavailable  FailureCategory = "slot-unavailable"
	FailureClientNotFound   FailureCategory = "client-not-found"
	FailureInvalidRequest   FailureCategory = "invalid-request"
	FailureUnknown          FailureCategory = "unknown"
)

// Message returns the message shown to the user for this category.
func (c FailureCategory) Message() string {
	switch c {
	case FailureStaffNotRostered:
		return "That staff member isn't rostered at the selected time. Please pick another time or therapist."
	case FailureSlotUnavailable:
		return "That time was just booked by someone else. Please choose another slot."
	case FailureClientNotFound:
		return "We couldn't find your client record. Please sign in again or complete your details."
	case FailureInvalidRequest:
		return "Something was wrong with the booking details. Please review your selection and try again."
	default:
		return "We couldn't complete your booking. Please try again in a moment."
	}
}

// classifyFailure pattern-matches the raw upstream error text against known
// Phorest failure signatures.
func classifyFailure(err error) FailureCategory {
	if err == nil {
		return FailureUnknown
	}
	msg := strings.ToLower(err.Error())

	switch {
	case containsAny(msg, "staff_not_working", "staff not working", "not rostered", "staff unavailable"):
		return FailureStaffNotRostered
	case containsAny(msg, "slot_unavailable", "already booked", "no longer available", "slot taken"):
		return FailureSlotUnavailable
	case containsAny(msg, "client_not_found", "client not found", "no such client"):
		return FailureClientNotFound
	case containsAny(msg, "invalid", "malformed", "bad request", "status 400"):
		return FailureInvalidRequest
	default:
		return FailureUnknown
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
