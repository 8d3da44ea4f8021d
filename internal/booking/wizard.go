package booking

import (
	"time"

	"github.com/skinsociete/platform/internal/phorest"
)

// State is a wizard step.
type State string

const (
	StateDateTime    State = "date-time"
	StateStaffSelect State = "staff-select"
	StateConfirm     State = "confirm"
	StateSuccess     State = "success"
)

// Wizard is one in-progress appointment booking. It sequences
// date-time → staff-select → confirm → success, gating each advance on the
// selections the step requires. Closing the wizard simply abandons the record.
type Wizard struct {
	ID        string `json:"id"`
	SessionID string `json:"-"`
	State     State  `json:"state"`

	ServiceID   string `json:"serviceId"`
	ServiceName string `json:"serviceName,omitempty"`
	ClientID    string `json:"clientId,omitempty"`
	ClientName  string `json:"clientName,omitempty"`

	Date      string `json:"date,omitempty"` // YYYY-MM-DD
	Time      string `json:"time,omitempty"` // HH:MM
	StaffID   string `json:"staffId,omitempty"`
	StaffName string `json:"staffName,omitempty"`
	Notes     string `json:"notes,omitempty"`

	Confirmation *phorest.AppointmentConfirmation `json:"confirmation,omitempty"`
	LastError    string                           `json:"lastError,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SelectSlot records the chosen date and time. When the slot already carries a
// staff member the staff-select step is skipped and the wizard lands on
// confirm directly.
func (wz *Wizard) SelectSlot(date, slotTime, staffID, staffName string) error {
	switch wz.State {
	case StateSuccess:
		return ErrWizardComplete
	case StateDateTime:
	default:
		return ErrInvalidTransition
	}

	if date == "" || slotTime == "" {
		return ErrMissingSlot
	}

	wz.Date = date
	wz.Time = slotTime
	if staffID != "" {
		wz.StaffID = staffID
		wz.StaffName = staffName
		wz.State = StateConfirm
	} else {
		wz.State = StateStaffSelect
	}
	wz.touch()
	return nil
}

// SelectStaff records the chosen staff member and advances to confirm.
func (wz *Wizard) SelectStaff(staffID, staffName string) error {
	switch wz.State {
	case StateSuccess:
		return ErrWizardComplete
	case StateStaffSelect:
	default:
		return ErrInvalidTransition
	}

	if staffID == "" {
		return ErrMissingStaff
	}

	wz.StaffID = staffID
	wz.StaffName = staffName
	wz.State = StateConfirm
	wz.touch()
	return nil
}

// Back moves to the previous step without clearing later selections.
func (wz *Wizard) Back() error {
	switch wz.State {
	case StateSuccess:
		return ErrWizardComplete
	case StateConfirm:
		wz.State = StateStaffSelect
	case StateStaffSelect:
		wz.State = StateDateTime
	case StateDateTime:
		// already at the first step
	}
	wz.touch()
	return nil
}

// CanConfirm reports whether the wizard has everything a submission needs.
func (wz *Wizard) CanConfirm() bool {
	return wz.State == StateConfirm && wz.Date != "" && wz.Time != "" && wz.StaffID != ""
}

// MarkConfirmed records a successful submission and moves to the terminal state.
func (wz *Wizard) MarkConfirmed(conf *phorest.AppointmentConfirmation) {
	wz.Confirmation = conf
	wz.LastError = ""
	wz.State = StateSuccess
	wz.touch()
}

// MarkFailed keeps the wizard on confirm and records the user-facing message.
func (wz *Wizard) MarkFailed(message string) {
	wz.LastError = message
	wz.touch()
}

func (wz *Wizard) touch() {
	wz.UpdatedAt = time.Now().UTC()
}
