package booking

import (
	"testing"

	"github.com/skinsociete/platform/internal/phorest"
)

func newWizard() *Wizard {
	return &Wizard{ID: "wz-1", State: StateDateTime, ServiceID: "svc-1", ClientID: "client-1"}
}

func TestSelectSlotRequiresDateAndTime(t *testing.T) {
	tests := []struct {
		name string
		date string
		time string
	}{
		{"missing both", "", ""},
		{"missing time", "2025-06-10", ""},
		{"missing date", "", "10:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wz := newWizard()
			if err := wz.SelectSlot(tt.date, tt.time, "", ""); err != ErrMissingSlot {
				t.Fatalf("expected ErrMissingSlot, got %v", err)
			}
			if wz.State != StateDateTime {
				t.Fatalf("state must not advance, got %s", wz.State)
			}
		})
	}
}

func TestSelectSlotAdvancesToStaffSelect(t *testing.T) {
	wz := newWizard()
	if err := wz.SelectSlot("2025-06-10", "10:00", "", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wz.State != StateStaffSelect {
		t.Fatalf("expected staff-select, got %s", wz.State)
	}
}

func TestSelectSlotWithStaffSkipsToConfirm(t *testing.T) {
	wz := newWizard()
	if err := wz.SelectSlot("2025-06-10", "10:00", "staff-2", "Mia Thompson"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wz.State != StateConfirm {
		t.Fatalf("expected confirm when slot carries staff, got %s", wz.State)
	}
	if wz.StaffID != "staff-2" || wz.StaffName != "Mia Thompson" {
		t.Fatalf("staff not recorded: %+v", wz)
	}
}

func TestSelectStaffRequiresStaffID(t *testing.T) {
	wz := newWizard()
	_ = wz.SelectSlot("2025-06-10", "10:00", "", "")

	if err := wz.SelectStaff("", ""); err != ErrMissingStaff {
		t.Fatalf("expected ErrMissingStaff, got %v", err)
	}
	if wz.State != StateStaffSelect {
		t.Fatalf("state must not advance, got %s", wz.State)
	}

	if err := wz.SelectStaff("staff-3", "Olivia Nguyen"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wz.State != StateConfirm {
		t.Fatalf("expected confirm, got %s", wz.State)
	}
}

func TestSelectStaffOutOfOrder(t *testing.T) {
	wz := newWizard()
	if err := wz.SelectStaff("staff-3", ""); err != ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition from date-time, got %v", err)
	}
}

func TestBackKeepsLaterSelections(t *testing.T) {
	wz := newWizard()
	_ = wz.SelectSlot("2025-06-10", "10:00", "", "")
	_ = wz.SelectStaff("staff-2", "Mia Thompson")

	if err := wz.Back(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wz.State != StateStaffSelect {
		t.Fatalf("expected staff-select after back, got %s", wz.State)
	}
	if wz.StaffID != "staff-2" || wz.Date != "2025-06-10" || wz.Time != "10:00" {
		t.Fatalf("back must not clear selections: %+v", wz)
	}

	_ = wz.Back()
	if wz.State != StateDateTime {
		t.Fatalf("expected date-time, got %s", wz.State)
	}

	// Back at the first step stays put
	if err := wz.Back(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wz.State != StateDateTime {
		t.Fatalf("expected date-time, got %s", wz.State)
	}
}

func TestSuccessIsTerminal(t *testing.T) {
	wz := newWizard()
	_ = wz.SelectSlot("2025-06-10", "10:00", "staff-2", "Mia")
	wz.MarkConfirmed(&phorest.AppointmentConfirmation{AppointmentID: "appt-1"})

	if wz.State != StateSuccess {
		t.Fatalf("expected success, got %s", wz.State)
	}
	if err := wz.Back(); err != ErrWizardComplete {
		t.Fatalf("expected ErrWizardComplete, got %v", err)
	}
	if err := wz.SelectSlot("2025-06-11", "11:00", "", ""); err != ErrWizardComplete {
		t.Fatalf("expected ErrWizardComplete, got %v", err)
	}
}

func TestMarkFailedStaysOnConfirm(t *testing.T) {
	wz := newWizard()
	_ = wz.SelectSlot("2025-06-10", "10:00", "staff-2", "Mia")

	wz.MarkFailed("slot taken")
	if wz.State != StateConfirm {
		t.Fatalf("expected to stay on confirm, got %s", wz.State)
	}
	if wz.LastError != "slot taken" {
		t.Fatalf("expected error message recorded, got %q", wz.LastError)
	}
}

func TestCanConfirm(t *testing.T) {
	wz := newWizard()
	if wz.CanConfirm() {
		t.Fatal("fresh wizard must not be confirmable")
	}
	_ = wz.SelectSlot("2025-06-10", "10:00", "", "")
	if wz.CanConfirm() {
		t.Fatal("wizard without staff must not be confirmable")
	}
	_ = wz.SelectStaff("staff-2", "Mia")
	if !wz.CanConfirm() {
		t.Fatal("expected confirmable wizard")
	}
}
