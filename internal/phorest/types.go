package phorest

import "time"

// Branch is a physical clinic location record, fetched once per process.
type Branch struct {
	BranchID     string `json:"branchId"`
	Name         string `json:"name"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
}

// Service is the single normalized treatment type used everywhere inside the
// application. Upstream payloads arrive in two shapes (static seed lists and
// the live API); both are mapped through serviceEnvelope.Normalize at the
// boundary so internal code never branches on field presence.
type Service struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
	Category        string  `json:"category"`
}

// Staff is a read-only roster entry. Available is a display flag, not a live lock.
type Staff struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Specialties []string `json:"specialties"`
	Rating      float64  `json:"rating"`
	Available   bool     `json:"available"`
}

// Slot is one bookable interval on a given date. Regenerated on every date
// selection and never persisted.
type Slot struct {
	Time      string `json:"time"` // HH:MM
	Available bool   `json:"available"`
	StaffID   string `json:"staffId,omitempty"`
	StaffName string `json:"staffName,omitempty"`
}

// AvailabilityRequest asks for open slots on a single date.
type AvailabilityRequest struct {
	Date            time.Time
	ServiceID       string
	BranchID        string
	DurationMinutes int
}

// AvailabilityResponse is the upstream availability payload.
type AvailabilityResponse struct {
	Success bool    `json:"success"`
	Mock    bool    `json:"mock,omitempty"`
	Slots   []Slot  `json:"slots"`
	Staff   []Staff `json:"staff"`
}

// ClientRecord is a clinic client created at sign-up or assembled by the
// intake form. Durability is whatever Phorest records; nothing is kept locally.
type ClientRecord struct {
	ClientID         string            `json:"clientId,omitempty"`
	FirstName        string            `json:"firstName"`
	LastName         string            `json:"lastName"`
	Email            string            `json:"email"`
	Phone            string            `json:"mobile"`
	CreatingBranchID string            `json:"creatingBranchId,omitempty"`
	Medical          map[string]string `json:"medical,omitempty"`
	SkinAnalysis     map[string]string `json:"skinAnalysis,omitempty"`
	Consent          map[string]bool   `json:"consent,omitempty"`
	Notes            string            `json:"notes,omitempty"`
}

// AppointmentRequest is the finalized booking payload sent once to Phorest.
type AppointmentRequest struct {
	ClientID    string `json:"clientId"`
	ServiceID   string `json:"serviceId"`
	StaffID     string `json:"staffId"`
	StartTime   string `json:"startTime"` // ISO8601 with milliseconds, UTC
	Notes       string `json:"notes,omitempty"`
	ServiceName string `json:"serviceName,omitempty"`
	StaffName   string `json:"staffName,omitempty"`
	ClientName  string `json:"clientName,omitempty"`
}

// AppointmentConfirmation echoes the created appointment back to the caller.
type AppointmentConfirmation struct {
	AppointmentID string `json:"appointmentId"`
	ClientID      string `json:"clientId"`
	ServiceID     string `json:"serviceId"`
	StaffID       string `json:"staffId"`
	StartTime     string `json:"startTime"`
	Status        string `json:"status"`
}

// serviceEnvelope tolerates both upstream service shapes: the live API emits
// {id, name, duration, price}, older seed exports emit
// {serviceId, serviceName, durationMinutes, serviceCost}.
type serviceEnvelope struct {
	ID              string  `json:"id"`
	ServiceID       string  `json:"serviceId"`
	Name            string  `json:"name"`
	ServiceName     string  `json:"serviceName"`
	Description     string  `json:"description"`
	Duration        int     `json:"duration"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
	ServiceCost     float64 `json:"serviceCost"`
	Category        string  `json:"category"`
	CategoryName    string  `json:"categoryName"`
}

// Normalize flattens the envelope into the canonical Service shape.
func (e serviceEnvelope) Normalize() Service {
	svc := Service{
		ID:              e.ID,
		Name:            e.Name,
		Description:     e.Description,
		DurationMinutes: e.Duration,
		Price:           e.Price,
		Category:        e.Category,
	}
	if svc.ID == "" {
		svc.ID = e.ServiceID
	}
	if svc.Name == "" {
		svc.Name = e.ServiceName
	}
	if svc.DurationMinutes == 0 {
		svc.DurationMinutes = e.DurationMinutes
	}
	if svc.Price == 0 {
		svc.Price = e.ServiceCost
	}
	if svc.Category == "" {
		svc.Category = e.CategoryName
	}
	return svc
}
