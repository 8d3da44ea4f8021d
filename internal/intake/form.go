package intake

import (
	"fmt"
	"strings"
	"time"
)

// Section names the steps of the intake form, walked in order. The client may
// save a draft from any section; submission is only valid from review.
const (
	SectionPersonal     = "personal"
	SectionContact      = "contact"
	SectionMedical      = "medical"
	SectionSkinAnalysis = "skin-analysis"
	SectionConsent      = "consent"
	SectionReview       = "review"
)

// Sections lists the steps in walking order.
var Sections = []string{
	SectionPersonal,
	SectionContact,
	SectionMedical,
	SectionSkinAnalysis,
	SectionConsent,
	SectionReview,
}

// Personal is the identity section.
type Personal struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Gender      string `json:"gender,omitempty"`
}

// Contact is the reachability section.
type Contact struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address,omitempty"`
	Suburb   string `json:"suburb,omitempty"`
	State    string `json:"state,omitempty"`
	Postcode string `json:"postcode,omitempty"`
}

// Medical is the clinical history section.
type Medical struct {
	Conditions      []string `json:"conditions,omitempty"`
	Medications     string   `json:"medications,omitempty"`
	Allergies       string   `json:"allergies,omitempty"`
	PregnantNursing bool     `json:"pregnantNursing"`
}

// SkinAnalysis captures the self-reported skin profile.
type SkinAnalysis struct {
	SkinType       string   `json:"skinType,omitempty"`
	Concerns       []string `json:"concerns,omitempty"`
	CurrentRoutine string   `json:"currentRoutine,omitempty"`
	SunExposure    string   `json:"sunExposure,omitempty"`
}

// Consent holds the two mandatory acknowledgements. Both must be true before
// the form can be submitted.
type Consent struct {
	TreatmentConsent bool `json:"treatmentConsent"`
	PrivacyConsent   bool `json:"privacyConsent"`
}

// Form is the full progressive intake form for one service.
type Form struct {
	ServiceID    string       `json:"serviceId"`
	Section      string       `json:"section"`
	Personal     Personal     `json:"personal"`
	Contact      Contact      `json:"contact"`
	Medical      Medical      `json:"medical"`
	SkinAnalysis SkinAnalysis `json:"skinAnalysis"`
	Consent      Consent      `json:"consent"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// ValidateForSubmission checks the form is complete enough to create a client
// record. Draft saves are never validated; only submission is.
func (f *Form) ValidateForSubmission() error {
	if strings.TrimSpace(f.Personal.FirstName) == "" {
		return fmt.Errorf("intake: first name is required")
	}
	if strings.TrimSpace(f.Personal.LastName) == "" {
		return fmt.Errorf("intake: last name is required")
	}
	email := strings.TrimSpace(f.Contact.Email)
	if email == "" {
		return fmt.Errorf("intake: email is required")
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("intake: email %q is not valid", email)
	}
	if strings.TrimSpace(f.Contact.Phone) == "" {
		return fmt.Errorf("intake: phone is required")
	}
	if !f.Consent.TreatmentConsent {
		return fmt.Errorf("intake: treatment consent is required")
	}
	if !f.Consent.PrivacyConsent {
		return fmt.Errorf("intake: privacy consent is required")
	}
	return nil
}

// ValidSection reports whether the name is one of the known sections.
func ValidSection(name string) bool {
	return sectionIndex(name) >= 0
}

func sectionIndex(name string) int {
	for i, s := range Sections {
		if s == name {
			return i
		}
	}
	return -1
}

// FieldError pins a validation failure to a field within a section.
type FieldError struct {
	Section string `json:"section"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateCompleted checks every section before the named step. A draft may
// leave its current section half-filled, but it cannot advance past a section
// whose required fields are empty.
func (f *Form) ValidateCompleted(upTo string) []FieldError {
	limit := sectionIndex(upTo)
	var errs []FieldError
	for i := 0; i < limit; i++ {
		errs = append(errs, f.sectionErrors(Sections[i])...)
	}
	return errs
}

func (f *Form) sectionErrors(section string) []FieldError {
	var errs []FieldError
	switch section {
	case SectionPersonal:
		if strings.TrimSpace(f.Personal.FirstName) == "" {
			errs = append(errs, FieldError{section, "firstName", "first name is required"})
		}
		if strings.TrimSpace(f.Personal.LastName) == "" {
			errs = append(errs, FieldError{section, "lastName", "last name is required"})
		}
	case SectionContact:
		email := strings.TrimSpace(f.Contact.Email)
		if email == "" {
			errs = append(errs, FieldError{section, "email", "email is required"})
		} else if !strings.Contains(email, "@") {
			errs = append(errs, FieldError{section, "email", "email is not valid"})
		}
		if strings.TrimSpace(f.Contact.Phone) == "" {
			errs = append(errs, FieldError{section, "phone", "phone is required"})
		}
	case SectionConsent:
		if !f.Consent.TreatmentConsent {
			errs = append(errs, FieldError{section, "treatmentConsent", "treatment consent is required"})
		}
		if !f.Consent.PrivacyConsent {
			errs = append(errs, FieldError{section, "privacyConsent", "privacy consent is required"})
		}
	}
	return errs
}
