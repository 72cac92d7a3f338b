package patients

import (
	"strings"
	"time"
)

// ClinicalNote is one entry in a patient's clinical history.
type ClinicalNote struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Patient represents a patient of the clinic.
type Patient struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Email            string         `json:"email"`
	Phone            string         `json:"phone"`
	BirthDate        string         `json:"birth_date,omitempty"`
	Condition        string         `json:"condition"`
	Categories       []string       `json:"categories"`
	Notes            []ClinicalNote `json:"notes"`
	PendingPhysioEval bool          `json:"pending_physio_eval"`
	CreatedAt        time.Time      `json:"created_at"`
}

// CreatePatientRequest is the request body for patient intake.
type CreatePatientRequest struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	BirthDate  string   `json:"birth_date"`
	Condition  string   `json:"condition"`
	Categories []string `json:"categories"`
}

// Validate validates the intake request.
func (r *CreatePatientRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidName
	}
	if r.Email == "" && r.Phone == "" {
		return ErrMissingContact
	}
	return nil
}

// UpdatePatientRequest carries mutable patient fields. Nil fields are left
// untouched.
type UpdatePatientRequest struct {
	Name       *string   `json:"name,omitempty"`
	Email      *string   `json:"email,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	Condition  *string   `json:"condition,omitempty"`
	Categories *[]string `json:"categories,omitempty"`
}

// Empty reports whether the request changes nothing.
func (r *UpdatePatientRequest) Empty() bool {
	return r.Name == nil && r.Email == nil && r.Phone == nil &&
		r.Condition == nil && r.Categories == nil
}

// AddNoteRequest appends a clinical note to a patient.
type AddNoteRequest struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

// Validate validates the note request.
func (r *AddNoteRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return ErrEmptyNote
	}
	return nil
}
