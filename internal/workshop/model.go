package workshop

import (
	"strings"
	"time"
)

// Status is a work order's position in the production pipeline.
type Status string

const (
	StatusMeasuring     Status = "measuring"
	StatusMolding       Status = "molding"
	StatusManufacturing Status = "manufacturing"
	StatusFinishing     Status = "finishing"
	StatusReady         Status = "ready"
	StatusDelivered     Status = "delivered"
)

// Statuses lists every valid status in pipeline order.
var Statuses = []Status{
	StatusMeasuring,
	StatusMolding,
	StatusManufacturing,
	StatusFinishing,
	StatusReady,
	StatusDelivered,
}

// Valid reports whether s is one of the enumerated statuses.
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Stage is one of the three fixed kanban columns the board groups
// statuses into.
type Stage string

const (
	StageIntake     Stage = "intake"
	StageProduction Stage = "production"
	StageCompletion Stage = "completion"
)

// StageOf maps a status onto its kanban column.
func StageOf(s Status) Stage {
	switch s {
	case StatusMeasuring, StatusMolding:
		return StageIntake
	case StatusManufacturing, StatusFinishing:
		return StageProduction
	default:
		return StageCompletion
	}
}

// WorkOrder is an orthopedic device order in the clinic workshop.
type WorkOrder struct {
	ID          string    `json:"id"`
	PatientID   string    `json:"patient_id"`
	PatientName string    `json:"patient_name"`
	Product     string    `json:"product"`
	Status      Status    `json:"status"`
	Deadline    string    `json:"deadline,omitempty"`
	PriceCents  int64     `json:"price_cents,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Completed reports whether the order left the pipeline.
func (o *WorkOrder) Completed() bool {
	return o.Status == StatusDelivered
}

// CreateOrderRequest is the request body for opening a work order.
type CreateOrderRequest struct {
	PatientID   string `json:"patient_id"`
	PatientName string `json:"patient_name"`
	Product     string `json:"product"`
	Status      Status `json:"status"`
	Deadline    string `json:"deadline"`
	PriceCents  int64  `json:"price_cents"`
}

// Validate validates the order request. An empty status defaults to
// measuring.
func (r *CreateOrderRequest) Validate() error {
	if strings.TrimSpace(r.Product) == "" {
		return ErrInvalidProduct
	}
	if r.PatientID == "" && strings.TrimSpace(r.PatientName) == "" {
		return ErrMissingPatient
	}
	if r.Status == "" {
		r.Status = StatusMeasuring
	}
	if !r.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// UpdateStatusRequest moves an order to another pipeline status.
type UpdateStatusRequest struct {
	Status Status `json:"status"`
}

// Validate validates the status transition request.
func (r *UpdateStatusRequest) Validate() error {
	if !r.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}
