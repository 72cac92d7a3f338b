package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/ortocare/clinic-platform/internal/appointments"
	"github.com/ortocare/clinic-platform/internal/inventory"
	"github.com/ortocare/clinic-platform/pkg/logging"
)

// Service composes and sends the clinic's outbound emails: appointment
// reminders to patients and low-stock alerts to the workshop inbox.
type Service struct {
	email      EmailSender
	clinicName string
	logger     *logging.Logger
}

// NewService creates a notification service. A nil sender disables
// every notification.
func NewService(email EmailSender, clinicName string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if clinicName == "" {
		clinicName = "OrtoCare"
	}
	return &Service{email: email, clinicName: clinicName, logger: logger}
}

// SendAppointmentReminder emails a patient about an upcoming slot. The
// body is Portuguese since that is the clinic's working language.
func (s *Service) SendAppointmentReminder(ctx context.Context, appt *appointments.Appointment, toEmail, toName string) error {
	if s.email == nil {
		s.logger.Debug("notify: email sender not configured, skipping reminder", "appointment_id", appt.ID)
		return nil
	}
	if toEmail == "" {
		return fmt.Errorf("notify: patient %s has no email address", appt.PatientID)
	}

	kind := "sessão de fisioterapia"
	if appt.Type == appointments.TypeWorkshop {
		kind = "visita à oficina ortopédica"
	}

	msg := EmailMessage{
		To:      toEmail,
		ToName:  toName,
		Subject: fmt.Sprintf("Lembrete: %s em %s às %s", kind, appt.Date, appt.Time),
		Body: fmt.Sprintf(
			"Olá, %s!\n\nLembramos que você tem uma %s agendada para %s às %s na %s.\n\nSe não puder comparecer, entre em contato para reagendar.\n\nAté breve,\nEquipe %s",
			toName, kind, appt.Date, appt.Time, s.clinicName, s.clinicName),
		Category: CategoryAppointmentReminder,
	}

	if err := s.email.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: send reminder for appointment %s: %w", appt.ID, err)
	}
	s.logger.Info("appointment reminder sent",
		"appointment_id", appt.ID,
		"patient_id", appt.PatientID,
		"date", appt.Date,
		"time", appt.Time,
	)
	return nil
}

// SendLowStockAlert emails the workshop inbox a summary of items at or
// below their minimum quantity. Sending nothing for an empty list.
func (s *Service) SendLowStockAlert(ctx context.Context, items []inventory.Item, toEmail string) error {
	if s.email == nil || len(items) == 0 {
		return nil
	}
	if toEmail == "" {
		return fmt.Errorf("notify: no workshop inbox configured")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Os seguintes itens estão no estoque mínimo ou abaixo dele:\n\n")
	for i := range items {
		fmt.Fprintf(&b, "- %s: %d %s (mínimo %d)\n",
			items[i].Name, items[i].Quantity, items[i].Unit, items[i].MinQuantity)
	}
	fmt.Fprintf(&b, "\nProvidencie a reposição.\n")

	msg := EmailMessage{
		To:       toEmail,
		Subject:  fmt.Sprintf("[%s] Alerta de estoque baixo: %d itens", s.clinicName, len(items)),
		Body:     b.String(),
		Category: CategoryLowStockAlert,
	}

	if err := s.email.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: send low stock alert: %w", err)
	}
	s.logger.Info("low stock alert sent", "items", len(items), "to", toEmail)
	return nil
}
