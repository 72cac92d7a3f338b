// Package seed provides the static datasets a session starts from when
// no realtime backend is configured.
package seed

import (
	"time"

	"github.com/ortocare/clinic-platform/internal/appointments"
	"github.com/ortocare/clinic-platform/internal/inventory"
	"github.com/ortocare/clinic-platform/internal/patients"
	"github.com/ortocare/clinic-platform/internal/workshop"
)

var seededAt = time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

// Patients returns the demo patient roster.
func Patients() []patients.Patient {
	return []patients.Patient{
		{
			ID:                "pat-001",
			Name:              "Maria Clara Souza",
			Email:             "maria.souza@example.com",
			Phone:             "+55 11 98877-1001",
			BirthDate:         "2012-03-14",
			Condition:         "Escoliose idiopática do adolescente",
			Categories:        []string{"escoliose", "fisioterapia"},
			Notes: []patients.ClinicalNote{
				{
					ID:        "note-001",
					Author:    "Dra. Fernanda Lima",
					Text:      "Primeira avaliação. Curva torácica direita visível no teste de Adams.",
					CreatedAt: seededAt,
				},
			},
			PendingPhysioEval: true,
			CreatedAt:         seededAt,
		},
		{
			ID:         "pat-002",
			Name:       "João Pedro Almeida",
			Email:      "joao.almeida@example.com",
			Phone:      "+55 11 98877-1002",
			BirthDate:  "1958-10-02",
			Condition:  "Amputação transtibial esquerda",
			Categories: []string{"prótese", "oficina"},
			Notes:      []patients.ClinicalNote{},
			CreatedAt:  seededAt,
		},
		{
			ID:                "pat-003",
			Name:              "Ana Beatriz Rocha",
			Phone:             "+55 11 98877-1003",
			BirthDate:         "2015-07-22",
			Condition:         "Pé torto congênito",
			Categories:        []string{"órtese", "pediatria"},
			Notes:             []patients.ClinicalNote{},
			PendingPhysioEval: true,
			CreatedAt:         seededAt,
		},
	}
}

// WorkOrders returns the demo production pipeline.
func WorkOrders() []workshop.WorkOrder {
	return []workshop.WorkOrder{
		{
			ID:          "ord-001",
			PatientID:   "pat-001",
			PatientName: "Maria Clara Souza",
			Product:     "Colete de Boston",
			Status:      workshop.StatusMolding,
			Deadline:    "2026-09-15",
			PriceCents:  380000,
			CreatedAt:   seededAt,
		},
		{
			ID:          "ord-002",
			PatientID:   "pat-002",
			PatientName: "João Pedro Almeida",
			Product:     "Prótese transtibial modular",
			Status:      workshop.StatusManufacturing,
			Deadline:    "2026-09-30",
			PriceCents:  1250000,
			CreatedAt:   seededAt,
		},
		{
			ID:          "ord-003",
			PatientID:   "pat-003",
			PatientName: "Ana Beatriz Rocha",
			Product:     "Órtese suropodálica bilateral",
			Status:      workshop.StatusDelivered,
			Deadline:    "2026-08-10",
			PriceCents:  98000,
			CreatedAt:   seededAt,
		},
	}
}

// InventoryItems returns the demo supply stock.
func InventoryItems() []inventory.Item {
	return []inventory.Item{
		{ID: "inv-001", Name: "Resina acrílica", Category: inventory.CategoryResins, Quantity: 4, Unit: "kg", MinQuantity: 5},
		{ID: "inv-002", Name: "Chapa de polipropileno 4mm", Category: inventory.CategoryComponents, Quantity: 18, Unit: "un", MinQuantity: 6},
		{ID: "inv-003", Name: "Tubo de alumínio 30mm", Category: inventory.CategoryMetals, Quantity: 12, Unit: "un", MinQuantity: 4},
		{ID: "inv-004", Name: "Velcro autoadesivo 50mm", Category: inventory.CategoryFabrics, Quantity: 9, Unit: "m", MinQuantity: 10},
		{ID: "inv-005", Name: "Espuma EVA 10mm", Category: inventory.CategoryOther, Quantity: 25, Unit: "placa", MinQuantity: 8},
	}
}

// Appointments returns the demo agenda.
func Appointments() []appointments.Appointment {
	return []appointments.Appointment{
		{
			ID:          "apt-001",
			PatientID:   "pat-001",
			PatientName: "Maria Clara Souza",
			Date:        "2026-09-03",
			Time:        "14:00",
			Type:        appointments.TypePhysio,
			Status:      "scheduled",
			CreatedAt:   seededAt,
		},
		{
			ID:          "apt-002",
			PatientID:   "pat-002",
			PatientName: "João Pedro Almeida",
			Date:        "2026-09-03",
			Time:        "08:00",
			Type:        appointments.TypeWorkshop,
			Status:      "scheduled",
			CreatedAt:   seededAt,
		},
		{
			ID:          "apt-003",
			PatientID:   "pat-003",
			PatientName: "Ana Beatriz Rocha",
			Date:        "2026-09-03",
			Time:        "10:30",
			Type:        appointments.TypePhysio,
			Status:      "confirmed",
			CreatedAt:   seededAt,
		},
	}
}
