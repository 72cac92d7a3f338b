package assessments

import (
	"math"
	"time"
)

// ScoliosisData is the flat clinical assessment record. Every
// measurement is optional; the form is filled field by field across
// visits and only finalized once the evaluation is complete.
type ScoliosisData struct {
	PatientID string `json:"patient_id"`

	// Anamnesis
	ChiefComplaint      string `json:"chief_complaint,omitempty"`
	DiagnosisDate       string `json:"diagnosis_date,omitempty"`
	FamilyHistory       bool   `json:"family_history,omitempty"`
	FamilyHistoryDetail string `json:"family_history_detail,omitempty"`
	Menarche            bool   `json:"menarche,omitempty"`
	MenarcheAge         int    `json:"menarche_age,omitempty"`
	ChronologicalAge    int    `json:"chronological_age,omitempty"`
	BoneAge             int    `json:"bone_age,omitempty"`
	HeightCm            float64 `json:"height_cm,omitempty"`
	WeightKg            float64 `json:"weight_kg,omitempty"`
	SittingHeightCm     float64 `json:"sitting_height_cm,omitempty"`

	// Radiographic measurements
	CobbProximalThoracic  float64 `json:"cobb_proximal_thoracic,omitempty"`
	CobbMainThoracic      float64 `json:"cobb_main_thoracic,omitempty"`
	CobbThoracolumbar     float64 `json:"cobb_thoracolumbar,omitempty"`
	CobbLumbar            float64 `json:"cobb_lumbar,omitempty"`
	RisserScale           int     `json:"risser_scale,omitempty"`
	ApicalVertebra        string  `json:"apical_vertebra,omitempty"`
	CurveDirection        string  `json:"curve_direction,omitempty"`
	CurvePattern          string  `json:"curve_pattern,omitempty"`
	KyphosisAngle         float64 `json:"kyphosis_angle,omitempty"`
	LordosisAngle         float64 `json:"lordosis_angle,omitempty"`
	PelvicObliquity       float64 `json:"pelvic_obliquity,omitempty"`
	SagittalBalanceMm     float64 `json:"sagittal_balance_mm,omitempty"`
	CoronalBalanceMm      float64 `json:"coronal_balance_mm,omitempty"`
	VertebralRotation     string  `json:"vertebral_rotation,omitempty"`

	// Physical examination
	TrunkRotationAngle   float64 `json:"trunk_rotation_angle,omitempty"`
	AdamsTestPositive    bool    `json:"adams_test_positive,omitempty"`
	ShoulderAsymmetry    bool    `json:"shoulder_asymmetry,omitempty"`
	ScapularAsymmetry    bool    `json:"scapular_asymmetry,omitempty"`
	WaistAsymmetry       bool    `json:"waist_asymmetry,omitempty"`
	PlumbLineDeviationMm float64 `json:"plumb_line_deviation_mm,omitempty"`
	LegLengthDiscrepancy float64 `json:"leg_length_discrepancy,omitempty"`
	GaitObservation      string  `json:"gait_observation,omitempty"`
	MuscleStrengthNotes  string  `json:"muscle_strength_notes,omitempty"`
	FlexibilityNotes     string  `json:"flexibility_notes,omitempty"`
	NeurologicalFindings string  `json:"neurological_findings,omitempty"`

	// Pain
	EVAPain         int    `json:"eva_pain,omitempty"`
	PainLocation    string `json:"pain_location,omitempty"`
	PainFrequency   string `json:"pain_frequency,omitempty"`
	PainAggravators string `json:"pain_aggravators,omitempty"`

	// Respiratory
	RespiratoryRestriction bool    `json:"respiratory_restriction,omitempty"`
	VitalCapacityPct       float64 `json:"vital_capacity_pct,omitempty"`

	// Treatment plan
	BraceIndicated    bool   `json:"brace_indicated,omitempty"`
	BraceType         string `json:"brace_type,omitempty"`
	BraceHoursPerDay  int    `json:"brace_hours_per_day,omitempty"`
	SurgeryIndicated  bool   `json:"surgery_indicated,omitempty"`
	PhysioPlan        string `json:"physio_plan,omitempty"`
	ExerciseProtocol  string `json:"exercise_protocol,omitempty"`
	ReassessmentDate  string `json:"reassessment_date,omitempty"`
	ClinicalReasoning string `json:"clinical_reasoning,omitempty"`
	GeneralNotes      string `json:"general_notes,omitempty"`

	IsFinished  bool       `json:"is_finished"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// MaxCobb returns the largest of the four Cobb angles.
func (d *ScoliosisData) MaxCobb() float64 {
	max := d.CobbProximalThoracic
	for _, v := range []float64{d.CobbMainThoracic, d.CobbThoracolumbar, d.CobbLumbar} {
		if v > max {
			max = v
		}
	}
	return max
}

// ProgressionFactor derives the curve-progression risk estimate:
// (max Cobb angle − 3 × Risser) / chronological age. A zero age yields
// zero rather than a division error.
func (d *ScoliosisData) ProgressionFactor() float64 {
	if d.ChronologicalAge == 0 {
		return 0
	}
	return (d.MaxCobb() - 3*float64(d.RisserScale)) / float64(d.ChronologicalAge)
}

// RoundedProgressionFactor is ProgressionFactor at the two-decimal
// precision the form displays.
func (d *ScoliosisData) RoundedProgressionFactor() float64 {
	return math.Round(d.ProgressionFactor()*100) / 100
}

// PainBand is the color band the EVA pain scale maps onto.
type PainBand string

const (
	PainCalm     PainBand = "calm"
	PainModerate PainBand = "moderate"
	PainElevated PainBand = "elevated"
	PainCritical PainBand = "critical"
)

// PainBandFor maps a 0-10 EVA score onto its band.
func PainBandFor(eva int) PainBand {
	switch {
	case eva <= 2:
		return PainCalm
	case eva <= 5:
		return PainModerate
	case eva <= 7:
		return PainElevated
	default:
		return PainCritical
	}
}
