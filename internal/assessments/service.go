package assessments

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ortocare/clinic-platform/pkg/logging"
)

// PatientFlags is the slice of the patient repository the assessment
// flow needs: clearing the pending-evaluation flag on finalize.
type PatientFlags interface {
	SetPendingEval(ctx context.Context, id string, pending bool) error
}

// Archiver stores a finalized assessment outside the session. Archival
// is best effort; failures never block finalization.
type Archiver interface {
	ArchiveAssessment(ctx context.Context, data *ScoliosisData) error
}

// Service owns the session's scoliosis assessments. Opening a patient's
// assessment for the first time creates an empty record in place.
type Service struct {
	mu      sync.RWMutex
	records map[string]*ScoliosisData

	flags    PatientFlags
	archiver Archiver
	logger   *logging.Logger
}

// NewService creates an assessment service. flags and archiver may be
// nil; finalize then skips the respective side effect.
func NewService(flags PatientFlags, archiver Archiver, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		records:  make(map[string]*ScoliosisData),
		flags:    flags,
		archiver: archiver,
		logger:   logger,
	}
}

// Get returns the patient's assessment, creating an empty one on first
// open.
func (s *Service) Get(ctx context.Context, patientID string) (*ScoliosisData, error) {
	if patientID == "" {
		return nil, ErrMissingPatientID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.records[patientID]
	if !ok {
		d = &ScoliosisData{PatientID: patientID, UpdatedAt: time.Now().UTC()}
		s.records[patientID] = d
	}
	out := *d
	return &out, nil
}

// managed keys the merge must never overwrite from request input.
var managedKeys = map[string]bool{
	"patient_id":  true,
	"is_finished": true,
	"finished_at": true,
	"updated_at":  true,
}

// Upsert merges the given fields into the patient's assessment. Fields
// absent from partial stay untouched. Finalized records reject further
// edits.
func (s *Service) Upsert(ctx context.Context, patientID string, partial map[string]any) (*ScoliosisData, error) {
	if patientID == "" {
		return nil, ErrMissingPatientID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.records[patientID]
	if !ok {
		d = &ScoliosisData{PatientID: patientID}
		s.records[patientID] = d
	}
	if d.IsFinished {
		return nil, ErrAlreadyFinished
	}

	merged, err := mergeFields(d, partial)
	if err != nil {
		return nil, err
	}
	if merged.EVAPain < 0 || merged.EVAPain > 10 {
		return nil, ErrInvalidEVA
	}

	merged.PatientID = patientID
	merged.UpdatedAt = time.Now().UTC()
	*d = *merged

	out := *d
	return &out, nil
}

// Finalize marks the assessment finished, clears the patient's
// pending-evaluation flag and archives the record.
func (s *Service) Finalize(ctx context.Context, patientID string) (*ScoliosisData, error) {
	if patientID == "" {
		return nil, ErrMissingPatientID
	}

	s.mu.Lock()
	d, ok := s.records[patientID]
	if !ok {
		d = &ScoliosisData{PatientID: patientID}
		s.records[patientID] = d
	}
	if d.IsFinished {
		s.mu.Unlock()
		return nil, ErrAlreadyFinished
	}
	now := time.Now().UTC()
	d.IsFinished = true
	d.FinishedAt = &now
	d.UpdatedAt = now
	out := *d
	s.mu.Unlock()

	if s.flags != nil {
		if err := s.flags.SetPendingEval(ctx, patientID, false); err != nil {
			s.logger.Warn("failed to clear pending evaluation flag", "patient_id", patientID, "error", err)
		}
	}
	if s.archiver != nil {
		if err := s.archiver.ArchiveAssessment(ctx, &out); err != nil {
			s.logger.Warn("failed to archive assessment", "patient_id", patientID, "error", err)
		}
	}

	return &out, nil
}

func mergeFields(current *ScoliosisData, partial map[string]any) (*ScoliosisData, error) {
	base, err := json.Marshal(current)
	if err != nil {
		return nil, fmt.Errorf("assessments: encode current record: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, fmt.Errorf("assessments: decode current record: %w", err)
	}
	for k, v := range partial {
		if managedKeys[k] {
			continue
		}
		fields[k] = v
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("assessments: encode merged record: %w", err)
	}
	var merged ScoliosisData
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, fmt.Errorf("assessments: invalid field value: %w", err)
	}
	return &merged, nil
}
