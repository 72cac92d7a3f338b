package archive

// ManifestEntry is one JSONL line in the monthly manifest, a compact
// index over the archived assessment objects.
type ManifestEntry struct {
	PatientID         string  `json:"patient_id"`
	S3Key             string  `json:"s3_key"`
	MaxCobbAngle      float64 `json:"max_cobb_angle"`
	ProgressionFactor float64 `json:"progression_factor"`
	PainBand          string  `json:"pain_band"`
	ArchivedAt        string  `json:"archived_at"`
}
