// Package archive persists finalized scoliosis assessments to S3 so the
// clinical history survives beyond the session store.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ortocare/clinic-platform/internal/assessments"
	"github.com/ortocare/clinic-platform/pkg/logging"
)

// S3API is the subset of the S3 client used by Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Store archives finalized assessments to S3. It implements
// assessments.Archiver.
type Store struct {
	bucket   string
	s3Client S3API
	logger   *logging.Logger
}

// NewStore creates an archive Store. If bucket is empty, all operations
// are no-ops.
func NewStore(s3Client S3API, bucket string, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{bucket: bucket, s3Client: s3Client, logger: logger}
}

// Enabled returns true if archival is configured (bucket is set).
func (s *Store) Enabled() bool {
	return s != nil && s.bucket != "" && s.s3Client != nil
}

// ArchiveAssessment writes a finalized assessment as JSON to S3 and
// appends to the monthly manifest.
func (s *Store) ArchiveAssessment(ctx context.Context, data *assessments.ScoliosisData) error {
	if !s.Enabled() {
		return nil
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("archive: marshal assessment: %w", err)
	}

	now := time.Now().UTC()
	if data.FinishedAt != nil {
		now = data.FinishedAt.UTC()
	}

	s3Key := fmt.Sprintf("assessments/v1/by-date/%d/%02d/%02d/%s.json",
		now.Year(), now.Month(), now.Day(), data.PatientID)

	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s3Key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("archive: s3 put %s: %w", s3Key, err)
	}

	s.logger.Info("archived assessment to S3",
		"patient_id", data.PatientID,
		"s3_key", s3Key,
		"max_cobb", data.MaxCobb(),
	)

	entry := ManifestEntry{
		PatientID:         data.PatientID,
		S3Key:             s3Key,
		MaxCobbAngle:      data.MaxCobb(),
		ProgressionFactor: data.RoundedProgressionFactor(),
		PainBand:          string(assessments.PainBandFor(data.EVAPain)),
		ArchivedAt:        now.Format(time.RFC3339),
	}

	if err := s.AppendManifest(ctx, entry); err != nil {
		// Log but don't fail — the assessment is already archived
		s.logger.Warn("failed to append manifest", "error", err, "patient_id", data.PatientID)
	}

	return nil
}

// AppendManifest appends a JSONL line to the monthly manifest file.
// Uses read-modify-write since S3 doesn't support append.
func (s *Store) AppendManifest(ctx context.Context, entry ManifestEntry) error {
	if !s.Enabled() {
		return nil
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("archive: marshal manifest entry: %w", err)
	}

	now := time.Now().UTC()
	manifestKey := fmt.Sprintf("assessments/v1/manifests/%d-%02d.jsonl", now.Year(), now.Month())

	var existing []byte
	getResp, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(manifestKey),
	})
	if err != nil {
		// Absent manifest means this is the first entry of the month.
		s.logger.Debug("manifest not found, creating new", "key", manifestKey)
	} else {
		existing, _ = io.ReadAll(getResp.Body)
		getResp.Body.Close()
	}

	var buf bytes.Buffer
	if len(existing) > 0 {
		buf.Write(existing)
		if existing[len(existing)-1] != '\n' {
			buf.WriteByte('\n')
		}
	}
	buf.Write(line)
	buf.WriteByte('\n')

	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(manifestKey),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("application/x-ndjson"),
	})
	if err != nil {
		return fmt.Errorf("archive: s3 put manifest: %w", err)
	}

	return nil
}
