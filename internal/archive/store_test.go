package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ortocare/clinic-platform/internal/assessments"
)

// mockS3Client records PutObject/GetObject calls for testing.
type mockS3Client struct {
	putCalls []putCall
	objects  map[string][]byte // key -> body
}

type putCall struct {
	bucket string
	key    string
	body   []byte
}

func newMockS3() *mockS3Client {
	return &mockS3Client{objects: make(map[string][]byte)}
}

func (m *mockS3Client) PutObject(_ context.Context, input *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, _ := io.ReadAll(input.Body)
	m.putCalls = append(m.putCalls, putCall{
		bucket: *input.Bucket,
		key:    *input.Key,
		body:   body,
	})
	m.objects[*input.Key] = body
	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3Client) GetObject(_ context.Context, input *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := m.objects[*input.Key]
	if !ok {
		return nil, &notFoundError{}
	}
	return &s3.GetObjectOutput{
		Body: io.NopCloser(bytes.NewReader(data)),
	}, nil
}

type notFoundError struct{}

func (e *notFoundError) Error() string { return "NoSuchKey: key not found" }

func finishedAssessment(patientID string, finishedAt time.Time) *assessments.ScoliosisData {
	return &assessments.ScoliosisData{
		PatientID:         patientID,
		CobbMainThoracic:  10,
		CobbThoracolumbar: 15,
		CobbLumbar:        8,
		RisserScale:       2,
		ChronologicalAge:  14,
		EVAPain:           4,
		IsFinished:        true,
		FinishedAt:        &finishedAt,
		UpdatedAt:         finishedAt,
	}
}

func TestStore_ArchiveAssessment(t *testing.T) {
	mock := newMockS3()
	store := NewStore(mock, "test-bucket", nil)

	finishedAt := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)
	data := finishedAssessment("pat-001", finishedAt)

	err := store.ArchiveAssessment(context.Background(), data)
	require.NoError(t, err)

	// Two puts: the assessment object and the manifest.
	require.Len(t, mock.putCalls, 2)

	first := mock.putCalls[0]
	assert.Equal(t, "test-bucket", first.bucket)
	assert.Equal(t, "assessments/v1/by-date/2026/09/01/pat-001.json", first.key)

	var stored assessments.ScoliosisData
	require.NoError(t, json.Unmarshal(first.body, &stored))
	assert.Equal(t, "pat-001", stored.PatientID)
	assert.True(t, stored.IsFinished)
}

func TestStore_ManifestEntry(t *testing.T) {
	mock := newMockS3()
	store := NewStore(mock, "test-bucket", nil)

	finishedAt := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)
	require.NoError(t, store.ArchiveAssessment(context.Background(), finishedAssessment("pat-001", finishedAt)))

	manifest := mock.putCalls[1]
	assert.True(t, strings.HasPrefix(manifest.key, "assessments/v1/manifests/"))
	assert.True(t, strings.HasSuffix(manifest.key, ".jsonl"))

	var entry ManifestEntry
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(manifest.body), &entry))
	assert.Equal(t, "pat-001", entry.PatientID)
	assert.Equal(t, 15.0, entry.MaxCobbAngle)
	assert.Equal(t, 0.64, entry.ProgressionFactor)
	assert.Equal(t, "moderate", entry.PainBand)
}

func TestStore_ManifestAppendsLines(t *testing.T) {
	mock := newMockS3()
	store := NewStore(mock, "test-bucket", nil)

	finishedAt := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)
	require.NoError(t, store.ArchiveAssessment(context.Background(), finishedAssessment("pat-001", finishedAt)))
	require.NoError(t, store.ArchiveAssessment(context.Background(), finishedAssessment("pat-002", finishedAt)))

	manifestKey := mock.putCalls[1].key
	lines := strings.Split(strings.TrimSpace(string(mock.objects[manifestKey])), "\n")
	require.Len(t, lines, 2)

	var second ManifestEntry
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "pat-002", second.PatientID)
}

func TestStore_DisabledIsNoOp(t *testing.T) {
	mock := newMockS3()
	store := NewStore(mock, "", nil)

	assert.False(t, store.Enabled())
	err := store.ArchiveAssessment(context.Background(), finishedAssessment("pat-001", time.Now().UTC()))
	require.NoError(t, err)
	assert.Empty(t, mock.putCalls)
}
