package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/vidrios-leads-api/internal/dto"
	"github.com/noah-isme/vidrios-leads-api/internal/models"
	"github.com/noah-isme/vidrios-leads-api/internal/testutil"
	appErrors "github.com/noah-isme/vidrios-leads-api/pkg/errors"
)

func newSubmissionServiceForTest(t *testing.T) (*SubmissionService, *testutil.SubmissionStore) {
	t.Helper()
	store := testutil.NewSubmissionStore()
	return NewSubmissionService(store, nil, zap.NewNop(), NewMetricsService()), store
}

func validRequest() dto.CreateSubmissionRequest {
	return dto.CreateSubmissionRequest{
		Name:         "Ana Pérez",
		Phone:        "+56 9 1234 5678",
		Email:        "ana@example.com",
		Measurements: "120x80",
	}
}

func TestSubmissionServiceCreate(t *testing.T) {
	svc, store := newSubmissionServiceForTest(t)
	before := time.Now().UTC()

	req := validRequest()
	req.Name = "  Ana Pérez  "
	created, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Ana Pérez", created.Name)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.False(t, created.ReceivedAt.Before(before))
	assert.Equal(t, time.UTC, created.ReceivedAt.Location())
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 1.0, counterValue(t, svc.metrics, "submissions_created_total"))
}

func TestSubmissionServiceCreateMeasurementsOptional(t *testing.T) {
	svc, _ := newSubmissionServiceForTest(t)
	req := validRequest()
	req.Measurements = ""

	created, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "", created.Measurements)
}

func TestSubmissionServiceCreateRejectsMissingFields(t *testing.T) {
	cases := map[string]func(*dto.CreateSubmissionRequest){
		"missing name":     func(r *dto.CreateSubmissionRequest) { r.Name = "" },
		"blank phone":      func(r *dto.CreateSubmissionRequest) { r.Phone = "   " },
		"missing email":    func(r *dto.CreateSubmissionRequest) { r.Email = "" },
		"everything empty": func(r *dto.CreateSubmissionRequest) { *r = dto.CreateSubmissionRequest{} },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			svc, store := newSubmissionServiceForTest(t)
			req := validRequest()
			mutate(&req)

			_, err := svc.Create(context.Background(), req)
			require.Error(t, err)
			assert.ErrorIs(t, err, appErrors.ErrValidation)
			assert.Equal(t, 0, store.Len())
		})
	}
}

func TestSubmissionServiceCreateStorageFailure(t *testing.T) {
	svc, store := newSubmissionServiceForTest(t)
	store.Err = errors.New("connection refused")

	_, err := svc.Create(context.Background(), validRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrStorage)
	assert.NotContains(t, appErrors.FromError(err).Message, "connection refused")
}

func TestSubmissionServiceListNewestFirst(t *testing.T) {
	svc, _ := newSubmissionServiceForTest(t)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	var ids []string
	for i := 0; i < 4; i++ {
		created, err := svc.Create(context.Background(), validRequest())
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	first, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 4)
	for i, item := range first {
		assert.Equal(t, ids[len(ids)-1-i], item.ID)
	}

	second, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSubmissionServiceListEmpty(t *testing.T) {
	svc, _ := newSubmissionServiceForTest(t)
	items, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestSubmissionServiceListStorageFailure(t *testing.T) {
	svc, store := newSubmissionServiceForTest(t)
	store.Err = errors.New("timeout")

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, appErrors.ErrStorage)
}

func TestSubmissionServiceUpdateStatus(t *testing.T) {
	svc, _ := newSubmissionServiceForTest(t)
	created, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	// Transitions are unrestricted, including out of done.
	for _, status := range []models.SubmissionStatus{models.StatusDone, models.StatusSpecial, models.StatusPending, models.StatusAnswered} {
		updated, err := svc.UpdateStatus(context.Background(), created.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
		assert.Equal(t, created.ID, updated.ID)
		assert.True(t, created.ReceivedAt.Equal(updated.ReceivedAt))
		assert.Equal(t, created.Name, updated.Name)
	}
}

func TestSubmissionServiceUpdateStatusAcceptsLegacyValues(t *testing.T) {
	svc, store := newSubmissionServiceForTest(t)
	created, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	cases := map[models.SubmissionStatus]models.SubmissionStatus{
		"terminado":  models.StatusDone,
		"proceso":    models.StatusInProgress,
		"contestado": models.StatusAnswered,
		"especial":   models.StatusSpecial,
		"pendiente":  models.StatusPending,
	}
	for legacy, want := range cases {
		updated, err := svc.UpdateStatus(context.Background(), created.ID, legacy)
		require.NoError(t, err, legacy)
		assert.Equal(t, want, updated.Status)

		stored, err := store.FindByID(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, want, stored.Status)
	}
}

func TestSubmissionServiceUpdateStatusLogsPreviousStatus(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	store := testutil.NewSubmissionStore()
	svc := NewSubmissionService(store, nil, zap.New(core), nil)

	created, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), created.ID, models.StatusAnswered)
	require.NoError(t, err)

	entries := logs.FilterMessage("submission status updated").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, created.ID, fields["submission_id"])
	assert.Equal(t, "pending", fields["previous_status"])
	assert.Equal(t, "answered", fields["status"])
}

func TestSubmissionServiceUpdateStatusRejectsUnknownValue(t *testing.T) {
	svc, store := newSubmissionServiceForTest(t)
	created, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), created.ID, models.StatusDone)
	require.NoError(t, err)

	for _, bogus := range []models.SubmissionStatus{"", "archived", "DONE", "Pendiente"} {
		_, err := svc.UpdateStatus(context.Background(), created.ID, bogus)
		assert.ErrorIs(t, err, appErrors.ErrValidation, "status %q", bogus)
	}

	stored, err := store.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDone, stored.Status)
}

func TestSubmissionServiceUpdateStatusValidatesBeforeStore(t *testing.T) {
	svc, store := newSubmissionServiceForTest(t)
	store.Err = errors.New("down")

	_, err := svc.UpdateStatus(context.Background(), "any", "bogus")
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestSubmissionServiceUpdateStatusNotFound(t *testing.T) {
	svc, _ := newSubmissionServiceForTest(t)

	_, err := svc.UpdateStatus(context.Background(), "0190a8f5-0000-7000-8000-000000000000", models.StatusPending)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.UpdateStatus(context.Background(), "not-an-id", models.StatusPending)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestSubmissionServiceUpdateStatusStorageFailure(t *testing.T) {
	svc, store := newSubmissionServiceForTest(t)
	store.Err = errors.New("write conflict")

	_, err := svc.UpdateStatus(context.Background(), "id", models.StatusDone)
	assert.ErrorIs(t, err, appErrors.ErrStorage)
}

func TestSubmissionServiceExport(t *testing.T) {
	svc, _ := newSubmissionServiceForTest(t)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC) }
	_, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	csvFile, err := svc.Export(context.Background(), ExportCSV)
	require.NoError(t, err)
	assert.Equal(t, "solicitudes-20240501.csv", csvFile.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", csvFile.ContentType)
	assert.Contains(t, string(csvFile.Body), "Ana Pérez")
	assert.Contains(t, string(csvFile.Body), "2024-05-01T09:30:00Z")

	pdfFile, err := svc.Export(context.Background(), ExportPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", pdfFile.ContentType)
	assert.True(t, bytes.HasPrefix(pdfFile.Body, []byte("%PDF")))

	defaulted, err := svc.Export(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv; charset=utf-8", defaulted.ContentType)
}

func TestSubmissionServiceExportUnknownFormat(t *testing.T) {
	svc, _ := newSubmissionServiceForTest(t)
	_, err := svc.Export(context.Background(), "xlsx")
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestSubmissionServicePing(t *testing.T) {
	svc, store := newSubmissionServiceForTest(t)
	require.NoError(t, svc.Ping(context.Background()))

	store.Err = errors.New("down")
	assert.ErrorIs(t, svc.Ping(context.Background()), appErrors.ErrStorage)
}

func counterValue(t *testing.T, m *MetricsService, name string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		var total float64
		for _, metric := range family.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
		return total
	}
	return 0
}
