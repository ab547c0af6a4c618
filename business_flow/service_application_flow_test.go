package businessflow

import (
	"bytes"
	"context"
	"testing"

	"github.com/amirphl/desa-ngasem/app/dto"
	"github.com/amirphl/desa-ngasem/models"
	"github.com/amirphl/desa-ngasem/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type applicationFixture struct {
	serviceRepo     *fakeRepo[models.Service]
	applicationRepo fakeApplicationRepo
	cache           *recordingCache
	services        ServiceFlow
	flow            ServiceApplicationFlow
}

func newApplicationFixture() *applicationFixture {
	f := &applicationFixture{
		serviceRepo:     newServiceRepo(),
		applicationRepo: newApplicationRepo(),
		cache:           newRecordingCache(),
	}
	f.services = NewServiceFlow(f.serviceRepo, f.cache, testSettings(nil))
	f.flow = NewServiceApplicationFlow(f.applicationRepo, f.cache, f.services, testSettings(nil))
	return f
}

func (f *applicationFixture) service(t *testing.T, name, status string) *models.Service {
	t.Helper()
	s, err := f.services.Create(context.Background(), &dto.CreateServiceRequest{Name: name, Status: status})
	require.NoError(t, err)
	return s
}

func submission(serviceID string) *dto.SubmitApplicationRequest {
	return &dto.SubmitApplicationRequest{
		ServiceID:     serviceID,
		ApplicantName: "Siti Aminah",
		NIK:           utils.ToPtr("3506123456789012"),
		Phone:         "081234567890",
		Email:         utils.ToPtr("siti@example.com"),
		Notes:         utils.ToPtr("Untuk keperluan sekolah"),
	}
}

func TestServiceApplicationFlow_Submit(t *testing.T) {
	f := newApplicationFixture()
	service := f.service(t, "Surat Domisili", models.StatusActive)

	application, err := f.flow.Submit(context.Background(), submission(service.ID))
	require.NoError(t, err)
	assert.NotEmpty(t, application.ID)
	assert.Equal(t, models.ApplicationStatusPending, application.Status)
	assert.Equal(t, service.ID, application.ServiceID)
	assert.True(t, application.SubmittedAt.Equal(fixedNow))
	assert.Equal(t, 1, f.cache.invalidations("service_applications"))
}

func TestServiceApplicationFlow_SubmitRejectsUnavailableService(t *testing.T) {
	f := newApplicationFixture()
	inactive := f.service(t, "Surat Lama", models.StatusInactive)

	for name, serviceID := range map[string]string{
		"inactive": inactive.ID,
		"missing":  uuid.NewString(),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.flow.Submit(context.Background(), submission(serviceID))
			require.Error(t, err)
			assert.True(t, IsServiceNotAvailable(err))
			assert.Equal(t, "SERVICE_NOT_AVAILABLE", businessCode(err))
		})
	}

	_, saves := f.applicationRepo.calls()
	assert.Zero(t, saves)
}

func TestServiceApplicationFlow_SubmitValidation(t *testing.T) {
	f := newApplicationFixture()
	service := f.service(t, "Surat Domisili", models.StatusActive)

	tests := []struct {
		name   string
		mutate func(*dto.SubmitApplicationRequest)
		field  string
	}{
		{name: "blank applicant", mutate: func(r *dto.SubmitApplicationRequest) { r.ApplicantName = "  " }, field: "applicant_name"},
		{name: "short nik", mutate: func(r *dto.SubmitApplicationRequest) { r.NIK = utils.ToPtr("123") }, field: "nik"},
		{name: "bad email", mutate: func(r *dto.SubmitApplicationRequest) { r.Email = utils.ToPtr("not-an-email") }, field: "email"},
		{name: "bad service id", mutate: func(r *dto.SubmitApplicationRequest) { r.ServiceID = "abc" }, field: "service_id"},
		{name: "missing phone", mutate: func(r *dto.SubmitApplicationRequest) { r.Phone = "" }, field: "phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := submission(service.ID)
			tt.mutate(req)

			_, err := f.flow.Submit(context.Background(), req)
			require.Error(t, err)
			assert.True(t, IsValidationError(err))
			fields := ValidationFields(err)
			require.Len(t, fields, 1)
			assert.Equal(t, tt.field, fields[0].Field)
		})
	}

	// Optional fields may be left out
	req := submission(service.ID)
	req.NIK = nil
	req.Email = nil
	_, err := f.flow.Submit(context.Background(), req)
	assert.NoError(t, err)
}

func TestServiceApplicationFlow_AdminUpdateAndCountPending(t *testing.T) {
	f := newApplicationFixture()
	service := f.service(t, "Surat Domisili", models.StatusActive)
	ctx := context.Background()

	first, err := f.flow.Submit(ctx, submission(service.ID))
	require.NoError(t, err)
	_, err = f.flow.Submit(ctx, submission(service.ID))
	require.NoError(t, err)

	pending, err := f.flow.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, pending)

	approved, err := f.flow.Update(ctx, first.ID, &dto.UpdateServiceApplicationRequest{
		Status:     utils.ToPtr(models.ApplicationStatusApproved),
		AdminNotes: utils.ToPtr("Silakan ambil di kantor desa"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusApproved, approved.Status)
	assert.True(t, approved.SubmittedAt.Equal(fixedNow))

	pending, err = f.flow.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, pending)

	_, err = f.flow.Update(ctx, first.ID, &dto.UpdateServiceApplicationRequest{Status: utils.ToPtr("done")})
	assert.True(t, IsValidationError(err))

	public, err := f.flow.ListPublic(ctx)
	require.NoError(t, err)
	assert.Empty(t, public)
}

func TestServiceApplicationFlow_Export(t *testing.T) {
	f := newApplicationFixture()
	service := f.service(t, "Surat Domisili", models.StatusActive)
	ctx := context.Background()

	_, err := f.flow.Submit(ctx, submission(service.ID))
	require.NoError(t, err)

	orphan := uuid.NewString()
	_, err = f.flow.Create(ctx, &dto.CreateServiceApplicationRequest{
		ServiceID:     orphan,
		ApplicantName: "Budi",
		Phone:         "0811111111",
		Status:        models.ApplicationStatusRejected,
	})
	require.NoError(t, err)

	filename, data, err := f.flow.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, "service_applications_20261015.xlsx", filename)

	xl, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer xl.Close()

	rows, err := xl.GetRows(applicationsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"no", "submitted_at", "service", "applicant_name", "nik", "phone", "email", "address", "notes", "status", "admin_notes"}, rows[0])

	// Newest first: the admin-created row was saved last
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, orphan, rows[1][2])
	assert.Equal(t, "Budi", rows[1][3])
	assert.Equal(t, models.ApplicationStatusRejected, rows[1][9])

	assert.Equal(t, "2", rows[2][0])
	assert.Equal(t, "Surat Domisili", rows[2][2])
	assert.Equal(t, "Siti Aminah", rows[2][3])
	assert.Equal(t, "3506123456789012", rows[2][4])
	assert.Equal(t, "2026-10-15T08:30:00Z", rows[2][1])
}

func TestServiceApplicationFlow_ExportEmpty(t *testing.T) {
	f := newApplicationFixture()

	_, data, err := f.flow.Export(context.Background())
	require.NoError(t, err)

	xl, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer xl.Close()

	rows, err := xl.GetRows(applicationsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
