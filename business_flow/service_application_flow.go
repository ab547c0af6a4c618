package businessflow

import (
	"context"
	"fmt"
	"time"

	"github.com/amirphl/desa-ngasem/app/dto"
	"github.com/amirphl/desa-ngasem/app/services"
	"github.com/amirphl/desa-ngasem/models"
	"github.com/amirphl/desa-ngasem/repository"
	"github.com/amirphl/desa-ngasem/utils"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const applicationsSheet = "Applications"

// ServiceApplicationFlow manages residents' service applications
type ServiceApplicationFlow interface {
	ResourceFlow[models.ServiceApplication, *dto.CreateServiceApplicationRequest, *dto.UpdateServiceApplicationRequest]
	// Submit records a public submission as pending; the service must exist and be active
	Submit(ctx context.Context, req *dto.SubmitApplicationRequest) (*models.ServiceApplication, error)
	// Export renders every application as an xlsx workbook
	Export(ctx context.Context) (string, []byte, error)
	CountPending(ctx context.Context) (int, error)
}

type ServiceApplicationFlowImpl struct {
	*ResourceFlowImpl[models.ServiceApplication, *dto.CreateServiceApplicationRequest, *dto.UpdateServiceApplicationRequest]
	services ServiceFlow
}

func NewServiceApplicationFlow(repo repository.ServiceApplicationRepository, cache services.ListCache, serviceFlow ServiceFlow, settings ResourceSettings) ServiceApplicationFlow {
	base := NewResourceFlow[models.ServiceApplication, *dto.CreateServiceApplicationRequest, *dto.UpdateServiceApplicationRequest](repo, cache, settings).
		WithBeforeWrite(stampSubmittedAt)

	return &ServiceApplicationFlowImpl{
		ResourceFlowImpl: base,
		services:         serviceFlow,
	}
}

func stampSubmittedAt(a *models.ServiceApplication, now time.Time) {
	if a.SubmittedAt.IsZero() {
		a.SubmittedAt = now
	}
}

func (f *ServiceApplicationFlowImpl) Submit(ctx context.Context, req *dto.SubmitApplicationRequest) (*models.ServiceApplication, error) {
	if err := validateRequest(f.validate, f.Resource(), req); err != nil {
		return nil, err
	}

	service, err := f.services.Get(ctx, req.ServiceID)
	if err != nil {
		if IsRecordNotFound(err) {
			return nil, NewBusinessError("SERVICE_NOT_AVAILABLE", "Service not found", ErrServiceNotAvailable)
		}
		return nil, err
	}
	if !service.IsPublic() {
		return nil, NewBusinessError("SERVICE_NOT_AVAILABLE", "Service is not accepting applications", ErrServiceNotAvailable)
	}

	application, err := f.Create(ctx, req.ToCreateRequest())
	if err != nil {
		return nil, err
	}

	f.logger.Info("Service application submitted",
		zap.String("application_id", application.ID),
		zap.String("service_id", application.ServiceID))
	return application, nil
}

func (f *ServiceApplicationFlowImpl) CountPending(ctx context.Context) (int, error) {
	items, err := f.List(ctx)
	if err != nil {
		return 0, err
	}
	pending := 0
	for _, a := range items {
		if a.Status == models.ApplicationStatusPending {
			pending++
		}
	}
	return pending, nil
}

func (f *ServiceApplicationFlowImpl) Export(ctx context.Context) (string, []byte, error) {
	applications, err := f.List(ctx)
	if err != nil {
		return "", nil, err
	}

	// Service names are a convenience; an unavailable service list only blanks the column
	serviceNames := make(map[string]string)
	if list, err := f.services.List(ctx); err != nil {
		f.logger.Warn("Failed to load services for export", zap.Error(err))
	} else {
		for _, s := range list {
			serviceNames[s.ID] = s.Name
		}
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	xl.SetSheetName(xl.GetSheetName(0), applicationsSheet)

	header := []string{"no", "submitted_at", "service", "applicant_name", "nik", "phone", "email", "address", "notes", "status", "admin_notes"}
	if err := xl.SetSheetRow(applicationsSheet, "A1", &header); err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel header", err)
	}

	for i, a := range applications {
		serviceName, ok := serviceNames[a.ServiceID]
		if !ok {
			serviceName = a.ServiceID
		}
		record := []any{
			i + 1,
			a.SubmittedAt.UTC().Format(time.RFC3339),
			serviceName,
			a.ApplicantName,
			utils.Deref(a.NIK),
			a.Phone,
			utils.Deref(a.Email),
			utils.Deref(a.Address),
			utils.Deref(a.Notes),
			a.Status,
			utils.Deref(a.AdminNotes),
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := xl.SetSheetRow(applicationsSheet, cellRef, &record); err != nil {
			return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel row", err)
		}
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}
	filename := fmt.Sprintf("service_applications_%s.xlsx", f.now().Format("20060102"))
	return filename, buf.Bytes(), nil
}
