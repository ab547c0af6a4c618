package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/desa-ngasem/models"
	"gorm.io/gorm"
)

// ServiceApplicationRepositoryImpl implements ServiceApplicationRepository interface
type ServiceApplicationRepositoryImpl struct {
	*BaseRepository[models.ServiceApplication]
}

// NewServiceApplicationRepository creates a repository for applications, latest submission first
func NewServiceApplicationRepository(db *gorm.DB) ServiceApplicationRepository {
	return &ServiceApplicationRepositoryImpl{
		BaseRepository: NewBaseRepository[models.ServiceApplication](db, models.ServiceApplication{}.TableName(), orderLatestSubmitted),
	}
}

// CountByStatus counts applications in the given lifecycle state
func (r *ServiceApplicationRepositoryImpl) CountByStatus(ctx context.Context, status string) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := db.Model(&models.ServiceApplication{}).Where("status = ?", status).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count applications with status %s: %w", status, err)
	}

	return count, nil
}
