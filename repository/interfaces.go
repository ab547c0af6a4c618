// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"

	"github.com/amirphl/desa-ngasem/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

// ErrRecordNotFound is returned by Update when no row has the given id
var ErrRecordNotFound = errors.New("record not found")

// ResourceRepository is the store contract shared by every managed entity type
type ResourceRepository[T any] interface {
	TableName() string
	List(ctx context.Context) ([]*T, error)
	ByID(ctx context.Context, id string) (*T, error)
	Save(ctx context.Context, entity *T) error
	Update(ctx context.Context, id string, entity *T) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// ServiceRepository defines operations for village services
type ServiceRepository interface {
	ResourceRepository[models.Service]
}

// NewsRepository defines operations for news articles
type NewsRepository interface {
	ResourceRepository[models.NewsArticle]
}

// VillageOfficialRepository defines operations for village officials
type VillageOfficialRepository interface {
	ResourceRepository[models.VillageOfficial]
}

// FacilityRepository defines operations for facilities
type FacilityRepository interface {
	ResourceRepository[models.Facility]
}

// CommunityProgramRepository defines operations for community programs
type CommunityProgramRepository interface {
	ResourceRepository[models.CommunityProgram]
}

// KKNProgramRepository defines operations for KKN programs
type KKNProgramRepository interface {
	ResourceRepository[models.KKNProgram]
}

// StatisticRepository defines operations for statistics
type StatisticRepository interface {
	ResourceRepository[models.Statistic]
}

// AchievementRepository defines operations for achievements
type AchievementRepository interface {
	ResourceRepository[models.Achievement]
}

// ServiceApplicationRepository defines operations for service applications
type ServiceApplicationRepository interface {
	ResourceRepository[models.ServiceApplication]
	CountByStatus(ctx context.Context, status string) (int64, error)
}
