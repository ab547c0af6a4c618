package repository

import (
	"github.com/amirphl/desa-ngasem/models"
	"gorm.io/gorm"
)

// List orderings per table. The trailing id keeps ties stable.
const (
	orderNewestFirst     = "created_at DESC, id ASC"
	orderByIndex         = "order_index ASC, id ASC"
	orderByTanggal       = "tanggal DESC, id ASC"
	orderLatestSubmitted = "submitted_at DESC, id ASC"
)

// NewServiceRepository creates a repository for services, newest first
func NewServiceRepository(db *gorm.DB) ServiceRepository {
	return NewBaseRepository[models.Service](db, models.Service{}.TableName(), orderNewestFirst)
}

// NewNewsRepository creates a repository for news articles, newest first
func NewNewsRepository(db *gorm.DB) NewsRepository {
	return NewBaseRepository[models.NewsArticle](db, models.NewsArticle{}.TableName(), orderNewestFirst)
}

// NewVillageOfficialRepository creates a repository for officials ordered by order_index
func NewVillageOfficialRepository(db *gorm.DB) VillageOfficialRepository {
	return NewBaseRepository[models.VillageOfficial](db, models.VillageOfficial{}.TableName(), orderByIndex)
}

// NewFacilityRepository creates a repository for facilities, newest first
func NewFacilityRepository(db *gorm.DB) FacilityRepository {
	return NewBaseRepository[models.Facility](db, models.Facility{}.TableName(), orderNewestFirst)
}

// NewCommunityProgramRepository creates a repository for community programs, newest first
func NewCommunityProgramRepository(db *gorm.DB) CommunityProgramRepository {
	return NewBaseRepository[models.CommunityProgram](db, models.CommunityProgram{}.TableName(), orderNewestFirst)
}

// NewKKNProgramRepository creates a repository for KKN programs, latest period first
func NewKKNProgramRepository(db *gorm.DB) KKNProgramRepository {
	return NewBaseRepository[models.KKNProgram](db, models.KKNProgram{}.TableName(), orderByTanggal)
}

// NewStatisticRepository creates a repository for statistics ordered by order_index
func NewStatisticRepository(db *gorm.DB) StatisticRepository {
	return NewBaseRepository[models.Statistic](db, models.Statistic{}.TableName(), orderByIndex)
}

// NewAchievementRepository creates a repository for achievements ordered by order_index
func NewAchievementRepository(db *gorm.DB) AchievementRepository {
	return NewBaseRepository[models.Achievement](db, models.Achievement{}.TableName(), orderByIndex)
}
