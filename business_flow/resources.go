package businessflow

import (
	"github.com/amirphl/desa-ngasem/app/dto"
	"github.com/amirphl/desa-ngasem/app/services"
	"github.com/amirphl/desa-ngasem/models"
	"github.com/amirphl/desa-ngasem/repository"
)

type (
	ServiceFlow          = ResourceFlow[models.Service, *dto.CreateServiceRequest, *dto.UpdateServiceRequest]
	VillageOfficialFlow  = ResourceFlow[models.VillageOfficial, *dto.CreateVillageOfficialRequest, *dto.UpdateVillageOfficialRequest]
	FacilityFlow         = ResourceFlow[models.Facility, *dto.CreateFacilityRequest, *dto.UpdateFacilityRequest]
	CommunityProgramFlow = ResourceFlow[models.CommunityProgram, *dto.CreateCommunityProgramRequest, *dto.UpdateCommunityProgramRequest]
	KKNProgramFlow       = ResourceFlow[models.KKNProgram, *dto.CreateKKNProgramRequest, *dto.UpdateKKNProgramRequest]
	StatisticFlow        = ResourceFlow[models.Statistic, *dto.CreateStatisticRequest, *dto.UpdateStatisticRequest]
	AchievementFlow      = ResourceFlow[models.Achievement, *dto.CreateAchievementRequest, *dto.UpdateAchievementRequest]
)

func NewServiceFlow(repo repository.ServiceRepository, cache services.ListCache, settings ResourceSettings) ServiceFlow {
	return NewResourceFlow[models.Service, *dto.CreateServiceRequest, *dto.UpdateServiceRequest](repo, cache, settings)
}

func NewVillageOfficialFlow(repo repository.VillageOfficialRepository, cache services.ListCache, settings ResourceSettings) VillageOfficialFlow {
	return NewResourceFlow[models.VillageOfficial, *dto.CreateVillageOfficialRequest, *dto.UpdateVillageOfficialRequest](repo, cache, settings)
}

func NewFacilityFlow(repo repository.FacilityRepository, cache services.ListCache, settings ResourceSettings) FacilityFlow {
	return NewResourceFlow[models.Facility, *dto.CreateFacilityRequest, *dto.UpdateFacilityRequest](repo, cache, settings)
}

func NewCommunityProgramFlow(repo repository.CommunityProgramRepository, cache services.ListCache, settings ResourceSettings) CommunityProgramFlow {
	return NewResourceFlow[models.CommunityProgram, *dto.CreateCommunityProgramRequest, *dto.UpdateCommunityProgramRequest](repo, cache, settings)
}

func NewKKNProgramFlow(repo repository.KKNProgramRepository, cache services.ListCache, settings ResourceSettings) KKNProgramFlow {
	return NewResourceFlow[models.KKNProgram, *dto.CreateKKNProgramRequest, *dto.UpdateKKNProgramRequest](repo, cache, settings)
}

func NewStatisticFlow(repo repository.StatisticRepository, cache services.ListCache, settings ResourceSettings) StatisticFlow {
	return NewResourceFlow[models.Statistic, *dto.CreateStatisticRequest, *dto.UpdateStatisticRequest](repo, cache, settings)
}

func NewAchievementFlow(repo repository.AchievementRepository, cache services.ListCache, settings ResourceSettings) AchievementFlow {
	return NewResourceFlow[models.Achievement, *dto.CreateAchievementRequest, *dto.UpdateAchievementRequest](repo, cache, settings)
}
