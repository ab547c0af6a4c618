package testing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/amirphl/desa-ngasem/models"
	"github.com/amirphl/desa-ngasem/utils"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestService inserts a service with the given status
func (tf *TestFixtures) CreateTestService(status string) (*models.Service, error) {
	service := &models.Service{
		Name:         fmt.Sprintf("Surat Keterangan %d", rand.Intn(100000)),
		Description:  utils.ToPtr("Surat keterangan domisili untuk warga desa"),
		Requirements: utils.ToPtr("KTP, KK"),
		ProcessTime:  utils.ToPtr("1 hari"),
		Cost:         utils.ToPtr("Gratis"),
		Status:       status,
	}
	if err := tf.DB.DB.Create(service).Error; err != nil {
		return nil, fmt.Errorf("failed to create test service: %w", err)
	}
	return service, nil
}

// CreateTestNews inserts a news article; published articles get a published_at stamp
func (tf *TestFixtures) CreateTestNews(status string) (*models.NewsArticle, error) {
	article := &models.NewsArticle{
		Title:   fmt.Sprintf("Kerja Bakti %d", rand.Intn(100000)),
		Content: "Warga desa bergotong royong membersihkan **saluran air**.",
		Author:  utils.ToPtr("Admin Desa"),
		Tags:    []string{"kegiatan", "warga"},
		Status:  status,
	}
	if status == models.NewsStatusPublished {
		article.PublishedAt = utils.ToPtr(utils.UTCNow())
	}
	if err := tf.DB.DB.Create(article).Error; err != nil {
		return nil, fmt.Errorf("failed to create test news: %w", err)
	}
	return article, nil
}

// CreateTestApplication inserts a pending application for serviceID
func (tf *TestFixtures) CreateTestApplication(serviceID string) (*models.ServiceApplication, error) {
	application := &models.ServiceApplication{
		ServiceID:     serviceID,
		ApplicantName: "Siti Aminah",
		NIK:           utils.ToPtr(fmt.Sprintf("35%014d", rand.Int63n(100000000000000))),
		Phone:         fmt.Sprintf("08%010d", rand.Intn(1000000000)),
		Status:        models.ApplicationStatusPending,
		SubmittedAt:   utils.UTCNow().Truncate(time.Microsecond),
	}
	if err := tf.DB.DB.Create(application).Error; err != nil {
		return nil, fmt.Errorf("failed to create test application: %w", err)
	}
	return application, nil
}
