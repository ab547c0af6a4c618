package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/amirphl/desa-ngasem/models"
	"github.com/amirphl/desa-ngasem/repository"
	testingutil "github.com/amirphl/desa-ngasem/testing"
	"github.com/amirphl/desa-ngasem/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceRepository(t *testing.T) {
	if !testingutil.DatabaseAvailable() {
		t.Skip("TEST_DB_HOST not set")
	}

	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewServiceRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		t.Run("ListEmpty", func(t *testing.T) {
			services, err := repo.List(ctx)
			require.NoError(t, err)
			assert.NotNil(t, services)
			assert.Empty(t, services)
		})

		t.Run("SaveAssignsIDAndTimestamps", func(t *testing.T) {
			service := &models.Service{Name: "Surat Pengantar", Status: models.StatusActive}
			require.NoError(t, repo.Save(ctx, service))

			_, err := uuid.Parse(service.ID)
			assert.NoError(t, err)
			assert.False(t, service.CreatedAt.IsZero())
		})

		t.Run("ByID", func(t *testing.T) {
			service := &models.Service{Name: "Surat Domisili", Status: models.StatusInactive}
			require.NoError(t, repo.Save(ctx, service))

			found, err := repo.ByID(ctx, service.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, "Surat Domisili", found.Name)
			assert.Equal(t, models.StatusInactive, found.Status)
		})

		t.Run("ByIDNotFound", func(t *testing.T) {
			found, err := repo.ByID(ctx, uuid.NewString())
			assert.NoError(t, err)
			assert.Nil(t, found)

			found, err = repo.ByID(ctx, "not-a-uuid")
			assert.NoError(t, err)
			assert.Nil(t, found)
		})

		t.Run("ListNewestFirst", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			first := &models.Service{Name: "Pertama", Status: models.StatusActive}
			require.NoError(t, repo.Save(ctx, first))
			second := &models.Service{Name: "Kedua", Status: models.StatusActive}
			require.NoError(t, repo.Save(ctx, second))
			require.NoError(t, testDB.DB.Exec("UPDATE services SET created_at = created_at - interval '1 hour' WHERE id = ?", first.ID).Error)

			services, err := repo.List(ctx)
			require.NoError(t, err)
			require.Len(t, services, 2)
			assert.Equal(t, second.ID, services[0].ID)
			assert.Equal(t, first.ID, services[1].ID)
		})

		t.Run("Update", func(t *testing.T) {
			service := &models.Service{Name: "Lama", Cost: utils.ToPtr("Gratis"), Status: models.StatusActive}
			require.NoError(t, repo.Save(ctx, service))

			service.Name = "Baru"
			service.Cost = nil
			require.NoError(t, repo.Update(ctx, service.ID, service))

			found, err := repo.ByID(ctx, service.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, "Baru", found.Name)
			assert.Nil(t, found.Cost)
		})

		t.Run("UpdateMissing", func(t *testing.T) {
			missing := &models.Service{ID: uuid.NewString(), Name: "Hilang", Status: models.StatusActive}
			err := repo.Update(ctx, missing.ID, missing)
			assert.ErrorIs(t, err, repository.ErrRecordNotFound)
		})

		t.Run("DeleteIsIdempotent", func(t *testing.T) {
			service := &models.Service{Name: "Hapus", Status: models.StatusActive}
			require.NoError(t, repo.Save(ctx, service))

			require.NoError(t, repo.Delete(ctx, service.ID))
			require.NoError(t, repo.Delete(ctx, service.ID))
			require.NoError(t, repo.Delete(ctx, "not-a-uuid"))

			found, err := repo.ByID(ctx, service.ID)
			require.NoError(t, err)
			assert.Nil(t, found)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestNewsRepositoryTags(t *testing.T) {
	if !testingutil.DatabaseAvailable() {
		t.Skip("TEST_DB_HOST not set")
	}

	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewNewsRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		article, err := fixtures.CreateTestNews(models.NewsStatusPublished)
		require.NoError(t, err)

		found, err := repo.ByID(ctx, article.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, []string{"kegiatan", "warga"}, []string(found.Tags))
		assert.NotNil(t, found.PublishedAt)
		assert.True(t, found.IsPublic())

		return nil
	})
	require.NoError(t, err)
}

func TestServiceApplicationRepository(t *testing.T) {
	if !testingutil.DatabaseAvailable() {
		t.Skip("TEST_DB_HOST not set")
	}

	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewServiceApplicationRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		service, err := fixtures.CreateTestService(models.StatusActive)
		require.NoError(t, err)

		for range 3 {
			_, err := fixtures.CreateTestApplication(service.ID)
			require.NoError(t, err)
		}

		applications, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, applications, 3)

		applications[0].Status = models.ApplicationStatusApproved
		require.NoError(t, repo.Update(ctx, applications[0].ID, applications[0]))

		pending, err := repo.CountByStatus(ctx, models.ApplicationStatusPending)
		require.NoError(t, err)
		assert.Equal(t, int64(2), pending)

		total, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)

		// Applications outlive their service
		require.NoError(t, repository.NewServiceRepository(testDB.DB).Delete(ctx, service.ID))
		total, err = repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)

		return nil
	})
	require.NoError(t, err)
}

func TestWithTransaction(t *testing.T) {
	if !testingutil.DatabaseAvailable() {
		t.Skip("TEST_DB_HOST not set")
	}

	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		services := repository.NewServiceRepository(testDB.DB)
		news := repository.NewNewsRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		t.Run("RollbackOnError", func(t *testing.T) {
			boom := errors.New("boom")
			err := repository.WithTransaction(ctx, testDB.DB, func(txCtx context.Context) error {
				if err := services.Save(txCtx, &models.Service{Name: "Sementara", Status: models.StatusActive}); err != nil {
					return err
				}
				return boom
			})
			assert.ErrorIs(t, err, boom)

			count, err := services.Count(ctx)
			require.NoError(t, err)
			assert.Zero(t, count)
		})

		t.Run("CommitAcrossTables", func(t *testing.T) {
			err := repository.WithTransaction(ctx, testDB.DB, func(txCtx context.Context) error {
				if err := services.Save(txCtx, &models.Service{Name: "Surat Usaha", Status: models.StatusActive}); err != nil {
					return err
				}
				return news.Save(txCtx, &models.NewsArticle{Title: "Layanan baru", Content: "Surat usaha kini tersedia", Tags: []string{}, Status: models.NewsStatusDraft})
			})
			require.NoError(t, err)

			serviceCount, err := services.Count(ctx)
			require.NoError(t, err)
			newsCount, err := news.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(1), serviceCount)
			assert.Equal(t, int64(1), newsCount)
		})

		return nil
	})
	require.NoError(t, err)
}
