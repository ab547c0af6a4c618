package businessflow

import (
	"context"
	"testing"

	"github.com/amirphl/desa-ngasem/app/dto"
	"github.com/amirphl/desa-ngasem/models"
	"github.com/amirphl/desa-ngasem/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewsFlow_PublishedAtStamp(t *testing.T) {
	flow := NewNewsFlow(newNewsRepo(), newRecordingCache(), testSettings(nil))
	ctx := context.Background()

	draft, err := flow.Create(ctx, &dto.CreateNewsRequest{Title: "Rapat Desa", Content: "Agenda rapat"})
	require.NoError(t, err)
	assert.Equal(t, models.NewsStatusDraft, draft.Status)
	assert.Nil(t, draft.PublishedAt)
	assert.NotNil(t, draft.Tags)

	published, err := flow.Update(ctx, draft.ID, &dto.UpdateNewsRequest{Status: utils.ToPtr(models.NewsStatusPublished)})
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)
	assert.True(t, published.PublishedAt.Equal(fixedNow))

	// Editing a published article keeps its original stamp
	edited, err := flow.Update(ctx, draft.ID, &dto.UpdateNewsRequest{Title: utils.ToPtr("Rapat Desa Bulanan")})
	require.NoError(t, err)
	require.NotNil(t, edited.PublishedAt)
	assert.True(t, edited.PublishedAt.Equal(fixedNow))
	assert.Equal(t, "Rapat Desa Bulanan", edited.Title)
}

func TestNewsFlow_Tags(t *testing.T) {
	flow := NewNewsFlow(newNewsRepo(), newRecordingCache(), testSettings(nil))
	ctx := context.Background()

	article, err := flow.Create(ctx, &dto.CreateNewsRequest{
		Title:   "Panen Raya",
		Content: "Panen padi",
		Tags:    []string{" pertanian ", "panen"},
		Status:  models.NewsStatusPublished,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"pertanian", "panen"}, []string(article.Tags))

	// Absent tags are kept
	article, err = flow.Update(ctx, article.ID, &dto.UpdateNewsRequest{Excerpt: utils.ToPtr("Ringkasan")})
	require.NoError(t, err)
	assert.Len(t, article.Tags, 2)

	// An explicit empty list clears them
	article, err = flow.Update(ctx, article.ID, &dto.UpdateNewsRequest{Tags: []string{}})
	require.NoError(t, err)
	assert.Empty(t, article.Tags)

	_, err = flow.Create(ctx, &dto.CreateNewsRequest{Title: "X", Content: "Y", Tags: []string{"ok", "  "}})
	assert.True(t, IsValidationError(err))
}

func TestNewsFlow_PublishedDetail(t *testing.T) {
	flow := NewNewsFlow(newNewsRepo(), newRecordingCache(), testSettings(nil))
	ctx := context.Background()

	published, err := flow.Create(ctx, &dto.CreateNewsRequest{
		Title:   "Kerja Bakti",
		Content: "Warga **bergotong royong**\nmembersihkan desa.\n\n<script>alert(1)</script>",
		Status:  models.NewsStatusPublished,
	})
	require.NoError(t, err)

	detail, err := flow.PublishedDetail(ctx, published.ID)
	require.NoError(t, err)
	assert.Equal(t, published.ID, detail.ID)
	assert.Contains(t, detail.ContentHTML, "<strong>bergotong royong</strong>")
	assert.Contains(t, detail.ContentHTML, "<br")
	assert.NotContains(t, detail.ContentHTML, "<script>")
	assert.NotNil(t, detail.Tags)
	require.NotNil(t, detail.PublishedAt)

	draft, err := flow.Create(ctx, &dto.CreateNewsRequest{Title: "Draf", Content: "Belum terbit"})
	require.NoError(t, err)
	_, err = flow.PublishedDetail(ctx, draft.ID)
	assert.True(t, IsRecordNotFound(err))
}

func TestNewsFlow_ListPublicOnlyPublished(t *testing.T) {
	flow := NewNewsFlow(newNewsRepo(), newRecordingCache(), testSettings(nil))
	ctx := context.Background()

	_, err := flow.Create(ctx, &dto.CreateNewsRequest{Title: "A", Content: "a", Status: models.NewsStatusPublished})
	require.NoError(t, err)
	_, err = flow.Create(ctx, &dto.CreateNewsRequest{Title: "B", Content: "b"})
	require.NoError(t, err)

	public, err := flow.ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "A", public[0].Title)
}
