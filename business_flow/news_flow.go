package businessflow

import (
	"bytes"
	"context"
	"time"

	"github.com/amirphl/desa-ngasem/app/dto"
	"github.com/amirphl/desa-ngasem/app/services"
	"github.com/amirphl/desa-ngasem/models"
	"github.com/amirphl/desa-ngasem/repository"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"
)

// NewsFlow manages news articles and renders published ones for the public site
type NewsFlow interface {
	ResourceFlow[models.NewsArticle, *dto.CreateNewsRequest, *dto.UpdateNewsRequest]
	PublishedDetail(ctx context.Context, id string) (*dto.NewsDetailResponse, error)
}

type NewsFlowImpl struct {
	*ResourceFlowImpl[models.NewsArticle, *dto.CreateNewsRequest, *dto.UpdateNewsRequest]
	markdown goldmark.Markdown
	logger   *zap.Logger
}

func NewNewsFlow(repo repository.NewsRepository, cache services.ListCache, settings ResourceSettings) NewsFlow {
	base := NewResourceFlow[models.NewsArticle, *dto.CreateNewsRequest, *dto.UpdateNewsRequest](repo, cache, settings).
		WithBeforeWrite(stampPublishedAt)

	logger := settings.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NewsFlowImpl{
		ResourceFlowImpl: base,
		markdown:         NewMarkdownRenderer(),
		logger:           logger,
	}
}

// NewMarkdownRenderer renders GitHub flavored markdown with hard wraps; raw HTML is dropped
func NewMarkdownRenderer() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
}

// stampPublishedAt records the first time an article is published
func stampPublishedAt(n *models.NewsArticle, now time.Time) {
	if n.Status == models.NewsStatusPublished && n.PublishedAt == nil {
		n.PublishedAt = &now
	}
}

func (f *NewsFlowImpl) PublishedDetail(ctx context.Context, id string) (*dto.NewsDetailResponse, error) {
	article, err := f.GetPublic(ctx, id)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.markdown.Convert([]byte(article.Content), &buf); err != nil {
		f.logger.Error("failed to render news content", zap.String("id", id), zap.Error(err))
		return nil, NewBusinessError("NEWS_RENDER_FAILED", "Failed to render news content", err)
	}

	tags := make([]string, 0, len(article.Tags))
	tags = append(tags, article.Tags...)

	return &dto.NewsDetailResponse{
		ID:          article.ID,
		Title:       article.Title,
		Content:     article.Content,
		ContentHTML: buf.String(),
		Excerpt:     article.Excerpt,
		ImageURL:    article.ImageURL,
		Author:      article.Author,
		Category:    article.Category,
		Tags:        tags,
		PublishedAt: article.PublishedAt,
		CreatedAt:   article.CreatedAt,
		UpdatedAt:   article.UpdatedAt,
	}, nil
}
