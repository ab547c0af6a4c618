package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/amirphl/desa-ngasem/app/dto"
	"github.com/amirphl/desa-ngasem/app/handlers"
	"github.com/amirphl/desa-ngasem/app/middleware"
	"github.com/amirphl/desa-ngasem/app/services"
	businessflow "github.com/amirphl/desa-ngasem/business_flow"
	"github.com/amirphl/desa-ngasem/config"
	"github.com/amirphl/desa-ngasem/models"
	"github.com/amirphl/desa-ngasem/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memRepo is an in-memory ResourceRepository keeping rows newest first
type memRepo[T models.Entity] struct {
	mu    sync.Mutex
	rows  []T
	setID func(*T, string)
}

func (r *memRepo[T]) TableName() string {
	var zero T
	return zero.TableName()
}

func (r *memRepo[T]) List(_ context.Context) ([]*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*T, 0, len(r.rows))
	for _, row := range r.rows {
		row := row
		out = append(out, &row)
	}
	return out, nil
}

func (r *memRepo[T]) ByID(_ context.Context, id string) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.GetID() == id {
			row := row
			return &row, nil
		}
	}
	return nil, nil
}

func (r *memRepo[T]) Save(_ context.Context, entity *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setID(entity, uuid.NewString())
	r.rows = append([]T{*entity}, r.rows...)
	return nil
}

func (r *memRepo[T]) Update(_ context.Context, id string, entity *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, row := range r.rows {
		if row.GetID() == id {
			r.rows[i] = *entity
			return nil
		}
	}
	return nil
}

func (r *memRepo[T]) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, row := range r.rows {
		if row.GetID() == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memRepo[T]) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rows)), nil
}

type applicationRepo struct {
	*memRepo[models.ServiceApplication]
}

func (r applicationRepo) CountByStatus(_ context.Context, status string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, a := range r.rows {
		if a.Status == status {
			n++
		}
	}
	return n, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string          `json:"code"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

type testServer struct {
	t      *testing.T
	router Router
	cookie *http.Cookie
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()
	cache := services.NewMemoryListCache(64, time.Minute)
	settings := businessflow.ResourceSettings{Logger: logger, ListRetryAttempts: 1}

	serviceFlow := businessflow.NewServiceFlow(&memRepo[models.Service]{setID: func(s *models.Service, id string) { s.ID = id }}, cache, settings)
	newsFlow := businessflow.NewNewsFlow(&memRepo[models.NewsArticle]{setID: func(n *models.NewsArticle, id string) { n.ID = id }}, cache, settings)
	applicationFlow := businessflow.NewServiceApplicationFlow(
		applicationRepo{&memRepo[models.ServiceApplication]{setID: func(a *models.ServiceApplication, id string) { a.ID = id }}},
		cache, serviceFlow, settings)

	storage, err := services.NewLocalObjectStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	tokens, err := services.NewSessionTokenService("test-signing-key", "desa-ngasem")
	require.NoError(t, err)
	registry := businessflow.NewSessionRegistry(
		services.NewMemoryKeyValueStorage(),
		businessflow.Credentials{Username: "desangasem", Password: "majumakmur"},
		"session:", 16, time.Hour)
	session := middleware.NewSessionMiddleware(tokens, registry, middleware.SessionCookieOptions{HTTPOnly: true, SameSite: "Lax"}, logger)

	h := Handlers{
		Auth:       handlers.NewAdminAuthHandler(0, logger),
		Public:     handlers.NewPublicHandler(newsFlow, applicationFlow, 0, logger),
		AdminTools: handlers.NewAdminToolsHandler(businessflow.NewImageUploadFlow(storage, 0, 0, 0, logger), applicationFlow, businessflow.NewDashboardFlow(serviceFlow, newsFlow, applicationFlow), 0, logger),
		System:     handlers.NewSystemHandler(storage, map[string]handlers.Pinger{}, "test", logger),
		Resources: []ResourceRoute{
			{Path: "services", Public: true, Handler: handlers.NewResourceHandler(serviceFlow, "Services",
				func() *dto.CreateServiceRequest { return &dto.CreateServiceRequest{} },
				func() *dto.UpdateServiceRequest { return &dto.UpdateServiceRequest{} }, 0, logger)},
			{Path: "news", Public: true, Handler: handlers.NewResourceHandler[models.NewsArticle, *dto.CreateNewsRequest, *dto.UpdateNewsRequest](newsFlow, "News",
				func() *dto.CreateNewsRequest { return &dto.CreateNewsRequest{} },
				func() *dto.UpdateNewsRequest { return &dto.UpdateNewsRequest{} }, 0, logger)},
			{Path: "applications", Handler: handlers.NewResourceHandler[models.ServiceApplication, *dto.CreateServiceApplicationRequest, *dto.UpdateServiceApplicationRequest](applicationFlow, "Service applications",
				func() *dto.CreateServiceApplicationRequest { return &dto.CreateServiceApplicationRequest{} },
				func() *dto.UpdateServiceApplicationRequest { return &dto.UpdateServiceApplicationRequest{} }, 0, logger)},
		},
	}

	r := NewFiberRouter(h, session, &config.ProductionConfig{}, logger)
	r.SetupRoutes()
	return &testServer{t: t, router: r}
}

// do sends a request carrying the current session cookie and remembers any new one
func (s *testServer) do(method, path string, body any) (int, envelope) {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.cookie != nil {
		req.AddCookie(s.cookie)
	}

	resp, err := s.router.GetApp().Test(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	for _, c := range resp.Cookies() {
		if c.Name == utils.SessionCookieName {
			s.cookie = c
		}
	}

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	if len(raw) > 0 {
		require.NoError(s.t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func (s *testServer) login() {
	s.t.Helper()
	status, env := s.do(http.MethodPost, "/api/v1/admin/auth/login", dto.AdminLoginRequest{Username: "desangasem", Password: "majumakmur"})
	require.Equal(s.t, http.StatusOK, status, env.Message)
}

func TestRoutes_AdminRequiresLogin(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(http.MethodGet, "/api/v1/admin/services", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "NOT_AUTHENTICATED", env.Error.Code)
	require.NotNil(t, s.cookie, "a session handle is issued on first contact")
	assert.True(t, s.cookie.HttpOnly)

	status, env = s.do(http.MethodPost, "/api/v1/admin/auth/login", dto.AdminLoginRequest{Username: "desangasem", Password: "salah"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)

	status, env = s.do(http.MethodPost, "/api/v1/admin/auth/login", map[string]string{"username": "desangasem"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.JSONEq(t, `["password"]`, string(env.Error.Details))

	s.login()

	status, env = s.do(http.MethodGet, "/api/v1/admin/auth/session", nil)
	require.Equal(t, http.StatusOK, status)
	var sess dto.AdminSessionResponse
	require.NoError(t, json.Unmarshal(env.Data, &sess))
	assert.True(t, sess.Authenticated)
	assert.NotNil(t, sess.LoginAt)
	assert.NotNil(t, sess.ExpiresAt)

	status, _ = s.do(http.MethodGet, "/api/v1/admin/services", nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(http.MethodPost, "/api/v1/admin/auth/logout", nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(http.MethodGet, "/api/v1/admin/services", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRoutes_ForgedHandleStartsFreshSession(t *testing.T) {
	s := newTestServer(t)
	s.cookie = &http.Cookie{Name: utils.SessionCookieName, Value: "forged.token.value"}

	status, _ := s.do(http.MethodGet, "/api/v1/admin/dashboard", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	require.NotNil(t, s.cookie)
	assert.NotEqual(t, "forged.token.value", s.cookie.Value)
}

func TestRoutes_ResourceLifecycle(t *testing.T) {
	s := newTestServer(t)
	s.login()

	status, env := s.do(http.MethodGet, "/api/v1/public/services", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(env.Data))

	status, env = s.do(http.MethodPost, "/api/v1/admin/services", map[string]any{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, string(env.Error.Details), `"name"`)

	status, env = s.do(http.MethodPost, "/api/v1/admin/services", map[string]any{"name": "Surat Domisili"})
	require.Equal(t, http.StatusCreated, status)
	var created models.Service
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.StatusActive, created.Status)

	status, env = s.do(http.MethodGet, "/api/v1/public/services", nil)
	require.Equal(t, http.StatusOK, status)
	var listed []models.Service
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "Surat Domisili", listed[0].Name)

	status, env = s.do(http.MethodPatch, "/api/v1/admin/services/"+created.ID, map[string]any{"status": "inactive"})
	require.Equal(t, http.StatusOK, status)

	status, env = s.do(http.MethodGet, "/api/v1/public/services", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(env.Data))

	status, env = s.do(http.MethodGet, "/api/v1/admin/services/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	status, _ = s.do(http.MethodDelete, "/api/v1/admin/services/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, status)

	// Deleting again still succeeds
	status, _ = s.do(http.MethodDelete, "/api/v1/admin/services/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, status)

	status, env = s.do(http.MethodGet, "/api/v1/admin/services", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestRoutes_SubmitApplication(t *testing.T) {
	s := newTestServer(t)
	s.login()

	_, env := s.do(http.MethodPost, "/api/v1/admin/services", map[string]any{"name": "Surat Lama", "status": "inactive"})
	var inactive models.Service
	require.NoError(t, json.Unmarshal(env.Data, &inactive))

	_, env = s.do(http.MethodPost, "/api/v1/admin/services", map[string]any{"name": "Surat Domisili"})
	var active models.Service
	require.NoError(t, json.Unmarshal(env.Data, &active))

	submit := func(serviceID string) (int, envelope) {
		return s.do(http.MethodPost, "/api/v1/public/applications", map[string]any{
			"service_id":     serviceID,
			"applicant_name": "Siti Aminah",
			"phone":          "081234567890",
		})
	}

	status, env := submit(inactive.ID)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "SERVICE_NOT_AVAILABLE", env.Error.Code)

	status, env = submit("not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	status, env = submit(active.ID)
	require.Equal(t, http.StatusCreated, status)
	var application models.ServiceApplication
	require.NoError(t, json.Unmarshal(env.Data, &application))
	assert.Equal(t, models.ApplicationStatusPending, application.Status)

	// Applications are admin only
	status, _ = s.do(http.MethodGet, "/api/v1/public/applications", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, env = s.do(http.MethodGet, "/api/v1/admin/dashboard", nil)
	require.Equal(t, http.StatusOK, status)
	var summary dto.DashboardSummary
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 1, summary.PendingApplications)
	assert.Equal(t, 1, summary.ActiveServices)
	assert.Equal(t, 2, summary.Counts["services"])
}

func TestRoutes_NewsDetail(t *testing.T) {
	s := newTestServer(t)
	s.login()

	_, env := s.do(http.MethodPost, "/api/v1/admin/news", map[string]any{
		"title":   "Kerja Bakti",
		"content": "Warga **bergotong royong**",
		"status":  "published",
	})
	var article models.NewsArticle
	require.NoError(t, json.Unmarshal(env.Data, &article))
	require.NotNil(t, article.PublishedAt)

	status, env := s.do(http.MethodGet, "/api/v1/public/news/"+article.ID, nil)
	require.Equal(t, http.StatusOK, status)
	var detail dto.NewsDetailResponse
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Contains(t, detail.ContentHTML, "<strong>bergotong royong</strong>")

	status, _ = s.do(http.MethodGet, "/api/v1/public/news/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRoutes_SystemEndpoints(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)

	status, env = s.do(http.MethodGet, "/api/v1/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	resp, err := s.router.GetApp().Test(httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	doc, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(doc), "Desa Ngasem API")
}
