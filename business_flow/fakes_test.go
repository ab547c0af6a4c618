package businessflow

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/amirphl/desa-ngasem/app/services"
	"github.com/amirphl/desa-ngasem/models"
	"github.com/amirphl/desa-ngasem/repository"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errStoreDown = errors.New("store unavailable")

// fakeRepo is an in-memory ResourceRepository keeping rows newest first
type fakeRepo[T models.Entity] struct {
	mu    sync.Mutex
	table string
	rows  []T
	setID func(*T, string)

	listCalls    int
	listFailures int
	saveCalls    int
	updateCalls  int
	deleteCalls  int

	getErr    error
	saveErr   error
	updateErr error
	deleteErr error
}

func newFakeRepo[T models.Entity](setID func(*T, string)) *fakeRepo[T] {
	var zero T
	return &fakeRepo[T]{table: zero.TableName(), setID: setID}
}

func (r *fakeRepo[T]) TableName() string { return r.table }

func (r *fakeRepo[T]) List(_ context.Context) ([]*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	if r.listFailures > 0 {
		r.listFailures--
		return nil, errStoreDown
	}
	out := make([]*T, 0, len(r.rows))
	for _, row := range r.rows {
		row := row
		out = append(out, &row)
	}
	return out, nil
}

func (r *fakeRepo[T]) ByID(_ context.Context, id string) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	for _, row := range r.rows {
		if row.GetID() == id {
			row := row
			return &row, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo[T]) Save(_ context.Context, entity *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveCalls++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.setID(entity, uuid.NewString())
	r.rows = append([]T{*entity}, r.rows...)
	return nil
}

func (r *fakeRepo[T]) Update(_ context.Context, id string, entity *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateCalls++
	if r.updateErr != nil {
		return r.updateErr
	}
	for i, row := range r.rows {
		if row.GetID() == id {
			r.rows[i] = *entity
			return nil
		}
	}
	return repository.ErrRecordNotFound
}

func (r *fakeRepo[T]) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleteCalls++
	if r.deleteErr != nil {
		return r.deleteErr
	}
	for i, row := range r.rows {
		if row.GetID() == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeRepo[T]) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rows)), nil
}

func (r *fakeRepo[T]) put(row T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, row)
}

func (r *fakeRepo[T]) calls() (list, save int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listCalls, r.saveCalls
}

type fakeApplicationRepo struct {
	*fakeRepo[models.ServiceApplication]
}

func (r fakeApplicationRepo) CountByStatus(_ context.Context, status string) (int64, error) {
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

func newServiceRepo() *fakeRepo[models.Service] {
	return newFakeRepo(func(s *models.Service, id string) { s.ID = id })
}

func newFacilityRepo() *fakeRepo[models.Facility] {
	return newFakeRepo(func(f *models.Facility, id string) { f.ID = id })
}

func newNewsRepo() *fakeRepo[models.NewsArticle] {
	return newFakeRepo(func(n *models.NewsArticle, id string) { n.ID = id })
}

func newApplicationRepo() fakeApplicationRepo {
	return fakeApplicationRepo{newFakeRepo(func(a *models.ServiceApplication, id string) { a.ID = id })}
}

// recordingCache wraps a ListCache, counting invalidations and optionally failing
type recordingCache struct {
	services.ListCache
	mu             sync.Mutex
	invalidated    map[string]int
	getErr         error
	invalidateErr  error
	invalidateRuns int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{
		ListCache:   services.NewMemoryListCache(64, time.Minute),
		invalidated: make(map[string]int),
	}
}

func (c *recordingCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if c.getErr != nil {
		return false, c.getErr
	}
	return c.ListCache.Get(ctx, key, dest)
}

func (c *recordingCache) Invalidate(ctx context.Context, key string) error {
	c.mu.Lock()
	c.invalidateRuns++
	c.mu.Unlock()
	if c.invalidateErr != nil {
		return c.invalidateErr
	}
	c.mu.Lock()
	c.invalidated[key]++
	c.mu.Unlock()
	return c.ListCache.Invalidate(ctx, key)
}

func (c *recordingCache) invalidations(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalidated[key]
}

// flakyStorage is a KeyValueStorage whose operations can be made to fail
type flakyStorage struct {
	*services.MemoryKeyValueStorage
	getErr    error
	setErr    error
	removeErr error
}

func newFlakyStorage() *flakyStorage {
	return &flakyStorage{MemoryKeyValueStorage: services.NewMemoryKeyValueStorage()}
}

func (s *flakyStorage) Get(ctx context.Context, key string) (string, bool, error) {
	if s.getErr != nil {
		return "", false, s.getErr
	}
	return s.MemoryKeyValueStorage.Get(ctx, key)
}

func (s *flakyStorage) Set(ctx context.Context, key, value string) error {
	if s.setErr != nil {
		return s.setErr
	}
	return s.MemoryKeyValueStorage.Set(ctx, key, value)
}

func (s *flakyStorage) Remove(ctx context.Context, key string) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	return s.MemoryKeyValueStorage.Remove(ctx, key)
}

// memoryObjectStorage keeps uploaded objects in a map
type memoryObjectStorage struct {
	mu        sync.Mutex
	objects   map[string][]byte
	uploadErr error
}

func newMemoryObjectStorage() *memoryObjectStorage {
	return &memoryObjectStorage{objects: make(map[string][]byte)}
}

func (s *memoryObjectStorage) Upload(_ context.Context, objectPath string, r io.Reader) error {
	if s.uploadErr != nil {
		return s.uploadErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objectPath] = data
	return nil
}

func (s *memoryObjectStorage) PublicURL(objectPath string) string {
	return "/uploads/" + objectPath
}

func (s *memoryObjectStorage) Resolve(objectPath string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[objectPath]; !ok {
		return "", services.ErrObjectNotFound
	}
	return objectPath, nil
}

var fixedNow = time.Date(2026, 10, 15, 8, 30, 0, 0, time.UTC)

func testSettings(logger *zap.Logger) ResourceSettings {
	if logger == nil {
		logger = zap.NewNop()
	}
	return ResourceSettings{
		Logger:            logger,
		ListRetryAttempts: 3,
		NewBackOff:        func() backoff.BackOff { return &backoff.ZeroBackOff{} },
		Clock:             func() time.Time { return fixedNow },
	}
}

func businessCode(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
