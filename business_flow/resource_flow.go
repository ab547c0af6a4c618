package businessflow

import (
	"context"
	"errors"
	"time"

	"github.com/amirphl/desa-ngasem/app/services"
	"github.com/amirphl/desa-ngasem/models"
	"github.com/amirphl/desa-ngasem/repository"
	"github.com/amirphl/desa-ngasem/utils"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// CreateRequest builds a new record from an admin payload
type CreateRequest[T any] interface {
	ToModel() T
}

// UpdateRequest copies the fields present in a partial payload onto a record
type UpdateRequest[T any] interface {
	Apply(entity *T)
}

// ResourceFlow is the uniform CRUD contract over one entity type
type ResourceFlow[T models.Entity, C CreateRequest[T], U UpdateRequest[T]] interface {
	// Resource is the table name, also used as the list cache key
	Resource() string
	List(ctx context.Context) ([]*T, error)
	ListPublic(ctx context.Context) ([]*T, error)
	Count(ctx context.Context) (int, error)
	Get(ctx context.Context, id string) (*T, error)
	GetPublic(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, req C) (*T, error)
	Update(ctx context.Context, id string, req U) (*T, error)
	Delete(ctx context.Context, id string) error
}

// ResourceSettings are shared by every resource flow
type ResourceSettings struct {
	Logger            *zap.Logger
	Validator         *validator.Validate
	ListRetryAttempts int
	RetryInitial      time.Duration
	RetryMax          time.Duration
	// NewBackOff overrides RetryInitial/RetryMax when set
	NewBackOff func() backoff.BackOff
	Clock      func() time.Time
}

// ResourceFlowImpl implements ResourceFlow on a repository and a list cache
type ResourceFlowImpl[T models.Entity, C CreateRequest[T], U UpdateRequest[T]] struct {
	repo        repository.ResourceRepository[T]
	cache       services.ListCache
	validate    *validator.Validate
	logger      *zap.Logger
	listRetries int
	newBackOff  func() backoff.BackOff
	now         func() time.Time
	beforeWrite func(entity *T, now time.Time)
}

// NewResourceFlow creates a resource flow for repo's table
func NewResourceFlow[T models.Entity, C CreateRequest[T], U UpdateRequest[T]](repo repository.ResourceRepository[T], cache services.ListCache, settings ResourceSettings) *ResourceFlowImpl[T, C, U] {
	f := &ResourceFlowImpl[T, C, U]{
		repo:        repo,
		cache:       cache,
		validate:    settings.Validator,
		logger:      settings.Logger,
		listRetries: settings.ListRetryAttempts,
		newBackOff:  settings.NewBackOff,
		now:         settings.Clock,
	}
	if f.cache == nil {
		f.cache = services.NoopListCache{}
	}
	if f.validate == nil {
		f.validate = NewValidator()
	}
	if f.logger == nil {
		f.logger = zap.NewNop()
	}
	f.logger = f.logger.With(zap.String("resource", repo.TableName()))
	if f.listRetries < 0 {
		f.listRetries = 0
	}
	if f.now == nil {
		f.now = utils.UTCNow
	}
	if f.newBackOff == nil {
		initial, maxInterval := settings.RetryInitial, settings.RetryMax
		f.newBackOff = func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			if initial > 0 {
				b.InitialInterval = initial
			}
			if maxInterval > 0 {
				b.MaxInterval = maxInterval
			}
			return b
		}
	}
	return f
}

// WithBeforeWrite registers a hook that fills derived fields right before a create or update is stored
func (f *ResourceFlowImpl[T, C, U]) WithBeforeWrite(hook func(entity *T, now time.Time)) *ResourceFlowImpl[T, C, U] {
	f.beforeWrite = hook
	return f
}

func (f *ResourceFlowImpl[T, C, U]) Resource() string {
	return f.repo.TableName()
}

// List returns the cached list, or reads the store with bounded retries on a miss.
// A result read across a mutation is returned but not cached.
func (f *ResourceFlowImpl[T, C, U]) List(ctx context.Context) ([]*T, error) {
	key := f.Resource()

	cached := make([]*T, 0)
	hit, err := f.cache.Get(ctx, key, &cached)
	if err != nil {
		f.logger.Warn("list cache read failed", zap.Error(err))
	} else if hit {
		if cached == nil {
			cached = make([]*T, 0)
		}
		return cached, nil
	}

	// Taken before the store read: an invalidation landing during the read makes Set a no-op
	gen, genErr := f.cache.Generation(ctx, key)
	if genErr != nil {
		f.logger.Warn("list cache generation read failed", zap.Error(genErr))
	}

	var items []*T
	operation := func() error {
		var listErr error
		items, listErr = f.repo.List(ctx)
		return listErr
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(f.newBackOff(), uint64(f.listRetries)), ctx)
	notify := func(err error, wait time.Duration) {
		f.logger.Warn("list read failed, retrying", zap.Error(err), zap.Duration("wait", wait))
	}
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		f.logger.Error("list read failed", zap.Error(err))
		return nil, NewBusinessErrorf("LIST_FAILED", "Failed to list %s", &StoreError{Resource: key, Op: "list", Err: err}, key)
	}
	if items == nil {
		items = make([]*T, 0)
	}

	if genErr == nil {
		stored, err := f.cache.Set(ctx, key, gen, items)
		if err != nil {
			f.logger.Warn("list cache write failed", zap.Error(err))
		} else if !stored {
			f.logger.Debug("list changed while reading, result not cached")
		}
	}
	return items, nil
}

// ListPublic returns the records the public site may show, in list order
func (f *ResourceFlowImpl[T, C, U]) ListPublic(ctx context.Context) ([]*T, error) {
	items, err := f.List(ctx)
	if err != nil {
		return nil, err
	}
	public := make([]*T, 0, len(items))
	for _, item := range items {
		if (*item).IsPublic() {
			public = append(public, item)
		}
	}
	return public, nil
}

func (f *ResourceFlowImpl[T, C, U]) Count(ctx context.Context) (int, error) {
	items, err := f.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

func (f *ResourceFlowImpl[T, C, U]) Get(ctx context.Context, id string) (*T, error) {
	item, err := f.repo.ByID(ctx, id)
	if err != nil {
		f.logger.Error("get failed", zap.String("id", id), zap.Error(err))
		return nil, f.storeError("GET_FAILED", "get", err)
	}
	if item == nil {
		return nil, f.storeError("NOT_FOUND", "get", ErrRecordNotFound)
	}
	return item, nil
}

// GetPublic is Get restricted to records the public site may show
func (f *ResourceFlowImpl[T, C, U]) GetPublic(ctx context.Context, id string) (*T, error) {
	item, err := f.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !(*item).IsPublic() {
		return nil, f.storeError("NOT_FOUND", "get", ErrRecordNotFound)
	}
	return item, nil
}

// Create validates req before touching the store, then inserts and invalidates the list
func (f *ResourceFlowImpl[T, C, U]) Create(ctx context.Context, req C) (*T, error) {
	if err := validateRequest(f.validate, f.Resource(), req); err != nil {
		return nil, err
	}

	entity := req.ToModel()
	if f.beforeWrite != nil {
		f.beforeWrite(&entity, f.now())
	}

	if err := f.repo.Save(ctx, &entity); err != nil {
		f.logger.Error("create failed", zap.Error(err))
		return nil, f.storeError("CREATE_FAILED", "create", err)
	}

	f.invalidate(ctx)
	f.logger.Info("record created", f.auditFields(ctx, entity.GetID())...)
	return &entity, nil
}

// Update validates the present fields, then reads, patches and writes the record back
func (f *ResourceFlowImpl[T, C, U]) Update(ctx context.Context, id string, req U) (*T, error) {
	if err := validateRequest(f.validate, f.Resource(), req); err != nil {
		return nil, err
	}

	existing, err := f.repo.ByID(ctx, id)
	if err != nil {
		f.logger.Error("update read failed", zap.String("id", id), zap.Error(err))
		return nil, f.storeError("UPDATE_FAILED", "update", err)
	}
	if existing == nil {
		return nil, f.storeError("NOT_FOUND", "update", ErrRecordNotFound)
	}

	req.Apply(existing)
	if f.beforeWrite != nil {
		f.beforeWrite(existing, f.now())
	}

	if err := f.repo.Update(ctx, id, existing); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, f.storeError("NOT_FOUND", "update", ErrRecordNotFound)
		}
		f.logger.Error("update failed", zap.String("id", id), zap.Error(err))
		return nil, f.storeError("UPDATE_FAILED", "update", err)
	}

	f.invalidate(ctx)
	f.logger.Info("record updated", f.auditFields(ctx, id)...)

	// Re-read so store-maintained columns such as updated_at are current
	stored, err := f.repo.ByID(ctx, id)
	if err != nil || stored == nil {
		return existing, nil
	}
	return stored, nil
}

// Delete removes the record; a missing id is not an error
func (f *ResourceFlowImpl[T, C, U]) Delete(ctx context.Context, id string) error {
	if err := f.repo.Delete(ctx, id); err != nil {
		f.logger.Error("delete failed", zap.String("id", id), zap.Error(err))
		return f.storeError("DELETE_FAILED", "delete", err)
	}
	f.invalidate(ctx)
	f.logger.Info("record deleted", f.auditFields(ctx, id)...)
	return nil
}

// invalidate marks only this resource's cached list stale. The mutation has already
// happened, so a cache failure is retried briefly and then only logged.
func (f *ResourceFlowImpl[T, C, U]) invalidate(ctx context.Context) {
	key := f.Resource()
	operation := func() error {
		return f.cache.Invalidate(ctx, key)
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(f.newBackOff(), uint64(f.listRetries)), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		f.logger.Error("list cache invalidation failed", zap.Error(err))
	}
}

func (f *ResourceFlowImpl[T, C, U]) auditFields(ctx context.Context, id string) []zap.Field {
	return append(ClientMetadataFrom(ctx).Fields(), zap.String("id", id))
}

func (f *ResourceFlowImpl[T, C, U]) storeError(code, op string, err error) error {
	return NewBusinessErrorf(code, "Failed to %s %s", &StoreError{Resource: f.Resource(), Op: op, Err: err}, op, f.Resource())
}
