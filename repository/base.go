// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseRepository provides the CRUD contract shared by every managed entity type.
// orderBy is the list ordering of the table and must end with a unique column.
type BaseRepository[T any] struct {
	DB      *gorm.DB
	table   string
	orderBy string
}

// NewBaseRepository creates a new base repository instance
func NewBaseRepository[T any](db *gorm.DB, table, orderBy string) *BaseRepository[T] {
	return &BaseRepository[T]{
		DB:      db,
		table:   table,
		orderBy: orderBy,
	}
}

// TableName returns the table backing the repository
func (r *BaseRepository[T]) TableName() string {
	return r.table
}

// getDB returns the appropriate database connection (with or without transaction)
func (r *BaseRepository[T]) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return r.DB.WithContext(ctx)
}

// getDBForWrite returns database connection with transaction for write operations
func (r *BaseRepository[T]) getDBForWrite(ctx context.Context) (*gorm.DB, bool, error) {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx), false, nil // Transaction already exists, don't commit
	}

	// Start new transaction for write operation
	tx := r.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	return tx, true, nil // New transaction, should commit
}

// finish commits or rolls back a transaction opened by getDBForWrite
func finish(db *gorm.DB, shouldCommit bool, err *error) {
	if !shouldCommit {
		return
	}
	if *err != nil {
		db.Rollback()
		return
	}
	if commitErr := db.Commit().Error; commitErr != nil {
		*err = fmt.Errorf("failed to commit transaction: %w", commitErr)
	}
}

// List returns every row of the table in the table's display order.
// The result is never nil.
func (r *BaseRepository[T]) List(ctx context.Context) ([]*T, error) {
	db := r.getDB(ctx)

	entities := make([]*T, 0)
	if err := db.Table(r.table).Order(r.orderBy).Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.table, err)
	}
	if entities == nil {
		entities = []*T{}
	}

	return entities, nil
}

// ByID retrieves an entity by its ID; a missing or malformed ID yields (nil, nil)
func (r *BaseRepository[T]) ByID(ctx context.Context, id string) (*T, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	db := r.getDB(ctx)

	var entity T
	err := db.Table(r.table).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find %s by ID %s: %w", r.table, id, err)
	}

	return &entity, nil
}

// Save inserts a new entity; the store fills id and timestamps back into it
func (r *BaseRepository[T]) Save(ctx context.Context, entity *T) (err error) {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}
	defer finish(db, shouldCommit, &err)

	if err = db.Create(entity).Error; err != nil {
		return fmt.Errorf("failed to save %s: %w", r.table, err)
	}

	return nil
}

// Update writes every column of entity to the row identified by id.
// updated_at is refreshed by gorm; ErrRecordNotFound is returned when no row matched.
func (r *BaseRepository[T]) Update(ctx context.Context, id string, entity *T) (err error) {
	if _, parseErr := uuid.Parse(id); parseErr != nil {
		return ErrRecordNotFound
	}

	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}
	defer finish(db, shouldCommit, &err)

	result := db.Model(entity).
		Where("id = ?", id).
		Select("*").
		Omit("id", "created_at").
		Updates(entity)
	if result.Error != nil {
		err = fmt.Errorf("failed to update %s %s: %w", r.table, id, result.Error)
		return err
	}
	if result.RowsAffected == 0 {
		err = ErrRecordNotFound
		return err
	}

	return nil
}

// Delete removes the row identified by id. Deleting a missing row is not an error.
func (r *BaseRepository[T]) Delete(ctx context.Context, id string) (err error) {
	if _, parseErr := uuid.Parse(id); parseErr != nil {
		return nil
	}

	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}
	defer finish(db, shouldCommit, &err)

	var entity T
	if err = db.Table(r.table).Where("id = ?", id).Delete(&entity).Error; err != nil {
		err = fmt.Errorf("failed to delete %s %s: %w", r.table, id, err)
		return err
	}

	return nil
}

// Count returns the number of rows in the table
func (r *BaseRepository[T]) Count(ctx context.Context) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	if err := db.Table(r.table).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", r.table, err)
	}

	return count, nil
}

// WithTransaction executes a function within a database transaction
func WithTransaction(ctx context.Context, db *gorm.DB, fn func(context.Context) error) (err error) {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			err = fmt.Errorf("panic in transaction: %v", r)
		}
	}()

	ctx = context.WithValue(ctx, TxContextKey, tx)

	if err := fn(ctx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
