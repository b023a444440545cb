package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/herosdawn/herosdawn/internal/storage"
)

// SaveRepository is a storage.SaveStore backed by the saves table.
type SaveRepository struct {
	pool *Pool
}

var _ storage.SaveStore = (*SaveRepository)(nil)

// NewSaveRepository returns a SaveRepository using the given pool.
//
// Precondition: pool must be connected.
func NewSaveRepository(pool *Pool) *SaveRepository {
	return &SaveRepository{pool: pool}
}

// Save upserts the slot's payload.
//
// Postcondition: a subsequent Load of the slot returns data.
func (r *SaveRepository) Save(ctx context.Context, slot string, data []byte) error {
	if !storage.ValidSlot(slot) {
		return fmt.Errorf("postgres: SaveRepository.Save: %w: %q", storage.ErrInvalidSlot, slot)
	}
	_, err := r.pool.DB().Exec(ctx, `
		INSERT INTO saves (slot, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (slot) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`,
		slot, data)
	if err != nil {
		return fmt.Errorf("postgres: SaveRepository.Save: %w", err)
	}
	return nil
}

// Load returns the slot's payload.
//
// Postcondition: returns storage.ErrSaveNotFound when the slot has no row.
func (r *SaveRepository) Load(ctx context.Context, slot string) ([]byte, error) {
	if !storage.ValidSlot(slot) {
		return nil, fmt.Errorf("postgres: SaveRepository.Load: %w: %q", storage.ErrInvalidSlot, slot)
	}
	var data []byte
	err := r.pool.DB().QueryRow(ctx, `SELECT data FROM saves WHERE slot = $1`, slot).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("postgres: SaveRepository.Load: %w: %q", storage.ErrSaveNotFound, slot)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: SaveRepository.Load: %w", err)
	}
	return data, nil
}

// Delete removes the slot's row, succeeding when it is already absent.
func (r *SaveRepository) Delete(ctx context.Context, slot string) error {
	if !storage.ValidSlot(slot) {
		return fmt.Errorf("postgres: SaveRepository.Delete: %w: %q", storage.ErrInvalidSlot, slot)
	}
	_, err := r.pool.DB().Exec(ctx, `DELETE FROM saves WHERE slot = $1`, slot)
	if err != nil {
		return fmt.Errorf("postgres: SaveRepository.Delete: %w", err)
	}
	return nil
}
