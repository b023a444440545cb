// Package storage defines the save-slot persistence interface and its file
// backend.
package storage

import (
	"context"
	"errors"
	"regexp"
)

// ErrSaveNotFound is returned when a slot has no saved data.
var ErrSaveNotFound = errors.New("storage: save not found")

// ErrInvalidSlot is returned when a slot name is unusable.
var ErrInvalidSlot = errors.New("storage: invalid slot name")

// SaveStore persists opaque save payloads by slot name. The payload encoding
// belongs to the caller; the store never inspects it.
type SaveStore interface {
	// Save writes data to the slot, replacing any previous payload.
	Save(ctx context.Context, slot string, data []byte) error
	// Load returns the slot's payload, or ErrSaveNotFound.
	Load(ctx context.Context, slot string) ([]byte, error)
	// Delete removes the slot's payload. Deleting an empty slot is a no-op.
	Delete(ctx context.Context, slot string) error
}

var slotNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// ValidSlot reports whether slot is a usable slot name.
func ValidSlot(slot string) bool {
	return slotNamePattern.MatchString(slot)
}
