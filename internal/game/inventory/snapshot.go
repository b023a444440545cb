package inventory

import (
	"errors"
	"fmt"
	"time"

	"github.com/herosdawn/herosdawn/internal/game/item"
)

// SnapshotVersion is the schema version written into every snapshot.
const SnapshotVersion = 1

// ErrSnapshotVersion is returned when a snapshot carries an unsupported
// schema version.
var ErrSnapshotVersion = errors.New("inventory: unsupported snapshot version")

// ItemSnapshot is the persisted form of a single instance. Only state that
// cannot be re-derived from the template is stored.
type ItemSnapshot struct {
	InstanceID string    `json:"instance_id"`
	TemplateID string    `json:"template_id"`
	Count      int       `json:"count"`
	Equipped   bool      `json:"equipped"`
	Durability *int      `json:"durability,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Snapshot is the persisted form of a Store.
type Snapshot struct {
	Version  int            `json:"version"`
	Gold     int            `json:"gold"`
	MaxSlots int            `json:"max_slots"`
	Items    []ItemSnapshot `json:"items"`
}

// Snapshot captures the current store state.
//
// Postcondition: the result carries SnapshotVersion and one entry per slot
// in slot order.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Version:  SnapshotVersion,
		Gold:     s.gold,
		MaxSlots: s.maxSlots,
		Items:    make([]ItemSnapshot, 0, len(s.items)),
	}
	for _, inst := range s.items {
		dur := inst.Durability()
		snap.Items = append(snap.Items, ItemSnapshot{
			InstanceID: inst.ID(),
			TemplateID: inst.Template().ID(),
			Count:      inst.Count(),
			Equipped:   inst.Equipped(),
			Durability: &dur,
			CreatedAt:  inst.CreatedAt(),
		})
	}
	return snap
}

// Restore replaces the store contents with the snapshot, re-resolving every
// entry through the registry. Entries whose template no longer exists are
// dropped; their ids are returned so callers can log them.
//
// Postcondition: returns ErrSnapshotVersion when snap.Version is not
// SnapshotVersion; on success the store holds exactly the resolvable entries.
func (s *Store) Restore(snap Snapshot) (dropped []string, err error) {
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSnapshotVersion, snap.Version, SnapshotVersion)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gold = snap.Gold
	if snap.MaxSlots > 0 {
		s.maxSlots = snap.MaxSlots
	}
	s.items = s.items[:0]
	for _, entry := range snap.Items {
		inst, cerr := s.reg.CreateItem(entry.TemplateID, item.Overrides{
			InstanceID: entry.InstanceID,
			Count:      entry.Count,
			Equipped:   entry.Equipped,
			Durability: entry.Durability,
			CreatedAt:  entry.CreatedAt,
		})
		if cerr != nil {
			if errors.Is(cerr, item.ErrUnknownTemplate) {
				dropped = append(dropped, entry.TemplateID)
				continue
			}
			return dropped, fmt.Errorf("inventory: Store.Restore: %w", cerr)
		}
		if len(s.items) >= s.maxSlots {
			dropped = append(dropped, entry.TemplateID)
			continue
		}
		s.items = append(s.items, inst)
	}
	return dropped, nil
}
