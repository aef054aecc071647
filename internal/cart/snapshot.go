package cart

import (
	"encoding/json"
	"fmt"
)

// Snapshot is the persisted form of a cart. It holds the items and nothing
// else; totals are recomputed on load.
type Snapshot struct {
	Items []LineItem `json:"items"`
}

// SnapshotStore persists cart snapshots across restarts.
//
// Load reports ok=false when nothing has been saved. It returns an error when
// stored data exists but cannot be decoded.
type SnapshotStore interface {
	Save(snap Snapshot) error
	Load() (snap Snapshot, ok bool, err error)
	Clear() error
}

// EncodeSnapshot serializes snap for byte oriented stores.
func EncodeSnapshot(snap Snapshot) ([]byte, error) {
	if snap.Items == nil {
		snap.Items = []LineItem{}
	}
	return json.Marshal(snap)
}

// DecodeSnapshot parses data written by EncodeSnapshot. Unknown fields such
// as stale totals are ignored.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode cart snapshot: %w", err)
	}
	return snap, nil
}

type nopStore struct{}

func (nopStore) Save(Snapshot) error           { return nil }
func (nopStore) Load() (Snapshot, bool, error) { return Snapshot{}, false, nil }
func (nopStore) Clear() error                  { return nil }
