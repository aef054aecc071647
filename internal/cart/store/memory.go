// Package store provides SnapshotStore implementations for the cart.
package store

import (
	"sync"

	"giftcard-store/internal/cart"
)

// Memory keeps the encoded snapshot in process memory.
type Memory struct {
	mu   sync.Mutex
	data []byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Save encodes snap and keeps the bytes.
func (m *Memory) Save(snap cart.Snapshot) error {
	data, err := cart.EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data = data
	m.mu.Unlock()
	return nil
}

// Load decodes the kept bytes, reporting ok=false when nothing was saved.
func (m *Memory) Load() (cart.Snapshot, bool, error) {
	m.mu.Lock()
	data := m.data
	m.mu.Unlock()
	if data == nil {
		return cart.Snapshot{}, false, nil
	}
	snap, err := cart.DecodeSnapshot(data)
	if err != nil {
		return cart.Snapshot{}, false, err
	}
	return snap, true, nil
}

// Clear drops the kept bytes.
func (m *Memory) Clear() error {
	m.mu.Lock()
	m.data = nil
	m.mu.Unlock()
	return nil
}

// Raw replaces the stored bytes. It exists for tests that need corrupt data.
func (m *Memory) Raw(data []byte) {
	m.mu.Lock()
	m.data = data
	m.mu.Unlock()
}
