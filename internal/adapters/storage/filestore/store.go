// Package filestore persists the whole application state as a single JSON
// snapshot file. It is deliberately a mock store: single process, last write
// wins. The in-memory snapshot is authoritative; file writes are best effort
// and a failed flush surfaces as apperrors.ErrPersistence without touching
// the in-memory state.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goldenlabs/golden_gold_app/internal/apperrors"
	"github.com/goldenlabs/golden_gold_app/internal/core/domain"
)

// Snapshot is the full persisted state: the logical keys of the store.
type Snapshot struct {
	Version      int                    `json:"version"`
	Users        map[string]domain.User `json:"users"`
	Transactions []domain.Transaction   `json:"transactions"`
	UpdatedAt    time.Time              `json:"updatedAt"`
}

// Store owns the snapshot and serializes access to it.
type Store struct {
	mu   sync.RWMutex
	file *os.File
	snap *Snapshot
	path string
}

// Open loads the snapshot at path, creating an empty one if the file is new.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, err
	}
	s := &Store{file: f, path: path}
	if err := s.load(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying file.
func (s *Store) Close() error { return s.file.Close() }

func (s *Store) load() error {
	info, err := s.file.Stat()
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		s.snap = &Snapshot{
			Version:      1,
			Users:        map[string]domain.User{},
			Transactions: []domain.Transaction{},
			UpdatedAt:    time.Now(),
		}
		return s.flushLocked()
	}
	dec := json.NewDecoder(s.file)
	var snap Snapshot
	if err := dec.Decode(&snap); err != nil {
		return fmt.Errorf("corrupt snapshot %s: %w", s.path, err)
	}
	if snap.Users == nil {
		snap.Users = map[string]domain.User{}
	}
	s.snap = &snap
	return nil
}

func (s *Store) flushLocked() error {
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	enc := json.NewEncoder(s.file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.snap); err != nil {
		return err
	}
	// truncate in case new content is shorter
	pos, _ := s.file.Seek(0, io.SeekCurrent)
	if err := s.file.Truncate(pos); err != nil {
		return err
	}
	return s.file.Sync()
}

// Update applies fn to the snapshot under the write lock and then flushes.
// fn must not mutate anything before deciding to fail. A flush failure is
// reported as ErrPersistence but the in-memory mutation stands.
func (s *Store) Update(ctx context.Context, fn func(*Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if err := fn(s.snap); err != nil {
		return err
	}
	s.snap.UpdatedAt = time.Now()
	if err := s.flushLocked(); err != nil {
		return fmt.Errorf("%w: flush %s: %v", apperrors.ErrPersistence, s.path, err)
	}
	return nil
}

// View applies fn to the snapshot under the read lock.
func (s *Store) View(fn func(*Snapshot) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.snap)
}
