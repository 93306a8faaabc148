// Package draft persists the single in-progress booking form so a
// client can resume after a restart. One draft exists at a time; each
// save overwrites the previous one.
package draft

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"slotbook/pkg/logger"
	"slotbook/pkg/model"
)

type Store struct {
	mu   sync.Mutex
	path string
	log  *logger.Logger
}

func NewStore(path string, log *logger.Logger) *Store {
	return &Store{
		path: path,
		log:  log,
	}
}

// Load returns the saved draft, or nil when none has been saved. A
// corrupt draft file is treated as absent rather than failing startup.
func (s *Store) Load() (*model.BookingDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading draft file: %w", err)
	}

	var draft model.BookingDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		s.log.Warn("Discarding unreadable draft file", "path", s.path, "error", err)
		return nil, nil
	}

	return &draft, nil
}

// Save overwrites the stored draft. The write goes through a temp file
// and rename so a crash mid-save never leaves a half-written draft.
func (s *Store) Save(draft *model.BookingDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encoding draft: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".draft-*")
	if err != nil {
		return fmt.Errorf("creating draft temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing draft: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing draft temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing draft file: %w", err)
	}

	return nil
}

// Clear removes the stored draft. Clearing an absent draft is not an
// error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing draft file: %w", err)
	}
	return nil
}
