package draft

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"slotbook/pkg/logger"
	"slotbook/pkg/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	log := logger.New(logger.Config{
		Level:   logger.LevelError,
		Format:  logger.FormatJSON,
		Output:  io.Discard,
		Service: "test",
	})
	return NewStore(filepath.Join(t.TempDir(), "bookingDraft.json"), log)
}

func TestLoad_NoDraft(t *testing.T) {
	s := newTestStore(t)

	draft, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if draft != nil {
		t.Errorf("Load() = %+v, want nil when nothing saved", draft)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	in := &model.BookingDraft{
		Name: "Alice",
		Team: "Blue",
		Date: "2026-03-02",
		Slot: "08:00 - 09:00",
	}
	if err := s.Save(in); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	out, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if out == nil {
		t.Fatal("Load() = nil, want the saved draft")
	}
	if *out != *in {
		t.Errorf("Load() = %+v, want %+v", *out, *in)
	}
}

func TestSave_OverwritesPrevious(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save(&model.BookingDraft{Name: "Alice"}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := s.Save(&model.BookingDraft{Name: "Bob", Date: "2026-03-02"}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	out, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if out.Name != "Bob" || out.Date != "2026-03-02" {
		t.Errorf("Load() = %+v, want the latest save only", *out)
	}
}

func TestLoad_CorruptFileTreatedAsAbsent(t *testing.T) {
	s := newTestStore(t)

	if err := os.WriteFile(s.path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("writing corrupt file: %v", err)
	}

	draft, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if draft != nil {
		t.Errorf("Load() = %+v, want nil for a corrupt draft", draft)
	}
}

func TestClear(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save(&model.BookingDraft{Name: "Alice"}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}

	draft, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if draft != nil {
		t.Error("draft survived Clear()")
	}

	// Clearing again is a no-op, not an error.
	if err := s.Clear(); err != nil {
		t.Errorf("second Clear() error: %v", err)
	}
}
