package history

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// Outcome of one logged application attempt.
type Outcome string

const (
	OutcomeSubmitted     Outcome = "submitted"
	OutcomePartial       Outcome = "partial"
	OutcomeFailed        Outcome = "failed"
	OutcomeError         Outcome = "error"
	OutcomeNoExternalURL Outcome = "error-no-external-url"
)

type ApplicationRecord struct {
	URL           string            `json:"url"`
	ExternalURL   string            `json:"external_url,omitempty"`
	Company       string            `json:"company"`
	Title         string            `json:"title,omitempty"`
	Timestamp     time.Time         `json:"timestamp"`
	Outcome       Outcome           `json:"outcome"`
	AnswerPreview map[string]string `json:"answers_preview,omitempty"`
}

type logFile struct {
	Applications []ApplicationRecord `json:"applications"`
}

// Store is the durable application log. The whole file is loaded at open
// and rewritten atomically on every append, so a crash leaves either the
// old or the new complete file on disk.
type Store struct {
	mu      sync.Mutex
	path    string
	lock    *flock.Flock
	records []ApplicationRecord
	applied map[string]struct{}
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock history file: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("history file %s is locked by another run", path)
	}

	s := &Store{
		path:    path,
		lock:    lock,
		applied: make(map[string]struct{}),
	}
	if err := s.load(); err != nil {
		lock.Unlock()
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read history: %w", err)
	}

	var f logFile
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to parse history: %w", err)
	}

	s.records = f.Applications
	for _, rec := range s.records {
		s.applied[rec.URL] = struct{}{}
	}
	log.Printf("📋 Loaded %d previous applications from %s", len(s.records), s.path)
	return nil
}

// HasApplied reports whether a listing URL was already processed in this
// run or any earlier one.
func (s *Store) HasApplied(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.applied[url]
	return exists
}

// Record appends one application record and flushes the whole log. A write
// failure here is fatal to the caller: losing the record risks a duplicate
// submission on the next run.
func (s *Store) Record(rec ApplicationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	if _, exists := s.applied[rec.URL]; exists {
		return nil
	}

	s.records = append(s.records, rec)
	s.applied[rec.URL] = struct{}{}
	return s.save()
}

// save writes the full log to a temp file and renames it over the old one.
func (s *Store) save() error {
	data, err := json.MarshalIndent(logFile{Applications: s.records}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace history: %w", err)
	}
	return nil
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *Store) Close() error {
	return s.lock.Unlock()
}
