package api

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RecordedInteraction is one persisted AI exchange. Live calls append
// these so future mock-mode runs can replay the real response instead
// of a generic template.
type RecordedInteraction struct {
	// ID is the unique identifier for this recording.
	ID string `json:"id"`
	// RequestHash is the content-addressing key (see RequestHash).
	RequestHash string `json:"request_hash"`
	// Prompt is the original prompt text.
	Prompt string `json:"prompt"`
	// Response is the response that was returned.
	Response Response `json:"response"`
	// ValidatorID identifies the validator that made the request.
	ValidatorID string `json:"validator_id"`
	// ContentType is the kind of content that was being validated.
	ContentType string `json:"content_type"`
	// Timestamp is when the interaction was recorded.
	Timestamp time.Time `json:"timestamp"`
	// RealAIUsed is true when the response came from a live call.
	RealAIUsed bool `json:"real_ai_used"`
}

// RecordingStore persists recorded interactions as a single JSON
// document mapping request hash to interaction. It is read fully at
// startup and rewritten on every append.
//
// The store is append-only and safe for concurrent writers: records
// are keyed by an independently computed content hash, so the worst
// race on a true duplicate is last-write-wins over identical content.
type RecordingStore struct {
	path string

	mu      sync.RWMutex
	records map[string]RecordedInteraction
}

// OpenRecordingStore opens (or creates) the recording store at path.
// An empty path yields a purely in-memory store, used in tests.
func OpenRecordingStore(path string) (*RecordingStore, error) {
	s := &RecordingStore{
		path:    path,
		records: make(map[string]RecordedInteraction),
	}

	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read recording store: %w", err)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.records); err != nil {
			return nil, fmt.Errorf("parse recording store %s: %w", path, err)
		}
	}

	return s, nil
}

// Lookup returns the recorded interaction for a request hash.
func (s *RecordingStore) Lookup(requestHash string) (RecordedInteraction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[requestHash]
	return rec, ok
}

// Record appends an interaction and persists the store. The ID and
// timestamp are stamped if the caller left them empty.
func (s *RecordingStore) Record(rec RecordedInteraction) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.RequestHash] = rec
	return s.flushLocked()
}

// Len returns the number of recorded interactions.
func (s *RecordingStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// flushLocked writes the full document to disk. Callers hold s.mu.
func (s *RecordingStore) flushLocked() error {
	if s.path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create recording store directory: %w", err)
	}

	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode recording store: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write recording store: %w", err)
	}
	return nil
}
