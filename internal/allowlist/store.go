// Package allowlist persists the set of phone numbers permitted to open
// the gate. The backing document is a small JSON file so admins can
// inspect and edit it without tooling; every lookup re-reads the file so
// edits take effect without a restart.
package allowlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/portvakt/portvakt/internal/logger"
	"github.com/portvakt/portvakt/internal/phone"
)

var (
	// ErrInvalidNumber is returned when an admin submits a number that is
	// not in normalized international format.
	ErrInvalidNumber = errors.New("number must be in E.164 format (start with +, 10-16 characters)")
	// ErrStoreUnavailable signals that the backing document is missing or
	// corrupt. Callers degrade to an empty set rather than failing.
	ErrStoreUnavailable = errors.New("trusted numbers store unavailable")
)

// Document is the persisted representation of the allow-list.
type Document struct {
	Numbers     []string `json:"numbers"`
	Description string   `json:"description,omitempty"`
}

// Store is a file-backed set of trusted numbers. Mutations are serialized
// by a mutex and persisted with a temp-file rename so readers never
// observe a partial write.
type Store struct {
	path string
	mu   sync.Mutex
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the persisted set. A missing or unparsable document yields an
// empty set wrapped with ErrStoreUnavailable; the service keeps running
// with zero trusted numbers rather than crashing.
func (s *Store) Load() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s not found", ErrStoreUnavailable, s.path)
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrStoreUnavailable, err)
	}

	return dedupe(doc.Numbers), nil
}

// Contains reports whether number is trusted. Store failures are logged
// and treated as an empty allow-list.
func (s *Store) Contains(number string) bool {
	numbers, err := s.Load()
	if err != nil {
		logger.Log().WithError(err).Error("Failed to load trusted numbers")
		return false
	}

	for _, n := range numbers {
		if n == number {
			return true
		}
	}
	return false
}

// Add validates and appends a number. It returns false without touching
// storage when the number is already present.
func (s *Store) Add(number string) (bool, error) {
	if !phone.Valid(number) {
		return false, ErrInvalidNumber
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.loadDocument()
	for _, n := range doc.Numbers {
		if n == number {
			return false, nil
		}
	}

	doc.Numbers = append(doc.Numbers, number)
	if err := s.writeDocument(doc); err != nil {
		return false, err
	}

	logger.WithFields(map[string]interface{}{"number": number}).Info("Added trusted number")
	return true, nil
}

// Remove deletes a number. It returns false when the number was not
// present; that is an outcome, not an error.
func (s *Store) Remove(number string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.loadDocument()
	kept := doc.Numbers[:0]
	found := false
	for _, n := range doc.Numbers {
		if n == number {
			found = true
			continue
		}
		kept = append(kept, n)
	}
	if !found {
		return false, nil
	}

	doc.Numbers = kept
	if err := s.writeDocument(doc); err != nil {
		return false, err
	}

	logger.WithFields(map[string]interface{}{"number": number}).Info("Removed trusted number")
	return true, nil
}

// Merge adds every valid number in the batch in one write. Used by the
// bulk importer. Returns the count of numbers actually added.
func (s *Store) Merge(numbers []string, description string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.loadDocument()
	existing := make(map[string]bool, len(doc.Numbers))
	for _, n := range doc.Numbers {
		existing[n] = true
	}

	added := 0
	for _, n := range numbers {
		if existing[n] {
			continue
		}
		existing[n] = true
		doc.Numbers = append(doc.Numbers, n)
		added++
	}
	if added == 0 {
		return 0, nil
	}

	sort.Strings(doc.Numbers)
	if description != "" {
		doc.Description = description
	}
	if err := s.writeDocument(doc); err != nil {
		return 0, err
	}
	return added, nil
}

// loadDocument is Load without the unavailable wrapping, for use under the
// write lock where a missing document simply means an empty list.
func (s *Store) loadDocument() Document {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Document{}
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		logger.Log().WithError(err).Error("Trusted numbers document is corrupt, starting from empty set")
		return Document{}
	}
	doc.Numbers = dedupe(doc.Numbers)
	return doc
}

// writeDocument persists atomically relative to readers: write a sibling
// temp file, then rename over the document.
func (s *Store) writeDocument(doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal trusted numbers: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".trusted_numbers-*.json")
	if err != nil {
		return fmt.Errorf("create temp document: %w", err)
	}

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp document: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace trusted numbers document: %w", err)
	}
	return nil
}

func dedupe(numbers []string) []string {
	seen := make(map[string]bool, len(numbers))
	out := numbers[:0]
	for _, n := range numbers {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
