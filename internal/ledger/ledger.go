// Package ledger keeps the append-only audit trail of access attempts.
// One JSON object per line; records are never rewritten or deleted.
package ledger

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/portvakt/portvakt/internal/logger"
)

// Attempt is a single access attempt. Caller is stored as received from
// the provider, normalized or not, so the trail reflects what actually
// arrived.
type Attempt struct {
	Timestamp  time.Time `json:"timestamp"`
	Caller     string    `json:"caller"`
	Trusted    bool      `json:"trusted"`
	GateOpened bool      `json:"gate_opened"`
}

// Stats aggregates recent attempts for the admin dashboard.
type Stats struct {
	Total      int `json:"total_calls"`
	Successful int `json:"successful_calls"`
	Denied     int `json:"denied_calls"`
}

// Ledger appends attempts to a durable log file. Appends are serialized
// by a mutex so concurrent calls cannot interleave within a record.
type Ledger struct {
	path string
	mu   sync.Mutex
}

func New(path string) *Ledger {
	return &Ledger{path: path}
}

// Append writes one attempt as a single line. An append failure is logged
// and returned, but callers on the decision path treat it as non-fatal:
// a lost audit line must not reverse a gate decision already made.
func (l *Ledger) Append(a Attempt) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal attempt: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open call log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("append call log: %w", err)
	}
	return nil
}

// Recent returns up to limit attempts, most recent first. Malformed lines
// are skipped rather than failing the whole read.
func (l *Ledger) Recent(limit int) ([]Attempt, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Attempt{}, nil
		}
		return nil, fmt.Errorf("open call log: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read call log: %w", err)
	}

	if limit > 0 && len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}

	attempts := make([]Attempt, 0, len(lines))
	for i := len(lines) - 1; i >= 0; i-- {
		var a Attempt
		if err := json.Unmarshal([]byte(lines[i]), &a); err != nil {
			logger.Log().WithError(err).Warn("Skipping malformed call log line")
			continue
		}
		attempts = append(attempts, a)
	}
	return attempts, nil
}

// Aggregate derives counts over the last limit attempts. Successful means
// the gate actually opened; everything else counts as denied.
func (l *Ledger) Aggregate(limit int) (Stats, error) {
	attempts, err := l.Recent(limit)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{Total: len(attempts)}
	for _, a := range attempts {
		if a.GateOpened {
			stats.Successful++
		}
	}
	stats.Denied = stats.Total - stats.Successful
	return stats, nil
}
