package audit

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/Lin-Jiong-HDU/jarvis/internal/core"
	"github.com/Lin-Jiong-HDU/jarvis/internal/core/security"
)

// ErrRecordNotFound is returned when no record has the requested ID
var ErrRecordNotFound = errors.New("audit record not found")

// Log manages one session's audit records with persistence
type Log struct {
	sessionID string
	store     *Store
	records   []*Record
	mu        sync.RWMutex
}

// NewLog opens the audit log for a session directory, loading existing records
func NewLog(sessionDir string, sessionID string) (*Log, error) {
	store := NewStore(filepath.Join(sessionDir, FileName))

	records, err := store.Load()
	if err != nil {
		return nil, err
	}

	return &Log{
		sessionID: sessionID,
		store:     store,
		records:   records,
	}, nil
}

// Record appends a resolution and persists the log.
func (l *Log) Record(cmd security.Command, result *core.ExecutionResult) error {
	_, err := l.Append(NewRecord(l.sessionID, cmd, result))
	return err
}

// Append adds rec to the log and persists it
func (l *Log) Append(rec *Record) (*Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append(l.records, rec)
	if err := l.store.Save(l.records); err != nil {
		l.records = l.records[:len(l.records)-1]
		return nil, err
	}
	return rec, nil
}

// Records returns all records in insertion order
func (l *Log) Records() []*Record {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]*Record, len(l.records))
	copy(result, l.records)
	return result
}

// Get returns the record with the given ID
func (l *Log) Get(id string) (*Record, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, rec := range l.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
}

// ByStatus returns the records with the given status
func (l *Log) ByStatus(status core.Status) []*Record {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var result []*Record
	for _, rec := range l.records {
		if rec.Status == status {
			result = append(result, rec)
		}
	}
	return result
}

// LoadAll reads the audit log of every session under sessionsDir and
// returns the records newest first.
func LoadAll(sessionsDir string) ([]*Record, error) {
	entries, err := os.ReadDir(sessionsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read sessions directory: %w", err)
	}

	var all []*Record
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		records, err := NewStore(filepath.Join(sessionsDir, entry.Name(), FileName)).Load()
		if err != nil {
			return nil, fmt.Errorf("session %s: %w", entry.Name(), err)
		}
		all = append(all, records...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all, nil
}

var _ core.Recorder = (*Log)(nil)
