// Package progress persists the single in-progress hunt record. Writes are
// best-effort: failures are logged and otherwise dropped, and a missing or
// malformed record reads as absent.
package progress

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
)

// Key is the fixed storage key of the progress record.
const Key = "huntProgress"

// ErrNoValue is returned by a Backend when the key is absent.
var ErrNoValue = errors.New("no value")

// Record is the persisted state of one play session.
type Record struct {
	HuntID           string `json:"huntId"`
	CurrentClueIndex int    `json:"currentClueIndex"`
	Phase            string `json:"phase"`
	HintsRevealed    int    `json:"hintsRevealed"`
	ArrivedClues     []int  `json:"arrivedClues"`
	UnlockedClues    []int  `json:"unlockedClues"`
}

func (r Record) wellFormed() bool {
	return r.HuntID != "" && r.Phase != "" && r.CurrentClueIndex >= 0 && r.HintsRevealed >= 0
}

// Backend is durable key-value storage.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type Store struct {
	backend Backend
	logger  *slog.Logger
}

func NewStore(backend Backend, logger *slog.Logger) *Store {
	return &Store{backend: backend, logger: logger}
}

// Save overwrites the stored record.
func (s *Store) Save(ctx context.Context, rec Record) {
	if rec.ArrivedClues == nil {
		rec.ArrivedClues = []int{}
	}
	if rec.UnlockedClues == nil {
		rec.UnlockedClues = []int{}
	}

	data, err := json.Marshal(rec)
	if err != nil {
		s.logger.Warn("encoding progress", "hunt_id", rec.HuntID, "error", err)
		return
	}
	if err := s.backend.Set(ctx, Key, data); err != nil {
		s.logger.Warn("saving progress", "hunt_id", rec.HuntID, "error", err)
	}
}

// Load returns the stored record, or false when none is stored or it cannot
// be read back.
func (s *Store) Load(ctx context.Context) (Record, bool) {
	data, err := s.backend.Get(ctx, Key)
	if err != nil {
		if !errors.Is(err, ErrNoValue) {
			s.logger.Warn("loading progress", "error", err)
		}
		return Record{}, false
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil || !rec.wellFormed() {
		s.logger.Warn("discarding malformed progress record", "error", err)
		return Record{}, false
	}
	return rec, true
}

// Clear removes the stored record.
func (s *Store) Clear(ctx context.Context) {
	if err := s.backend.Delete(ctx, Key); err != nil {
		s.logger.Warn("clearing progress", "error", err)
	}
}
