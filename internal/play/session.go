// Package play runs a single hunt session: a synchronous reducer over player
// events that moves through intro, playing, reveal, passcode and victory,
// writing progress back after every change.
package play

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/zyedidia/generic/mapset"

	"github.com/playperu/wayward/internal/hunt"
	"github.com/playperu/wayward/internal/progress"
)

type Phase string

const (
	PhaseIntro    Phase = "intro"
	PhasePlaying  Phase = "playing"
	PhaseReveal   Phase = "reveal"
	PhasePasscode Phase = "passcode"
	PhaseVictory  Phase = "victory"
)

func (p Phase) valid() bool {
	switch p {
	case PhaseIntro, PhasePlaying, PhaseReveal, PhasePasscode, PhaseVictory:
		return true
	}
	return false
}

var (
	ErrIncorrectPasscode = errors.New("incorrect passcode")
	ErrIncorrectPassword = errors.New("incorrect skip password")
	ErrNotAllowed        = errors.New("not allowed in current phase")
	ErrNoClues           = errors.New("hunt has no clues")
	ErrUnknownEvent      = errors.New("unknown event")
)

// Locator is the slice of the geolocation tracker a session drives.
type Locator interface {
	Start()
	SetTarget(c *hunt.Coordinate)
	IsWithinRadius(radius float64) bool
}

// ProgressStore persists the session's progress. Implementations are
// best-effort and never report failures.
type ProgressStore interface {
	Save(ctx context.Context, rec progress.Record)
	Load(ctx context.Context) (progress.Record, bool)
	Clear(ctx context.Context)
}

// EditableMarker is told when a hunt has been completed.
type EditableMarker interface {
	MarkEditable(id string)
}

type Deps struct {
	Locator Locator
	Store   ProgressStore
	Marker  EditableMarker
	Logger  *slog.Logger
}

type Session struct {
	hunt    hunt.Hunt
	locator Locator
	store   ProgressStore
	marker  EditableMarker
	logger  *slog.Logger

	mu            sync.Mutex
	index         int
	phase         Phase
	hintsRevealed int
	arrived       mapset.Set[int]
	unlocked      mapset.Set[int]
	listeners     []func(Snapshot)
}

// NewSession selects h for play. A stored record for the same hunt is
// resumed; anything else starts fresh at the intro. Selecting alone writes
// nothing.
func NewSession(ctx context.Context, h hunt.Hunt, deps Deps) (*Session, error) {
	if len(h.Clues) == 0 {
		return nil, ErrNoClues
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Session{
		hunt:     h,
		locator:  deps.Locator,
		store:    deps.Store,
		marker:   deps.Marker,
		logger:   logger.With("hunt_id", h.ID),
		phase:    PhaseIntro,
		arrived:  mapset.New[int](),
		unlocked: mapset.New[int](),
	}

	if s.store != nil {
		if rec, ok := s.store.Load(ctx); ok {
			s.resume(rec)
		}
	}
	if s.phase != PhaseIntro && s.locator != nil {
		s.locator.Start()
	}
	s.aim(s.clue().Location)
	return s, nil
}

func (s *Session) resume(rec progress.Record) {
	phase := Phase(rec.Phase)
	if rec.HuntID != s.hunt.ID || !phase.valid() ||
		rec.CurrentClueIndex < 0 || rec.CurrentClueIndex >= len(s.hunt.Clues) {
		return
	}

	s.index = rec.CurrentClueIndex
	s.phase = phase
	s.hintsRevealed = min(max(rec.HintsRevealed, 0), len(s.hunt.Clues[s.index].Hints))
	for _, i := range rec.ArrivedClues {
		s.arrived.Put(i)
	}
	for _, i := range rec.UnlockedClues {
		s.unlocked.Put(i)
	}
	s.logger.Info("resumed session", "phase", s.phase, "clue", s.index)
}

// Hunt returns the hunt being played.
func (s *Session) Hunt() hunt.Hunt { return s.hunt }

// OnChange registers fn to receive a snapshot after every transition.
func (s *Session) OnChange(fn func(Snapshot)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Session) clue() hunt.Clue { return s.hunt.Clues[s.index] }

func (s *Session) isLastClue() bool { return s.index >= len(s.hunt.Clues)-1 }

// aim points the tracker at c. Tracker listeners run synchronously, so
// this must not be called with mu held.
func (s *Session) aim(c hunt.Coordinate) {
	if s.locator != nil {
		s.locator.SetTarget(&c)
	}
}

func (s *Session) record() progress.Record {
	return progress.Record{
		HuntID:           s.hunt.ID,
		CurrentClueIndex: s.index,
		Phase:            string(s.phase),
		HintsRevealed:    s.hintsRevealed,
		ArrivedClues:     sortedMembers(s.arrived),
		UnlockedClues:    sortedMembers(s.unlocked),
	}
}

// effects is the work left over from a transition once mu is released.
type effects struct {
	snap      Snapshot
	listeners []func(Snapshot)
	target    hunt.Coordinate
	activate  bool
	completed bool
}

// commit persists the current state and captures what to publish. Callers
// hold mu.
func (s *Session) commit(ctx context.Context) effects {
	if s.store != nil {
		s.store.Save(ctx, s.record())
	}
	s.logger.Debug("session transition", "phase", s.phase, "clue", s.index, "hints", s.hintsRevealed)
	return s.capture()
}

// capture records the current state for apply. Every transition that lands
// in play activates the tracker, however it got there. Callers hold mu.
func (s *Session) capture() effects {
	return effects{
		snap:      s.snapshot(),
		listeners: slices.Clone(s.listeners),
		target:    s.clue().Location,
		activate:  s.phase == PhasePlaying,
	}
}

// apply runs a transition's side effects outside the lock: listeners first,
// then the tracker, whose own listeners may feed arrival checks back in.
func (s *Session) apply(fx effects) {
	if fx.completed {
		s.logger.Info("hunt completed")
		if s.marker != nil {
			s.marker.MarkEditable(s.hunt.ID)
		}
	}
	for _, fn := range fx.listeners {
		fn(fx.snap)
	}
	if fx.activate && s.locator != nil {
		s.locator.Start()
	}
	s.aim(fx.target)
}

func sortedMembers(set mapset.Set[int]) []int {
	out := make([]int, 0, set.Size())
	set.Each(func(i int) { out = append(out, i) })
	slices.Sort(out)
	return out
}
