package play

import (
	"context"
	"fmt"

	"github.com/zyedidia/generic/mapset"

	"github.com/playperu/wayward/internal/hunt"
)

type EventType string

const (
	EventStart    EventType = "start"
	EventHint     EventType = "hint"
	EventArrive   EventType = "arrive"
	EventCheck    EventType = "check"
	EventSkip     EventType = "skip"
	EventPasscode EventType = "passcode"
	EventContinue EventType = "continue"
	EventHome     EventType = "home"
	EventPrevious EventType = "previous"
	EventRestart  EventType = "restart"
)

// Event is a player action. Entry carries typed text for skip and passcode.
type Event struct {
	Type  EventType `json:"type"`
	Entry string    `json:"entry,omitempty"`
}

// Dispatch applies e and returns the resulting snapshot. Input errors leave
// the session unchanged.
func (s *Session) Dispatch(ctx context.Context, e Event) (Snapshot, error) {
	var err error
	switch e.Type {
	case EventStart:
		err = s.Start(ctx)
	case EventHint:
		err = s.RequestHint(ctx)
	case EventArrive:
		err = s.MarkArrived(ctx)
	case EventCheck:
		s.CheckArrival(ctx)
	case EventSkip:
		err = s.AttemptSkip(ctx, e.Entry)
	case EventPasscode:
		err = s.SubmitPasscode(ctx, e.Entry)
	case EventContinue:
		err = s.Continue(ctx)
	case EventHome:
		s.GoHome(ctx)
	case EventPrevious:
		err = s.GoPrevious(ctx)
	case EventRestart:
		err = s.Restart(ctx)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownEvent, e.Type)
	}
	return s.Snapshot(), err
}

// Start leaves the intro for the current clue and activates the tracker.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.phase != PhaseIntro {
		s.mu.Unlock()
		return ErrNotAllowed
	}
	s.phase = PhasePlaying
	fx := s.commit(ctx)
	s.mu.Unlock()

	s.apply(fx)
	return nil
}

// RequestHint reveals the next hint. At the last hint it does nothing.
func (s *Session) RequestHint(ctx context.Context) error {
	s.mu.Lock()
	if s.phase != PhasePlaying {
		s.mu.Unlock()
		return ErrNotAllowed
	}
	if s.hintsRevealed >= len(s.clue().Hints) {
		s.mu.Unlock()
		return nil
	}
	s.hintsRevealed++
	fx := s.commit(ctx)
	s.mu.Unlock()

	s.apply(fx)
	return nil
}

// MarkArrived records arrival at the current clue and shows its reveal. It
// is the explicit "see what's here" action and also works for a clue marked
// arrived on an earlier visit.
func (s *Session) MarkArrived(ctx context.Context) error {
	s.mu.Lock()
	if s.phase != PhasePlaying {
		s.mu.Unlock()
		return ErrNotAllowed
	}
	fx := s.arrive(ctx)
	s.mu.Unlock()

	s.apply(fx)
	return nil
}

// CheckArrival consults the tracker and reveals the current clue the first
// time the player is inside its radius. It reports whether it did.
func (s *Session) CheckArrival(ctx context.Context) bool {
	s.mu.Lock()
	if s.phase != PhasePlaying || s.locator == nil || s.arrived.Has(s.index) {
		s.mu.Unlock()
		return false
	}
	if !s.locator.IsWithinRadius(s.clue().ArrivalRadius) {
		s.mu.Unlock()
		return false
	}
	s.logger.Info("arrived at clue", "clue", s.index)
	fx := s.arrive(ctx)
	s.mu.Unlock()

	s.apply(fx)
	return true
}

// AttemptSkip skips the current clue when its skip option allows it. For a
// password skip, entry must match.
func (s *Session) AttemptSkip(ctx context.Context, entry string) error {
	s.mu.Lock()
	if s.phase != PhasePlaying || s.arrived.Has(s.index) {
		s.mu.Unlock()
		return ErrNotAllowed
	}

	opt := s.clue().SkipOption
	switch {
	case !opt.Enabled():
		s.mu.Unlock()
		return ErrNotAllowed
	case opt.Kind == hunt.SkipPassword && !secretsMatch(entry, opt.Password):
		s.mu.Unlock()
		return ErrIncorrectPassword
	}

	s.logger.Info("skipped clue", "clue", s.index, "kind", opt.Kind)
	fx := s.arrive(ctx)
	s.mu.Unlock()

	s.apply(fx)
	return nil
}

// SubmitPasscode unlocks the next clue when entry matches the current clue's
// passcode.
func (s *Session) SubmitPasscode(ctx context.Context, entry string) error {
	s.mu.Lock()
	if s.phase != PhasePasscode {
		s.mu.Unlock()
		return ErrNotAllowed
	}
	c := s.clue()
	if c.Passcode == nil || !secretsMatch(entry, *c.Passcode) {
		s.mu.Unlock()
		return ErrIncorrectPasscode
	}

	s.unlocked.Put(s.index)
	fx := s.advance(ctx)
	s.mu.Unlock()

	s.apply(fx)
	return nil
}

// Continue leaves the reveal: to victory after the last clue, to passcode
// entry when the clue is still locked, otherwise on to the next clue.
func (s *Session) Continue(ctx context.Context) error {
	s.mu.Lock()
	if s.phase != PhaseReveal {
		s.mu.Unlock()
		return ErrNotAllowed
	}

	var fx effects
	switch {
	case s.isLastClue():
		s.phase = PhaseVictory
		fx = s.commit(ctx)
		fx.completed = true
	case s.clue().RequiresPasscode() && !s.unlocked.Has(s.index):
		s.phase = PhasePasscode
		fx = s.commit(ctx)
	default:
		fx = s.advance(ctx)
	}
	s.mu.Unlock()

	s.apply(fx)
	return nil
}

// GoHome returns to the intro at the first clue. Arrival and unlock history
// is kept.
func (s *Session) GoHome(ctx context.Context) {
	s.mu.Lock()
	s.phase = PhaseIntro
	s.index = 0
	s.hintsRevealed = 0
	fx := s.commit(ctx)
	s.mu.Unlock()

	s.apply(fx)
}

// GoPrevious steps back. From playing it returns to the previous clue's
// reveal, or to the intro at the first clue; from victory it returns to the
// last clue's reveal. Revisited reveals show every hint.
func (s *Session) GoPrevious(ctx context.Context) error {
	s.mu.Lock()
	switch s.phase {
	case PhasePlaying:
		if s.index == 0 {
			s.phase = PhaseIntro
			s.hintsRevealed = 0
			break
		}
		s.index--
		s.phase = PhaseReveal
		s.hintsRevealed = len(s.clue().Hints)
	case PhaseVictory:
		s.index = len(s.hunt.Clues) - 1
		s.phase = PhaseReveal
		s.hintsRevealed = len(s.clue().Hints)
	default:
		s.mu.Unlock()
		return ErrNotAllowed
	}
	fx := s.commit(ctx)
	s.mu.Unlock()

	s.apply(fx)
	return nil
}

// Restart wipes all progress after a completed hunt and clears the stored
// record.
func (s *Session) Restart(ctx context.Context) error {
	s.mu.Lock()
	if s.phase != PhaseVictory {
		s.mu.Unlock()
		return ErrNotAllowed
	}
	s.phase = PhaseIntro
	s.index = 0
	s.hintsRevealed = 0
	s.arrived = mapset.New[int]()
	s.unlocked = mapset.New[int]()
	if s.store != nil {
		s.store.Clear(ctx)
	}
	fx := s.capture()
	s.mu.Unlock()

	s.logger.Info("session restarted")
	s.apply(fx)
	return nil
}

// arrive marks the current clue arrived and enters its reveal. Callers hold mu.
func (s *Session) arrive(ctx context.Context) effects {
	s.arrived.Put(s.index)
	s.phase = PhaseReveal
	return s.commit(ctx)
}

// advance moves to the next clue's playing phase. Callers hold mu.
func (s *Session) advance(ctx context.Context) effects {
	s.index++
	s.phase = PhasePlaying
	s.hintsRevealed = 0
	return s.commit(ctx)
}
