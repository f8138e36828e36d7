package play

import "github.com/playperu/wayward/internal/hunt"

// Snapshot is the player-facing view of a session. Secrets never leave the
// session: clues are exposed through ClueView.
type Snapshot struct {
	HuntID           string    `json:"huntId"`
	HuntTitle        string    `json:"huntTitle"`
	Phase            Phase     `json:"phase"`
	CurrentClueIndex int       `json:"currentClueIndex"`
	TotalClues       int       `json:"totalClues"`
	HintsRevealed    int       `json:"hintsRevealed"`
	ArrivedClues     []int     `json:"arrivedClues"`
	UnlockedClues    []int     `json:"unlockedClues"`
	IsLastClue       bool      `json:"isLastClue"`
	Clue             *ClueView `json:"clue,omitempty"`
}

// ClueView is what the player may see of the current clue in the current
// phase. Hints are limited to those already revealed and the reveal only
// appears once the clue has been reached.
type ClueView struct {
	Number         int             `json:"number"`
	Location       hunt.Coordinate `json:"location"`
	ArrivalRadius  float64         `json:"arrivalRadius"`
	InitialClue    string          `json:"initialClue"`
	Hints          []hunt.Hint     `json:"hints"`
	HintsRemaining int             `json:"hintsRemaining"`
	Arrived        bool            `json:"arrived"`
	CanSkip        bool            `json:"canSkip"`
	SkipNeedsEntry bool            `json:"skipNeedsEntry"`
	UnlockNext     hunt.UnlockType `json:"unlockNext"`
	Reveal         *hunt.Reveal    `json:"reveal,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// snapshot must be called with mu held.
func (s *Session) snapshot() Snapshot {
	snap := Snapshot{
		HuntID:           s.hunt.ID,
		HuntTitle:        s.hunt.Title,
		Phase:            s.phase,
		CurrentClueIndex: s.index,
		TotalClues:       len(s.hunt.Clues),
		HintsRevealed:    s.hintsRevealed,
		ArrivedClues:     sortedMembers(s.arrived),
		UnlockedClues:    sortedMembers(s.unlocked),
		IsLastClue:       s.isLastClue(),
	}
	if s.phase == PhaseIntro {
		return snap
	}

	c := s.clue()
	arrived := s.arrived.Has(s.index)
	view := &ClueView{
		Number:         s.index + 1,
		Location:       c.Location,
		ArrivalRadius:  c.ArrivalRadius,
		InitialClue:    c.InitialClue,
		Hints:          append([]hunt.Hint{}, c.Hints[:s.hintsRevealed]...),
		HintsRemaining: len(c.Hints) - s.hintsRevealed,
		Arrived:        arrived,
		CanSkip:        s.phase == PhasePlaying && !arrived && c.SkipOption.Enabled(),
		SkipNeedsEntry: c.SkipOption.Kind == hunt.SkipPassword,
		UnlockNext:     c.UnlockNext,
	}
	if s.phase != PhasePlaying {
		reveal := c.Reveal
		reveal.Photos = append([]string{}, c.Reveal.Photos...)
		view.Reveal = &reveal
	}
	snap.Clue = view
	return snap
}
