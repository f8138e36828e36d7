package hunt

import (
	"strings"

	"github.com/google/uuid"
)

// DefaultArrivalRadius is the radius, in meters, given to newly added clues.
const DefaultArrivalRadius = 20.0

// NewBlank returns a fresh hunt with a random id and one empty clue.
func NewBlank() Hunt {
	return Hunt{
		ID:         uuid.NewString(),
		Clues:      []Clue{NewClue(0)},
		IsEditable: true,
	}
}

// NewClue returns an empty clue with the default radius and automatic unlock.
func NewClue(id int) Clue {
	return Clue{
		ID:            id,
		ArrivalRadius: DefaultArrivalRadius,
		Hints:         []Hint{},
		Reveal:        Reveal{Photos: []string{}},
		UnlockNext:    UnlockAutomatic,
		SkipOption:    SkipOption{Kind: SkipDisabled},
	}
}

// Normalize prepares an authored hunt for storage: text is trimmed, clue ids
// are re-indexed to their positions, passcodes only survive on clues that
// unlock by passcode, and empty text-hint content is dropped.
func Normalize(h Hunt) Hunt {
	out := h.withEmptySlices()
	out.Title = strings.TrimSpace(h.Title)
	out.Description = strings.TrimSpace(h.Description)

	for i := range out.Clues {
		c := &out.Clues[i]
		c.ID = i

		if c.UnlockNext != UnlockPasscode || c.Passcode == nil || *c.Passcode == "" {
			c.Passcode = nil
		}

		hints := make([]Hint, len(c.Hints))
		for j, hint := range c.Hints {
			if hint.Content != nil && *hint.Content == "" {
				hint.Content = nil
			}
			hints[j] = hint
		}
		c.Hints = hints
	}
	return out
}

// TextHint is a convenience constructor for text hints.
func TextHint(content string) Hint {
	return Hint{Type: HintText, Content: ptr(content)}
}
