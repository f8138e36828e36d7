package hunt

import (
	"fmt"
	"strings"
)

// ValidationError carries the authoring findings that block a save.
type ValidationError struct {
	Findings []string
}

func (e *ValidationError) Error() string {
	return "invalid hunt: " + strings.Join(e.Findings, "; ")
}

// Validate collects every authoring problem in h. An empty result means h
// can be saved.
func Validate(h Hunt) []string {
	var findings []string

	if CheckID(h.ID) != nil {
		findings = append(findings, "Quest id is not filesystem-safe")
	}
	if strings.TrimSpace(h.Title) == "" {
		findings = append(findings, "Quest must have a title")
	}
	if len(h.Clues) == 0 {
		findings = append(findings, "Quest must have at least one clue")
	}

	for i, c := range h.Clues {
		n := i + 1
		if !c.Location.Valid() {
			findings = append(findings, fmt.Sprintf("Clue %d: Invalid coordinates", n))
		}
		if c.ArrivalRadius <= 0 {
			findings = append(findings, fmt.Sprintf("Clue %d: Arrival radius must be positive", n))
		}
		if strings.TrimSpace(c.InitialClue) == "" {
			findings = append(findings, fmt.Sprintf("Clue %d: Missing initial clue text", n))
		}
		if c.UnlockNext == UnlockPasscode && (c.Passcode == nil || strings.TrimSpace(*c.Passcode) == "") {
			findings = append(findings, fmt.Sprintf("Clue %d: Passcode required when unlock type is passcode", n))
		}
		if c.SkipOption.Kind == SkipPassword && strings.TrimSpace(c.SkipOption.Password) == "" {
			findings = append(findings, fmt.Sprintf("Clue %d: Skip password required", n))
		}
	}

	return findings
}
