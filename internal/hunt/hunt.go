// Package hunt defines the scavenger-hunt document model: hunts, clues, hints,
// reveals and the unlock/skip policies attached to each clue.
package hunt

import (
	"errors"
	"strings"
)

// ErrInvalidID reports a hunt id that cannot be used as a directory name.
var ErrInvalidID = errors.New("invalid hunt id")

type Hunt struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Clues       []Clue `json:"clues"`
	IsEditable  bool   `json:"isEditable"`
}

type Clue struct {
	ID            int        `json:"id"`
	Location      Coordinate `json:"location"`
	ArrivalRadius float64    `json:"arrivalRadius"`
	InitialClue   string     `json:"initialClue"`
	Hints         []Hint     `json:"hints"`
	Reveal        Reveal     `json:"reveal"`
	UnlockNext    UnlockType `json:"unlockNext"`
	Passcode      *string    `json:"passcode,omitempty"`
	SkipOption    SkipOption `json:"skipOption"`
}

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the coordinate lies within [-90,90] x [-180,180].
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

type Hint struct {
	Type    HintType `json:"type"`
	Content *string  `json:"content,omitempty"`
}

type Reveal struct {
	Photos []string `json:"photos"`
	Text   string   `json:"text"`
}

type HintType string

const (
	HintText     HintType = "text"
	HintCompass  HintType = "compass"
	HintDistance HintType = "distance"
)

type UnlockType string

const (
	UnlockAutomatic UnlockType = "automatic"
	UnlockPasscode  UnlockType = "passcode"
)

type SkipKind string

const (
	SkipDisabled SkipKind = "disabled"
	SkipAllowed  SkipKind = "allowed"
	SkipPassword SkipKind = "password"
)

// SkipOption is a tagged value: Password is only meaningful when Kind is
// SkipPassword.
type SkipOption struct {
	Kind     SkipKind
	Password string
}

// Enabled reports whether the player may be offered a skip at all.
func (o SkipOption) Enabled() bool {
	return o.Kind == SkipAllowed || o.Kind == SkipPassword
}

// RequiresPasscode reports whether continuing past this clue's reveal must go
// through passcode entry.
func (c Clue) RequiresPasscode() bool {
	return c.UnlockNext == UnlockPasscode && c.Passcode != nil && strings.TrimSpace(*c.Passcode) != ""
}

// CheckID rejects ids that are empty, hidden, or would escape the hunts root.
func CheckID(id string) error {
	switch {
	case strings.TrimSpace(id) == "":
		return ErrInvalidID
	case id == "." || id == "..":
		return ErrInvalidID
	case strings.HasPrefix(id, "."):
		return ErrInvalidID
	case strings.ContainsAny(id, `/\:`+"\x00"):
		return ErrInvalidID
	}
	return nil
}

func ptr[T any](v T) *T { return &v }
