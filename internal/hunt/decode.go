package hunt

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformed wraps every reason a document fails to decode.
var ErrMalformed = errors.New("malformed hunt document")

// Decode parses a hunt document. Documents without isEditable decode as
// editable and clues without skipOption decode with skipping disabled.
func Decode(data []byte) (Hunt, error) {
	var h Hunt
	if err := json.Unmarshal(data, &h); err != nil {
		return Hunt{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if err := CheckID(h.ID); err != nil {
		return Hunt{}, fmt.Errorf("%w: id %q: %w", ErrMalformed, h.ID, err)
	}
	if h.Clues == nil {
		return Hunt{}, fmt.Errorf("%w: hunt %q: missing clues", ErrMalformed, h.ID)
	}
	for i, c := range h.Clues {
		if c.UnlockNext == "" {
			return Hunt{}, fmt.Errorf("%w: hunt %q: clue %d: missing unlockNext", ErrMalformed, h.ID, i)
		}
	}
	return h, nil
}

// Encode renders the canonical, indented document form of h.
func Encode(h Hunt) ([]byte, error) {
	return json.MarshalIndent(h.withEmptySlices(), "", "  ")
}

func (h *Hunt) UnmarshalJSON(data []byte) error {
	type plain Hunt
	var raw struct {
		plain
		IsEditable *bool `json:"isEditable"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*h = Hunt(raw.plain)
	h.IsEditable = true
	if raw.IsEditable != nil {
		h.IsEditable = *raw.IsEditable
	}
	for i := range h.Clues {
		if h.Clues[i].SkipOption.Kind == "" {
			h.Clues[i].SkipOption = SkipOption{Kind: SkipDisabled}
		}
	}
	return nil
}

func (t *HintType) UnmarshalText(text []byte) error {
	switch v := HintType(text); v {
	case HintText, HintCompass, HintDistance:
		*t = v
		return nil
	}
	return fmt.Errorf("unknown hint type %q", text)
}

func (t *UnlockType) UnmarshalText(text []byte) error {
	switch v := UnlockType(text); v {
	case UnlockAutomatic, UnlockPasscode:
		*t = v
		return nil
	}
	return fmt.Errorf("unknown unlock type %q", text)
}

type skipOptionJSON struct {
	Type     SkipKind `json:"type"`
	Password string   `json:"password,omitempty"`
}

func (o SkipOption) MarshalJSON() ([]byte, error) {
	switch o.Kind {
	case SkipAllowed:
		return json.Marshal(skipOptionJSON{Type: SkipAllowed})
	case SkipPassword:
		return json.Marshal(skipOptionJSON{Type: SkipPassword, Password: o.Password})
	}
	return json.Marshal(skipOptionJSON{Type: SkipDisabled})
}

// UnmarshalJSON never fails: anything it cannot make sense of, including a
// password variant without a password, decodes as disabled.
func (o *SkipOption) UnmarshalJSON(data []byte) error {
	*o = SkipOption{Kind: SkipDisabled}

	var raw struct {
		Type     string `json:"type"`
		Password string `json:"password"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	switch SkipKind(raw.Type) {
	case SkipAllowed:
		o.Kind = SkipAllowed
	case SkipPassword:
		if raw.Password != "" {
			o.Kind = SkipPassword
			o.Password = raw.Password
		}
	}
	return nil
}

// withEmptySlices returns a copy of h whose nil slices are replaced by empty
// ones, so documents always carry arrays.
func (h Hunt) withEmptySlices() Hunt {
	out := h
	out.Clues = make([]Clue, len(h.Clues))
	copy(out.Clues, h.Clues)
	for i := range out.Clues {
		c := &out.Clues[i]
		if c.Hints == nil {
			c.Hints = []Hint{}
		}
		if c.Reveal.Photos == nil {
			c.Reveal.Photos = []string{}
		}
		if c.SkipOption.Kind == "" {
			c.SkipOption.Kind = SkipDisabled
		}
	}
	return out
}
