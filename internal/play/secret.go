package play

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// secretsMatch compares typed input with a stored passcode or skip password,
// ignoring case and surrounding whitespace.
func secretsMatch(entry, secret string) bool {
	fold := cases.Fold()
	canon := func(s string) string {
		return fold.String(norm.NFC.String(strings.TrimSpace(s)))
	}
	want := canon(secret)
	return want != "" && canon(entry) == want
}
