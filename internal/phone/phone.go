// Package phone normalizes caller identities to an E.164-like form:
// a leading plus followed by digits only.
package phone

import (
	"regexp"
	"strings"
)

var (
	separators = regexp.MustCompile(`[\s\-()]`)
	e164       = regexp.MustCompile(`^\+[0-9]{10,15}$`)
)

// Clean strips separators and infers the Swedish country code for bare
// national numbers. It returns the normalized number and whether the input
// could be normalized at all. Used by the bulk importer; the admin API
// expects callers to submit already-normalized numbers.
func Clean(raw string) (string, bool) {
	n := separators.ReplaceAllString(strings.TrimSpace(raw), "")
	if len(n) < 8 {
		return "", false
	}

	if !strings.HasPrefix(n, "+") {
		switch {
		case strings.HasPrefix(n, "46") && len(n) >= 11:
			n = "+" + n
		case strings.HasPrefix(n, "0") && len(n) >= 10:
			n = "+46" + n[1:]
		case strings.HasPrefix(n, "7") && len(n) == 9:
			n = "+46" + n
		}
	}

	if !e164.MatchString(n) {
		return "", false
	}

	return n, true
}

// Valid reports whether s looks like a normalized international number:
// leading plus, digits only, total length between 10 and 16 characters.
func Valid(s string) bool {
	if !strings.HasPrefix(s, "+") || len(s) < 10 || len(s) > 16 {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
