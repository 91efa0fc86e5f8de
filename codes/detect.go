package codes

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// System identifies which coding system a raw code belongs to.
type System string

const (
	SystemATC System = "ATC"
	SystemNDC System = "NDC"
)

// ErrIndeterminate is returned when a code matches neither system's shape.
// Callers must not fall back to a guess.
var ErrIndeterminate = errors.New("code cannot be classified as ATC or NDC")

// Detect classifies a raw code as ATC or NDC by structural heuristic.
// ATC: length 1, 3, 4, 5 or 7 and a leading letter. NDC: all digits and 8-11
// characters after removing hyphens and spaces, or hyphen-separated all-digit
// segments. Anything else yields ErrIndeterminate.
func Detect(code string) (System, error) {
	if looksLikeATC(code) {
		return SystemATC, nil
	}
	if looksLikeNDC(code) {
		return SystemNDC, nil
	}
	return "", fmt.Errorf("%w: %q", ErrIndeterminate, code)
}

func looksLikeATC(code string) bool {
	code = NormalizeATC(code)
	if code == "" {
		return false
	}

	switch len(code) {
	case 1, 3, 4, 5, 7:
	default:
		return false
	}

	return unicode.IsLetter(rune(code[0]))
}

func looksLikeNDC(code string) bool {
	clean := strings.ReplaceAll(code, "-", "")
	clean = strings.ReplaceAll(clean, " ", "")

	if isAllDigits(clean) && len(clean) >= 8 && len(clean) <= 11 {
		return true
	}

	// Hyphenated digit segments (e.g. 47335-0985-60) count even when the
	// total digit count falls outside the plain range above.
	if strings.Contains(code, "-") {
		parts := strings.Split(code, "-")
		for _, part := range parts {
			if !isAllDigits(part) {
				return false
			}
		}
		return true
	}

	return false
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
