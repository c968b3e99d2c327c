package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseHeight converts a feet'inches string ("5'11") to whole inches.
// The inches part must stay below 12 so that formatting is unambiguous.
func ParseHeight(s string) (int, error) {
	feetPart, inchPart, ok := strings.Cut(strings.TrimSpace(s), "'")
	if !ok {
		return 0, fmt.Errorf("height %q: missing ' separator: %w", s, ErrValidation)
	}
	inchPart = strings.TrimSuffix(strings.TrimSpace(inchPart), `"`)
	feet, err := strconv.Atoi(strings.TrimSpace(feetPart))
	if err != nil || feet < 0 {
		return 0, fmt.Errorf("height %q: bad feet: %w", s, ErrValidation)
	}
	inches, err := strconv.Atoi(inchPart)
	if err != nil || inches < 0 || inches >= 12 {
		return 0, fmt.Errorf("height %q: bad inches: %w", s, ErrValidation)
	}
	return feet*12 + inches, nil
}

// FormatHeight is the inverse of ParseHeight.
func FormatHeight(inches int) string {
	return fmt.Sprintf("%d'%d", inches/12, inches%12)
}
