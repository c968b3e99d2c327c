package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Damage modifier symbols, shared by mechanics ("30+", "50×") and by
// weakness/resistance operations.
const (
	DamagePlus     = "+"
	DamageMinus    = "-"
	DamageQuestion = "?"
	DamageTimes    = "×"
)

// damageModifiers in the order they are checked; "x" is the ASCII spelling
// of the multiplication sign accepted on input.
var damageModifiers = map[string]string{
	DamagePlus:     DamagePlus,
	DamageMinus:    DamageMinus,
	DamageQuestion: DamageQuestion,
	DamageTimes:    DamageTimes,
	"x":            DamageTimes,
}

// NormalizeOperation maps a weakness/resistance operation code to its
// canonical symbol ("x" becomes "×"). ok is false for unknown codes.
func NormalizeOperation(op string) (string, bool) {
	canon, ok := damageModifiers[op]
	return canon, ok
}

// ASCIIOperation is the wire spelling of a canonical operation: "×" is
// written as "x", everything else passes through.
func ASCIIOperation(op string) string {
	if op == DamageTimes {
		return "x"
	}
	return op
}

// ParseDamage splits a damage string into its numeric base and trailing
// modifier symbol. Either part may be absent: "30" has no modifier, "×"
// has no base, "" has neither.
func ParseDamage(s string) (base *int, modifier string, err error) {
	for sym, canon := range damageModifiers {
		if strings.HasSuffix(s, sym) {
			modifier = canon
			s = strings.TrimSuffix(s, sym)
			break
		}
	}
	if s == "" {
		return nil, modifier, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, "", fmt.Errorf("damage %q: %w", s, ErrValidation)
	}
	return &n, modifier, nil
}

// FormatDamage is the inverse of ParseDamage.
func FormatDamage(base *int, modifier string) string {
	var b strings.Builder
	if base != nil {
		b.WriteString(strconv.Itoa(*base))
	}
	b.WriteString(modifier)
	return b.String()
}
