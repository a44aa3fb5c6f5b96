package normalize

import (
	"regexp"
	"strings"
)

var (
	cptPattern   = regexp.MustCompile(`^\d{5}$`)
	hcpcsPattern = regexp.MustCompile(`^[A-Z]\d{4}$`)
)

// ParseCode splits a raw procedure code into its base code and modifier
// suffixes. The wire format is "CODE-MOD1-MOD2"; the base and modifiers are
// trimmed and uppercased. An empty input yields an empty base.
func ParseCode(raw string) (base string, modifiers []string) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return "", nil
	}
	parts := strings.Split(s, "-")
	base = strings.TrimSpace(parts[0])
	for _, p := range parts[1:] {
		p = strings.TrimSpace(p)
		if p != "" {
			modifiers = append(modifiers, p)
		}
	}
	return base, modifiers
}

// BaseCode strips modifier suffixes from a raw procedure code. Every
// reference-table lookup goes through this first.
func BaseCode(raw string) string {
	base, _ := ParseCode(raw)
	return base
}

// ValidCodeFormat reports whether a base code looks like a CPT code (five
// digits) or a HCPCS/CDT code (letter plus four digits).
func ValidCodeFormat(base string) bool {
	return cptPattern.MatchString(base) || hcpcsPattern.MatchString(base)
}
