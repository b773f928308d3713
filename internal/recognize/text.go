package recognize

import (
	"regexp"
	"strings"
)

// digitStartPattern matches cleaned text that lost its leading letter to
// a failed glyph classification: four digits followed by two letters.
var digitStartPattern = regexp.MustCompile(`^\d{4}[A-Z]{2}$`)

// DefaultValidationPatterns returns the stock plate-format patterns.
func DefaultValidationPatterns() []*regexp.Regexp {
	return []*regexp.Regexp{
		regexp.MustCompile(`^[A-Z]{1,2}\d{1,4}[A-Z]{1,3}$`),
		regexp.MustCompile(`^[A-Z]\d{4}[A-Z]{2}$`),
	}
}

// CleanText normalizes raw classifier output: separators removed,
// uppercased, and plates that lost their leading letter repaired from
// the known-prefix table or the general digit-start rule.
func CleanText(raw string, knownPrefixes map[string]string, repairPrefix string) string {
	cleaned := strings.NewReplacer(" ", "", ".", "", "-", "").Replace(raw)
	cleaned = strings.ToUpper(cleaned)
	if cleaned == "" {
		return ""
	}

	if cleaned[0] >= '0' && cleaned[0] <= '9' {
		if prefix, ok := knownPrefixes[cleaned]; ok {
			return prefix + cleaned
		}
		if repairPrefix != "" && len(cleaned) >= 6 && digitStartPattern.MatchString(cleaned) {
			return repairPrefix + cleaned
		}
	}
	return cleaned
}

// ValidateFormat reports whether the cleaned text matches any accepted
// plate format. Texts shorter than five characters never validate.
func ValidateFormat(text string, patterns []*regexp.Regexp) bool {
	if len(text) < 5 {
		return false
	}
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
