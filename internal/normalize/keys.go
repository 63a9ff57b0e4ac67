package normalize

import (
	"strings"
	"unicode"
)

// ToLowerDotPath normalizes a settings key to a lowercase dot-separated path.
// Double underscores (__) are treated as level separators and converted to dots.
// Single underscores within a level are preserved.
// Examples:
//   - "BASE_DIR" → "base_dir"
//   - "LOG__LEVEL" → "log.level"
func ToLowerDotPath(key string) string {
	normalized := strings.ReplaceAll(key, "__", ".")
	return strings.ToLower(normalized)
}

// SnakeCase derives a settings key from a struct field name.
// Examples:
//   - "BaseDir" → "base_dir"
//   - "EnvIDVariable" → "env_id_variable"
//   - "Format" → "format"
func SnakeCase(fieldName string) string {
	runes := []rune(fieldName)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
