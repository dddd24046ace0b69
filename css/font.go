package css

import "strings"

// FirstFontFamily returns the first concrete family from a computed
// font-family list, unquoted. Generic families (serif, sans-serif,
// monospace) are skipped when a concrete one precedes nothing.
func FirstFontFamily(s string) string {
	for _, fam := range strings.Split(s, ",") {
		fam = strings.Trim(strings.TrimSpace(fam), `"'`)
		if fam == "" {
			continue
		}
		return fam
	}
	return ""
}
