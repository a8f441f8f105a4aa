package strings

import "strings"

// like strings.Split(s, sep), but return empty slice when s == "".
func SplitIfNotEmpty(s string, sep string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, sep)
}

// supply suffix if text has not.
func SupplySuffix(text, suffix string) string {
	if strings.HasSuffix(text, suffix) {
		return text
	}
	return text + suffix
}

// TrimPrefixAll returns string s without provided prefix.
// If prefixes are repeated, all of them are removed.
func TrimPrefixAll(s, prefix string) string {
	lp := len(prefix)
	if lp == 0 {
		return s
	}
	for strings.HasPrefix(s, prefix) {
		s = s[lp:]
	}
	return s
}
