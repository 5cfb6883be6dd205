package config

import (
	"golang.org/x/text/language"
)

// Supports reports whether tag is a well-formed BCP-47 tag that appears in
// the supported list. Matching is exact: regional variants of a supported
// language ("en-GB") are not folded into it.
func (l Languages) Supports(tag string) bool {
	if _, err := language.Parse(tag); err != nil {
		return false
	}
	for _, s := range l.Supported {
		if s == tag {
			return true
		}
	}
	return false
}

// Normalize returns tag when supported, the default language otherwise.
// Read paths use this fallback; destructive paths should reject unsupported
// tags instead.
func (l Languages) Normalize(tag string) string {
	if l.Supports(tag) {
		return tag
	}
	return l.Default
}
