// Package idvalidate validates the dotted identifiers used throughout the
// plugin host's data model: plugin ids, package ids, and service ids (for
// example "acme.hello" or "acme.hello.export-v2").
package idvalidate

import "regexp"

// segmentRegex matches a single dot-separated identifier segment: lowercase
// alphanumerics, optionally hyphenated, never leading or trailing with a
// hyphen.
var segmentRegex = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

// IsValid reports whether id is a well-formed dotted identifier: one or more
// segments, each satisfying segmentRegex, joined by single dots.
func IsValid(id string) bool {
	if id == "" {
		return false
	}

	start := 0
	for i := 0; i <= len(id); i++ {
		if i == len(id) || id[i] == '.' {
			if i == start {
				return false // empty segment, e.g. leading/trailing/double dot
			}
			if !segmentRegex.MatchString(id[start:i]) {
				return false
			}
			start = i + 1
		}
	}
	return true
}
