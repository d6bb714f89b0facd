// Package slug derives URL identifiers from post titles.
package slug

import "strings"

// Make returns the slug for a title: every space becomes an underscore.
// No case folding, no punctuation stripping, no collapsing of repeats.
// Calling it again on its own output is a no-op.
func Make(title string) string {
	return strings.ReplaceAll(title, " ", "_")
}
