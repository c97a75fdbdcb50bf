package pygments

import (
	"regexp"
	"strings"
)

// Listing enumerates the items of one pygmentize category
// (lexers, formatters, or styles),
// mapping each item name to a short human-readable description.
type Listing map[string]string

// Matches one entry of "pygmentize -L" output:
// a "* " line holding comma-separated names terminated by ':',
// followed by an indented description line.
var _listingEntry = regexp.MustCompile(`(?m)^\* (.*?):\r?\n[ \t]+(.*)$`)

// parseListing extracts a Listing from "pygmentize -L" output.
//
// The parse is best-effort:
// entries that don't match the layout are skipped silently,
// and input with no entries at all yields an empty Listing.
// When the same name appears more than once, the last entry wins.
func parseListing(s string) Listing {
	l := make(Listing)
	for _, m := range _listingEntry.FindAllStringSubmatch(s, -1) {
		desc := strings.TrimRight(m[2], " \t\r")
		for _, name := range strings.Split(m[1], ",") {
			l[strings.TrimSpace(name)] = desc
		}
	}
	return l
}
