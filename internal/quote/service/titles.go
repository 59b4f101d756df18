package service

import (
	"regexp"
	"strings"
)

// Catalog titles bury the comparable product name under size, pack and unit
// noise ("Sandstone Paving Slab 600x600mm - Pack of 20"). cleanTitle strips
// that noise to produce both the matching key and the display name; colour
// and material descriptors are preserved so variants stay distinguishable.
var (
	reParenthetical = regexp.MustCompile(`\([^)]*\)`)
	reTrailingTail  = regexp.MustCompile(`\s+[-–—•|]\s.*$`)
	rePackSize      = regexp.MustCompile(`(?i)\bpacks? of \d+\b`)
	reDimensions    = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*x\s*\d+(?:\.\d+)?(?:\s*x\s*\d+(?:\.\d+)?)?\s*(?:mm|cm|m)?\b`)
	reSingleUnit    = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:mm|cm|sqm|m2|kg|ltr|litres?|m|l)\b`)
	reBulkWords     = regexp.MustCompile(`(?i)\b(?:bulk|single|each)\b`)
	reMultiSpace    = regexp.MustCompile(`\s{2,}`)
)

// cleanTitle normalizes a raw product title into a comparable base name.
// Pure and idempotent; never lengthens its input.
func cleanTitle(raw string) string {
	s := strings.ReplaceAll(raw, "²", "2")
	s = reParenthetical.ReplaceAllString(s, " ")
	s = reTrailingTail.ReplaceAllString(s, "")
	s = rePackSize.ReplaceAllString(s, " ")
	s = reDimensions.ReplaceAllString(s, " ")
	s = reSingleUnit.ReplaceAllString(s, " ")
	s = reBulkWords.ReplaceAllString(s, " ")
	s = reMultiSpace.ReplaceAllString(s, " ")
	return strings.Trim(s, " -–—•|,")
}
