// Package normalize is the title normalization and aggregation engine: it
// turns inconsistent human-written listing titles into stable grouping keys,
// extracts true sold quantity multipliers, and classifies items into sets.
// Every function here is pure and deterministic; the rule tables are fixed at
// init and never mutated, so heuristics can be extended without touching
// control flow.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Mode selects how strictly titles are grouped.
type Mode string

const (
	// ModeExact groups titles verbatim — whitespace/case differences split groups.
	ModeExact Mode = "exact"
	// ModeCaseInsensitive collapses whitespace runs, trims, and lowercases.
	ModeCaseInsensitive Mode = "case_insensitive"
	// ModeAggressive applies the full semantic fold (ASCII strip, event
	// prefixes, product-type tagging) without set classification.
	ModeAggressive Mode = "aggressive"
	// ModeCustom is ModeAggressive plus set classification and friendly
	// display titles in reports. This is what the dashboard uses.
	ModeCustom Mode = "custom"
)

// ParseMode maps a wire string onto a Mode. Unknown values silently fall
// back to exact rather than failing the request.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeExact, ModeCaseInsensitive, ModeAggressive, ModeCustom:
		return Mode(s)
	default:
		return ModeExact
	}
}

// GiveawayKey is the single grouping key all giveaway/zero-value promotional
// titles collapse to under aggressive folding.
const GiveawayKey = "random asian pack"

// giveawayMarkers short-circuit the whole fold: any hit means the title is a
// giveaway regardless of what else it says. Checked first, in order.
var giveawayMarkers = []string{
	"giv",
	"giveaway",
	"random asian pack",
	"random pokemon pack",
	"asian pokemon pack",
	"free",
}

// eventPrefixes are promotional stream events that do not affect the product.
var eventPrefixes = []string{
	"friday fiesta",
	"friday surprise",
	"new years spin out",
	"kanto christmas gifts",
}

// productTypes is the ordered product-type detection table — first matching
// entry wins and only one tag is kept per title. Order is the precedence:
// a "sleeved booster pack" is a sleeve, not a pack.
var productTypes = []struct {
	keywords []string
	tag      string
}{
	{[]string{"elite trainer box", "etb"}, "etb"},
	{[]string{"booster bundle"}, "booster bundle"},
	{[]string{"premium collection"}, "premium collection"},
	{[]string{"ultra premium collection", "upc"}, "upc"},
	{[]string{"plush collection"}, "plush collection"},
	{[]string{"figure collection"}, "figure collection"},
	{[]string{"battle deck"}, "battle deck"},
	{[]string{"blister"}, "blister"},
	{[]string{"sleeve"}, "sleeve"},
	{[]string{"poke ball tin", "pokeball tin"}, "poke ball tin"},
	{[]string{"pack"}, "pack"},
}

var (
	reNonKeyChars = regexp.MustCompile(`[^a-z0-9#]+`)
	reLeadingDash = regexp.MustCompile(`^[\s\-]+`)
	// Stoplist of product-type keywords, quantity tokens, and filler words
	// removed on word boundaries when deriving the stem.
	reStopWords  = regexp.MustCompile(`\b(1x?|2x?|pack|single|sleeve|sleeved|booster|blister|elite|trainer|box|etb|bundle|premium|ultra|collection|figure|plush|battle|deck|poke|ball|tin|upc)\b`)
	reLotNumber  = regexp.MustCompile(`#\d+`)
	rePunct      = regexp.MustCompile(`[^\w\s]`)
	reTrailingID = regexp.MustCompile(`\s+#\d+$`)
)

// asciiFold Unicode-normalizes (NFKD) and strips everything outside ASCII,
// dropping emoji and diacritic marks.
var asciiFold = transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
	return r > unicode.MaxASCII
})))

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Title normalizes a listing title into its grouping key for the given mode.
// Pure and deterministic: the same title and mode always yield the same key.
// Normalization runs at query time, never persisted, so rule changes
// retroactively re-group historical data without a migration.
func Title(title string, mode Mode) string {
	if mode == ModeExact {
		return title
	}
	cleaned := strings.ToLower(collapseSpaces(strings.TrimSpace(title)))
	if mode == ModeCaseInsensitive {
		return cleaned
	}
	if mode == ModeAggressive || mode == ModeCustom {
		normalized, _, err := transform.String(asciiFold, cleaned)
		if err != nil {
			normalized = cleaned
		}
		normalized = reNonKeyChars.ReplaceAllString(normalized, " ")
		normalized = collapseSpaces(normalized)
		normalized = semanticFold(normalized)
		normalized = reTrailingID.ReplaceAllString(normalized, "")
		return normalized
	}
	return cleaned
}

// semanticFold applies the catalog-specific folding rules to an already
// lowercased, ASCII, space-collapsed title. Check order is a total order:
// giveaway short-circuit, event prefix strip, product-type tag, stem
// extraction, then recombination.
func semanticFold(lowered string) string {
	for _, marker := range giveawayMarkers {
		if strings.Contains(lowered, marker) {
			return GiveawayKey
		}
	}

	for _, prefix := range eventPrefixes {
		if strings.Contains(lowered, prefix) {
			lowered = strings.TrimSpace(strings.ReplaceAll(lowered, prefix, ""))
			lowered = reLeadingDash.ReplaceAllString(lowered, "")
		}
	}

	productType := ""
	for _, pt := range productTypes {
		for _, kw := range pt.keywords {
			if strings.Contains(lowered, kw) {
				productType = pt.tag
				break
			}
		}
		if productType != "" {
			break
		}
	}

	stem := reStopWords.ReplaceAllString(lowered, " ")
	stem = reLotNumber.ReplaceAllString(stem, "")
	stem = rePunct.ReplaceAllString(stem, " ")
	stem = collapseSpaces(stem)

	switch {
	case productType != "" && stem != "":
		return stem + " " + productType
	case productType != "":
		return productType
	case stem != "":
		return stem
	}
	return lowered
}
