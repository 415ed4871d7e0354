package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// Quantity multiplier patterns, shared by ExtractMultiplier and
// MultiplierSuffix. Anchored on word boundaries so shipping identifiers
// like "#11" never match.
var (
	rePackBlister = regexp.MustCompile(`\b\d+\s*-?\s*pack\s+blister\b`)
	reNxPack      = regexp.MustCompile(`\b(\d+)x\s*pack\b`)
	reNx          = regexp.MustCompile(`\b(\d+)x\b`)
	rePackXN      = regexp.MustCompile(`\bpacks?\s*x\s*(\d+)\b`)
)

// ExtractMultiplier parses the quantity multiplier embedded in a listing
// title ("2x Pack" → 2, "Packs x 5" → 5). Product names like
// "3 Pack Blister" are ONE product, not 3x, and never count. The function
// is total: anything unparseable yields 1.
func ExtractMultiplier(title string) int {
	lowered := strings.ToLower(title)

	if strings.Contains(lowered, "blister") && rePackBlister.MatchString(lowered) {
		return 1
	}
	if m := reNxPack.FindStringSubmatch(lowered); m != nil {
		if n, _ := strconv.Atoi(m[1]); n > 0 {
			return n
		}
	}
	if m := reNx.FindStringSubmatch(lowered); m != nil && !strings.Contains(lowered, "blister") {
		if n, _ := strconv.Atoi(m[1]); n > 0 {
			return n
		}
	}
	if m := rePackXN.FindStringSubmatch(lowered); m != nil {
		if n, _ := strconv.Atoi(m[1]); n > 0 {
			return n
		}
	}
	return 1
}

// MultiplierSuffix re-derives a display suffix (" - 2x Pack", " - 5x") from
// the raw title. Used when no curated override name exists so the report
// still shows lot size. Suppressed entirely for blister products.
func MultiplierSuffix(title string) string {
	lowered := strings.ToLower(title)

	if strings.Contains(lowered, "blister") {
		return ""
	}
	if m := reNxPack.FindStringSubmatch(lowered); m != nil {
		return " - " + m[1] + "x Pack"
	}
	if m := reNx.FindStringSubmatch(lowered); m != nil {
		return " - " + m[1] + "x"
	}
	if m := rePackXN.FindStringSubmatch(lowered); m != nil {
		return " - " + m[1] + "x Pack"
	}
	return ""
}
