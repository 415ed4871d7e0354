package service

import "strings"

// Spreadsheet item names are typed by hand and drift from the catalog:
// misspelled set names, "Elite Trainer Box" vs "ETB", "Booster Box" vs
// "Booster Bundle". sheetReplacements repairs the known variants before
// scoring.
var sheetReplacements = []struct{ from, to string }{
	{"phantasma", "phantasmal"},
	{"venasaur", "venusaur"},
	{"pokeball", "poke ball"},
	{"khangaskhan", "kangaskhan"},
	{"kanghaskan", "kangaskhan"},
	{"masqurade", "masquerade"},
	{"masqerade", "masquerade"},
	{"booster box", "booster bundle"},
	{"3xpack", "3 pack"},
	{"upc", "ultra premium collection"},
	{"elite trainer box", "etb"},
}

var sheetNoiseWords = []string{"ex", "pokemon", "the"}

var keySetWords = map[string]bool{
	"phantasmal": true, "destined": true, "prismatic": true, "mega": true,
	"surging": true, "twilight": true, "stellar": true, "crown": true,
	"paldean": true, "black": true, "white": true, "shrouded": true,
	"unova": true, "charizard": true, "venusaur": true, "latias": true,
	"lucario": true, "kangaskhan": true, "diancie": true, "moltres": true,
	"melmetal": true, "kyurem": true, "hydreigon": true, "dragapult": true,
	"armarouge": true, "sneasel": true, "cottonee": true, "whimsicott": true,
	"flames": true, "evolutions": true, "bolt": true, "flare": true,
	"fables": true, "sparks": true, "masquerade": true, "fates": true,
}

var keyProductWords = map[string]bool{
	"sleeve": true, "blister": true, "etb": true, "bundle": true,
	"tin": true, "collection": true, "deck": true, "chest": true,
	"figure": true, "plush": true, "booster": true, "elite": true,
	"trainer": true, "box": true, "premium": true, "ultra": true,
	"battle": true,
}

// fuzzyMatchItemName finds the inventory item a spreadsheet name refers to.
// Exact match (raw or repaired) wins; otherwise items are scored on shared
// set words (x3), product words (x2), other words (x1), and substring
// containment (+2), with a penalty for large length mismatch. A match needs
// at least one set or product word in common and a score of 4 or more.
// Returns "" when nothing qualifies.
func fuzzyMatchItemName(sheetName string, inventoryNames []string) string {
	sheetLower := strings.ToLower(strings.TrimSpace(sheetName))

	repaired := sheetLower
	for _, r := range sheetReplacements {
		repaired = strings.ReplaceAll(repaired, r.from, r.to)
	}
	for _, word := range sheetNoiseWords {
		repaired = strings.ReplaceAll(repaired, " "+word+" ", " ")
	}
	repaired = strings.Join(strings.Fields(repaired), " ")

	for _, inv := range inventoryNames {
		invLower := strings.ToLower(inv)
		if invLower == sheetLower || invLower == repaired {
			return inv
		}
	}

	sheetWords := wordSet(repaired)
	setMatches := intersect(sheetWords, keySetWords)
	productMatches := intersect(sheetWords, keyProductWords)

	best := ""
	bestScore := 0
	for _, inv := range inventoryNames {
		invLower := strings.ToLower(inv)
		invWords := wordSet(invLower)

		commonSets := intersect(setMatches, invWords)
		commonProducts := intersect(productMatches, invWords)
		commonWords := intersect(sheetWords, invWords)

		score := len(commonSets)*3 + len(commonProducts)*2 + len(commonWords)
		if strings.Contains(invLower, repaired) || strings.Contains(repaired, invLower) {
			score += 2
		}
		lenDiff := len(sheetWords) - len(invWords)
		if lenDiff > 3 || lenDiff < -3 {
			score--
		}

		if (len(commonSets) > 0 || len(commonProducts) > 0) && score > bestScore {
			bestScore = score
			best = inv
		}
	}

	if bestScore >= 4 {
		return best
	}
	return ""
}

func wordSet(s string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		words[w] = true
	}
	return words
}

func intersect(a, b map[string]bool) map[string]bool {
	if len(b) < len(a) {
		a, b = b, a
	}
	common := make(map[string]bool)
	for w := range a {
		if b[w] {
			common[w] = true
		}
	}
	return common
}
