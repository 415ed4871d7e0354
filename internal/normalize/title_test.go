package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeExact, ParseMode("exact"))
	assert.Equal(t, ModeCaseInsensitive, ParseMode("case_insensitive"))
	assert.Equal(t, ModeAggressive, ParseMode("aggressive"))
	assert.Equal(t, ModeCustom, ParseMode("custom"))
	// Unknown modes fall back to exact, never error.
	assert.Equal(t, ModeExact, ParseMode("fuzzy"))
	assert.Equal(t, ModeExact, ParseMode(""))
}

func TestTitle_ExactIsVerbatim(t *testing.T) {
	assert.Equal(t, "  Phantasmal  FLAMES ", Title("  Phantasmal  FLAMES ", ModeExact))
}

func TestTitle_CaseInsensitiveFolds(t *testing.T) {
	assert.Equal(t, "phantasmal flames pack",
		Title("  Phantasmal   FLAMES Pack ", ModeCaseInsensitive))
}

func TestTitle_CustomFoldsVariantsToOneKey(t *testing.T) {
	variants := []string{
		"Phantasmal Flames Booster Pack",
		"phantasmal flames pack",
		"PHANTASMAL FLAMES PACK!!!",
		"Phantasmal Flames Pack \U0001F525",
		"Phantasmal Flames Pack #12",
		"Phantasmal Flames Pack #13",
	}
	for _, v := range variants {
		assert.Equal(t, "phantasmal flames pack", Title(v, ModeCustom), "variant %q", v)
	}
}

func TestTitle_AggressiveAndCustomAgree(t *testing.T) {
	titles := []string{
		"Phantasmal Flames Booster Pack",
		"Crown Zenith Elite Trainer Box",
		"Free Giveaway!",
		"Friday Fiesta - Surging Sparks ETB",
	}
	for _, title := range titles {
		assert.Equal(t, Title(title, ModeAggressive), Title(title, ModeCustom), "title %q", title)
	}
}

func TestTitle_GiveawayMarkersShortCircuit(t *testing.T) {
	for _, title := range []string{
		"FREE Pack",
		"Random Pokemon Pack",
		"giveaway special",
		"Asian Pokemon Pack x2",
		"Random Asian Pack",
	} {
		assert.Equal(t, GiveawayKey, Title(title, ModeCustom), "title %q", title)
	}
}

func TestTitle_EventPrefixStripped(t *testing.T) {
	assert.Equal(t, "phantasmal flames etb",
		Title("Friday Fiesta - Phantasmal Flames ETB", ModeCustom))
	assert.Equal(t, "phantasmal flames etb",
		Title("Phantasmal Flames Elite Trainer Box", ModeCustom))
}

func TestTitle_ProductTypePrecedence(t *testing.T) {
	// A sleeved booster pack is a sleeve, not a pack.
	assert.Equal(t, "phantasmal flames sleeve",
		Title("Phantasmal Flames Sleeved Booster Pack Sleeve", ModeCustom))
	// ETB outranks the pack keyword.
	assert.Equal(t, "crown zenith etb",
		Title("Crown Zenith ETB + Pack", ModeCustom))
}

func TestTitle_Deterministic(t *testing.T) {
	title := "Friday Surprise - Twilight Masquerade Booster Bundle #3"
	first := Title(title, ModeCustom)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Title(title, ModeCustom))
	}
}

func TestTitle_NoTypeNoStemKeepsLowered(t *testing.T) {
	assert.Equal(t, "mystery widget", Title("Mystery Widget", ModeCustom))
}
