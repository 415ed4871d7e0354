package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var inventoryNames = []string{
	"Phantasmal Flames Sleeve",
	"Phantasmal Flames ETB",
	"Surging Sparks Booster Bundle",
	"Charizard Ultra Premium Collection",
	"Crown Zenith Tin",
}

func TestFuzzyMatch_ExactAfterRepair(t *testing.T) {
	// Misspelled set name.
	assert.Equal(t, "Phantasmal Flames Sleeve",
		fuzzyMatchItemName("Phantasma Flames Sleeve", inventoryNames))
	// Long-form product name.
	assert.Equal(t, "Phantasmal Flames ETB",
		fuzzyMatchItemName("Phantasmal Flames Elite Trainer Box", inventoryNames))
	// UPC expands to the long form.
	assert.Equal(t, "Charizard Ultra Premium Collection",
		fuzzyMatchItemName("Charizard UPC", inventoryNames))
}

func TestFuzzyMatch_CaseInsensitive(t *testing.T) {
	assert.Equal(t, "Crown Zenith Tin",
		fuzzyMatchItemName("  crown zenith tin ", inventoryNames))
}

func TestFuzzyMatch_ScoredPartial(t *testing.T) {
	// Not an exact match even after repair, but shares set words and a
	// product word with exactly one inventory item.
	assert.Equal(t, "Surging Sparks Booster Bundle",
		fuzzyMatchItemName("Surging Sparks Bundle", inventoryNames))
	// "Booster Box" repairs to "Booster Bundle" and then matches exactly.
	assert.Equal(t, "Surging Sparks Booster Bundle",
		fuzzyMatchItemName("Surging Sparks Booster Box", inventoryNames))
}

func TestFuzzyMatch_NoMatch(t *testing.T) {
	assert.Equal(t, "", fuzzyMatchItemName("Garden Hose", inventoryNames))
	assert.Equal(t, "", fuzzyMatchItemName("", inventoryNames))
}
