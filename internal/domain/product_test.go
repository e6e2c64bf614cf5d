package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		input string
		want  ProductType
		ok    bool
	}{
		{"Clothing", TypeClothing, true},
		{"Jewelry", TypeJewelry, true},
		{"clothing", "", false},
		{"Furniture", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseType(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsValidCategory(t *testing.T) {
	assert.True(t, IsValidCategory(TypeClothing, "one-piece"))
	assert.True(t, IsValidCategory(TypeClothing, "three-piece"))
	assert.True(t, IsValidCategory(TypeJewelry, "necklace"))
	assert.True(t, IsValidCategory(TypeJewelry, "bangle"))

	// Categories are scoped to their type.
	assert.False(t, IsValidCategory(TypeJewelry, "one-piece"))
	assert.False(t, IsValidCategory(TypeClothing, "necklace"))
	assert.False(t, IsValidCategory(TypeClothing, ""))
}

func TestSizesAllowed(t *testing.T) {
	assert.False(t, SizesAllowed(CategoryThreePiece))
	assert.True(t, SizesAllowed("one-piece"))
	assert.True(t, SizesAllowed("necklace"))
}

func TestFormatID(t *testing.T) {
	assert.Equal(t, "RW0001", FormatID(1))
	assert.Equal(t, "RW0042", FormatID(42))
	assert.Equal(t, "RW9999", FormatID(9999))
}

func TestIsValidID(t *testing.T) {
	assert.True(t, IsValidID("RW0001"))
	assert.True(t, IsValidID("RW9999"))
	assert.False(t, IsValidID("RW001"))
	assert.False(t, IsValidID("RW00001"))
	assert.False(t, IsValidID("XX0001"))
	assert.False(t, IsValidID("rw0001"))
	assert.False(t, IsValidID(""))
}

func TestCategories(t *testing.T) {
	clothing := Categories(TypeClothing)
	assert.Len(t, clothing, 3)
	assert.Contains(t, clothing, "three-piece")

	jewelry := Categories(TypeJewelry)
	assert.Contains(t, jewelry, "necklace")
}
