package domain

import (
	"fmt"
	"regexp"
	"time"
)

// ProductType distinguishes the two product lines in the catalog.
type ProductType string

const (
	TypeClothing ProductType = "Clothing"
	TypeJewelry  ProductType = "Jewelry"
)

// CategoryThreePiece is the one clothing category sold without size variants;
// sizes submitted for it are discarded, not rejected.
const CategoryThreePiece = "three-piece"

// categoriesByType maps each product type to its allowed categories.
// Category validity is a static table, not scattered branching.
var categoriesByType = map[ProductType]map[string]bool{
	TypeClothing: {
		"one-piece":        true,
		"two-piece":        true,
		CategoryThreePiece: true,
	},
	TypeJewelry: {
		"bangle":   true,
		"bracelet": true,
		"necklace": true,
		"earring":  true,
		"ring":     true,
		"anklet":   true,
	},
}

// Image count bounds for a product.
const (
	MinImages = 1
	MaxImages = 5
)

// Identifier format: "RW" + zero-padded 4-digit sequence, e.g. RW0001.
const (
	IDPrefix    = "RW"
	MaxSequence = 9999
)

// idPattern matches a well-formed product identifier.
var idPattern = regexp.MustCompile(`^RW\d{4}$`)

// Product is the central catalog entity. It is immutable once created; the
// only lifecycle transition after creation is deletion.
type Product struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Type      ProductType `json:"type"`
	Category  string      `json:"category"`
	Price     int64       `json:"price"`
	Details   string      `json:"details"`
	Colors    []string    `json:"colors"`
	Sizes     []string    `json:"sizes"`
	Images    []string    `json:"images"`
	CreatedAt time.Time   `json:"created_at"`
}

// ParseType converts a raw string into a ProductType.
func ParseType(s string) (ProductType, bool) {
	switch ProductType(s) {
	case TypeClothing:
		return TypeClothing, true
	case TypeJewelry:
		return TypeJewelry, true
	default:
		return "", false
	}
}

// IsValidCategory reports whether the category belongs to the given type.
func IsValidCategory(t ProductType, category string) bool {
	return categoriesByType[t][category]
}

// Categories returns the allowed categories for the given type.
func Categories(t ProductType) []string {
	set := categoriesByType[t]
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}

// SizesAllowed reports whether size labels apply to the given category.
func SizesAllowed(category string) bool {
	return category != CategoryThreePiece
}

// FormatID renders a sequence number as a product identifier (RW0001).
func FormatID(seq int) string {
	return fmt.Sprintf("%s%04d", IDPrefix, seq)
}

// IsValidID reports whether s is a well-formed product identifier.
func IsValidID(s string) bool {
	return idPattern.MatchString(s)
}
