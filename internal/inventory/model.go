package inventory

import "strings"

// Category is the closed set of supply categories the workshop tracks.
type Category string

const (
	CategoryResins     Category = "resins"
	CategoryMetals     Category = "metals"
	CategoryFabrics    Category = "fabrics"
	CategoryComponents Category = "components"
	CategoryOther      Category = "other"
)

// Categories lists every valid category.
var Categories = []Category{
	CategoryResins,
	CategoryMetals,
	CategoryFabrics,
	CategoryComponents,
	CategoryOther,
}

// Valid reports whether c is one of the enumerated categories.
func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Item is a workshop supply line. The restock flag is never stored; it
// is derived from quantity against the minimum on every read.
type Item struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Quantity    int      `json:"quantity"`
	Unit        string   `json:"unit"`
	MinQuantity int      `json:"min_quantity"`
}

// NeedsRestock reports whether the item is at or below its minimum.
func (i *Item) NeedsRestock() bool {
	return i.Quantity <= i.MinQuantity
}

// UpsertItemRequest is the request body for creating or adjusting an item.
type UpsertItemRequest struct {
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Quantity    int      `json:"quantity"`
	Unit        string   `json:"unit"`
	MinQuantity int      `json:"min_quantity"`
}

// Validate validates the item request. An empty category defaults to other.
func (r *UpsertItemRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidName
	}
	if r.Category == "" {
		r.Category = CategoryOther
	}
	if !r.Category.Valid() {
		return ErrInvalidCategory
	}
	if r.Quantity < 0 || r.MinQuantity < 0 {
		return ErrNegativeQuantity
	}
	return nil
}

// AdjustQuantityRequest changes an item's on-hand quantity by a delta.
type AdjustQuantityRequest struct {
	Delta int `json:"delta"`
}
