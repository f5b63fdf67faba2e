// Package cart holds the canonical cart entry model and the pure cart logic:
// reconciliation of local and remote entries, grouping by shop and the
// single-active-shop selection state machine.
package cart

import "strings"

// Origin tags where an entry is persisted.
type Origin string

const (
	OriginLocal  Origin = "local"
	OriginRemote Origin = "remote"
)

// Key identifies an entry in the unified cart.
type Key struct {
	ProductID string `json:"product_id"`
	ShopID    string `json:"shop_id"`
}

func (k Key) String() string {
	return k.ShopID + "/" + k.ProductID
}

// Variant is one purchasable option of a product (size, pack, ...).
type Variant struct {
	Label       string `json:"label"`
	Price       Money  `json:"price"`
	Quantity    int    `json:"quantity,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Description string `json:"description,omitempty"`
}

// Entry is one product in the cart, independent of where it came from.
type Entry struct {
	ProductID       string    `json:"product_id"`
	ShopID          string    `json:"shop_id"`
	Name            string    `json:"name"`
	Price           Money     `json:"price"`
	ImageURL        string    `json:"image_url,omitempty"`
	Description     string    `json:"description,omitempty"`
	Quantity        int       `json:"quantity"`
	Origin          Origin    `json:"origin"`
	SelectedVariant string    `json:"selected_variant,omitempty"`
	Variants        []Variant `json:"variants,omitempty"`
}

func (e Entry) Key() Key {
	return Key{ProductID: e.ProductID, ShopID: e.ShopID}
}

// Variant returns the selected variant, if any.
func (e Entry) Variant() (Variant, bool) {
	if e.SelectedVariant == "" {
		return Variant{}, false
	}
	for _, v := range e.Variants {
		if strings.EqualFold(v.Label, e.SelectedVariant) {
			return v, true
		}
	}
	return Variant{}, false
}

func (e Entry) HasVariant(label string) bool {
	for _, v := range e.Variants {
		if strings.EqualFold(v.Label, label) {
			return true
		}
	}
	return false
}

// EffectivePrice is the selected variant's price, else the base price.
func (e Entry) EffectivePrice() Money {
	if v, ok := e.Variant(); ok {
		return v.Price
	}
	return e.Price
}

func (e Entry) EffectiveImageURL() string {
	if v, ok := e.Variant(); ok && v.ImageURL != "" {
		return v.ImageURL
	}
	return e.ImageURL
}

func (e Entry) EffectiveDescription() string {
	if v, ok := e.Variant(); ok && v.Description != "" {
		return v.Description
	}
	return e.Description
}

// Stock reports the variant stock when a variant is chosen. ok is false when
// no stock figure is known.
func (e Entry) Stock() (int, bool) {
	if v, ok := e.Variant(); ok && v.Quantity > 0 {
		return v.Quantity, true
	}
	return 0, false
}

// DisplayName appends the chosen variant label to the product name.
func (e Entry) DisplayName() string {
	if v, ok := e.Variant(); ok && v.Label != "" {
		return e.Name + " (" + v.Label + ")"
	}
	return e.Name
}

// LineTotal is EffectivePrice x Quantity.
func (e Entry) LineTotal() Money {
	return e.EffectivePrice() * Money(e.Quantity)
}

// Product is the catalog data a caller supplies when adding to the cart.
type Product struct {
	ProductID       string
	ShopID          string
	Name            string
	Price           Money
	ImageURL        string
	Description     string
	SelectedVariant string
	Variants        []Variant
}

// NewEntry builds an entry for p with the given origin and quantity.
func NewEntry(p Product, quantity int, origin Origin) Entry {
	variants := make([]Variant, len(p.Variants))
	copy(variants, p.Variants)
	return Entry{
		ProductID:       p.ProductID,
		ShopID:          p.ShopID,
		Name:            p.Name,
		Price:           p.Price,
		ImageURL:        p.ImageURL,
		Description:     p.Description,
		Quantity:        quantity,
		Origin:          origin,
		SelectedVariant: p.SelectedVariant,
		Variants:        variants,
	}
}
