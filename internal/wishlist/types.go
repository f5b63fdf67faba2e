package wishlist

import (
	"encoding/json"
	"strings"

	"shopcart/internal/cart"
	"shopcart/internal/shop"
)

// item is a server cart record. The backend has used several shapes over
// time: flat records keyed by _id, records with product_id, and records
// embedding the product under "product". toEntry folds them into one.
type item struct {
	ID              string          `json:"_id"`
	ProductID       string          `json:"product_id"`
	ShopID          string          `json:"shop_id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Price           cart.Money      `json:"price"`
	ImageURL        string          `json:"image_url"`
	Image           string          `json:"image"`
	Quantity        int             `json:"quantity"`
	SelectedVariant json.RawMessage `json:"selected_variant"`
	Variant         json.RawMessage `json:"variant"`
	Variants        []variant       `json:"variants"`
	Product         *product        `json:"product"`
}

type product struct {
	ID          string     `json:"_id"`
	ShopID      string     `json:"shop_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       cart.Money `json:"price"`
	ImageURL    string     `json:"image_url"`
	Variants    []variant  `json:"variants"`
}

type variant struct {
	Label       string     `json:"label"`
	Size        string     `json:"size"`
	Name        string     `json:"name"`
	Price       cart.Money `json:"price"`
	Quantity    int        `json:"quantity"`
	Image       string     `json:"image"`
	ImageURL    string     `json:"image_url"`
	Description string     `json:"description"`
}

func (v variant) label() string {
	return firstNonEmpty(v.Label, v.Size, v.Name)
}

func (v variant) toVariant() cart.Variant {
	return cart.Variant{
		Label:       v.label(),
		Price:       v.Price,
		Quantity:    v.Quantity,
		ImageURL:    firstNonEmpty(v.ImageURL, v.Image),
		Description: v.Description,
	}
}

// toEntry normalises a server record. ok is false when the record lacks a
// product or shop id.
func (it item) toEntry() (cart.Entry, bool) {
	e := cart.Entry{
		ProductID:   firstNonEmpty(it.ProductID, it.ID),
		ShopID:      it.ShopID,
		Name:        it.Name,
		Description: it.Description,
		Price:       it.Price,
		ImageURL:    firstNonEmpty(it.ImageURL, it.Image),
		Quantity:    it.Quantity,
		Origin:      cart.OriginRemote,
	}
	variants := it.Variants

	if p := it.Product; p != nil {
		e.ProductID = firstNonEmpty(p.ID, e.ProductID)
		e.ShopID = firstNonEmpty(e.ShopID, p.ShopID)
		e.Name = firstNonEmpty(e.Name, p.Name)
		e.Description = firstNonEmpty(e.Description, p.Description)
		e.ImageURL = firstNonEmpty(e.ImageURL, p.ImageURL)
		if e.Price == 0 {
			e.Price = p.Price
		}
		if len(variants) == 0 {
			variants = p.Variants
		}
	}

	for _, v := range variants {
		e.Variants = append(e.Variants, v.toVariant())
	}

	raw := it.SelectedVariant
	if isEmptyJSON(raw) {
		raw = it.Variant
	}
	if label, chosen, ok := parseSelectedVariant(raw); ok {
		e.SelectedVariant = label
		if chosen != nil && !e.HasVariant(label) {
			e.Variants = append(e.Variants, *chosen)
		}
	}

	if e.Quantity < 1 {
		e.Quantity = 1
	}
	if e.ProductID == "" || e.ShopID == "" {
		return cart.Entry{}, false
	}
	return e, true
}

// parseSelectedVariant accepts a bare label or a variant object.
func parseSelectedVariant(raw json.RawMessage) (string, *cart.Variant, bool) {
	if isEmptyJSON(raw) {
		return "", nil, false
	}
	var label string
	if err := json.Unmarshal(raw, &label); err == nil {
		label = strings.TrimSpace(label)
		return label, nil, label != ""
	}
	var v variant
	if err := json.Unmarshal(raw, &v); err != nil || v.label() == "" {
		return "", nil, false
	}
	cv := v.toVariant()
	return cv.Label, &cv, true
}

func isEmptyJSON(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}

type shopRecord struct {
	ID          string `json:"_id"`
	AltID       string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	OpeningTime string `json:"opening_time"`
	ClosingTime string `json:"closing_time"`
	ImageURL    string `json:"image_url"`
	Address     string `json:"address"`
	OwnerMobile string `json:"owner_mobile"`
}

func (r shopRecord) toShop() shop.Shop {
	return shop.Shop{
		ID:          firstNonEmpty(r.ID, r.AltID),
		Name:        r.Name,
		Category:    r.Category,
		OpeningTime: r.OpeningTime,
		ClosingTime: r.ClosingTime,
		ImageURL:    r.ImageURL,
		Address:     r.Address,
		OwnerMobile: r.OwnerMobile,
	}
}

type addRequest struct {
	ProductID string `json:"product_id"`
	ShopID    string `json:"shop_id"`
	Quantity  int    `json:"quantity"`
	Variant   string `json:"variant,omitempty"`
}

type quantityRequest struct {
	Quantity        int    `json:"quantity"`
	SelectedVariant string `json:"selected_variant,omitempty"`
}

type shopsRequest struct {
	ShopIDs []string `json:"shop_ids"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
