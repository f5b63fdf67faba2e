package cart

// State of the selection machine.
type State string

const (
	StateNoActiveShop State = "no_active_shop"
	StateActiveShop   State = "active_shop"
)

// Selection tracks which entries are selected for checkout. All selected
// entries belong to a single active shop; a selection from another shop is
// refused rather than overriding the current one.
//
// Selection holds keys only. The entries themselves stay owned by the
// unified cart and are resolved through Selected.
type Selection struct {
	active   string
	selected map[Key]bool
}

func NewSelection() *Selection {
	return &Selection{selected: make(map[Key]bool)}
}

func (s *Selection) State() State {
	if s.active == "" {
		return StateNoActiveShop
	}
	return StateActiveShop
}

// ActiveShop returns the active shop id, if any.
func (s *Selection) ActiveShop() (string, bool) {
	return s.active, s.active != ""
}

func (s *Selection) IsSelected(k Key) bool {
	return s.selected[k]
}

func (s *Selection) Count() int {
	return len(s.selected)
}

// Toggle flips the selection of k. It returns the new selected flag. A key
// from a shop other than the active one is refused with a ValidationError
// carrying the active shop id; nothing changes in that case.
func (s *Selection) Toggle(k Key) (bool, error) {
	if s.active != "" && k.ShopID != s.active {
		return false, &ValidationError{
			Code:    CodeOtherShopActive,
			Message: "Items from shop " + s.active + " are already selected. Check out or deselect them before choosing another shop.",
			ShopID:  s.active,
		}
	}
	if s.selected[k] {
		s.deselect(k)
		return false, nil
	}
	s.selected[k] = true
	s.active = k.ShopID
	return true, nil
}

// Deselect clears k if selected and re-evaluates the active shop.
func (s *Selection) Deselect(keys ...Key) {
	for _, k := range keys {
		s.deselect(k)
	}
}

func (s *Selection) deselect(k Key) {
	delete(s.selected, k)
	if len(s.selected) == 0 {
		s.active = ""
	}
}

// Prune drops selections whose entry is no longer in the cart.
func (s *Selection) Prune(entries []Entry) {
	present := make(map[Key]struct{}, len(entries))
	for _, e := range entries {
		present[e.Key()] = struct{}{}
	}
	for k := range s.selected {
		if _, ok := present[k]; !ok {
			s.deselect(k)
		}
	}
}

// Selected returns the selected entries for shopID in cart order.
func (s *Selection) Selected(entries []Entry, shopID string) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.ShopID == shopID && s.selected[e.Key()] {
			out = append(out, e)
		}
	}
	return out
}

// Keys returns the selected keys in cart order.
func (s *Selection) Keys(entries []Entry) []Key {
	var out []Key
	for _, e := range entries {
		if s.selected[e.Key()] {
			out = append(out, e.Key())
		}
	}
	return out
}

func (s *Selection) Reset() {
	s.active = ""
	s.selected = make(map[Key]bool)
}
