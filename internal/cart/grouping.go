package cart

// Groups partitions a cart by shop. Shops keeps first-appearance order and
// each shop's entries keep cart order.
type Groups struct {
	Shops  []string
	ByShop map[string][]Entry
}

func GroupByShop(entries []Entry) Groups {
	g := Groups{ByShop: make(map[string][]Entry)}
	for _, e := range entries {
		if _, ok := g.ByShop[e.ShopID]; !ok {
			g.Shops = append(g.Shops, e.ShopID)
		}
		g.ByShop[e.ShopID] = append(g.ByShop[e.ShopID], e)
	}
	return g
}

func (g Groups) Len() int {
	return len(g.Shops)
}
