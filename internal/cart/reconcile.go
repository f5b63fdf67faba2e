package cart

// Reconcile merges local-only and server entries into the unified cart.
//
// Local entries come first, tagged OriginLocal, followed by remote entries
// tagged OriginRemote. Duplicates within one origin are folded by summing
// quantities. When the same key exists in both origins the server copy is
// kept: the local one was already pushed by the pending-cart sync and the
// server is the source of truth for acknowledged entries.
func Reconcile(local, remote []Entry) []Entry {
	remoteKeys := make(map[Key]struct{}, len(remote))
	for _, e := range remote {
		remoteKeys[e.Key()] = struct{}{}
	}

	unified := make([]Entry, 0, len(local)+len(remote))
	index := make(map[Key]int, len(local)+len(remote))

	merge := func(e Entry, origin Origin) {
		e.Origin = origin
		if e.Quantity < 1 {
			e.Quantity = 1
		}
		if i, ok := index[e.Key()]; ok {
			unified[i].Quantity += e.Quantity
			return
		}
		index[e.Key()] = len(unified)
		unified = append(unified, e)
	}

	for _, e := range local {
		if _, shadowed := remoteKeys[e.Key()]; shadowed {
			continue
		}
		merge(e, OriginLocal)
	}
	for _, e := range remote {
		merge(e, OriginRemote)
	}
	return unified
}

// IndexOf returns the position of key in entries, or -1.
func IndexOf(entries []Entry, key Key) int {
	for i, e := range entries {
		if e.Key() == key {
			return i
		}
	}
	return -1
}

// Without returns entries minus every entry whose key is in keys. Order is
// preserved and the input is not modified.
func Without(entries []Entry, keys ...Key) []Entry {
	drop := make(map[Key]struct{}, len(keys))
	for _, k := range keys {
		drop[k] = struct{}{}
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if _, ok := drop[e.Key()]; ok {
			continue
		}
		out = append(out, e)
	}
	return out
}

// ShopIDs lists the distinct shop ids in first-appearance order.
func ShopIDs(entries []Entry) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, e := range entries {
		if _, ok := seen[e.ShopID]; ok {
			continue
		}
		seen[e.ShopID] = struct{}{}
		ids = append(ids, e.ShopID)
	}
	return ids
}

// FilterOrigin returns the entries with the given origin.
func FilterOrigin(entries []Entry, origin Origin) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Origin == origin {
			out = append(out, e)
		}
	}
	return out
}

// TotalItems sums quantities across entries.
func TotalItems(entries []Entry) int {
	total := 0
	for _, e := range entries {
		total += e.Quantity
	}
	return total
}
