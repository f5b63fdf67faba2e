package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(shopID, productID string, qty int) Entry {
	return Entry{ProductID: productID, ShopID: shopID, Name: productID, Price: Rupees(10), Quantity: qty}
}

func assertUnique(t *testing.T, entries []Entry) {
	t.Helper()
	seen := make(map[Key]bool)
	for _, e := range entries {
		require.False(t, seen[e.Key()], "duplicate entry %s", e.Key())
		seen[e.Key()] = true
	}
}

func TestReconcile_TagsOrigins(t *testing.T) {
	local := []Entry{entry("s1", "p1", 1)}
	remote := []Entry{entry("s2", "p2", 2)}

	unified := Reconcile(local, remote)

	require.Len(t, unified, 2)
	assert.Equal(t, OriginLocal, unified[0].Origin)
	assert.Equal(t, OriginRemote, unified[1].Origin)
}

func TestReconcile_RemoteOnlyFailureKeepsLocal(t *testing.T) {
	local := []Entry{entry("s1", "p1", 1), entry("s2", "p2", 3)}

	unified := Reconcile(local, nil)

	require.Len(t, unified, 2)
	for i, e := range unified {
		assert.Equal(t, OriginLocal, e.Origin)
		assert.Equal(t, local[i].Key(), e.Key())
		assert.Equal(t, local[i].Quantity, e.Quantity)
	}
}

func TestReconcile_ServerCopyWinsAcrossOrigins(t *testing.T) {
	local := []Entry{entry("s1", "p1", 5), entry("s1", "p2", 1)}
	remote := []Entry{entry("s1", "p1", 2)}

	unified := Reconcile(local, remote)

	assertUnique(t, unified)
	require.Len(t, unified, 2)
	i := IndexOf(unified, Key{ProductID: "p1", ShopID: "s1"})
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, OriginRemote, unified[i].Origin)
	assert.Equal(t, 2, unified[i].Quantity)
}

func TestReconcile_FoldsDuplicatesWithinOrigin(t *testing.T) {
	local := []Entry{entry("s1", "p1", 1), entry("s1", "p1", 2)}
	remote := []Entry{entry("s2", "p9", 1), entry("s2", "p9", 4)}

	unified := Reconcile(local, remote)

	assertUnique(t, unified)
	require.Len(t, unified, 2)
	assert.Equal(t, 3, unified[0].Quantity)
	assert.Equal(t, 5, unified[1].Quantity)
}

func TestReconcile_SameProductDifferentShopsKept(t *testing.T) {
	unified := Reconcile([]Entry{entry("s1", "p1", 1)}, []Entry{entry("s2", "p1", 1)})

	assert.Len(t, unified, 2)
	assertUnique(t, unified)
}

func TestReconcile_NeverDuplicates(t *testing.T) {
	shops := []string{"s1", "s2"}
	products := []string{"p1", "p2", "p3"}
	for mask := 0; mask < 1<<6; mask++ {
		var local, remote []Entry
		bit := 0
		for _, s := range shops {
			for _, p := range products {
				if mask&(1<<bit) != 0 {
					local = append(local, entry(s, p, 1))
				}
				if (mask>>1)&(1<<bit) != 0 || bit%2 == 0 {
					remote = append(remote, entry(s, p, 1))
				}
				bit++
			}
		}
		local = append(local, local...)
		assertUnique(t, Reconcile(local, remote))
	}
}

func TestReconcile_ClampsQuantity(t *testing.T) {
	unified := Reconcile([]Entry{entry("s1", "p1", 0)}, nil)
	assert.Equal(t, 1, unified[0].Quantity)
}

func TestWithout(t *testing.T) {
	entries := []Entry{entry("s1", "p1", 1), entry("s1", "p2", 1), entry("s2", "p1", 1)}

	out := Without(entries, Key{ProductID: "p1", ShopID: "s1"})

	require.Len(t, out, 2)
	assert.Equal(t, "p2", out[0].ProductID)
	assert.Equal(t, "s2", out[1].ShopID)
	assert.Len(t, entries, 3, "input must not be modified")
}

func TestShopIDs_FirstAppearanceOrder(t *testing.T) {
	entries := []Entry{entry("b", "1", 1), entry("a", "2", 1), entry("b", "3", 1)}
	assert.Equal(t, []string{"b", "a"}, ShopIDs(entries))
}

func TestGroupByShop_Stable(t *testing.T) {
	entries := []Entry{entry("b", "1", 1), entry("a", "2", 1), entry("b", "3", 1)}

	g := GroupByShop(entries)

	assert.Equal(t, []string{"b", "a"}, g.Shops)
	require.Len(t, g.ByShop["b"], 2)
	assert.Equal(t, "1", g.ByShop["b"][0].ProductID)
	assert.Equal(t, "3", g.ByShop["b"][1].ProductID)
	assert.Equal(t, 2, g.Len())
}
