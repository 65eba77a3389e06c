package cart

import (
	"encoding/json"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func product(id string, price *int64, likes *int64) Product {
	return Product{ID: id, Price: price, Likes: likes}
}

func TestStoreAdd(t *testing.T) {
	t.Run("new product starts at quantity one", func(t *testing.T) {
		s := NewStore(nil)

		require.NoError(t, s.Add(product("a", int64Ptr(100), nil)))

		items := s.Items()
		require.Len(t, items, 1)
		assert.Equal(t, "a", items[0].Product.ID)
		assert.Equal(t, int64(1), items[0].Quantity)
		assert.Equal(t, int64(100), items[0].UnitPrice)
	})

	t.Run("re-adding bumps quantity in place", func(t *testing.T) {
		s := NewStore(nil)

		require.NoError(t, s.Add(product("a", int64Ptr(100), nil)))
		require.NoError(t, s.Add(product("b", int64Ptr(50), nil)))
		require.NoError(t, s.Add(product("a", int64Ptr(100), nil)))

		items := s.Items()
		require.Len(t, items, 2)
		assert.Equal(t, "a", items[0].Product.ID, "order keeps first insertion")
		assert.Equal(t, int64(2), items[0].Quantity)
		assert.Equal(t, "b", items[1].Product.ID)
	})

	t.Run("product without id is rejected", func(t *testing.T) {
		s := NewStore(nil)
		assert.ErrorIs(t, s.Add(Product{}), ErrInvalidProduct)
		assert.Zero(t, s.Len())
	})

	t.Run("unit price locks on first add", func(t *testing.T) {
		s := NewStore(nil)

		require.NoError(t, s.Add(product("a", int64Ptr(100), nil)))
		require.NoError(t, s.Add(product("a", int64Ptr(999), nil)))

		items := s.Items()
		require.Len(t, items, 1)
		assert.Equal(t, int64(100), items[0].UnitPrice)
		assert.Equal(t, int64(200), s.Total())
	})
}

func TestStorePriceFallback(t *testing.T) {
	tests := []struct {
		name string
		p    Product
		want int64
	}{
		{"price set", product("a", int64Ptr(150), int64Ptr(7)), 150},
		{"explicit zero price honored", product("a", int64Ptr(0), int64Ptr(7)), 0},
		{"falls back to likes", product("a", nil, int64Ptr(7)), 7},
		{"no price or likes", product("a", nil, nil), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(nil)
			require.NoError(t, s.Add(tt.p))
			assert.Equal(t, tt.want, s.Items()[0].UnitPrice)
		})
	}
}

// A priced product added twice plus a likes-priced product added once must
// total exactly, line by line.
func TestStoreTotalMixedPricing(t *testing.T) {
	s := NewStore(nil)

	a := product("A", int64Ptr(10), nil)
	b := product("B", nil, int64Ptr(5))

	require.NoError(t, s.Add(a))
	require.NoError(t, s.Add(a))
	require.NoError(t, s.Add(b))

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, int64(2), items[0].Quantity)
	assert.Equal(t, int64(10), items[0].UnitPrice)
	assert.Equal(t, int64(1), items[1].Quantity)
	assert.Equal(t, int64(5), items[1].UnitPrice)
	assert.Equal(t, int64(25), s.Total())
}

func TestStoreRemove(t *testing.T) {
	s := NewStore(nil)
	require.NoError(t, s.Add(product("a", int64Ptr(10), nil)))
	require.NoError(t, s.Add(product("b", int64Ptr(20), nil)))
	require.NoError(t, s.Add(product("c", int64Ptr(30), nil)))

	s.Remove("b")

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].Product.ID)
	assert.Equal(t, "c", items[1].Product.ID)
	assert.Equal(t, int64(40), s.Total())

	// Removal is idempotent; repeating it changes nothing.
	s.Remove("b")
	assert.Equal(t, 2, s.Len())
}

func TestStoreUpdateQuantity(t *testing.T) {
	t.Run("positive delta raises quantity", func(t *testing.T) {
		s := NewStore(nil)
		require.NoError(t, s.Add(product("a", int64Ptr(10), nil)))

		require.NoError(t, s.UpdateQuantity("a", 3))

		assert.Equal(t, int64(4), s.Items()[0].Quantity)
		assert.Equal(t, int64(40), s.Total())
	})

	t.Run("negative delta lowers quantity", func(t *testing.T) {
		s := NewStore(nil)
		require.NoError(t, s.Add(product("a", int64Ptr(10), nil)))
		require.NoError(t, s.UpdateQuantity("a", 4))

		require.NoError(t, s.UpdateQuantity("a", -2))

		assert.Equal(t, int64(3), s.Items()[0].Quantity)
	})

	t.Run("delta to exactly zero removes the line", func(t *testing.T) {
		s := NewStore(nil)
		require.NoError(t, s.Add(product("a", int64Ptr(10), nil)))

		require.NoError(t, s.UpdateQuantity("a", -1))

		assert.Zero(t, s.Len())
	})

	t.Run("overshooting delta removes the line", func(t *testing.T) {
		s := NewStore(nil)
		require.NoError(t, s.Add(product("a", int64Ptr(10), nil)))
		require.NoError(t, s.Add(product("a", int64Ptr(10), nil)))

		require.NoError(t, s.UpdateQuantity("a", -5))

		assert.Zero(t, s.Len())
		assert.Zero(t, s.Total())
	})

	t.Run("absent product", func(t *testing.T) {
		s := NewStore(nil)
		assert.ErrorIs(t, s.UpdateQuantity("ghost", 3), ErrItemNotFound)
	})
}

func TestStoreClear(t *testing.T) {
	s := NewStore(nil)
	require.NoError(t, s.Add(product("a", int64Ptr(10), nil)))
	require.NoError(t, s.Add(product("b", int64Ptr(20), nil)))

	s.Clear()

	assert.Zero(t, s.Len())
	assert.Zero(t, s.Total())
	assert.Empty(t, s.Items())

	// Cart stays usable after a clear.
	require.NoError(t, s.Add(product("c", int64Ptr(5), nil)))
	assert.Equal(t, int64(5), s.Total())
}

type recordingObserver struct {
	mu     sync.Mutex
	events []Event
}

func (o *recordingObserver) Notify(e Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) all() []Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Event(nil), o.events...)
}

func TestStoreObserver(t *testing.T) {
	obs := &recordingObserver{}
	s := NewStore(obs)

	require.NoError(t, s.Add(product("a", int64Ptr(10), nil)))
	require.NoError(t, s.UpdateQuantity("a", 2))
	s.Remove("a")
	s.Clear() // empty cart, no event

	events := obs.all()
	require.Len(t, events, 3)

	assert.Equal(t, OpAdd, events[0].Op)
	assert.Equal(t, int64(1), events[0].Quantity)
	assert.Equal(t, int64(10), events[0].Total)

	assert.Equal(t, OpUpdate, events[1].Op)
	assert.Equal(t, int64(3), events[1].Quantity)
	assert.Equal(t, int64(30), events[1].Total)

	assert.Equal(t, OpRemove, events[2].Op)
	assert.Equal(t, int64(0), events[2].Total)
	assert.Equal(t, 0, events[2].Size)
}

func TestStoreRejectedOpsEmitRejectEvents(t *testing.T) {
	obs := &recordingObserver{}
	s := NewStore(obs)

	assert.Error(t, s.Add(Product{}))
	assert.Error(t, s.UpdateQuantity("ghost", 2))
	s.Remove("ghost") // silent no-op, no event

	events := obs.all()
	require.Len(t, events, 2)
	assert.Equal(t, OpReject, events[0].Op)
	assert.NotEmpty(t, events[0].Reason)
	assert.Equal(t, OpReject, events[1].Op)
	assert.Equal(t, "ghost", events[1].ProductID)
}

// Random walk over the operation set, checking the invariants a reader of
// the cart relies on: the id set of the order slice matches the map, the
// total equals the sum of line subtotals, and every quantity is positive.
func TestStoreInvariantsUnderRandomOps(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := NewStore(nil)
	ids := []string{"a", "b", "c", "d", "e"}

	for i := 0; i < 2000; i++ {
		id := ids[rng.Intn(len(ids))]
		switch rng.Intn(4) {
		case 0:
			_ = s.Add(product(id, int64Ptr(int64(rng.Intn(500))), nil))
		case 1:
			s.Remove(id)
		case 2:
			_ = s.UpdateQuantity(id, int64(rng.Intn(7)-2))
		case 3:
			if rng.Intn(20) == 0 {
				s.Clear()
			}
		}

		items := s.Items()
		assert.Equal(t, s.Len(), len(items))

		var total int64
		seen := make(map[string]bool, len(items))
		for _, item := range items {
			require.False(t, seen[item.Product.ID], "duplicate line for %s", item.Product.ID)
			seen[item.Product.ID] = true
			require.Positive(t, item.Quantity)
			total += item.Subtotal()
		}
		assert.Equal(t, total, s.Total())
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore(nil)
	var wg sync.WaitGroup

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := string(rune('a' + n%4))
			for i := 0; i < 200; i++ {
				_ = s.Add(product(id, int64Ptr(10), nil))
				_ = s.Total()
				_ = s.Items()
				if i%50 == 0 {
					_ = s.UpdateQuantity(id, 1)
				}
			}
		}(g)
	}
	wg.Wait()

	assert.LessOrEqual(t, s.Len(), 4)
	assert.Equal(t, s.Total(), sumSubtotals(s.Items()))
}

func sumSubtotals(items []Item) int64 {
	var total int64
	for _, item := range items {
		total += item.Subtotal()
	}
	return total
}

func TestProductJSON(t *testing.T) {
	raw := `{"_id":"p1","description":"mug","price":250,"tags":[{"title":"kitchen"}],"userId":"u9","likes":3}`

	var p Product
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "mug", p.Description)
	require.NotNil(t, p.Price)
	assert.Equal(t, int64(250), *p.Price)
	require.NotNil(t, p.Likes)
	assert.Equal(t, int64(3), *p.Likes)
	require.Len(t, p.Tags, 1)
	assert.Contains(t, p.Attrs, "userId", "unmodeled fields pass through")

	out, err := json.Marshal(p)
	require.NoError(t, err)

	var round map[string]any
	require.NoError(t, json.Unmarshal(out, &round))
	assert.Equal(t, "p1", round["_id"])
	assert.Equal(t, float64(250), round["price"])
	assert.Equal(t, "u9", round["userId"])
}

func TestProductHasTag(t *testing.T) {
	p := Product{ID: "p", Tags: []Tag{{Title: "Kitchenware"}, {Title: "gift"}}}

	assert.True(t, p.HasTag("kitchen"))
	assert.True(t, p.HasTag("GIFT"))
	assert.True(t, p.HasTag(""))
	assert.False(t, p.HasTag("garden"))
}
