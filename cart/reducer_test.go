package cart_test

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yashrajoria/storefront/cart"
	"github.com/yashrajoria/storefront/models"
)

func item(id string, price int64) models.CartItem {
	return models.CartItem{ID: id, Name: "product " + id, Price: decimal.NewFromInt(price)}
}

func sumOf(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

func TestAdd_NewItemAppendsWithQuantity(t *testing.T) {
	s := cart.Add(cart.Clear(), item("a", 10), 3)

	require.Len(t, s.Items, 1)
	assert.Equal(t, 3, s.Items[0].Quantity)
	assert.True(t, decimal.NewFromInt(30).Equal(s.TotalAmount))
}

func TestAdd_ExistingItemIncrementsByExactAmount(t *testing.T) {
	s := cart.Add(cart.Clear(), item("a", 10), 2)
	s = cart.Add(s, item("a", 10), 4)

	require.Len(t, s.Items, 1)
	assert.Equal(t, 6, s.Items[0].Quantity)
}

func TestAdd_DefaultsToOne(t *testing.T) {
	s := cart.Add(cart.Clear(), item("a", 10), 0)
	assert.Equal(t, 1, s.Items[0].Quantity)
}

func TestAdd_DoesNotMutateInput(t *testing.T) {
	before := cart.Add(cart.Clear(), item("a", 10), 1)
	_ = cart.Add(before, item("a", 10), 5)
	assert.Equal(t, 1, before.Items[0].Quantity)
}

func TestSetQuantity(t *testing.T) {
	s := cart.Add(cart.Clear(), item("a", 10), 2)

	t.Run("sets exactly", func(t *testing.T) {
		got := cart.SetQuantity(s, "a", 7)
		assert.Equal(t, 7, got.Items[0].Quantity)
		assert.True(t, decimal.NewFromInt(70).Equal(got.TotalAmount))
	})
	t.Run("zero is a no-op", func(t *testing.T) {
		got := cart.SetQuantity(s, "a", 0)
		assert.Equal(t, s.Items, got.Items)
	})
	t.Run("negative is a no-op", func(t *testing.T) {
		got := cart.SetQuantity(s, "a", -3)
		assert.Equal(t, s.Items, got.Items)
	})
	t.Run("absent id is a no-op", func(t *testing.T) {
		got := cart.SetQuantity(s, "zzz", 5)
		assert.Equal(t, s.Items, got.Items)
	})
}

func TestClear(t *testing.T) {
	s := cart.Clear()
	assert.Empty(t, s.Items)
	assert.NotNil(t, s.Items)
	assert.True(t, s.TotalAmount.IsZero())
}

func TestScenario_TwoLinesThenRemove(t *testing.T) {
	s := cart.Add(cart.Clear(), item("A", 10), 2)
	s = cart.Add(s, item("B", 5), 1)
	assert.True(t, decimal.NewFromInt(25).Equal(s.TotalAmount), "got %s", s.TotalAmount)

	s = cart.Remove(s, "A")
	require.Len(t, s.Items, 1)
	assert.Equal(t, "B", s.Items[0].ID)
	assert.True(t, decimal.NewFromInt(5).Equal(s.TotalAmount))
}

func TestTotalInvariant_RandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ids := []string{"a", "b", "c", "d"}
	prices := map[string]decimal.Decimal{
		"a": decimal.RequireFromString("9.99"),
		"b": decimal.RequireFromString("0.10"),
		"c": decimal.RequireFromString("120.00"),
		"d": decimal.RequireFromString("3.33"),
	}

	for run := 0; run < 200; run++ {
		s := cart.Clear()
		for step := 0; step < 30; step++ {
			id := ids[rng.Intn(len(ids))]
			switch rng.Intn(3) {
			case 0:
				s = cart.Add(s, models.CartItem{ID: id, Price: prices[id]}, rng.Intn(5))
			case 1:
				s = cart.SetQuantity(s, id, rng.Intn(6)-1)
			case 2:
				s = cart.Remove(s, id)
			}
			require.True(t, sumOf(s.Items).Equal(s.TotalAmount), "run %d step %d", run, step)
			for _, it := range s.Items {
				require.GreaterOrEqual(t, it.Quantity, 1)
			}
		}
	}
}

func TestCount(t *testing.T) {
	s := cart.Add(cart.Clear(), item("a", 1), 2)
	s = cart.Add(s, item("b", 1), 3)
	assert.Equal(t, 5, cart.Count(s))
}

func TestNew_RecomputesTotal(t *testing.T) {
	a := item("a", 4)
	a.Quantity = 3
	s := cart.New([]models.CartItem{a})
	assert.True(t, decimal.NewFromInt(12).Equal(s.TotalAmount))
}
