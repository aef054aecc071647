package cart

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	snap      *Snapshot
	loadErr   error
	saveErr   error
	saves     int
	clears    int
	lastSaved Snapshot
}

func (f *fakeStore) Save(snap Snapshot) error {
	f.saves++
	f.lastSaved = snap
	if f.saveErr != nil {
		return f.saveErr
	}
	s := snap
	f.snap = &s
	return nil
}

func (f *fakeStore) Load() (Snapshot, bool, error) {
	if f.loadErr != nil {
		return Snapshot{}, false, f.loadErr
	}
	if f.snap == nil {
		return Snapshot{}, false, nil
	}
	return *f.snap, true, nil
}

func (f *fakeStore) Clear() error {
	f.clears++
	f.snap = nil
	return nil
}

func product(id string, price int64) Product {
	return Product{ID: id, Name: "Card " + id, Price: decimal.NewFromInt(price), Category: "gaming"}
}

func ids(s State) []string {
	out := make([]string, 0, len(s.Items))
	for _, it := range s.Items {
		out = append(out, it.ID)
	}
	return out
}

func requireConsistent(t *testing.T, s State) {
	t.Helper()
	total := decimal.Zero
	count := 0
	for _, it := range s.Items {
		require.GreaterOrEqual(t, it.Quantity, 1)
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		count += it.Quantity
	}
	require.True(t, total.Equal(s.Total), "total %s != %s", s.Total, total)
	require.Equal(t, count, s.ItemCount)
}

func TestContainer_ExampleScenario(t *testing.T) {
	c := New(&fakeStore{})

	s := c.State()
	assert.Empty(t, s.Items)
	assert.True(t, s.Total.IsZero())
	assert.Equal(t, 0, s.ItemCount)

	s = c.AddItem(product("A", 50), 1)
	assert.Equal(t, []string{"A"}, ids(s))
	assert.True(t, s.Total.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, 1, s.ItemCount)

	s = c.AddItem(product("A", 50), 2)
	require.Len(t, s.Items, 1)
	assert.Equal(t, 3, s.Items[0].Quantity)
	assert.True(t, s.Total.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, 3, s.ItemCount)

	s = c.AddItem(product("B", 25), 1)
	assert.Equal(t, []string{"A", "B"}, ids(s))
	assert.True(t, s.Total.Equal(decimal.NewFromInt(175)))
	assert.Equal(t, 4, s.ItemCount)

	s = c.UpdateQuantity("A", 0)
	assert.Equal(t, []string{"B"}, ids(s))
	assert.True(t, s.Total.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, 1, s.ItemCount)

	s = c.Clear()
	assert.Empty(t, s.Items)
	assert.True(t, s.Total.IsZero())
	assert.Equal(t, 0, s.ItemCount)
}

func TestContainer_AddItemCoercesQuantity(t *testing.T) {
	c := New(nil)

	s := c.AddItem(product("A", 10), 0)
	assert.Equal(t, 1, s.Items[0].Quantity)

	s = c.AddItem(product("A", 10), -4)
	assert.Equal(t, 2, s.Items[0].Quantity)
	requireConsistent(t, s)
}

func TestContainer_AddItemKeepsFirstPrice(t *testing.T) {
	c := New(nil)
	c.AddItem(product("A", 10), 1)
	s := c.AddItem(product("A", 99), 1)

	require.Len(t, s.Items, 1)
	assert.True(t, s.Items[0].Price.Equal(decimal.NewFromInt(10)))
	assert.True(t, s.Total.Equal(decimal.NewFromInt(20)))
}

func TestContainer_NegativePriceNormalized(t *testing.T) {
	c := New(nil)
	s := c.AddItem(product("A", -5), 2)
	assert.True(t, s.Items[0].Price.IsZero())
	assert.True(t, s.Total.IsZero())
}

func TestContainer_DecimalPrices(t *testing.T) {
	c := New(nil)
	c.AddItem(Product{ID: "A", Price: decimal.RequireFromString("19.99")}, 3)
	s := c.AddItem(Product{ID: "B", Price: decimal.RequireFromString("0.01")}, 1)
	assert.Equal(t, "59.98", s.Total.StringFixed(2))
}

func TestContainer_UpdateQuantity(t *testing.T) {
	c := New(nil)
	c.AddItem(product("A", 10), 1)
	c.AddItem(product("B", 5), 1)

	s := c.UpdateQuantity("A", 7)
	assert.Equal(t, []string{"A", "B"}, ids(s))
	assert.Equal(t, 7, s.Items[0].Quantity)
	requireConsistent(t, s)

	before := c.State()
	s = c.UpdateQuantity("missing", 3)
	assert.Equal(t, before, s)
}

func TestContainer_NonPositiveUpdateMatchesRemove(t *testing.T) {
	for _, qty := range []int{0, -5} {
		viaUpdate := New(nil)
		viaRemove := New(nil)
		for _, c := range []*Container{viaUpdate, viaRemove} {
			c.AddItem(product("A", 10), 2)
			c.AddItem(product("B", 3), 1)
		}
		assert.Equal(t, viaRemove.RemoveItem("A"), viaUpdate.UpdateQuantity("A", qty))
	}
}

func TestContainer_RemoveItem(t *testing.T) {
	store := &fakeStore{}
	c := New(store)
	c.AddItem(product("A", 10), 1)
	c.AddItem(product("B", 5), 1)
	c.AddItem(product("C", 1), 1)

	s := c.RemoveItem("B")
	assert.Equal(t, []string{"A", "C"}, ids(s))
	requireConsistent(t, s)

	saves := store.saves
	before := c.State()
	s = c.RemoveItem("nope")
	assert.Equal(t, before, s)
	assert.Equal(t, saves, store.saves, "no-op remove must not persist")
}

func TestContainer_PersistsEveryMutation(t *testing.T) {
	store := &fakeStore{}
	c := New(store)

	c.AddItem(product("A", 10), 1)
	c.UpdateQuantity("A", 4)
	c.AddItem(product("B", 1), 1)
	c.RemoveItem("B")

	assert.Equal(t, 4, store.saves)
	require.Len(t, store.lastSaved.Items, 1)
	assert.Equal(t, 4, store.lastSaved.Items[0].Quantity)

	c.Clear()
	assert.Equal(t, 1, store.clears)
	assert.Nil(t, store.snap)
}

func TestContainer_RoundTrip(t *testing.T) {
	store := &fakeStore{}
	first := New(store)
	first.AddItem(product("A", 10), 2)
	first.AddItem(product("B", 7), 1)
	first.AddItem(product("C", 3), 5)
	want := first.State()

	second := New(store)
	got := second.State()
	assert.Equal(t, ids(want), ids(got))
	assert.Equal(t, want.ItemCount, got.ItemCount)
	assert.True(t, want.Total.Equal(got.Total))
	for i := range want.Items {
		assert.Equal(t, want.Items[i].Quantity, got.Items[i].Quantity)
	}
}

func TestContainer_RehydrateDiscardsMalformed(t *testing.T) {
	store := &fakeStore{loadErr: errors.New("bad json")}
	c := New(store)

	s := c.State()
	assert.Empty(t, s.Items)
	assert.Equal(t, 1, store.clears)
}

func TestContainer_RehydrateNormalizesLines(t *testing.T) {
	store := &fakeStore{snap: &Snapshot{Items: []LineItem{
		{Product: product("A", 10), Quantity: 1},
		{Product: product("", 10), Quantity: 1},
		{Product: product("B", 5), Quantity: 0},
		{Product: product("A", 10), Quantity: 2},
		{Product: product("C", -1), Quantity: 1},
	}}}
	s := New(store).State()

	assert.Equal(t, []string{"A", "C"}, ids(s))
	assert.Equal(t, 3, s.Items[0].Quantity)
	assert.True(t, s.Items[1].Price.IsZero())
	requireConsistent(t, s)
}

func TestContainer_AddItemSaturatesQuantity(t *testing.T) {
	c := New(nil)
	c.AddItem(product("A", 1), math.MaxInt)
	s := c.AddItem(product("A", 1), 2)

	require.Len(t, s.Items, 1)
	assert.Equal(t, math.MaxInt, s.Items[0].Quantity)
	assert.Equal(t, math.MaxInt, s.ItemCount)
	assert.True(t, s.Total.IsPositive())

	s = c.AddItem(product("B", 1), 5)
	assert.Equal(t, math.MaxInt, s.ItemCount)
	assert.True(t, s.Total.Equal(decimal.NewFromInt(math.MaxInt).Add(decimal.NewFromInt(5))))
}

func TestContainer_RehydrateSaturatesDuplicateLines(t *testing.T) {
	store := &fakeStore{snap: &Snapshot{Items: []LineItem{
		{Product: product("A", 1), Quantity: math.MaxInt},
		{Product: product("A", 1), Quantity: math.MaxInt},
	}}}
	s := New(store).State()

	require.Len(t, s.Items, 1)
	assert.Equal(t, math.MaxInt, s.Items[0].Quantity)
	assert.Equal(t, math.MaxInt, s.ItemCount)
}

func TestContainer_SaveFailureKeepsMemoryState(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("disk full")}
	c := New(store)

	s := c.AddItem(product("A", 10), 2)
	assert.Equal(t, 2, s.ItemCount)
	assert.Equal(t, 2, c.State().ItemCount)
}

func TestContainer_StateIsACopy(t *testing.T) {
	c := New(nil)
	c.AddItem(product("A", 10), 1)

	s := c.State()
	s.Items[0].Quantity = 100

	assert.Equal(t, 1, c.State().Items[0].Quantity)
}

func TestContainer_TotalsStayConsistent(t *testing.T) {
	c := New(&fakeStore{})
	ops := []Action{
		AddItem(product("A", 3), 2),
		AddItem(product("B", 11), 1),
		UpdateQuantity("A", 9),
		AddItem(product("C", 1), -1),
		RemoveItem("B"),
		AddItem(product("B", 11), 4),
		UpdateQuantity("C", -1),
		AddItem(product("A", 3), 1),
		UpdateQuantity("zzz", 5),
	}
	for _, op := range ops {
		requireConsistent(t, c.Dispatch(op))
	}
	assert.Equal(t, []string{"A", "B"}, ids(c.State()))
}

func TestContainer_DispatchUnknownAction(t *testing.T) {
	c := New(nil)
	c.AddItem(product("A", 10), 1)
	before := c.State()

	assert.Equal(t, before, c.Dispatch(Action{Type: "EXPLODE"}))
}

func TestContainer_DispatchClear(t *testing.T) {
	c := New(nil)
	c.AddItem(product("A", 10), 1)

	s := c.Dispatch(ClearCart())
	assert.True(t, s.Empty())
	assert.NotNil(t, s.Items)
}

func TestParseQuantity(t *testing.T) {
	assert.Equal(t, 3, ParseQuantity(" 3 "))
	assert.Equal(t, 1, ParseQuantity("three"))
	assert.Equal(t, 1, ParseQuantity(""))
	assert.Equal(t, -2, ParseQuantity("-2"))
}

func TestSnapshotEncoding(t *testing.T) {
	data, err := EncodeSnapshot(Snapshot{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, string(data))

	snap, err := DecodeSnapshot([]byte(`{"items":[{"id":"A","name":"x","price":"12.50","image":"","category":"c","quantity":2}],"total":"999"}`))
	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "12.5", snap.Items[0].Price.String())

	_, err = DecodeSnapshot([]byte(`{not json`))
	assert.Error(t, err)
}
