package listview

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apotekanet/crm-api/internal/gateway"
)

type item struct {
	ID   string
	Name string
	Rank int
}

func (i item) EntityID() string { return i.ID }

func decodeItem(r gateway.Record) (item, error) {
	it := item{ID: r.String("id"), Name: r.String("name")}
	if rank, ok := r["rank"].(int); ok {
		it.Rank = rank
	}
	if it.ID == "" {
		return item{}, errors.New("item record without id")
	}
	return it, nil
}

// fakeGateway serves canned List responses; the other operations are not
// used by the controller.
type fakeGateway struct {
	records []gateway.Record
	err     error
	calls   int
}

func (f *fakeGateway) List(ctx context.Context, collection, orderBy string) ([]gateway.Record, error) {
	f.calls++
	return f.records, f.err
}

func (f *fakeGateway) Insert(ctx context.Context, collection string, fields gateway.Record) (gateway.Record, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeGateway) Update(ctx context.Context, collection, id string, fields gateway.Record) (gateway.Record, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeGateway) Delete(ctx context.Context, collection, id string) error {
	return errors.New("not implemented")
}

func (f *fakeGateway) CurrentIdentity(ctx context.Context) (*gateway.Identity, error) {
	return nil, nil
}

func (f *fakeGateway) SignOut(ctx context.Context) error { return nil }

func newController(gw gateway.Gateway, less func(a, b item) bool) *Controller[item] {
	return New(gw, "items", "name", decodeItem, less)
}

func TestLoadReplacesWholesalePreservingServerOrder(t *testing.T) {
	gw := &fakeGateway{records: []gateway.Record{
		{"id": "b", "name": "Beta"},
		{"id": "a", "name": "Alpha"},
	}}
	c := newController(gw, nil)
	c.OnCreated(item{ID: "stale", Name: "Old"})

	require.NoError(t, c.Load(context.Background()))

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[0].ID)
	assert.Equal(t, "a", items[1].ID)
}

func TestLoadFailureKeepsPriorItems(t *testing.T) {
	gw := &fakeGateway{err: &gateway.Failure{Message: "backend down"}}
	c := newController(gw, nil)
	c.OnCreated(item{ID: "x", Name: "Kept"})

	err := c.Load(context.Background())

	require.Error(t, err)
	assert.Equal(t, "backend down", err.Error())
	require.Len(t, c.Items(), 1)
	assert.Equal(t, "x", c.Items()[0].ID)
	assert.False(t, c.IsLoading())
	assert.Equal(t, 1, gw.calls, "no automatic retry")
}

func TestOnCreatedThenOnUpdatedYieldsSingleElement(t *testing.T) {
	c := newController(&fakeGateway{}, nil)

	c.OnCreated(item{ID: "p1", Name: "First"})
	c.OnUpdated(item{ID: "p1", Name: "Renamed"})

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Renamed", items[0].Name)
}

func TestOnCreatedIsIdempotentOnDuplicateID(t *testing.T) {
	c := newController(&fakeGateway{}, nil)

	c.OnCreated(item{ID: "p1", Name: "First"})
	c.OnCreated(item{ID: "p2", Name: "Second"})
	c.OnCreated(item{ID: "p1", Name: "Replayed"})

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Replayed", items[0].Name, "newest-first prepend")
}

func TestOnCreatedPrependsWithoutLess(t *testing.T) {
	c := newController(&fakeGateway{}, nil)

	c.OnCreated(item{ID: "a"})
	c.OnCreated(item{ID: "b"})

	assert.Equal(t, "b", c.Items()[0].ID)
}

func TestOnCreatedKeepsSortOrderWithLess(t *testing.T) {
	less := func(a, b item) bool { return a.Rank < b.Rank }
	c := newController(&fakeGateway{}, less)

	c.OnCreated(item{ID: "c", Rank: 3})
	c.OnCreated(item{ID: "a", Rank: 1})
	c.OnCreated(item{ID: "b", Rank: 2})

	items := c.Items()
	require.Len(t, items, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{items[0].ID, items[1].ID, items[2].ID})
}

func TestOnUpdatedUnknownIDIsNoOp(t *testing.T) {
	c := newController(&fakeGateway{}, nil)
	c.OnCreated(item{ID: "a", Name: "Kept"})

	c.OnUpdated(item{ID: "ghost", Name: "Ignored"})

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Kept", items[0].Name)
}

func TestOnDeletedUnknownIDIsNoOp(t *testing.T) {
	c := newController(&fakeGateway{}, nil)
	c.OnCreated(item{ID: "a"})
	before := c.Items()

	c.OnDeleted("ghost")

	assert.Equal(t, before, c.Items())
}

func TestOnDeletedRemovesMatch(t *testing.T) {
	c := newController(&fakeGateway{}, nil)
	c.OnCreated(item{ID: "a"})
	c.OnCreated(item{ID: "b"})

	c.OnDeleted("a")

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].ID)
}

func TestLoadAfterCloseDiscardsResult(t *testing.T) {
	gw := &fakeGateway{records: []gateway.Record{{"id": "late"}}}
	c := newController(gw, nil)
	c.OnCreated(item{ID: "kept"})

	c.Close()
	require.NoError(t, c.Load(context.Background()))

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "kept", items[0].ID)
}

func TestLoadDecodeFailureKeepsPriorItems(t *testing.T) {
	gw := &fakeGateway{records: []gateway.Record{{"name": "no id"}}}
	c := newController(gw, nil)
	c.OnCreated(item{ID: "kept"})

	err := c.Load(context.Background())

	require.Error(t, err)
	require.Len(t, c.Items(), 1)
}
