package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"delivery-system/internal/cart"
	"delivery-system/internal/order"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	channel string
	payload []byte
}

type fakeRedis struct {
	data      map[string]string
	ttls      map[string]time.Duration
	published []published
	err       error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, exp time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.data[key] = string(value.([]byte))
	f.ttls[key] = exp
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	for _, k := range keys {
		delete(f.data, k)
	}
	return redis.NewIntResult(int64(len(keys)), f.err)
}

func (f *fakeRedis) Publish(_ context.Context, channel string, message interface{}) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	f.published = append(f.published, published{channel, message.([]byte)})
	return redis.NewIntResult(1, nil)
}

func TestCartStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	store := NewCartStore(rdb, time.Hour)

	lines, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, lines)

	want := []cart.SnapshotLine{
		{ProductID: "prod-1", VariationID: "var-1-2", AddonIDs: []string{"addon-1"}, Quantity: 2},
	}
	require.NoError(t, store.Save(ctx, "sess-1", want))
	assert.Contains(t, rdb.data, "delivery:cart:sess-1")
	assert.Equal(t, time.Hour, rdb.ttls["delivery:cart:sess-1"])

	got, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, store.Delete(ctx, "sess-1"))
	got, err = store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCartStoreErrors(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	store := NewCartStore(rdb, 0)
	assert.Equal(t, DefaultCartTTL, store.ttl)

	rdb.data[CartKey("bad")] = "not json"
	_, err := store.Load(ctx, "bad")
	assert.Error(t, err)

	rdb.err = errors.New("connection refused")
	_, err = store.Load(ctx, "sess-1")
	assert.ErrorContains(t, err, "connection refused")
	assert.Error(t, store.Save(ctx, "sess-1", nil))
}

func TestEventPublisher(t *testing.T) {
	rdb := newFakeRedis()
	pub := NewEventPublisher(rdb)

	e := order.Event{
		Type:         order.EventStatusChanged,
		OrderID:      "order-1",
		RestaurantID: "rest-1",
		From:         order.StatusReceived,
		To:           order.StatusPreparing,
		Total:        decimal.RequireFromString("79.70"),
		By:           "employee-1",
	}
	require.NoError(t, pub.Publish(context.Background(), e))
	require.Len(t, rdb.published, 2)
	assert.Equal(t, "delivery:events:order.status_changed", rdb.published[0].channel)
	assert.Equal(t, AllEventsChannel, rdb.published[1].channel)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(rdb.published[0].payload, &decoded))
	assert.Equal(t, "order-1", decoded["order_id"])
	assert.Equal(t, "preparing", decoded["to"])
	assert.Equal(t, "79.7", decoded["total"])

	rdb.err = errors.New("down")
	assert.Error(t, pub.Publish(context.Background(), e))
}
