package eventbus

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/annel0/voxel-content/internal/config"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collector собирает доставленные события
type collector struct {
	mu     sync.Mutex
	events []*Envelope
}

func (c *collector) handle(_ context.Context, ev *Envelope) {
	c.mu.Lock()
	c.events = append(c.events, ev)
	c.mu.Unlock()
}

func (c *collector) types() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.events))
	for i, ev := range c.events {
		out[i] = ev.EventType
	}
	return out
}

func TestNewEnvelope(t *testing.T) {
	ev := NewEnvelope("overworld", "place_block", []byte{1}, map[string]string{"id": "stone"})

	assert.Len(t, ev.ID, 36)
	assert.Equal(t, time.UTC, ev.Timestamp.Location())
	assert.Equal(t, "stone", ev.Metadata["id"])
}

func TestMemoryBus_DeliversInOrder(t *testing.T) {
	bus := NewMemoryBus(4)
	ctx := context.Background()

	all := &collector{}
	blocks := &collector{}
	_, err := bus.Subscribe(ctx, Filter{}, all.handle)
	require.NoError(t, err)
	_, err = bus.Subscribe(ctx, Filter{Types: []string{"place_block"}}, blocks.handle)
	require.NoError(t, err)

	for _, typ := range []string{"place_block", "spawn_entity", "place_block", "give_item"} {
		require.NoError(t, bus.Publish(ctx, NewEnvelope("w", typ, nil, nil)))
	}
	require.NoError(t, bus.Close())

	assert.Equal(t, []string{"place_block", "spawn_entity", "place_block", "give_item"}, all.types())
	assert.Equal(t, []string{"place_block", "place_block"}, blocks.types())

	stats := bus.Metrics()
	assert.Equal(t, uint64(4), stats.Published)
	assert.Equal(t, uint64(6), stats.Consumed)
	assert.Zero(t, stats.InFlight)
}

func TestMemoryBus_SourceFilter(t *testing.T) {
	bus := NewMemoryBus(2)
	ctx := context.Background()

	nether := &collector{}
	_, err := bus.Subscribe(ctx, Filter{Sources: []string{"nether"}}, nether.handle)
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, NewEnvelope("overworld", "a", nil, nil)))
	require.NoError(t, bus.Publish(ctx, NewEnvelope("nether", "b", nil, nil)))
	require.NoError(t, bus.Close())

	assert.Equal(t, []string{"b"}, nether.types())
}

func TestMemoryBus_Unsubscribe(t *testing.T) {
	bus := NewMemoryBus(1)
	ctx := context.Background()

	c := &collector{}
	sub, err := bus.Subscribe(ctx, Filter{}, c.handle)
	require.NoError(t, err)
	sub.Unsubscribe()
	sub.Unsubscribe()

	require.NoError(t, bus.Publish(ctx, NewEnvelope("w", "a", nil, nil)))
	require.NoError(t, bus.Close())
	assert.Empty(t, c.types())
}

func TestMemoryBus_Closed(t *testing.T) {
	bus := NewMemoryBus(1)
	require.NoError(t, bus.Close())
	require.NoError(t, bus.Close())

	err := bus.Publish(context.Background(), NewEnvelope("w", "a", nil, nil))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMemoryBus_PublishRespectsContext(t *testing.T) {
	bus := NewMemoryBus(1)
	defer bus.Close()

	block := make(chan struct{})
	_, err := bus.Subscribe(context.Background(), Filter{}, func(context.Context, *Envelope) { <-block })
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// первое событие занимает обработчик, второе буфер, третье ждёт
	var lastErr error
	for i := 0; i < 3 && lastErr == nil; i++ {
		lastErr = bus.Publish(ctx, NewEnvelope("w", "a", nil, nil))
	}
	close(block)
	assert.ErrorIs(t, lastErr, context.DeadlineExceeded)
}

func TestMetricsExporter(t *testing.T) {
	bus := NewMemoryBus(4)
	before := testutil.ToFloat64(publishedTotal)

	exp := NewMetricsExporter(bus, time.Hour)
	require.NoError(t, bus.Publish(context.Background(), NewEnvelope("w", "a", nil, nil)))
	require.NoError(t, bus.Publish(context.Background(), NewEnvelope("w", "b", nil, nil)))
	require.NoError(t, bus.Close())
	exp.Stop()

	assert.Equal(t, before+2, testutil.ToFloat64(publishedTotal))
}

func TestOpen(t *testing.T) {
	bus, err := Open(config.EventBusConfig{Backend: "none"})
	require.NoError(t, err)
	assert.Nil(t, bus)

	bus, err = Open(config.EventBusConfig{Backend: "memory", Buffer: 8})
	require.NoError(t, err)
	require.NotNil(t, bus)
	require.NoError(t, bus.Close())

	_, err = Open(config.EventBusConfig{Backend: "kafka"})
	assert.ErrorContains(t, err, "kafka")
}

func TestJetStreamBus(t *testing.T) {
	url := os.Getenv("NATS_URL")
	if url == "" {
		t.Skip("NATS_URL не задан")
	}
	bus, err := NewJetStreamBus(url, "WORLD_TEST", time.Minute)
	require.NoError(t, err)
	defer bus.Close()

	c := &collector{}
	sub, err := bus.Subscribe(context.Background(), Filter{Types: []string{"place_block"}}, c.handle)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	require.NoError(t, bus.Publish(context.Background(), NewEnvelope("w", "place_block", []byte{1}, nil)))
	require.Eventually(t, func() bool { return len(c.types()) == 1 }, 5*time.Second, 20*time.Millisecond)
}
