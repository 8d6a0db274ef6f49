package listener

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	"github.com/fekuna/omnipos-inventory-service/internal/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/order"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	mu        sync.Mutex
	messages  []kafka.Message
	committed []int64
	done      chan struct{}
}

func newFakeReader(values ...[]byte) *fakeReader {
	r := &fakeReader{done: make(chan struct{})}
	for i, v := range values {
		r.messages = append(r.messages, kafka.Message{Offset: int64(i), Value: v})
	}
	return r
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.messages) > 0 {
		msg := r.messages[0]
		r.messages = r.messages[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	if len(r.messages) == 0 {
		select {
		case <-r.done:
		default:
			close(r.done)
		}
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

type fakeOrders struct {
	order.UseCase
	mu        sync.Mutex
	completed []int64
	failures  int
	failWith  error
	attempts  int
}

func (f *fakeOrders) CompleteOrder(_ context.Context, id int64) (*model.Order, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts++
	if f.failures > 0 {
		f.failures--
		if f.failWith != nil {
			return nil, false, f.failWith
		}
		return nil, false, apperror.Conflict("busy")
	}
	f.completed = append(f.completed, id)
	return &model.Order{ID: id, Status: model.OrderStatusCompleted}, true, nil
}

type fakeLedger struct {
	inventory.UseCase
	mu     sync.Mutex
	counts map[string]int
}

func (f *fakeLedger) UpdateStockFromCount(_ context.Context, sku string, delta int) (*model.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if sku == "MISSING" {
		return nil, apperror.NotFound("product not found")
	}
	f.counts[sku] += delta
	return &model.InventoryItem{Quantity: f.counts[sku]}, nil
}

func event(t *testing.T, eventType string, payload interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	b, err := json.Marshal(Event{EventID: "evt", EventType: eventType, Payload: raw, Timestamp: time.Now()})
	require.NoError(t, err)
	return b
}

func run(t *testing.T, reader *fakeReader, orders *fakeOrders, ledger *fakeLedger) {
	t.Helper()
	l := NewReceivingListener(reader, orders, ledger, logger.NewNop())
	l.retryDelay = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		l.Start(ctx)
		close(stopped)
	}()

	select {
	case <-reader.done:
	case <-time.After(5 * time.Second):
		t.Fatal("listener did not drain messages")
	}
	cancel()
	<-stopped
}

func TestReceivingListener_Dispatch(t *testing.T) {
	reader := newFakeReader(
		event(t, EventGoodsReceived, GoodsReceivedPayload{OrderID: 7}),
		event(t, EventStockCounted, StockCountedPayload{SKU: "SKU1", QuantityChange: -2}),
		[]byte("not json"),
		event(t, "PriceChanged", map[string]string{"sku": "SKU1"}),
		event(t, EventStockCounted, StockCountedPayload{SKU: "MISSING", QuantityChange: 1}),
	)
	orders := &fakeOrders{}
	ledger := &fakeLedger{counts: map[string]int{}}

	run(t, reader, orders, ledger)

	assert.Equal(t, []int64{7}, orders.completed)
	assert.Equal(t, -2, ledger.counts["SKU1"])
	assert.Equal(t, []int64{0, 1, 2, 3, 4}, reader.committed)
}

func TestReceivingListener_RetriesConflicts(t *testing.T) {
	reader := newFakeReader(event(t, EventGoodsReceived, GoodsReceivedPayload{OrderID: 3}))
	orders := &fakeOrders{failures: 2}

	run(t, reader, orders, &fakeLedger{counts: map[string]int{}})

	assert.Equal(t, []int64{3}, orders.completed)
}

func TestReceivingListener_GivesUpAfterMaxAttempts(t *testing.T) {
	reader := newFakeReader(event(t, EventGoodsReceived, GoodsReceivedPayload{OrderID: 3}))
	orders := &fakeOrders{failures: maxAttempts}

	run(t, reader, orders, &fakeLedger{counts: map[string]int{}})

	assert.Empty(t, orders.completed)
	assert.Equal(t, []int64{0}, reader.committed)
}

func TestReceivingListener_HoldsOffsetWhileStorageIsDown(t *testing.T) {
	reader := newFakeReader(event(t, EventGoodsReceived, GoodsReceivedPayload{OrderID: 3}))
	orders := &fakeOrders{failures: 2*maxAttempts + 1, failWith: apperror.Unavailable(errors.New("connection refused"))}

	run(t, reader, orders, &fakeLedger{counts: map[string]int{}})

	assert.Equal(t, []int64{3}, orders.completed)
	assert.Equal(t, 2*maxAttempts+2, orders.attempts)
	assert.Equal(t, []int64{0}, reader.committed)
}

func TestReceivingListener_OutageDoesNotCommitOnShutdown(t *testing.T) {
	reader := newFakeReader(event(t, EventGoodsReceived, GoodsReceivedPayload{OrderID: 3}))
	orders := &fakeOrders{failures: 1 << 30, failWith: apperror.Unavailable(errors.New("connection refused"))}

	l := NewReceivingListener(reader, orders, &fakeLedger{counts: map[string]int{}}, logger.NewNop())
	l.retryDelay = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		l.Start(ctx)
		close(stopped)
	}()

	require.Eventually(t, func() bool {
		orders.mu.Lock()
		defer orders.mu.Unlock()
		return orders.attempts > maxAttempts
	}, 5*time.Second, time.Millisecond)
	cancel()
	<-stopped

	reader.mu.Lock()
	defer reader.mu.Unlock()
	assert.Empty(t, reader.committed)
}
