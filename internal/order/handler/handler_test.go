package handler

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"
	"time"

	invUC "github.com/fekuna/omnipos-inventory-service/internal/inventory/usecase"
	"github.com/fekuna/omnipos-inventory-service/internal/lock"
	"github.com/fekuna/omnipos-inventory-service/internal/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/memstore"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	orderUC "github.com/fekuna/omnipos-inventory-service/internal/order/usecase"
	"github.com/fekuna/omnipos-inventory-service/internal/transport"
	"github.com/fekuna/omnipos-inventory-service/internal/transport/grpctest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func setup(t *testing.T) (*memstore.Store, *grpc.ClientConn, *model.Supplier) {
	t.Helper()
	ctx := context.Background()
	store := memstore.New()
	locker := lock.NewLocalLocker(time.Second)
	log := logger.NewNop()

	ledger := invUC.NewInventoryUseCase(store.Inventory(), store.Products(), store, locker, log)
	uc := orderUC.NewOrderUseCase(store.Orders(), store.Suppliers(), store.Products(), ledger, store, locker, log)
	conn := grpctest.Dial(t, NewOrderHandler(uc, log).Register)

	acme := &model.Supplier{Name: "Acme"}
	require.NoError(t, store.Suppliers().Save(ctx, acme))
	require.NoError(t, store.Products().Save(ctx, &model.Product{Name: "Mouse", SKU: "SKU1", Price: decimal.RequireFromString("2.50")}))
	return store, conn, acme
}

func invoke(conn *grpc.ClientConn, method string, req, resp interface{}) error {
	return conn.Invoke(context.Background(), transport.FullMethod(ServiceName, method), req, resp)
}

func TestOrderService_PlaceAndComplete(t *testing.T) {
	store, conn, acme := setup(t)

	var placed OrderResponse
	require.NoError(t, invoke(conn, "PlaceOrder", &PlaceOrderRequest{SupplierID: acme.ID, ProductSKU: "SKU1", Quantity: 4}, &placed))
	assert.Equal(t, model.OrderStatusPending, placed.Order.Status)
	assert.True(t, placed.Total.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "New order placed successfully", placed.Message)

	var completed CompleteOrderResponse
	require.NoError(t, invoke(conn, "CompleteOrder", &OrderIDRequest{ID: placed.Order.ID}, &completed))
	assert.True(t, completed.Changed)
	assert.Equal(t, model.OrderStatusCompleted, completed.Order.Status)
	assert.NotEmpty(t, completed.Message)

	var again CompleteOrderResponse
	require.NoError(t, invoke(conn, "CompleteOrder", &OrderIDRequest{ID: placed.Order.ID}, &again))
	assert.False(t, again.Changed)
	assert.Empty(t, again.Message)

	items, err := store.Inventory().FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Quantity)

	var list ListOrdersResponse
	require.NoError(t, invoke(conn, "ListOrders", &ListOrdersRequest{}, &list))
	assert.Len(t, list.Orders, 1)
}

func TestOrderService_ErrorCodes(t *testing.T) {
	_, conn, acme := setup(t)

	var placed OrderResponse
	require.NoError(t, invoke(conn, "PlaceOrder", &PlaceOrderRequest{SupplierID: acme.ID, ProductSKU: "SKU1", Quantity: 1}, &placed))
	var completed CompleteOrderResponse
	require.NoError(t, invoke(conn, "CompleteOrder", &OrderIDRequest{ID: placed.Order.ID}, &completed))

	tests := []struct {
		name   string
		method string
		req    interface{}
		want   codes.Code
	}{
		{"missing product", "PlaceOrder", &PlaceOrderRequest{SupplierID: acme.ID, ProductSKU: "NOPE", Quantity: 1}, codes.NotFound},
		{"zero quantity", "PlaceOrder", &PlaceOrderRequest{SupplierID: acme.ID, ProductSKU: "SKU1"}, codes.InvalidArgument},
		{"unknown order", "GetOrder", &OrderIDRequest{ID: 404}, codes.NotFound},
		{"cancel completed", "CancelOrder", &OrderIDRequest{ID: placed.Order.ID}, codes.FailedPrecondition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp OrderResponse
			err := invoke(conn, tt.method, tt.req, &resp)
			assert.Equal(t, tt.want, status.Code(err))
		})
	}
}

func TestOrderService_MalformedQuantityIsInvalidArgument(t *testing.T) {
	store, conn, acme := setup(t)

	raw := json.RawMessage(`{"supplier_id":` + strconv.FormatInt(acme.ID, 10) + `,"product_sku":"SKU1","quantity":"five"}`)
	var resp OrderResponse
	err := invoke(conn, "PlaceOrder", raw, &resp)

	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.InvalidArgument, st.Code())
	assert.Equal(t, "malformed request", st.Message())

	orders, err := store.Orders().FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
}
