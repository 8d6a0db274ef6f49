package handler

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/order"
	"github.com/fekuna/omnipos-inventory-service/internal/order/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/transport"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
)

const ServiceName = "omnipos.inventory.v1.OrderService"

type PlaceOrderRequest struct {
	SupplierID int64  `json:"supplier_id"`
	ProductSKU string `json:"product_sku"`
	Quantity   int    `json:"quantity"`
}

type OrderIDRequest struct {
	ID int64 `json:"id"`
}

type ListOrdersRequest struct{}

type OrderResponse struct {
	Order   *model.Order    `json:"order"`
	Total   decimal.Decimal `json:"total"`
	Message string          `json:"message,omitempty"`
}

type CompleteOrderResponse struct {
	Order   *model.Order `json:"order,omitempty"`
	Changed bool         `json:"changed"`
	Message string       `json:"message,omitempty"`
}

type ListOrdersResponse struct {
	Orders []model.Order `json:"orders"`
}

type OrderHandler struct {
	uc     order.UseCase
	logger logger.ZapLogger
}

func NewOrderHandler(uc order.UseCase, log logger.ZapLogger) *OrderHandler {
	return &OrderHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *OrderHandler) Register(s *grpc.Server) {
	s.RegisterService(transport.Service(ServiceName,
		transport.Method(ServiceName, "PlaceOrder", h.PlaceOrder),
		transport.Method(ServiceName, "CompleteOrder", h.CompleteOrder),
		transport.Method(ServiceName, "CancelOrder", h.CancelOrder),
		transport.Method(ServiceName, "GetOrder", h.GetOrder),
		transport.Method(ServiceName, "ListOrders", h.ListOrders),
	), h)
}

func (h *OrderHandler) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*OrderResponse, error) {
	o, err := h.uc.PlaceOrder(ctx, &dto.PlaceOrderInput{
		SupplierID: req.SupplierID,
		ProductSKU: req.ProductSKU,
		Quantity:   req.Quantity,
	})
	if err != nil {
		return nil, apperror.ToGRPC(err)
	}
	return &OrderResponse{Order: o, Total: o.Total(), Message: "New order placed successfully"}, nil
}

func (h *OrderHandler) CompleteOrder(ctx context.Context, req *OrderIDRequest) (*CompleteOrderResponse, error) {
	o, changed, err := h.uc.CompleteOrder(ctx, req.ID)
	if err != nil {
		return nil, apperror.ToGRPC(err)
	}
	resp := &CompleteOrderResponse{Order: o, Changed: changed}
	if changed {
		resp.Message = fmt.Sprintf("Order #%d marked as completed", o.ID)
	}
	return resp, nil
}

func (h *OrderHandler) CancelOrder(ctx context.Context, req *OrderIDRequest) (*OrderResponse, error) {
	o, err := h.uc.CancelOrder(ctx, req.ID)
	if err != nil {
		return nil, apperror.ToGRPC(err)
	}
	return &OrderResponse{Order: o, Total: o.Total(), Message: fmt.Sprintf("Order #%d cancelled", o.ID)}, nil
}

func (h *OrderHandler) GetOrder(ctx context.Context, req *OrderIDRequest) (*OrderResponse, error) {
	o, err := h.uc.GetOrder(ctx, req.ID)
	if err != nil {
		return nil, apperror.ToGRPC(err)
	}
	return &OrderResponse{Order: o, Total: o.Total()}, nil
}

func (h *OrderHandler) ListOrders(ctx context.Context, _ *ListOrdersRequest) (*ListOrdersResponse, error) {
	orders, err := h.uc.ListOrders(ctx)
	if err != nil {
		return nil, apperror.ToGRPC(err)
	}
	return &ListOrdersResponse{Orders: orders}, nil
}
