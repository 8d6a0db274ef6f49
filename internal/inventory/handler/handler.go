package handler

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/report"
	"github.com/fekuna/omnipos-inventory-service/internal/transport"
	"google.golang.org/grpc"
)

const ServiceName = "omnipos.inventory.v1.InventoryService"

type UpdateStockRequest struct {
	SKU            string `json:"sku"`
	QuantityChange int    `json:"quantity_change"`
}

type ListInventoryRequest struct{}

type ListMovementsRequest struct {
	SKU   string `json:"sku,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

type GenerateReportRequest struct{}

type StockResponse struct {
	Item    *model.InventoryItem `json:"item"`
	Message string               `json:"message,omitempty"`
}

type ListInventoryResponse struct {
	Items []model.InventoryItem `json:"items"`
}

type ListMovementsResponse struct {
	Movements []model.StockMovement `json:"movements"`
}

type ReportResponse struct {
	FileName string `json:"file_name"`
	Content  string `json:"content"`
	Message  string `json:"message,omitempty"`
}

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *InventoryHandler) Register(s *grpc.Server) {
	s.RegisterService(transport.Service(ServiceName,
		transport.Method(ServiceName, "UpdateStock", h.UpdateStock),
		transport.Method(ServiceName, "ListInventory", h.ListInventory),
		transport.Method(ServiceName, "ListMovements", h.ListMovements),
		transport.Method(ServiceName, "GenerateReport", h.GenerateReport),
	), h)
}

func (h *InventoryHandler) UpdateStock(ctx context.Context, req *UpdateStockRequest) (*StockResponse, error) {
	item, err := h.uc.UpdateStock(ctx, req.SKU, req.QuantityChange)
	if err != nil {
		return nil, apperror.ToGRPC(err)
	}
	return &StockResponse{Item: item, Message: "Stock updated successfully"}, nil
}

func (h *InventoryHandler) ListInventory(ctx context.Context, _ *ListInventoryRequest) (*ListInventoryResponse, error) {
	items, err := h.uc.ListItems(ctx)
	if err != nil {
		return nil, apperror.ToGRPC(err)
	}
	return &ListInventoryResponse{Items: items}, nil
}

func (h *InventoryHandler) ListMovements(ctx context.Context, req *ListMovementsRequest) (*ListMovementsResponse, error) {
	movements, err := h.uc.ListMovements(ctx, &dto.MovementFilters{SKU: req.SKU, Limit: req.Limit})
	if err != nil {
		return nil, apperror.ToGRPC(err)
	}
	return &ListMovementsResponse{Movements: movements}, nil
}

func (h *InventoryHandler) GenerateReport(ctx context.Context, _ *GenerateReportRequest) (*ReportResponse, error) {
	content, err := h.uc.GenerateReport(ctx)
	if err != nil {
		return nil, apperror.ToGRPC(err)
	}
	return &ReportResponse{FileName: report.FileName, Content: content, Message: "Inventory report generated"}, nil
}
