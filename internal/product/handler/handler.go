package handler

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	"github.com/fekuna/omnipos-inventory-service/internal/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/product"
	"github.com/fekuna/omnipos-inventory-service/internal/product/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/transport"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

const ServiceName = "omnipos.inventory.v1.ProductService"

type AddProductRequest struct {
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	Location    string          `json:"location"`
}

type SaveProductRequest struct {
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
}

type GetProductRequest struct {
	SKU string `json:"sku"`
}

type ListProductsRequest struct{}

type DeleteProductRequest struct {
	ID int64 `json:"id"`
}

type ProductResponse struct {
	Product *model.Product       `json:"product"`
	Stock   *model.InventoryItem `json:"stock,omitempty"`
	Message string               `json:"message,omitempty"`
}

type ListProductsResponse struct {
	Products []model.Product `json:"products"`
}

type DeleteProductResponse struct {
	Message string `json:"message"`
}

type ProductHandler struct {
	uc     product.UseCase
	ledger inventory.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, ledger inventory.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		ledger: ledger,
		logger: log,
	}
}

func (h *ProductHandler) Register(s *grpc.Server) {
	s.RegisterService(transport.Service(ServiceName,
		transport.Method(ServiceName, "AddProduct", h.AddProduct),
		transport.Method(ServiceName, "SaveProduct", h.SaveProduct),
		transport.Method(ServiceName, "GetProduct", h.GetProduct),
		transport.Method(ServiceName, "ListProducts", h.ListProducts),
		transport.Method(ServiceName, "DeleteProduct", h.DeleteProduct),
	), h)
}

func (h *ProductHandler) AddProduct(ctx context.Context, req *AddProductRequest) (*ProductResponse, error) {
	input := &dto.AddProductInput{
		SaveProductInput: dto.SaveProductInput{
			Name:        req.Name,
			SKU:         req.SKU,
			Category:    req.Category,
			Price:       req.Price,
			Description: req.Description,
		},
		Quantity: req.Quantity,
		Location: req.Location,
	}

	p, err := h.uc.AddProduct(ctx, input)
	if err != nil {
		return nil, apperror.ToGRPC(err)
	}
	return &ProductResponse{Product: p, Stock: h.stock(ctx, p.ID), Message: "New product added successfully"}, nil
}

func (h *ProductHandler) SaveProduct(ctx context.Context, req *SaveProductRequest) (*ProductResponse, error) {
	p, err := h.uc.SaveProduct(ctx, &dto.SaveProductInput{
		Name:        req.Name,
		SKU:         req.SKU,
		Category:    req.Category,
		Price:       req.Price,
		Description: req.Description,
	})
	if err != nil {
		return nil, apperror.ToGRPC(err)
	}
	return &ProductResponse{Product: p, Message: "Product saved successfully"}, nil
}

func (h *ProductHandler) GetProduct(ctx context.Context, req *GetProductRequest) (*ProductResponse, error) {
	p, err := h.uc.GetProduct(ctx, req.SKU)
	if err != nil {
		return nil, apperror.ToGRPC(err)
	}
	return &ProductResponse{Product: p, Stock: h.stock(ctx, p.ID)}, nil
}

func (h *ProductHandler) ListProducts(ctx context.Context, _ *ListProductsRequest) (*ListProductsResponse, error) {
	products, err := h.uc.ListProducts(ctx)
	if err != nil {
		return nil, apperror.ToGRPC(err)
	}
	return &ListProductsResponse{Products: products}, nil
}

func (h *ProductHandler) DeleteProduct(ctx context.Context, req *DeleteProductRequest) (*DeleteProductResponse, error) {
	if err := h.uc.DeleteProduct(ctx, req.ID); err != nil {
		return nil, apperror.ToGRPC(err)
	}
	return &DeleteProductResponse{Message: "Product deleted successfully"}, nil
}

// stock is best effort; the product response is still useful without it.
func (h *ProductHandler) stock(ctx context.Context, productID int64) *model.InventoryItem {
	item, err := h.ledger.GetByProduct(ctx, productID)
	if err != nil {
		h.logger.Warn("failed to load stock for product", zap.Int64("product_id", productID), zap.Error(err))
		return nil
	}
	return item
}
