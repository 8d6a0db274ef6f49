package handler

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/supplier"
	"github.com/fekuna/omnipos-inventory-service/internal/supplier/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/transport"
	"google.golang.org/grpc"
)

const ServiceName = "omnipos.inventory.v1.SupplierService"

type AddSupplierRequest struct {
	ID           int64  `json:"id,omitempty"`
	Name         string `json:"name"`
	ContactEmail string `json:"contact_email"`
	Phone        string `json:"phone"`
}

type GetSupplierRequest struct {
	ID int64 `json:"id"`
}

type ListSuppliersRequest struct{}

type DeleteSupplierRequest struct {
	ID int64 `json:"id"`
}

type SupplierResponse struct {
	Supplier *model.Supplier `json:"supplier"`
	Message  string          `json:"message,omitempty"`
}

type ListSuppliersResponse struct {
	Suppliers []model.Supplier `json:"suppliers"`
}

type DeleteSupplierResponse struct {
	Message string `json:"message"`
}

type SupplierHandler struct {
	uc     supplier.UseCase
	logger logger.ZapLogger
}

func NewSupplierHandler(uc supplier.UseCase, log logger.ZapLogger) *SupplierHandler {
	return &SupplierHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *SupplierHandler) Register(s *grpc.Server) {
	s.RegisterService(transport.Service(ServiceName,
		transport.Method(ServiceName, "AddSupplier", h.AddSupplier),
		transport.Method(ServiceName, "GetSupplier", h.GetSupplier),
		transport.Method(ServiceName, "ListSuppliers", h.ListSuppliers),
		transport.Method(ServiceName, "DeleteSupplier", h.DeleteSupplier),
	), h)
}

func (h *SupplierHandler) AddSupplier(ctx context.Context, req *AddSupplierRequest) (*SupplierResponse, error) {
	s, err := h.uc.AddSupplier(ctx, &dto.AddSupplierInput{
		ID:           req.ID,
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
		Phone:        req.Phone,
	})
	if err != nil {
		return nil, apperror.ToGRPC(err)
	}
	return &SupplierResponse{Supplier: s, Message: "New supplier added successfully"}, nil
}

func (h *SupplierHandler) GetSupplier(ctx context.Context, req *GetSupplierRequest) (*SupplierResponse, error) {
	s, err := h.uc.GetSupplier(ctx, req.ID)
	if err != nil {
		return nil, apperror.ToGRPC(err)
	}
	return &SupplierResponse{Supplier: s}, nil
}

func (h *SupplierHandler) ListSuppliers(ctx context.Context, _ *ListSuppliersRequest) (*ListSuppliersResponse, error) {
	suppliers, err := h.uc.ListSuppliers(ctx)
	if err != nil {
		return nil, apperror.ToGRPC(err)
	}
	return &ListSuppliersResponse{Suppliers: suppliers}, nil
}

func (h *SupplierHandler) DeleteSupplier(ctx context.Context, req *DeleteSupplierRequest) (*DeleteSupplierResponse, error) {
	if err := h.uc.DeleteSupplier(ctx, req.ID); err != nil {
		return nil, apperror.ToGRPC(err)
	}
	return &DeleteSupplierResponse{Message: "Supplier deleted successfully"}, nil
}
