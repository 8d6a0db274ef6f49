package handler

import (
	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	"github.com/fekuna/omnipos-inventory-service/internal/report"
	"github.com/gofiber/fiber/v2"
)

// ReportHTTPHandler serves the inventory report as a text file download.
type ReportHTTPHandler struct {
	uc inventory.UseCase
}

func NewReportHTTPHandler(uc inventory.UseCase) *ReportHTTPHandler {
	return &ReportHTTPHandler{uc: uc}
}

func (h *ReportHTTPHandler) Register(r fiber.Router) {
	r.Get("/reports/inventory", h.Download)
}

func (h *ReportHTTPHandler) Download(c *fiber.Ctx) error {
	content, err := h.uc.GenerateReport(c.UserContext())
	if err != nil {
		return err
	}
	c.Attachment(report.FileName)
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(content)
}
