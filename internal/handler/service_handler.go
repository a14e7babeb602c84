package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clontarfparadise/proshop-backend/internal/apperr"
	"github.com/clontarfparadise/proshop-backend/internal/models"
	"github.com/clontarfparadise/proshop-backend/internal/service"
)

type ServiceHandler struct {
	catalogService *service.CatalogService
}

func NewServiceHandler(catalogService *service.CatalogService) *ServiceHandler {
	return &ServiceHandler{
		catalogService: catalogService,
	}
}

func (h *ServiceHandler) ListServices(c *fiber.Ctx) error {
	services, err := h.catalogService.ListServices()
	if err != nil {
		return c.Status(apperr.HTTPStatus(err)).JSON(models.ErrorResponse(apperr.Message(err)))
	}

	return c.JSON(models.SuccessResponse(services, ""))
}

func (h *ServiceHandler) GetService(c *fiber.Ctx) error {
	svc, err := h.catalogService.GetService(c.Params("id"))
	if err != nil {
		return c.Status(apperr.HTTPStatus(err)).JSON(models.ErrorResponse(apperr.Message(err)))
	}

	return c.JSON(models.SuccessResponse(svc, ""))
}

func (h *ServiceHandler) CreateService(c *fiber.Ctx) error {
	var req models.CreateServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	svc, err := h.catalogService.CreateService(req)
	if err != nil {
		return c.Status(apperr.HTTPStatus(err)).JSON(models.ErrorResponse(apperr.Message(err)))
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(svc, "Service created"))
}

func (h *ServiceHandler) UpdateService(c *fiber.Ctx) error {
	var req models.UpdateServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	svc, err := h.catalogService.UpdateService(c.Params("id"), req)
	if err != nil {
		return c.Status(apperr.HTTPStatus(err)).JSON(models.ErrorResponse(apperr.Message(err)))
	}

	return c.JSON(models.SuccessResponse(svc, "Service updated"))
}

func (h *ServiceHandler) DeleteService(c *fiber.Ctx) error {
	if err := h.catalogService.DeleteService(c.Params("id")); err != nil {
		return c.Status(apperr.HTTPStatus(err)).JSON(models.ErrorResponse(apperr.Message(err)))
	}

	return c.JSON(models.SuccessResponse(nil, "Service deleted"))
}
