package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clontarfparadise/proshop-backend/internal/apperr"
	"github.com/clontarfparadise/proshop-backend/internal/models"
	"github.com/clontarfparadise/proshop-backend/internal/service"
)

type ProductHandler struct {
	catalogService *service.CatalogService
}

func NewProductHandler(catalogService *service.CatalogService) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
	}
}

func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	products, err := h.catalogService.ListProducts()
	if err != nil {
		return c.Status(apperr.HTTPStatus(err)).JSON(models.ErrorResponse(apperr.Message(err)))
	}

	return c.JSON(models.SuccessResponse(products, ""))
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.catalogService.GetProduct(c.Params("id"))
	if err != nil {
		return c.Status(apperr.HTTPStatus(err)).JSON(models.ErrorResponse(apperr.Message(err)))
	}

	return c.JSON(models.SuccessResponse(product, ""))
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req models.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	product, err := h.catalogService.CreateProduct(req)
	if err != nil {
		return c.Status(apperr.HTTPStatus(err)).JSON(models.ErrorResponse(apperr.Message(err)))
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(product, "Product created"))
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	var req models.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	product, err := h.catalogService.UpdateProduct(c.Params("id"), req)
	if err != nil {
		return c.Status(apperr.HTTPStatus(err)).JSON(models.ErrorResponse(apperr.Message(err)))
	}

	return c.JSON(models.SuccessResponse(product, "Product updated"))
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	if err := h.catalogService.DeleteProduct(c.Params("id")); err != nil {
		return c.Status(apperr.HTTPStatus(err)).JSON(models.ErrorResponse(apperr.Message(err)))
	}

	return c.JSON(models.SuccessResponse(nil, "Product deleted"))
}
