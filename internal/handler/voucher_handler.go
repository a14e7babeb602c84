package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clontarfparadise/proshop-backend/internal/apperr"
	"github.com/clontarfparadise/proshop-backend/internal/models"
	"github.com/clontarfparadise/proshop-backend/internal/service"
)

type VoucherHandler struct {
	voucherService *service.VoucherService
}

func NewVoucherHandler(voucherService *service.VoucherService) *VoucherHandler {
	return &VoucherHandler{
		voucherService: voucherService,
	}
}

func (h *VoucherHandler) CreatePurchase(c *fiber.Ctx) error {
	var req models.CreateVoucherPurchaseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	purchase, err := h.voucherService.CreatePurchase(req)
	if err != nil {
		return c.Status(apperr.HTTPStatus(err)).JSON(models.ErrorResponse(apperr.Message(err)))
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(purchase, "Voucher purchase created"))
}

func (h *VoucherHandler) GetPurchase(c *fiber.Ctx) error {
	purchase, err := h.voucherService.GetPurchase(c.Params("id"))
	if err != nil {
		return c.Status(apperr.HTTPStatus(err)).JSON(models.ErrorResponse(apperr.Message(err)))
	}

	return c.JSON(models.SuccessResponse(purchase, ""))
}

func (h *VoucherHandler) StartCheckout(c *fiber.Ctx) error {
	var req models.StartCheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if req.VoucherPurchaseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("voucher_purchase_id is required"))
	}

	resp, err := h.voucherService.StartCheckout(c.Context(), req.VoucherPurchaseID)
	if err != nil {
		return c.Status(apperr.HTTPStatus(err)).JSON(models.ErrorResponse(apperr.Message(err)))
	}

	return c.JSON(models.SuccessResponse(resp, ""))
}

func (h *VoucherHandler) GetCheckoutStatus(c *fiber.Ctx) error {
	checkout, err := h.voucherService.GetCheckoutStatus(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(apperr.HTTPStatus(err)).JSON(models.ErrorResponse(apperr.Message(err)))
	}

	return c.JSON(models.SuccessResponse(checkout, ""))
}

func (h *VoucherHandler) ConfirmPayment(c *fiber.Ctx) error {
	var req models.ConfirmPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if req.CheckoutID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("checkout_id is required"))
	}

	resp, err := h.voucherService.ConfirmPayment(c.Context(), req.CheckoutID)
	if err != nil {
		return c.Status(apperr.HTTPStatus(err)).JSON(models.ErrorResponse(apperr.Message(err)))
	}

	return c.JSON(models.SuccessResponse(resp, ""))
}
