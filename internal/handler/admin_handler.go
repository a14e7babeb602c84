package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clontarfparadise/proshop-backend/internal/apperr"
	"github.com/clontarfparadise/proshop-backend/internal/middleware"
	"github.com/clontarfparadise/proshop-backend/internal/models"
	"github.com/clontarfparadise/proshop-backend/internal/service"
	"github.com/clontarfparadise/proshop-backend/pkg/jwt"
)

type AdminHandler struct {
	adminService *service.AdminService
}

func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req models.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	token, err := h.adminService.Login(req)
	if err != nil {
		return c.Status(apperr.HTTPStatus(err)).JSON(models.ErrorResponse(apperr.Message(err)))
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		MaxAge:   int(jwt.SessionExpiry.Seconds()),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})

	return c.JSON(models.SuccessResponse(nil, "Logged in"))
}

func (h *AdminHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})

	return c.JSON(models.SuccessResponse(nil, "Logged out"))
}

// Me lets the admin UI probe whether its session cookie is still valid;
// the middleware has already rejected the request otherwise.
func (h *AdminHandler) Me(c *fiber.Ctx) error {
	return c.JSON(models.SuccessResponse(fiber.Map{"authenticated": true}, ""))
}

func (h *AdminHandler) ListVoucherPurchases(c *fiber.Ctx) error {
	purchases, err := h.adminService.ListVoucherPurchases()
	if err != nil {
		return c.Status(apperr.HTTPStatus(err)).JSON(models.ErrorResponse(apperr.Message(err)))
	}

	return c.JSON(models.SuccessResponse(purchases, ""))
}

func (h *AdminHandler) UpdateVoucherStatus(c *fiber.Ctx) error {
	var req models.UpdateVoucherStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	purchase, err := h.adminService.UpdateVoucherStatus(c.Params("id"), req)
	if err != nil {
		return c.Status(apperr.HTTPStatus(err)).JSON(models.ErrorResponse(apperr.Message(err)))
	}

	return c.JSON(models.SuccessResponse(purchase, "Voucher status updated"))
}

func (h *AdminHandler) GetVoucherDocument(c *fiber.Ctx) error {
	url, err := h.adminService.VoucherDocumentURL(c.Params("id"))
	if err != nil {
		return c.Status(apperr.HTTPStatus(err)).JSON(models.ErrorResponse(apperr.Message(err)))
	}

	return c.JSON(models.SuccessResponse(fiber.Map{"url": url}, ""))
}

func (h *AdminHandler) DeleteVoucherPurchase(c *fiber.Ctx) error {
	if err := h.adminService.DeleteVoucherPurchase(c.Params("id")); err != nil {
		return c.Status(apperr.HTTPStatus(err)).JSON(models.ErrorResponse(apperr.Message(err)))
	}

	return c.JSON(models.SuccessResponse(nil, "Voucher purchase deleted"))
}

func (h *AdminHandler) SendTestEmail(c *fiber.Ctx) error {
	var req models.TestEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	if err := h.adminService.SendTestEmail(c.Context(), req); err != nil {
		return c.Status(apperr.HTTPStatus(err)).JSON(models.ErrorResponse(apperr.Message(err)))
	}

	return c.JSON(models.SuccessResponse(nil, "Test email sent"))
}

func (h *AdminHandler) SignImageUpload(c *fiber.Ctx) error {
	var req models.SignImageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	resp, err := h.adminService.SignUpload(req)
	if err != nil {
		return c.Status(apperr.HTTPStatus(err)).JSON(models.ErrorResponse(apperr.Message(err)))
	}

	return c.JSON(models.SuccessResponse(resp, ""))
}
