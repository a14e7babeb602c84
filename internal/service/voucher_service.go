package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/clontarfparadise/proshop-backend/internal/apperr"
	"github.com/clontarfparadise/proshop-backend/internal/models"
	"github.com/clontarfparadise/proshop-backend/pkg/email"
	"github.com/clontarfparadise/proshop-backend/pkg/payment"
	"github.com/clontarfparadise/proshop-backend/pkg/utils"
	"github.com/clontarfparadise/proshop-backend/pkg/voucher"
)

// Collaborators are injected as interfaces so tests can substitute fakes.

type VoucherPurchaseStore interface {
	Create(purchase *models.VoucherPurchase) error
	GetByID(id string) (*models.VoucherPurchase, error)
	FindByCheckoutID(checkoutID string) (*models.VoucherPurchase, error)
	ReservePaymentReference(id, reference string) error
	SetCheckoutID(id, checkoutID string) error
	MarkPaid(id string, paidAt time.Time) (bool, error)
	SetEmailedAt(id string, emailedAt time.Time) error
}

type CheckoutGateway interface {
	CreateCheckout(ctx context.Context, params payment.CheckoutParams) (*payment.Checkout, error)
	GetCheckout(ctx context.Context, checkoutID string) (*payment.Checkout, error)
	FindCheckoutByReference(ctx context.Context, reference string) (*payment.Checkout, error)
}

type EmailDispatcher interface {
	Send(ctx context.Context, msg email.Message) error
}

type VoucherRenderer interface {
	Render(purchase *models.VoucherPurchase) ([]byte, error)
}

// ArchiveStore keeps a copy of rendered vouchers; optional, may be nil.
type ArchiveStore interface {
	Upload(key string, reader io.Reader) error
}

type VoucherService struct {
	store      VoucherPurchaseStore
	gateway    CheckoutGateway
	dispatcher EmailDispatcher
	renderer   VoucherRenderer
	archive    ArchiveStore
	validator  *utils.Validator
	appURL     string
	logger     *zap.Logger
}

func NewVoucherService(
	store VoucherPurchaseStore,
	gateway CheckoutGateway,
	dispatcher EmailDispatcher,
	renderer VoucherRenderer,
	archive ArchiveStore,
	validator *utils.Validator,
	appURL string,
	logger *zap.Logger,
) *VoucherService {
	return &VoucherService{
		store:      store,
		gateway:    gateway,
		dispatcher: dispatcher,
		renderer:   renderer,
		archive:    archive,
		validator:  validator,
		appURL:     appURL,
		logger:     logger,
	}
}

// CreatePurchase records a new voucher order in PENDING state.
func (s *VoucherService) CreatePurchase(req models.CreateVoucherPurchaseRequest) (*models.VoucherPurchase, error) {
	req.BuyerName = strings.TrimSpace(req.BuyerName)
	req.BuyerEmail = strings.TrimSpace(req.BuyerEmail)
	req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	req.RecipientName = trimPtr(req.RecipientName)
	req.RecipientEmail = trimPtr(req.RecipientEmail)

	// round before validating so a sub-cent amount cannot pass gt=0 and
	// then persist as zero
	req.Amount = roundAmount(req.Amount)

	if err := s.validator.Struct(req); err != nil {
		return nil, apperr.InvalidErr(err.Error())
	}
	if req.Currency == "" {
		req.Currency = "EUR"
	}

	purchase := &models.VoucherPurchase{
		Amount:         req.Amount,
		Currency:       req.Currency,
		BuyerName:      req.BuyerName,
		BuyerEmail:     req.BuyerEmail,
		RecipientName:  req.RecipientName,
		RecipientEmail: req.RecipientEmail,
		Message:        req.Message,
		Status:         models.VoucherStatusPending,
	}
	if err := s.store.Create(purchase); err != nil {
		return nil, apperr.InternalErr("failed to create voucher purchase", err)
	}

	s.logger.Info("voucher purchase created",
		zap.String("purchase_id", purchase.ID),
		zap.Float64("amount", purchase.Amount))
	return purchase, nil
}

func (s *VoucherService) GetPurchase(id string) (*models.VoucherPurchase, error) {
	purchase, err := s.store.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundErr("voucher purchase not found")
		}
		return nil, apperr.InternalErr("failed to load voucher purchase", err)
	}
	return purchase, nil
}

// StartCheckout opens (or recovers) the gateway checkout for a purchase.
// Safe to call repeatedly and concurrently for the same purchase: all
// callers converge on the single persisted checkout id.
func (s *VoucherService) StartCheckout(ctx context.Context, purchaseID string) (*models.StartCheckoutResponse, error) {
	purchase, err := s.GetPurchase(purchaseID)
	if err != nil {
		return nil, err
	}

	// already has a checkout: no new gateway call
	if purchase.PaymentCheckoutID != nil {
		return &models.StartCheckoutResponse{CheckoutID: *purchase.PaymentCheckoutID}, nil
	}

	reference := paymentReference(purchase.ID)
	if err := s.store.ReservePaymentReference(purchase.ID, reference); err != nil {
		return nil, apperr.InternalErr("failed to reserve payment reference", err)
	}

	checkout, err := s.gateway.CreateCheckout(ctx, payment.CheckoutParams{
		Reference:   reference,
		Amount:      purchase.Amount,
		Currency:    purchase.Currency,
		Description: "Gift voucher " + voucher.Code(purchase.ID),
		ReturnURL:   s.appURL + "/vouchers?paid=1",
	})
	if errors.Is(err, payment.ErrDuplicateReference) {
		checkout, err = s.recoverCheckout(ctx, purchase.ID, reference)
		if err != nil {
			return nil, err
		}
		if checkout == nil {
			// a racing caller already persisted the id
			current, gerr := s.GetPurchase(purchase.ID)
			if gerr != nil {
				return nil, gerr
			}
			return &models.StartCheckoutResponse{CheckoutID: *current.PaymentCheckoutID}, nil
		}
	} else if err != nil {
		return nil, apperr.GatewayErr("payment provider is unavailable", err)
	}

	if err := s.store.SetCheckoutID(purchase.ID, checkout.ID); err != nil {
		return nil, apperr.InternalErr("failed to persist checkout id", err)
	}

	// read back the winner: a concurrent caller may have persisted first
	current, err := s.GetPurchase(purchase.ID)
	if err != nil {
		return nil, err
	}
	if current.PaymentCheckoutID == nil {
		return nil, apperr.InternalErr("checkout id missing after persist", nil)
	}

	resp := &models.StartCheckoutResponse{CheckoutID: *current.PaymentCheckoutID}
	if checkout.ID == *current.PaymentCheckoutID {
		resp.HostedURL = checkout.HostedURL
	}
	return resp, nil
}

// recoverCheckout handles a duplicate-reference rejection. Returns the
// gateway-side checkout, or nil when the local record already carries one.
func (s *VoucherService) recoverCheckout(ctx context.Context, purchaseID, reference string) (*payment.Checkout, error) {
	current, err := s.GetPurchase(purchaseID)
	if err != nil {
		return nil, err
	}
	if current.PaymentCheckoutID != nil {
		return nil, nil
	}

	checkout, err := s.gateway.FindCheckoutByReference(ctx, reference)
	if err != nil {
		return nil, apperr.GatewayErr("failed to recover existing checkout", err)
	}
	return checkout, nil
}

// GetCheckoutStatus passes the raw gateway view through, for client polling.
func (s *VoucherService) GetCheckoutStatus(ctx context.Context, checkoutID string) (*payment.Checkout, error) {
	checkout, err := s.gateway.GetCheckout(ctx, checkoutID)
	if errors.Is(err, payment.ErrCheckoutNotFound) {
		return nil, apperr.NotFoundErr("checkout not found")
	}
	if err != nil {
		return nil, apperr.GatewayErr("payment provider is unavailable", err)
	}
	return checkout, nil
}

// ConfirmPayment settles a checkout: verifies payment with the gateway,
// transitions the purchase to PAID and runs fulfillment exactly once per
// settled record. Polling an already settled record is a cheap no-op.
func (s *VoucherService) ConfirmPayment(ctx context.Context, checkoutID string) (*models.ConfirmPaymentResponse, error) {
	purchase, err := s.store.FindByCheckoutID(checkoutID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundErr("voucher purchase not found for checkout")
		}
		return nil, apperr.InternalErr("failed to load voucher purchase", err)
	}

	if purchase.Status == models.VoucherStatusPaid && purchase.PaidAt != nil {
		// settled; retry fulfillment only if a previous attempt failed
		if purchase.EmailedAt == nil {
			if err := s.fulfill(ctx, purchase); err != nil {
				return nil, err
			}
		}
		return &models.ConfirmPaymentResponse{Status: models.VoucherStatusPaid}, nil
	}

	checkout, err := s.gateway.GetCheckout(ctx, checkoutID)
	if errors.Is(err, payment.ErrCheckoutNotFound) {
		return nil, apperr.NotFoundErr("checkout not found")
	}
	if err != nil {
		return nil, apperr.GatewayErr("payment provider is unavailable", err)
	}

	if !payment.IsPaidStatus(checkout.Status) {
		return &models.ConfirmPaymentResponse{Status: purchase.Status}, nil
	}

	claimed, err := s.store.MarkPaid(purchase.ID, time.Now().UTC())
	if err != nil {
		return nil, apperr.InternalErr("failed to mark purchase paid", err)
	}
	if !claimed {
		// a concurrent confirm won the transition and owns fulfillment
		return &models.ConfirmPaymentResponse{Status: models.VoucherStatusPaid}, nil
	}

	s.logger.Info("voucher purchase paid",
		zap.String("purchase_id", purchase.ID),
		zap.String("checkout_id", checkoutID))

	if err := s.fulfill(ctx, purchase); err != nil {
		// payment stays PAID; emailed_at is unset so a later confirm retries
		return nil, err
	}
	return &models.ConfirmPaymentResponse{Status: models.VoucherStatusPaid}, nil
}

// fulfill renders the voucher once and emails it to every distinct
// recipient, then records completion. emailed_at is only written after all
// dispatches succeeded; a failure leaves it unset so the whole batch can be
// retried (at-least-once).
func (s *VoucherService) fulfill(ctx context.Context, purchase *models.VoucherPurchase) error {
	code := voucher.Code(purchase.ID)
	recipients := fulfillmentRecipients(purchase)

	document, err := s.renderer.Render(purchase)
	if err != nil {
		return apperr.InternalErr("failed to render voucher document", err)
	}
	attachment := &email.Attachment{
		Filename: "voucher-" + code + ".pdf",
		Content:  document,
	}

	for _, rcpt := range recipients {
		html, err := email.RenderVoucherEmail(rcpt.name, purchase.Amount, purchase.Currency, code)
		if err != nil {
			return apperr.InternalErr("failed to render voucher email", err)
		}
		msg := email.Message{
			To:         rcpt.address,
			Subject:    "Your Clontarf Paradise Golf gift voucher " + code,
			HTML:       html,
			Attachment: attachment,
		}
		if err := s.dispatcher.Send(ctx, msg); err != nil {
			return apperr.DispatchErr("failed to send voucher email to "+email.Mask(rcpt.address), err)
		}
	}

	if hasDistinctRecipient(purchase) {
		html, err := email.RenderBuyerConfirmationEmail(
			purchase.BuyerName,
			purchase.Amount,
			purchase.Currency,
			recipientDisplayName(purchase),
			*purchase.RecipientEmail,
		)
		if err != nil {
			return apperr.InternalErr("failed to render confirmation email", err)
		}
		msg := email.Message{
			To:      purchase.BuyerEmail,
			Subject: "Your gift voucher is on its way",
			HTML:    html,
		}
		if err := s.dispatcher.Send(ctx, msg); err != nil {
			return apperr.DispatchErr("failed to send buyer confirmation to "+email.Mask(purchase.BuyerEmail), err)
		}
	}

	if err := s.store.SetEmailedAt(purchase.ID, time.Now().UTC()); err != nil {
		return apperr.InternalErr("failed to record fulfillment", err)
	}

	s.logger.Info("voucher fulfilled",
		zap.String("purchase_id", purchase.ID),
		zap.String("code", code),
		zap.Int("recipients", len(recipients)))

	if s.archive != nil {
		key := VoucherDocumentKey(purchase.ID)
		if err := s.archive.Upload(key, bytes.NewReader(document)); err != nil {
			s.logger.Warn("failed to archive voucher document",
				zap.String("purchase_id", purchase.ID),
				zap.Error(err))
		}
	}
	return nil
}

type recipient struct {
	name    string
	address string
}

// fulfillmentRecipients returns who receives the voucher email: the buyer
// plus the gift recipient, deduplicated case/whitespace-insensitively while
// keeping the address as the client entered it.
func fulfillmentRecipients(purchase *models.VoucherPurchase) []recipient {
	recipients := []recipient{{name: purchase.BuyerName, address: purchase.BuyerEmail}}
	seen := map[string]struct{}{normalizeAddress(purchase.BuyerEmail): {}}

	if purchase.RecipientEmail != nil && strings.TrimSpace(*purchase.RecipientEmail) != "" {
		key := normalizeAddress(*purchase.RecipientEmail)
		if _, dup := seen[key]; !dup {
			seen[key] = struct{}{}
			recipients = append(recipients, recipient{
				name:    recipientDisplayName(purchase),
				address: *purchase.RecipientEmail,
			})
		}
	}
	return recipients
}

// hasDistinctRecipient reports whether the voucher goes to someone other
// than the buyer, which is what triggers the buyer confirmation email.
func hasDistinctRecipient(purchase *models.VoucherPurchase) bool {
	if purchase.RecipientEmail == nil || strings.TrimSpace(*purchase.RecipientEmail) == "" {
		return false
	}
	return normalizeAddress(*purchase.RecipientEmail) != normalizeAddress(purchase.BuyerEmail)
}

func recipientDisplayName(purchase *models.VoucherPurchase) string {
	if purchase.RecipientName != nil && strings.TrimSpace(*purchase.RecipientName) != "" {
		return *purchase.RecipientName
	}
	return "there"
}

func normalizeAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

func paymentReference(purchaseID string) string {
	return "voucher_" + purchaseID
}

// VoucherDocumentKey is the archive object key for a purchase's rendered
// voucher PDF; fulfillment writes it and the admin surface reads and purges
// under the same key.
func VoucherDocumentKey(purchaseID string) string {
	return "vouchers/" + voucher.Code(purchaseID) + ".pdf"
}

func roundAmount(amount float64) float64 {
	return math.Round(amount*100) / 100
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
