package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/clontarfparadise/proshop-backend/internal/apperr"
	"github.com/clontarfparadise/proshop-backend/internal/models"
	"github.com/clontarfparadise/proshop-backend/pkg/bcrypt"
	"github.com/clontarfparadise/proshop-backend/pkg/email"
	"github.com/clontarfparadise/proshop-backend/pkg/jwt"
	"github.com/clontarfparadise/proshop-backend/pkg/utils"
)

type AdminVoucherStore interface {
	GetAll() ([]models.VoucherPurchase, error)
	GetByID(id string) (*models.VoucherPurchase, error)
	UpdateStatus(id string, status models.VoucherStatus) error
	Delete(id string) error
}

type UploadSigner interface {
	SignUploadParams(params map[string]string) (string, error)
}

// VoucherArchive is the read/purge side of the voucher document archive:
// resolve a public URL for re-download, and remove the stored copy when the
// order is deleted. Optional, may be nil.
type VoucherArchive interface {
	Delete(key string) error
	PublicURL(key string) string
}

// AdminService backs the pro-shop back office: session login, the voucher
// ledger, and small operational tools (test email, upload signing).
type AdminService struct {
	vouchers      AdminVoucherStore
	dispatcher    EmailDispatcher
	signer        UploadSigner
	archive       VoucherArchive
	validator     *utils.Validator
	password      string
	sessionSecret string
	logger        *zap.Logger
}

func NewAdminService(
	vouchers AdminVoucherStore,
	dispatcher EmailDispatcher,
	signer UploadSigner,
	archive VoucherArchive,
	validator *utils.Validator,
	password, sessionSecret string,
	logger *zap.Logger,
) *AdminService {
	return &AdminService{
		vouchers:      vouchers,
		dispatcher:    dispatcher,
		signer:        signer,
		archive:       archive,
		validator:     validator,
		password:      password,
		sessionSecret: sessionSecret,
		logger:        logger,
	}
}

// Login checks the shared admin password and mints a session token. The
// configured password may be a bcrypt hash or, for local setups, plaintext.
func (s *AdminService) Login(req models.AdminLoginRequest) (string, error) {
	if err := s.validator.Struct(req); err != nil {
		return "", apperr.InvalidErr(err.Error())
	}
	if s.password == "" {
		return "", apperr.InternalErr("admin password is not configured", nil)
	}

	if bcrypt.IsHash(s.password) {
		if err := bcrypt.ComparePassword(s.password, req.Password); err != nil {
			return "", apperr.UnauthorizedErr("invalid password")
		}
	} else if subtle.ConstantTimeCompare([]byte(s.password), []byte(req.Password)) != 1 {
		return "", apperr.UnauthorizedErr("invalid password")
	}

	token, err := jwt.GenerateAdminToken(s.sessionSecret)
	if err != nil {
		return "", apperr.InternalErr("failed to issue session token", err)
	}

	s.logger.Info("admin session opened")
	return token, nil
}

func (s *AdminService) ListVoucherPurchases() ([]models.VoucherPurchase, error) {
	purchases, err := s.vouchers.GetAll()
	if err != nil {
		return nil, apperr.InternalErr("failed to list voucher purchases", err)
	}
	return purchases, nil
}

func (s *AdminService) UpdateVoucherStatus(id string, req models.UpdateVoucherStatusRequest) (*models.VoucherPurchase, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperr.InvalidErr(err.Error())
	}

	status := models.VoucherStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	switch status {
	case models.VoucherStatusPending, models.VoucherStatusPaid, models.VoucherStatusFailed:
	default:
		return nil, apperr.InvalidErr("status must be one of PENDING, PAID, FAILED")
	}

	if err := s.vouchers.UpdateStatus(id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundErr("voucher purchase not found")
		}
		return nil, apperr.InternalErr("failed to update voucher status", err)
	}

	s.logger.Info("voucher status overridden",
		zap.String("purchase_id", id),
		zap.String("status", string(status)))

	purchase, err := s.vouchers.GetByID(id)
	if err != nil {
		return nil, apperr.InternalErr("failed to load voucher purchase", err)
	}
	return purchase, nil
}

// VoucherDocumentURL resolves the re-download address of an archived
// voucher PDF. Only fulfilled orders have one.
func (s *AdminService) VoucherDocumentURL(id string) (string, error) {
	purchase, err := s.vouchers.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperr.NotFoundErr("voucher purchase not found")
		}
		return "", apperr.InternalErr("failed to load voucher purchase", err)
	}
	if s.archive == nil || purchase.EmailedAt == nil {
		return "", apperr.NotFoundErr("voucher document not archived")
	}
	return s.archive.PublicURL(VoucherDocumentKey(purchase.ID)), nil
}

func (s *AdminService) DeleteVoucherPurchase(id string) error {
	if _, err := s.vouchers.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFoundErr("voucher purchase not found")
		}
		return apperr.InternalErr("failed to load voucher purchase", err)
	}
	if err := s.vouchers.Delete(id); err != nil {
		return apperr.InternalErr("failed to delete voucher purchase", err)
	}
	if s.archive != nil {
		if err := s.archive.Delete(VoucherDocumentKey(id)); err != nil {
			s.logger.Warn("failed to purge archived voucher document",
				zap.String("purchase_id", id),
				zap.Error(err))
		}
	}
	s.logger.Info("voucher purchase deleted", zap.String("purchase_id", id))
	return nil
}

func (s *AdminService) SendTestEmail(ctx context.Context, req models.TestEmailRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return apperr.InvalidErr(err.Error())
	}

	msg := email.Message{
		To:      req.To,
		Subject: "Clontarf Paradise Golf test email",
		HTML:    "<p>This is a test email from the pro shop backend. Delivery is working.</p>",
	}
	if err := s.dispatcher.Send(ctx, msg); err != nil {
		return apperr.DispatchErr("failed to send test email", err)
	}
	return nil
}

func (s *AdminService) SignUpload(req models.SignImageRequest) (*models.SignImageResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperr.InvalidErr(err.Error())
	}
	if len(req.ParamsToSign) == 0 {
		return nil, apperr.InvalidErr("params_to_sign must not be empty")
	}

	signature, err := s.signer.SignUploadParams(req.ParamsToSign)
	if err != nil {
		return nil, apperr.InternalErr("failed to sign upload parameters", err)
	}
	return &models.SignImageResponse{Signature: signature}, nil
}
