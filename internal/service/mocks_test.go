package service_test

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clontarfparadise/proshop-backend/internal/models"
	"github.com/clontarfparadise/proshop-backend/pkg/email"
	"github.com/clontarfparadise/proshop-backend/pkg/payment"
)

// Mock voucher store mirroring the repository's conditional-write semantics.
type mockVoucherStore struct {
	purchases   map[string]*models.VoucherPurchase
	createError error
	markError   error
}

func newMockVoucherStore() *mockVoucherStore {
	return &mockVoucherStore{
		purchases: make(map[string]*models.VoucherPurchase),
	}
}

func (m *mockVoucherStore) Create(purchase *models.VoucherPurchase) error {
	if m.createError != nil {
		return m.createError
	}
	if purchase.ID == "" {
		purchase.ID = uuid.NewString()
	}
	if purchase.Status == "" {
		purchase.Status = models.VoucherStatusPending
	}
	purchase.CreatedAt = time.Now()
	purchase.UpdatedAt = time.Now()
	clone := *purchase
	m.purchases[purchase.ID] = &clone
	return nil
}

func (m *mockVoucherStore) GetByID(id string) (*models.VoucherPurchase, error) {
	purchase, ok := m.purchases[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *purchase
	return &clone, nil
}

func (m *mockVoucherStore) FindByCheckoutID(checkoutID string) (*models.VoucherPurchase, error) {
	for _, purchase := range m.purchases {
		if purchase.PaymentCheckoutID != nil && *purchase.PaymentCheckoutID == checkoutID {
			clone := *purchase
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockVoucherStore) ReservePaymentReference(id, reference string) error {
	purchase, ok := m.purchases[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if purchase.PaymentReference == nil {
		purchase.PaymentReference = &reference
	}
	return nil
}

func (m *mockVoucherStore) SetCheckoutID(id, checkoutID string) error {
	purchase, ok := m.purchases[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if purchase.PaymentCheckoutID == nil {
		purchase.PaymentCheckoutID = &checkoutID
	}
	return nil
}

func (m *mockVoucherStore) MarkPaid(id string, paidAt time.Time) (bool, error) {
	if m.markError != nil {
		return false, m.markError
	}
	purchase, ok := m.purchases[id]
	if !ok {
		return false, nil
	}
	if purchase.Status != models.VoucherStatusPending {
		return false, nil
	}
	purchase.Status = models.VoucherStatusPaid
	purchase.PaidAt = &paidAt
	return true, nil
}

func (m *mockVoucherStore) SetEmailedAt(id string, emailedAt time.Time) error {
	purchase, ok := m.purchases[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if purchase.EmailedAt == nil {
		purchase.EmailedAt = &emailedAt
	}
	return nil
}

func (m *mockVoucherStore) GetAll() ([]models.VoucherPurchase, error) {
	var purchases []models.VoucherPurchase
	for _, purchase := range m.purchases {
		purchases = append(purchases, *purchase)
	}
	return purchases, nil
}

func (m *mockVoucherStore) UpdateStatus(id string, status models.VoucherStatus) error {
	purchase, ok := m.purchases[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	purchase.Status = status
	return nil
}

func (m *mockVoucherStore) Delete(id string) error {
	if _, ok := m.purchases[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.purchases, id)
	return nil
}

// Mock payment gateway.
type mockGateway struct {
	createCalls   int
	createError   error
	checkoutSeq   int
	status        string
	getError      error
	foundByRef    *payment.Checkout
	findError     error
	lastReference string
}

func newMockGateway() *mockGateway {
	return &mockGateway{status: "PENDING"}
}

func (m *mockGateway) CreateCheckout(_ context.Context, params payment.CheckoutParams) (*payment.Checkout, error) {
	m.createCalls++
	m.lastReference = params.Reference
	if m.createError != nil {
		return nil, m.createError
	}
	m.checkoutSeq++
	return &payment.Checkout{
		ID:        "chk_" + uuid.NewString()[:8],
		Reference: params.Reference,
		Status:    "PENDING",
		Amount:    params.Amount,
		Currency:  params.Currency,
		HostedURL: "https://pay.example.com/" + params.Reference,
	}, nil
}

func (m *mockGateway) GetCheckout(_ context.Context, checkoutID string) (*payment.Checkout, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	return &payment.Checkout{ID: checkoutID, Status: m.status}, nil
}

func (m *mockGateway) FindCheckoutByReference(_ context.Context, reference string) (*payment.Checkout, error) {
	if m.findError != nil {
		return nil, m.findError
	}
	if m.foundByRef == nil {
		return nil, payment.ErrCheckoutNotFound
	}
	return m.foundByRef, nil
}

// Mock email dispatcher.
type mockDispatcher struct {
	sent      []email.Message
	failUntil int // fail the first N sends
	sendCalls int
}

func (m *mockDispatcher) Send(_ context.Context, msg email.Message) error {
	m.sendCalls++
	if m.sendCalls <= m.failUntil {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *mockDispatcher) recipients() []string {
	var addrs []string
	for _, msg := range m.sent {
		addrs = append(addrs, msg.To)
	}
	return addrs
}

// Mock voucher renderer.
type mockRenderer struct {
	renderCalls int
	renderError error
}

func (m *mockRenderer) Render(_ *models.VoucherPurchase) ([]byte, error) {
	m.renderCalls++
	if m.renderError != nil {
		return nil, m.renderError
	}
	return []byte("%PDF-1.4 fake voucher"), nil
}

// Mock archive store.
type mockArchive struct {
	uploads     map[string][]byte
	deleted     []string
	uploadError error
	deleteError error
}

func newMockArchive() *mockArchive {
	return &mockArchive{uploads: make(map[string][]byte)}
}

func (m *mockArchive) Upload(key string, reader io.Reader) error {
	if m.uploadError != nil {
		return m.uploadError
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.uploads[key] = data
	return nil
}

func (m *mockArchive) Delete(key string) error {
	if m.deleteError != nil {
		return m.deleteError
	}
	delete(m.uploads, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *mockArchive) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

// Mock upload signer.
type mockSigner struct {
	signature string
	signError error
}

func (m *mockSigner) SignUploadParams(_ map[string]string) (string, error) {
	if m.signError != nil {
		return "", m.signError
	}
	return m.signature, nil
}
