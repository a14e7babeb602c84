package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clontarfparadise/proshop-backend/internal/models"
)

// VoucherPurchaseRepository persists voucher orders. The lifecycle fields
// are only ever touched through conditional writes (set-if-null,
// transition-if-pending); under concurrent callers the database decides one
// winner and everyone else's write is a no-op.
type VoucherPurchaseRepository struct {
	db *gorm.DB
}

func NewVoucherPurchaseRepository(db *gorm.DB) *VoucherPurchaseRepository {
	return &VoucherPurchaseRepository{
		db: db,
	}
}

func (r *VoucherPurchaseRepository) Create(purchase *models.VoucherPurchase) error {
	if purchase.ID == "" {
		purchase.ID = uuid.NewString()
	}
	if purchase.Status == "" {
		purchase.Status = models.VoucherStatusPending
	}
	return r.db.Create(purchase).Error
}

func (r *VoucherPurchaseRepository) GetByID(id string) (*models.VoucherPurchase, error) {
	var purchase models.VoucherPurchase
	err := r.db.First(&purchase, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *VoucherPurchaseRepository) FindByCheckoutID(checkoutID string) (*models.VoucherPurchase, error) {
	var purchase models.VoucherPurchase
	err := r.db.Where("payment_checkout_id = ?", checkoutID).First(&purchase).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *VoucherPurchaseRepository) GetAll() ([]models.VoucherPurchase, error) {
	var purchases []models.VoucherPurchase
	err := r.db.Order("created_at DESC").Find(&purchases).Error
	return purchases, err
}

// ReservePaymentReference sets the reference only when none is recorded yet.
// A racing caller that lost simply no-ops; the unique index keeps a rival
// reference from ever landing on another row.
func (r *VoucherPurchaseRepository) ReservePaymentReference(id, reference string) error {
	return r.db.Model(&models.VoucherPurchase{}).
		Where("id = ? AND payment_reference IS NULL", id).
		Update("payment_reference", reference).Error
}

// SetCheckoutID persists the gateway checkout id once; later writes with a
// different id lose to the first and are dropped.
func (r *VoucherPurchaseRepository) SetCheckoutID(id, checkoutID string) error {
	return r.db.Model(&models.VoucherPurchase{}).
		Where("id = ? AND payment_checkout_id IS NULL", id).
		Update("payment_checkout_id", checkoutID).Error
}

// MarkPaid performs the PENDING -> PAID transition. It reports whether this
// caller won the transition; exactly one concurrent confirm does.
func (r *VoucherPurchaseRepository) MarkPaid(id string, paidAt time.Time) (bool, error) {
	result := r.db.Model(&models.VoucherPurchase{}).
		Where("id = ? AND status = ?", id, models.VoucherStatusPending).
		Updates(map[string]interface{}{
			"status":  models.VoucherStatusPaid,
			"paid_at": paidAt,
		})
	return result.RowsAffected > 0, result.Error
}

// SetEmailedAt records fulfillment completion. Set once, never overwritten.
func (r *VoucherPurchaseRepository) SetEmailedAt(id string, emailedAt time.Time) error {
	return r.db.Model(&models.VoucherPurchase{}).
		Where("id = ? AND emailed_at IS NULL", id).
		Update("emailed_at", emailedAt).Error
}

// UpdateStatus is the manual admin override; the lifecycle itself never
// calls it.
func (r *VoucherPurchaseRepository) UpdateStatus(id string, status models.VoucherStatus) error {
	result := r.db.Model(&models.VoucherPurchase{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *VoucherPurchaseRepository) Delete(id string) error {
	result := r.db.Delete(&models.VoucherPurchase{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
