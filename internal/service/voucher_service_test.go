package service_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/clontarfparadise/proshop-backend/internal/apperr"
	"github.com/clontarfparadise/proshop-backend/internal/models"
	"github.com/clontarfparadise/proshop-backend/internal/service"
	"github.com/clontarfparadise/proshop-backend/pkg/payment"
	"github.com/clontarfparadise/proshop-backend/pkg/utils"
	"github.com/clontarfparadise/proshop-backend/pkg/voucher"
)

var _ = Describe("VoucherService", func() {
	var (
		voucherService *service.VoucherService
		store          *mockVoucherStore
		gateway        *mockGateway
		dispatcher     *mockDispatcher
		renderer       *mockRenderer
		archive        *mockArchive
		ctx            context.Context
	)

	BeforeEach(func() {
		store = newMockVoucherStore()
		gateway = newMockGateway()
		dispatcher = &mockDispatcher{}
		renderer = &mockRenderer{}
		archive = newMockArchive()
		ctx = context.Background()

		voucherService = service.NewVoucherService(
			store,
			gateway,
			dispatcher,
			renderer,
			archive,
			utils.NewValidator(),
			"https://clontarfparadisegolf.ie",
			zap.NewNop(),
		)
	})

	strPtr := func(s string) *string { return &s }

	createPurchase := func(req models.CreateVoucherPurchaseRequest) *models.VoucherPurchase {
		purchase, err := voucherService.CreatePurchase(req)
		Expect(err).ToNot(HaveOccurred())
		return purchase
	}

	startCheckout := func(purchaseID string) string {
		resp, err := voucherService.StartCheckout(ctx, purchaseID)
		Expect(err).ToNot(HaveOccurred())
		return resp.CheckoutID
	}

	Describe("CreatePurchase", func() {
		It("creates a pending purchase with a generated id", func() {
			purchase := createPurchase(models.CreateVoucherPurchaseRequest{
				Amount:     50,
				BuyerName:  "Aoife Byrne",
				BuyerEmail: "aoife@example.com",
			})

			Expect(purchase.ID).ToNot(BeEmpty())
			Expect(purchase.Status).To(Equal(models.VoucherStatusPending))
			Expect(purchase.Currency).To(Equal("EUR"))
			Expect(purchase.PaidAt).To(BeNil())
			Expect(purchase.EmailedAt).To(BeNil())
		})

		It("rounds the amount to cents", func() {
			purchase := createPurchase(models.CreateVoucherPurchaseRequest{
				Amount:     49.999,
				BuyerName:  "Aoife Byrne",
				BuyerEmail: "aoife@example.com",
			})

			Expect(purchase.Amount).To(Equal(50.0))
		})

		It("rejects an amount that rounds down to zero", func() {
			_, err := voucherService.CreatePurchase(models.CreateVoucherPurchaseRequest{
				Amount:     0.004,
				BuyerName:  "Aoife Byrne",
				BuyerEmail: "aoife@example.com",
			})

			Expect(err).To(HaveOccurred())
			Expect(apperr.HTTPStatus(err)).To(Equal(400))
		})

		It("rejects a non-positive amount", func() {
			_, err := voucherService.CreatePurchase(models.CreateVoucherPurchaseRequest{
				Amount:     0,
				BuyerName:  "Aoife Byrne",
				BuyerEmail: "aoife@example.com",
			})

			Expect(err).To(HaveOccurred())
			Expect(apperr.HTTPStatus(err)).To(Equal(400))
		})

		It("rejects a blank buyer name", func() {
			_, err := voucherService.CreatePurchase(models.CreateVoucherPurchaseRequest{
				Amount:     50,
				BuyerName:  "   ",
				BuyerEmail: "aoife@example.com",
			})

			Expect(err).To(HaveOccurred())
			Expect(apperr.HTTPStatus(err)).To(Equal(400))
		})

		It("rejects a malformed buyer email", func() {
			_, err := voucherService.CreatePurchase(models.CreateVoucherPurchaseRequest{
				Amount:     50,
				BuyerName:  "Aoife Byrne",
				BuyerEmail: "not-an-email",
			})

			Expect(err).To(HaveOccurred())
			Expect(apperr.HTTPStatus(err)).To(Equal(400))
		})
	})

	Describe("StartCheckout", func() {
		var purchase *models.VoucherPurchase

		BeforeEach(func() {
			purchase = createPurchase(models.CreateVoucherPurchaseRequest{
				Amount:     75,
				BuyerName:  "Aoife Byrne",
				BuyerEmail: "aoife@example.com",
			})
		})

		It("opens a gateway checkout keyed by the purchase id", func() {
			resp, err := voucherService.StartCheckout(ctx, purchase.ID)

			Expect(err).ToNot(HaveOccurred())
			Expect(resp.CheckoutID).ToNot(BeEmpty())
			Expect(resp.HostedURL).ToNot(BeEmpty())
			Expect(gateway.lastReference).To(Equal("voucher_" + purchase.ID))

			stored, err := store.GetByID(purchase.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(stored.PaymentCheckoutID).ToNot(BeNil())
			Expect(*stored.PaymentCheckoutID).To(Equal(resp.CheckoutID))
		})

		It("returns the existing checkout without a second gateway call", func() {
			first := startCheckout(purchase.ID)
			second := startCheckout(purchase.ID)

			Expect(second).To(Equal(first))
			Expect(gateway.createCalls).To(Equal(1))
		})

		It("recovers the checkout when the gateway rejects the reference as duplicate", func() {
			gateway.createError = payment.ErrDuplicateReference
			gateway.foundByRef = &payment.Checkout{
				ID:     "chk_recovered",
				Status: "PENDING",
			}

			resp, err := voucherService.StartCheckout(ctx, purchase.ID)

			Expect(err).ToNot(HaveOccurred())
			Expect(resp.CheckoutID).To(Equal("chk_recovered"))

			stored, err := store.GetByID(purchase.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(*stored.PaymentCheckoutID).To(Equal("chk_recovered"))
		})

		It("fails for an unknown purchase", func() {
			_, err := voucherService.StartCheckout(ctx, "nope")

			Expect(err).To(HaveOccurred())
			Expect(apperr.HTTPStatus(err)).To(Equal(404))
		})

		It("surfaces a gateway outage", func() {
			gateway.createError = errors.New("connection refused")

			_, err := voucherService.StartCheckout(ctx, purchase.ID)

			Expect(err).To(HaveOccurred())
			Expect(apperr.HTTPStatus(err)).To(Equal(502))
		})
	})

	Describe("ConfirmPayment", func() {
		var (
			purchase   *models.VoucherPurchase
			checkoutID string
		)

		newPurchaseWithCheckout := func(req models.CreateVoucherPurchaseRequest) {
			purchase = createPurchase(req)
			checkoutID = startCheckout(purchase.ID)
		}

		BeforeEach(func() {
			newPurchaseWithCheckout(models.CreateVoucherPurchaseRequest{
				Amount:     100,
				BuyerName:  "Aoife Byrne",
				BuyerEmail: "aoife@example.com",
			})
		})

		Context("when the gateway has not settled the checkout", func() {
			It("leaves the purchase pending and sends nothing", func() {
				gateway.status = "PENDING"

				resp, err := voucherService.ConfirmPayment(ctx, checkoutID)

				Expect(err).ToNot(HaveOccurred())
				Expect(resp.Status).To(Equal(models.VoucherStatusPending))
				Expect(dispatcher.sent).To(BeEmpty())

				stored, _ := store.GetByID(purchase.ID)
				Expect(stored.Status).To(Equal(models.VoucherStatusPending))
				Expect(stored.PaidAt).To(BeNil())
			})
		})

		Context("when the gateway reports the checkout paid", func() {
			BeforeEach(func() {
				gateway.status = "PAID"
			})

			It("marks the purchase paid and fulfills it", func() {
				resp, err := voucherService.ConfirmPayment(ctx, checkoutID)

				Expect(err).ToNot(HaveOccurred())
				Expect(resp.Status).To(Equal(models.VoucherStatusPaid))

				stored, _ := store.GetByID(purchase.ID)
				Expect(stored.Status).To(Equal(models.VoucherStatusPaid))
				Expect(stored.PaidAt).ToNot(BeNil())
				Expect(stored.EmailedAt).ToNot(BeNil())

				Expect(dispatcher.sent).To(HaveLen(1))
				Expect(dispatcher.sent[0].To).To(Equal("aoife@example.com"))
				Expect(dispatcher.sent[0].Attachment).ToNot(BeNil())
				Expect(dispatcher.sent[0].Attachment.Filename).To(
					Equal("voucher-" + voucher.Code(purchase.ID) + ".pdf"))
			})

			It("accepts the SUCCESSFUL gateway spelling", func() {
				gateway.status = "successful"

				resp, err := voucherService.ConfirmPayment(ctx, checkoutID)

				Expect(err).ToNot(HaveOccurred())
				Expect(resp.Status).To(Equal(models.VoucherStatusPaid))
			})

			It("does not fulfill twice on repeated confirms", func() {
				_, err := voucherService.ConfirmPayment(ctx, checkoutID)
				Expect(err).ToNot(HaveOccurred())

				_, err = voucherService.ConfirmPayment(ctx, checkoutID)
				Expect(err).ToNot(HaveOccurred())

				Expect(dispatcher.sent).To(HaveLen(1))
				Expect(renderer.renderCalls).To(Equal(1))
			})

			It("archives the rendered voucher", func() {
				_, err := voucherService.ConfirmPayment(ctx, checkoutID)

				Expect(err).ToNot(HaveOccurred())
				key := "vouchers/" + voucher.Code(purchase.ID) + ".pdf"
				Expect(archive.uploads).To(HaveKey(key))
			})

			It("still fulfills when archiving fails", func() {
				archive.uploadError = errors.New("bucket gone")

				_, err := voucherService.ConfirmPayment(ctx, checkoutID)

				Expect(err).ToNot(HaveOccurred())
				stored, _ := store.GetByID(purchase.ID)
				Expect(stored.EmailedAt).ToNot(BeNil())
				Expect(dispatcher.sent).To(HaveLen(1))
			})
		})

		Context("with a distinct gift recipient", func() {
			BeforeEach(func() {
				newPurchaseWithCheckout(models.CreateVoucherPurchaseRequest{
					Amount:         100,
					BuyerName:      "Aoife Byrne",
					BuyerEmail:     "aoife@example.com",
					RecipientName:  strPtr("Brian Byrne"),
					RecipientEmail: strPtr("brian@example.com"),
				})
				gateway.status = "PAID"
			})

			It("sends the voucher to both and a confirmation to the buyer", func() {
				_, err := voucherService.ConfirmPayment(ctx, checkoutID)

				Expect(err).ToNot(HaveOccurred())
				Expect(dispatcher.sent).To(HaveLen(3))

				var voucherRecipients []string
				var confirmations []string
				for _, msg := range dispatcher.sent {
					if msg.Attachment != nil {
						voucherRecipients = append(voucherRecipients, msg.To)
					} else {
						confirmations = append(confirmations, msg.To)
					}
				}
				Expect(voucherRecipients).To(ConsistOf("aoife@example.com", "brian@example.com"))
				Expect(confirmations).To(ConsistOf("aoife@example.com"))
			})

			It("masks the recipient address in the buyer confirmation", func() {
				_, err := voucherService.ConfirmPayment(ctx, checkoutID)
				Expect(err).ToNot(HaveOccurred())

				var confirmation string
				for _, msg := range dispatcher.sent {
					if msg.Attachment == nil {
						confirmation = msg.HTML
					}
				}
				Expect(confirmation).To(ContainSubstring("br***@example.com"))
				Expect(confirmation).ToNot(ContainSubstring("brian@example.com"))
			})
		})

		Context("when the recipient is the buyer under a different spelling", func() {
			BeforeEach(func() {
				newPurchaseWithCheckout(models.CreateVoucherPurchaseRequest{
					Amount:         60,
					BuyerName:      "Aoife Byrne",
					BuyerEmail:     "aoife@example.com",
					RecipientName:  strPtr("Aoife"),
					RecipientEmail: strPtr("  AOIFE@example.com "),
				})
				gateway.status = "PAID"
			})

			It("sends a single voucher email and no confirmation", func() {
				_, err := voucherService.ConfirmPayment(ctx, checkoutID)

				Expect(err).ToNot(HaveOccurred())
				Expect(dispatcher.sent).To(HaveLen(1))
				Expect(dispatcher.sent[0].To).To(Equal("aoife@example.com"))
				Expect(dispatcher.sent[0].Attachment).ToNot(BeNil())
			})
		})

		Context("when a concurrent confirm already claimed the transition", func() {
			It("does not dispatch anything", func() {
				gateway.status = "PAID"
				// simulate the race: another confirm flipped the status after
				// this one loaded the record
				stored := store.purchases[purchase.ID]
				stored.Status = models.VoucherStatusPaid

				resp, err := voucherService.ConfirmPayment(ctx, checkoutID)

				Expect(err).ToNot(HaveOccurred())
				Expect(resp.Status).To(Equal(models.VoucherStatusPaid))
				Expect(dispatcher.sent).To(BeEmpty())
				Expect(renderer.renderCalls).To(BeZero())
			})
		})

		Context("when email dispatch fails", func() {
			BeforeEach(func() {
				gateway.status = "PAID"
				dispatcher.failUntil = 1
			})

			It("keeps the purchase paid but unfulfilled", func() {
				_, err := voucherService.ConfirmPayment(ctx, checkoutID)

				Expect(err).To(HaveOccurred())
				Expect(apperr.HTTPStatus(err)).To(Equal(502))

				stored, _ := store.GetByID(purchase.ID)
				Expect(stored.Status).To(Equal(models.VoucherStatusPaid))
				Expect(stored.EmailedAt).To(BeNil())
			})

			It("retries fulfillment on the next confirm", func() {
				_, err := voucherService.ConfirmPayment(ctx, checkoutID)
				Expect(err).To(HaveOccurred())

				_, err = voucherService.ConfirmPayment(ctx, checkoutID)
				Expect(err).ToNot(HaveOccurred())

				stored, _ := store.GetByID(purchase.ID)
				Expect(stored.EmailedAt).ToNot(BeNil())
				Expect(dispatcher.sent).To(HaveLen(1))
			})
		})

		It("fails for a checkout no purchase knows about", func() {
			_, err := voucherService.ConfirmPayment(ctx, "chk_unknown")

			Expect(err).To(HaveOccurred())
			Expect(apperr.HTTPStatus(err)).To(Equal(404))
		})
	})

	Describe("GetCheckoutStatus", func() {
		It("passes the gateway view through", func() {
			gateway.status = "PAID"

			checkout, err := voucherService.GetCheckoutStatus(ctx, "chk_1")

			Expect(err).ToNot(HaveOccurred())
			Expect(checkout.Status).To(Equal("PAID"))
		})

		It("maps an unknown checkout to not found", func() {
			gateway.getError = payment.ErrCheckoutNotFound

			_, err := voucherService.GetCheckoutStatus(ctx, "chk_1")

			Expect(err).To(HaveOccurred())
			Expect(apperr.HTTPStatus(err)).To(Equal(404))
		})
	})
})
