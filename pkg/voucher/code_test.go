package voucher_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/clontarfparadise/proshop-backend/pkg/voucher"
)

var _ = Describe("Code", func() {
	It("takes the first 8 alphanumerics of a UUID, uppercased and grouped", func() {
		Expect(voucher.Code("bd1c66f0-39dc-4308-a195-2aa205eb3c62")).To(Equal("BD1C-66F0"))
	})

	It("skips hyphens that fall inside the first 8 characters", func() {
		Expect(voucher.Code("ab-cd-ef-12-34")).To(Equal("ABCD-EF12"))
	})

	It("keeps short inputs ungrouped until they pass 4 characters", func() {
		Expect(voucher.Code("abc")).To(Equal("ABC"))
		Expect(voucher.Code("abcde")).To(Equal("ABCD-E"))
	})

	It("returns empty for an empty id", func() {
		Expect(voucher.Code("")).To(Equal(""))
	})

	It("is stable for the same id", func() {
		id := "bd1c66f0-39dc-4308-a195-2aa205eb3c62"
		Expect(voucher.Code(id)).To(Equal(voucher.Code(id)))
	})
})

var _ = Describe("FormatAmount", func() {
	It("renders euro amounts with the euro sign", func() {
		Expect(voucher.FormatAmount(50, "EUR")).To(Equal("€50.00"))
		Expect(voucher.FormatAmount(49.5, "")).To(Equal("€49.50"))
	})

	It("renders sterling and dollar amounts", func() {
		Expect(voucher.FormatAmount(25, "GBP")).To(Equal("£25.00"))
		Expect(voucher.FormatAmount(25, "usd")).To(Equal("$25.00"))
	})

	It("prefixes unknown currencies with their code", func() {
		Expect(voucher.FormatAmount(100, "CHF")).To(Equal("CHF 100.00"))
	})
})
