package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/clontarfparadise/proshop-backend/pkg/voucher"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

type voucherEmailData struct {
	Name   string
	Amount string
	Code   string
	Year   int
}

type buyerConfirmationData struct {
	BuyerName            string
	Amount               string
	RecipientName        string
	MaskedRecipientEmail string
	Year                 int
}

// RenderVoucherEmail builds the recipient-facing voucher announcement.
// User-supplied strings go through html/template and are escaped.
func RenderVoucherEmail(name string, amount float64, currency, code string) (string, error) {
	return render("voucher.html", voucherEmailData{
		Name:   name,
		Amount: voucher.FormatAmount(amount, currency),
		Code:   code,
		Year:   time.Now().Year(),
	})
}

// RenderBuyerConfirmationEmail builds the receipt sent to the buyer when the
// voucher went to someone else. The recipient address is masked so the
// confirmation doesn't leak it in full.
func RenderBuyerConfirmationEmail(buyerName string, amount float64, currency, recipientName, recipientEmail string) (string, error) {
	return render("buyer-confirmation.html", buyerConfirmationData{
		BuyerName:            buyerName,
		Amount:               voucher.FormatAmount(amount, currency),
		RecipientName:        recipientName,
		MaskedRecipientEmail: Mask(recipientEmail),
		Year:                 time.Now().Year(),
	})
}

func render(name string, data interface{}) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, name, data); err != nil {
		return "", fmt.Errorf("email: failed to render template %s: %w", name, err)
	}
	return body.String(), nil
}
