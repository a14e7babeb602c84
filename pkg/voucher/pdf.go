package voucher

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/clontarfparadise/proshop-backend/internal/models"
)

const (
	pageW = 210.0
	pageH = 297.0
)

// Renderer builds the printable A4 gift voucher for a purchase.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Render(p *models.VoucherPurchase) ([]byte, error) {
	return BuildPDF(p)
}

// BuildPDF renders the voucher document. Output is deterministic for an
// unchanged record: the issued date and the PDF creation date both come from
// the record, never from the clock.
func BuildPDF(p *models.VoucherPurchase) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(p.CreatedAt.UTC())
	pdf.SetModificationDate(p.CreatedAt.UTC())
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// background with a subtle diagonal texture
	pdf.SetFillColor(0, 0, 0)
	pdf.Rect(0, 0, pageW, pageH, "F")
	pdf.SetDrawColor(28, 28, 30)
	pdf.SetLineWidth(0.15)
	for x := -pageH; x < pageW+pageH; x += 12 {
		pdf.Line(x, 0, x+pageH, pageH)
	}

	// outer border
	pdf.SetDrawColor(63, 63, 70)
	pdf.SetLineWidth(0.6)
	pdf.RoundedRect(6, 6, pageW-12, pageH-12, 6, "1234", "D")

	// header
	pdf.SetFillColor(27, 74, 44)
	pdf.RoundedRect(10, 10, pageW-20, 48, 6, "1234", "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 28)
	centeredText(pdf, tr("Clontarf Paradise Golf"), 32)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(235, 235, 235)
	centeredText(pdf, tr("Gift vouchers for lessons, equipment & pro shop gear"), 44)

	// amount card
	const (
		cardX = 28.0
		cardY = 78.0
		cardW = 154.0
		cardH = 62.0
	)
	pdf.SetFillColor(0, 0, 0)
	pdf.RoundedRect(cardX+2, cardY+2, cardW, cardH, 10, "1234", "F")
	pdf.SetFillColor(24, 24, 27)
	pdf.RoundedRect(cardX, cardY, cardW, cardH, 10, "1234", "F")
	pdf.SetDrawColor(63, 63, 70)
	pdf.SetLineWidth(0.4)
	pdf.RoundedRect(cardX, cardY, cardW, cardH, 10, "1234", "D")

	pdf.SetFillColor(39, 39, 42)
	pdf.RoundedRect(cardX+10, cardY+10, 48, 10, 5, "1234", "F")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(161, 161, 170)
	pdf.SetXY(cardX+10, cardY+12)
	pdf.CellFormat(48, 6, "GIFT VOUCHER", "", 0, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 44)
	pdf.SetTextColor(27, 74, 44)
	centeredText(pdf, tr(FormatAmount(p.Amount, p.Currency)), cardY+44)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(228, 228, 231)
	centeredText(pdf, tr("Present this voucher at checkout"), cardY+56)

	// details
	yPos := 160.0
	issued := p.CreatedAt.Format("02 Jan 2006")
	issuedLine := "Issued: " + issued
	if from := strings.TrimSpace(p.BuyerName); from != "" {
		issuedLine = fmt.Sprintf("Issued: %s  %s  From: %s", issued, "•", from)
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(113, 113, 122)
	pdf.Text(cardX, yPos-12, tr(issuedLine))

	if p.RecipientName != nil && strings.TrimSpace(*p.RecipientName) != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(161, 161, 170)
		pdf.Text(cardX, yPos, "TO")
		pdf.SetFont("Helvetica", "B", 16)
		pdf.SetTextColor(255, 255, 255)
		pdf.Text(cardX, yPos+9, tr(*p.RecipientName))
		yPos += 26
	}

	if p.Message != nil && strings.TrimSpace(*p.Message) != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(161, 161, 170)
		pdf.Text(cardX, yPos, "MESSAGE")

		pdf.SetFillColor(39, 39, 42)
		pdf.RoundedRect(cardX, yPos+6, cardW, 38, 7, "1234", "F")
		pdf.SetDrawColor(63, 63, 70)
		pdf.SetLineWidth(0.3)
		pdf.RoundedRect(cardX, yPos+6, cardW, 38, 7, "1234", "D")

		pdf.SetFont("Helvetica", "", 11)
		pdf.SetTextColor(228, 228, 231)
		lines := pdf.SplitText(tr(*p.Message), cardW-18)
		const maxLines = 4
		if len(lines) > maxLines {
			lines = lines[:maxLines]
			lines[maxLines-1] += tr("…")
		}
		for i, line := range lines {
			pdf.Text(cardX+9, yPos+20+float64(i)*6, line)
		}
	}

	// valid-for card
	const validY = 222.0
	pdf.SetFillColor(0, 0, 0)
	pdf.RoundedRect(cardX+2, validY+2, cardW, 34, 8, "1234", "F")
	pdf.SetFillColor(24, 24, 27)
	pdf.RoundedRect(cardX, validY, cardW, 34, 8, "1234", "F")
	pdf.SetDrawColor(63, 63, 70)
	pdf.SetLineWidth(0.3)
	pdf.RoundedRect(cardX, validY, cardW, 34, 8, "1234", "D")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(161, 161, 170)
	centeredText(pdf, "VALID FOR", validY+13)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(255, 255, 255)
	centeredText(pdf, tr("Lessons • Equipment • Pro Shop"), validY+25)

	// footer: code plus a QR of the same code for redemption at the till
	pdf.SetDrawColor(39, 39, 42)
	pdf.SetLineWidth(0.4)
	pdf.Line(18, 260, pageW-18, 260)

	code := Code(p.ID)
	png, err := qrcode.Encode(code, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate voucher QR code: %w", err)
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("voucher-qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("voucher-qr", 18, 263, 20, 20, false, opts, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(161, 161, 170)
	centeredText(pdf, "VOUCHER CODE", 275)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(255, 255, 255)
	centeredText(pdf, code, 282)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render voucher PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func centeredText(pdf *gofpdf.Fpdf, text string, y float64) {
	pdf.SetXY(0, y-4)
	pdf.CellFormat(pageW, 8, text, "", 0, "C", false, 0, "")
}
