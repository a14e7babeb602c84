package voucher

import (
	"fmt"
	"strings"
)

const codeLength = 8

// Code derives the human-facing voucher code from a purchase ID: the first
// 8 alphanumeric characters, uppercased and grouped in blocks of 4
// (e.g. "BD1C-66F0"). This is the one canonical form, used on the PDF and
// in every email.
func Code(id string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(id) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() == codeLength {
				break
			}
		}
	}
	return group(b.String())
}

func group(code string) string {
	if code == "" {
		return code
	}
	var parts []string
	for i := 0; i < len(code); i += 4 {
		end := i + 4
		if end > len(code) {
			end = len(code)
		}
		parts = append(parts, code[i:end])
	}
	return strings.Join(parts, "-")
}

// FormatAmount renders a monetary value to 2 decimal places with a currency
// marker, e.g. "€50.00".
func FormatAmount(amount float64, currency string) string {
	switch strings.ToUpper(currency) {
	case "", "EUR":
		return fmt.Sprintf("€%.2f", amount)
	case "GBP":
		return fmt.Sprintf("£%.2f", amount)
	case "USD":
		return fmt.Sprintf("$%.2f", amount)
	default:
		return fmt.Sprintf("%s %.2f", strings.ToUpper(currency), amount)
	}
}
