package payment

import "strings"

// Gateway status spellings that count as a settled payment. Anything else
// (PENDING, EXPIRED, FAILED, unknown) is treated as not paid.
var paidStatuses = map[string]struct{}{
	"PAID":       {},
	"SUCCESSFUL": {},
	"CAPTURED":   {},
}

func IsPaidStatus(status string) bool {
	_, ok := paidStatuses[strings.ToUpper(strings.TrimSpace(status))]
	return ok
}
