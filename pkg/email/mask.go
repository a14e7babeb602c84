package email

import "strings"

// Mask obscures the local part of an email address beyond its first one or
// two characters, keeping the domain intact: "john@example.com" becomes
// "jo***@example.com". Used wherever an address is shown to someone who is
// not its owner (buyer confirmations, logs).
func Mask(addr string) string {
	local, domain, ok := strings.Cut(addr, "@")
	if !ok || local == "" {
		return addr
	}
	keep := 2
	if len(local) <= 2 {
		keep = 1
	}
	return local[:keep] + "***@" + domain
}
