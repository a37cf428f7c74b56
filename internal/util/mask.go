package util

import "strings"

// MaskEmail reduce una dirección a lo mínimo reconocible para logs:
// "ana@example.com" → "a…@e….com". Nunca deja PII completa.
func MaskEmail(addr string) string {
	addr = strings.ToLower(strings.TrimSpace(addr))
	if addr == "" {
		return ""
	}

	user, domain, ok := strings.Cut(addr, "@")
	if !ok || user == "" {
		// No parece un email; se enmascara como string opaco.
		if len(addr) <= 3 {
			return "***"
		}
		return addr[:1] + "…" + addr[len(addr)-1:]
	}

	if len(user) > 1 {
		user = user[:1] + "…"
	}
	if head, rest, dotted := strings.Cut(domain, "."); dotted {
		if len(head) > 1 {
			head = head[:1] + "…"
		}
		domain = head + "." + rest
	} else if len(domain) > 1 {
		domain = domain[:1] + "…"
	}
	return user + "@" + domain
}
