package model

import (
	"net/url"
	"strings"
)

// chatHosts are the accepted group chat domains. Subdomains match, look-alike
// hosts such as wa.me.example.org or notwhatsapp.com do not.
var chatHosts = []string{"chat.whatsapp.com", "wa.me", "whatsapp.com"}

// NormalizeWhatsAppLink validates a group chat link. An empty or blank link
// clears it and yields nil.
func NormalizeWhatsAppLink(raw string) (*string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidLink
	}

	if !isChatHost(u.Hostname()) {
		return nil, ErrInvalidLink
	}
	link := u.String()
	return &link, nil
}

func isChatHost(host string) bool {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	for _, allowed := range chatHosts {
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}
	return false
}
