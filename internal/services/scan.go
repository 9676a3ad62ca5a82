package services

import (
	"net/url"
	"strings"
)

// ScanKind tags what a decoded QR payload (or manual entry) turned out to be.
type ScanKind int

const (
	ScanInvalid ScanKind = iota
	ScanToken
	ScanURL
)

// ScanResult is the outcome of parsing a scanner payload.
type ScanResult struct {
	Kind  ScanKind
	Token string
}

// ParseScanPayload accepts either a bare check-in token or a full check-in
// URL carrying the token in the "t" query parameter, and reports which form
// was seen. Anything else is ScanInvalid.
func ParseScanPayload(raw string) ScanResult {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ScanResult{Kind: ScanInvalid}
	}

	if u, err := url.Parse(raw); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		token := strings.TrimSpace(u.Query().Get("t"))
		if token == "" {
			return ScanResult{Kind: ScanInvalid}
		}
		return ScanResult{Kind: ScanURL, Token: token}
	}

	return ScanResult{Kind: ScanToken, Token: raw}
}
