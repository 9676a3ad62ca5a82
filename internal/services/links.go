package services

import (
	"fmt"
	"net/url"
	"strings"
)

// LinkBuilder produces the absolute URLs embedded in QR codes and emails.
type LinkBuilder struct {
	base string
}

// NewLinkBuilder trims trailing slashes from the configured public base URL.
func NewLinkBuilder(baseURL string) *LinkBuilder {
	return &LinkBuilder{base: strings.TrimRight(strings.TrimSpace(baseURL), "/")}
}

// CheckinURL returns the URL a scanner hits for the given token. This is
// the payload encoded into the QR image.
func (b *LinkBuilder) CheckinURL(token string) string {
	return fmt.Sprintf("%s/api/checkin?t=%s", b.base, url.QueryEscape(token))
}

// PassURL returns the human-viewable pass page for a guest.
func (b *LinkBuilder) PassURL(guestID string) string {
	return fmt.Sprintf("%s/guests/%s/pass", b.base, url.PathEscape(guestID))
}

// QRImageURL returns the PNG endpoint for a guest's QR code.
func (b *LinkBuilder) QRImageURL(guestID string) string {
	return fmt.Sprintf("%s/api/guests/%s/qr", b.base, url.PathEscape(guestID))
}
