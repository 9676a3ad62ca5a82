package qr

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// imageSize is large enough for print legibility while staying email-friendly.
const imageSize = 600

// Encode renders payload as a PNG QR image with medium error correction,
// tolerant of minor print or display degradation.
func Encode(payload string) ([]byte, error) {
	if payload == "" {
		return nil, fmt.Errorf("qr: payload is required")
	}

	png, err := qrcode.Encode(payload, qrcode.Medium, imageSize)
	if err != nil {
		return nil, fmt.Errorf("qr: encode payload: %w", err)
	}
	return png, nil
}
