package payment

import "github.com/skip2/go-qrcode"

// EncodeLinkQR renders a payment link as a 256x256 PNG QR code, so a link can
// be shown on a receipt or a counter display.
func EncodeLinkQR(link string) ([]byte, error) {
	return qrcode.Encode(link, qrcode.Medium, 256)
}
