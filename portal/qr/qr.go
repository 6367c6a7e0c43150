// Package qr renders the activation portal's 2FA provisioning payload as a
// scannable image.
package qr

import "github.com/skip2/go-qrcode"

// Encode renders content as a 300px PNG with medium error correction.
func Encode(content string) ([]byte, error) {
	return qrcode.Encode(content, qrcode.Medium, 300)
}
