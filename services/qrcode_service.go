// services/qrcode_service.go
package services

import (
	"errors"
	"strings"

	"github.com/skip2/go-qrcode"
)

// QRCodeEncoder matches qrcode.Encode so tests can swap it out.
type QRCodeEncoder func(content string, level qrcode.RecoveryLevel, size int) ([]byte, error)

var (
	ErrInvalidQRSize    = errors.New("invalid size: must be positive")
	ErrEmptyQRContent   = errors.New("qr content is empty")
	DefaultQRCodeEncode = QRCodeEncoder(qrcode.Encode)
)

// GenerateQRCode renders content (typically the fivem:// connect URL) as a
// square PNG of the given size.
func GenerateQRCode(content string, size int, encode QRCodeEncoder) ([]byte, error) {
	if size <= 0 {
		return nil, ErrInvalidQRSize
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyQRContent
	}
	if encode == nil {
		encode = DefaultQRCodeEncode
	}
	png, err := encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, err
	}
	return png, nil
}
