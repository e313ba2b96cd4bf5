// Package imaging validates profile image uploads before they reach storage.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder

	"github.com/mentormatch/mentor-match-be/internal/apperrors"
)

const (
	minSide  = 500
	maxSide  = 1000
	maxBytes = 1 << 20 // 1 MiB
)

// Validate decodes a base64 image payload and enforces the upload rules:
// JPEG or PNG, square, side between 500 and 1000 pixels inclusive, at most
// 1 MiB decoded. It returns the raw bytes and the detected content type.
func Validate(payload string) ([]byte, string, error) {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", apperrors.Validation("invalid image data")
	}

	if len(data) > maxBytes {
		return nil, "", apperrors.Validation("image size must be less than 1MB")
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", apperrors.Validation("invalid image data")
	}

	var mime string
	switch format {
	case "jpeg":
		mime = "image/jpeg"
	case "png":
		mime = "image/png"
	default:
		return nil, "", apperrors.Validation("only JPG and PNG formats are allowed")
	}

	if cfg.Width != cfg.Height {
		return nil, "", apperrors.Validation("image must be square")
	}
	if cfg.Width < minSide || cfg.Width > maxSide {
		return nil, "", apperrors.Validation(fmt.Sprintf("image size must be between %dx%d and %dx%d pixels", minSide, minSide, maxSide, maxSide))
	}

	return data, mime, nil
}
