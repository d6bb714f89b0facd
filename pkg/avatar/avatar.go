// Package avatar normalizes uploaded profile images to fit a square
// bounding box while keeping their aspect ratio.
package avatar

import (
	"errors"
	"image"
	"io"

	// decoders for the upload formats we accept
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

// ErrInvalidImage is returned when the upload cannot be decoded as an image.
var ErrInvalidImage = errors.New("invalid or corrupt image")

// Normalize decodes r and, when either dimension exceeds maxDim, scales
// the image down so its larger dimension equals maxDim exactly. Images
// already inside the box come back untouched; nothing is ever upscaled.
// The second return value is the decoded format name ("jpeg", "png", ...)
// so callers can re-encode in kind.
func Normalize(r io.Reader, maxDim int) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", ErrInvalidImage
	}
	b := img.Bounds()
	if b.Dx() <= maxDim && b.Dy() <= maxDim {
		return img, format, nil
	}
	return imaging.Fit(img, maxDim, maxDim, imaging.Lanczos), format, nil
}

// Ext maps a decoded format name to the file extension used for storage.
// Unknown formats fall back to jpg.
func Ext(format string) string {
	switch format {
	case "png":
		return ".png"
	case "gif":
		return ".gif"
	default:
		return ".jpg"
	}
}

// Save writes img to path, with the encoder chosen from the extension.
func Save(img image.Image, path string) error {
	return imaging.Save(img, path)
}
