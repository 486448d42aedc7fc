package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/pixel-primitives/internal/pixel"
)

// ImageResult carries an encoded image back to a tool caller.
type ImageResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Channels    int    `json:"channels,omitempty"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodeBuffer PNG-encodes b, optionally scaled.
//
// Parameters:
//   - b: A 1-channel or 3-channel buffer.
//   - scale: Resize factor. Scaling uses nearest neighbor so binary and
//     label images keep hard edges. A scale of 1, or one <= 0, keeps the
//     original size.
//
// Returns:
//   - *ImageResult: Base64 PNG data with the encoded dimensions and b's
//     channel count.
//   - error: Non-nil if b cannot be converted or encoding fails.
func EncodeBuffer(b *pixel.Buffer, scale float64) (*ImageResult, error) {
	img, err := FromBuffer(b)
	if err != nil {
		return nil, err
	}
	res, err := EncodeImage(img, scale)
	if err != nil {
		return nil, err
	}
	res.Channels = b.Channels
	return res, nil
}

// EncodeImage PNG-encodes img, optionally scaled.
func EncodeImage(img image.Image, scale float64) (*ImageResult, error) {
	if scale != 1.0 && scale > 0 {
		newWidth := int(float64(img.Bounds().Dx()) * scale)
		newHeight := int(float64(img.Bounds().Dy()) * scale)
		if newWidth < 1 {
			newWidth = 1
		}
		if newHeight < 1 {
			newHeight = 1
		}
		img = imaging.Resize(img, newWidth, newHeight, imaging.NearestNeighbor)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &ImageResult{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
