package downloader

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var ErrNotAnImage = errors.New("content is not a decodable image")

// detectImage decodes just the header of data and returns the format name.
// Sites sometimes answer image URLs with an HTML error page and status 200.
func detectImage(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty body", ErrNotAnImage)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return "", fmt.Errorf("%w: %s with size %dx%d", ErrNotAnImage, format, cfg.Width, cfg.Height)
	}

	return format, nil
}

// toJPEG re-encodes non-JPEG images so the .jpg extension tells the truth.
func toJPEG(data []byte, format string) ([]byte, error) {
	if format == "jpeg" {
		return data, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}

	return buf.Bytes(), nil
}
