package assets

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // texture formats
	_ "image/png"

	_ "golang.org/x/image/bmp"
)

// ErrNotReady is returned when a handle's data is read before it loaded.
var ErrNotReady = errors.New("asset not loaded yet")

// Image decodes the loaded bytes as a PNG, JPEG or BMP image.
func (h *Handle) Image() (image.Image, string, error) {
	if !h.Ready() {
		return nil, "", ErrNotReady
	}
	if h.err != nil {
		return nil, "", h.err
	}
	img, format, err := image.Decode(bytes.NewReader(h.data))
	if err != nil {
		return nil, "", fmt.Errorf("decoding %s: %w", h.path, err)
	}
	return img, format, nil
}
