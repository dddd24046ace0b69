package emit

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"os"
	"strings"

	// Decoders for the formats slide authors actually use.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageSizer resolves an image source to its intrinsic pixel size.
type ImageSizer interface {
	Size(src string) (w, h int, err error)
}

// FileImageSizer reads sizes from the filesystem, with inline data URIs
// decoded in place.
type FileImageSizer struct{}

// Size implements ImageSizer.
func (FileImageSizer) Size(src string) (int, int, error) {
	if strings.HasPrefix(src, "data:") {
		return dataURISize(src)
	}
	f, err := os.Open(src)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decoding %s: %w", src, err)
	}
	return cfg.Width, cfg.Height, nil
}

func dataURISize(src string) (int, int, error) {
	comma := strings.IndexByte(src, ',')
	if comma < 0 {
		return 0, 0, fmt.Errorf("malformed data URI")
	}
	header, payload := src[:comma], src[comma+1:]

	var data []byte
	if strings.HasSuffix(header, ";base64") {
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return 0, 0, fmt.Errorf("decoding data URI payload: %w", err)
		}
		data = decoded
	} else {
		data = []byte(payload)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("decoding inline image: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// FixedSizer reports the same size for every source. Tests use it to
// pin aspect ratios without fixture files.
type FixedSizer struct {
	W, H int
	Err  error
}

// Size implements ImageSizer.
func (s FixedSizer) Size(string) (int, int, error) { return s.W, s.H, s.Err }
