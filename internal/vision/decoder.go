package vision

import (
	"bytes"
	"fmt"
	"image"
	"sync"

	"golang.org/x/image/vp8"
)

// VP8Decoder turns reassembled VP8 samples into images. The underlying
// decoder is not safe for concurrent use, so calls are serialized.
type VP8Decoder struct {
	mu sync.Mutex
}

func NewVP8Decoder() *VP8Decoder {
	return &VP8Decoder{}
}

func (d *VP8Decoder) Decode(data []byte, mimeType string) (image.Image, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(data) == 0 {
		return nil, fmt.Errorf("empty frame data")
	}
	if mimeType != "video/VP8" {
		return nil, fmt.Errorf("unsupported codec: %s (only VP8 supported)", mimeType)
	}

	decoder := vp8.NewDecoder()
	decoder.Init(bytes.NewReader(data), len(data))

	fh, err := decoder.DecodeFrameHeader()
	if err != nil {
		return nil, fmt.Errorf("decode frame header: %w", err)
	}
	if fh.Width == 0 || fh.Height == 0 {
		return nil, fmt.Errorf("invalid frame dimensions: %dx%d", fh.Width, fh.Height)
	}

	img, err := decoder.DecodeFrame()
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	return img, nil
}

func (d *VP8Decoder) Close() error {
	return nil
}
