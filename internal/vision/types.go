package vision

import (
	"bytes"
	"image"
	"image/jpeg"
	"time"
)

type Config struct {
	DetectorURL string
	Model       string
	Timeout     time.Duration
}

// Frame is a decoded video frame owned by the pipeline stage currently
// processing it. It is never retained beyond one decision cycle.
type Frame struct {
	Image  image.Image
	Width  int
	Height int
	Source string
}

func NewFrame(img image.Image, source string) *Frame {
	b := img.Bounds()
	return &Frame{
		Image:  img,
		Width:  b.Dx(),
		Height: b.Dy(),
		Source: source,
	}
}

func (f *Frame) EncodeJPEG() ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, f.Image, &jpeg.Options{Quality: 80}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Box is an axis-aligned bounding box in frame pixel coordinates.
type Box struct {
	X0 int `json:"x0"`
	Y0 int `json:"y0"`
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
}

// Mask is a per-object occupancy grid. It may have a different resolution
// than the frame it was detected in.
type Mask struct {
	Width  int
	Height int
	Bits   []bool
}

func (m *Mask) At(x, y int) bool {
	if m == nil || x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Bits[y*m.Width+x]
}

type Detection struct {
	ClassID    int
	Label      string
	Confidence float64
	Box        Box
	Mask       *Mask
}
