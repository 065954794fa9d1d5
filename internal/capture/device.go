package capture

import (
	"context"
	"fmt"
	"image"
	"strings"
)

// Device is a local video source read by pull. ReadFrame blocks until the
// next frame arrives or the device fails; a failed read is treated as
// transient by the capture loop, which retries after a short delay.
type Device interface {
	ReadFrame(ctx context.Context) (image.Image, error)
	Close() error
}

// Open resolves a configured video source string to a Device. HTTP(S)
// sources are treated as MJPEG streams, the common output of IP cameras
// and capture relays.
func Open(source string) (Device, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return NewMJPEGDevice(source), nil
	}
	return nil, fmt.Errorf("unsupported video source: %q", source)
}
