package capture

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"sync"
)

// MJPEGDevice pulls frames from a multipart/x-mixed-replace JPEG stream.
// The connection is established lazily on the first read and re-established
// after a stream error on the next one.
type MJPEGDevice struct {
	url        string
	httpClient *http.Client

	mu     sync.Mutex
	body   io.ReadCloser
	reader *multipart.Reader
	cancel context.CancelFunc
	closed bool
}

func NewMJPEGDevice(url string) *MJPEGDevice {
	return &MJPEGDevice{
		url:        url,
		httpClient: http.DefaultClient,
	}
}

func (d *MJPEGDevice) ReadFrame(ctx context.Context) (image.Image, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, fmt.Errorf("device closed")
	}

	if d.reader == nil {
		if err := d.connect(ctx); err != nil {
			return nil, err
		}
	}

	part, err := d.reader.NextPart()
	if err != nil {
		d.disconnect()
		return nil, fmt.Errorf("read stream part: %w", err)
	}
	defer part.Close()

	img, err := jpeg.Decode(part)
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	return img, nil
}

// connect opens the stream. The request context outlives ReadFrame so the
// body stays readable across calls; Close cancels it.
func (d *MJPEGDevice) connect(ctx context.Context) error {
	streamCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	req, err := http.NewRequestWithContext(streamCtx, http.MethodGet, d.url, nil)
	if err != nil {
		cancel()
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		cancel()
		return fmt.Errorf("open stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return fmt.Errorf("stream returned status %d", resp.StatusCode)
	}

	mediaType, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/x-mixed-replace" || params["boundary"] == "" {
		resp.Body.Close()
		cancel()
		return fmt.Errorf("unexpected stream content type: %s", resp.Header.Get("Content-Type"))
	}

	d.body = resp.Body
	d.reader = multipart.NewReader(resp.Body, params["boundary"])
	d.cancel = cancel
	return nil
}

func (d *MJPEGDevice) disconnect() {
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.body != nil {
		d.body.Close()
		d.body = nil
	}
	d.reader = nil
}

func (d *MJPEGDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.disconnect()
	return nil
}
