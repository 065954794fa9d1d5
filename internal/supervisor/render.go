package supervisor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/eleven-am/vision-nav/internal/navigation"
	"github.com/eleven-am/vision-nav/internal/vision"
)

// Preview serves the annotated video feed as an MJPEG stream over HTTP
// so operators can watch what the zone engine sees.
type Preview struct {
	server *http.Server
	logger *slog.Logger

	mu     sync.Mutex
	jpg    []byte
	notify chan struct{}
}

func NewPreview(addr string, logger *slog.Logger) *Preview {
	p := &Preview{
		logger: logger.With("component", "preview"),
		notify: make(chan struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", p.serveStream)
	p.server = &http.Server{Addr: addr, Handler: mux}
	return p
}

// Start runs the preview server until Close is called.
func (p *Preview) Start() {
	go func() {
		if err := p.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			p.logger.Error("preview server failed", "error", err)
		}
	}()
	p.logger.Info("preview server started", "addr", p.server.Addr)
}

// Update re-renders the overlay for the latest frame and wakes any
// connected viewers.
func (p *Preview) Update(frame *vision.Frame, command navigation.Command) {
	if frame == nil || frame.Image == nil {
		return
	}

	annotated := annotate(frame.Image, command)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, annotated, &jpeg.Options{Quality: 75}); err != nil {
		p.logger.Warn("failed to encode preview frame", "error", err)
		return
	}

	p.mu.Lock()
	p.jpg = buf.Bytes()
	close(p.notify)
	p.notify = make(chan struct{})
	p.mu.Unlock()
}

func (p *Preview) Close(ctx context.Context) error {
	return p.server.Shutdown(ctx)
}

func (p *Preview) serveStream(w http.ResponseWriter, r *http.Request) {
	const boundary = "previewframe"
	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+boundary)
	w.WriteHeader(http.StatusOK)

	flusher, ok := w.(http.Flusher)
	if !ok {
		return
	}

	for {
		p.mu.Lock()
		jpg := p.jpg
		wait := p.notify
		p.mu.Unlock()

		if jpg != nil {
			if _, err := fmt.Fprintf(w, "--%s\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", boundary, len(jpg)); err != nil {
				return
			}
			if _, err := w.Write(jpg); err != nil {
				return
			}
			if _, err := fmt.Fprint(w, "\r\n"); err != nil {
				return
			}
			flusher.Flush()
		}

		select {
		case <-wait:
		case <-r.Context().Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
}

func annotate(src image.Image, command navigation.Command) image.Image {
	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)

	label := string(command)
	bg := image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Min.X+7*len(label)+16, bounds.Min.Y+20)
	draw.Draw(dst, bg, image.NewUniform(color.RGBA{A: 160}), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(commandColor(command)),
		Face: basicfont.Face7x13,
		Dot: fixed.Point26_6{
			X: fixed.I(bounds.Min.X + 8),
			Y: fixed.I(bounds.Min.Y + 14),
		},
	}
	d.DrawString(label)
	return dst
}

func commandColor(command navigation.Command) color.Color {
	switch command {
	case navigation.CommandStop:
		return color.RGBA{R: 255, A: 255}
	case navigation.CommandMoveForward:
		return color.RGBA{G: 255, A: 255}
	default:
		return color.RGBA{R: 255, G: 255, A: 255}
	}
}
