package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Detector is the segmentation model boundary. Implementations return the
// detections for one frame; the pipeline treats the model as a black box.
type Detector interface {
	Detect(ctx context.Context, frame *Frame, minConfidence float64) ([]Detection, error)
}

// Client talks to an inference sidecar over HTTP. The sidecar runs the
// actual segmentation model and replies with boxes, confidences and
// optional occupancy masks.
type Client struct {
	httpClient *http.Client
	baseURL    string
	model      string
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.DetectorURL,
		model:      cfg.Model,
	}
}

type detectRequest struct {
	Model         string  `json:"model,omitempty"`
	Image         string  `json:"image"`
	MinConfidence float64 `json:"min_confidence"`
}

type detectResponse struct {
	Detections []wireDetection `json:"detections"`
}

type wireDetection struct {
	ClassID    int       `json:"class_id"`
	Label      string    `json:"label,omitempty"`
	Confidence float64   `json:"confidence"`
	Box        Box       `json:"box"`
	Mask       *wireMask `json:"mask,omitempty"`
}

type wireMask struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Data   string `json:"data"` // base64, one byte per cell, nonzero = occupied
}

func (c *Client) Detect(ctx context.Context, frame *Frame, minConfidence float64) ([]Detection, error) {
	if frame == nil {
		return nil, fmt.Errorf("no frame provided")
	}

	jpeg, err := frame.EncodeJPEG()
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}

	body, err := json.Marshal(detectRequest{
		Model:         c.model,
		Image:         base64.StdEncoding.EncodeToString(jpeg),
		MinConfidence: minConfidence,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/detect", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("detector request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("detector returned status %d", resp.StatusCode)
	}

	var detectResp detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&detectResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	detections := make([]Detection, 0, len(detectResp.Detections))
	for _, wd := range detectResp.Detections {
		if wd.Confidence < minConfidence {
			continue
		}
		d := Detection{
			ClassID:    wd.ClassID,
			Label:      wd.Label,
			Confidence: wd.Confidence,
			Box:        wd.Box,
		}
		if wd.Mask != nil {
			mask, err := decodeMask(wd.Mask)
			if err != nil {
				return nil, fmt.Errorf("decode mask: %w", err)
			}
			d.Mask = mask
		}
		detections = append(detections, d)
	}
	return detections, nil
}

func (c *Client) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/models", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

func decodeMask(wm *wireMask) (*Mask, error) {
	raw, err := base64.StdEncoding.DecodeString(wm.Data)
	if err != nil {
		return nil, err
	}
	if wm.Width <= 0 || wm.Height <= 0 {
		return nil, fmt.Errorf("invalid mask dimensions: %dx%d", wm.Width, wm.Height)
	}
	if len(raw) != wm.Width*wm.Height {
		return nil, fmt.Errorf("mask size mismatch: have %d cells, want %d", len(raw), wm.Width*wm.Height)
	}

	bits := make([]bool, len(raw))
	for i, b := range raw {
		bits[i] = b != 0
	}
	return &Mask{Width: wm.Width, Height: wm.Height, Bits: bits}, nil
}
