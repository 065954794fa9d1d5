package directions

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const googleDirectionsURL = "https://maps.googleapis.com/maps/api/directions/json"

type Step struct {
	Instruction     string
	DistanceMeters  int
	DistanceText    string
	DurationSeconds int
	DurationText    string
	TravelMode      string
}

type RouteGuidance struct {
	Summary              string
	TotalDistanceMeters  int
	TotalDurationSeconds int
	NextStep             Step
}

// Router resolves the next guidance step between two coordinates.
type Router interface {
	GetRoute(ctx context.Context, originLat, originLng, destLat, destLng float64, mode string) (*RouteGuidance, error)
}

// Client is a minimal Google Directions client focused on walking guidance.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	defaultMode string
}

func NewClient(apiKey string) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		baseURL:     googleDirectionsURL,
		apiKey:      apiKey,
		defaultMode: "walking",
	}
}

type wireText struct {
	Value int    `json:"value"`
	Text  string `json:"text"`
}

type wireStep struct {
	HTMLInstructions string   `json:"html_instructions"`
	Distance         wireText `json:"distance"`
	Duration         wireText `json:"duration"`
	TravelMode       string   `json:"travel_mode"`
}

type wireLeg struct {
	Distance wireText   `json:"distance"`
	Duration wireText   `json:"duration"`
	Steps    []wireStep `json:"steps"`
}

type wireRoute struct {
	Summary string    `json:"summary"`
	Legs    []wireLeg `json:"legs"`
}

type wireResponse struct {
	Status       string      `json:"status"`
	ErrorMessage string      `json:"error_message"`
	Routes       []wireRoute `json:"routes"`
}

func (c *Client) GetRoute(ctx context.Context, originLat, originLng, destLat, destLng float64, mode string) (*RouteGuidance, error) {
	if mode == "" {
		mode = c.defaultMode
	}

	params := url.Values{}
	params.Set("origin", fmt.Sprintf("%f,%f", originLat, originLng))
	params.Set("destination", fmt.Sprintf("%f,%f", destLat, destLng))
	params.Set("mode", mode)
	params.Set("key", c.apiKey)
	params.Set("language", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directions request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directions returned status %d", resp.StatusCode)
	}

	var payload wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if payload.Status != "OK" {
		message := payload.ErrorMessage
		if message == "" {
			message = payload.Status
		}
		if message == "" {
			message = "unknown error"
		}
		return nil, fmt.Errorf("directions error: %s", message)
	}
	if len(payload.Routes) == 0 {
		return nil, fmt.Errorf("directions returned no routes")
	}
	route := payload.Routes[0]
	if len(route.Legs) == 0 {
		return nil, fmt.Errorf("directions returned no legs")
	}
	leg := route.Legs[0]
	if len(leg.Steps) == 0 {
		return nil, fmt.Errorf("directions leg missing steps")
	}
	raw := leg.Steps[0]

	instruction := stripHTML(raw.HTMLInstructions)
	if instruction == "" {
		instruction = "Proceed to the highlighted route"
	}
	travelMode := strings.ToUpper(raw.TravelMode)
	if travelMode == "" {
		travelMode = "WALKING"
	}

	step := Step{
		Instruction:     instruction,
		DistanceMeters:  raw.Distance.Value,
		DistanceText:    textOrDefault(raw.Distance.Text, "0 m"),
		DurationSeconds: raw.Duration.Value,
		DurationText:    textOrDefault(raw.Duration.Text, "0 mins"),
		TravelMode:      travelMode,
	}

	guidance := &RouteGuidance{
		Summary:              route.Summary,
		TotalDistanceMeters:  leg.Distance.Value,
		TotalDurationSeconds: leg.Duration.Value,
		NextStep:             step,
	}
	if guidance.TotalDistanceMeters == 0 {
		guidance.TotalDistanceMeters = step.DistanceMeters
	}
	if guidance.TotalDurationSeconds == 0 {
		guidance.TotalDurationSeconds = step.DurationSeconds
	}
	return guidance, nil
}

var htmlTagPattern = regexp.MustCompile(`<[^>]+>`)

func stripHTML(value string) string {
	return strings.TrimSpace(htmlTagPattern.ReplaceAllString(html.UnescapeString(value), ""))
}

func textOrDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
