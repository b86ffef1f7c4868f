package bgstudio

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bannerlab/internal/domain"
)

const defaultTimeout = 120 * time.Second

// Options configures the background studio client.
type Options struct {
	APIKey     string
	BaseURL    string
	Username   string
	HTTPClient *http.Client
}

// Client calls the background generation HTTP API. The API accepts a
// multipart body (source image + form fields) and answers with the raw
// generated image encoded as base64 in the response body, not JSON.
type Client struct {
	apiKey   string
	baseURL  string
	username string
	client   *http.Client
}

// Params are the generation parameters forwarded as form fields.
type Params struct {
	GenType       domain.GenType
	MultiblobSOD  bool
	OutputW       int
	OutputH       int
	BGColorHex    string
	ConceptOption domain.ConceptOption
}

// GenerationError carries the upstream status and body for failed calls so
// the failure detail can be surfaced to polling clients.
type GenerationError struct {
	Status int
	Body   string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("studio returned status %d: %s", e.Status, e.Body)
}

func (e *GenerationError) Unwrap() error {
	return domain.ErrGenerationFailed
}

// New builds a Client. The API key is required; base URL and HTTP client
// fall back to defaults.
func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("bgstudio: api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.draph.art/v1"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	username := strings.TrimSpace(opts.Username)
	if username == "" {
		username = "bannerlab"
	}
	return &Client{
		apiKey:   strings.TrimSpace(opts.APIKey),
		baseURL:  baseURL,
		username: username,
		client:   client,
	}, nil
}

// Generate submits the source image with the given parameters and returns
// the decoded generated image bytes.
func (c *Client) Generate(ctx context.Context, imageBytes []byte, params Params) ([]byte, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("image", "image.jpg")
	if err != nil {
		return nil, fmt.Errorf("bgstudio: build multipart: %w", err)
	}
	if _, err := part.Write(imageBytes); err != nil {
		return nil, fmt.Errorf("bgstudio: write image part: %w", err)
	}

	conceptJSON, err := json.Marshal(params.ConceptOption)
	if err != nil {
		return nil, fmt.Errorf("bgstudio: encode concept option: %w", err)
	}

	fields := map[string]string{
		"username":          c.username,
		"gen_type":          string(params.GenType),
		"multiblob_sod":     strconv.FormatBool(params.MultiblobSOD),
		"output_w":          strconv.Itoa(params.OutputW),
		"output_h":          strconv.Itoa(params.OutputH),
		"bg_color_hex_code": params.BGColorHex,
		"concept_option":    string(conceptJSON),
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("bgstudio: write field %s: %w", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("bgstudio: finalize multipart: %w", err)
	}

	endpoint := c.baseURL + "/generate/"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("bgstudio: build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &GenerationError{Status: resp.StatusCode, Body: string(payload)}
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(payload)))
	if err != nil {
		return nil, fmt.Errorf("%w: response is not base64: %v", domain.ErrGenerationFailed, err)
	}
	return decoded, nil
}
