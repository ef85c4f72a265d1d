package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const (
	defaultDetectorURL = "http://localhost:8500"
	defaultTimeout     = 30 * time.Second
)

// Client talks to the face-detection service.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a detection client. An empty baseURL falls back to the
// default local service address.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultDetectorURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

// detectResponse is the JSON body returned by the detection service.
type detectResponse struct {
	Faces []Face `json:"faces"`
}

// Detect posts the image to the detection service and returns the detected
// faces. An image with no faces yields an empty slice and no error.
func (c *Client) Detect(ctx context.Context, imageData []byte) ([]Face, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", "image.jpg")
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(imageData); err != nil {
		return nil, fmt.Errorf("failed to write image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/detect", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("detection request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("detection service returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed detectResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse detection response: %w", err)
	}
	if parsed.Faces == nil {
		return []Face{}, nil
	}
	return parsed.Faces, nil
}

// DetectOrEmpty wraps Detect with the boundary error policy: a failed or
// unreachable detector surfaces as zero detected faces, never as an error
// the similarity engine has to handle. The failure is logged so it is not
// silently indistinguishable from an empty image in operation.
func (c *Client) DetectOrEmpty(ctx context.Context, imageData []byte) []Face {
	faces, err := c.Detect(ctx, imageData)
	if err != nil {
		log.Printf("detector unavailable, treating as zero faces: %v", err)
		return []Face{}
	}
	return faces
}
