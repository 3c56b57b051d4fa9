// Package tika provides Apache Tika integration for text extraction.
//
// It extracts text content from resume documents (PDF and DOCX) and
// provides clean text output for further processing.
package tika

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/skillgenome/skillgenome/internal/domain"
	"github.com/skillgenome/skillgenome/pkg/textx"
)

// Client is a minimal Apache Tika HTTP client implementing domain.TextExtractor.
// It performs PUT /tika with Accept: text/plain to retrieve extracted text.
// See: https://tika.apache.org/server/ for API details.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New constructs a Tika client with a default timeout.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   15 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Extract uploads the document bytes to the Tika server and returns plain
// text with control characters stripped and whitespace collapsed. Only PDF
// and DOCX resumes are accepted; anything else fails with
// domain.ErrUnsupportedFormat before any network call.
func (c *Client) Extract(ctx context.Context, fileName string, data []byte) (string, error) {
	ct, err := contentTypeForResume(filepath.Ext(fileName))
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("op=tika.extract: empty document: %w", domain.ErrInvalidArgument)
	}

	u := c.baseURL
	if u == "" {
		u = "http://localhost:9998"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u+"/tika", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("op=tika.extract: %w", err)
	}
	req.Header.Set("Accept", "text/plain")
	req.Header.Set("Content-Type", ct)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("op=tika.extract: %w: %w", domain.ErrUpstreamTimeout, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode == http.StatusUnsupportedMediaType {
		return "", fmt.Errorf("op=tika.extract: %w", domain.ErrUnsupportedFormat)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("op=tika.extract: tika status %d: %w", resp.StatusCode, domain.ErrInternal)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("op=tika.extract: %w", err)
	}
	// Sanitize control characters and then collapse all whitespace to single spaces
	sanitized := textx.SanitizeText(string(b))
	fields := strings.Fields(sanitized)
	return strings.Join(fields, " "), nil
}

// Ping checks that the Tika server answers its version endpoint. Used by
// the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	u := c.baseURL
	if u == "" {
		u = "http://localhost:9998"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u+"/version", nil)
	if err != nil {
		return fmt.Errorf("op=tika.ping: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("op=tika.ping: %w: %w", domain.ErrUpstreamTimeout, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("op=tika.ping: tika status %d: %w", resp.StatusCode, domain.ErrInternal)
	}
	return nil
}

// contentTypeForResume maps an accepted resume extension to its MIME type.
func contentTypeForResume(ext string) (string, error) {
	switch strings.ToLower(ext) {
	case ".pdf":
		return "application/pdf", nil
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document", nil
	default:
		return "", fmt.Errorf("op=tika.extract: extension %q: %w", ext, domain.ErrUnsupportedFormat)
	}
}
