package probe

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/okian/vitrine/internal/domain/model"
)

const (
	userAgent      = "vitrine-image-probe/1.0"
	maxDrainBytes  = 4 << 10
	imageMediaType = "image/"
)

// HTTPChecker verifies an image URL with a GET request.
type HTTPChecker struct {
	client *http.Client
}

// NewHTTPChecker returns a checker using client, or a default client when nil.
func NewHTTPChecker(client *http.Client) *HTTPChecker {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPChecker{client: client}
}

// Check succeeds on a 2xx response whose content type is an image or absent.
func (c *HTTPChecker) Check(ctx context.Context, url string) model.ProbeResult {
	start := time.Now()
	res := model.ProbeResult{URL: url}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		res.Err = fmt.Errorf("%w: %w", ErrRequest, err)
		res.Latency = time.Since(start)
		return res
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "image/*")

	resp, err := c.client.Do(req)
	if err != nil {
		res.Err = fmt.Errorf("%w: %w", ErrRequest, err)
		res.Latency = time.Since(start)
		return res
	}
	defer func() {
		_, _ = io.CopyN(io.Discard, resp.Body, maxDrainBytes)
		_ = resp.Body.Close()
	}()

	res.Status = resp.StatusCode
	res.ContentType = resp.Header.Get("Content-Type")
	res.Latency = time.Since(start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		res.Err = fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
		return res
	}
	if !isImage(res.ContentType) {
		res.Err = fmt.Errorf("%w: %q", ErrContentType, res.ContentType)
		return res
	}
	res.OK = true
	return res
}

func isImage(contentType string) bool {
	if strings.TrimSpace(contentType) == "" {
		return true
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mt, imageMediaType)
}
