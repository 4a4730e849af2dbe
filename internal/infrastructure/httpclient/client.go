package httpclient

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"esign-composer/internal/config"
	"esign-composer/internal/domain/entity"
)

// fallbackFileName is used when neither the response nor the URL names the
// file.
const fallbackFileName = "download"

// Download is a file fetched from a remote URL.
type Download struct {
	Filename    string
	ContentType string
	Content     []byte
}

type HTTPClient interface {
	// Download fetches rawURL. Only http and https URLs are accepted.
	Download(ctx context.Context, rawURL string) (*Download, error)
}

type httpClient struct {
	client  *http.Client
	maxSize int64
	logger  *zap.Logger
}

func NewHTTPClient(cfg *config.Config, logger *zap.Logger) HTTPClient {
	logger.Info("HTTP client initialized",
		zap.Duration("timeout", cfg.Upload.Timeout),
		zap.String("max_size", humanize.Bytes(uint64(cfg.Upload.MaxSize))),
	)

	return &httpClient{
		client:  &http.Client{Timeout: cfg.Upload.Timeout},
		maxSize: cfg.Upload.MaxSize,
		logger:  logger,
	}
}

// formatHeadersForLog formats HTTP headers for logging in "Key=Value" form
func formatHeadersForLog(headers http.Header) string {
	var sb strings.Builder
	for key, values := range headers {
		for _, value := range values {
			// Truncate very long header values
			if len(value) > 100 {
				value = value[:100] + "..."
			}
			sb.WriteString(fmt.Sprintf("%s=%s; ", key, value))
		}
	}
	return strings.TrimSuffix(sb.String(), "; ")
}

// fileName picks the download name from Content-Disposition, then from the
// last URL path segment.
func fileName(u *url.URL, disposition string) string {
	if disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			if name := path.Base(params["filename"]); params["filename"] != "" && name != "/" && name != "." {
				return name
			}
		}
	}
	name := path.Base(u.Path)
	if name == "/" || name == "." || name == "" {
		return fallbackFileName
	}
	return name
}

func (c *httpClient) Download(ctx context.Context, rawURL string) (*Download, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, entity.BadRequestError(fmt.Sprintf("invalid document url %q", rawURL))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Info("Downloading document", zap.String("url", u.String()))

	startTime := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, entity.AssetIOError("download", u.String(), err)
	}
	defer resp.Body.Close()

	// Read one byte past the limit to detect oversized bodies
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxSize+1))
	if err != nil {
		return nil, entity.AssetIOError("read", u.String(), err)
	}

	duration := time.Since(startTime)
	c.logger.Info("Document download finished",
		zap.String("url", u.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", duration),
		zap.String("size", humanize.Bytes(uint64(len(body)))),
		zap.String("headers", formatHeadersForLog(resp.Header)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, entity.AssetIOError("download", u.String(), fmt.Errorf("unexpected status %s", resp.Status))
	}
	if int64(len(body)) > c.maxSize {
		return nil, entity.BadRequestError(fmt.Sprintf("document exceeds %s", humanize.Bytes(uint64(c.maxSize))))
	}

	return &Download{
		Filename:    fileName(resp.Request.URL, resp.Header.Get("Content-Disposition")),
		ContentType: resp.Header.Get("Content-Type"),
		Content:     body,
	}, nil
}
