package http

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client wraps HTTP operations used by the player.
//
// Client provides:
//   - Configured User-Agent header
//   - Streaming GETs for online tracks (no overall timeout, the body is read
//     for as long as the track plays)
//   - Small in-memory downloads for cover art, with retries
//
// Example usage:
//
//	client := NewClient("waveplayer")
//
//	// Stream an online track
//	body, contentType, err := client.OpenStream(ctx, "https://example.com/song.mp3")
//	defer body.Close()
//
//	// Fetch cover art
//	img, err := client.GetWithRetry(ctx, coverURL, 3, 0.5)
type Client struct {
	httpClient   *http.Client
	userAgent    string
	bytesTimeout time.Duration
}

// NewClient creates a new HTTP client.
//
// The underlying client has no Timeout so that streams are not cut off;
// byte downloads get a 30 second deadline through their context instead.
func NewClient(userAgent string) *Client {
	if userAgent == "" {
		userAgent = "waveplayer"
	}
	return &Client{
		httpClient:   &http.Client{},
		userAgent:    userAgent,
		bytesTimeout: 30 * time.Second,
	}
}

// IsRemote reports whether uri is an http or https URL.
func IsRemote(uri string) bool {
	u, err := url.Parse(uri)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}

// OpenStream performs a GET request and returns the response body unread.
//
// The caller must close the body. The returned string is the response
// Content-Type header, used to pick a decoder when the URL has no extension.
//
// When the server reports a Content-Length and accepts byte ranges, the body
// also implements io.Seeker: decoders can then measure the track and seek in
// it, each seek reopening the request at the new offset. Otherwise the plain
// response body is returned and the stream can only be read forward.
//
// Returns an error if the request fails or the status is not 200 OK.
func (c *Client) OpenStream(ctx context.Context, rawURL string) (io.ReadCloser, string, error) {
	resp, err := c.do(ctx, rawURL, 0)
	if err != nil {
		return nil, "", err
	}
	contentType := resp.Header.Get("Content-Type")

	if resp.ContentLength > 0 && strings.EqualFold(resp.Header.Get("Accept-Ranges"), "bytes") {
		return &rangeReader{
			client: c,
			ctx:    ctx,
			url:    rawURL,
			size:   resp.ContentLength,
			body:   resp.Body,
		}, contentType, nil
	}
	return resp.Body, contentType, nil
}

// Get performs a GET request and returns the response body as bytes.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.bytesTimeout)
	defer cancel()

	resp, err := c.do(ctx, rawURL, 0)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// GetWithRetry calls Get up to maxRetries times, waiting
// backoff * 2^try seconds between attempts.
//
// Example:
//
//	data, err := client.GetWithRetry(ctx, coverURL, 3, 0.5)
//	// waits 0.5s, then 1s between the three attempts
func (c *Client) GetWithRetry(ctx context.Context, rawURL string, maxRetries int, backoff float64) ([]byte, error) {
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	for tries := 0; tries < maxRetries; tries++ {
		data, err := c.Get(ctx, rawURL)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if tries+1 < maxRetries {
			if err := waitForRetry(ctx, backoff, tries); err != nil {
				return nil, err
			}
		}
	}
	return nil, fmt.Errorf("get %s after %d attempts: %w", rawURL, maxRetries, lastErr)
}

// do sends a GET request. A positive offset asks for the bytes from offset
// onwards and requires a 206 Partial Content reply.
func (c *Client) do(ctx context.Context, rawURL string, offset int64) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	want := http.StatusOK
	if offset > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
		want = http.StatusPartialContent
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != want {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}
	return resp, nil
}

func waitForRetry(ctx context.Context, backoff float64, tries int) error {
	cooldown := backoff * math.Pow(2, float64(tries))
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Duration(cooldown * float64(time.Second))):
		return nil
	}
}
