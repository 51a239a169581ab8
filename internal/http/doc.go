// Package http provides the HTTP client used to stream online tracks and
// fetch cover art.
//
// # Basic Usage
//
//	client := http.NewClient("waveplayer")
//
//	// Stream an online track; the body is handed to the audio decoder
//	body, contentType, err := client.OpenStream(ctx, url)
//
//	// Fetch a cover image with retries
//	data, err := client.GetWithRetry(ctx, coverURL, 3, 0.5)
//
// URLs are never validated before use: an unreachable online track simply
// fails to open.
package http
