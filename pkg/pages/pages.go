package pages

import (
	// Standard libraries
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	// External utilities
	"github.com/PuerkitoBio/goquery"
)

// Constants
const (
	userAgent = "Mozilla/5.0 (compatible; storelink/1.0; +https://github.com/Niutaq/Storelink)"

	// MaxBytes bounds a fetched or posted page
	MaxBytes = 5 << 20
)

var httpClient = &http.Client{
	Timeout: 15 * time.Second,
}

// ErrTooLarge is returned for pages over MaxBytes; they are never parsed partially
var ErrTooLarge = fmt.Errorf("page exceeds %d bytes", MaxBytes)

// Parse - reads the whole page into a document, failing with ErrTooLarge past MaxBytes
func Parse(r io.Reader) (*goquery.Document, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}
	if len(data) > MaxBytes {
		return nil, ErrTooLarge
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return doc, nil
}

// Fetch - performs HTTP GET and returns the parsed page; non-2xx responses are errors
func Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}
	doc, err := Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	return doc, nil
}

// Render - writes the document back out as HTML
func Render(w io.Writer, doc *goquery.Document) error {
	page, err := doc.Html()
	if err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	if _, err := io.WriteString(w, page); err != nil {
		return fmt.Errorf("write page: %w", err)
	}
	return nil
}
