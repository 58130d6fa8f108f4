// Package images downloads product images so the PDF renderer can embed them.
package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// MaxImageBytes caps a single downloaded image
const MaxImageBytes = 5 << 20

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = errors.New("image exceeds size limit")
)

// Image is a downloaded image ready for the PDF writer
type Image struct {
	Data []byte
	// Type is the gofpdf image type: "JPG", "PNG" or "GIF"
	Type string
}

// Source looks up previously loaded images by URL
type Source interface {
	Get(url string) (Image, bool)
}

// Fetcher downloads images concurrently and keeps the successful ones in memory
type Fetcher struct {
	client *http.Client
	logger *slog.Logger

	mu     sync.RWMutex
	images map[string]Image
	failed int
}

// fetchResult holds the result of downloading a single URL
type fetchResult struct {
	url   string
	image Image
	err   error
}

// NewFetcher creates a new image fetcher. A nil client gets a default with a timeout.
func NewFetcher(client *http.Client, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		client: client,
		logger: logger,
		images: make(map[string]Image),
	}
}

// LoadFromURLs downloads every URL concurrently.
// Failed downloads are logged and skipped; the call only errors when the
// context ends before all downloads finish.
func (f *Fetcher) LoadFromURLs(ctx context.Context, urls []string) error {
	resultChan := make(chan fetchResult, len(urls))

	var wg sync.WaitGroup
	for _, url := range urls {
		if url == "" {
			continue
		}
		wg.Add(1)
		go func(imageURL string) {
			defer wg.Done()

			img, err := f.fetch(ctx, imageURL)
			resultChan <- fetchResult{url: imageURL, image: img, err: err}
		}(url)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	loaded := make(map[string]Image, len(urls))
	failed := 0
	for result := range resultChan {
		if result.err != nil {
			failed++
			f.logger.Warn("failed to load product image", "url", result.url, "error", result.err)
			continue
		}
		loaded[result.url] = result.image
	}

	f.mu.Lock()
	for url, img := range loaded {
		f.images[url] = img
	}
	f.failed += failed
	f.mu.Unlock()

	return ctx.Err()
}

func (f *Fetcher) fetch(ctx context.Context, url string) (Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Image{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return Image{}, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Image{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxImageBytes+1))
	if err != nil {
		return Image{}, fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) > MaxImageBytes {
		return Image{}, ErrTooLarge
	}

	imageType, err := DetectType(data)
	if err != nil {
		return Image{}, err
	}

	return Image{Data: data, Type: imageType}, nil
}

// DetectType sniffs the content and maps it to a gofpdf image type
func DetectType(data []byte) (string, error) {
	switch http.DetectContentType(data) {
	case "image/jpeg":
		return "JPG", nil
	case "image/png":
		return "PNG", nil
	case "image/gif":
		return "GIF", nil
	}
	return "", ErrUnsupportedType
}

// Get returns the image loaded for url
func (f *Fetcher) Get(url string) (Image, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	img, ok := f.images[url]
	return img, ok
}

// Reader returns the image data as a reader, for gofpdf's RegisterImageOptionsReader
func (img Image) Reader() io.Reader {
	return bytes.NewReader(img.Data)
}

// GetStats returns statistics about loaded images
func (f *Fetcher) GetStats() map[string]interface{} {
	f.mu.RLock()
	defer f.mu.RUnlock()

	totalBytes := 0
	for _, img := range f.images {
		totalBytes += len(img.Data)
	}

	return map[string]interface{}{
		"loaded":      len(f.images),
		"failed":      f.failed,
		"total_bytes": totalBytes,
	}
}
