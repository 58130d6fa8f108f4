package catalogpdf

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/Lixing-Zhang/quick-catalog/internal/models"
)

// DefaultMaxHTMLBytes guards in-memory HTML buffering before PDF conversion
const DefaultMaxHTMLBytes int64 = 8 * 1024 * 1024

var (
	ErrHTMLTooLarge = errors.New("catalog html exceeds size limit")
	ErrEmptyPDF     = errors.New("engine returned an empty pdf")
)

// HTMLRenderer renders the catalog page markup
type HTMLRenderer interface {
	Render(ctx context.Context, w io.Writer, catalog models.Catalog) error
}

// Rasterizer renders the catalog page and converts it to PDF with an Engine
type Rasterizer struct {
	HTML         HTMLRenderer
	Engine       Engine
	MaxHTMLBytes int64
}

// Render writes the rasterized catalog to w and returns the number of bytes written
func (r Rasterizer) Render(ctx context.Context, w io.Writer, catalog models.Catalog) (int64, error) {
	if r.HTML == nil {
		return 0, errors.New("rasterizer requires an html renderer")
	}
	if r.Engine == nil {
		return 0, errors.New("rasterizer requires an engine")
	}

	buffer := newLimitedBuffer(r.MaxHTMLBytes)
	if err := r.HTML.Render(ctx, buffer, catalog); err != nil {
		return 0, err
	}

	pdf, err := r.Engine.Render(ctx, buffer.Bytes())
	if err != nil {
		return 0, err
	}
	if len(pdf) == 0 {
		return 0, ErrEmptyPDF
	}

	cw := &countingWriter{w: w}
	_, err = cw.Write(pdf)
	return cw.count, err
}

type limitedBuffer struct {
	buf     bytes.Buffer
	maxSize int64
}

func newLimitedBuffer(maxSize int64) *limitedBuffer {
	if maxSize <= 0 {
		maxSize = DefaultMaxHTMLBytes
	}
	return &limitedBuffer{maxSize: maxSize}
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if int64(b.buf.Len()+len(p)) > b.maxSize {
		return 0, ErrHTMLTooLarge
	}
	return b.buf.Write(p)
}

func (b *limitedBuffer) Bytes() []byte {
	return b.buf.Bytes()
}

type countingWriter struct {
	w     io.Writer
	count int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.count += int64(n)
	return n, err
}
