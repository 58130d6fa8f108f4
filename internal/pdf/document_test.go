package catalogpdf

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/Lixing-Zhang/quick-catalog/internal/catalog"
	"github.com/Lixing-Zhang/quick-catalog/internal/images"
	"github.com/Lixing-Zhang/quick-catalog/internal/models"
	"github.com/lvillar/gofpdf/reader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(n int) models.Catalog {
	return models.Catalog{
		Title:       "Catálogo Rápido",
		IntroTitle:  "Coleção em destaque",
		IntroText:   "Uma seleção de produtos para mostrar como o catálogo funciona.",
		Products:    catalog.Generate(n),
		GeneratedAt: time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC),
	}
}

// staticImages serves the same image for every URL
type staticImages struct {
	img images.Image
}

func (s staticImages) Get(string) (images.Image, bool) {
	return s.img, true
}

func pngImage(t *testing.T) images.Image {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 6, 4))
	for x := 0; x < 6; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 37, G: 99, B: 235, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return images.Image{Data: buf.Bytes(), Type: "PNG"}
}

func renderDocument(t *testing.T, r DocumentRenderer, c models.Catalog) *reader.Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.Render(context.Background(), &buf, c))
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")), "output is not a pdf")

	doc, err := reader.ReadFrom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	return doc
}

func documentText(t *testing.T, doc *reader.Document) string {
	t.Helper()
	var sb strings.Builder
	for i := 1; i <= doc.NumPages(); i++ {
		page, err := doc.Page(i)
		require.NoError(t, err)
		text, err := page.ExtractText()
		require.NoError(t, err)
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String()
}

func TestDocumentRenderer_CardsInGenerationOrder(t *testing.T) {
	c := testCatalog(22)
	doc := renderDocument(t, DocumentRenderer{}, c)

	assert.Greater(t, doc.NumPages(), 1, "22 cards do not fit on one page")

	text := documentText(t, doc)
	last := -1
	for _, p := range c.Products {
		idx := strings.Index(text, p.Name)
		require.GreaterOrEqual(t, idx, 0, "%s missing from pdf", p.Name)
		assert.Greater(t, idx, last, "%s out of order", p.Name)
		last = idx

		assert.Contains(t, text, "R$ "+p.Price.StringFixed(2))
	}
	assert.Contains(t, text, "Gerado em: 15/10/2026 09:30:00")
}

func TestDocumentRenderer_Metadata(t *testing.T) {
	doc := renderDocument(t, DocumentRenderer{}, testCatalog(1))
	assert.Equal(t, "Catálogo Rápido", doc.Metadata()["Title"])
}

func TestDocumentRenderer_WithImages(t *testing.T) {
	var withImages, without bytes.Buffer
	c := testCatalog(4)

	require.NoError(t, DocumentRenderer{Images: staticImages{img: pngImage(t)}}.Render(context.Background(), &withImages, c))
	require.NoError(t, DocumentRenderer{}.Render(context.Background(), &without, c))

	assert.Contains(t, withImages.String(), "/Subtype /Image")
	assert.NotContains(t, without.String(), "/Subtype /Image")
}

func TestDocumentRenderer_CorruptImageFallsBackToPlaceholder(t *testing.T) {
	broken := staticImages{img: images.Image{Data: []byte("not a png"), Type: "PNG"}}
	doc := renderDocument(t, DocumentRenderer{Images: broken}, testCatalog(2))
	assert.Contains(t, documentText(t, doc), "Produto 02")
}

func TestDocumentRenderer_PriceIndex(t *testing.T) {
	c := testCatalog(6)

	plain := renderDocument(t, DocumentRenderer{}, c)
	indexed := renderDocument(t, DocumentRenderer{PriceIndex: true}, c)

	assert.Equal(t, plain.NumPages()+1, indexed.NumPages())

	page, err := indexed.Page(indexed.NumPages())
	require.NoError(t, err)
	text, err := page.ExtractText()
	require.NoError(t, err)
	assert.Contains(t, text, "Produto 06")
	assert.Contains(t, text, "R$ "+c.Products[5].Price.StringFixed(2))
}

func TestDocumentRenderer_EmptyCatalog(t *testing.T) {
	doc := renderDocument(t, DocumentRenderer{PriceIndex: true}, testCatalog(0))
	assert.Equal(t, 1, doc.NumPages())
}

func TestDocumentRenderer_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := DocumentRenderer{}.Render(ctx, &buf, testCatalog(3))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, buf.Len())
}
