package catalogpdf

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Lixing-Zhang/quick-catalog/internal/images"
	"github.com/Lixing-Zhang/quick-catalog/internal/models"
	"github.com/Lixing-Zhang/quick-catalog/internal/render"
	gofpdf "github.com/lvillar/gofpdf"
	"github.com/lvillar/gofpdf/table"
)

const (
	pageMargin   = 15.0
	footerHeight = 15.0
	columnGap    = 6.0
	columns      = 2

	cardPadding  = 3.0
	imageRatio   = 400.0 / 600.0
	nameHeight   = 7.0
	descLineH    = 4.5
	descMaxLines = 3
	priceHeight  = 8.0

	fontFamily = "Helvetica"
)

// DocumentRenderer draws the catalog as a paginated grid of product cards
type DocumentRenderer struct {
	// Images supplies downloaded product images; nil draws placeholders only
	Images images.Source
	// PriceIndex appends a table of every product and its price
	PriceIndex bool
	Location   *time.Location
}

// Render writes the catalog PDF to w
func (r DocumentRenderer) Render(ctx context.Context, w io.Writer, catalog models.Catalog) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, footerHeight+5)
	pdf.SetTitle(catalog.Title, true)
	pdf.SetCreator("quick-catalog", true)
	pdf.AliasNbPages("")

	generated := render.FormatTimestamp(catalog.GeneratedAt, r.Location)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-footerHeight)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.SetTextColor(113, 113, 122)
		text := tr(fmt.Sprintf("Gerado em: %s — página %d/{nb}", generated, pdf.PageNo()))
		pdf.CellFormat(0, 10, text, "", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})

	pdf.AddPage()
	r.drawIntro(pdf, tr, catalog)

	pageW, pageH := pdf.GetPageSize()
	contentW := pageW - 2*pageMargin
	cardW := (contentW - columnGap*float64(columns-1)) / columns
	cardH := cardHeight(cardW)

	for i := 0; i < len(catalog.Products); i += columns {
		if err := ctx.Err(); err != nil {
			return err
		}

		y := pdf.GetY()
		if y+cardH > pageH-footerHeight-5 {
			pdf.AddPage()
			y = pdf.GetY()
		}

		for col := 0; col < columns && i+col < len(catalog.Products); col++ {
			x := pageMargin + float64(col)*(cardW+columnGap)
			r.drawCard(pdf, tr, catalog.Products[i+col], x, y, cardW, cardH)
		}
		pdf.SetXY(pageMargin, y+cardH+columnGap)
	}

	if r.PriceIndex && len(catalog.Products) > 0 {
		if err := drawPriceIndex(pdf, tr, catalog.Products); err != nil {
			return fmt.Errorf("failed to draw price index: %w", err)
		}
	}

	if pdf.Err() {
		return fmt.Errorf("failed to build catalog pdf: %w", pdf.Error())
	}
	return pdf.Output(w)
}

func (r DocumentRenderer) drawIntro(pdf *gofpdf.Fpdf, tr func(string) string, catalog models.Catalog) {
	pdf.SetFont(fontFamily, "B", 20)
	pdf.CellFormat(0, 10, tr(catalog.Title), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont(fontFamily, "B", 13)
	pdf.CellFormat(0, 7, tr(catalog.IntroTitle), "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 10)
	pdf.SetTextColor(82, 82, 91)
	pdf.MultiCell(0, 5, tr(catalog.IntroText), "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)
}

func cardHeight(cardW float64) float64 {
	imageH := (cardW - 2*cardPadding) * imageRatio
	return cardPadding + imageH + 2 + nameHeight + descLineH*descMaxLines + priceHeight + cardPadding
}

func (r DocumentRenderer) drawCard(pdf *gofpdf.Fpdf, tr func(string) string, p models.Product, x, y, w, h float64) {
	pdf.SetDrawColor(228, 228, 231)
	pdf.SetLineWidth(0.3)
	pdf.Rect(x, y, w, h, "D")

	innerX := x + cardPadding
	innerW := w - 2*cardPadding
	imageH := innerW * imageRatio
	cursor := y + cardPadding

	if !r.drawImage(pdf, p, innerX, cursor, innerW, imageH) {
		pdf.SetFillColor(228, 228, 231)
		pdf.Rect(innerX, cursor, innerW, imageH, "F")
	}
	cursor += imageH + 2

	pdf.SetXY(innerX, cursor)
	pdf.SetFont(fontFamily, "B", 12)
	pdf.CellFormat(innerW, nameHeight, tr(p.Name), "", 0, "L", false, 0, "")
	cursor += nameHeight

	pdf.SetFont(fontFamily, "", 9)
	pdf.SetTextColor(82, 82, 91)
	lines := pdf.SplitLines([]byte(tr(p.Description)), innerW)
	for n, line := range lines {
		if n == descMaxLines {
			break
		}
		pdf.SetXY(innerX, cursor+float64(n)*descLineH)
		pdf.CellFormat(innerW, descLineH, string(line), "", 0, "L", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
	cursor += descLineH * descMaxLines

	pdf.SetXY(innerX, cursor)
	pdf.SetFont(fontFamily, "B", 11)
	pdf.CellFormat(innerW, priceHeight, render.FormatPrice(p.Price), "", 0, "L", false, 0, "")

	pdf.SetFillColor(0, 0, 0)
	pdf.SetDrawColor(0, 0, 0)
}

// drawImage embeds the product image and reports whether it was drawn
func (r DocumentRenderer) drawImage(pdf *gofpdf.Fpdf, p models.Product, x, y, w, h float64) bool {
	if r.Images == nil || !p.HasImage() {
		return false
	}
	img, ok := r.Images.Get(p.Image)
	if !ok {
		return false
	}

	name := "product-" + p.ID
	opts := gofpdf.ImageOptions{ImageType: img.Type}
	if info := pdf.GetImageInfo(name); info == nil {
		pdf.RegisterImageOptionsReader(name, opts, img.Reader())
		if pdf.Err() {
			// a corrupt image must not fail the whole document
			pdf.ClearError()
			return false
		}
	}
	pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	return true
}

func drawPriceIndex(pdf *gofpdf.Fpdf, tr func(string) string, products []models.Product) error {
	pdf.AddPage()
	pdf.SetFont(fontFamily, "B", 16)
	pdf.CellFormat(0, 10, tr("Índice de preços"), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	pdf.SetFont(fontFamily, "", 10)

	tbl := table.New(pdf)
	tbl.SetColumns(
		table.ColumnDef{Width: 15, Align: "C"},
		table.ColumnDef{},
		table.ColumnDef{Width: 40, Align: "R"},
	)
	tbl.SetStyle(table.TableStyle{
		CellPadding: table.UniformPadding(1.5),
		Border:      &table.BorderStyle{Width: 0.2, Color: table.RGBColor{R: 212, G: 212, B: 216}},
		HeaderStyle: &table.CellStyle{
			FillColor: &table.RGBColor{R: 37, G: 99, B: 235},
			TextColor: &table.RGBColor{R: 255, G: 255, B: 255},
			Font:      &table.FontSpec{Family: fontFamily, Style: "B", Size: 10},
			Align:     "C",
		},
		AlternateRows: &table.AlternateStyle{
			Even: table.CellStyle{FillColor: &table.RGBColor{R: 244, G: 244, B: 245}},
			Odd:  table.CellStyle{FillColor: &table.RGBColor{R: 255, G: 255, B: 255}},
		},
		CellFont: &table.FontSpec{Family: fontFamily, Size: 10},
	})

	header := tbl.AddHeaderRow()
	header.AddCell("#")
	header.AddCell("Produto")
	header.AddCell(tr("Preço"))

	for _, p := range products {
		row := tbl.AddRow()
		row.AddCell(p.ID)
		row.AddCell(tr(p.Name))
		row.AddCell(render.FormatPrice(p.Price))
	}

	return tbl.Render()
}
