// Package catalogpdf renders the product catalog as a PDF document.
//
// DocumentRenderer draws the catalog directly with gofpdf and backs the
// pre-rendered /pdf endpoint. Rasterizer renders the catalog page to HTML and
// converts it with an Engine, normally the headless Chromium RasterEngine.
package catalogpdf
