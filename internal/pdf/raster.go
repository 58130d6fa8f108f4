package catalogpdf

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

const (
	defaultScale = 1.0

	// CatalogRootID is the element captured by rasterization
	CatalogRootID = "catalog-root"

	exportStyleID = "pdf-export-style"
	exportCSS     = `.header, .header-buttons, .btn-secondary { display: none !important; }
.page { padding: 0 !important; background: #fff !important; }
.catalog { border-radius: 0 !important; }`
)

var (
	ErrCatalogRootMissing = errors.New("catalog root element not found")
	ErrEngineUnavailable  = errors.New("chromium allocator unavailable")
)

var lengthPattern = regexp.MustCompile(`^\s*([0-9]+(?:\.[0-9]+)?)\s*([a-zA-Z]*)\s*$`)

var pageSizesInches = map[string]struct {
	width  float64
	height float64
}{
	"A3":     {width: 11.69, height: 16.54},
	"A4":     {width: 8.27, height: 11.69},
	"A5":     {width: 5.83, height: 8.27},
	"LETTER": {width: 8.5, height: 11},
	"LEGAL":  {width: 8.5, height: 14},
}

// Engine converts rendered HTML into PDF bytes
type Engine interface {
	Render(ctx context.Context, html []byte) ([]byte, error)
}

// EngineFunc adapts a function to an Engine
type EngineFunc func(ctx context.Context, html []byte) ([]byte, error)

func (f EngineFunc) Render(ctx context.Context, html []byte) ([]byte, error) {
	if f == nil {
		return nil, errors.New("pdf engine func is nil")
	}
	return f(ctx, html)
}

// PrintOptions controls Chromium's print-to-PDF call
type PrintOptions struct {
	PageSize        string // A3, A4, A5, Letter, Legal
	Landscape       bool
	PrintBackground bool
	Scale           float64
	// Margin applies to all four sides, e.g. "10mm", "0.5in", "12px"
	Margin string
}

// DefaultPrintOptions matches the pre-rendered document: A4 portrait with backgrounds
func DefaultPrintOptions() PrintOptions {
	return PrintOptions{
		PageSize:        "A4",
		PrintBackground: true,
		Scale:           defaultScale,
		Margin:          "10mm",
	}
}

// RasterEngine rasterizes the catalog page with a shared headless Chromium instance.
// The browser starts on first use; each render runs in its own tab.
type RasterEngine struct {
	BrowserPath string
	Headless    bool
	Timeout     time.Duration
	Args        []string
	Options     PrintOptions

	// afterRender runs in the tab once the stylesheet is removed
	afterRender chromedp.Action

	initOnce      sync.Once
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// NewRasterEngine creates a headless engine with the default print options
func NewRasterEngine(browserPath string, timeout time.Duration) *RasterEngine {
	return &RasterEngine{
		BrowserPath: browserPath,
		Headless:    true,
		Timeout:     timeout,
		Options:     DefaultPrintOptions(),
	}
}

// Render loads html into a blank tab and waits for its images and fonts. It then
// adds a transient export stylesheet that hides everything outside the catalog
// container, prints the page and removes the stylesheet. The wait is bounded by Timeout.
func (e *RasterEngine) Render(ctx context.Context, html []byte) ([]byte, error) {
	if e == nil {
		return nil, errors.New("raster engine is nil")
	}

	params, err := buildPrintParams(e.Options)
	if err != nil {
		return nil, err
	}

	if err := e.ensureBrowser(); err != nil {
		return nil, fmt.Errorf("chromium engine init failed: %w", err)
	}

	tabCtx, cancel := chromedp.NewContext(e.browserCtx)
	defer cancel()

	reqCtx, cancelReq := context.WithCancel(tabCtx)
	defer cancelReq()
	go func() {
		select {
		case <-ctx.Done():
			cancelReq()
		case <-reqCtx.Done():
		}
	}()

	execCtx := reqCtx
	if e.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		execCtx, cancelTimeout = context.WithTimeout(execCtx, e.Timeout)
		defer cancelTimeout()
	}

	var (
		pdf     []byte
		hasRoot bool
		loaded  bool
		added   bool
		removed bool
	)
	actions := []chromedp.Action{
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(fmt.Sprintf(`document.getElementById(%q) !== null`, CatalogRootID), &hasRoot),
		chromedp.ActionFunc(func(ctx context.Context) error {
			if !hasRoot {
				return ErrCatalogRootMissing
			}
			return nil
		}),
		chromedp.Evaluate(waitAssetsScript(), &loaded, awaitPromise),
		chromedp.Evaluate(addStyleScript(), &added),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = params.Do(ctx)
			return err
		}),
		chromedp.Evaluate(removeStyleScript(), &removed),
	}
	if e.afterRender != nil {
		actions = append(actions, e.afterRender)
	}

	err = chromedp.Run(execCtx, actions...)
	if err != nil {
		if errors.Is(err, ErrCatalogRootMissing) {
			return nil, ErrCatalogRootMissing
		}
		return nil, fmt.Errorf("chromium pdf render failed: %w", err)
	}
	return pdf, nil
}

// Close releases Chromium resources if they have been initialized
func (e *RasterEngine) Close() error {
	if e == nil {
		return nil
	}
	if e.browserCancel != nil {
		e.browserCancel()
	}
	if e.allocCancel != nil {
		e.allocCancel()
	}
	return nil
}

func (e *RasterEngine) ensureBrowser() error {
	e.initOnce.Do(func() {
		options := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
		if e.BrowserPath != "" {
			options = append(options, chromedp.ExecPath(e.BrowserPath))
		}
		options = append(options, chromedp.Flag("headless", e.Headless))
		options = append(options, allocatorOptionsFromArgs(e.Args)...)

		e.allocCtx, e.allocCancel = chromedp.NewExecAllocator(context.Background(), options...)
		e.browserCtx, e.browserCancel = chromedp.NewContext(e.allocCtx)
	})
	if e.allocCtx == nil || e.browserCtx == nil {
		return ErrEngineUnavailable
	}
	return nil
}

func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}

// waitAssetsScript resolves once every image has loaded or failed and web fonts are ready
func waitAssetsScript() string {
	return `Promise.all([
  ...Array.from(document.images)
    .filter((img) => !img.complete)
    .map((img) => new Promise((resolve) => {
      img.addEventListener("load", resolve, { once: true });
      img.addEventListener("error", resolve, { once: true });
    })),
  document.fonts ? document.fonts.ready : Promise.resolve(),
]).then(() => true)`
}

func addStyleScript() string {
	return fmt.Sprintf(`(() => {
  const style = document.createElement("style");
  style.id = %q;
  style.textContent = %q;
  document.head.appendChild(style);
  return true;
})()`, exportStyleID, exportCSS)
}

func removeStyleScript() string {
	return fmt.Sprintf(`(() => {
  const style = document.getElementById(%q);
  if (style) { style.remove(); return true; }
  return false;
})()`, exportStyleID)
}

func buildPrintParams(opts PrintOptions) (*page.PrintToPDFParams, error) {
	params := page.PrintToPDF()

	scale := opts.Scale
	if scale == 0 {
		scale = defaultScale
	}
	if scale < 0.1 || scale > 2.0 {
		return nil, fmt.Errorf("pdf scale must be between 0.1 and 2.0, got %v", scale)
	}
	params = params.WithScale(scale).
		WithLandscape(opts.Landscape).
		WithPrintBackground(opts.PrintBackground)

	if opts.PageSize == "" {
		params = params.WithPreferCSSPageSize(true)
	} else {
		size, ok := pageSizesInches[strings.ToUpper(opts.PageSize)]
		if !ok {
			return nil, fmt.Errorf("unsupported pdf page size: %s", opts.PageSize)
		}
		params = params.WithPaperWidth(size.width).WithPaperHeight(size.height)
	}

	if opts.Margin != "" {
		margin, err := parseLengthInches(opts.Margin)
		if err != nil {
			return nil, err
		}
		params = params.
			WithMarginTop(margin).
			WithMarginBottom(margin).
			WithMarginLeft(margin).
			WithMarginRight(margin)
	}

	return params, nil
}

func parseLengthInches(value string) (float64, error) {
	matches := lengthPattern.FindStringSubmatch(value)
	if len(matches) != 3 {
		return 0, fmt.Errorf("invalid pdf length: %s", value)
	}

	amount, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid pdf length: %s: %w", value, err)
	}

	switch unit := strings.ToLower(matches[2]); unit {
	case "", "in":
		return amount, nil
	case "cm":
		return amount / 2.54, nil
	case "mm":
		return amount / 25.4, nil
	case "pt":
		return amount / 72.0, nil
	case "px":
		return amount / 96.0, nil
	default:
		return 0, fmt.Errorf("unsupported pdf length unit: %s", unit)
	}
}

func allocatorOptionsFromArgs(args []string) []chromedp.ExecAllocatorOption {
	options := make([]chromedp.ExecAllocatorOption, 0, len(args))
	for _, arg := range args {
		arg = strings.TrimPrefix(strings.TrimSpace(arg), "--")
		if arg == "" {
			continue
		}
		if name, value, ok := strings.Cut(arg, "="); ok {
			options = append(options, chromedp.Flag(name, value))
			continue
		}
		options = append(options, chromedp.Flag(arg, true))
	}
	return options
}
