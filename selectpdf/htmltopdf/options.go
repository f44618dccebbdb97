package htmltopdf

import (
	"fmt"
	"maps"
	"net/url"
	"slices"

	"github.com/lgc202/selectpdf-go/selectpdf"
)

// Option configures a conversion request.
type Option = selectpdf.RequestOption

// Options shared with the merge client.
var (
	WithDocTitle              = selectpdf.WithDocTitle
	WithDocSubject            = selectpdf.WithDocSubject
	WithDocKeywords           = selectpdf.WithDocKeywords
	WithDocAuthor             = selectpdf.WithDocAuthor
	WithDocAddCreationDate    = selectpdf.WithDocAddCreationDate
	WithViewerPageLayout      = selectpdf.WithViewerPageLayout
	WithViewerPageMode        = selectpdf.WithViewerPageMode
	WithViewerCenterWindow    = selectpdf.WithViewerCenterWindow
	WithViewerDisplayDocTitle = selectpdf.WithViewerDisplayDocTitle
	WithViewerFitWindow       = selectpdf.WithViewerFitWindow
	WithViewerHideMenuBar     = selectpdf.WithViewerHideMenuBar
	WithViewerHideToolbar     = selectpdf.WithViewerHideToolbar
	WithViewerHideWindowUI    = selectpdf.WithViewerHideWindowUI
	WithUserPassword          = selectpdf.WithUserPassword
	WithOwnerPassword         = selectpdf.WithOwnerPassword
	WithCustomParameter       = selectpdf.WithParam
)

const op = "htmltopdf"

func set(key, value string) Option { return selectpdf.WithParam(key, value) }

func setBool(key string, v bool) Option { return selectpdf.WithBool(key, v) }

func nonNegative(key string, v int) Option {
	return func(r *selectpdf.Request) error {
		if v < 0 {
			return &selectpdf.Error{Kind: selectpdf.ErrKindValidation, Op: op, Message: key + " must not be negative"}
		}
		r.SetInt(key, v)
		return nil
	}
}

func validURL(key, raw string) Option {
	return func(r *selectpdf.Request) error {
		if err := selectpdf.ValidateURL(op, raw); err != nil {
			return err
		}
		r.Set(key, raw)
		return nil
	}
}

func validColor(key, color string) Option {
	return func(r *selectpdf.Request) error {
		if err := selectpdf.ValidateColor(op, color); err != nil {
			return err
		}
		r.Set(key, color)
		return nil
	}
}

func invalid(format string, args ...any) error {
	return &selectpdf.Error{Kind: selectpdf.ErrKindValidation, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Page setup.

func WithPageSize(s PageSize) Option {
	return func(r *selectpdf.Request) error {
		if !s.valid() {
			return invalid("unknown page size %q", string(s))
		}
		r.Set("page_size", string(s))
		return nil
	}
}

// WithPageWidth sets the page width in points. Used with PageSizeCustom.
func WithPageWidth(points int) Option { return nonNegative("page_width", points) }

// WithPageHeight sets the page height in points. Used with PageSizeCustom.
func WithPageHeight(points int) Option { return nonNegative("page_height", points) }

func WithPageOrientation(o PageOrientation) Option {
	return func(r *selectpdf.Request) error {
		if !o.valid() {
			return invalid("unknown page orientation %q", string(o))
		}
		r.Set("page_orientation", string(o))
		return nil
	}
}

func WithMarginTop(points int) Option    { return nonNegative("margin_top", points) }
func WithMarginRight(points int) Option  { return nonNegative("margin_right", points) }
func WithMarginBottom(points int) Option { return nonNegative("margin_bottom", points) }
func WithMarginLeft(points int) Option   { return nonNegative("margin_left", points) }

// WithMargins sets all four margins.
func WithMargins(points int) Option {
	return func(r *selectpdf.Request) error {
		for _, k := range []string{"margin_top", "margin_right", "margin_bottom", "margin_left"} {
			if err := nonNegative(k, points)(r); err != nil {
				return err
			}
		}
		return nil
	}
}

// WithPdfName sets the file name reported by the service.
func WithPdfName(name string) Option { return set("pdf_name", name) }

// Rendering.

func WithRenderingEngine(e RenderingEngine) Option {
	return func(r *selectpdf.Request) error {
		if !e.valid() {
			return invalid("unknown rendering engine %q", string(e))
		}
		r.Set("engine", string(e))
		return nil
	}
}

func WithWebPageWidth(px int) Option  { return nonNegative("web_page_width", px) }
func WithWebPageHeight(px int) Option { return nonNegative("web_page_height", px) }

// WithMinLoadTime waits the given number of seconds after the page loads before converting.
func WithMinLoadTime(seconds int) Option { return nonNegative("min_load_time", seconds) }

// WithConversionDelay is an alias for WithMinLoadTime.
func WithConversionDelay(seconds int) Option { return WithMinLoadTime(seconds) }

// WithMaxLoadTime bounds page navigation, in seconds.
func WithMaxLoadTime(seconds int) Option { return nonNegative("max_load_time", seconds) }

// WithNavigationTimeout is an alias for WithMaxLoadTime.
func WithNavigationTimeout(seconds int) Option { return WithMaxLoadTime(seconds) }

func WithSecureProtocol(p SecureProtocol) Option {
	return func(r *selectpdf.Request) error {
		if !p.valid() {
			return invalid("unknown secure protocol %d", int(p))
		}
		r.Set("protocol", p.String())
		return nil
	}
}

func WithUseCSSPrint(v bool) Option { return setBool("use_css_print", v) }

// WithBackgroundColor sets the page background; color is RRGGBB with an optional '#'.
func WithBackgroundColor(color string) Option { return validColor("background_color", color) }

func WithDrawHTMLBackground(v bool) Option   { return setBool("draw_html_background", v) }
func WithDisableJavascript(v bool) Option    { return setBool("disable_javascript", v) }
func WithDisableInternalLinks(v bool) Option { return setBool("disable_internal_links", v) }
func WithDisableExternalLinks(v bool) Option { return setBool("disable_external_links", v) }
func WithRenderOnTimeout(v bool) Option      { return setBool("render_on_timeout", v) }
func WithKeepImagesTogether(v bool) Option   { return setBool("keep_images_together", v) }

func WithStartupMode(m StartupMode) Option {
	return func(r *selectpdf.Request) error {
		if !m.valid() {
			return invalid("unknown startup mode %q", string(m))
		}
		r.Set("startup_mode", string(m))
		return nil
	}
}

// WithSkipDecoding sends html as-is; by default the service decodes html entities first.
func WithSkipDecoding(v bool) Option { return setBool("skip_decoding", v) }

func WithScaleImages(v bool) Option                 { return setBool("scale_images", v) }
func WithSinglePagePdf(v bool) Option               { return setBool("single_page_pdf", v) }
func WithPageBreaksEnhancedAlgorithm(v bool) Option { return setBool("page_breaks_enhanced_algorithm", v) }

// WithCookies sends cookies to the converted page. They travel url-encoded in
// a single parameter, in name order.
func WithCookies(cookies map[string]string) Option {
	return func(r *selectpdf.Request) error {
		v := make(url.Values, len(cookies))
		for _, k := range slices.Sorted(maps.Keys(cookies)) {
			v.Set(k, cookies[k])
		}
		r.Set("cookies_string", v.Encode())
		return nil
	}
}

// Element selection.

// WithPdfBookmarksSelectors creates outlines for elements matching the CSS selectors.
func WithPdfBookmarksSelectors(selectors string) Option {
	return set("pdf_bookmarks_selectors", selectors)
}

func WithPdfHideElements(selectors string) Option { return set("pdf_hide_elements", selectors) }

func WithPdfShowOnlyElementID(id string) Option { return set("pdf_show_only_element_id", id) }

// WithPdfWebElementsSelectors asks the service to record the location of
// matching elements; fetch them afterwards with Client.WebElements.
func WithPdfWebElementsSelectors(selectors string) Option {
	return set("pdf_web_elements_selectors", selectors)
}
