package htmltopdf

import "github.com/lgc202/selectpdf-go/selectpdf"

// Header.

func WithShowHeader(v bool) Option { return setBool("show_header", v) }

// WithHeaderHeight sets the header height in points.
func WithHeaderHeight(points int) Option { return nonNegative("header_height", points) }

// WithHeaderURL renders the header from a public web page.
func WithHeaderURL(u string) Option { return validURL("header_url", u) }

// WithHeaderHTML renders the header from raw html. Use WithHeaderBaseURL to resolve relative assets.
func WithHeaderHTML(html string) Option { return set("header_html", html) }

func WithHeaderBaseURL(u string) Option { return validURL("header_base_url", u) }

func WithHeaderDisplayOnFirstPage(v bool) Option { return setBool("header_display_on_first_page", v) }
func WithHeaderDisplayOnOddPages(v bool) Option  { return setBool("header_display_on_odd_pages", v) }
func WithHeaderDisplayOnEvenPages(v bool) Option { return setBool("header_display_on_even_pages", v) }

func WithHeaderWebPageWidth(px int) Option  { return nonNegative("header_web_page_width", px) }
func WithHeaderWebPageHeight(px int) Option { return nonNegative("header_web_page_height", px) }

// Footer.

func WithShowFooter(v bool) Option { return setBool("show_footer", v) }

// WithFooterHeight sets the footer height in points.
func WithFooterHeight(points int) Option { return nonNegative("footer_height", points) }

func WithFooterURL(u string) Option     { return validURL("footer_url", u) }
func WithFooterHTML(html string) Option { return set("footer_html", html) }
func WithFooterBaseURL(u string) Option { return validURL("footer_base_url", u) }

func WithFooterDisplayOnFirstPage(v bool) Option { return setBool("footer_display_on_first_page", v) }
func WithFooterDisplayOnOddPages(v bool) Option  { return setBool("footer_display_on_odd_pages", v) }
func WithFooterDisplayOnEvenPages(v bool) Option { return setBool("footer_display_on_even_pages", v) }

// WithFooterDisplayOnLastPage shows a dedicated footer on the last page.
func WithFooterDisplayOnLastPage(v bool) Option { return setBool("footer_display_on_last_page", v) }

func WithFooterWebPageWidth(px int) Option  { return nonNegative("footer_web_page_width", px) }
func WithFooterWebPageHeight(px int) Option { return nonNegative("footer_web_page_height", px) }

// Page numbers, drawn in the footer.

func WithShowPageNumbers(v bool) Option { return setBool("page_numbers", v) }

// WithPageNumbersFirst sets the number of the first page.
func WithPageNumbersFirst(n int) Option {
	return func(r *selectpdf.Request) error {
		r.SetInt("page_numbers_first", n)
		return nil
	}
}

// WithPageNumbersOffset is added to the total page count shown by {page_count}.
func WithPageNumbersOffset(n int) Option {
	return func(r *selectpdf.Request) error {
		r.SetInt("page_numbers_offset", n)
		return nil
	}
}

// WithPageNumbersTemplate sets the page number text, e.g. "Page {page_number} of {total_pages}".
func WithPageNumbersTemplate(tmpl string) Option { return set("page_numbers_template", tmpl) }

func WithPageNumbersFontName(name string) Option { return set("page_numbers_font_name", name) }

func WithPageNumbersFontSize(size int) Option {
	return func(r *selectpdf.Request) error {
		if size <= 0 {
			return invalid("page numbers font size must be positive, got %d", size)
		}
		r.SetInt("page_numbers_font_size", size)
		return nil
	}
}

func WithPageNumbersAlignment(a PageNumbersAlignment) Option {
	return func(r *selectpdf.Request) error {
		if !a.valid() {
			return invalid("unknown page numbers alignment %d", int(a))
		}
		r.Set("page_numbers_alignment", a.String())
		return nil
	}
}

func WithPageNumbersColor(color string) Option { return validColor("page_numbers_color", color) }

// WithPageNumbersVerticalPosition sets the distance in points from the top of the footer.
func WithPageNumbersVerticalPosition(points int) Option {
	return nonNegative("page_numbers_pos_y", points)
}
