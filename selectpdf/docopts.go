package selectpdf

// Options shared by every call that produces a PDF (HTML conversion and merge).

func WithDocTitle(title string) RequestOption { return WithParam("doc_title", title) }

func WithDocSubject(subject string) RequestOption { return WithParam("doc_subject", subject) }

func WithDocKeywords(keywords string) RequestOption { return WithParam("doc_keywords", keywords) }

func WithDocAuthor(author string) RequestOption { return WithParam("doc_author", author) }

func WithDocAddCreationDate(v bool) RequestOption { return withBool("doc_add_creation_date", v) }

func WithViewerPageLayout(l PageLayout) RequestOption {
	return func(r *Request) error {
		if !l.valid() {
			return validationError("options", "unknown page layout %d", int(l))
		}
		r.Set("viewer_page_layout", l.String())
		return nil
	}
}

func WithViewerPageMode(m PageMode) RequestOption {
	return func(r *Request) error {
		if !m.valid() {
			return validationError("options", "unknown page mode %d", int(m))
		}
		r.Set("viewer_page_mode", m.String())
		return nil
	}
}

func WithViewerCenterWindow(v bool) RequestOption { return withBool("viewer_center_window", v) }

func WithViewerDisplayDocTitle(v bool) RequestOption {
	return withBool("viewer_display_doc_title", v)
}

func WithViewerFitWindow(v bool) RequestOption { return withBool("viewer_fit_window", v) }

func WithViewerHideMenuBar(v bool) RequestOption { return withBool("viewer_hide_menu_bar", v) }

func WithViewerHideToolbar(v bool) RequestOption { return withBool("viewer_hide_toolbar", v) }

func WithViewerHideWindowUI(v bool) RequestOption { return withBool("viewer_hide_window_ui", v) }

// WithUserPassword protects the output PDF with a password required to open it.
func WithUserPassword(pw string) RequestOption { return WithParam("user_password", pw) }

// WithOwnerPassword sets the password required to change the output PDF's permissions.
func WithOwnerPassword(pw string) RequestOption { return WithParam("owner_password", pw) }

// WithServiceTimeout sets the server-side time budget for the operation, in seconds.
func WithServiceTimeout(seconds int) RequestOption {
	return func(r *Request) error {
		if seconds <= 0 {
			return validationError("options", "timeout must be positive, got %d", seconds)
		}
		r.SetInt("timeout", seconds)
		return nil
	}
}

// WithBool sets a raw boolean parameter, rendered as true/false.
func WithBool(key string, v bool) RequestOption { return withBool(key, v) }

func WithInt(key string, v int) RequestOption {
	return func(r *Request) error {
		r.SetInt(key, v)
		return nil
	}
}

func withBool(key string, v bool) RequestOption {
	return func(r *Request) error {
		r.SetBool(key, v)
		return nil
	}
}
