package selectpdf

import (
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate

	colorRe = regexp.MustCompile(`^#?[0-9a-fA-F]{6}$`)
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() { validate = validator.New() })
	return validate
}

// ValidateURL accepts absolute http:// and https:// URLs that do not point at
// the caller's own machine; the service can only fetch public pages.
func ValidateURL(op, raw string) error {
	if err := ValidateHTTPURL(op, raw); err != nil {
		return err
	}
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return &Error{Kind: ErrKindValidation, Op: op, Message: "invalid url " + quote(raw), Cause: err}
	}
	if strings.EqualFold(u.Hostname(), "localhost") {
		return validationError(op, "cannot convert local urls, the service can only convert publicly available urls")
	}
	return nil
}

// ValidateHTTPURL accepts absolute http:// and https:// URLs.
func ValidateHTTPURL(op, raw string) error {
	s := strings.TrimSpace(raw)
	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return validationError(op, "the supported protocols are http:// and https://")
	}
	if err := structValidator().Var(s, "required,http_url"); err != nil {
		return &Error{Kind: ErrKindValidation, Op: op, Message: "invalid url " + quote(s), Cause: err}
	}
	return nil
}

// ValidateColor accepts RRGGBB with an optional leading '#'.
func ValidateColor(op, color string) error {
	if !colorRe.MatchString(color) {
		return validationError(op, "color value must be in #RRGGBB format, got %s", quote(color))
	}
	return nil
}

// ValidateNotBlank rejects empty or whitespace-only values.
func ValidateNotBlank(op, field, value string) error {
	if strings.TrimSpace(value) == "" {
		return validationError(op, "%s must not be empty", field)
	}
	return nil
}

// ValidateRange rejects n outside [min, max].
func ValidateRange(op, field string, n, lo, hi int) error {
	if n < lo || n > hi {
		return validationError(op, "%s must be between %d and %d, got %d", field, lo, hi, n)
	}
	return nil
}

func quote(s string) string { return `"` + s + `"` }
