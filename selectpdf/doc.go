// Package selectpdf is the core of a client for the SelectPdf online API.
//
// Every call follows the same lifecycle: build a [Request] (the parameter
// store), encode it as url-encoded or multipart/form-data, POST it to one of
// the service endpoints and interpret the [Envelope] that comes back. Calls
// made with async=True are accepted as jobs (HTTP 202) and driven to
// completion by a [Poller].
//
// The feature clients live in sub-packages: htmltopdf, pdftotext, pdfmerge,
// usage, webelements and asyncjob. They all share one [Client]:
//
//	c, err := selectpdf.New(apiKey, selectpdf.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	res, err := htmltopdf.New(c).ConvertURL(ctx, "https://example.com",
//		htmltopdf.WithPageSize(htmltopdf.PageSizeA4))
//
// All errors are *[Error]; use [IsValidation], [IsAPI], [IsTimeout] and friends
// to branch on the kind.
package selectpdf
