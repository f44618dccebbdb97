// Package htmltopdf converts web pages and html strings to PDF.
//
//	pdf := htmltopdf.New(client)
//	info, err := pdf.ConvertURLToFile(ctx, "https://selectpdf.com", "out.pdf",
//		htmltopdf.WithPageSize(htmltopdf.PageSizeA4),
//		htmltopdf.WithMargins(0),
//		htmltopdf.WithShowPageNumbers(false),
//	)
//
// Options are validated before anything is sent; an invalid color or a
// header url pointing at localhost fails with a validation error.
package htmltopdf
