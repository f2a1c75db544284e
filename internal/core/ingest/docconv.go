package ingest

import (
	"bytes"
	"context"
	"log"

	"code.sajari.com/docconv"

	"github.com/docuvoice/docuvoice/internal/core"
)

var _ core.DocumentExtractor = (*DocconvExtractor)(nil)

// DocconvExtractor handles non-PDF uploads (txt, docx, html) via sajari/docconv.
// PDFs are routed to the page-order extractor instead so page ordering is kept.
type DocconvExtractor struct {
	useReadability bool
	pdf            *PDFExtractor
}

func NewDocconvExtractor(useReadability bool) *DocconvExtractor {
	return &DocconvExtractor{useReadability: useReadability, pdf: NewPDFExtractor()}
}

// ExtractText pulls the plain text out of one uploaded file. A file that yields
// no text contributes an empty string without error.
func (e *DocconvExtractor) ExtractText(ctx context.Context, data []byte, contentType string) (string, error) {
	if contentType == "application/pdf" {
		text, err := e.pdf.Extract(data)
		if err != nil {
			log.Printf("pdf: extraction failed: %v", err)
			return "", nil
		}
		return text, nil
	}

	res, err := docconv.Convert(bytes.NewReader(data), contentType, e.useReadability)
	if err != nil {
		log.Printf("docconv: extraction failed for content type %q: %v", contentType, err)
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return res.Body, nil
}
