package ingest

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/docuvoice/docuvoice/internal/core"
)

// Upload is one file received from the browser.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// ExtractAll extracts every upload and concatenates the results in upload
// order, with no separators. Files are extracted concurrently, each into its
// own slot, so ordering is preserved regardless of completion order. Uploads
// that yield no text contribute nothing; an all-empty batch returns "".
func ExtractAll(ctx context.Context, extractor core.DocumentExtractor, uploads []Upload) (string, error) {
	texts := make([]string, len(uploads))

	g, gctx := errgroup.WithContext(ctx)
	for i := range uploads {
		i := i
		g.Go(func() error {
			text, err := extractor.ExtractText(gctx, uploads[i].Data, uploads[i].ContentType)
			if err != nil {
				return err
			}
			texts[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	var total int
	for _, t := range texts {
		total += len(t)
	}
	buf := make([]byte, 0, total)
	for _, t := range texts {
		buf = append(buf, t...)
	}
	return string(buf), nil
}
