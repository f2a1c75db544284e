package core

import "context"

// DocumentExtractor pulls plain text out of one uploaded file. The contentType
// hint selects the parsing strategy. A file that yields no text returns an
// empty string without error; it simply contributes nothing.
type DocumentExtractor interface {
	ExtractText(ctx context.Context, data []byte, contentType string) (string, error)
}
