// Package render turns invoice documents into downloadable byte streams.
// Business logic never touches layout: it hands a billing.InvoiceDocument to
// a Renderer and gets opaque bytes back, so rendering engines can be swapped
// without touching the document builder.
package render

import (
	"context"
	"errors"

	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/billing"
)

// ErrRenderFailure wraps any failure of the underlying rendering engine.
// Callers surface a generic message to end users; the cause is only logged.
var ErrRenderFailure = errors.New("render failure")

// PageFormat configures the output page. Renderers draw from document data
// only; no remote resources are ever fetched.
type PageFormat struct {
	Size        string // A4 or Letter
	Orientation string // P or L
	FontFamily  string
}

// Result is a rendered invoice ready for download
type Result struct {
	Bytes       []byte
	Filename    string // invoice-<code>.<ext>
	ContentType string
}

// Renderer converts an invoice document into a byte stream
type Renderer interface {
	Render(ctx context.Context, doc *billing.InvoiceDocument, format PageFormat) (*Result, error)
}
