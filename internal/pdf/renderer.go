package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// Page layout, in millimetres.
const (
	titleWidth  = 200
	lineHeight  = 10
	titleGap    = 10
	fontFamily  = "Helvetica"
	fontSize    = 12
	pageSize    = "A4"
	orientation = "P"
	unit        = "mm"
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithCreationDate fixes the creation and modification dates written into
// the document metadata, making output reproducible.
func WithCreationDate(t time.Time) Option {
	return func(r *Renderer) {
		r.created = t
	}
}

// Renderer produces single-page A4 PDFs with a centred title and a wrapped body.
// It holds no mutable state and is safe for concurrent use.
type Renderer struct {
	created time.Time
}

// NewRenderer creates a Renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render lays out title and text and returns the encoded document. Both
// strings are passed through Normalize first.
func (r *Renderer) Render(text, title string) ([]byte, error) {
	doc := fpdf.New(orientation, unit, pageSize, "")
	if !r.created.IsZero() {
		doc.SetCreationDate(r.created)
		doc.SetModificationDate(r.created)
	}

	tr := doc.UnicodeTranslatorFromDescriptor("")
	title = tr(Normalize(title))
	text = tr(Normalize(text))

	doc.SetTitle(title, false)
	doc.AddPage()
	doc.SetFont(fontFamily, "", fontSize)
	doc.CellFormat(titleWidth, lineHeight, title, "", 1, "C", false, 0, "")
	doc.Ln(titleGap)
	doc.MultiCell(0, lineHeight, text, "", "", false)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
