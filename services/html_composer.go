package services

import (
	"bytes"
	"html/template"
	"path/filepath"

	"github.com/aj9599/qr-slip/models"
)

// HTMLComposer binds descriptors and their rendered SVGs into the
// `qr_slip.html` template loaded once at startup, rather than
// re-parsing per request.
type HTMLComposer struct {
	tmpl *template.Template
}

// slipPage is the per-descriptor context entry the template iterates
// over; field names are the template's public contract.
type slipPage struct {
	Descriptor models.Descriptor
	QRCode     template.HTML
}

// NewHTMLComposer loads qr_slip.html from templateDir. Failure to load
// is fatal at startup (§4.D/§6), so callers should treat a non-nil
// error as unrecoverable.
func NewHTMLComposer(templateDir string) (*HTMLComposer, error) {
	path := filepath.Join(templateDir, "qr_slip.html")

	tmpl, err := template.New("qr_slip.html").ParseFiles(path)
	if err != nil {
		return nil, teraErr("failed to load qr_slip.html: " + err.Error())
	}

	return &HTMLComposer{tmpl: tmpl}, nil
}

// Compose renders the single HTML document for the given descriptors
// and their aligned-index SVGs, pushed into the template as the
// `QRDataVec` context binding descriptors and SVGs index-by-index
// (§4.D). Engine errors flatten into a single TeraError message; the
// name is kept because it identifies the error kind on the wire, not a
// library.
func (c *HTMLComposer) Compose(descriptors []models.Descriptor, svgs []string) (string, error) {
	pages := make([]slipPage, len(descriptors))
	for i, d := range descriptors {
		pages[i] = slipPage{
			Descriptor: d,
			QRCode:     template.HTML(svgs[i]),
		}
	}

	data := struct {
		QRDataVec []slipPage
	}{
		QRDataVec: pages,
	}

	var buf bytes.Buffer
	if err := c.tmpl.ExecuteTemplate(&buf, "qr_slip.html", data); err != nil {
		return "", teraErr("failed to render qr_slip.html: " + err.Error())
	}

	return buf.String(), nil
}
