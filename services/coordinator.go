package services

import "github.com/aj9599/qr-slip/models"

// Coordinator is the per-request orchestrator (§4.F): validate every
// descriptor, render every SVG, compose one HTML document, submit it to
// the PDF engine, and return the finished bytes. It holds no per-request
// state of its own; everything it touches is either immutable after
// startup (the template) or owned exclusively by the engine.
type Coordinator struct {
	composer *HTMLComposer
	engine   PDFEngine
}

func NewCoordinator(composer *HTMLComposer, engine PDFEngine) *Coordinator {
	return &Coordinator{composer: composer, engine: engine}
}

// Generate validates and renders descriptors in input order and returns
// the resulting PDF bytes, one page per descriptor in the same order.
// The first validation or QR failure aborts the request before anything
// is submitted to the engine; no partial PDF is ever produced (§4.F,
// §8 coordinator invariant).
func (c *Coordinator) Generate(descriptors []models.Descriptor) ([]byte, error) {
	html, err := c.renderHTML(descriptors)
	if err != nil {
		return nil, err
	}

	return c.engine.Submit(html)
}

// ComposeHTML runs validation and SVG rendering and returns the
// composed HTML document without submitting it to the PDF engine. Used
// by the debug `/dbg-qr-html` surface, which dumps the intermediate
// HTML rather than a finished PDF (§6).
func (c *Coordinator) ComposeHTML(descriptors []models.Descriptor) (string, error) {
	return c.renderHTML(descriptors)
}

func (c *Coordinator) renderHTML(descriptors []models.Descriptor) (string, error) {
	svgs := make([]string, len(descriptors))

	for i := range descriptors {
		if err := Validate(&descriptors[i]); err != nil {
			return "", err
		}

		payload := EncodePayload(descriptors[i])
		svg, err := RenderSVG(payload)
		if err != nil {
			return "", err
		}
		svgs[i] = svg
	}

	return c.composer.Compose(descriptors, svgs)
}
