package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/skip2/go-qrcode"
)

// modulePitch is the side length, in pixels, of a single QR module (§4.C).
const modulePitch = 4

// quietZoneModules is the mandatory white margin around the QR symbol,
// expressed in modules on each side.
const quietZoneModules = 4

// RenderSVG encodes payload as a QR symbol at EC level Q and renders it
// as an SVG document with the Swiss-cross overlay stitched in immediately
// before the closing `</svg>` tag (§4.C). Capacity overflow surfaces as
// QrCodeError; the markup is assembled directly with strings.Builder
// (see DESIGN.md).
func RenderSVG(payload string) (string, error) {
	qr, err := qrcode.New(payload, qrcode.High)
	if err != nil {
		return "", qrCodeErr(fmt.Sprintf("failed to encode QR payload: %v", err))
	}
	qr.DisableBorder = true

	bitmap := qr.Bitmap()
	moduleCount := len(bitmap)
	canvasWidth := modulePitch * (moduleCount + 2*quietZoneModules)

	svg := buildBaseSVG(bitmap, canvasWidth)
	return injectSwissCross(svg, canvasWidth), nil
}

func buildBaseSVG(bitmap [][]bool, canvasWidth int) string {
	var b strings.Builder

	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		canvasWidth, canvasWidth, canvasWidth, canvasWidth)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="#FFFFFF"/>`, canvasWidth, canvasWidth)

	offset := quietZoneModules * modulePitch
	for row, line := range bitmap {
		for col, dark := range line {
			if !dark {
				continue
			}
			x := offset + col*modulePitch
			y := offset + row*modulePitch
			fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="%d" fill="#000000"/>`,
				x, y, modulePitch, modulePitch)
		}
	}

	b.WriteString(`</svg>`)
	return b.String()
}

// injectSwissCross inserts the four-rectangle Swiss-cross emblem before
// the closing `</svg>` tag. If the tag is absent the input is returned
// untouched (§4.C malformed-renderer-output rule).
func injectSwissCross(svg string, canvasWidth int) string {
	idx := strings.LastIndex(svg, "</svg>")
	if idx == -1 {
		return svg
	}

	center := canvasWidth / 2

	var overlay strings.Builder
	overlay.WriteString(`<style>.st0{fill:#FFFFFF;}</style>`)
	writeRect(&overlay, center-18, center-18, 36, 36, "st0")
	writeBlackRect(&overlay, center-12, center-12, 24, 24)
	writeRect(&overlay, center-8, center-2, 16, 4, "st0")
	writeRect(&overlay, center-2, center-8, 4, 16, "st0")

	return svg[:idx] + overlay.String() + svg[idx:]
}

func writeRect(b *strings.Builder, x, y, w, h int, class string) {
	b.WriteString(`<rect x="` + strconv.Itoa(x) + `" y="` + strconv.Itoa(y) +
		`" width="` + strconv.Itoa(w) + `" height="` + strconv.Itoa(h) +
		`" class="` + class + `"/>`)
}

func writeBlackRect(b *strings.Builder, x, y, w, h int) {
	b.WriteString(`<rect x="` + strconv.Itoa(x) + `" y="` + strconv.Itoa(y) +
		`" width="` + strconv.Itoa(w) + `" height="` + strconv.Itoa(h) +
		`" fill="#000000"/>`)
}
