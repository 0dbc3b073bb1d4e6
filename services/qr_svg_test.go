package services

import (
	"strconv"
	"strings"
	"testing"
)

func TestRenderSVGStructure(t *testing.T) {
	svg, err := RenderSVG("SPC\n0200\n1\nCH4431999123000889012\nEPD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Count(svg, "</svg>") != 1 {
		t.Errorf("expected exactly one </svg>, got %d", strings.Count(svg, "</svg>"))
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Errorf("expected document to end with </svg>, got suffix %q", svg[max(0, len(svg)-20):])
	}

	overlayStart := strings.Index(svg, `<style>.st0`)
	if overlayStart == -1 {
		t.Fatal("expected Swiss-cross overlay style block to be present")
	}
	overlayRects := strings.Count(svg[overlayStart:], "<rect")
	if overlayRects != 4 {
		t.Errorf("expected exactly four overlay <rect> elements, got %d", overlayRects)
	}
}

func TestRenderSVGOverlayCentered(t *testing.T) {
	svg, err := RenderSVG("short-payload")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	widthIdx := strings.Index(svg, `width="`)
	if widthIdx == -1 {
		t.Fatal("expected a width attribute on the root svg element")
	}
	rest := svg[widthIdx+len(`width="`):]
	endIdx := strings.Index(rest, `"`)
	if endIdx == -1 {
		t.Fatal("malformed width attribute")
	}
	width, err := strconv.Atoi(rest[:endIdx])
	if err != nil {
		t.Fatalf("non-numeric width attribute %q: %v", rest[:endIdx], err)
	}
	center := width / 2

	if !strings.Contains(svg, `class="st0"`) {
		t.Error("expected white overlay rectangles to carry the st0 class")
	}
	if !strings.Contains(svg, `fill="#000000"`) {
		t.Error("expected at least one black-filled rectangle (modules or overlay core)")
	}

	overlayStart := strings.Index(svg, `<style>.st0`)
	if overlayStart == -1 {
		t.Fatal("expected Swiss-cross overlay style block to be present")
	}
	overlay := svg[overlayStart:]

	for _, rect := range []struct {
		name       string
		x, y, w, h int
	}{
		{"outer white square", center - 18, center - 18, 36, 36},
		{"inner black square", center - 12, center - 12, 24, 24},
		{"horizontal white bar", center - 8, center - 2, 16, 4},
		{"vertical white bar", center - 2, center - 8, 4, 16},
	} {
		want := `x="` + strconv.Itoa(rect.x) + `" y="` + strconv.Itoa(rect.y) +
			`" width="` + strconv.Itoa(rect.w) + `" height="` + strconv.Itoa(rect.h) + `"`
		if !strings.Contains(overlay, want) {
			t.Errorf("%s: expected overlay rect attributes %q in overlay markup, got %q", rect.name, want, overlay)
		}
	}
}

func TestInjectSwissCrossNoClosingTag(t *testing.T) {
	out := injectSwissCross("<svg><rect/>", 100)
	if out != "<svg><rect/>" {
		t.Errorf("expected malformed input to be returned untouched, got %q", out)
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
