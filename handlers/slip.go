package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/aj9599/qr-slip/models"
	"github.com/aj9599/qr-slip/services"
	"github.com/google/uuid"
)

// SlipHandler exposes the slip-generation pipeline over HTTP: the
// public /generate-slip endpoint plus the debug-only artifact-dumping
// endpoints (§6). It owns no state beyond the coordinator it wraps.
type SlipHandler struct {
	coordinator *services.Coordinator
}

func NewSlipHandler(coordinator *services.Coordinator) *SlipHandler {
	return &SlipHandler{coordinator: coordinator}
}

// writeFailure translates a services.Failure into the wire envelope
// fixed by §6: {"message": <text>, "status": <status-text>}. Per §7
// policy, only InvalidRequestInput carries its descriptive reason to
// the client; every other kind is worker/engine-side and is logged at
// error level here, with the client seeing nothing beyond the opaque
// HTTP status text.
func writeFailure(w http.ResponseWriter, err error) {
	var failure *services.Failure
	status := http.StatusInternalServerError
	message := err.Error()

	if errors.As(err, &failure) {
		status = failure.Status()
		if failure.Kind != services.InvalidRequestInput {
			log.Printf("[SLIP] worker/engine error: %v", err)
			message = http.StatusText(status)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"message": message,
		"status":  http.StatusText(status),
	})
}

func decodeDescriptors(r *http.Request) ([]models.Descriptor, error) {
	var descriptors []models.Descriptor
	if err := json.NewDecoder(r.Body).Decode(&descriptors); err != nil {
		return nil, err
	}
	return descriptors, nil
}

// GenerateSlip handles POST /generate-slip: the public surface of the
// whole pipeline (§6).
func (h *SlipHandler) GenerateSlip(w http.ResponseWriter, r *http.Request) {
	descriptors, err := decodeDescriptors(r)
	if err != nil {
		writeFailure(w, &services.Failure{Kind: services.InvalidRequestInput, Reason: "malformed request body: " + err.Error()})
		return
	}

	pdfBytes, err := h.coordinator.Generate(descriptors)
	if err != nil {
		writeFailure(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}

// DebugDumpPDF handles POST /dbg-qr-pdf: runs the full pipeline and
// writes the resulting PDF to tmp/<uuid>.pdf instead of returning it
// (§6, registered only under config.IsDevelopment()).
func (h *SlipHandler) DebugDumpPDF(w http.ResponseWriter, r *http.Request) {
	descriptors, err := decodeDescriptors(r)
	if err != nil {
		writeFailure(w, &services.Failure{Kind: services.InvalidRequestInput, Reason: "malformed request body: " + err.Error()})
		return
	}

	pdfBytes, err := h.coordinator.Generate(descriptors)
	if err != nil {
		writeFailure(w, err)
		return
	}

	if err := dumpArtifact(pdfBytes, "pdf"); err != nil {
		writeFailure(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// DebugDumpHTML handles POST /dbg-qr-html: validates and renders the
// SVGs for every descriptor in the array body, composes the HTML
// document, and writes it to tmp/<uuid>.html.
func (h *SlipHandler) DebugDumpHTML(w http.ResponseWriter, r *http.Request) {
	descriptors, err := decodeDescriptors(r)
	if err != nil {
		writeFailure(w, &services.Failure{Kind: services.InvalidRequestInput, Reason: "malformed request body: " + err.Error()})
		return
	}

	html, err := h.coordinator.ComposeHTML(descriptors)
	if err != nil {
		writeFailure(w, err)
		return
	}

	if err := dumpArtifact([]byte(html), "html"); err != nil {
		writeFailure(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// DebugDumpSVG handles POST /dbg-qr-svg: the request body is a single
// Descriptor object (not an array), validated and rendered to SVG,
// written to tmp/<uuid>.svg.
func (h *SlipHandler) DebugDumpSVG(w http.ResponseWriter, r *http.Request) {
	var descriptor models.Descriptor
	if err := json.NewDecoder(r.Body).Decode(&descriptor); err != nil {
		writeFailure(w, &services.Failure{Kind: services.InvalidRequestInput, Reason: "malformed request body: " + err.Error()})
		return
	}

	if err := services.Validate(&descriptor); err != nil {
		writeFailure(w, err)
		return
	}

	svg, err := services.RenderSVG(services.EncodePayload(descriptor))
	if err != nil {
		writeFailure(w, err)
		return
	}

	if err := dumpArtifact([]byte(svg), "svg"); err != nil {
		writeFailure(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func dumpArtifact(data []byte, ext string) error {
	if err := os.MkdirAll("tmp", 0755); err != nil {
		return &services.Failure{Kind: services.IoError, Reason: "failed to create tmp directory: " + err.Error()}
	}

	path := filepath.Join("tmp", uuid.NewString()+"."+ext)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &services.Failure{Kind: services.IoError, Reason: "failed to write debug artifact: " + err.Error()}
	}

	log.Printf("[SLIP] debug artifact written: %s", path)
	return nil
}
