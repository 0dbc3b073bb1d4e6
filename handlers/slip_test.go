package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aj9599/qr-slip/models"
	"github.com/aj9599/qr-slip/services"
)

type stubPDFEngine struct {
	result []byte
	err    error
}

func (s *stubPDFEngine) Submit(html string) ([]byte, error) {
	return s.result, s.err
}

func validBody() []models.Descriptor {
	return []models.Descriptor{{
		CreditorIBAN:    "CH4431999123000889012",
		CreditorName:    "Lea Schmid",
		CreditorAddress: "Bahnhofstrasse 1",
		CreditorZipCode: "8001",
		CreditorCity:    "Zürich",
		CreditorCountry: "CH",

		DebtorName:    "Max Muster",
		DebtorAddress: "Dorfstrasse 5",
		DebtorZipCode: "3000",
		DebtorCity:    "Bern",
		DebtorCountry: "CH",

		Amount:   "199.95",
		Currency: "CHF",

		ReferenceType:   "QRR",
		ReferenceNumber: "210000000003139471430009017",
	}}
}

func newTestSlipHandler(t *testing.T, engine services.PDFEngine) *SlipHandler {
	t.Helper()
	composer, err := services.NewHTMLComposer("../templates")
	if err != nil {
		t.Fatalf("failed to load template: %v", err)
	}
	return NewSlipHandler(services.NewCoordinator(composer, engine))
}

func TestGenerateSlip(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		engine     services.PDFEngine
		wantStatus int
	}{
		{
			name:       "valid descriptors return pdf bytes",
			body:       validBody(),
			engine:     &stubPDFEngine{result: []byte("%PDF-fake%")},
			wantStatus: http.StatusOK,
		},
		{
			name:       "malformed json body",
			body:       "not an array",
			engine:     &stubPDFEngine{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "invalid descriptor rejected before engine submission",
			body: []models.Descriptor{{
				CreditorIBAN: "CH4431999123000889012",
				Amount:       "01.00",
			}},
			engine:     &stubPDFEngine{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "engine failure surfaces as 500",
			body:       validBody(),
			engine:     &stubPDFEngine{err: &services.Failure{Kind: services.PdfError, Reason: "boom"}},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestSlipHandler(t, tt.engine)

			var payload []byte
			switch v := tt.body.(type) {
			case string:
				payload = []byte(v)
			default:
				payload, _ = json.Marshal(v)
			}

			req := httptest.NewRequest(http.MethodPost, "/generate-slip", bytes.NewReader(payload))
			rec := httptest.NewRecorder()

			h.GenerateSlip(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body: %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus == http.StatusOK {
				if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
					t.Errorf("Content-Type = %q, want application/pdf", ct)
				}
				if rec.Body.String() != "%PDF-fake%" {
					t.Errorf("body = %q, want stub engine output", rec.Body.String())
				}
			}
		})
	}
}

func TestDebugDumpSVGRejectsInvalidDescriptor(t *testing.T) {
	h := newTestSlipHandler(t, &stubPDFEngine{})

	body, _ := json.Marshal(models.Descriptor{CreditorIBAN: "not-an-iban"})
	req := httptest.NewRequest(http.MethodPost, "/dbg-qr-svg", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.DebugDumpSVG(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
