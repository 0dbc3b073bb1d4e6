package services

import (
	"testing"

	"github.com/aj9599/qr-slip/models"
)

func baseDescriptor() models.Descriptor {
	return models.Descriptor{
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
	}
}

// S1 — QRR happy path.
func TestValidateS1QRRHappyPath(t *testing.T) {
	d := baseDescriptor()
	if err := Validate(&d); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if d.CreditorIBAN != "CH44 3199 9123 0008 8901 2" {
		t.Errorf("expected normalised grouped IBAN, got %q", d.CreditorIBAN)
	}
}

// S2 — QRR with non-QR-IBAN rejected.
func TestValidateS2QRRNonQRIBANRejected(t *testing.T) {
	d := baseDescriptor()
	d.CreditorIBAN = "CH9300762011623852957"
	err := Validate(&d)
	assertInvalidInput(t, err)
}

// S3 — SCOR accepts.
func TestValidateS3SCORAccepts(t *testing.T) {
	d := baseDescriptor()
	d.CreditorIBAN = "CH9300762011623852957"
	d.ReferenceType = "SCOR"
	d.ReferenceNumber = "RF18539007547034"
	if err := Validate(&d); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

// S4 — NON with reference rejected.
func TestValidateS4NONWithReferenceRejected(t *testing.T) {
	d := baseDescriptor()
	d.CreditorIBAN = "CH9300762011623852957"
	d.ReferenceType = "NON"
	d.ReferenceNumber = "X"
	err := Validate(&d)
	assertInvalidInput(t, err)
}

// S5 — Amount leading zero rejected.
func TestValidateS5AmountLeadingZeroRejected(t *testing.T) {
	d := baseDescriptor()
	d.Amount = "01.00"
	err := Validate(&d)
	assertInvalidInput(t, err)
}

func TestValidateAmountBoundaries(t *testing.T) {
	cases := []struct {
		amount string
		ok     bool
	}{
		{"0.01", true},
		{"0.00", false},
		{"999999999.99", true},
		{"1000000000.00", false},
		{"01.00", false},
		{"1.0", false},
		{"1", false},
	}

	for _, c := range cases {
		d := baseDescriptor()
		d.Amount = c.amount
		err := Validate(&d)
		if c.ok && err != nil {
			t.Errorf("amount %q: expected pass, got %v", c.amount, err)
		}
		if !c.ok && err == nil {
			t.Errorf("amount %q: expected failure, got none", c.amount)
		}
	}
}

func TestValidateCreditorNameBoundaries(t *testing.T) {
	d := baseDescriptor()
	d.CreditorName = repeatChar('A', 70)
	if err := Validate(&d); err != nil {
		t.Errorf("length 70: expected pass, got %v", err)
	}

	d = baseDescriptor()
	d.CreditorName = repeatChar('A', 71)
	if err := Validate(&d); err == nil {
		t.Error("length 71: expected failure")
	}

	d = baseDescriptor()
	d.CreditorName = ""
	if err := Validate(&d); err == nil {
		t.Error("length 0: expected failure")
	}
}

func TestValidateZipCityCombinedLengthBoundary(t *testing.T) {
	d := baseDescriptor()
	d.CreditorZipCode = repeatChar('1', 34)
	d.CreditorCity = repeatChar('A', 35)
	if err := Validate(&d); err != nil {
		t.Errorf("69 combined: expected pass, got %v", err)
	}

	d = baseDescriptor()
	d.CreditorZipCode = repeatChar('1', 34)
	d.CreditorCity = repeatChar('A', 36)
	if err := Validate(&d); err == nil {
		t.Error("70 combined: expected failure")
	}
}

func TestValidateCountryCodeLength(t *testing.T) {
	d := baseDescriptor()
	d.CreditorCountry = "CH"
	if err := Validate(&d); err != nil {
		t.Errorf("CH: expected pass, got %v", err)
	}

	d = baseDescriptor()
	d.CreditorCountry = "CHE"
	if err := Validate(&d); err == nil {
		t.Error("CHE: expected failure")
	}
}

func TestValidateIdempotent(t *testing.T) {
	d := baseDescriptor()
	if err := Validate(&d); err != nil {
		t.Fatalf("first validate: %v", err)
	}
	first := d.CreditorIBAN

	if err := Validate(&d); err != nil {
		t.Fatalf("second validate: %v", err)
	}
	if d.CreditorIBAN != first {
		t.Errorf("second validate changed normalised IBAN: %q -> %q", first, d.CreditorIBAN)
	}
}

func TestIsQRIBAN(t *testing.T) {
	if !IsQRIBAN("CH4431999123000889012") {
		t.Error("expected CH4431999123000889012 to be a QR-IBAN")
	}
	if IsQRIBAN("CH9300762011623852957") {
		t.Error("expected CH9300762011623852957 not to be a QR-IBAN")
	}
	if IsQRIBAN("short") {
		t.Error("expected malformed input to report false, not panic")
	}
}

func assertInvalidInput(t *testing.T, err error) {
	t.Helper()
	failure, ok := err.(*Failure)
	if !ok {
		t.Fatalf("expected *Failure, got %T (%v)", err, err)
	}
	if failure.Kind != InvalidRequestInput {
		t.Errorf("expected InvalidRequestInput, got %v", failure.Kind)
	}
	if failure.Status() != 400 {
		t.Errorf("expected HTTP 400, got %d", failure.Status())
	}
}

func repeatChar(c byte, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = c
	}
	return string(b)
}
