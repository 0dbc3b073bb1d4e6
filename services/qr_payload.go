package services

import (
	"strings"

	"github.com/aj9599/qr-slip/models"
)

// EncodePayload builds the 30-line "SPC / 0200 / 1 / ..." wire payload
// for a single, already-validated Descriptor (§4.B): six blank lines
// reserved for the unused structured ultimate-creditor address between
// the creditor country and the amount, two reserved for the unused
// debtor country sub-fields. Line count and order are bit-exact;
// consumers depend on byte positions, so this must never be
// reformatted into a templating call that could reorder or collapse
// blank lines.
func EncodePayload(d models.Descriptor) string {
	lines := []string{
		"SPC",
		"0200",
		"1",
		d.CreditorIBAN,
		"K",
		d.CreditorName,
		d.CreditorAddress,
		d.CreditorZipCode + " " + d.CreditorCity,
		"",
		"",
		d.CreditorCountry,
		"",
		"",
		"",
		"",
		"",
		"",
		d.Amount,
		d.Currency,
		"K",
		d.DebtorName,
		d.DebtorAddress,
		d.DebtorZipCode + " " + d.DebtorCity,
		"",
		"",
		d.DebtorCountry,
		d.ReferenceType,
		d.ReferenceNumber,
		d.AdditionalInformation,
		"EPD",
	}

	return strings.Join(lines, "\n")
}
