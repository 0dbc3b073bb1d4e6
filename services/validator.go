package services

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/aj9599/qr-slip/models"
)

// ibanLengths is the fixed total IBAN length per country, restricted to
// the two countries the QR-bill spec accepts (§3, §4.A). No IBAN-parsing
// library appears anywhere in the retrieval pack (see DESIGN.md), so the
// ISO 7064 MOD 97-10 checksum and grouping are implemented directly,
// mirroring the structural checks `original_source`'s `iban` crate
// performs (country code, checksum, printable grouped form).
var ibanLengths = map[string]int{
	"CH": 21,
	"LI": 21,
}

// Validate enforces every per-field and cross-field rule in §4.A and
// rewrites d.CreditorIBAN to its normalised (grouped) form as soon as the
// IBAN parses, so a descriptor that fails a later check also carries the
// normalised IBAN.
// It short-circuits on the first failure, exactly as the reference
// algorithm specifies.
func Validate(d *models.Descriptor) error {
	normalizedIBAN, err := parseIBAN(d.CreditorIBAN)
	if err != nil {
		return invalidInput("Provided IBAN '" + d.CreditorIBAN + "' is invalid: " + err.Error())
	}
	d.CreditorIBAN = normalizedIBAN

	if err := checkLength("creditor_name", d.CreditorName, 1, 70); err != nil {
		return err
	}
	if err := checkLength("creditor_address", d.CreditorAddress, 1, 70); err != nil {
		return err
	}
	if err := checkLength("debtor_name", d.DebtorName, 1, 70); err != nil {
		return err
	}
	if err := checkLength("debtor_address", d.DebtorAddress, 1, 70); err != nil {
		return err
	}
	if err := checkLength("creditor_country", d.CreditorCountry, 2, 2); err != nil {
		return err
	}
	if err := checkLength("debtor_country", d.DebtorCountry, 2, 2); err != nil {
		return err
	}
	if err := checkLength("additional_information", d.AdditionalInformation, 0, 140); err != nil {
		return err
	}

	if err := validateAmount(d.Amount); err != nil {
		return err
	}

	if d.Currency != "CHF" && d.Currency != "EUR" {
		return invalidInput("Currency must be one of CHF or EUR")
	}

	if len(d.CreditorZipCode)+len(d.CreditorCity) > 69 {
		return invalidInput("Combined length of creditor zip code and city may not exceed 69")
	}
	if len(d.DebtorZipCode)+len(d.DebtorCity) > 69 {
		return invalidInput("Combined length of debtor zip code and city may not exceed 69")
	}

	return validateReferenceTriad(d)
}

func checkLength(field, value string, min, max int) error {
	n := len(value)
	if n < min || n > max {
		return invalidInput(field + " must be between " + strconv.Itoa(min) + " and " + strconv.Itoa(max) + " characters long")
	}
	return nil
}

func validateAmount(amount string) error {
	parts := strings.Split(amount, ".")
	if len(parts) != 2 {
		return invalidInput("Amount must be of the form <integral>.<fractional>")
	}

	integral, fractional := parts[0], parts[1]

	if len(fractional) != 2 || !isAllDigits(fractional) {
		return invalidInput("Amount's fractional part must be exactly two digits")
	}
	if integral == "" || !isAllDigits(integral) {
		return invalidInput("Amount's integral part must be numeric")
	}
	if len(integral) > 1 && integral[0] == '0' {
		return invalidInput("Amount's integral part must not have a leading zero")
	}

	integralValue, err := strconv.Atoi(integral)
	if err != nil || integralValue > 999999999 {
		return invalidInput("Amount's integral part must not exceed 999999999")
	}

	if integralValue == 0 && fractional == "00" {
		return invalidInput("Amount must be at least 0.01")
	}

	return nil
}

func validateReferenceTriad(d *models.Descriptor) error {
	switch d.ReferenceType {
	case "QRR":
		if d.ReferenceNumber == "" {
			return invalidInput("Reference number must be provided when the reference type is QRR")
		}
		if len(d.ReferenceNumber) != 27 {
			return invalidInput("Reference number must be of length 27 when the reference type is QRR")
		}
		if !isAllDigits(d.ReferenceNumber) {
			return invalidInput("Reference number must be numerical when the reference type is QRR")
		}
		if !IsQRIBAN(d.CreditorIBAN) {
			return invalidInput("IBAN must be a QR-IBAN (1-based position 5-9 must be between 30000 and 31999) when the reference type is QRR")
		}

	case "SCOR":
		if d.ReferenceNumber == "" {
			return invalidInput("Reference number must be provided when the reference type is SCOR")
		}
		if len(d.ReferenceNumber) < 5 || len(d.ReferenceNumber) > 25 {
			return invalidInput("Reference number must be of length 5 to 25 when the reference type is SCOR")
		}
		if !isAlphanumeric(d.ReferenceNumber) {
			return invalidInput("Reference number must be alphanumeric when the reference type is SCOR")
		}
		if IsQRIBAN(d.CreditorIBAN) {
			return invalidInput("IBAN must not be a QR-IBAN when the reference type is SCOR")
		}

	case "NON":
		if d.ReferenceNumber != "" {
			return invalidInput("Reference number must not be provided when the reference type is NON")
		}
		if IsQRIBAN(d.CreditorIBAN) {
			return invalidInput("IBAN must not be a QR-IBAN when the reference type is NON")
		}

	default:
		return invalidInput("Reference type must be one of QRR, SCOR or NON")
	}

	return nil
}

// IsQRIBAN reports whether the five characters at 1-based positions
// 5..9 of iban parse as an unsigned integer in 30000..31999 (§4.A). It
// never panics; a malformed IBAN simply yields false.
func IsQRIBAN(iban string) bool {
	cleaned := strings.ReplaceAll(iban, " ", "")
	if len(cleaned) < 9 {
		return false
	}
	iid, err := strconv.Atoi(cleaned[4:9])
	if err != nil {
		return false
	}
	return iid >= 30000 && iid <= 31999
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r >= '0' && r <= '9') && !(r >= 'A' && r <= 'Z') && !(r >= 'a' && r <= 'z') {
			return false
		}
	}
	return true
}

// parseIBAN validates the structural and checksum form of an IBAN and
// returns its normalised, space-grouped (4-character blocks) printable
// form. Only CH and LI are accepted, matching the QR-bill spec (§4.A).
func parseIBAN(raw string) (string, error) {
	cleaned := strings.ToUpper(strings.ReplaceAll(raw, " ", ""))
	if len(cleaned) < 4 {
		return "", newIBANError("too short")
	}

	country := cleaned[:2]
	expectedLen, ok := ibanLengths[country]
	if !ok {
		return "", newIBANError("country code must be CH or LI")
	}
	if len(cleaned) != expectedLen {
		return "", newIBANError("unexpected length for country " + country)
	}
	if cleaned[0] < 'A' || cleaned[0] > 'Z' || cleaned[1] < 'A' || cleaned[1] > 'Z' {
		return "", newIBANError("country code must be alphabetic")
	}
	if !isAllDigits(cleaned[2:4]) {
		return "", newIBANError("check digits must be numeric")
	}
	if !isAlphanumeric(cleaned[4:]) {
		return "", newIBANError("BBAN must be alphanumeric")
	}

	if !mod97Checksum(cleaned) {
		return "", newIBANError("checksum is invalid")
	}

	return groupIBAN(cleaned), nil
}

// mod97Checksum implements ISO 7064 MOD 97-10: move the first four
// characters to the end, expand letters to two-digit numbers (A=10 ...
// Z=35), and check the resulting numeral is congruent to 1 mod 97.
func mod97Checksum(iban string) bool {
	rearranged := iban[4:] + iban[:4]

	var numeral strings.Builder
	for _, r := range rearranged {
		switch {
		case r >= '0' && r <= '9':
			numeral.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			numeral.WriteString(strconv.Itoa(int(r-'A') + 10))
		default:
			return false
		}
	}

	value, ok := new(big.Int).SetString(numeral.String(), 10)
	if !ok {
		return false
	}

	remainder := new(big.Int).Mod(value, big.NewInt(97))
	return remainder.Cmp(big.NewInt(1)) == 0
}

func groupIBAN(cleaned string) string {
	var out strings.Builder
	for i := 0; i < len(cleaned); i += 4 {
		if i > 0 {
			out.WriteByte(' ')
		}
		end := i + 4
		if end > len(cleaned) {
			end = len(cleaned)
		}
		out.WriteString(cleaned[i:end])
	}
	return out.String()
}

type ibanError struct{ msg string }

func (e *ibanError) Error() string { return e.msg }
func newIBANError(msg string) error { return &ibanError{msg: msg} }
