package models

import "time"

// AdminUser is a principal of the outer service. The core slip-generation
// pipeline never consults it directly; it rides along as the ambient
// auth collaborator §6 describes as already authenticated by the time a
// request reaches the core.
type AdminUser struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Descriptor is the sole user-facing entity of the core. One Descriptor
// produces exactly one page of the generated PDF.
type Descriptor struct {
	CreditorIBAN    string `json:"creditor_iban"`
	CreditorName    string `json:"creditor_name"`
	CreditorAddress string `json:"creditor_address"`
	CreditorZipCode string `json:"creditor_zip_code"`
	CreditorCity    string `json:"creditor_city"`
	CreditorCountry string `json:"creditor_country"`

	DebtorName    string `json:"debtor_name"`
	DebtorAddress string `json:"debtor_address"`
	DebtorZipCode string `json:"debtor_zip_code"`
	DebtorCity    string `json:"debtor_city"`
	DebtorCountry string `json:"debtor_country"`

	Amount   string `json:"amount"`
	Currency string `json:"currency"`

	ReferenceType   string `json:"reference_type"`
	ReferenceNumber string `json:"reference_number,omitempty"`

	AdditionalInformation string `json:"additional_information,omitempty"`
}
