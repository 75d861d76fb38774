package models

import "time"

type DocumentType string

const (
	DocPassport       DocumentType = "passport"
	DocDriversLicense DocumentType = "drivers_license"
	DocUtilityBill    DocumentType = "utility_bill"
	DocBankStatement  DocumentType = "bank_statement"
)

func (t DocumentType) Valid() bool {
	return t.IsIdentity() || t.IsAddressProof()
}

// IsIdentity informa se o documento comprova identidade.
func (t DocumentType) IsIdentity() bool {
	return t == DocPassport || t == DocDriversLicense
}

// IsAddressProof informa se o documento comprova endereço.
func (t DocumentType) IsAddressProof() bool {
	return t == DocUtilityBill || t == DocBankStatement
}

type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "pending"
	DocumentApproved DocumentStatus = "approved"
	DocumentRejected DocumentStatus = "rejected"
)

// KYCDocument é o registro de um documento enviado para verificação.
type KYCDocument struct {
	ID         string         `json:"id" yaml:"id" db:"id"`
	UserID     string         `json:"-" yaml:"-" db:"user_id"`
	Type       DocumentType   `json:"type" yaml:"type" db:"type"`
	FileName   string         `json:"file_name" yaml:"file_name" db:"file_name"`
	UploadedAt time.Time      `json:"uploaded_at" yaml:"uploaded_at" db:"uploaded_at"`
	Status     DocumentStatus `json:"status" yaml:"status" db:"status"`
	Notes      string         `json:"notes,omitempty" yaml:"notes" db:"notes"`
}
