package models

import "time"

// GuestStatus tracks a guest invite through its lifecycle. Transitions only
// move forward: PENDING -> CHECKED_IN on a successful scan, and any
// non-checked-in invite may be revoked administratively.
type GuestStatus string

const (
	StatusPending   GuestStatus = "PENDING"
	StatusCheckedIn GuestStatus = "CHECKED_IN"
	StatusRevoked   GuestStatus = "REVOKED"
)

// DocumentType enumerates the identity documents accepted at registration.
type DocumentType string

const (
	DocumentCPF      DocumentType = "CPF"
	DocumentRG       DocumentType = "RG"
	DocumentCNH      DocumentType = "CNH"
	DocumentPassport DocumentType = "PASSPORT"
)

// ValidDocumentType reports whether t belongs to the accepted set.
func ValidDocumentType(t DocumentType) bool {
	switch t {
	case DocumentCPF, DocumentRG, DocumentCNH, DocumentPassport:
		return true
	}
	return false
}

// GuestInvite represents one registered guest: contact identity, profile,
// and check-in state. Email, phone, and document number are natural keys;
// a registration matching any of them resolves to the existing record.
type GuestInvite struct {
	BaseModel

	FullName string `gorm:"not null" json:"full_name"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Phone    string `gorm:"uniqueIndex;not null" json:"phone"`

	DocumentType   *DocumentType `gorm:"size:16" json:"document_type,omitempty"`
	DocumentNumber *string       `gorm:"uniqueIndex" json:"document_number,omitempty"`

	Company  string `json:"company,omitempty"`
	JobTitle string `json:"job_title,omitempty"`
	State    string `gorm:"size:2;not null" json:"state"`
	City     string `gorm:"size:120;not null" json:"city"`

	// CheckInToken is the sole credential for the check-in transition.
	// Generated once at creation, never rotated.
	CheckInToken string `gorm:"uniqueIndex;not null" json:"-"`

	Status    GuestStatus `gorm:"not null;default:PENDING;index" json:"status"`
	CheckInAt *time.Time  `json:"check_in_at,omitempty"`
}
