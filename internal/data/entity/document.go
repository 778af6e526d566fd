package entity

import "github.com/google/uuid"

// Required document names for the premium role upgrade.
const (
	DocIdentification = "Identification"
	DocProofOfAddress = "Proof of address"
	DocProofOfAccount = "Proof of account status"
)

func RequiredDocuments() []string {
	return []string{DocIdentification, DocProofOfAddress, DocProofOfAccount}
}

type Document struct {
	BaseSimple
	UserID    uuid.UUID `db:"user_id"`
	Name      string    `db:"name"`
	Reference string    `db:"reference"`
}
