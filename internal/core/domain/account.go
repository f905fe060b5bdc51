package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account is a registered user. The email is the immutable handle; the
// credential hash is never exposed outside the account service.
type Account struct {
	ID             uuid.UUID
	Email          string
	Name           string
	CredentialHash string
	CreatedAt      time.Time
}
