// Package id generates the identifiers mockwire hands out: mock ids for
// registrations that arrive without one, and short ids that tag the log
// lines of a single connection.
package id

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// UUID generates a random (version 4) UUID in its canonical 36 character
// form.
func UUID() string {
	return uuid.NewString()
}

// Short generates a 16 character hex id. It is taken from the random bits
// of a UUID, so it is unique enough to tell concurrent connections apart
// in logs but is not meant to be stored.
func Short() string {
	u := uuid.New()
	return hex.EncodeToString(u[8:16])
}

// IsUUID reports whether s is a canonical UUID string.
func IsUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	return uuid.Validate(s) == nil
}
