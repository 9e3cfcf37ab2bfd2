package util

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// NewULID generates a new ULID string.
// ULIDs are used both for entity identifiers and for scratch artifact
// tokens, where collision-freedom across concurrent pipeline runs is a
// correctness requirement, so entropy comes from crypto/rand.
func NewULID() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
