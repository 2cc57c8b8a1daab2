package repository

import (
	"time"

	"github.com/google/uuid"
)

// maxIDAttempts bounds the collision-check loop in newUniqueID.
const maxIDAttempts = 8

// IDGenerator returns a candidate identifier. Candidates are checked for
// collisions before use.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// UUIDGenerator is the default IDGenerator.
func UUIDGenerator() string {
	return uuid.NewString()
}

func utcNow() time.Time {
	return time.Now().UTC()
}

// newUniqueID asks gen for candidates until taken reports one as free.
func newUniqueID(gen IDGenerator, taken func(id string) bool) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := gen()
		if id != "" && !taken(id) {
			return id, nil
		}
	}
	return "", ErrIDExhausted
}
