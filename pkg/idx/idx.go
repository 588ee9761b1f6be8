// Package idx mints the ULID identifiers used for invitations, users,
// properties and request ids. ULIDs sort by creation time, so listing by id
// is listing by age.
package idx

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// New returns an id stamped with the current time.
func New() string {
	return NewAt(time.Now())
}

// NewAt returns an id stamped with t. Ids minted for the same millisecond
// still increase monotonically.
func NewAt(t time.Time) string {
	mu.Lock()
	defer mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t.UTC()), entropy).String()
}

// Valid reports whether s is a canonical ULID. Handlers use it to turn
// malformed path ids into a 404 without a store round trip.
func Valid(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}
