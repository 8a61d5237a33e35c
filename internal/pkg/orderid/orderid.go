// Package orderid generates globally unique, human-scannable order
// identifiers of the form ORD-<yyyymmdd>-<ULID>.
package orderid

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

var entropy = ulid.Monotonic(rand.Reader, 0)

// New returns a fresh order id stamped with the UTC date of t. The ULID
// suffix is monotonic within a millisecond, so collisions cannot occur even
// under concurrent creation.
func New(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("ORD-%s-%s", t.Format("20060102"), ulid.MustNew(ulid.Timestamp(t), entropy))
}
