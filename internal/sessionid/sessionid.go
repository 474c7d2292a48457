// Package sessionid generates the identifiers that name therapy sessions.
//
// An identifier is a base-36 millisecond timestamp followed by a 9-character
// base-36 random suffix, e.g. "m7kq3f2ab-x81kz0pq4". The timestamp prefix
// keeps identifiers roughly sortable by creation time; the suffix makes
// collisions within a millisecond practically impossible.
package sessionid

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const suffixLen = 9

// New returns a fresh session identifier.
func New() string {
	return At(time.Now())
}

// At returns an identifier whose timestamp component is the given time.
func At(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 36) + "-" + randomSuffix()
}

// randomSuffix encodes random uuid bytes in base 36 and keeps the first
// suffixLen characters.
func randomSuffix() string {
	var sb strings.Builder
	for sb.Len() < suffixLen {
		id := uuid.New()
		for _, b := range id {
			sb.WriteString(strconv.FormatInt(int64(b)%36, 36))
			if sb.Len() >= suffixLen {
				break
			}
		}
	}
	return sb.String()[:suffixLen]
}
