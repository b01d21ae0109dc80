// Package daily derives the shared secret for the daily challenge.
//
// Everyone playing on the same UTC date gets the same secret, computed as
// min + HMAC-SHA256(salt, YYYY-MM-DD) mod (max-min).
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/guess/internal/game"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// SecretFor returns the deterministic secret for date in [min, max).
// An empty range yields min.
func SecretFor(date time.Time, salt string, min, max int) int {
	if max <= min {
		return min
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for modulus distribution
	n := binary.BigEndian.Uint64(sum[:8])
	return min + int(n%uint64(max-min))
}

// Source is a game.SecretSource pinned to one date.
type Source struct {
	Date time.Time
	Salt string
}

var _ game.SecretSource = Source{}

func (s Source) IntRange(min, max int) (int, error) {
	if min >= max {
		return 0, game.ErrInvalidRange
	}
	return SecretFor(s.Date, s.Salt, min, max), nil
}
