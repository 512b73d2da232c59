// Package reference generates and validates payment reference numbers.
// Format: ZMP + 8-digit timestamp suffix + 6-character random string,
// e.g. ZMP12345678AB3DEF. References correlate a checkout session with
// the gateway callback; they are convenience identifiers, not security
// tokens, so collision probability is not formally bounded.
package reference

import (
	"math/rand/v2"
	"regexp"
	"strconv"
	"time"
)

// Prefix is fixed for all references issued by this storefront.
const Prefix = "ZMP"

const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var pattern = regexp.MustCompile(`^ZMP\d{8}[A-Z0-9]{6}$`)

// Generate returns a new unique payment reference. It never fails.
func Generate() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)
	suffix := ts[len(ts)-8:]

	random := make([]byte, 6)
	for i := range random {
		random[i] = charset[rand.IntN(len(charset))]
	}

	return Prefix + suffix + string(random)
}

// IsValid reports whether s matches the reference format.
func IsValid(s string) bool {
	return pattern.MatchString(s)
}
