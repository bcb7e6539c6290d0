package signature

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Compute fingerprints the material fields of a feed record: name, brand,
// image URL and size-mapper name. Volatile fields (timestamps, stock, offer
// prices) stay out so that a pull without material changes never dirties the
// store. Not a cryptographic integrity check.
func Compute(name, brand, imageURL, sizeMapper string) string {
	payload := strings.Join([]string{name, brand, imageURL, sizeMapper}, "|")
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
