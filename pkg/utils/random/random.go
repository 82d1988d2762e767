package random

import (
	"crypto/rand"
	"math/big"
)

const digits = "0123456789"

// Numeric returns a random digit string, used for guest display suffixes.
func Numeric(length int) string {
	if length <= 0 {
		return ""
	}
	max := big.NewInt(int64(len(digits)))
	out := make([]byte, length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			out[i] = digits[0]
			continue
		}
		out[i] = digits[n.Int64()]
	}
	return string(out)
}
