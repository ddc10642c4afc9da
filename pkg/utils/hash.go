package utils

import (
	"crypto/md5"
	"fmt"
)

// HashStrings digests the concatenation of its inputs; used for cache keys.
func HashStrings(inputs ...string) string {
	h := md5.New()
	for _, in := range inputs {
		h.Write([]byte(in))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
