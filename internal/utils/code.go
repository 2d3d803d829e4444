package utils

import (
	"crypto/rand"
	"math/big"

	"chat-directory-server/internal/models"
)

var charsetSize = big.NewInt(int64(len(models.UniqueCodeCharset)))

// RandomCode draws a uniformly distributed user code from A-Z0-9.
func RandomCode() string {
	buf := make([]byte, models.UniqueCodeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, charsetSize)
		if err != nil {
			panic("utils: crypto/rand unavailable: " + err.Error())
		}
		buf[i] = models.UniqueCodeCharset[n.Int64()]
	}
	return string(buf)
}

// IsValidCode reports whether s has the shape of a user code.
func IsValidCode(s string) bool {
	if len(s) != models.UniqueCodeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'A' && c <= 'Z') && !(c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
