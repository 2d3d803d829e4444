package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomCodeShape(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 500; i++ {
		code := RandomCode()
		assert.True(t, IsValidCode(code), code)
		seen[code] = struct{}{}
	}
	// 500 draws from 36^6 colliding more than a handful of times means a broken source.
	assert.Greater(t, len(seen), 495)
}

func TestIsValidCode(t *testing.T) {
	assert.True(t, IsValidCode("AB12Z9"))
	assert.False(t, IsValidCode("ab12z9"))
	assert.False(t, IsValidCode("AB12Z"))
	assert.False(t, IsValidCode("AB12Z9X"))
	assert.False(t, IsValidCode("AB-2Z9"))
}
