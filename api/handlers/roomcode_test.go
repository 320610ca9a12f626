package handlers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Nikhilsuthar09/vtrip-api/api/handlers"
)

func TestGenerateRoomCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		code, err := handlers.GenerateRoomCode()
		assert.NoError(t, err)
		assert.True(t, handlers.ValidRoomCode(code), "generated code %q should be valid", code)
		seen[code] = true
	}
	// 200 draws from a 36^5 space should essentially never collide
	assert.Greater(t, len(seen), 190)
}

func TestValidRoomCode(t *testing.T) {
	assert.True(t, handlers.ValidRoomCode("AB12C"))
	assert.True(t, handlers.ValidRoomCode("ZZZZZ"))
	assert.False(t, handlers.ValidRoomCode("ab12c"))
	assert.False(t, handlers.ValidRoomCode("AB12"))
	assert.False(t, handlers.ValidRoomCode("AB12CD"))
	assert.False(t, handlers.ValidRoomCode("AB 2C"))
	assert.False(t, handlers.ValidRoomCode(""))
}
